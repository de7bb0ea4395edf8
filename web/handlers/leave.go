package handlers

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	v1 "technuob.com/atomlift/atomlift/v1"
	"technuob.com/atomlift/atomlift/v1/common"
	"technuob.com/atomlift/utils"
	webcommon "technuob.com/atomlift/web/common"
)

const msgLeaveLocked = "Only pending leave requests can be edited or deleted"

// Yearly allotment per leave type, in days.
var leaveAllotment = map[string]float64{"casual": 12, "sick": 10, "earned": 15, "unpaid": 0, "other": 0}

type leavePayload struct {
	HalfDay   bool               `json:"half_day"`
	LeaveType string             `json:"leave_type" binding:"required"`
	FromDate  webcommon.DateOnly `json:"from_date"`
	ToDate    webcommon.DateOnly `json:"to_date"`
	Reason    string             `json:"reason" binding:"required"`
	Email     string             `json:"email" binding:"required,email"`
}

type leaveUpdatePayload struct {
	HalfDay   *bool               `json:"half_day"`
	LeaveType *string             `json:"leave_type"`
	FromDate  *webcommon.DateOnly `json:"from_date"`
	ToDate    *webcommon.DateOnly `json:"to_date"`
	Reason    *string             `json:"reason"`
	Email     *string             `json:"email" binding:"omitempty,email"`
}

func leaveTypeName(key string) (string, bool) {
	found := utils.Find(v1.PredefinedLeaveTypes(), func(t v1.LeaveTypeDTO) bool { return t.Key == key })
	if found == nil {
		return "", false
	}
	return found.Name, true
}

// applyDates enforces half day => to == from and to >= from. It returns "" when the range is valid.
func applyDates(l *v1.LeaveDTO) string {
	if l.FromDate == "" {
		return "from_date is required"
	}
	if l.HalfDay {
		l.ToDate = l.FromDate
	}
	if l.ToDate == "" {
		return "to_date is required"
	}
	if l.ToDate < l.FromDate {
		return "To date cannot be before from date"
	}
	return ""
}

func (this *Backend) LeaveCreate(c *gin.Context) {
	var p leavePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, webcommon.NewErrorResponse(webcommon.FormatBindingError(err)))
		return
	}
	display, ok := leaveTypeName(p.LeaveType)
	if !ok {
		c.JSON(http.StatusBadRequest, webcommon.NewErrorResponse("Unknown leave type "+strconv.Quote(p.LeaveType)))
		return
	}

	leave := &v1.LeaveDTO{
		HalfDay:          p.HalfDay,
		LeaveType:        p.LeaveType,
		LeaveTypeDisplay: display,
		FromDate:         p.FromDate.String(),
		ToDate:           p.ToDate.String(),
		Reason:           p.Reason,
		Email:            p.Email,
		Status:           common.LeavePending,
		StatusDisplay:    "Pending",
	}
	if msg := applyDates(leave); msg != "" {
		c.JSON(http.StatusBadRequest, webcommon.NewErrorResponse(msg))
		return
	}

	u := currentUser(c)
	this.mu.Lock()
	defer this.mu.Unlock()
	leave.ID = this.id()
	leave.CreatedAt = this.clock().Format(time.RFC3339)
	leave.UpdatedAt = leave.CreatedAt
	this.leaves[u.ID] = append(this.leaves[u.ID], leave)
	c.JSON(http.StatusCreated, webcommon.NewActionResponse("Leave request submitted successfully", "leave", leave))
}

func (this *Backend) LeaveList(c *gin.Context) {
	u := currentUser(c)
	this.mu.Lock()
	list := utils.Map(this.leaves[u.ID], func(l *v1.LeaveDTO) v1.LeaveDTO { return *l })
	this.mu.Unlock()

	sort.SliceStable(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	c.JSON(http.StatusOK, gin.H{"leave_requests": list})
}

// findLeave must be called with mu held.
func (this *Backend) findLeave(c *gin.Context) *v1.LeaveDTO {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return nil
	}
	found := utils.Find(this.leaves[currentUser(c).ID], func(l *v1.LeaveDTO) bool { return l.ID == id })
	if found == nil {
		return nil
	}
	return *found
}

func (this *Backend) LeaveGet(c *gin.Context) {
	this.mu.Lock()
	defer this.mu.Unlock()
	leave := this.findLeave(c)
	if leave == nil {
		c.JSON(http.StatusNotFound, webcommon.NewErrorResponse("Leave request not found"))
		return
	}
	c.JSON(http.StatusOK, leave)
}

func (this *Backend) LeaveUpdate(c *gin.Context) {
	var p leaveUpdatePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, webcommon.NewErrorResponse(webcommon.FormatBindingError(err)))
		return
	}

	this.mu.Lock()
	defer this.mu.Unlock()
	leave := this.findLeave(c)
	if leave == nil {
		c.JSON(http.StatusNotFound, webcommon.NewErrorResponse("Leave request not found"))
		return
	}
	if leave.Status != common.LeavePending {
		c.JSON(http.StatusBadRequest, webcommon.NewErrorResponse(msgLeaveLocked))
		return
	}

	next := *leave
	if p.HalfDay != nil {
		next.HalfDay = *p.HalfDay
	}
	if p.LeaveType != nil {
		display, ok := leaveTypeName(*p.LeaveType)
		if !ok {
			c.JSON(http.StatusBadRequest, webcommon.NewErrorResponse("Unknown leave type "+strconv.Quote(*p.LeaveType)))
			return
		}
		next.LeaveType, next.LeaveTypeDisplay = *p.LeaveType, display
	}
	if p.FromDate != nil {
		next.FromDate = p.FromDate.String()
	}
	if p.ToDate != nil {
		next.ToDate = p.ToDate.String()
	}
	if p.Reason != nil {
		next.Reason = *p.Reason
	}
	if p.Email != nil {
		next.Email = *p.Email
	}
	if msg := applyDates(&next); msg != "" {
		c.JSON(http.StatusBadRequest, webcommon.NewErrorResponse(msg))
		return
	}

	next.UpdatedAt = this.clock().Format(time.RFC3339)
	*leave = next
	c.JSON(http.StatusOK, webcommon.NewActionResponse("Leave request updated successfully", "leave", leave))
}

func (this *Backend) LeaveDelete(c *gin.Context) {
	u := currentUser(c)
	this.mu.Lock()
	defer this.mu.Unlock()
	leave := this.findLeave(c)
	if leave == nil {
		c.JSON(http.StatusNotFound, webcommon.NewErrorResponse("Leave request not found"))
		return
	}
	if leave.Status != common.LeavePending {
		c.JSON(http.StatusBadRequest, webcommon.NewErrorResponse(msgLeaveLocked))
		return
	}
	this.leaves[u.ID] = utils.Filter(this.leaves[u.ID], func(l *v1.LeaveDTO) bool { return l.ID != leave.ID })
	c.JSON(http.StatusOK, webcommon.NewActionResponse("Leave request deleted successfully", "", nil))
}

func (this *Backend) LeaveTypes(c *gin.Context) {
	c.JSON(http.StatusOK, v1.PredefinedLeaveTypes())
}

// LeaveCounts counts every request that was not rejected against the yearly allotment.
func (this *Backend) LeaveCounts(c *gin.Context) {
	u := currentUser(c)
	this.mu.Lock()
	used := map[string]float64{}
	for _, l := range this.leaves[u.ID] {
		if l.Status != common.LeaveRejected {
			used[l.LeaveType] += leaveDays(l)
		}
	}
	this.mu.Unlock()

	var counts []v1.LeaveCountDTO
	var allotted, usedTotal float64
	for _, t := range v1.PredefinedLeaveTypes() {
		a := leaveAllotment[t.Key]
		counts = append(counts, v1.LeaveCountDTO{
			LeaveType:        t.Key,
			LeaveTypeDisplay: t.Name,
			TotalAllotted:    a,
			TotalUsed:        used[t.Key],
			TotalRemaining:   max(a-used[t.Key], 0),
		})
		allotted += a
		usedTotal += used[t.Key]
	}
	c.JSON(http.StatusOK, v1.LeaveCountsDTO{
		Counts:                  counts,
		TotalAllLeavesAllotted:  &allotted,
		TotalAllLeavesUsed:      &usedTotal,
		TotalAllLeavesRemaining: utils.Ptr(max(allotted-usedTotal, 0)),
	})
}

func leaveDays(l *v1.LeaveDTO) float64 {
	if l.HalfDay {
		return 0.5
	}
	from, to := utils.MustParseDate(l.FromDate), utils.MustParseDate(l.ToDate)
	return to.Sub(from).Hours()/24 + 1
}
