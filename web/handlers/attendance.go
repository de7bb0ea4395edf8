package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	v1 "technuob.com/atomlift/atomlift/v1"
	"technuob.com/atomlift/utils"
	"technuob.com/atomlift/web/common"
)

var selfieExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

type checkOutPayload struct {
	Location string `json:"location"`
	Note     string `json:"note"`
}

type workCheckInPayload struct {
	Note string `json:"note"`
}

// todayRecord must be called with mu held.
func (this *Backend) todayRecord(u *User) *v1.AttendanceRecord {
	today := this.today()
	for _, rec := range this.attendance[u.ID] {
		if utils.Format(rec.CheckInDate) == today {
			return rec
		}
	}
	return nil
}

func (this *Backend) Today(c *gin.Context) {
	u := currentUser(c)
	this.mu.Lock()
	defer this.mu.Unlock()

	rec := this.todayRecord(u)
	if rec == nil {
		c.JSON(http.StatusOK, gin.H{
			"attendance":      nil,
			"has_checked_in":  false,
			"has_checked_out": false,
			"message":         "No attendance record for today",
		})
		return
	}
	in, out := rec.Flags(false, false)
	c.JSON(http.StatusOK, gin.H{"attendance": rec, "has_checked_in": in, "has_checked_out": out})
}

// CheckIn takes multipart form data with an optional selfie image.
func (this *Backend) CheckIn(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(10 << 20); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid form data"))
		return
	}

	var selfie *string
	if files := c.Request.MultipartForm.File["selfie"]; len(files) > 0 {
		ext := strings.ToLower(filepath.Ext(files[0].Filename))
		if !selfieExtensions[ext] {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("Selfie must be a JPG or PNG image"))
			return
		}
		selfie = utils.Ptr("/media/attendance/selfies/" + uuid.NewString() + ext)
	}

	u := currentUser(c)
	this.mu.Lock()
	defer this.mu.Unlock()

	if this.todayRecord(u) != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("You have already checked in today"))
		return
	}

	now := this.clock()
	rec := &v1.AttendanceRecord{
		ID:              this.id(),
		User:            u.ID,
		UserDetail:      u.attendanceUser(),
		CheckInTime:     utils.Ptr(now.Format(time.RFC3339)),
		CheckInDate:     utils.Ptr(now.Format(utils.DateLayout)),
		CheckInSelfie:   selfie,
		CheckInLocation: optional(c.Request.FormValue("location")),
		CheckInNote:     optional(c.Request.FormValue("note")),
		IsCheckedIn:     utils.Ptr(true),
		IsCheckedOut:    utils.Ptr(false),
		CreatedAt:       now.Format(time.RFC3339),
		UpdatedAt:       now.Format(time.RFC3339),
	}
	this.attendance[u.ID] = append(this.attendance[u.ID], rec)
	c.JSON(http.StatusCreated, gin.H{"message": "Checked in successfully", "attendance": rec})
}

func (this *Backend) WorkCheckIn(c *gin.Context) {
	var p workCheckInPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	u := currentUser(c)
	this.mu.Lock()
	defer this.mu.Unlock()

	rec, msg := this.openRecord(u)
	if rec == nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(msg))
		return
	}
	if p.Note != "" {
		rec.CheckInNote = utils.Ptr(strings.TrimSpace(utils.Format(rec.CheckInNote) + "\n" + p.Note))
	}
	rec.UpdatedAt = this.clock().Format(time.RFC3339)
	c.JSON(http.StatusOK, gin.H{"message": "Work check-in recorded", "attendance": rec})
}

func (this *Backend) CheckOut(c *gin.Context) {
	var p checkOutPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	u := currentUser(c)
	this.mu.Lock()
	defer this.mu.Unlock()

	rec, msg := this.openRecord(u)
	if rec == nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(msg))
		return
	}

	now := this.clock()
	rec.CheckOutTime = utils.Ptr(now.Format(time.RFC3339))
	rec.CheckOutDate = utils.Ptr(now.Format(utils.DateLayout))
	rec.CheckOutLocation = optional(p.Location)
	rec.CheckOutNote = optional(p.Note)
	rec.IsCheckedOut = utils.Ptr(true)
	rec.UpdatedAt = now.Format(time.RFC3339)
	if in, err := utils.ParseISOTime(utils.Format(rec.CheckInTime)); err == nil {
		minutes := int(now.Sub(*in).Minutes())
		rec.WorkDuration = &minutes
		rec.WorkDurationDisplay = utils.Ptr(fmt.Sprintf("%dh %dm", minutes/60, minutes%60))
	}
	c.JSON(http.StatusOK, gin.H{"message": "Checked out successfully", "attendance": rec})
}

// openRecord must be called with mu held. It returns today's record if it is still open, or the
// reason it is not.
func (this *Backend) openRecord(u *User) (*v1.AttendanceRecord, string) {
	rec := this.todayRecord(u)
	if rec == nil {
		return nil, "Please check in first"
	}
	if _, out := rec.Flags(true, false); out {
		return nil, "You have already checked out today"
	}
	return rec, ""
}

func (this *Backend) AttendanceList(c *gin.Context) {
	u := currentUser(c)
	date := c.Query("date")
	start, end := c.Query("start_date"), c.Query("end_date")
	q := strings.ToLower(c.Query("q"))

	this.mu.Lock()
	records := utils.Filter(this.attendance[u.ID], func(rec *v1.AttendanceRecord) bool {
		d := rec.Date()
		switch {
		case date != "" && d != date:
			return false
		case start != "" && d < start:
			return false
		case end != "" && d > end:
			return false
		case q != "" && !strings.Contains(strings.ToLower(utils.Format(rec.CheckInLocation)+" "+utils.Format(rec.CheckInNote)), q):
			return false
		}
		return true
	})
	copies := utils.Map(records, func(rec *v1.AttendanceRecord) v1.AttendanceRecord { return *rec })
	this.mu.Unlock()

	sort.SliceStable(copies, func(i, j int) bool { return copies[i].Date() > copies[j].Date() })

	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("page_size"))
	c.JSON(http.StatusOK, common.NewPageResponse(copies, page, size, func(p int) string {
		query := c.Request.URL.Query()
		query.Set("page", strconv.Itoa(p))
		return c.Request.URL.Path + "?" + query.Encode()
	}))
}

func (this *Backend) AttendanceDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Attendance record not found"))
		return
	}

	u := currentUser(c)
	this.mu.Lock()
	defer this.mu.Unlock()
	found := utils.Find(this.attendance[u.ID], func(rec *v1.AttendanceRecord) bool { return rec.ID == id })
	if found == nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Attendance record not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendance": *found})
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
