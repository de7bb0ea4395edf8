package handlers

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	v1 "technuob.com/atomlift/atomlift/v1"
	"technuob.com/atomlift/atomlift/v1/common"
	"technuob.com/atomlift/utils"
	webcommon "technuob.com/atomlift/web/common"
)

type complaintStatusPayload struct {
	Status              string `json:"status" binding:"omitempty,oneof=open in_progress resolved closed"`
	TechnicianRemark    string `json:"technician_remark"`
	Solution            string `json:"solution"`
	TechnicianSignature string `json:"technician_signature"`
	CustomerSignature   string `json:"customer_signature"`
}

type complaintCreatePayload struct {
	ComplaintType       int64  `json:"complaint_type" binding:"required"`
	Customer            int64  `json:"customer" binding:"required"`
	ContactPersonName   string `json:"contact_person_name" binding:"required"`
	ContactPersonMobile string `json:"contact_person_mobile" binding:"required"`
	BlockWing           string `json:"block_wing"`
	AssignTo            int64  `json:"assign_to"`
	Priority            int64  `json:"priority" binding:"required"`
	Subject             string `json:"subject" binding:"required"`
	Message             string `json:"message"`
}

type amcCreatePayload struct {
	Customer         int64              `json:"customer" binding:"required"`
	StartDate        webcommon.DateOnly `json:"start_date"`
	EndDate          webcommon.DateOnly `json:"end_date"`
	AMCType          int64              `json:"amc_type" binding:"required"`
	NumberOfServices int                `json:"number_of_services" binding:"gt=0"`
	PaymentAmount    float64            `json:"payment_amount"`
	Notes            string             `json:"notes"`
}

type customerCreatePayload struct {
	SiteName          string `json:"site_name" binding:"required"`
	Mobile            string `json:"mobile" binding:"required"`
	Email             string `json:"email" binding:"required,email"`
	SiteID            string `json:"site_id"`
	SiteAddress       string `json:"site_address" binding:"required"`
	ContactPersonName string `json:"contact_person_name"`
	City              string `json:"city"`
	JobNo             string `json:"job_no"`
}

type materialCreatePayload struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Item        int64  `json:"item" binding:"required"`
	Brand       string `json:"brand"`
	File        string `json:"file"`
	AddedBy     string `json:"added_by"`
	RequestedBy string `json:"requested_by"`
}

type travelCreatePayload struct {
	TravelBy   string             `json:"travel_by" binding:"required"`
	TravelDate webcommon.DateOnly `json:"travel_date"`
	FromPlace  string             `json:"from_place" binding:"required"`
	ToPlace    string             `json:"to_place" binding:"required"`
	Amount     string             `json:"amount" binding:"required,numeric"`
	Attachment string             `json:"attachment"`
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, webcommon.NewErrorResponse(webcommon.FormatBindingError(err)))
}

func (this *Backend) AssignedComplaints(c *gin.Context) {
	name := currentUser(c).FullName()
	this.mu.Lock()
	assigned := utils.Map(
		utils.Filter(this.complaints, func(cmp *v1.ComplaintDTO) bool { return cmp.AssignedTo == name }),
		func(cmp *v1.ComplaintDTO) v1.ComplaintDTO { return *cmp },
	)
	this.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"complaints": assigned})
}

func (this *Backend) UpdateComplaintStatus(c *gin.Context) {
	var p complaintStatusPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}

	this.mu.Lock()
	defer this.mu.Unlock()
	found := utils.Find(this.complaints, func(cmp *v1.ComplaintDTO) bool { return cmp.Reference == c.Param("ref") })
	if found == nil {
		c.JSON(http.StatusNotFound, webcommon.NewErrorResponse("Complaint not found"))
		return
	}
	cmp := *found
	if p.Status != "" {
		cmp.Status = p.Status
	}
	if p.TechnicianRemark != "" {
		cmp.TechnicianRemark = p.TechnicianRemark
	}
	if p.Solution != "" {
		cmp.Solution = p.Solution
	}
	if p.TechnicianSignature != "" {
		cmp.TechnicianSignature = utils.Ptr(p.TechnicianSignature)
	}
	if p.CustomerSignature != "" {
		cmp.CustomerSignature = utils.Ptr(p.CustomerSignature)
	}
	c.JSON(http.StatusOK, webcommon.NewActionResponse("Complaint updated successfully", "complaint", cmp))
}

func (this *Backend) ComplaintCustomers(c *gin.Context) {
	this.mu.Lock()
	defer this.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"customers": this.customers})
}

func (this *Backend) ComplaintTypes(c *gin.Context) {
	c.JSON(http.StatusOK, this.complaintTypes)
}

func (this *Backend) ComplaintPriorities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"priorities": this.priorities})
}

func (this *Backend) ComplaintExecutives(c *gin.Context) {
	this.mu.Lock()
	defer this.mu.Unlock()
	executives := utils.Map(this.users, func(u *User) common.ExecutiveDTO {
		return common.ExecutiveDTO{ID: u.ID, FullName: u.FullName()}
	})
	c.JSON(http.StatusOK, gin.H{"executives": executives})
}

func (this *Backend) CreateComplaint(c *gin.Context) {
	var p complaintCreatePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}

	this.mu.Lock()
	defer this.mu.Unlock()
	customer := utils.Find(this.customers, func(cu v1.CustomerDTO) bool { return cu.ID == p.Customer })
	if customer == nil {
		c.JSON(http.StatusBadRequest, webcommon.NewErrorResponse("Unknown customer"))
		return
	}
	priority := utils.Find(this.priorities, func(pr common.IdNameDTO) bool { return pr.ID == p.Priority })
	if priority == nil {
		c.JSON(http.StatusBadRequest, webcommon.NewErrorResponse("Unknown priority"))
		return
	}
	assignee := currentUser(c)
	if p.AssignTo != 0 {
		found := utils.Find(this.users, func(u *User) bool { return u.ID == p.AssignTo })
		if found == nil {
			c.JSON(http.StatusBadRequest, webcommon.NewErrorResponse("Unknown executive"))
			return
		}
		assignee = *found
	}

	id := this.id()
	cmp := &v1.ComplaintDTO{
		ID:            id,
		Reference:     fmt.Sprintf("CMP-%d", id),
		Title:         p.Subject,
		DateTime:      this.clock().Format(time.RFC3339),
		Status:        "open",
		TicketID:      fmt.Sprintf("T-%d", id),
		SiteAddress:   customer.SiteAddress,
		MobileNumber:  p.ContactPersonMobile,
		Subject:       p.Subject,
		Message:       p.Message,
		Priority:      priority.Name,
		AssignedTo:    assignee.FullName(),
		CustomerName:  customer.SiteName,
		ContactPerson: p.ContactPersonName,
		BlockWing:     p.BlockWing,
	}
	this.complaints = append(this.complaints, cmp)
	c.JSON(http.StatusCreated, webcommon.NewActionResponse("Complaint created successfully", "complaint", cmp))
}

// AMCList answers with the DRF page envelope; page and page_size are honoured.
func (this *Backend) AMCList(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("page_size"))

	this.mu.Lock()
	amcs := append([]v1.AMCItem(nil), this.amcs...)
	this.mu.Unlock()

	sort.SliceStable(amcs, func(i, j int) bool { return amcs[i].ID > amcs[j].ID })
	c.JSON(http.StatusOK, webcommon.NewPageResponse(amcs, page, size, func(p int) string {
		q := c.Request.URL.Query()
		q.Set("page", strconv.Itoa(p))
		return v1.PathAMCList + "?" + q.Encode()
	}))
}

func (this *Backend) AMCCreate(c *gin.Context) {
	var p amcCreatePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		c.JSON(http.StatusBadRequest, webcommon.NewErrorResponse("start_date and end_date are required"))
		return
	}
	if p.EndDate.Before(p.StartDate.Time) {
		c.JSON(http.StatusBadRequest, webcommon.NewErrorResponse("End date cannot be before start date"))
		return
	}

	this.mu.Lock()
	defer this.mu.Unlock()
	customer := utils.Find(this.customers, func(cu v1.CustomerDTO) bool { return cu.ID == p.Customer })
	if customer == nil {
		c.JSON(http.StatusBadRequest, webcommon.NewErrorResponse("Unknown customer"))
		return
	}
	amcType := utils.Find(this.amcTypes, func(t common.IdNameDTO) bool { return t.ID == p.AMCType })
	if amcType == nil {
		c.JSON(http.StatusBadRequest, webcommon.NewErrorResponse("Unknown AMC type"))
		return
	}

	id := this.id()
	amc := v1.AMCItem{
		ID:               id,
		ReferenceID:      fmt.Sprintf("AMC-%03d", id),
		SiteName:         customer.SiteName,
		CustomerName:     customer.SiteName,
		CustomerEmail:    customer.Email,
		StartDate:        p.StartDate.String(),
		EndDate:          p.EndDate.String(),
		AMCTypeName:      amcType.Name,
		Status:           "active",
		NumberOfServices: utils.Ptr(p.NumberOfServices),
		PaymentAmount:    utils.Ptr(p.PaymentAmount),
		Notes:            p.Notes,
		Created:          this.clock().Format(time.RFC3339),
	}
	this.amcs = append(this.amcs, amc)
	c.JSON(http.StatusCreated, webcommon.NewActionResponse("AMC created successfully", "amc", amc))
}

func (this *Backend) AMCTypes(c *gin.Context) {
	this.mu.Lock()
	defer this.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"amc_types": this.amcTypes})
}

func (this *Backend) AMCTypeCreate(c *gin.Context) {
	var p struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}

	this.mu.Lock()
	defer this.mu.Unlock()
	if utils.Find(this.amcTypes, func(t common.IdNameDTO) bool { return strings.EqualFold(t.Name, p.Name) }) != nil {
		c.JSON(http.StatusBadRequest, webcommon.NewErrorResponse("AMC type already exists"))
		return
	}
	t := common.IdNameDTO{ID: this.id(), Name: strings.TrimSpace(p.Name)}
	this.amcTypes = append(this.amcTypes, t)
	c.JSON(http.StatusCreated, webcommon.NewActionResponse("AMC type created successfully", "amcType", t))
}

func (this *Backend) RoutineServices(c *gin.Context) {
	status := c.Query("status")
	this.mu.Lock()
	services := utils.Filter(this.routine, func(r v1.RoutineServiceDTO) bool {
		return status == "" || r.Status == status
	})
	this.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"routine_services": services})
}

func (this *Backend) CustomerList(c *gin.Context) {
	this.mu.Lock()
	defer this.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"customers": this.customers})
}

func (this *Backend) CustomerCreate(c *gin.Context) {
	var p customerCreatePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}

	this.mu.Lock()
	defer this.mu.Unlock()
	id := this.id()
	customer := v1.CustomerDTO{
		ID:                id,
		SiteName:          p.SiteName,
		ReferenceID:       fmt.Sprintf("CUS-%03d", id),
		JobNo:             p.JobNo,
		SiteID:            p.SiteID,
		Email:             p.Email,
		Mobile:            utils.DigitsOnly(p.Mobile),
		ContactPersonName: p.ContactPersonName,
		City:              p.City,
		SiteAddress:       p.SiteAddress,
	}
	this.customers = append(this.customers, customer)
	c.JSON(http.StatusCreated, webcommon.NewActionResponse("Customer created successfully", "customer", customer))
}

func (this *Backend) Items(c *gin.Context) {
	this.mu.Lock()
	defer this.mu.Unlock()
	c.JSON(http.StatusOK, webcommon.NewSuccessResponse(this.items))
}

func (this *Backend) MaterialList(c *gin.Context) {
	this.mu.Lock()
	defer this.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"material_requests": this.materials})
}

// MaterialCreate answers 201 with the new request itself.
func (this *Backend) MaterialCreate(c *gin.Context) {
	var p materialCreatePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}

	u := currentUser(c)
	this.mu.Lock()
	defer this.mu.Unlock()
	item := utils.Find(this.items, func(it v1.ItemDTO) bool { return it.ID == p.Item })
	if item == nil {
		c.JSON(http.StatusBadRequest, webcommon.NewErrorResponse("Unknown item"))
		return
	}
	req := v1.MaterialRequestDTO{
		ID:          this.id(),
		Date:        this.today(),
		Name:        p.Name,
		Description: p.Description,
		Item:        *item,
		Brand:       p.Brand,
		File:        p.File,
		AddedBy:     utils.FirstNonEmpty(p.AddedBy, u.FullName()),
		RequestedBy: utils.FirstNonEmpty(p.RequestedBy, u.FullName()),
	}
	this.materials = append(this.materials, req)
	c.JSON(http.StatusCreated, req)
}

func (this *Backend) TravelList(c *gin.Context) {
	this.mu.Lock()
	defer this.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"travel_requests": this.travels})
}

// TravelCreate answers 201 with the new request itself.
func (this *Backend) TravelCreate(c *gin.Context) {
	var p travelCreatePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	if p.TravelDate.IsZero() {
		c.JSON(http.StatusBadRequest, webcommon.NewErrorResponse("travel_date is required"))
		return
	}

	u := currentUser(c)
	this.mu.Lock()
	defer this.mu.Unlock()
	req := v1.TravelRequestDTO{
		ID:         this.id(),
		TravelBy:   p.TravelBy,
		TravelDate: p.TravelDate.String(),
		FromPlace:  p.FromPlace,
		ToPlace:    p.ToPlace,
		Amount:     p.Amount,
		Attachment: p.Attachment,
		CreatedBy:  u.FullName(),
		CreatedAt:  this.clock().Format(time.RFC3339),
	}
	this.travels = append(this.travels, req)
	c.JSON(http.StatusCreated, req)
}
