package handlers

import (
	"sync"
	"time"

	"github.com/google/uuid"

	v1 "technuob.com/atomlift/atomlift/v1"
	"technuob.com/atomlift/atomlift/v1/common"
	"technuob.com/atomlift/utils"
)

// StubOTP is the code every generated OTP carries.
const StubOTP = "123456"

type User struct {
	ID        int64
	Email     string
	Phone     string
	Password  string
	Username  string
	FirstName string
	LastName  string
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) Record() common.UserRecord {
	return common.UserRecord{
		"id":           u.ID,
		"email":        u.Email,
		"username":     u.Username,
		"first_name":   u.FirstName,
		"last_name":    u.LastName,
		"full_name":    u.FullName(),
		"phone_number": u.Phone,
	}
}

func (u *User) attendanceUser() *v1.AttendanceUserDTO {
	return &v1.AttendanceUserDTO{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName(),
		PhoneNumber: u.Phone,
	}
}

// Backend is the in-memory state behind the stub server. All handlers lock mu.
type Backend struct {
	mu     sync.Mutex
	now    func() time.Time
	nextID int64

	users  []*User
	tokens map[string]*User
	otps   map[string]string

	attendance map[int64][]*v1.AttendanceRecord
	leaves     map[int64][]*v1.LeaveDTO

	complaints     []*v1.ComplaintDTO
	customers      []v1.CustomerDTO
	complaintTypes []common.IdNameDTO
	priorities     []common.IdNameDTO
	amcs           []v1.AMCItem
	amcTypes       []common.IdNameDTO
	routine        []v1.RoutineServiceDTO
	items          []v1.ItemDTO
	materials      []v1.MaterialRequestDTO
	travels        []v1.TravelRequestDTO
}

type Option func(*Backend)

func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// WithUser adds a login on top of the seeded ones.
func WithUser(u User) Option {
	return func(b *Backend) {
		u.ID = b.id()
		b.users = append(b.users, &u)
	}
}

func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		now:        time.Now,
		nextID:     100,
		tokens:     map[string]*User{},
		otps:       map[string]string{},
		attendance: map[int64][]*v1.AttendanceRecord{},
		leaves:     map[int64][]*v1.LeaveDTO{},
	}
	b.seed()
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) id() int64 {
	b.nextID++
	return b.nextID
}

func (b *Backend) clock() time.Time {
	return b.now().In(utils.IndiaTZ)
}

func (b *Backend) today() string {
	return b.clock().Format(utils.DateLayout)
}

// issueToken must be called with mu held.
func (b *Backend) issueToken(u *User) string {
	token := uuid.NewString()
	b.tokens[token] = u
	return token
}

// LookupToken is the middleware's view of the token table.
func (b *Backend) LookupToken(token string) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.tokens[token]
	return u, ok
}

// findUser must be called with mu held.
func (b *Backend) findUser(email, phone string) *User {
	phone = utils.DigitsOnly(phone)
	found := utils.Find(b.users, func(u *User) bool {
		return (email != "" && u.Email == email) || (phone != "" && u.Phone == phone)
	})
	if found == nil {
		return nil
	}
	return *found
}

func (b *Backend) seed() {
	ravi := &User{
		ID: 1, Email: "tech@atomlift.in", Phone: "9876543210", Password: "lift123",
		Username: "ravi", FirstName: "Ravi", LastName: "Kumar",
	}
	asha := &User{
		ID: 2, Email: "asha@atomlift.in", Phone: "9123456780", Password: "lift123",
		Username: "asha", FirstName: "Asha", LastName: "Patil",
	}
	b.users = []*User{ravi, asha}

	b.customers = []v1.CustomerDTO{
		{ID: 11, SiteName: "Sunrise Towers", ReferenceID: "CUS-011", Email: "desk@sunrise.in", Mobile: "9822012345",
			ContactPersonName: "Anil Shah", City: "Pune", SiteAddress: "MG Road, Pune"},
		{ID: 12, SiteName: "Lakeview Residency", ReferenceID: "CUS-012", Email: "office@lakeview.in", Mobile: "9822054321",
			ContactPersonName: "Meera Joshi", City: "Mumbai", SiteAddress: "Powai, Mumbai"},
	}
	b.complaintTypes = []common.IdNameDTO{{ID: 1, Name: "Breakdown"}, {ID: 2, Name: "Noise"}, {ID: 3, Name: "Door fault"}}
	b.priorities = []common.IdNameDTO{{ID: 1, Name: "Low"}, {ID: 2, Name: "Medium"}, {ID: 3, Name: "High"}}
	b.complaints = []*v1.ComplaintDTO{
		{ID: 21, Reference: "CMP-1001", Title: "Lift stuck on 4th floor", Status: "open", TicketID: "T-1001",
			SiteAddress: "MG Road, Pune", Subject: "Lift stuck", Priority: "High", AssignedTo: ravi.FullName(),
			CustomerName: "Sunrise Towers", ContactPerson: "Anil Shah", BlockWing: "A"},
		{ID: 22, Reference: "CMP-1002", Title: "Noisy cabin", Status: "in_progress", TicketID: "T-1002",
			SiteAddress: "Powai, Mumbai", Subject: "Noise", Priority: "Low", AssignedTo: ravi.FullName(),
			CustomerName: "Lakeview Residency", ContactPerson: "Meera Joshi", BlockWing: "C"},
	}
	b.amcTypes = []common.IdNameDTO{{ID: 1, Name: "Comprehensive"}, {ID: 2, Name: "Non-comprehensive"}}
	b.amcs = []v1.AMCItem{{
		ID: 31, ReferenceID: "AMC-031", SiteName: "Sunrise Towers", CustomerName: "Sunrise Towers",
		StartDate: "2024-04-01", EndDate: "2025-03-31", AMCTypeName: "Comprehensive", Status: "active",
		NumberOfServices: utils.Ptr(12), PaymentAmount: utils.Ptr(45000.0),
	}}
	b.routine = []v1.RoutineServiceDTO{{
		ID: 41, AMC: utils.Ptr(int64(31)), ServiceDate: "2024-05-10", Status: "pending", StatusDisplay: "Pending",
	}}
	b.items = []v1.ItemDTO{
		{ID: 51, ItemNumber: "IT-051", Name: "Door sensor", Model: "DS-200", Capacity: "-", Unit: "pcs"},
		{ID: 52, ItemNumber: "IT-052", Name: "Traction rope", Model: "TR-12", Capacity: "12mm", Unit: "m"},
	}
	b.leaves[ravi.ID] = []*v1.LeaveDTO{{
		ID: 61, LeaveType: "casual", LeaveTypeDisplay: "Casual Leave", FromDate: "2024-01-15", ToDate: "2024-01-16",
		Reason: "family function", Email: ravi.Email, Status: common.LeaveApproved, StatusDisplay: "Approved",
	}}
}
