package v1

import (
	"context"
	"encoding/json"
	"io"

	"technuob.com/atomlift/utils"
)

type AttendanceUserDTO struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// AttendanceRecord is only ever decoded from the backend. The flags are pointers so that a
// missing flag can be told apart from false.
type AttendanceRecord struct {
	ID                  int64              `json:"id"`
	User                int64              `json:"user"`
	UserDetail          *AttendanceUserDTO `json:"user_detail,omitempty"`
	CheckInTime         *string            `json:"check_in_time"`
	CheckInDate         *string            `json:"check_in_date"`
	CheckInSelfie       *string            `json:"check_in_selfie"`
	CheckInLocation     *string            `json:"check_in_location"`
	CheckInNote         *string            `json:"check_in_note"`
	CheckOutTime        *string            `json:"check_out_time"`
	CheckOutDate        *string            `json:"check_out_date"`
	CheckOutLocation    *string            `json:"check_out_location"`
	CheckOutNote        *string            `json:"check_out_note"`
	IsCheckedIn         *bool              `json:"is_checked_in,omitempty"`
	IsCheckedOut        *bool              `json:"is_checked_out,omitempty"`
	WorkDuration        *int               `json:"work_duration"`
	WorkDurationDisplay *string            `json:"work_duration_display"`
	CreatedAt           string             `json:"created_at"`
	UpdatedAt           string             `json:"updated_at"`
}

// Flags reports the check-in/check-out flags, using the given defaults for missing ones.
func (r *AttendanceRecord) Flags(defaultIn, defaultOut bool) (in, out bool) {
	in, out = defaultIn, defaultOut
	if r == nil {
		return in, out
	}
	if r.IsCheckedIn != nil {
		in = *r.IsCheckedIn
	}
	if r.IsCheckedOut != nil {
		out = *r.IsCheckedOut
	}
	return in, out
}

// Date is the check-in day as YYYY-MM-DD, or "" when the record carries neither date nor time.
func (r *AttendanceRecord) Date() string {
	if r == nil {
		return ""
	}
	if d := utils.Format(r.CheckInDate); d != "" {
		return d
	}
	if t, err := utils.ParseISOTime(utils.Format(r.CheckInTime)); err == nil {
		return t.In(utils.IndiaTZ).Format(utils.DateLayout)
	}
	return ""
}

type TodayAttendance struct {
	Attendance    *AttendanceRecord `json:"attendance"`
	HasCheckedIn  bool              `json:"has_checked_in"`
	HasCheckedOut bool              `json:"has_checked_out"`
	Message       string            `json:"message,omitempty"`
}

type AttendanceActionResponse struct {
	Message    string            `json:"message"`
	Attendance *AttendanceRecord `json:"attendance"`
}

type AttendancePage struct {
	Count    int                `json:"count"`
	Next     *string            `json:"next"`
	Previous *string            `json:"previous"`
	Results  []AttendanceRecord `json:"results"`
}

type CheckInInput struct {
	Note       string
	Location   string
	Selfie     io.Reader
	SelfieName string
}

type CheckOutInput struct {
	Location string `json:"location,omitempty"`
	Note     string `json:"note,omitempty"`
}

type AttendanceFilter struct {
	Date      string
	StartDate string
	EndDate   string
	Q         string
	Page      int
	PageSize  int
}

func (f AttendanceFilter) query() map[string]string {
	return map[string]string{
		"date":       f.Date,
		"start_date": f.StartDate,
		"end_date":   f.EndDate,
		"q":          f.Q,
		"page":       positiveInt(f.Page),
		"page_size":  positiveInt(f.PageSize),
	}
}

type AttendanceEndpoint struct {
	transport *Transport
}

// CheckIn posts multipart form data; the selfie is optional.
func (this *AttendanceEndpoint) CheckIn(ctx context.Context, input CheckInInput) (*AttendanceActionResponse, error) {
	const fallback = "Failed to check in"
	fields := map[string]string{
		"location": input.Location,
		"note":     input.Note,
	}
	var files []Upload
	if input.Selfie != nil {
		name := input.SelfieName
		if name == "" {
			name = "selfie.jpg"
		}
		files = append(files, Upload{FieldName: "selfie", FileName: name, Content: input.Selfie})
	}
	resp, err := this.transport.PostMultipart(ctx, PathAttendanceCheckIn, fields, files, fallback)
	if err != nil {
		return nil, err
	}
	result, err := decode[AttendanceActionResponse](resp, fallback)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (this *AttendanceEndpoint) WorkCheckIn(ctx context.Context, note string) (*AttendanceActionResponse, error) {
	const fallback = "Failed to complete work check-in"
	body := struct {
		Note string `json:"note,omitempty"`
	}{Note: note}
	resp, err := this.transport.Post(ctx, PathAttendanceWorkCheckIn, body, fallback)
	if err != nil {
		return nil, err
	}
	result, err := decode[AttendanceActionResponse](resp, fallback)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (this *AttendanceEndpoint) CheckOut(ctx context.Context, input CheckOutInput) (*AttendanceActionResponse, error) {
	const fallback = "Failed to check out"
	resp, err := this.transport.Post(ctx, PathAttendanceCheckOut, input, fallback)
	if err != nil {
		return nil, err
	}
	result, err := decode[AttendanceActionResponse](resp, fallback)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// List accepts a DRF page, a bare array or {attendance_records: [...]} and always returns a page.
func (this *AttendanceEndpoint) List(ctx context.Context, filter AttendanceFilter) (*AttendancePage, error) {
	const fallback = "Failed to fetch attendance list"
	resp, err := this.transport.Get(ctx, PathAttendanceList, filter.query(), fallback)
	if err != nil {
		return nil, err
	}

	records, err := decodeList[AttendanceRecord](this.transport, resp, fallback, "attendance_records")
	if err != nil {
		return nil, err
	}
	page := &AttendancePage{Count: len(records), Results: records}

	var meta struct {
		Count    *int    `json:"count"`
		Next     *string `json:"next"`
		Previous *string `json:"previous"`
	}
	if json.Unmarshal(resp.Data, &meta) == nil {
		if meta.Count != nil && *meta.Count > 0 {
			page.Count = *meta.Count
		}
		page.Next = meta.Next
		page.Previous = meta.Previous
	}
	return page, nil
}

func (this *AttendanceEndpoint) Today(ctx context.Context) (*TodayAttendance, error) {
	const fallback = "Failed to fetch today's attendance"
	resp, err := this.transport.Get(ctx, PathAttendanceToday, nil, fallback)
	if err != nil {
		return nil, err
	}
	today, err := decode[TodayAttendance](resp, fallback)
	if err != nil {
		return nil, err
	}
	return &today, nil
}

// Detail accepts {"attendance": {...}} or the record itself.
func (this *AttendanceEndpoint) Detail(ctx context.Context, id int64) (*AttendanceRecord, error) {
	const fallback = "Failed to fetch attendance detail"
	resp, err := this.transport.Get(ctx, attendanceDetailPath(id), nil, fallback)
	if err != nil {
		return nil, err
	}
	wrapped, err := decode[AttendanceActionResponse](resp, fallback)
	if err != nil {
		return nil, err
	}
	if wrapped.Attendance != nil {
		return wrapped.Attendance, nil
	}
	record, err := decode[AttendanceRecord](resp, fallback)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
