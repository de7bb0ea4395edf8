package validation

import (
	"errors"
	"strings"

	v1 "technuob.com/atomlift/atomlift/v1"
	"technuob.com/atomlift/atomlift/v1/common"
	"technuob.com/atomlift/utils"
)

const (
	msgToBeforeFrom    = "To Date cannot be before From Date. Please select a valid date range."
	msgSetFromAfterTo  = "From Date cannot be after To Date. Please select To Date first or update it."
	msgSetToBeforeFrom = "To Date cannot be before From Date. Please select a date on or after the From Date."
	msgLeaveNotPending = "Only pending leave requests can be edited or deleted"
)

var ErrLeaveNotPending = errors.New(msgLeaveNotPending)

// EnsureLeaveEditable rejects edits and deletes of leave requests that were already decided.
func EnsureLeaveEditable(status common.LeaveStatus) error {
	if status != common.LeavePending {
		return ErrLeaveNotPending
	}
	return nil
}

// LeaveForm holds a leave request being edited. Use the setters for dates and half day; they
// keep ToDate equal to FromDate on a half day and never accept a range that ends before it starts.
type LeaveForm struct {
	LeaveType string `validate:"notblank" label:"Leave Type" msg_required:"Please select a leave type"`
	FromDate  string `validate:"notblank,isodate" label:"From Date" msg_required:"Please select from date"`
	ToDate    string `validate:"omitempty,isodate" label:"To Date" msg_required:"Please select to date"`
	Email     string `validate:"notblank,emailshape" label:"Email" msg_required:"Please enter your email address"`
	Reason    string `validate:"notblank" label:"Reason" msg_required:"Please enter a reason for leave"`
	HalfDay   bool
}

// LeaveFormFrom prefills a form from an existing request.
func LeaveFormFrom(l v1.LeaveDTO) *LeaveForm {
	return &LeaveForm{
		LeaveType: l.LeaveType,
		FromDate:  l.FromDate,
		ToDate:    l.ToDate,
		Email:     l.Email,
		Reason:    l.Reason,
		HalfDay:   l.HalfDay,
	}
}

func (f *LeaveForm) SetHalfDay(on bool) {
	f.HalfDay = on
	if on {
		// With no from date yet the to date is cleared, to be filled when from date is set.
		f.ToDate = f.FromDate
	}
}

func (f *LeaveForm) SetFromDate(date string) error {
	if !f.HalfDay && strings.TrimSpace(f.ToDate) != "" {
		cmp, err := CompareDates(f.ToDate, date)
		if err != nil {
			return &ValidationError{Fields: []FieldError{invalid(f, "FromDate", err.Error())}}
		}
		if cmp < 0 {
			return &ValidationError{Fields: []FieldError{invalid(f, "FromDate", msgSetFromAfterTo)}}
		}
	}
	f.FromDate = date
	if f.HalfDay {
		f.ToDate = date
	}
	return nil
}

func (f *LeaveForm) SetToDate(date string) error {
	if strings.TrimSpace(f.FromDate) != "" {
		cmp, err := CompareDates(date, f.FromDate)
		if err != nil {
			return &ValidationError{Fields: []FieldError{invalid(f, "ToDate", err.Error())}}
		}
		if cmp < 0 {
			return &ValidationError{Fields: []FieldError{invalid(f, "ToDate", msgSetToBeforeFrom)}}
		}
	}
	f.ToDate = date
	return nil
}

func (f *LeaveForm) Validate() error {
	var extra []FieldError
	if !f.HalfDay {
		if strings.TrimSpace(f.ToDate) == "" {
			extra = append(extra, required(f, "ToDate"))
		} else if cmp, err := CompareDates(f.ToDate, f.FromDate); err == nil && cmp < 0 {
			extra = append(extra, invalid(f, "ToDate", msgToBeforeFrom))
		}
	}
	return check(f, false, extra...)
}

// Request validates the form and builds the payload. A half day always goes out with
// to_date equal to from_date.
func (f *LeaveForm) Request() (v1.LeaveCreateDTO, error) {
	if err := f.Validate(); err != nil {
		return v1.LeaveCreateDTO{}, err
	}
	from := normalizeDate(f.FromDate)
	to := from
	if !f.HalfDay {
		to = normalizeDate(f.ToDate)
	}
	return v1.LeaveCreateDTO{
		HalfDay:   f.HalfDay,
		LeaveType: strings.TrimSpace(f.LeaveType),
		FromDate:  from,
		ToDate:    to,
		Reason:    strings.TrimSpace(f.Reason),
		Email:     strings.TrimSpace(f.Email),
	}, nil
}

// UpdateRequest is Request as a partial update for an existing, still pending, leave.
func (f *LeaveForm) UpdateRequest(status common.LeaveStatus) (v1.LeaveUpdateDTO, error) {
	if err := EnsureLeaveEditable(status); err != nil {
		return v1.LeaveUpdateDTO{}, err
	}
	req, err := f.Request()
	if err != nil {
		return v1.LeaveUpdateDTO{}, err
	}
	return v1.LeaveUpdateDTO{
		HalfDay:   &req.HalfDay,
		LeaveType: &req.LeaveType,
		FromDate:  &req.FromDate,
		ToDate:    &req.ToDate,
		Reason:    &req.Reason,
		Email:     &req.Email,
	}, nil
}

func normalizeDate(s string) string {
	d, err := ParseDate(s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return d.Format(utils.DateLayout)
}
