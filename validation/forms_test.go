package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"technuob.com/atomlift/atomlift/v1/common"
)

func validLeave() *LeaveForm {
	return &LeaveForm{
		LeaveType: "casual",
		FromDate:  "2024-03-10",
		ToDate:    "2024-03-12",
		Email:     "tech@atomlift.in",
		Reason:    "family function",
	}
}

func validationMessage(t *testing.T, err error) string {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected *ValidationError, got %v", err)
	return ve.Error()
}

func TestLeaveFormValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(f *LeaveForm)
		want   string
	}{
		{"valid", func(f *LeaveForm) {}, ""},
		{"missing type", func(f *LeaveForm) { f.LeaveType = " " }, "Please select a leave type"},
		{"missing from", func(f *LeaveForm) { f.FromDate = "" }, "Please select from date"},
		{"missing to", func(f *LeaveForm) { f.ToDate = "" }, "Please select to date"},
		{"half day needs no to", func(f *LeaveForm) { f.HalfDay, f.ToDate = true, "" }, ""},
		{"to before from", func(f *LeaveForm) { f.ToDate = "2024-03-09" }, msgToBeforeFrom},
		{"same day", func(f *LeaveForm) { f.ToDate = f.FromDate }, ""},
		{"missing email", func(f *LeaveForm) { f.Email = "" }, "Please enter your email address"},
		{"bad email", func(f *LeaveForm) { f.Email = "tech@" }, msgEmailInvalid},
		{"missing reason", func(f *LeaveForm) { f.Reason = "" }, "Please enter a reason for leave"},
		{"first error wins", func(f *LeaveForm) { f.LeaveType, f.Reason = "", "" }, "Please select a leave type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validLeave()
			tt.modify(f)
			err := f.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, validationMessage(t, err))
		})
	}
}

func TestLeaveFormHalfDay(t *testing.T) {
	f := validLeave()
	f.SetHalfDay(true)
	assert.Equal(t, f.FromDate, f.ToDate)

	require.NoError(t, f.SetFromDate("2024-04-01"))
	assert.Equal(t, "2024-04-01", f.ToDate)

	req, err := f.Request()
	require.NoError(t, err)
	assert.True(t, req.HalfDay)
	assert.Equal(t, req.FromDate, req.ToDate)
}

func TestLeaveFormHalfDayWithoutFromDate(t *testing.T) {
	f := &LeaveForm{ToDate: "2024-04-05"}
	f.SetHalfDay(true)
	assert.Empty(t, f.ToDate)
}

func TestLeaveFormRejectsInvertedRange(t *testing.T) {
	f := validLeave()

	err := f.SetToDate("2024-03-01")
	assert.Equal(t, msgSetToBeforeFrom, validationMessage(t, err))
	assert.Equal(t, "2024-03-12", f.ToDate)

	err = f.SetFromDate("2024-03-20")
	assert.Equal(t, msgSetFromAfterTo, validationMessage(t, err))
	assert.Equal(t, "2024-03-10", f.FromDate)

	require.NoError(t, f.SetToDate("2024-03-10"))
	require.NoError(t, f.SetFromDate("2024-03-10"))
}

func TestLeaveFormRequestNormalisesDates(t *testing.T) {
	f := validLeave()
	f.FromDate = "2024-03-10T09:30:00Z"

	req, err := f.Request()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", req.FromDate)
	assert.Equal(t, "2024-03-12", req.ToDate)
	assert.Equal(t, "casual", req.LeaveType)
}

func TestEnsureLeaveEditable(t *testing.T) {
	assert.NoError(t, EnsureLeaveEditable(common.LeavePending))
	assert.ErrorIs(t, EnsureLeaveEditable(common.LeaveApproved), ErrLeaveNotPending)
	assert.ErrorIs(t, EnsureLeaveEditable(common.LeaveRejected), ErrLeaveNotPending)

	_, err := validLeave().UpdateRequest(common.LeaveApproved)
	assert.ErrorIs(t, err, ErrLeaveNotPending)

	upd, err := validLeave().UpdateRequest(common.ParseLeaveStatus(""))
	require.NoError(t, err)
	require.NotNil(t, upd.ToDate)
	assert.Equal(t, "2024-03-12", *upd.ToDate)
}

func TestComplaintFormListsMissingFields(t *testing.T) {
	f := &ComplaintForm{
		Type:                common.Selection{ID: 1, Label: "Breakdown"},
		ContactPersonMobile: "9876543210",
		Subject:             "Lift stuck",
	}
	err := f.Validate()
	assert.Equal(t,
		"Please fill in the following required fields: Customer Site, Contact Person Name, Block/Wing, Assign, Priority",
		validationMessage(t, err))
}

func TestComplaintFormMobileRule(t *testing.T) {
	f := &ComplaintForm{
		Type:                common.Selection{ID: 1},
		Customer:            common.Selection{ID: 2},
		ContactPersonName:   "Ravi",
		ContactPersonMobile: "1234567890",
		BlockWing:           "B",
		AssignTo:            common.Selection{ID: 3},
		Priority:            common.Selection{ID: 4},
		Subject:             "Door fault",
	}
	assert.Equal(t, msgMobilePrefix, validationMessage(t, f.Validate()))

	f.ContactPersonMobile = "98765 43210"
	req, err := f.Request()
	require.NoError(t, err)
	assert.Equal(t, "9876543210", req.ContactPersonMobile)
	assert.Equal(t, int64(3), req.AssignTo)
}

func TestAMCForm(t *testing.T) {
	valid := func() *AMCForm {
		return &AMCForm{
			Customer:         common.Selection{ID: 7, Label: "Sunrise Towers"},
			StartDate:        "2024-04-01",
			EndDate:          "2025-03-31",
			AMCType:          common.Selection{ID: 2, Label: "Comprehensive"},
			NumberOfServices: "12",
			PaymentAmount:    "45000.50",
		}
	}

	req, err := valid().Request()
	require.NoError(t, err)
	assert.Equal(t, 12, req.NumberOfServices)
	assert.InDelta(t, 45000.50, req.PaymentAmount, 0.001)
	assert.Equal(t, int64(7), req.Customer)

	f := valid()
	f.Customer = common.Selection{}
	assert.Equal(t, "Please select a customer", validationMessage(t, f.Validate()))

	for _, services := range []string{"0", "-3", "0.5", "2.0", "Inf", "NaN", "1e30", "99999999999999999999"} {
		t.Run("services "+services, func(t *testing.T) {
			f := valid()
			f.NumberOfServices = services
			assert.Equal(t, "Please enter a valid number of services", validationMessage(t, f.Validate()))
			_, err := f.Request()
			assert.Error(t, err)
		})
	}

	for _, amount := range []string{"abc", "0", "Inf", "Infinity", "NaN", "1e30", "0x10"} {
		t.Run("amount "+amount, func(t *testing.T) {
			f := valid()
			f.PaymentAmount = amount
			assert.Equal(t, "Please enter a valid payment amount", validationMessage(t, f.Validate()))
		})
	}

	f = valid()
	f.NumberOfServices = " 4 "
	f.PaymentAmount = "0.5"
	req, err = f.Request()
	require.NoError(t, err)
	assert.Equal(t, 4, req.NumberOfServices)
	assert.InDelta(t, 0.5, req.PaymentAmount, 0.001)

	f = valid()
	f.EndDate = "2024-03-01"
	assert.Equal(t, "End Date cannot be before Start Date", validationMessage(t, f.Validate()))
}

func TestCustomerForm(t *testing.T) {
	f := &CustomerForm{
		SiteName:          "Sunrise Towers",
		Mobile:            "12345 67890",
		Email:             "desk@sunrise.in",
		SiteID:            "S-1",
		SiteAddress:       "MG Road",
		ContactPersonName: "Anil",
		City:              "Pune",
	}
	req, err := f.Request()
	require.NoError(t, err)
	assert.Equal(t, "1234567890", req.Mobile)

	f.Mobile = "12345"
	assert.Equal(t, "Please enter a valid 10-digit mobile number", validationMessage(t, f.Validate()))

	f.Mobile = "9876543210"
	f.Email = "desk"
	assert.Equal(t, msgEmailInvalid, validationMessage(t, f.Validate()))
}

func TestTravelForm(t *testing.T) {
	f := &TravelForm{TravelBy: "Bus", TravelDate: "2024-05-02", FromPlace: "Pune", ToPlace: "Mumbai", Amount: "350"}
	req, err := f.Request()
	require.NoError(t, err)
	assert.Equal(t, "350", req.Amount)

	f.Amount = ""
	assert.Equal(t, "Please enter amount", validationMessage(t, f.Validate()))

	tests := []struct {
		amount string
		ok     bool
	}{
		{amount: "0.5", ok: true},
		{amount: "120.75", ok: true},
		{amount: "-5"},
		{amount: "0"},
		{amount: "Inf"},
		{amount: "Infinity"},
		{amount: "NaN"},
		{amount: "1e30"},
		{amount: "1.2.3"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			form := *f
			form.Amount = tt.amount
			if tt.ok {
				assert.NoError(t, form.Validate())
				return
			}
			assert.Equal(t, "Please enter a valid amount", validationMessage(t, form.Validate()))
		})
	}

	f.Amount = "5"
	f.TravelBy = ""
	assert.Equal(t, "Please enter travel mode", validationMessage(t, f.Validate()))
}

func TestMaterialRequestForm(t *testing.T) {
	f := &MaterialRequestForm{}
	assert.Equal(t, "Please fill in the following required fields: Request Name, Item", validationMessage(t, f.Validate()))

	f.Name = "Door sensor"
	f.Item = common.Selection{ID: 11, Label: "Sensor"}
	req, err := f.Request("")
	require.NoError(t, err)
	assert.Equal(t, "Unknown User", req.RequestedBy)
	assert.Equal(t, int64(11), req.Item)
}

func TestLoginForm(t *testing.T) {
	f := &LoginForm{Identifier: "ravi"}
	assert.Equal(t, "Please enter your password", validationMessage(t, f.Validate()))
	f.Password = "secret"
	assert.NoError(t, f.Validate())
}
