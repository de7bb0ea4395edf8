package validation

import (
	"strconv"
	"strings"

	v1 "technuob.com/atomlift/atomlift/v1"
	"technuob.com/atomlift/atomlift/v1/common"
	"technuob.com/atomlift/utils"
)

type LoginForm struct {
	Identifier string `validate:"notblank" label:"Username or Email" msg_required:"Please enter your username or email"`
	Password   string `validate:"notblank" label:"Password" msg_required:"Please enter your password"`
}

func (f *LoginForm) Validate() error {
	return check(f, false)
}

type AMCForm struct {
	Customer         common.Selection `validate:"notblank" label:"Customer" msg_required:"Please select a customer"`
	StartDate        string           `validate:"notblank,isodate" label:"Start Date" msg_required:"Please select start date"`
	EndDate          string           `validate:"notblank,isodate" label:"End Date" msg_required:"Please select end date"`
	AMCType          common.Selection `validate:"notblank" label:"AMC Type" msg_required:"Please select AMC type"`
	NumberOfServices string           `validate:"notblank,posint" label:"Number of Services" msg_required:"Please enter number of services" msg_invalid:"Please enter a valid number of services"`
	PaymentAmount    string           `validate:"notblank,posnum" label:"Payment Amount" msg_required:"Please enter payment amount" msg_invalid:"Please enter a valid payment amount"`
	Notes            string
}

func (f *AMCForm) Validate() error {
	var extra []FieldError
	if cmp, err := CompareDates(f.EndDate, f.StartDate); err == nil && cmp < 0 {
		extra = append(extra, invalid(f, "EndDate", "End Date cannot be before Start Date"))
	}
	return check(f, false, extra...)
}

// Request validates the form and builds the create payload.
func (f *AMCForm) Request() (v1.AMCCreateDTO, error) {
	if err := f.Validate(); err != nil {
		return v1.AMCCreateDTO{}, err
	}
	services, err := strconv.Atoi(strings.TrimSpace(f.NumberOfServices))
	if err != nil {
		return v1.AMCCreateDTO{}, err
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(f.PaymentAmount), 64)
	if err != nil {
		return v1.AMCCreateDTO{}, err
	}
	return v1.AMCCreateDTO{
		Customer:         f.Customer.ID,
		StartDate:        strings.TrimSpace(f.StartDate),
		EndDate:          strings.TrimSpace(f.EndDate),
		AMCType:          f.AMCType.ID,
		NumberOfServices: services,
		PaymentAmount:    amount,
		Notes:            f.Notes,
	}, nil
}

type CustomerForm struct {
	SiteName          string `validate:"notblank" label:"Site Name" msg_required:"Please enter customer site name"`
	Mobile            string `validate:"notblank,mobile10" label:"Mobile" msg_required:"Please enter mobile number" msg_invalid:"Please enter a valid 10-digit mobile number"`
	Email             string `validate:"notblank,emailshape" label:"Email" msg_required:"Please enter email"`
	SiteID            string `validate:"notblank" label:"Site ID" msg_required:"Please enter site ID"`
	SiteAddress       string `validate:"notblank" label:"Site Address" msg_required:"Please enter site address"`
	ContactPersonName string `validate:"notblank" label:"Contact Person Name" msg_required:"Please enter contact person name"`
	City              string `validate:"notblank" label:"City" msg_required:"Please enter city"`
	JobNo             string `label:"Job No"`
}

func (f *CustomerForm) Validate() error {
	return check(f, false)
}

func (f *CustomerForm) Request() (v1.CustomerCreateDTO, error) {
	if err := f.Validate(); err != nil {
		return v1.CustomerCreateDTO{}, err
	}
	return v1.CustomerCreateDTO{
		SiteName:          strings.TrimSpace(f.SiteName),
		Mobile:            FormatMobileNumber(f.Mobile),
		Email:             strings.TrimSpace(f.Email),
		SiteID:            strings.TrimSpace(f.SiteID),
		SiteAddress:       strings.TrimSpace(f.SiteAddress),
		ContactPersonName: strings.TrimSpace(f.ContactPersonName),
		City:              strings.TrimSpace(f.City),
		JobNo:             strings.TrimSpace(f.JobNo),
	}, nil
}

// ComplaintForm reports all missing fields in one message.
type ComplaintForm struct {
	Type                common.Selection `validate:"notblank" label:"Type"`
	Customer            common.Selection `validate:"notblank" label:"Customer Site"`
	ContactPersonName   string           `validate:"notblank" label:"Contact Person Name"`
	ContactPersonMobile string           `validate:"notblank,mobile" label:"Contact Person Mobile No."`
	BlockWing           string           `validate:"notblank" label:"Block/Wing"`
	AssignTo            common.Selection `validate:"notblank" label:"Assign"`
	Priority            common.Selection `validate:"notblank" label:"Priority"`
	Subject             string           `validate:"notblank" label:"Subject"`
	Message             string           `label:"Message"`
}

func (f *ComplaintForm) Validate() error {
	return check(f, true)
}

func (f *ComplaintForm) Request() (v1.ComplaintCreateDTO, error) {
	if err := f.Validate(); err != nil {
		return v1.ComplaintCreateDTO{}, err
	}
	return v1.ComplaintCreateDTO{
		ComplaintType:       f.Type.ID,
		Customer:            f.Customer.ID,
		ContactPersonName:   strings.TrimSpace(f.ContactPersonName),
		ContactPersonMobile: utils.DigitsOnly(f.ContactPersonMobile),
		BlockWing:           strings.TrimSpace(f.BlockWing),
		AssignTo:            f.AssignTo.ID,
		Priority:            f.Priority.ID,
		Subject:             strings.TrimSpace(f.Subject),
		Message:             strings.TrimSpace(f.Message),
	}, nil
}

type TravelForm struct {
	TravelBy   string `validate:"notblank" label:"Travel By" msg_required:"Please enter travel mode"`
	TravelDate string `validate:"notblank,isodate" label:"Travel Date" msg_required:"Please enter travel date"`
	FromPlace  string `validate:"notblank" label:"From Place" msg_required:"Please enter from place"`
	ToPlace    string `validate:"notblank" label:"To Place" msg_required:"Please enter to place"`
	Amount     string `validate:"notblank,posnum" label:"Amount" msg_required:"Please enter amount" msg_invalid:"Please enter a valid amount"`
	// Attachment is a reference to an uploaded file, e.g. s3://bucket/key.
	Attachment string
}

func (f *TravelForm) Validate() error {
	return check(f, false)
}

func (f *TravelForm) Request() (v1.TravelRequestCreateDTO, error) {
	if err := f.Validate(); err != nil {
		return v1.TravelRequestCreateDTO{}, err
	}
	return v1.TravelRequestCreateDTO{
		TravelBy:   strings.TrimSpace(f.TravelBy),
		TravelDate: strings.TrimSpace(f.TravelDate),
		FromPlace:  strings.TrimSpace(f.FromPlace),
		ToPlace:    strings.TrimSpace(f.ToPlace),
		Amount:     strings.TrimSpace(f.Amount),
		Attachment: f.Attachment,
	}, nil
}

// MaterialRequestForm reports all missing fields in one message.
type MaterialRequestForm struct {
	Name        string           `validate:"notblank" label:"Request Name"`
	Item        common.Selection `validate:"notblank" label:"Item"`
	Description string
	Brand       string
	File        string
}

func (f *MaterialRequestForm) Validate() error {
	return check(f, true)
}

// Request fills added_by and requested_by with the signed-in user's name.
func (f *MaterialRequestForm) Request(requestedBy string) (v1.MaterialRequestCreateDTO, error) {
	if err := f.Validate(); err != nil {
		return v1.MaterialRequestCreateDTO{}, err
	}
	requestedBy = utils.FirstNonEmpty(requestedBy, "Unknown User")
	return v1.MaterialRequestCreateDTO{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		Item:        f.Item.ID,
		Brand:       strings.TrimSpace(f.Brand),
		File:        f.File,
		AddedBy:     requestedBy,
		RequestedBy: requestedBy,
	}, nil
}
