package v1

import (
	"context"
	"encoding/json"
	"strconv"

	"technuob.com/atomlift/atomlift/v1/common"
	"technuob.com/atomlift/utils"
)

// AMCItem mirrors the AMC list row. The backend has served both snake and camel case names over
// time, so both are kept.
type AMCItem struct {
	ID                      int64    `json:"id"`
	ReferenceID             string   `json:"reference_id,omitempty"`
	AMCID                   string   `json:"amc_id,omitempty"`
	AMCIDCamel              string   `json:"amcId,omitempty"`
	AMCName                 string   `json:"amcname,omitempty"`
	Number                  string   `json:"number,omitempty"`
	SiteName                string   `json:"site_name,omitempty"`
	SiteNameCamel           string   `json:"siteName,omitempty"`
	Duration                string   `json:"duration,omitempty"`
	Status                  string   `json:"status,omitempty"`
	StatusDisplay           string   `json:"status_display,omitempty"`
	IsOverdue               *bool    `json:"is_overdue,omitempty"`
	IsOverdueCamel          *bool    `json:"isOverdue,omitempty"`
	Customer                any      `json:"customer,omitempty"`
	CustomerName            string   `json:"customer_name,omitempty"`
	CustomerEmail           string   `json:"customer_email,omitempty"`
	CustomerPhone           string   `json:"customer_phone,omitempty"`
	CustomerSiteAddress     string   `json:"customer_site_address,omitempty"`
	CustomerJobNo           string   `json:"customer_job_no,omitempty"`
	StartDate               string   `json:"start_date,omitempty"`
	EndDate                 string   `json:"end_date,omitempty"`
	AMCType                 any      `json:"amc_type,omitempty"`
	AMCTypeName             string   `json:"amc_type_name,omitempty"`
	NumberOfServices        *int     `json:"number_of_services,omitempty"`
	NoOfServices            *int     `json:"no_of_services,omitempty"`
	NoOfLifts               *int     `json:"no_of_lifts,omitempty"`
	PaymentAmount           *float64 `json:"payment_amount,omitempty"`
	ContractAmount          string   `json:"contract_amount,omitempty"`
	Total                   string   `json:"total,omitempty"`
	TotalAmountPaid         string   `json:"total_amount_paid,omitempty"`
	AmountDue               string   `json:"amount_due,omitempty"`
	Price                   string   `json:"price,omitempty"`
	GSTPercentage           string   `json:"gst_percentage,omitempty"`
	PaymentTerms            string   `json:"payment_terms,omitempty"`
	PaymentTermsName        string   `json:"payment_terms_name,omitempty"`
	InvoiceFrequency        string   `json:"invoice_frequency,omitempty"`
	InvoiceFrequencyDisplay string   `json:"invoice_frequency_display,omitempty"`
	IsGenerateContract      *bool    `json:"is_generate_contract,omitempty"`
	Notes                   string   `json:"notes,omitempty"`
	Latitude                string   `json:"latitude,omitempty"`
	Longitude               string   `json:"longitude,omitempty"`
	EquipmentNo             string   `json:"equipment_no,omitempty"`
	Created                 string   `json:"created,omitempty"`
}

func (a AMCItem) DisplayID() string {
	return utils.FirstNonEmpty(a.AMCID, a.AMCIDCamel, a.ReferenceID, strconv.FormatInt(a.ID, 10))
}

func (a AMCItem) DisplaySiteName() string {
	return utils.FirstNonEmpty(a.SiteName, a.SiteNameCamel, a.CustomerName)
}

func (a AMCItem) Overdue() bool {
	return (a.IsOverdue != nil && *a.IsOverdue) || (a.IsOverdueCamel != nil && *a.IsOverdueCamel)
}

type AMCCreateDTO struct {
	Customer         int64   `json:"customer"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	AMCType          int64   `json:"amc_type"`
	NumberOfServices int     `json:"number_of_services"`
	PaymentAmount    float64 `json:"payment_amount"`
	Notes            string  `json:"notes,omitempty"`
}

// RoutineServiceDTO keeps every field the backend sent in Extra, since the shape is open.
type RoutineServiceDTO struct {
	ID                 int64             `json:"id"`
	AMC                *int64            `json:"amc,omitempty"`
	AMCDetail          *AMCItem          `json:"amc_detail,omitempty"`
	ServiceDate        string            `json:"service_date,omitempty"`
	ServiceDateDisplay string            `json:"service_date_display,omitempty"`
	Status             string            `json:"status,omitempty"`
	StatusDisplay      string            `json:"status_display,omitempty"`
	Notes              string            `json:"notes,omitempty"`
	CreatedAt          string            `json:"created_at,omitempty"`
	UpdatedAt          string            `json:"updated_at,omitempty"`
	Extra              common.UserRecord `json:"-"`
}

func (r *RoutineServiceDTO) UnmarshalJSON(data []byte) error {
	type plain RoutineServiceDTO
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = RoutineServiceDTO(p)
	return json.Unmarshal(data, &r.Extra)
}

// RoutineServiceFilter becomes the query string; empty fields are not sent.
type RoutineServiceFilter struct {
	Status    string
	For       string
	Date      string
	StartDate string
	EndDate   string
	Page      int
	PageSize  int
}

func (f RoutineServiceFilter) query() map[string]string {
	return map[string]string{
		"status":     f.Status,
		"for":        f.For,
		"date":       f.Date,
		"start_date": f.StartDate,
		"end_date":   f.EndDate,
		"page":       positiveInt(f.Page),
		"page_size":  positiveInt(f.PageSize),
	}
}

type AMCEndpoint struct {
	transport *Transport
}

func (this *AMCEndpoint) List(ctx context.Context) ([]AMCItem, error) {
	const fallback = "Failed to fetch AMC list"
	resp, err := this.transport.Get(ctx, PathAMCList, nil, fallback)
	if err != nil {
		return nil, err
	}
	return decodeList[AMCItem](this.transport, resp, fallback, "amcs")
}

func (this *AMCEndpoint) Create(ctx context.Context, dto AMCCreateDTO) (*common.ActionResult[*AMCItem], error) {
	const fallback = "Failed to create AMC"
	resp, err := this.transport.Post(ctx, PathAMCCreate, dto, fallback)
	if err != nil {
		return nil, err
	}
	return decodeAction[*AMCItem](resp, "amc", "AMC created successfully", fallback)
}

func (this *AMCEndpoint) Types(ctx context.Context) ([]common.IdNameDTO, error) {
	const fallback = "Failed to fetch AMC types"
	resp, err := this.transport.Get(ctx, PathAMCTypes, nil, fallback)
	if err != nil {
		return nil, err
	}
	return decodeList[common.IdNameDTO](this.transport, resp, fallback, "amc_types")
}

func (this *AMCEndpoint) CreateType(ctx context.Context, name string) (*common.ActionResult[*common.IdNameDTO], error) {
	const fallback = "Failed to create AMC type"
	resp, err := this.transport.Post(ctx, PathAMCTypeCreate, map[string]string{"name": name}, fallback)
	if err != nil {
		return nil, err
	}
	return decodeAction[*common.IdNameDTO](resp, "amcType", "AMC type created successfully", fallback)
}

func (this *AMCEndpoint) RoutineServices(ctx context.Context, filter RoutineServiceFilter) ([]RoutineServiceDTO, error) {
	const fallback = "Failed to fetch routine services"
	resp, err := this.transport.Get(ctx, PathRoutineServicesEmployee, filter.query(), fallback)
	if err != nil {
		return nil, err
	}
	return decodeList[RoutineServiceDTO](this.transport, resp, fallback, "routine_services")
}

func positiveInt(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}
