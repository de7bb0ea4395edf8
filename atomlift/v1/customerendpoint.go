package v1

import (
	"context"

	"technuob.com/atomlift/atomlift/v1/common"
)

type CustomerDTO struct {
	ID                int64  `json:"id"`
	SiteName          string `json:"site_name"`
	ReferenceID       string `json:"reference_id,omitempty"`
	JobNo             string `json:"job_no,omitempty"`
	SiteID            string `json:"site_id,omitempty"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Mobile            string `json:"mobile,omitempty"`
	ContactPersonName string `json:"contact_person_name,omitempty"`
	Designation       string `json:"designation,omitempty"`
	City              string `json:"city,omitempty"`
	ProvinceStateName string `json:"province_state_name,omitempty"`
	Sector            string `json:"sector,omitempty"`
	SiteAddress       string `json:"site_address,omitempty"`
	BranchName        string `json:"branch_name,omitempty"`
	RouteName         string `json:"route_name,omitempty"`
}

type CustomerCreateDTO struct {
	SiteName          string `json:"site_name"`
	Mobile            string `json:"mobile"`
	Email             string `json:"email"`
	SiteID            string `json:"site_id"`
	SiteAddress       string `json:"site_address"`
	ContactPersonName string `json:"contact_person_name"`
	City              string `json:"city"`
	JobNo             string `json:"job_no,omitempty"`
}

type CustomerEndpoint struct {
	transport *Transport
}

func (this *CustomerEndpoint) List(ctx context.Context) ([]CustomerDTO, error) {
	const fallback = "Failed to fetch customers"
	resp, err := this.transport.Get(ctx, PathCustomerList, nil, fallback)
	if err != nil {
		return nil, err
	}
	return decodeList[CustomerDTO](this.transport, resp, fallback, "customers")
}

func (this *CustomerEndpoint) Create(ctx context.Context, dto CustomerCreateDTO) (*common.ActionResult[*CustomerDTO], error) {
	const fallback = "Failed to create customer"
	resp, err := this.transport.Post(ctx, PathCustomerCreate, dto, fallback)
	if err != nil {
		return nil, err
	}
	return decodeAction[*CustomerDTO](resp, "customer", "Customer created successfully", fallback)
}
