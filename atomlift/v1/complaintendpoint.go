package v1

import (
	"context"

	"technuob.com/atomlift/atomlift/v1/common"
)

type ComplaintDTO struct {
	ID                  int64   `json:"id"`
	Reference           string  `json:"reference"`
	Title               string  `json:"title"`
	DateTime            string  `json:"dateTime"`
	Status              string  `json:"status"`
	TicketID            string  `json:"ticketId"`
	AMCType             string  `json:"amcType"`
	SiteAddress         string  `json:"siteAddress"`
	MobileNumber        string  `json:"mobileNumber"`
	Subject             string  `json:"subject"`
	Message             string  `json:"message"`
	Priority            string  `json:"priority"`
	AssignedTo          string  `json:"assigned_to"`
	CustomerName        string  `json:"customer_name"`
	ContactPerson       string  `json:"contact_person"`
	BlockWing           string  `json:"block_wing"`
	TechnicianRemark    string  `json:"technician_remark"`
	Solution            string  `json:"solution"`
	TechnicianSignature *string `json:"technician_signature,omitempty"`
	CustomerSignature   *string `json:"customer_signature,omitempty"`
}

// ComplaintStatusUpdate only sends the fields that are set.
type ComplaintStatusUpdate struct {
	Status              string `json:"status,omitempty"`
	TechnicianRemark    string `json:"technician_remark,omitempty"`
	Solution            string `json:"solution,omitempty"`
	TechnicianSignature string `json:"technician_signature,omitempty"`
	CustomerSignature   string `json:"customer_signature,omitempty"`
}

type ComplaintCreateDTO struct {
	ComplaintType       int64  `json:"complaint_type"`
	Customer            int64  `json:"customer"`
	ContactPersonName   string `json:"contact_person_name"`
	ContactPersonMobile string `json:"contact_person_mobile"`
	BlockWing           string `json:"block_wing"`
	AssignTo            int64  `json:"assign_to"`
	Priority            int64  `json:"priority"`
	Subject             string `json:"subject"`
	Message             string `json:"message,omitempty"`
}

type ComplaintEndpoint struct {
	transport *Transport
}

func (this *ComplaintEndpoint) Assigned(ctx context.Context) ([]ComplaintDTO, error) {
	const fallback = "Failed to fetch assigned complaints"
	resp, err := this.transport.Get(ctx, PathAssignedComplaints, nil, fallback)
	if err != nil {
		return nil, err
	}
	return decodeList[ComplaintDTO](this.transport, resp, fallback, "complaints")
}

func (this *ComplaintEndpoint) UpdateStatus(ctx context.Context, reference string, update ComplaintStatusUpdate) (*common.ActionResult[*ComplaintDTO], error) {
	const fallback = "Failed to update complaint"
	resp, err := this.transport.Post(ctx, complaintStatusPath(reference), update, fallback)
	if err != nil {
		return nil, err
	}
	return decodeAction[*ComplaintDTO](resp, "complaint", "Complaint updated successfully", fallback)
}

func (this *ComplaintEndpoint) Customers(ctx context.Context) ([]CustomerDTO, error) {
	const fallback = "Failed to fetch customers"
	resp, err := this.transport.Get(ctx, PathComplaintCustomers, nil, fallback)
	if err != nil {
		return nil, err
	}
	return decodeList[CustomerDTO](this.transport, resp, fallback, "customers")
}

func (this *ComplaintEndpoint) Types(ctx context.Context) ([]common.IdNameDTO, error) {
	const fallback = "Failed to fetch complaint types"
	resp, err := this.transport.Get(ctx, PathComplaintTypes, nil, fallback)
	if err != nil {
		return nil, err
	}
	return decodeList[common.IdNameDTO](this.transport, resp, fallback, "complaint_types", "types")
}

func (this *ComplaintEndpoint) Priorities(ctx context.Context) ([]common.IdNameDTO, error) {
	const fallback = "Failed to fetch priorities"
	resp, err := this.transport.Get(ctx, PathComplaintPriorities, nil, fallback)
	if err != nil {
		return nil, err
	}
	return decodeList[common.IdNameDTO](this.transport, resp, fallback, "priorities")
}

func (this *ComplaintEndpoint) Executives(ctx context.Context) ([]common.ExecutiveDTO, error) {
	const fallback = "Failed to fetch executives"
	resp, err := this.transport.Get(ctx, PathComplaintExecutives, nil, fallback)
	if err != nil {
		return nil, err
	}
	return decodeList[common.ExecutiveDTO](this.transport, resp, fallback, "executives")
}

func (this *ComplaintEndpoint) Create(ctx context.Context, dto ComplaintCreateDTO) (*common.ActionResult[*ComplaintDTO], error) {
	const fallback = "Failed to create complaint"
	resp, err := this.transport.Post(ctx, PathCreateComplaint, dto, fallback)
	if err != nil {
		return nil, err
	}
	return decodeAction[*ComplaintDTO](resp, "complaint", "Complaint created successfully", fallback)
}
