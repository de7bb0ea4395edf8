package v1

import (
	"context"

	"technuob.com/atomlift/atomlift/v1/common"
)

type TravelRequestDTO struct {
	ID         int64  `json:"id"`
	TravelBy   string `json:"travel_by"`
	TravelDate string `json:"travel_date"`
	FromPlace  string `json:"from_place"`
	ToPlace    string `json:"to_place"`
	Amount     string `json:"amount"`
	Attachment string `json:"attachment,omitempty"`
	CreatedBy  string `json:"created_by"`
	CreatedAt  string `json:"created_at"`
}

// TravelRequestCreateDTO sends the amount as text, as the backend stores it as a decimal string.
// Attachment is a reference to an already uploaded file.
type TravelRequestCreateDTO struct {
	TravelBy   string `json:"travel_by"`
	TravelDate string `json:"travel_date"`
	FromPlace  string `json:"from_place"`
	ToPlace    string `json:"to_place"`
	Amount     string `json:"amount"`
	Attachment string `json:"attachment,omitempty"`
}

type TravelEndpoint struct {
	transport *Transport
}

func (this *TravelEndpoint) List(ctx context.Context) ([]TravelRequestDTO, error) {
	const fallback = "Failed to fetch travel requests"
	resp, err := this.transport.Get(ctx, PathTravelList, nil, fallback)
	if err != nil {
		return nil, err
	}
	return decodeList[TravelRequestDTO](this.transport, resp, fallback, "travel_requests")
}

func (this *TravelEndpoint) Create(ctx context.Context, dto TravelRequestCreateDTO) (*common.ActionResult[*TravelRequestDTO], error) {
	const fallback = "Failed to create travel request"
	resp, err := this.transport.Post(ctx, PathTravelCreate, dto, fallback)
	if err != nil {
		return nil, err
	}
	return decodeCreated[*TravelRequestDTO](resp, "Travel request created successfully", fallback)
}
