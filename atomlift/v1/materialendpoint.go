package v1

import (
	"context"

	"technuob.com/atomlift/atomlift/v1/common"
)

type ItemDTO struct {
	ID            int64  `json:"id"`
	ItemNumber    string `json:"item_number"`
	Name          string `json:"name"`
	Make          string `json:"make,omitempty"`
	Model         string `json:"model"`
	Type          string `json:"type,omitempty"`
	Capacity      string `json:"capacity"`
	Unit          string `json:"unit,omitempty"`
	SalePrice     string `json:"sale_price,omitempty"`
	PurchasePrice string `json:"purchase_price,omitempty"`
}

type MaterialRequestDTO struct {
	ID          int64   `json:"id"`
	Date        string  `json:"date"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Item        ItemDTO `json:"item"`
	Brand       string  `json:"brand,omitempty"`
	File        string  `json:"file,omitempty"`
	AddedBy     string  `json:"added_by"`
	RequestedBy string  `json:"requested_by"`
}

type MaterialRequestCreateDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Item        int64  `json:"item"`
	Brand       string `json:"brand,omitempty"`
	File        string `json:"file,omitempty"`
	AddedBy     string `json:"added_by"`
	RequestedBy string `json:"requested_by"`
}

type MaterialEndpoint struct {
	transport *Transport
}

func (this *MaterialEndpoint) List(ctx context.Context) ([]MaterialRequestDTO, error) {
	const fallback = "Failed to fetch material requests"
	resp, err := this.transport.Get(ctx, PathMaterialRequestList, nil, fallback)
	if err != nil {
		return nil, err
	}
	return decodeList[MaterialRequestDTO](this.transport, resp, fallback, "material_requests")
}

func (this *MaterialEndpoint) Create(ctx context.Context, dto MaterialRequestCreateDTO) (*common.ActionResult[*MaterialRequestDTO], error) {
	const fallback = "Failed to create material request"
	resp, err := this.transport.Post(ctx, PathMaterialRequestCreate, dto, fallback)
	if err != nil {
		return nil, err
	}
	return decodeCreated[*MaterialRequestDTO](resp, "Material request created successfully", fallback)
}

func (this *MaterialEndpoint) Items(ctx context.Context) ([]ItemDTO, error) {
	const fallback = "Failed to fetch items"
	resp, err := this.transport.Get(ctx, PathItemsList, nil, fallback)
	if err != nil {
		return nil, err
	}
	return decodeList[ItemDTO](this.transport, resp, fallback, "items")
}
