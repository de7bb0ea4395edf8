package v1

import (
	"context"
	"encoding/json"
	"errors"

	"technuob.com/atomlift/atomlift/v1/common"
	"technuob.com/atomlift/utils"
)

type LeaveTypeDTO struct {
	ID   int64  `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// PredefinedLeaveTypes is served when the backend cannot list leave types.
func PredefinedLeaveTypes() []LeaveTypeDTO {
	return []LeaveTypeDTO{
		{ID: 1, Key: "casual", Name: "Casual Leave"},
		{ID: 2, Key: "sick", Name: "Sick Leave"},
		{ID: 3, Key: "earned", Name: "Earned Leave"},
		{ID: 4, Key: "unpaid", Name: "Unpaid Leave"},
		{ID: 5, Key: "other", Name: "Other"},
	}
}

type LeaveDTO struct {
	ID               int64              `json:"id"`
	HalfDay          bool               `json:"half_day"`
	LeaveType        string             `json:"leave_type"`
	LeaveTypeDisplay string             `json:"leave_type_display,omitempty"`
	FromDate         string             `json:"from_date"`
	ToDate           string             `json:"to_date"`
	Reason           string             `json:"reason,omitempty"`
	Email            string             `json:"email"`
	Status           common.LeaveStatus `json:"status"`
	StatusDisplay    string             `json:"status_display,omitempty"`
	CreatedAt        string             `json:"created_at,omitempty"`
	UpdatedAt        string             `json:"updated_at,omitempty"`
}

type LeaveCreateDTO struct {
	HalfDay   bool   `json:"half_day"`
	LeaveType string `json:"leave_type"`
	FromDate  string `json:"from_date"`
	ToDate    string `json:"to_date"`
	Reason    string `json:"reason"`
	Email     string `json:"email"`
}

// LeaveUpdateDTO is a partial update; nil fields are not sent.
type LeaveUpdateDTO struct {
	HalfDay   *bool   `json:"half_day,omitempty"`
	LeaveType *string `json:"leave_type,omitempty"`
	FromDate  *string `json:"from_date,omitempty"`
	ToDate    *string `json:"to_date,omitempty"`
	Reason    *string `json:"reason,omitempty"`
	Email     *string `json:"email,omitempty"`
}

type LeaveCountDTO struct {
	LeaveType        string  `json:"leave_type"`
	LeaveTypeDisplay string  `json:"leave_type_display,omitempty"`
	TotalAllotted    float64 `json:"total_allotted"`
	TotalUsed        float64 `json:"total_used"`
	TotalRemaining   float64 `json:"total_remaining"`
}

type LeaveCountsDTO struct {
	Counts                  []LeaveCountDTO `json:"counts"`
	TotalAllLeavesAllotted  *float64        `json:"total_all_leaves_allotted,omitempty"`
	TotalAllLeavesUsed      *float64        `json:"total_all_leaves_used,omitempty"`
	TotalAllLeavesRemaining *float64        `json:"total_all_leaves_remaining,omitempty"`
}

type LeaveEndpoint struct {
	transport *Transport
}

func (this *LeaveEndpoint) Create(ctx context.Context, dto LeaveCreateDTO) (*common.ActionResult[*LeaveDTO], error) {
	const fallback = "Failed to create leave"
	resp, err := this.transport.Post(ctx, PathLeaveCreate, dto, fallback)
	if err != nil {
		return nil, err
	}
	return decodeAction[*LeaveDTO](resp, "leave", "Leave created successfully", fallback)
}

func (this *LeaveEndpoint) List(ctx context.Context) ([]LeaveDTO, error) {
	const fallback = "Failed to fetch leave list"
	resp, err := this.transport.Get(ctx, PathLeaveList, nil, fallback)
	if err != nil {
		return nil, err
	}
	return decodeList[LeaveDTO](this.transport, resp, fallback, "leave_requests")
}

func (this *LeaveEndpoint) Get(ctx context.Context, id int64) (*LeaveDTO, error) {
	const fallback = "Failed to fetch leave details"
	resp, err := this.transport.Get(ctx, leaveDetailPath(id), nil, fallback)
	if err != nil {
		return nil, err
	}
	leave, err := decode[LeaveDTO](resp, fallback)
	if err != nil {
		return nil, err
	}
	return &leave, nil
}

func (this *LeaveEndpoint) Update(ctx context.Context, id int64, dto LeaveUpdateDTO) (*common.ActionResult[*LeaveDTO], error) {
	const fallback = "Failed to update leave request"
	resp, err := this.transport.Put(ctx, leaveUpdatePath(id), dto, fallback)
	if err != nil {
		return nil, err
	}
	return decodeAction[*LeaveDTO](resp, "leave", "Leave updated successfully", fallback)
}

func (this *LeaveEndpoint) Delete(ctx context.Context, id int64) (*common.ActionResult[struct{}], error) {
	const fallback = "Failed to delete leave"
	resp, err := this.transport.Delete(ctx, leaveDeletePath(id), fallback)
	if err != nil {
		return nil, err
	}
	return decodeAction[struct{}](resp, "", "Leave deleted successfully", fallback)
}

// Types never fails because of the backend: any error other than a missing token yields
// PredefinedLeaveTypes.
func (this *LeaveEndpoint) Types(ctx context.Context) ([]LeaveTypeDTO, error) {
	const fallback = "Failed to fetch leave types"
	var authErr error
	types := utils.WithFailOpenDefault(func() ([]LeaveTypeDTO, error) {
		resp, err := this.transport.Get(ctx, PathLeaveTypes, nil, fallback)
		if err != nil {
			return nil, err
		}
		items, ok, err := NormalizeList[LeaveTypeDTO](resp.Data)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New("unexpected leave types response shape")
		}
		return items, nil
	}, PredefinedLeaveTypes(), func(err error) {
		if errors.Is(err, ErrAuthRequired) {
			authErr = err
			return
		}
		this.transport.Log.Warn().Err(err).Str("endpoint", PathLeaveTypes).Msg("using predefined leave types")
	})
	if authErr != nil {
		return nil, authErr
	}
	return types, nil
}

// Counts accepts {counts: [...]}, a bare array or {data: [...]}, and falls back to empty counts.
func (this *LeaveEndpoint) Counts(ctx context.Context) (*LeaveCountsDTO, error) {
	const fallback = "Failed to fetch leave counts"
	var authErr error
	counts := utils.WithFailOpenDefault(func() (LeaveCountsDTO, error) {
		resp, err := this.transport.Get(ctx, PathLeaveCounts, nil, fallback)
		if err != nil {
			return LeaveCountsDTO{}, err
		}
		return parseLeaveCounts(resp.Data)
	}, LeaveCountsDTO{Counts: []LeaveCountDTO{}}, func(err error) {
		if errors.Is(err, ErrAuthRequired) {
			authErr = err
			return
		}
		this.transport.Log.Warn().Err(err).Str("endpoint", PathLeaveCounts).Msg("using empty leave counts")
	})
	if authErr != nil {
		return nil, authErr
	}
	return &counts, nil
}

func parseLeaveCounts(data []byte) (LeaveCountsDTO, error) {
	var withCounts struct {
		Counts json.RawMessage `json:"counts"`
	}
	if json.Unmarshal(data, &withCounts) == nil && isArray(withCounts.Counts) {
		var out LeaveCountsDTO
		if err := json.Unmarshal(data, &out); err != nil {
			return LeaveCountsDTO{}, err
		}
		return out, nil
	}
	items, ok, err := NormalizeList[LeaveCountDTO](data)
	if err != nil {
		return LeaveCountsDTO{}, err
	}
	if !ok {
		return LeaveCountsDTO{}, errors.New("unexpected leave counts response shape")
	}
	return LeaveCountsDTO{Counts: items}, nil
}
