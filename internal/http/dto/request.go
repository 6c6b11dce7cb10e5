package dto

import (
	"time"

	"clienthub.app/hub/internal/model"
	"clienthub.app/hub/internal/service"
)

type CreateRequestRequest struct {
	// Ignored for portal clients, who always submit for their own client.
	ClientID    int64      `json:"client_id,string,omitempty"`
	Title       string     `json:"title" binding:"required,min=1,max=200" jsonschema:"required,maxLength=200"`
	Description *string    `json:"description,omitempty"`
	Type        string     `json:"type,omitempty" jsonschema:"enum=design,enum=social,enum=video,enum=web,enum=branding,enum=other"`
	Priority    string     `json:"priority,omitempty" jsonschema:"enum=low,enum=medium,enum=high,enum=urgent"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func (r CreateRequestRequest) ToInput() service.CreateRequestInput {
	return service.CreateRequestInput{
		ClientID:    r.ClientID,
		Title:       r.Title,
		Description: r.Description,
		Type:        model.RequestType(r.Type),
		Priority:    model.Priority(r.Priority),
		DueDate:     r.DueDate,
	}
}

type TransitionRequest struct {
	Status          string `json:"status" binding:"required" jsonschema:"required,enum=new,enum=in_progress,enum=review,enum=changes_requested,enum=completed,enum=approved"`
	ExpectedVersion *int64 `json:"expected_version,omitempty" jsonschema:"description=Reject the change if the request moved on since this version"`
}

type ListRequestsQuery struct {
	Status     string `form:"status"`
	ClientID   string `form:"client_id"`
	Search     string `form:"q"`
	HasDueDate bool   `form:"has_due_date"`
}

type RequestResponse struct {
	ID          int64      `json:"id,string"`
	ClientID    int64      `json:"client_id,string"`
	ClientName  string     `json:"client_name,omitempty"`
	ClientColor string     `json:"client_color,omitempty"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Type        string     `json:"type"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	IsOverdue   bool       `json:"is_overdue"`
	CreatedBy   int64      `json:"created_by,string"`
	Version     int64      `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func ToRequestResponse(r *model.Request, overdue bool) RequestResponse {
	return RequestResponse{
		ID:          r.ID,
		ClientID:    r.ClientID,
		ClientName:  r.ClientName,
		ClientColor: r.ClientColor,
		Title:       r.Title,
		Description: r.Description,
		Type:        string(r.Type),
		Priority:    string(r.Priority),
		Status:      string(r.Status),
		DueDate:     r.DueDate,
		IsOverdue:   overdue,
		CreatedBy:   r.CreatedBy,
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
