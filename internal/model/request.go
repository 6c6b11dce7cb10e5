package model

import "time"

type RequestStatus string

type Priority string

type RequestType string

const (
	RequestStatusNew              RequestStatus = "new"
	RequestStatusInProgress       RequestStatus = "in_progress"
	RequestStatusReview           RequestStatus = "review"
	RequestStatusChangesRequested RequestStatus = "changes_requested"
	RequestStatusCompleted        RequestStatus = "completed"
	RequestStatusApproved         RequestStatus = "approved"
)

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Request types are informational only; nothing in the workflow branches on them.
const (
	RequestTypeDesign   RequestType = "design"
	RequestTypeSocial   RequestType = "social"
	RequestTypeVideo    RequestType = "video"
	RequestTypeWeb      RequestType = "web"
	RequestTypeBranding RequestType = "branding"
	RequestTypeOther    RequestType = "other"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func (t RequestType) Valid() bool {
	switch t {
	case RequestTypeDesign, RequestTypeSocial, RequestTypeVideo, RequestTypeWeb, RequestTypeBranding, RequestTypeOther:
		return true
	}
	return false
}

type Request struct {
	ID             int64         `json:"id"`
	OrganizationID int64         `json:"organization_id"`
	ClientID       int64         `json:"client_id"`
	Title          string        `json:"title"`
	Description    *string       `json:"description,omitempty"`
	Type           RequestType   `json:"type"`
	Priority       Priority      `json:"priority"`
	Status         RequestStatus `json:"status"`
	DueDate        *time.Time    `json:"due_date,omitempty"`
	CreatedBy      int64         `json:"created_by"`
	// Version increments on every status write and backs optimistic concurrency.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ClientName  string `json:"client_name,omitempty"`  // joined
	ClientColor string `json:"client_color,omitempty"` // joined
}
