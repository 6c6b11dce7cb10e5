package model

import "time"

// ClientColors is the palette offered when creating a client; the first
// entry is the default.
var ClientColors = []string{
	"#22c55e", "#3b82f6", "#6366f1", "#f472b6", "#f97316",
	"#ef4444", "#14b8a6", "#8b5cf6", "#84cc16", "#06b6d4",
}

type Client struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	Name           string    `json:"name"`
	Color          string    `json:"color"`
	ContactName    *string   `json:"contact_name,omitempty"`
	ContactEmail   *string   `json:"contact_email,omitempty"`
	ContactPhone   *string   `json:"contact_phone,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
