package model

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleClient Role = "client"
)

// IsStaff reports whether the role belongs to the agency side.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleMember
}

func (r Role) Valid() bool {
	return r.IsStaff() || r == RoleClient
}

// Profile is an authenticated principal's record. Staff profiles carry an
// OrganizationID only; client profiles carry both OrganizationID and ClientID.
type Profile struct {
	ID             int64     `json:"id"`
	ExternalID     *string   `json:"-"` // identity provider user id
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	OrganizationID *int64    `json:"organization_id,omitempty"`
	ClientID       *int64    `json:"client_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
