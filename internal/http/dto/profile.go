package dto

import (
	"strconv"
	"time"

	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/model"
)

type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"required,min=1,max=255" jsonschema:"required"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin member" jsonschema:"required,enum=admin,enum=member"`
}

type GrantPortalAccessRequest struct {
	FullName string `json:"full_name,omitempty" binding:"omitempty,max=255"`
	Email    string `json:"email" binding:"required,email" jsonschema:"required,format=email"`
}

type ProfileResponse struct {
	ID             int64     `json:"id,string"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	OrganizationID *string   `json:"organization_id,omitempty"`
	ClientID       *string   `json:"client_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type ScopeResponse struct {
	OrganizationID int64   `json:"organization_id,string"`
	ClientID       *string `json:"client_id,omitempty"`
}

// MeResponse describes the caller, including where the UI should route it.
type MeResponse struct {
	Profile ProfileResponse `json:"profile"`
	Scope   ScopeResponse   `json:"scope"`
	IsStaff bool            `json:"is_staff"`
}

func ToProfileResponse(p *model.Profile) ProfileResponse {
	return ProfileResponse{
		ID:             p.ID,
		FullName:       p.FullName,
		Email:          p.Email,
		Role:           string(p.Role),
		OrganizationID: idString(p.OrganizationID),
		ClientID:       idString(p.ClientID),
		CreatedAt:      p.CreatedAt,
	}
}

func ToProfileResponses(profiles []model.Profile) []ProfileResponse {
	out := make([]ProfileResponse, 0, len(profiles))
	for i := range profiles {
		out = append(out, ToProfileResponse(&profiles[i]))
	}
	return out
}

func ToMeResponse(id domain.Identity) MeResponse {
	return MeResponse{
		Profile: ToProfileResponse(&id.Profile),
		Scope: ScopeResponse{
			OrganizationID: id.Scope.OrganizationID,
			ClientID:       idString(id.Scope.ClientID),
		},
		IsStaff: id.IsStaff(),
	}
}

func idString(id *int64) *string {
	if id == nil {
		return nil
	}
	s := strconv.FormatInt(*id, 10)
	return &s
}
