package dto

import (
	"time"

	"clienthub.app/hub/internal/model"
)

type UpdateOrganizationRequest struct {
	Name *string `json:"name,omitempty" binding:"omitempty,min=1,max=255" jsonschema:"description=Display name"`
	Slug *string `json:"slug,omitempty" binding:"omitempty,min=1,max=255" jsonschema:"description=URL slug; regenerated and made unique"`
}

type OrganizationResponse struct {
	ID                 int64      `json:"id,string"`
	Name               string     `json:"name"`
	Slug               string     `json:"slug"`
	Plan               string     `json:"plan"`
	SubscriptionStatus string     `json:"subscription_status"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func ToOrganizationResponse(org *model.Organization) *OrganizationResponse {
	return &OrganizationResponse{
		ID:                 org.ID,
		Name:               org.Name,
		Slug:               org.Slug,
		Plan:               string(org.Plan),
		SubscriptionStatus: string(org.SubscriptionStatus),
		TrialEndsAt:        org.TrialEndsAt,
		CreatedAt:          org.CreatedAt,
		UpdatedAt:          org.UpdatedAt,
	}
}
