package model

import "time"

type Plan string

type SubscriptionStatus string

const (
	PlanFreelance Plan = "freelance"
	PlanAgency    Plan = "agency"
	PlanStudio    Plan = "studio"
)

const (
	SubscriptionStatusTrial    SubscriptionStatus = "trial"
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

// Organization is a tenant. Everything else hangs off it.
type Organization struct {
	ID                 int64              `json:"id"`
	Name               string             `json:"name"`
	Slug               string             `json:"slug"`
	Plan               Plan               `json:"plan"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status"`
	TrialEndsAt        *time.Time         `json:"trial_ends_at,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}
