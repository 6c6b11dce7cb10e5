package store

import (
	"context"

	"clienthub.app/hub/core/db"
	"clienthub.app/hub/internal/model"
)

const organizationColumns = `id, name, slug, plan, subscription_status, trial_ends_at, created_at, updated_at`

type organizationStore struct {
	db db.DBTX
}

func newOrganizationStore(conn db.DBTX) OrganizationStore {
	return &organizationStore{db: conn}
}

func (s *organizationStore) GetByID(ctx context.Context, id int64) (*model.Organization, error) {
	row := s.db.QueryRow(ctx, `SELECT `+organizationColumns+` FROM organizations WHERE id = $1`, id)
	var org model.Organization
	if err := row.Scan(&org.ID, &org.Name, &org.Slug, &org.Plan, &org.SubscriptionStatus,
		&org.TrialEndsAt, &org.CreatedAt, &org.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &org, nil
}

func (s *organizationStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM organizations WHERE slug = $1)`, slug).Scan(&exists)
	return exists, mapErr(err)
}

func (s *organizationStore) Create(ctx context.Context, org *model.Organization) error {
	row := s.db.QueryRow(ctx, `
		INSERT INTO organizations (id, name, slug, plan, subscription_status, trial_ends_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		org.ID, org.Name, org.Slug, org.Plan, org.SubscriptionStatus, org.TrialEndsAt)
	return mapErr(row.Scan(&org.CreatedAt, &org.UpdatedAt))
}

func (s *organizationStore) Update(ctx context.Context, org *model.Organization) error {
	row := s.db.QueryRow(ctx, `
		UPDATE organizations
		SET name = $2, slug = $3, plan = $4, subscription_status = $5, trial_ends_at = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		org.ID, org.Name, org.Slug, org.Plan, org.SubscriptionStatus, org.TrialEndsAt)
	return mapErr(row.Scan(&org.UpdatedAt))
}
