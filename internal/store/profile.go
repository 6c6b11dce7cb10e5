package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"clienthub.app/hub/core/db"
	"clienthub.app/hub/internal/model"
)

const profileColumns = `id, external_id, full_name, email, role, organization_id, client_id, created_at, updated_at`

type profileStore struct {
	db db.DBTX
}

func newProfileStore(conn db.DBTX) ProfileStore {
	return &profileStore{db: conn}
}

func scanProfile(row pgx.Row) (model.Profile, error) {
	var p model.Profile
	err := row.Scan(&p.ID, &p.ExternalID, &p.FullName, &p.Email, &p.Role,
		&p.OrganizationID, &p.ClientID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *profileStore) getOne(ctx context.Context, where string, arg any) (*model.Profile, error) {
	p, err := scanProfile(s.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE `+where, arg))
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (s *profileStore) GetByID(ctx context.Context, id int64) (*model.Profile, error) {
	return s.getOne(ctx, `id = $1`, id)
}

func (s *profileStore) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	return s.getOne(ctx, `lower(email) = lower($1)`, email)
}

func (s *profileStore) GetByExternalID(ctx context.Context, externalID string) (*model.Profile, error) {
	return s.getOne(ctx, `external_id = $1`, externalID)
}

func (s *profileStore) Create(ctx context.Context, p *model.Profile) error {
	row := s.db.QueryRow(ctx, `
		INSERT INTO profiles (id, external_id, full_name, email, role, organization_id, client_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		p.ID, p.ExternalID, p.FullName, p.Email, p.Role, p.OrganizationID, p.ClientID)
	return mapErr(row.Scan(&p.CreatedAt, &p.UpdatedAt))
}

func (s *profileStore) Update(ctx context.Context, p *model.Profile) error {
	row := s.db.QueryRow(ctx, `
		UPDATE profiles
		SET external_id = $2, full_name = $3, role = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		p.ID, p.ExternalID, p.FullName, p.Role)
	return mapErr(row.Scan(&p.UpdatedAt))
}

func (s *profileStore) list(ctx context.Context, query string, args ...any) ([]model.Profile, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	profiles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Profile, error) {
		return scanProfile(row)
	})
	return profiles, mapErr(err)
}

func (s *profileStore) ListStaff(ctx context.Context, orgID int64) ([]model.Profile, error) {
	return s.list(ctx, `SELECT `+profileColumns+` FROM profiles
		WHERE organization_id = $1 AND role IN ('admin', 'member')
		ORDER BY created_at`, orgID)
}

func (s *profileStore) ListByClient(ctx context.Context, orgID, clientID int64) ([]model.Profile, error) {
	return s.list(ctx, `SELECT `+profileColumns+` FROM profiles
		WHERE organization_id = $1 AND client_id = $2
		ORDER BY created_at`, orgID, clientID)
}
