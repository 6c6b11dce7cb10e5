package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"clienthub.app/hub/core/db"
	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/model"
)

const clientColumns = `id, organization_id, name, color, contact_name, contact_email, contact_phone, created_at`

type clientStore struct {
	db db.DBTX
}

func newClientStore(conn db.DBTX) ClientStore {
	return &clientStore{db: conn}
}

func scanClient(row pgx.Row) (model.Client, error) {
	var c model.Client
	err := row.Scan(&c.ID, &c.OrganizationID, &c.Name, &c.Color,
		&c.ContactName, &c.ContactEmail, &c.ContactPhone, &c.CreatedAt)
	return c, err
}

// scopeClause renders the tenant filter for the clients table.
func clientScopeClause(scope domain.Scope) (string, []any, error) {
	if scope.OrganizationID == 0 {
		return "", nil, fmt.Errorf("client query without organization scope")
	}
	if scope.ClientID != nil {
		return `organization_id = $1 AND id = $2`, []any{scope.OrganizationID, *scope.ClientID}, nil
	}
	return `organization_id = $1`, []any{scope.OrganizationID}, nil
}

func (s *clientStore) GetByID(ctx context.Context, scope domain.Scope, id int64) (*model.Client, error) {
	where, args, err := clientScopeClause(scope)
	if err != nil {
		return nil, err
	}
	args = append(args, id)
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE %s AND id = $%d`, clientColumns, where, len(args))
	c, err := scanClient(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (s *clientStore) List(ctx context.Context, scope domain.Scope) ([]model.Client, error) {
	where, args, err := clientScopeClause(scope)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, `SELECT `+clientColumns+` FROM clients WHERE `+where+` ORDER BY name`, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	clients, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Client, error) {
		return scanClient(row)
	})
	return clients, mapErr(err)
}

func (s *clientStore) Count(ctx context.Context, orgID int64) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT count(*) FROM clients WHERE organization_id = $1`, orgID).Scan(&n)
	return n, mapErr(err)
}

func (s *clientStore) Create(ctx context.Context, c *model.Client) error {
	row := s.db.QueryRow(ctx, `
		INSERT INTO clients (id, organization_id, name, color, contact_name, contact_email, contact_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		c.ID, c.OrganizationID, c.Name, c.Color, c.ContactName, c.ContactEmail, c.ContactPhone)
	return mapErr(row.Scan(&c.CreatedAt))
}

func (s *clientStore) Update(ctx context.Context, c *model.Client) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE clients
		SET name = $3, color = $4, contact_name = $5, contact_email = $6, contact_phone = $7
		WHERE organization_id = $1 AND id = $2`,
		c.OrganizationID, c.ID, c.Name, c.Color, c.ContactName, c.ContactEmail, c.ContactPhone)
	if err != nil {
		return mapErr(err)
	}
	return requireAffected(tag)
}
