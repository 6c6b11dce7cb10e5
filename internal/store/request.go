package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"clienthub.app/hub/core/db"
	"clienthub.app/hub/internal/model"
)

const requestColumns = `r.id, r.organization_id, r.client_id, r.title, r.description, r.type, r.priority,
	r.status, r.due_date, r.created_by, r.version, r.created_at, r.updated_at, c.name, c.color`

const requestFrom = ` FROM requests r JOIN clients c ON c.id = r.client_id`

type requestStore struct {
	db db.DBTX
}

func newRequestStore(conn db.DBTX) RequestStore {
	return &requestStore{db: conn}
}

func scanRequest(row pgx.Row) (model.Request, error) {
	var r model.Request
	err := row.Scan(&r.ID, &r.OrganizationID, &r.ClientID, &r.Title, &r.Description, &r.Type,
		&r.Priority, &r.Status, &r.DueDate, &r.CreatedBy, &r.Version, &r.CreatedAt, &r.UpdatedAt,
		&r.ClientName, &r.ClientColor)
	return r, err
}

func (s *requestStore) GetByID(ctx context.Context, orgID, id int64) (*model.Request, error) {
	return s.get(ctx, ``, orgID, id)
}

func (s *requestStore) GetForUpdate(ctx context.Context, orgID, id int64) (*model.Request, error) {
	return s.get(ctx, ` FOR UPDATE OF r`, orgID, id)
}

func (s *requestStore) get(ctx context.Context, suffix string, orgID, id int64) (*model.Request, error) {
	query := `SELECT ` + requestColumns + requestFrom + ` WHERE r.organization_id = $1 AND r.id = $2` + suffix
	r, err := scanRequest(s.db.QueryRow(ctx, query, orgID, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return &r, nil
}

// whereBuilder accumulates AND-ed conditions with positional arguments.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) String() string {
	return strings.Join(w.conds, " AND ")
}

func (s *requestStore) List(ctx context.Context, f RequestFilter) ([]model.Request, error) {
	if f.Scope.OrganizationID == 0 {
		return nil, fmt.Errorf("request query without organization scope")
	}

	var w whereBuilder
	w.add(`r.organization_id = ?`, f.Scope.OrganizationID)
	if f.Scope.ClientID != nil {
		w.add(`r.client_id = ?`, *f.Scope.ClientID)
	}
	if f.ClientID != nil {
		w.add(`r.client_id = ?`, *f.ClientID)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			statuses[i] = string(st)
		}
		w.add(`r.status = ANY(?)`, statuses)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		w.add(`(r.title ILIKE ? OR c.name ILIKE ?)`, pattern, pattern)
	}
	if f.HasDueDate {
		w.add(`r.due_date IS NOT NULL`)
	}
	if f.DueFrom != nil {
		w.add(`r.due_date >= ?`, *f.DueFrom)
	}
	if f.DueBefore != nil {
		w.add(`r.due_date < ?`, *f.DueBefore)
	}

	query := `SELECT ` + requestColumns + requestFrom + ` WHERE ` + w.String() + ` ORDER BY r.created_at DESC, r.id DESC`
	rows, err := s.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, mapErr(err)
	}
	requests, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Request, error) {
		return scanRequest(row)
	})
	return requests, mapErr(err)
}

func (s *requestStore) Create(ctx context.Context, r *model.Request) error {
	row := s.db.QueryRow(ctx, `
		INSERT INTO requests (id, organization_id, client_id, title, description, type, priority, status, due_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING version, created_at, updated_at`,
		r.ID, r.OrganizationID, r.ClientID, r.Title, r.Description, r.Type, r.Priority, r.Status, r.DueDate, r.CreatedBy)
	return mapErr(row.Scan(&r.Version, &r.CreatedAt, &r.UpdatedAt))
}

func (s *requestStore) UpdateStatus(ctx context.Context, orgID, id int64, status model.RequestStatus, expectedVersion int64) (*model.Request, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE requests
		SET status = $3, version = version + 1, updated_at = now()
		WHERE organization_id = $1 AND id = $2 AND version = $4`,
		orgID, id, status, expectedVersion)
	if err != nil {
		return nil, mapErr(err)
	}

	current, err := s.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrVersionConflict
	}
	return current, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
