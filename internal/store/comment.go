package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"clienthub.app/hub/core/db"
	"clienthub.app/hub/internal/model"
)

type commentStore struct {
	db db.DBTX
}

func newCommentStore(conn db.DBTX) CommentStore {
	return &commentStore{db: conn}
}

// ListByRequest returns every comment on the request, internal ones included,
// in insertion order. A request outside orgID yields no rows. Visibility
// filtering happens above the store.
func (s *commentStore) ListByRequest(ctx context.Context, orgID, requestID int64) ([]model.Comment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT cm.id, cm.seq, cm.request_id, cm.profile_id, cm.content, cm.is_internal, cm.created_at,
			p.full_name, p.role
		FROM comments cm
		JOIN requests r ON r.id = cm.request_id
		JOIN profiles p ON p.id = cm.profile_id
		WHERE r.organization_id = $1 AND cm.request_id = $2
		ORDER BY cm.created_at, cm.seq`, orgID, requestID)
	if err != nil {
		return nil, mapErr(err)
	}
	comments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Comment, error) {
		var c model.Comment
		err := row.Scan(&c.ID, &c.Seq, &c.RequestID, &c.ProfileID, &c.Content, &c.IsInternal, &c.CreatedAt,
			&c.AuthorName, &c.AuthorRole)
		return c, err
	})
	return comments, mapErr(err)
}

func (s *commentStore) Create(ctx context.Context, c *model.Comment) error {
	row := s.db.QueryRow(ctx, `
		INSERT INTO comments (id, request_id, profile_id, content, is_internal)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING seq, created_at`,
		c.ID, c.RequestID, c.ProfileID, c.Content, c.IsInternal)
	return mapErr(row.Scan(&c.Seq, &c.CreatedAt))
}
