package store

import (
	"context"
	"time"

	"clienthub.app/hub/core/db"
	"clienthub.app/hub/internal/model"
)

type sessionStore struct {
	db db.DBTX
}

func newSessionStore(conn db.DBTX) SessionStore {
	return &sessionStore{db: conn}
}

func (s *sessionStore) GetValid(ctx context.Context, tokenHash string) (*model.Session, error) {
	var sess model.Session
	err := s.db.QueryRow(ctx, `
		SELECT id, profile_id, token_hash, expires_at, created_at
		FROM sessions
		WHERE token_hash = $1 AND expires_at > now()`, tokenHash).
		Scan(&sess.ID, &sess.ProfileID, &sess.TokenHash, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &sess, nil
}

func (s *sessionStore) Create(ctx context.Context, sess *model.Session) error {
	row := s.db.QueryRow(ctx, `
		INSERT INTO sessions (id, profile_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		sess.ID, sess.ProfileID, sess.TokenHash, sess.ExpiresAt)
	return mapErr(row.Scan(&sess.CreatedAt))
}

func (s *sessionStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return mapErr(err)
}

func (s *sessionStore) DeleteByProfile(ctx context.Context, profileID int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE profile_id = $1`, profileID)
	return mapErr(err)
}

func (s *sessionStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, before)
	if err != nil {
		return 0, mapErr(err)
	}
	return tag.RowsAffected(), nil
}
