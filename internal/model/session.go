package model

import "time"

// Session is a sign-in. The bearer token is never stored; only TokenHash is.
type Session struct {
	ID        int64     `json:"id"`
	ProfileID int64     `json:"profile_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`

	// Token is set only on the value returned from sign-in.
	Token string `json:"-"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
