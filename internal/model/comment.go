package model

import "time"

// Comment is append-only. Seq is the store's insertion order and breaks
// created_at ties.
type Comment struct {
	ID         int64     `json:"id"`
	Seq        int64     `json:"-"`
	RequestID  int64     `json:"request_id"`
	ProfileID  int64     `json:"profile_id"`
	Content    string    `json:"content"`
	IsInternal bool      `json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`

	AuthorName string `json:"author_name,omitempty"` // joined
	AuthorRole Role   `json:"author_role,omitempty"` // joined
}
