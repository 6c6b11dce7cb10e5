package store

import (
	"clienthub.app/hub/core/db"
)

type Stores struct {
	db db.DBTX
}

// NewStores binds every store to the same connection, which may be the pool
// or an open transaction.
func NewStores(conn db.DBTX) *Stores {
	return &Stores{db: conn}
}

func (s *Stores) Organizations() OrganizationStore {
	return newOrganizationStore(s.db)
}

func (s *Stores) Profiles() ProfileStore {
	return newProfileStore(s.db)
}

func (s *Stores) Clients() ClientStore {
	return newClientStore(s.db)
}

func (s *Stores) Requests() RequestStore {
	return newRequestStore(s.db)
}

func (s *Stores) Comments() CommentStore {
	return newCommentStore(s.db)
}

func (s *Stores) Sessions() SessionStore {
	return newSessionStore(s.db)
}
