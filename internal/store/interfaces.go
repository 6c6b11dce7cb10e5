package store

import (
	"context"
	"errors"
	"time"

	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique constraint rejects a write
var ErrDuplicate = errors.New("duplicate")

// ErrVersionConflict is returned when a conditional update finds a newer version
var ErrVersionConflict = errors.New("version conflict")

// OrganizationStore defines the contract for tenant data access
type OrganizationStore interface {
	GetByID(ctx context.Context, id int64) (*model.Organization, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, org *model.Organization) error
	Update(ctx context.Context, org *model.Organization) error
}

// ProfileStore defines the contract for principal data access
type ProfileStore interface {
	GetByID(ctx context.Context, id int64) (*model.Profile, error)
	GetByEmail(ctx context.Context, email string) (*model.Profile, error)
	GetByExternalID(ctx context.Context, externalID string) (*model.Profile, error)
	Create(ctx context.Context, profile *model.Profile) error
	Update(ctx context.Context, profile *model.Profile) error
	ListStaff(ctx context.Context, orgID int64) ([]model.Profile, error)
	ListByClient(ctx context.Context, orgID, clientID int64) ([]model.Profile, error)
}

// ClientStore defines the contract for client data access. Every read is
// bounded by the caller's scope.
type ClientStore interface {
	GetByID(ctx context.Context, scope domain.Scope, id int64) (*model.Client, error)
	List(ctx context.Context, scope domain.Scope) ([]model.Client, error)
	Count(ctx context.Context, orgID int64) (int, error)
	Create(ctx context.Context, client *model.Client) error
	Update(ctx context.Context, client *model.Client) error
}

// RequestFilter narrows a request listing. Scope is mandatory; the store
// refuses a filter without an organization.
type RequestFilter struct {
	Scope      domain.Scope
	Statuses   []model.RequestStatus
	ClientID   *int64
	Search     string
	HasDueDate bool
	DueFrom    *time.Time
	DueBefore  *time.Time
}

// RequestStore defines the contract for request data access
type RequestStore interface {
	// GetByID loads a request inside an organization. Client-level scoping is
	// left to the policy check so writes can report Forbidden.
	GetByID(ctx context.Context, orgID, id int64) (*model.Request, error)
	// GetForUpdate is GetByID with a row lock; only meaningful inside a transaction.
	GetForUpdate(ctx context.Context, orgID, id int64) (*model.Request, error)
	List(ctx context.Context, filter RequestFilter) ([]model.Request, error)
	Create(ctx context.Context, req *model.Request) error
	// UpdateStatus writes the status only if the stored version still equals
	// expectedVersion, bumping the version. Returns ErrVersionConflict otherwise.
	UpdateStatus(ctx context.Context, orgID, id int64, status model.RequestStatus, expectedVersion int64) (*model.Request, error)
}

// CommentStore defines the contract for comment data access. Comments are append-only.
type CommentStore interface {
	ListByRequest(ctx context.Context, orgID, requestID int64) ([]model.Comment, error)
	Create(ctx context.Context, comment *model.Comment) error
}

// SessionStore defines the contract for session data access
type SessionStore interface {
	// GetValid looks a session up by the hash of its bearer token and checks expiry.
	GetValid(ctx context.Context, tokenHash string) (*model.Session, error)
	Create(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, id int64) error
	DeleteByProfile(ctx context.Context, profileID int64) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
