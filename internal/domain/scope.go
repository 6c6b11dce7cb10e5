package domain

import (
	"clienthub.app/hub/internal/model"
)

// Scope is the tenant filter every query and write runs under.
// ClientID is set only for client-role principals.
type Scope struct {
	OrganizationID int64  `json:"organization_id"`
	ClientID       *int64 `json:"client_id,omitempty"`
}

// Covers reports whether a record owned by (orgID, clientID) is inside the scope.
// clientID may be nil for organization-level records; client scopes never cover those.
func (s Scope) Covers(orgID int64, clientID *int64) bool {
	if s.OrganizationID == 0 || s.OrganizationID != orgID {
		return false
	}
	if s.ClientID == nil {
		return true
	}
	return clientID != nil && *clientID == *s.ClientID
}

// Identity is the resolved caller: the profile plus its derived scope.
// It is passed explicitly to every engine and service operation.
type Identity struct {
	Profile   model.Profile `json:"profile"`
	Scope     Scope         `json:"scope"`
	SessionID int64         `json:"session_id"`
}

func (i Identity) Role() model.Role {
	return i.Profile.Role
}

// Resolved reports whether the identity went through resolution. The zero
// Identity is never resolved, so an unset identity is denied everything.
func (i Identity) Resolved() bool {
	return i.Profile.ID != 0 && i.Profile.Role.Valid() && i.Scope.OrganizationID != 0
}

func (i Identity) IsStaff() bool {
	return i.Resolved() && i.Profile.Role.IsStaff()
}

// ScopeFor derives the scope for a profile. Staff need an organization and no
// client; client-role profiles need both. Anything else cannot be resolved.
func ScopeFor(p model.Profile) (Scope, error) {
	switch {
	case p.Role.IsStaff():
		if p.OrganizationID == nil || p.ClientID != nil {
			return Scope{}, ErrIdentityNotFound
		}
		return Scope{OrganizationID: *p.OrganizationID}, nil
	case p.Role == model.RoleClient:
		if p.OrganizationID == nil || p.ClientID == nil {
			return Scope{}, ErrIdentityNotFound
		}
		clientID := *p.ClientID
		return Scope{OrganizationID: *p.OrganizationID, ClientID: &clientID}, nil
	default:
		return Scope{}, ErrIdentityNotFound
	}
}

// NewIdentity resolves the scope for a profile and builds the caller identity.
func NewIdentity(p model.Profile, sessionID int64) (Identity, error) {
	scope, err := ScopeFor(p)
	if err != nil {
		return Identity{}, err
	}
	return Identity{Profile: p, Scope: scope, SessionID: sessionID}, nil
}
