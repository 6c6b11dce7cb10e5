package domain

import (
	"clienthub.app/hub/internal/model"
)

// Action is a capability checked by Authorize.
type Action string

const (
	ActionReadRequest         Action = "read_request"
	ActionCreateRequest       Action = "create_request"
	ActionTransitionStatus    Action = "transition_status"
	ActionReadComments        Action = "read_comments"
	ActionReadInternalComment Action = "read_internal_comment"
	ActionPostComment         Action = "post_comment"
	ActionPostInternalComment Action = "post_internal_comment"
	ActionReadClient          Action = "read_client"
	ActionManageClient        Action = "manage_client"
	ActionReadOrganization    Action = "read_organization"
	ActionManageOrganization  Action = "manage_organization"
	ActionReadMembers         Action = "read_members"
	ActionManageMembers       Action = "manage_members"
)

// AllActions lists every action the policy table knows about.
var AllActions = []Action{
	ActionReadRequest, ActionCreateRequest, ActionTransitionStatus,
	ActionReadComments, ActionReadInternalComment, ActionPostComment, ActionPostInternalComment,
	ActionReadClient, ActionManageClient,
	ActionReadOrganization, ActionManageOrganization,
	ActionReadMembers, ActionManageMembers,
}

// Organization-level actions target the tenant itself rather than one client.
var orgLevelActions = map[Action]bool{
	ActionReadOrganization:   true,
	ActionManageOrganization: true,
	ActionReadMembers:        true,
	ActionManageMembers:      true,
}

var staffActions = map[Action]bool{
	ActionReadRequest:         true,
	ActionCreateRequest:       true,
	ActionTransitionStatus:    true,
	ActionReadComments:        true,
	ActionReadInternalComment: true,
	ActionPostComment:         true,
	ActionPostInternalComment: true,
	ActionReadClient:          true,
	ActionManageClient:        true,
	ActionReadOrganization:    true,
	ActionReadMembers:         true,
}

// policyTable is the whole decision matrix. Missing entries are denials.
var policyTable = map[model.Role]map[Action]bool{
	model.RoleAdmin: with(staffActions, ActionManageOrganization, ActionManageMembers),
	model.RoleMember: staffActions,
	model.RoleClient: {
		ActionReadRequest:      true,
		ActionCreateRequest:    true,
		ActionTransitionStatus: true,
		ActionReadComments:     true,
		ActionPostComment:      true,
		ActionReadClient:       true,
		ActionReadOrganization: true,
	},
}

func with(base map[Action]bool, extra ...Action) map[Action]bool {
	out := make(map[Action]bool, len(base)+len(extra))
	for a, ok := range base {
		out[a] = ok
	}
	for _, a := range extra {
		out[a] = true
	}
	return out
}

// Target identifies the owner of the record an action touches. ClientID is
// nil for organization-level targets.
type Target struct {
	OrganizationID int64
	ClientID       *int64
}

func OrganizationTarget(orgID int64) Target {
	return Target{OrganizationID: orgID}
}

func ClientTarget(orgID, clientID int64) Target {
	return Target{OrganizationID: orgID, ClientID: &clientID}
}

func RequestTarget(r model.Request) Target {
	return ClientTarget(r.OrganizationID, r.ClientID)
}

// Can reports whether the role holds the capability at all, ignoring scope.
func Can(role model.Role, action Action) bool {
	return policyTable[role][action]
}

// Authorize decides (role, action, target). It returns nil, ErrIdentityNotFound
// for an unresolved caller, ErrForbidden when the role lacks the capability,
// or ErrOutOfScope when the target is outside the caller's tenant scope.
func Authorize(id Identity, action Action, target Target) error {
	if !id.Resolved() {
		return ErrIdentityNotFound
	}
	if !Can(id.Role(), action) {
		return ErrForbidden
	}
	if orgLevelActions[action] {
		if target.OrganizationID != id.Scope.OrganizationID {
			return ErrOutOfScope
		}
		return nil
	}
	if !id.Scope.Covers(target.OrganizationID, target.ClientID) {
		return ErrOutOfScope
	}
	return nil
}
