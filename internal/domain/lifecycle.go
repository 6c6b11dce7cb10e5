package domain

import (
	"fmt"
	"time"

	"clienthub.app/hub/internal/model"
)

// AllStatuses is the closed status set in display order.
var AllStatuses = []model.RequestStatus{
	model.RequestStatusNew,
	model.RequestStatusInProgress,
	model.RequestStatusReview,
	model.RequestStatusChangesRequested,
	model.RequestStatusCompleted,
	model.RequestStatusApproved,
}

var terminalStatuses = map[model.RequestStatus]bool{
	model.RequestStatusCompleted: true,
	model.RequestStatusApproved:  true,
}

var attentionStatuses = map[model.RequestStatus]bool{
	model.RequestStatusNew:              true,
	model.RequestStatusChangesRequested: true,
}

var activeStatuses = map[model.RequestStatus]bool{
	model.RequestStatusNew:        true,
	model.RequestStatusInProgress: true,
	model.RequestStatusReview:     true,
}

// transitionRule allows every (from, to) pair in the cross product.
type transitionRule struct {
	from []model.RequestStatus
	to   []model.RequestStatus
}

// transitionTable is the whole lifecycle. Staff may move a request between
// any two statuses, including reopening terminal ones. Clients only answer
// a review.
var transitionTable = map[model.Role][]transitionRule{
	model.RoleAdmin:  {{from: AllStatuses, to: AllStatuses}},
	model.RoleMember: {{from: AllStatuses, to: AllStatuses}},
	model.RoleClient: {{
		from: []model.RequestStatus{model.RequestStatusReview},
		to:   []model.RequestStatus{model.RequestStatusApproved, model.RequestStatusChangesRequested},
	}},
}

func IsValidStatus(s model.RequestStatus) bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s is completed or approved. Terminal does not
// mean immutable: staff can still reopen.
func IsTerminal(s model.RequestStatus) bool {
	return terminalStatuses[s]
}

func NeedsAttention(s model.RequestStatus) bool {
	return attentionStatuses[s]
}

func IsActive(s model.RequestStatus) bool {
	return activeStatuses[s]
}

// CanTransition looks up (role, from, to) in the transition table.
func CanTransition(role model.Role, from, to model.RequestStatus) bool {
	for _, rule := range transitionTable[role] {
		if contains(rule.from, from) && contains(rule.to, to) {
			return true
		}
	}
	return false
}

// Transition validates a status change and returns the status to store.
// An unknown target is a validation error; a known target the role may not
// reach from the current status is ErrInvalidTransition.
func Transition(role model.Role, from, to model.RequestStatus) (model.RequestStatus, error) {
	if !IsValidStatus(to) {
		return from, Validation("unknown status %q", to)
	}
	if !CanTransition(role, from, to) {
		return from, fmt.Errorf("%w: %s cannot move %s to %s", ErrInvalidTransition, role, from, to)
	}
	return to, nil
}

// IsOverdue is true when the due date is strictly before now and the request
// is not terminal. Requests without a due date are never overdue.
func IsOverdue(r model.Request, now time.Time) bool {
	if r.DueDate == nil {
		return false
	}
	return r.DueDate.Before(now) && !IsTerminal(r.Status)
}

func contains(list []model.RequestStatus, s model.RequestStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
