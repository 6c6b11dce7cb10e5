package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"clienthub.app/hub/common/metrics"
	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/store"
)

// authorize runs the policy check and records the decision. Denials are
// logged with enough context to audit who tried what.
func authorize(ctx context.Context, id domain.Identity, action domain.Action, target domain.Target) error {
	err := domain.Authorize(id, action, target)
	metrics.ObservePolicyDecision(string(action), string(id.Role()),
		metrics.OutcomeFor(err, domain.ErrOutOfScope, domain.ErrIdentityNotFound))
	if err != nil {
		slog.WarnContext(ctx, "access denied",
			"action", action,
			"role", id.Role(),
			"profile_id", id.Profile.ID,
			"target_organization_id", target.OrganizationID,
			"target_client_id", target.ClientID,
			"error", err,
		)
	}
	return err
}

// scopeTarget is the widest target the caller's scope covers. Listing
// operations authorize against it.
func scopeTarget(id domain.Identity) domain.Target {
	return domain.Target{OrganizationID: id.Scope.OrganizationID, ClientID: id.Scope.ClientID}
}

// storeErr maps store failures onto the engine's error kinds.
func storeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return domain.ErrNotFound
	case errors.Is(err, store.ErrVersionConflict):
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	case errors.Is(err, store.ErrDuplicate):
		return fmt.Errorf("%s: %w: already exists", op, domain.ErrConflict)
	default:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
	}
}

// passThrough keeps engine errors raised inside a transaction intact and maps
// everything else as a store failure.
func passThrough(op string, err error) error {
	for _, kind := range []error{
		domain.ErrIdentityNotFound, domain.ErrForbidden, domain.ErrInvalidTransition,
		domain.ErrNotFound, domain.ErrValidationFailed, domain.ErrStoreUnavailable, domain.ErrConflict,
	} {
		if errors.Is(err, kind) {
			return err
		}
	}
	return storeErr(op, err)
}
