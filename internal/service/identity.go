package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"clienthub.app/hub/common/metrics"
	"clienthub.app/hub/common/token"
	"clienthub.app/hub/internal/cache"
	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/store"
)

// IdentityResolver turns a session token into the caller's Identity.
// Resolution fails closed: any missing or incoherent piece is ErrIdentityNotFound.
type IdentityResolver interface {
	Resolve(ctx context.Context, sessionToken string) (domain.Identity, error)
	// Invalidate drops cached identities of a profile after its role or scope changed.
	Invalidate(ctx context.Context, profileID int64) error
}

type identityResolver struct {
	sessions store.SessionStore
	profiles store.ProfileStore
	cache    cache.IdentityCache
	ttl      time.Duration
}

func NewIdentityResolver(sessions store.SessionStore, profiles store.ProfileStore, identityCache cache.IdentityCache, ttl time.Duration) IdentityResolver {
	return &identityResolver{
		sessions: sessions,
		profiles: profiles,
		cache:    identityCache,
		ttl:      ttl,
	}
}

func (r *identityResolver) Resolve(ctx context.Context, sessionToken string) (domain.Identity, error) {
	if sessionToken == "" {
		return domain.Identity{}, domain.ErrIdentityNotFound
	}

	session, err := r.sessions.GetValid(ctx, token.Hash(sessionToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, domain.ErrIdentityNotFound
		}
		return domain.Identity{}, storeErr("getting session", err)
	}

	if cached, err := r.cache.Get(ctx, session.ID); err != nil {
		metrics.ObserveIdentityCache(metrics.CacheError)
		slog.WarnContext(ctx, "identity cache unavailable, resolving from store", "session_id", session.ID, "error", err)
	} else if cached != nil && cached.Resolved() && cached.Profile.ID == session.ProfileID {
		metrics.ObserveIdentityCache(metrics.CacheHit)
		return *cached, nil
	} else {
		metrics.ObserveIdentityCache(metrics.CacheMiss)
	}

	generation, genErr := r.cache.Generation(ctx, session.ProfileID)

	profile, err := r.profiles.GetByID(ctx, session.ProfileID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.WarnContext(ctx, "session references missing profile", "session_id", session.ID, "profile_id", session.ProfileID)
			return domain.Identity{}, domain.ErrIdentityNotFound
		}
		return domain.Identity{}, storeErr("getting profile", err)
	}

	identity, err := domain.NewIdentity(*profile, session.ID)
	if err != nil {
		slog.WarnContext(ctx, "profile has no resolvable scope",
			"profile_id", profile.ID,
			"role", profile.Role,
		)
		return domain.Identity{}, err
	}

	if genErr != nil {
		slog.WarnContext(ctx, "identity generation unavailable, not caching", "profile_id", profile.ID, "error", genErr)
		return identity, nil
	}

	ttl := time.Until(session.ExpiresAt)
	if r.ttl < ttl {
		ttl = r.ttl
	}
	if err := r.cache.Set(ctx, identity, generation, ttl); err != nil {
		if errors.Is(err, cache.ErrStaleIdentity) {
			slog.DebugContext(ctx, "profile changed while resolving, not caching", "profile_id", profile.ID)
		} else {
			slog.WarnContext(ctx, "failed to cache identity", "profile_id", profile.ID, "error", err)
		}
	}

	return identity, nil
}

func (r *identityResolver) Invalidate(ctx context.Context, profileID int64) error {
	if err := r.cache.InvalidateProfile(ctx, profileID); err != nil {
		return storeErr("invalidating identity cache", err)
	}
	return nil
}
