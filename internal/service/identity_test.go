package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"clienthub.app/hub/common/token"
	hubcache "clienthub.app/hub/internal/cache"
	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/model"
	"clienthub.app/hub/internal/service"
	"clienthub.app/hub/internal/store"
)

var _ = Describe("IdentityResolver", func() {
	var (
		ctx      context.Context
		resolver service.IdentityResolver
		sessions *mockSessionStore
		profiles *mockProfileStore
		cache    *mockIdentityCache
		cachedAt time.Duration
		cachedGn int64
		profile  model.Profile
	)

	const (
		sessionID    int64 = 4242
		sessionToken       = "k3b1Yx0d4Vq9n2Lr7Tz5Wc8Hf6Jp1Ms0Ue3Ga4Ri9Do"
	)

	BeforeEach(func() {
		ctx = context.Background()
		cachedAt = 0
		cachedGn = -1
		profile = model.Profile{ID: portalID, Role: model.RoleClient, OrganizationID: ptr(orgID), ClientID: ptr(clientA)}

		sessions = &mockSessionStore{
			getValidFn: func(_ context.Context, tokenHash string) (*model.Session, error) {
				if tokenHash != token.Hash(sessionToken) {
					return nil, store.ErrNotFound
				}
				return &model.Session{ID: sessionID, ProfileID: portalID, TokenHash: tokenHash, ExpiresAt: time.Now().Add(48 * time.Hour)}, nil
			},
		}
		profiles = &mockProfileStore{
			getByIDFn: func(_ context.Context, id int64) (*model.Profile, error) {
				if id != profile.ID {
					return nil, store.ErrNotFound
				}
				p := profile
				return &p, nil
			},
		}
		cache = &mockIdentityCache{
			setFn: func(_ context.Context, _ domain.Identity, generation int64, ttl time.Duration) error {
				cachedAt = ttl
				cachedGn = generation
				return nil
			},
		}
		resolver = service.NewIdentityResolver(sessions, profiles, cache, 15*time.Minute)
	})

	It("resolves a client identity with its client scope", func() {
		identity, err := resolver.Resolve(ctx, sessionToken)

		Expect(err).NotTo(HaveOccurred())
		Expect(identity.Role()).To(Equal(model.RoleClient))
		Expect(identity.Scope.OrganizationID).To(Equal(orgID))
		Expect(*identity.Scope.ClientID).To(Equal(clientA))
		Expect(identity.SessionID).To(Equal(sessionID))
	})

	It("looks the session up by token hash, never by the raw token", func() {
		var looked string
		sessions.getValidFn = func(_ context.Context, tokenHash string) (*model.Session, error) {
			looked = tokenHash
			return nil, store.ErrNotFound
		}
		_, _ = resolver.Resolve(ctx, sessionToken)
		Expect(looked).To(Equal(token.Hash(sessionToken)))
		Expect(looked).NotTo(Equal(sessionToken))
	})

	It("does not accept a session id in place of the token", func() {
		_, err := resolver.Resolve(ctx, "4242")
		Expect(err).To(MatchError(domain.ErrIdentityNotFound))
	})

	It("caches for the configured ttl when the session outlives it", func() {
		_, err := resolver.Resolve(ctx, sessionToken)
		Expect(err).NotTo(HaveOccurred())
		Expect(cachedAt).To(Equal(15 * time.Minute))
	})

	It("never caches longer than the session lives", func() {
		sessions.getValidFn = func(_ context.Context, tokenHash string) (*model.Session, error) {
			return &model.Session{ID: sessionID, ProfileID: portalID, ExpiresAt: time.Now().Add(time.Minute)}, nil
		}
		_, err := resolver.Resolve(ctx, sessionToken)
		Expect(err).NotTo(HaveOccurred())
		Expect(cachedAt).To(BeNumerically("<=", time.Minute))
	})

	It("serves a cached identity without loading the profile", func() {
		cached := portalIdentity(clientA)
		var asked int64
		cache.getFn = func(_ context.Context, id int64) (*domain.Identity, error) {
			asked = id
			return &cached, nil
		}
		profiles.getByIDFn = func(context.Context, int64) (*model.Profile, error) {
			Fail("profile store should not be consulted on a cache hit")
			return nil, nil
		}

		identity, err := resolver.Resolve(ctx, sessionToken)
		Expect(err).NotTo(HaveOccurred())
		Expect(identity.Profile.ID).To(Equal(portalID))
		Expect(asked).To(Equal(sessionID))
	})

	It("reads the generation before loading the profile and caches under it", func() {
		var order []string
		cache.generationFn = func(_ context.Context, profileID int64) (int64, error) {
			Expect(profileID).To(Equal(portalID))
			order = append(order, "generation")
			return 7, nil
		}
		profiles.getByIDFn = func(_ context.Context, id int64) (*model.Profile, error) {
			order = append(order, "profile")
			p := profile
			return &p, nil
		}

		_, err := resolver.Resolve(ctx, sessionToken)
		Expect(err).NotTo(HaveOccurred())
		Expect(order).To(Equal([]string{"generation", "profile"}))
		Expect(cachedGn).To(Equal(int64(7)))
	})

	It("still resolves when the profile changed mid-flight", func() {
		cache.setFn = func(context.Context, domain.Identity, int64, time.Duration) error {
			return hubcache.ErrStaleIdentity
		}
		identity, err := resolver.Resolve(ctx, sessionToken)
		Expect(err).NotTo(HaveOccurred())
		Expect(identity.Resolved()).To(BeTrue())
	})

	It("skips caching when the generation cannot be read", func() {
		cache.generationFn = func(context.Context, int64) (int64, error) {
			return 0, errors.New("redis down")
		}
		identity, err := resolver.Resolve(ctx, sessionToken)
		Expect(err).NotTo(HaveOccurred())
		Expect(identity.Resolved()).To(BeTrue())
		Expect(cachedGn).To(Equal(int64(-1)))
	})

	It("falls back to the store when the cache errors", func() {
		cache.getFn = func(context.Context, int64) (*domain.Identity, error) {
			return nil, errors.New("redis down")
		}
		identity, err := resolver.Resolve(ctx, sessionToken)
		Expect(err).NotTo(HaveOccurred())
		Expect(identity.Resolved()).To(BeTrue())
	})

	It("fails closed for an unknown or expired session", func() {
		_, err := resolver.Resolve(ctx, "unknown-token")
		Expect(err).To(MatchError(domain.ErrIdentityNotFound))

		_, err = resolver.Resolve(ctx, "")
		Expect(err).To(MatchError(domain.ErrIdentityNotFound))
	})

	It("fails closed for a client profile without a client", func() {
		profile.ClientID = nil
		_, err := resolver.Resolve(ctx, sessionToken)
		Expect(err).To(MatchError(domain.ErrIdentityNotFound))
		Expect(cachedAt).To(BeZero())
	})

	It("fails closed when the profile is gone", func() {
		profile.ID = 77
		_, err := resolver.Resolve(ctx, sessionToken)
		Expect(err).To(MatchError(domain.ErrIdentityNotFound))
	})

	It("reports store failures as unavailable", func() {
		sessions.getValidFn = func(context.Context, string) (*model.Session, error) {
			return nil, errors.New("timeout")
		}
		_, err := resolver.Resolve(ctx, sessionToken)
		Expect(err).To(MatchError(domain.ErrStoreUnavailable))
	})

	It("invalidates every cached session of a profile", func() {
		var dropped int64
		cache.invalidateProfileFn = func(_ context.Context, profileID int64) error {
			dropped = profileID
			return nil
		}
		Expect(resolver.Invalidate(ctx, portalID)).To(Succeed())
		Expect(dropped).To(Equal(portalID))
	})
})
