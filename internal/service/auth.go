package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"clienthub.app/hub/common/id"
	"clienthub.app/hub/common/token"
	"clienthub.app/hub/internal/cache"
	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/model"
	"clienthub.app/hub/internal/store"
)

var (
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrAuthProviderUnavailable = errors.New("identity provider unavailable")
)

const minPasswordLength = 8

type AuthConfig struct {
	SessionTTL  time.Duration
	TrialPeriod time.Duration
}

// AuthResult is what a successful sign-in hands back to the transport.
type AuthResult struct {
	Identity domain.Identity
	Session  model.Session
}

type RegisterInput struct {
	FullName         string
	Email            string
	Password         string
	OrganizationName string
}

type AuthService interface {
	SignInWithPassword(ctx context.Context, email, password string) (*AuthResult, error)
	// SendMagicLink succeeds silently for addresses without portal access.
	SendMagicLink(ctx context.Context, email string) error
	SignInWithMagicLink(ctx context.Context, email, code string) (*AuthResult, error)
	Register(ctx context.Context, input RegisterInput) (*AuthResult, *model.Organization, error)
	SignOut(ctx context.Context, sessionToken string) error
}

type authService struct {
	profiles store.ProfileStore
	sessions store.SessionStore
	txRunner TxRunner
	provider IdentityProvider
	cache    cache.IdentityCache
	cfg      AuthConfig
}

func NewAuthService(
	profiles store.ProfileStore,
	sessions store.SessionStore,
	txRunner TxRunner,
	provider IdentityProvider,
	identityCache cache.IdentityCache,
	cfg AuthConfig,
) AuthService {
	return &authService{
		profiles: profiles,
		sessions: sessions,
		txRunner: txRunner,
		provider: provider,
		cache:    identityCache,
		cfg:      cfg,
	}
}

func (s *authService) SignInWithPassword(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.Validation("email and password are required")
	}

	user, err := s.provider.AuthenticatePassword(ctx, email, password)
	if err != nil {
		slog.InfoContext(ctx, "password sign-in rejected", "email", email, "error", err)
		return nil, ErrInvalidCredentials
	}

	profile, err := s.linkProfile(ctx, user, email)
	if err != nil {
		return nil, err
	}
	if !profile.Role.IsStaff() {
		slog.WarnContext(ctx, "client profile attempted password sign-in", "profile_id", profile.ID)
		return nil, domain.ErrForbidden
	}

	return s.startSession(ctx, *profile)
}

func (s *authService) SendMagicLink(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.Validation("a valid email is required")
	}

	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.InfoContext(ctx, "magic link requested for unknown email")
			return nil
		}
		return storeErr("getting profile", err)
	}
	if profile.Role != model.RoleClient {
		slog.InfoContext(ctx, "magic link requested for staff profile", "profile_id", profile.ID)
		return nil
	}

	if err := s.provider.SendMagicCode(ctx, email); err != nil {
		slog.ErrorContext(ctx, "failed to send magic code", "profile_id", profile.ID, "error", err)
		return fmt.Errorf("%w: %w", ErrAuthProviderUnavailable, err)
	}

	slog.InfoContext(ctx, "magic link sent", "profile_id", profile.ID)
	return nil
}

func (s *authService) SignInWithMagicLink(ctx context.Context, email, code string) (*AuthResult, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, domain.Validation("email and code are required")
	}

	user, err := s.provider.AuthenticateMagicCode(ctx, email, code)
	if err != nil {
		slog.InfoContext(ctx, "magic code rejected", "email", email, "error", err)
		return nil, ErrInvalidCredentials
	}

	profile, err := s.linkProfile(ctx, user, email)
	if err != nil {
		return nil, err
	}

	return s.startSession(ctx, *profile)
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*AuthResult, *model.Organization, error) {
	ctx = context.WithoutCancel(ctx)
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = normalizeEmail(input.Email)
	input.OrganizationName = strings.TrimSpace(input.OrganizationName)

	switch {
	case input.FullName == "":
		return nil, nil, domain.Validation("full name is required")
	case input.OrganizationName == "":
		return nil, nil, domain.Validation("organization name is required")
	case len(input.Password) < minPasswordLength:
		return nil, nil, domain.Validation("password must be at least %d characters", minPasswordLength)
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, nil, domain.Validation("a valid email is required")
	}

	if _, err := s.profiles.GetByEmail(ctx, input.Email); err == nil {
		return nil, nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, nil, storeErr("checking email", err)
	}

	first, last, _ := strings.Cut(input.FullName, " ")
	user, err := s.provider.CreateUser(ctx, input.Email, input.Password, first, last)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create provider user", "email", input.Email, "error", err)
		return nil, nil, fmt.Errorf("%w: %w", ErrAuthProviderUnavailable, err)
	}

	now := time.Now()
	trialEnds := now.Add(s.cfg.TrialPeriod)
	orgID := id.New()

	org := &model.Organization{
		ID:                 orgID,
		Name:               input.OrganizationName,
		Plan:               model.PlanFreelance,
		SubscriptionStatus: model.SubscriptionStatusTrial,
		TrialEndsAt:        &trialEnds,
	}
	profile := &model.Profile{
		ID:             id.New(),
		ExternalID:     &user.ID,
		FullName:       input.FullName,
		Email:          input.Email,
		Role:           model.RoleAdmin,
		OrganizationID: &orgID,
	}
	session, err := newSession(profile.ID, now.Add(s.cfg.SessionTTL))
	if err != nil {
		return nil, nil, err
	}

	err = s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		slug, err := ensureSlug(ctx, sp.Organizations(), input.OrganizationName)
		if err != nil {
			return err
		}
		org.Slug = slug

		if err := sp.Organizations().Create(ctx, org); err != nil {
			return storeErr("creating organization", err)
		}
		if err := sp.Profiles().Create(ctx, profile); err != nil {
			return storeErr("creating profile", err)
		}
		if err := sp.Sessions().Create(ctx, session); err != nil {
			return storeErr("creating session", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, passThrough("registering organization", err)
	}

	identity, err := domain.NewIdentity(*profile, session.ID)
	if err != nil {
		return nil, nil, err
	}

	slog.InfoContext(ctx, "organization registered",
		"organization_id", org.ID,
		"profile_id", profile.ID,
		"slug", org.Slug,
	)

	return &AuthResult{Identity: identity, Session: *session}, org, nil
}

// SignOut is idempotent: an unknown or expired token is not an error.
func (s *authService) SignOut(ctx context.Context, sessionToken string) error {
	ctx = context.WithoutCancel(ctx)
	if sessionToken == "" {
		return nil
	}

	session, err := s.sessions.GetValid(ctx, token.Hash(sessionToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return storeErr("getting session", err)
	}

	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		return storeErr("deleting session", err)
	}
	if err := s.cache.InvalidateSession(ctx, session.ID); err != nil {
		slog.WarnContext(ctx, "failed to drop cached identity", "session_id", session.ID, "error", err)
	}
	return nil
}

// linkProfile finds the profile for an authenticated provider user, first by
// external ID and then by email, recording the external ID on first sign-in.
func (s *authService) linkProfile(ctx context.Context, user ExternalUser, email string) (*model.Profile, error) {
	if user.ID != "" {
		profile, err := s.profiles.GetByExternalID(ctx, user.ID)
		if err == nil {
			return profile, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, storeErr("getting profile", err)
		}
	}

	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.WarnContext(ctx, "authenticated user has no profile", "external_id", user.ID)
			return nil, domain.ErrIdentityNotFound
		}
		return nil, storeErr("getting profile", err)
	}

	if profile.ExternalID == nil && user.ID != "" {
		profile.ExternalID = &user.ID
		if profile.FullName == "" {
			profile.FullName = buildFullName(user)
		}
		if err := s.profiles.Update(ctx, profile); err != nil {
			return nil, storeErr("linking profile", err)
		}
	}
	return profile, nil
}

// newSession mints the bearer token for a sign-in. The row keeps only its hash.
func newSession(profileID int64, expiresAt time.Time) (*model.Session, error) {
	raw, hash, err := token.New()
	if err != nil {
		return nil, fmt.Errorf("minting session token: %w", err)
	}
	return &model.Session{
		ID:        id.New(),
		ProfileID: profileID,
		TokenHash: hash,
		ExpiresAt: expiresAt,
		Token:     raw,
	}, nil
}

func (s *authService) startSession(ctx context.Context, profile model.Profile) (*AuthResult, error) {
	ctx = context.WithoutCancel(ctx)
	session, err := newSession(profile.ID, time.Now().Add(s.cfg.SessionTTL))
	if err != nil {
		return nil, err
	}

	identity, err := domain.NewIdentity(profile, session.ID)
	if err != nil {
		slog.WarnContext(ctx, "profile has no resolvable scope", "profile_id", profile.ID, "role", profile.Role)
		return nil, err
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		slog.ErrorContext(ctx, "failed to create session", "profile_id", profile.ID, "error", err)
		return nil, storeErr("creating session", err)
	}

	slog.InfoContext(ctx, "profile authenticated",
		"profile_id", profile.ID,
		"role", profile.Role,
		"session_id", session.ID,
	)

	return &AuthResult{Identity: identity, Session: *session}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
