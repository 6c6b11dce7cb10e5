package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"clienthub.app/hub/common/id"
	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/model"
	"clienthub.app/hub/internal/store"
)

type GrantPortalAccessInput struct {
	FullName string
	Email    string
}

type ProfileService interface {
	UpdateName(ctx context.Context, caller domain.Identity, fullName string) (*model.Profile, error)
	ListMembers(ctx context.Context, caller domain.Identity) ([]model.Profile, error)
	ChangeRole(ctx context.Context, caller domain.Identity, profileID int64, role model.Role) (*model.Profile, error)
	GrantPortalAccess(ctx context.Context, caller domain.Identity, clientID int64, input GrantPortalAccessInput) (*model.Profile, error)
	ListPortalUsers(ctx context.Context, caller domain.Identity, clientID int64) ([]model.Profile, error)
}

type profileService struct {
	profiles store.ProfileStore
	clients  store.ClientStore
	resolver IdentityResolver
}

func NewProfileService(profiles store.ProfileStore, clients store.ClientStore, resolver IdentityResolver) ProfileService {
	return &profileService{
		profiles: profiles,
		clients:  clients,
		resolver: resolver,
	}
}

func (s *profileService) UpdateName(ctx context.Context, caller domain.Identity, fullName string) (*model.Profile, error) {
	ctx = context.WithoutCancel(ctx)
	if !caller.Resolved() {
		return nil, domain.ErrIdentityNotFound
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, domain.Validation("full name cannot be empty")
	}

	profile, err := s.profiles.GetByID(ctx, caller.Profile.ID)
	if err != nil {
		return nil, storeErr("getting profile", err)
	}
	profile.FullName = fullName
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, storeErr("updating profile", err)
	}

	s.invalidate(ctx, profile.ID)
	return profile, nil
}

func (s *profileService) ListMembers(ctx context.Context, caller domain.Identity) ([]model.Profile, error) {
	if err := authorize(ctx, caller, domain.ActionReadMembers, domain.OrganizationTarget(caller.Scope.OrganizationID)); err != nil {
		return nil, err
	}

	members, err := s.profiles.ListStaff(ctx, caller.Scope.OrganizationID)
	if err != nil {
		return nil, storeErr("listing members", err)
	}
	return members, nil
}

func (s *profileService) ChangeRole(ctx context.Context, caller domain.Identity, profileID int64, role model.Role) (*model.Profile, error) {
	ctx = context.WithoutCancel(ctx)
	if err := authorize(ctx, caller, domain.ActionManageMembers, domain.OrganizationTarget(caller.Scope.OrganizationID)); err != nil {
		return nil, err
	}
	if !role.IsStaff() {
		return nil, domain.Validation("role must be admin or member")
	}
	if profileID == caller.Profile.ID {
		return nil, domain.Validation("cannot change your own role")
	}

	target, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, storeErr("getting profile", err)
	}
	if target.OrganizationID == nil || *target.OrganizationID != caller.Scope.OrganizationID || !target.Role.IsStaff() {
		return nil, domain.ErrNotFound
	}
	if target.Role == role {
		return target, nil
	}

	previous := target.Role
	target.Role = role
	if err := s.profiles.Update(ctx, target); err != nil {
		return nil, storeErr("updating role", err)
	}

	s.invalidate(ctx, target.ID)
	slog.InfoContext(ctx, "member role changed",
		"profile_id", target.ID,
		"from", previous,
		"to", role,
		"changed_by", caller.Profile.ID,
	)
	return target, nil
}

func (s *profileService) GrantPortalAccess(ctx context.Context, caller domain.Identity, clientID int64, input GrantPortalAccessInput) (*model.Profile, error) {
	ctx = context.WithoutCancel(ctx)
	if err := authorize(ctx, caller, domain.ActionManageClient, domain.ClientTarget(caller.Scope.OrganizationID, clientID)); err != nil {
		return nil, err
	}

	email := normalizeEmail(input.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.Validation("a valid email is required")
	}

	client, err := s.clients.GetByID(ctx, caller.Scope, clientID)
	if err != nil {
		return nil, storeErr("getting client", err)
	}

	if _, err := s.profiles.GetByEmail(ctx, email); err == nil {
		return nil, domain.Validation("email already has an account")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, storeErr("checking email", err)
	}

	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		fullName = client.Name
	}

	orgID := client.OrganizationID
	cid := client.ID
	profile := &model.Profile{
		ID:             id.New(),
		FullName:       fullName,
		Email:          email,
		Role:           model.RoleClient,
		OrganizationID: &orgID,
		ClientID:       &cid,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, storeErr("creating portal profile", err)
	}

	slog.InfoContext(ctx, "portal access granted",
		"profile_id", profile.ID,
		"client_id", client.ID,
		"granted_by", caller.Profile.ID,
	)
	return profile, nil
}

func (s *profileService) ListPortalUsers(ctx context.Context, caller domain.Identity, clientID int64) ([]model.Profile, error) {
	if err := authorize(ctx, caller, domain.ActionManageClient, domain.ClientTarget(caller.Scope.OrganizationID, clientID)); err != nil {
		return nil, err
	}

	profiles, err := s.profiles.ListByClient(ctx, caller.Scope.OrganizationID, clientID)
	if err != nil {
		return nil, storeErr("listing portal users", err)
	}
	return profiles, nil
}

func (s *profileService) invalidate(ctx context.Context, profileID int64) {
	if err := s.resolver.Invalidate(ctx, profileID); err != nil {
		slog.WarnContext(ctx, "failed to invalidate cached identity", "profile_id", profileID, "error", err)
	}
}
