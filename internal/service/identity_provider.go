package service

import (
	"context"
	"fmt"

	"github.com/workos/workos-go/v6/pkg/usermanagement"

	"clienthub.app/hub/core/config"
)

// ExternalUser is the identity provider's view of a person.
type ExternalUser struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
}

// IdentityProvider verifies credentials. Staff use passwords, portal clients
// use one-time magic codes.
type IdentityProvider interface {
	AuthenticatePassword(ctx context.Context, email, password string) (ExternalUser, error)
	SendMagicCode(ctx context.Context, email string) error
	AuthenticateMagicCode(ctx context.Context, email, code string) (ExternalUser, error)
	CreateUser(ctx context.Context, email, password, firstName, lastName string) (ExternalUser, error)
}

type workOSProvider struct {
	cfg config.WorkOSConfig
}

// NewWorkOSProvider builds an IdentityProvider backed by WorkOS user management.
func NewWorkOSProvider(cfg config.WorkOSConfig) IdentityProvider {
	usermanagement.SetAPIKey(cfg.APIKey)
	return &workOSProvider{cfg: cfg}
}

func (p *workOSProvider) AuthenticatePassword(ctx context.Context, email, password string) (ExternalUser, error) {
	resp, err := usermanagement.AuthenticateWithPassword(ctx, usermanagement.AuthenticateWithPasswordOpts{
		ClientID: p.cfg.ClientID,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return ExternalUser{}, fmt.Errorf("authenticating with password: %w", err)
	}
	return toExternalUser(resp.User), nil
}

func (p *workOSProvider) SendMagicCode(ctx context.Context, email string) error {
	if _, err := usermanagement.CreateMagicAuth(ctx, usermanagement.CreateMagicAuthOpts{
		Email: email,
	}); err != nil {
		return fmt.Errorf("creating magic auth: %w", err)
	}
	return nil
}

func (p *workOSProvider) AuthenticateMagicCode(ctx context.Context, email, code string) (ExternalUser, error) {
	resp, err := usermanagement.AuthenticateWithMagicAuth(ctx, usermanagement.AuthenticateWithMagicAuthOpts{
		ClientID: p.cfg.ClientID,
		Email:    email,
		Code:     code,
	})
	if err != nil {
		return ExternalUser{}, fmt.Errorf("authenticating with magic auth: %w", err)
	}
	return toExternalUser(resp.User), nil
}

func (p *workOSProvider) CreateUser(ctx context.Context, email, password, firstName, lastName string) (ExternalUser, error) {
	user, err := usermanagement.CreateUser(ctx, usermanagement.CreateUserOpts{
		Email:     email,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		return ExternalUser{}, fmt.Errorf("creating user: %w", err)
	}
	return toExternalUser(user), nil
}

func toExternalUser(u usermanagement.User) ExternalUser {
	return ExternalUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func buildFullName(u ExternalUser) string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.LastName != "" {
		return u.LastName
	}
	return u.Email
}
