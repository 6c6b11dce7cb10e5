package service

import (
	"context"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"

	"clienthub.app/hub/common/id"
	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/model"
	"clienthub.app/hub/internal/store"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type ClientInput struct {
	Name         string
	Color        string
	ContactName  *string
	ContactEmail *string
	ContactPhone *string
}

type ClientService interface {
	List(ctx context.Context, caller domain.Identity) ([]model.Client, error)
	Get(ctx context.Context, caller domain.Identity, clientID int64) (*model.Client, error)
	Create(ctx context.Context, caller domain.Identity, input ClientInput) (*model.Client, error)
	Update(ctx context.Context, caller domain.Identity, clientID int64, input ClientInput) (*model.Client, error)
}

type clientService struct {
	clients store.ClientStore
}

func NewClientService(clients store.ClientStore) ClientService {
	return &clientService{clients: clients}
}

func (s *clientService) List(ctx context.Context, caller domain.Identity) ([]model.Client, error) {
	if err := authorize(ctx, caller, domain.ActionReadClient, scopeTarget(caller)); err != nil {
		return nil, err
	}

	clients, err := s.clients.List(ctx, caller.Scope)
	if err != nil {
		return nil, storeErr("listing clients", err)
	}
	return clients, nil
}

func (s *clientService) Get(ctx context.Context, caller domain.Identity, clientID int64) (*model.Client, error) {
	if err := authorize(ctx, caller, domain.ActionReadClient, domain.ClientTarget(caller.Scope.OrganizationID, clientID)); err != nil {
		return nil, domain.HideScope(err)
	}

	client, err := s.clients.GetByID(ctx, caller.Scope, clientID)
	if err != nil {
		return nil, storeErr("getting client", err)
	}
	return client, nil
}

func (s *clientService) Create(ctx context.Context, caller domain.Identity, input ClientInput) (*model.Client, error) {
	ctx = context.WithoutCancel(ctx)
	if err := authorize(ctx, caller, domain.ActionManageClient, scopeTarget(caller)); err != nil {
		return nil, err
	}
	if err := normalizeClientInput(&input); err != nil {
		return nil, err
	}

	client := &model.Client{
		ID:             id.New(),
		OrganizationID: caller.Scope.OrganizationID,
		Name:           input.Name,
		Color:          input.Color,
		ContactName:    input.ContactName,
		ContactEmail:   input.ContactEmail,
		ContactPhone:   input.ContactPhone,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, storeErr("creating client", err)
	}

	slog.InfoContext(ctx, "client created", "client_id", client.ID, "organization_id", client.OrganizationID)
	return client, nil
}

func (s *clientService) Update(ctx context.Context, caller domain.Identity, clientID int64, input ClientInput) (*model.Client, error) {
	ctx = context.WithoutCancel(ctx)
	if err := authorize(ctx, caller, domain.ActionManageClient, domain.ClientTarget(caller.Scope.OrganizationID, clientID)); err != nil {
		return nil, err
	}
	if err := normalizeClientInput(&input); err != nil {
		return nil, err
	}

	client, err := s.clients.GetByID(ctx, caller.Scope, clientID)
	if err != nil {
		return nil, storeErr("getting client", err)
	}

	client.Name = input.Name
	client.Color = input.Color
	client.ContactName = input.ContactName
	client.ContactEmail = input.ContactEmail
	client.ContactPhone = input.ContactPhone

	if err := s.clients.Update(ctx, client); err != nil {
		return nil, storeErr("updating client", err)
	}
	return client, nil
}

func normalizeClientInput(input *ClientInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return domain.Validation("client name is required")
	}

	if input.Color == "" {
		input.Color = model.ClientColors[0]
	}
	if !hexColor.MatchString(input.Color) {
		return domain.Validation("color must be a #rrggbb hex value")
	}

	input.ContactName = trimOptional(input.ContactName)
	input.ContactPhone = trimOptional(input.ContactPhone)
	input.ContactEmail = trimOptional(input.ContactEmail)
	if input.ContactEmail != nil {
		if _, err := mail.ParseAddress(*input.ContactEmail); err != nil {
			return domain.Validation("contact email is not valid")
		}
	}
	return nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
