package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"clienthub.app/hub/common/id"
	"clienthub.app/hub/common/logger"
	"clienthub.app/hub/common/metrics"
	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/model"
	"clienthub.app/hub/internal/store"
)

const maxTitleLength = 200

type ListRequestsInput struct {
	Bucket     domain.Bucket
	ClientID   *int64
	Search     string
	HasDueDate bool
}

type CreateRequestInput struct {
	ClientID    int64
	Title       string
	Description *string
	Type        model.RequestType
	Priority    model.Priority
	DueDate     *time.Time
}

type RequestService interface {
	List(ctx context.Context, caller domain.Identity, input ListRequestsInput) ([]model.Request, error)
	Get(ctx context.Context, caller domain.Identity, requestID int64) (*model.Request, error)
	Create(ctx context.Context, caller domain.Identity, input CreateRequestInput) (*model.Request, error)
	// TransitionStatus moves a request through the lifecycle. When
	// expectedVersion is set and no longer matches, it fails with ErrConflict.
	TransitionStatus(ctx context.Context, caller domain.Identity, requestID int64, target model.RequestStatus, expectedVersion *int64) (*model.Request, error)
}

type requestService struct {
	requests store.RequestStore
	clients  store.ClientStore
	txRunner TxRunner
}

func NewRequestService(requests store.RequestStore, clients store.ClientStore, txRunner TxRunner) RequestService {
	return &requestService{
		requests: requests,
		clients:  clients,
		txRunner: txRunner,
	}
}

func (s *requestService) List(ctx context.Context, caller domain.Identity, input ListRequestsInput) ([]model.Request, error) {
	if err := authorize(ctx, caller, domain.ActionReadRequest, scopeTarget(caller)); err != nil {
		return nil, err
	}

	bucket := input.Bucket
	if bucket == "" {
		bucket = domain.BucketAll
	}

	requests, err := s.requests.List(ctx, store.RequestFilter{
		Scope:      caller.Scope,
		Statuses:   bucket.Statuses(),
		ClientID:   input.ClientID,
		Search:     input.Search,
		HasDueDate: input.HasDueDate,
	})
	if err != nil {
		return nil, storeErr("listing requests", err)
	}
	return requests, nil
}

func (s *requestService) Get(ctx context.Context, caller domain.Identity, requestID int64) (*model.Request, error) {
	if !caller.Resolved() {
		return nil, domain.ErrIdentityNotFound
	}

	req, err := s.requests.GetByID(ctx, caller.Scope.OrganizationID, requestID)
	if err != nil {
		return nil, storeErr("getting request", err)
	}
	if err := authorize(ctx, caller, domain.ActionReadRequest, domain.RequestTarget(*req)); err != nil {
		return nil, domain.HideScope(err)
	}
	return req, nil
}

func (s *requestService) Create(ctx context.Context, caller domain.Identity, input CreateRequestInput) (*model.Request, error) {
	ctx = context.WithoutCancel(ctx)
	if !caller.Resolved() {
		return nil, domain.ErrIdentityNotFound
	}

	// Portal submissions always land on the caller's own client at medium priority.
	if caller.Scope.ClientID != nil {
		input.ClientID = *caller.Scope.ClientID
		input.Priority = model.PriorityMedium
	}
	if input.ClientID == 0 {
		return nil, domain.Validation("client is required")
	}

	if err := authorize(ctx, caller, domain.ActionCreateRequest, domain.ClientTarget(caller.Scope.OrganizationID, input.ClientID)); err != nil {
		return nil, err
	}
	if err := normalizeRequestInput(&input); err != nil {
		return nil, err
	}

	client, err := s.clients.GetByID(ctx, caller.Scope, input.ClientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.Validation("unknown client")
		}
		return nil, storeErr("getting client", err)
	}

	req := &model.Request{
		ID:             id.New(),
		OrganizationID: caller.Scope.OrganizationID,
		ClientID:       client.ID,
		Title:          input.Title,
		Description:    input.Description,
		Type:           input.Type,
		Priority:       input.Priority,
		Status:         model.RequestStatusNew,
		DueDate:        input.DueDate,
		CreatedBy:      caller.Profile.ID,
		ClientName:     client.Name,
		ClientColor:    client.Color,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, storeErr("creating request", err)
	}

	slog.InfoContext(ctx, "request created",
		"request_id", req.ID,
		"client_id", req.ClientID,
		"created_by", req.CreatedBy,
		"role", caller.Role(),
	)
	return req, nil
}

func (s *requestService) TransitionStatus(ctx context.Context, caller domain.Identity, requestID int64, target model.RequestStatus, expectedVersion *int64) (*model.Request, error) {
	ctx = context.WithoutCancel(ctx)
	if !caller.Resolved() {
		return nil, domain.ErrIdentityNotFound
	}

	sc := logger.StartSpan(ctx, "service.request.transition_status")
	defer sc.End()
	ctx = logger.WithLogFields(sc.Context(), logger.LogFields{RequestID: &requestID})

	var (
		result *model.Request
		from   model.RequestStatus
	)
	err := s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		current, err := sp.Requests().GetForUpdate(ctx, caller.Scope.OrganizationID, requestID)
		if err != nil {
			return storeErr("getting request", err)
		}

		// Scope is checked before the state machine so a foreign request
		// never reveals its status.
		if err := authorize(ctx, caller, domain.ActionTransitionStatus, domain.RequestTarget(*current)); err != nil {
			return err
		}
		if expectedVersion != nil && *expectedVersion != current.Version {
			return domain.ErrConflict
		}

		next, err := domain.Transition(caller.Role(), current.Status, target)
		if err != nil {
			return err
		}

		from = current.Status
		if next == current.Status {
			result = current
			return nil
		}

		updated, err := sp.Requests().UpdateStatus(ctx, current.OrganizationID, current.ID, next, current.Version)
		if err != nil {
			return storeErr("updating status", err)
		}
		result = updated
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) || errors.Is(err, domain.ErrConflict) {
			slog.InfoContext(ctx, "status transition rejected",
				"request_id", requestID,
				"target", target,
				"role", caller.Role(),
				"error", err,
			)
		}
		sc.RecordError(err)
		return nil, passThrough("transitioning status", err)
	}

	if from != result.Status {
		metrics.ObserveTransition(string(from), string(result.Status), string(caller.Role()))
		slog.InfoContext(ctx, "request status changed",
			"request_id", result.ID,
			"from", from,
			"to", result.Status,
			"version", result.Version,
			"role", caller.Role(),
		)
	}
	return result, nil
}

func normalizeRequestInput(input *CreateRequestInput) error {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return domain.Validation("title is required")
	}
	if len(input.Title) > maxTitleLength {
		return domain.Validation("title must be at most %d characters", maxTitleLength)
	}

	input.Description = trimOptional(input.Description)

	if input.Type == "" {
		input.Type = model.RequestTypeOther
	}
	if !input.Type.Valid() {
		return domain.Validation("unknown request type %q", input.Type)
	}

	if input.Priority == "" {
		input.Priority = model.PriorityMedium
	}
	if !input.Priority.Valid() {
		return domain.Validation("unknown priority %q", input.Priority)
	}
	return nil
}
