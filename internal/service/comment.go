package service

import (
	"context"
	"log/slog"
	"strings"

	"clienthub.app/hub/common/id"
	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/model"
	"clienthub.app/hub/internal/store"
)

const maxCommentLength = 5000

type CommentService interface {
	List(ctx context.Context, caller domain.Identity, requestID int64) ([]model.Comment, error)
	// Post appends a comment. isInternal is honoured for staff only.
	Post(ctx context.Context, caller domain.Identity, requestID int64, content string, isInternal *bool) (*model.Comment, error)
}

type commentService struct {
	requests store.RequestStore
	comments store.CommentStore
}

func NewCommentService(requests store.RequestStore, comments store.CommentStore) CommentService {
	return &commentService{
		requests: requests,
		comments: comments,
	}
}

func (s *commentService) List(ctx context.Context, caller domain.Identity, requestID int64) ([]model.Comment, error) {
	if !caller.Resolved() {
		return nil, domain.ErrIdentityNotFound
	}

	req, err := s.requests.GetByID(ctx, caller.Scope.OrganizationID, requestID)
	if err != nil {
		return nil, storeErr("getting request", err)
	}
	if err := authorize(ctx, caller, domain.ActionReadComments, domain.RequestTarget(*req)); err != nil {
		return nil, domain.HideScope(err)
	}

	all, err := s.comments.ListByRequest(ctx, req.OrganizationID, req.ID)
	if err != nil {
		return nil, storeErr("listing comments", err)
	}
	return domain.VisibleComments(caller.Role(), all), nil
}

func (s *commentService) Post(ctx context.Context, caller domain.Identity, requestID int64, content string, isInternal *bool) (*model.Comment, error) {
	// A write completes even if the caller disconnects.
	ctx = context.WithoutCancel(ctx)
	if !caller.Resolved() {
		return nil, domain.ErrIdentityNotFound
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.Validation("comment cannot be empty")
	}
	if len(content) > maxCommentLength {
		return nil, domain.Validation("comment must be at most %d characters", maxCommentLength)
	}

	req, err := s.requests.GetByID(ctx, caller.Scope.OrganizationID, requestID)
	if err != nil {
		return nil, storeErr("getting request", err)
	}
	target := domain.RequestTarget(*req)
	if err := authorize(ctx, caller, domain.ActionPostComment, target); err != nil {
		return nil, err
	}

	internal := domain.CommentInternalFlag(caller.Role(), isInternal)
	if internal {
		if err := authorize(ctx, caller, domain.ActionPostInternalComment, target); err != nil {
			return nil, err
		}
	}

	comment := &model.Comment{
		ID:         id.New(),
		RequestID:  req.ID,
		ProfileID:  caller.Profile.ID,
		Content:    content,
		IsInternal: internal,
		AuthorName: caller.Profile.FullName,
		AuthorRole: caller.Role(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, storeErr("creating comment", err)
	}

	slog.InfoContext(ctx, "comment posted",
		"comment_id", comment.ID,
		"request_id", req.ID,
		"is_internal", comment.IsInternal,
		"role", caller.Role(),
	)
	return comment, nil
}
