package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"clienthub.app/hub/common"
	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/model"
	"clienthub.app/hub/internal/store"
)

type UpdateOrganizationInput struct {
	Name *string
	Slug *string
}

type OrganizationService interface {
	Get(ctx context.Context, caller domain.Identity) (*model.Organization, error)
	UpdateSettings(ctx context.Context, caller domain.Identity, input UpdateOrganizationInput) (*model.Organization, error)
}

type organizationService struct {
	orgStore store.OrganizationStore
}

func NewOrganizationService(orgStore store.OrganizationStore) OrganizationService {
	return &organizationService{orgStore: orgStore}
}

func (s *organizationService) Get(ctx context.Context, caller domain.Identity) (*model.Organization, error) {
	if err := authorize(ctx, caller, domain.ActionReadOrganization, domain.OrganizationTarget(caller.Scope.OrganizationID)); err != nil {
		return nil, domain.HideScope(err)
	}

	org, err := s.orgStore.GetByID(ctx, caller.Scope.OrganizationID)
	if err != nil {
		return nil, storeErr("getting organization", err)
	}
	return org, nil
}

func (s *organizationService) UpdateSettings(ctx context.Context, caller domain.Identity, input UpdateOrganizationInput) (*model.Organization, error) {
	ctx = context.WithoutCancel(ctx)
	if err := authorize(ctx, caller, domain.ActionManageOrganization, domain.OrganizationTarget(caller.Scope.OrganizationID)); err != nil {
		return nil, err
	}

	org, err := s.orgStore.GetByID(ctx, caller.Scope.OrganizationID)
	if err != nil {
		return nil, storeErr("getting organization", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.Validation("organization name cannot be empty")
		}
		org.Name = name
	}

	if input.Slug != nil {
		requested, err := common.Slugify(*input.Slug, "")
		if err != nil || requested == "" {
			return nil, domain.Validation("slug must contain letters or digits")
		}
		if requested != org.Slug {
			slug, err := ensureSlug(ctx, s.orgStore, requested)
			if err != nil {
				return nil, err
			}
			org.Slug = slug
		}
	}

	if err := s.orgStore.Update(ctx, org); err != nil {
		return nil, storeErr("updating organization", err)
	}

	slog.InfoContext(ctx, "organization settings updated", "organization_id", org.ID, "slug", org.Slug)
	return org, nil
}

// ensureSlug picks the first free slug derived from input, suffixing -1, -2
// and so on when taken.
func ensureSlug(ctx context.Context, orgStore store.OrganizationStore, input string) (string, error) {
	base, err := common.Slugify(input, "org")
	if err != nil {
		return "", domain.Validation("generating slug: %v", err)
	}

	exists, err := orgStore.SlugExists(ctx, base)
	if err != nil {
		return "", storeErr("checking slug availability", err)
	}
	if !exists {
		return base, nil
	}

	for i := 1; i <= 20; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		exists, err := orgStore.SlugExists(ctx, candidate)
		if err != nil {
			return "", storeErr("checking slug availability", err)
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: unable to find available slug for %q", domain.ErrConflict, base)
}
