package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/model"
	"clienthub.app/hub/internal/service"
)

var _ = Describe("OrganizationService", func() {
	var (
		ctx     context.Context
		svc     service.OrganizationService
		orgs    *mockOrganizationStore
		org     *model.Organization
		updated *model.Organization
	)

	BeforeEach(func() {
		ctx = context.Background()
		updated = nil
		org = &model.Organization{ID: orgID, Name: "Pixel Studio", Slug: "pixel-studio", Plan: model.PlanFreelance}
		orgs = &mockOrganizationStore{
			getByIDFn: func(_ context.Context, id int64) (*model.Organization, error) {
				o := *org
				return &o, nil
			},
			updateFn: func(_ context.Context, o *model.Organization) error {
				updated = o
				return nil
			},
		}
		svc = service.NewOrganizationService(orgs)
	})

	Describe("Get", func() {
		It("returns the caller's organization to clients too", func() {
			got, err := svc.Get(ctx, portalIdentity(clientA))
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("Pixel Studio"))
		})
	})

	Describe("UpdateSettings", func() {
		It("renames without touching the slug", func() {
			got, err := svc.UpdateSettings(ctx, adminIdentity(), service.UpdateOrganizationInput{Name: ptr("  Pixel & Co ")})

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("Pixel & Co"))
			Expect(got.Slug).To(Equal("pixel-studio"))
			Expect(updated).NotTo(BeNil())
		})

		It("regenerates an explicitly edited slug and suffixes collisions", func() {
			orgs.slugExistsFn = func(_ context.Context, slug string) (bool, error) {
				return slug == "pixel-co", nil
			}
			got, err := svc.UpdateSettings(ctx, adminIdentity(), service.UpdateOrganizationInput{Slug: ptr("Pixel Co")})

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Slug).To(Equal("pixel-co-1"))
		})

		It("rejects an empty name", func() {
			_, err := svc.UpdateSettings(ctx, adminIdentity(), service.UpdateOrganizationInput{Name: ptr(" ")})
			Expect(err).To(MatchError(domain.ErrValidationFailed))
		})

		It("is admin only", func() {
			_, err := svc.UpdateSettings(ctx, memberIdentity(), service.UpdateOrganizationInput{Name: ptr("x")})
			Expect(err).To(MatchError(domain.ErrForbidden))

			_, err = svc.UpdateSettings(ctx, portalIdentity(clientA), service.UpdateOrganizationInput{Name: ptr("x")})
			Expect(err).To(MatchError(domain.ErrForbidden))
			Expect(updated).To(BeNil())
		})
	})
})
