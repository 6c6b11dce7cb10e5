package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/model"
	"clienthub.app/hub/internal/service"
	"clienthub.app/hub/internal/store"
)

var _ = Describe("ProfileService", func() {
	var (
		ctx         context.Context
		svc         service.ProfileService
		profiles    *mockProfileStore
		clients     *mockClientStore
		resolver    *mockIdentityResolver
		invalidated []int64
		saved       *model.Profile
		byID        map[int64]model.Profile
	)

	BeforeEach(func() {
		ctx = context.Background()
		invalidated = nil
		saved = nil
		byID = map[int64]model.Profile{
			adminID:  {ID: adminID, FullName: "Ana", Role: model.RoleAdmin, OrganizationID: ptr(orgID)},
			memberID: {ID: memberID, FullName: "Max", Role: model.RoleMember, OrganizationID: ptr(orgID)},
			portalID: {ID: portalID, FullName: "Cleo", Role: model.RoleClient, OrganizationID: ptr(orgID), ClientID: ptr(clientA)},
			99:       {ID: 99, FullName: "Other", Role: model.RoleMember, OrganizationID: ptr(otherOrgID)},
		}

		profiles = &mockProfileStore{
			getByIDFn: func(_ context.Context, id int64) (*model.Profile, error) {
				p, ok := byID[id]
				if !ok {
					return nil, store.ErrNotFound
				}
				return &p, nil
			},
			updateFn: func(_ context.Context, p *model.Profile) error {
				saved = p
				return nil
			},
			createFn: func(_ context.Context, p *model.Profile) error {
				saved = p
				return nil
			},
		}
		clients = &mockClientStore{
			getByIDFn: func(_ context.Context, scope domain.Scope, id int64) (*model.Client, error) {
				if id != clientA || !scope.Covers(orgID, &id) {
					return nil, store.ErrNotFound
				}
				return &model.Client{ID: clientA, OrganizationID: orgID, Name: "Acme"}, nil
			},
		}
		resolver = &mockIdentityResolver{
			invalidateFn: func(_ context.Context, profileID int64) error {
				invalidated = append(invalidated, profileID)
				return nil
			},
		}
		svc = service.NewProfileService(profiles, clients, resolver)
	})

	Describe("UpdateName", func() {
		It("renames the caller and drops its cached identity", func() {
			p, err := svc.UpdateName(ctx, memberIdentity(), " Maxine ")

			Expect(err).NotTo(HaveOccurred())
			Expect(p.FullName).To(Equal("Maxine"))
			Expect(invalidated).To(ConsistOf(memberID))
		})

		It("rejects a blank name", func() {
			_, err := svc.UpdateName(ctx, memberIdentity(), "")
			Expect(err).To(MatchError(domain.ErrValidationFailed))
		})
	})

	Describe("ChangeRole", func() {
		It("promotes a member and invalidates its identity", func() {
			p, err := svc.ChangeRole(ctx, adminIdentity(), memberID, model.RoleAdmin)

			Expect(err).NotTo(HaveOccurred())
			Expect(p.Role).To(Equal(model.RoleAdmin))
			Expect(saved.Role).To(Equal(model.RoleAdmin))
			Expect(invalidated).To(ConsistOf(memberID))
		})

		It("refuses to change the caller's own role", func() {
			_, err := svc.ChangeRole(ctx, adminIdentity(), adminID, model.RoleMember)
			Expect(err).To(MatchError(domain.ErrValidationFailed))
		})

		It("refuses to turn anyone into a client", func() {
			_, err := svc.ChangeRole(ctx, adminIdentity(), memberID, model.RoleClient)
			Expect(err).To(MatchError(domain.ErrValidationFailed))
		})

		It("does not reach profiles of other organizations or portal users", func() {
			_, err := svc.ChangeRole(ctx, adminIdentity(), 99, model.RoleAdmin)
			Expect(err).To(MatchError(domain.ErrNotFound))

			_, err = svc.ChangeRole(ctx, adminIdentity(), portalID, model.RoleAdmin)
			Expect(err).To(MatchError(domain.ErrNotFound))
		})

		It("is admin only", func() {
			_, err := svc.ChangeRole(ctx, memberIdentity(), adminID, model.RoleMember)
			Expect(err).To(MatchError(domain.ErrForbidden))
			Expect(saved).To(BeNil())
		})
	})

	Describe("GrantPortalAccess", func() {
		It("creates a client-role profile bound to the client", func() {
			p, err := svc.GrantPortalAccess(ctx, memberIdentity(), clientA, service.GrantPortalAccessInput{
				FullName: "Cleo Contact",
				Email:    "Cleo.Contact@acme.test",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(p.Role).To(Equal(model.RoleClient))
			Expect(p.Email).To(Equal("cleo.contact@acme.test"))
			Expect(*p.ClientID).To(Equal(clientA))
			Expect(*p.OrganizationID).To(Equal(orgID))
			Expect(p.ExternalID).To(BeNil())
		})

		It("rejects an email that already has an account", func() {
			profiles.getByEmailFn = func(context.Context, string) (*model.Profile, error) {
				return &model.Profile{ID: 5}, nil
			}
			_, err := svc.GrantPortalAccess(ctx, memberIdentity(), clientA, service.GrantPortalAccessInput{Email: "x@acme.test"})
			Expect(err).To(MatchError(domain.ErrValidationFailed))
		})

		It("is not available to clients", func() {
			_, err := svc.GrantPortalAccess(ctx, portalIdentity(clientA), clientA, service.GrantPortalAccessInput{Email: "x@acme.test"})
			Expect(err).To(MatchError(domain.ErrForbidden))
		})
	})

	Describe("ListMembers", func() {
		It("lists staff for members and refuses clients", func() {
			profiles.listStaffFn = func(_ context.Context, org int64) ([]model.Profile, error) {
				Expect(org).To(Equal(orgID))
				return []model.Profile{byID[adminID], byID[memberID]}, nil
			}

			members, err := svc.ListMembers(ctx, memberIdentity())
			Expect(err).NotTo(HaveOccurred())
			Expect(members).To(HaveLen(2))

			_, err = svc.ListMembers(ctx, portalIdentity(clientA))
			Expect(err).To(MatchError(domain.ErrForbidden))
		})
	})
})
