package domain_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/model"
)

var _ = Describe("ScopeFor", func() {
	It("scopes staff to their organization only", func() {
		scope, err := domain.ScopeFor(model.Profile{ID: 1, Role: model.RoleMember, OrganizationID: ptr(orgA)})

		Expect(err).NotTo(HaveOccurred())
		Expect(scope.OrganizationID).To(Equal(orgA))
		Expect(scope.ClientID).To(BeNil())
	})

	It("scopes clients to their organization and client", func() {
		scope, err := domain.ScopeFor(model.Profile{ID: 2, Role: model.RoleClient, OrganizationID: ptr(orgA), ClientID: ptr(client1)})

		Expect(err).NotTo(HaveOccurred())
		Expect(scope.OrganizationID).To(Equal(orgA))
		Expect(*scope.ClientID).To(Equal(client1))
	})

	DescribeTable("rejects incoherent profiles",
		func(p model.Profile) {
			_, err := domain.ScopeFor(p)
			Expect(err).To(MatchError(domain.ErrIdentityNotFound))
		},
		Entry("staff without organization", model.Profile{ID: 1, Role: model.RoleAdmin}),
		Entry("staff with a client", model.Profile{ID: 1, Role: model.RoleAdmin, OrganizationID: ptr(orgA), ClientID: ptr(client1)}),
		Entry("client without client", model.Profile{ID: 2, Role: model.RoleClient, OrganizationID: ptr(orgA)}),
		Entry("client without organization", model.Profile{ID: 2, Role: model.RoleClient, ClientID: ptr(client1)}),
		Entry("unknown role", model.Profile{ID: 3, Role: "owner", OrganizationID: ptr(orgA)}),
	)

	Describe("Covers", func() {
		It("lets staff see every client of their organization", func() {
			scope := staff(model.RoleAdmin, orgA).Scope
			Expect(scope.Covers(orgA, ptr(client1))).To(BeTrue())
			Expect(scope.Covers(orgA, ptr(client2))).To(BeTrue())
			Expect(scope.Covers(orgB, ptr(client1))).To(BeFalse())
		})

		It("limits clients to their own client", func() {
			scope := clientIdentity(orgA, client1).Scope
			Expect(scope.Covers(orgA, ptr(client1))).To(BeTrue())
			Expect(scope.Covers(orgA, ptr(client2))).To(BeFalse())
			Expect(scope.Covers(orgA, nil)).To(BeFalse())
		})
	})

	It("never treats the zero identity as resolved", func() {
		Expect(domain.Identity{}.Resolved()).To(BeFalse())
		Expect(domain.Identity{}.IsStaff()).To(BeFalse())
	})
})
