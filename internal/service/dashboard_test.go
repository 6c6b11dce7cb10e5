package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/model"
	"clienthub.app/hub/internal/service"
	"clienthub.app/hub/internal/store"
)

var _ = Describe("DashboardService", func() {
	var (
		ctx      context.Context
		svc      service.DashboardService
		requests *mockRequestStore
		clients  *mockClientStore
		filters  []store.RequestFilter
	)

	due := func(d time.Duration) *time.Time {
		t := time.Now().Add(d)
		return &t
	}

	BeforeEach(func() {
		ctx = context.Background()
		filters = nil

		set := []model.Request{
			{ID: 1, ClientID: clientA, Status: model.RequestStatusNew, Type: model.RequestTypeDesign, DueDate: due(-48 * time.Hour)},
			{ID: 2, ClientID: clientA, Status: model.RequestStatusInProgress, Type: model.RequestTypeWeb, DueDate: due(48 * time.Hour)},
			{ID: 3, ClientID: clientB, Status: model.RequestStatusChangesRequested, Type: model.RequestTypeDesign},
			{ID: 4, ClientID: clientB, Status: model.RequestStatusApproved, Type: model.RequestTypeVideo, DueDate: due(-72 * time.Hour)},
		}
		requests = &mockRequestStore{
			listFn: func(_ context.Context, f store.RequestFilter) ([]model.Request, error) {
				filters = append(filters, f)
				out := make([]model.Request, 0, len(set))
				for _, r := range set {
					if f.Scope.ClientID != nil && r.ClientID != *f.Scope.ClientID {
						continue
					}
					if f.HasDueDate && r.DueDate == nil {
						continue
					}
					out = append(out, r)
				}
				return out, nil
			},
		}
		clients = &mockClientStore{
			listFn: func(_ context.Context, scope domain.Scope) ([]model.Client, error) {
				all := []model.Client{
					{ID: clientA, Name: "Acme", Color: "#22c55e"},
					{ID: clientB, Name: "Globex", Color: "#3b82f6"},
				}
				if scope.ClientID != nil {
					return all[:1], nil
				}
				return all, nil
			},
		}
		svc = service.NewDashboardService(requests, clients)
	})

	It("computes aggregates over the staff scope", func() {
		agg, err := svc.Aggregates(ctx, memberIdentity())

		Expect(err).NotTo(HaveOccurred())
		Expect(agg.Total).To(Equal(4))
		Expect(agg.NeedsAttention).To(Equal(2))
		Expect(agg.Overdue).To(Equal(1))
		Expect(agg.Completed).To(Equal(1))
		Expect(agg.CompletionPercent).To(Equal(25))
	})

	It("computes aggregates over a client's own requests only", func() {
		agg, err := svc.Aggregates(ctx, portalIdentity(clientA))

		Expect(err).NotTo(HaveOccurred())
		Expect(agg.Total).To(Equal(2))
		Expect(*filters[0].Scope.ClientID).To(Equal(clientA))
	})

	It("builds navigation badges", func() {
		b, err := svc.Badges(ctx, adminIdentity())

		Expect(err).NotTo(HaveOccurred())
		Expect(b.ActiveRequests).To(Equal(2))
		Expect(b.Clients).To(Equal(2))
		Expect(b.NeedsAttention).To(Equal(2))
	})

	It("builds a calendar of dated requests", func() {
		now := time.Now().UTC()
		cal, err := svc.Calendar(ctx, adminIdentity(), now.Year(), now.Month(), time.UTC)

		Expect(err).NotTo(HaveOccurred())
		Expect(filters[0].HasDueDate).To(BeTrue())
		Expect(cal.Overdue).To(HaveLen(1))
		Expect(cal.Upcoming).To(HaveLen(1))
		Expect(cal.Upcoming[0].ID).To(Equal(int64(2)))
	})

	It("rejects an invalid month", func() {
		_, err := svc.Calendar(ctx, adminIdentity(), 2026, time.Month(13), time.UTC)
		Expect(err).To(MatchError(domain.ErrValidationFailed))
	})

	It("reports per-client counts", func() {
		r, err := svc.Report(ctx, adminIdentity())

		Expect(err).NotTo(HaveOccurred())
		Expect(r.ClientCount).To(Equal(2))
		Expect(r.Clients).To(HaveLen(2))
		Expect(r.Clients[0].Requests).To(Equal(2))
		Expect(r.ByType[model.RequestTypeDesign]).To(Equal(2))
	})

	It("refuses an unresolved caller", func() {
		_, err := svc.Aggregates(ctx, domain.Identity{})
		Expect(err).To(MatchError(domain.ErrIdentityNotFound))
	})
})
