package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/model"
	"clienthub.app/hub/internal/service"
	"clienthub.app/hub/internal/store"
)

var _ = Describe("RequestService", func() {
	var (
		ctx      context.Context
		svc      service.RequestService
		requests *mockRequestStore
		clients  *mockClientStore
		txRunner *mockTxRunner
		updates  int
		stored   *model.Request
	)

	BeforeEach(func() {
		ctx = context.Background()
		updates = 0
		stored = newRequest(500, clientA, model.RequestStatusReview)

		requests = &mockRequestStore{
			getByIDFn: func(_ context.Context, org, id int64) (*model.Request, error) {
				if org != stored.OrganizationID || id != stored.ID {
					return nil, store.ErrNotFound
				}
				r := *stored
				return &r, nil
			},
			updateStatusFn: func(_ context.Context, _, _ int64, status model.RequestStatus, expected int64) (*model.Request, error) {
				if expected != stored.Version {
					return nil, store.ErrVersionConflict
				}
				updates++
				stored.Status = status
				stored.Version++
				r := *stored
				return &r, nil
			},
		}
		clients = &mockClientStore{
			getByIDFn: func(_ context.Context, scope domain.Scope, id int64) (*model.Client, error) {
				if !scope.Covers(orgID, &id) || (id != clientA && id != clientB) {
					return nil, store.ErrNotFound
				}
				return &model.Client{ID: id, OrganizationID: orgID, Name: "Acme", Color: "#22c55e"}, nil
			},
		}
		txRunner = &mockTxRunner{stores: &mockStoreProvider{requests: requests, clients: clients}}
		svc = service.NewRequestService(requests, clients, txRunner)
	})

	Describe("TransitionStatus", func() {
		Context("as a client on its own request in review", func() {
			It("approves the request", func() {
				updated, err := svc.TransitionStatus(ctx, portalIdentity(clientA), stored.ID, model.RequestStatusApproved, nil)

				Expect(err).NotTo(HaveOccurred())
				Expect(updated.Status).To(Equal(model.RequestStatusApproved))
				Expect(updated.Version).To(Equal(int64(4)))
				Expect(updates).To(Equal(1))
			})

			It("requests changes", func() {
				updated, err := svc.TransitionStatus(ctx, portalIdentity(clientA), stored.ID, model.RequestStatusChangesRequested, nil)

				Expect(err).NotTo(HaveOccurred())
				Expect(updated.Status).To(Equal(model.RequestStatusChangesRequested))
			})

			It("rejects answering the same review twice and leaves the state alone", func() {
				_, err := svc.TransitionStatus(ctx, portalIdentity(clientA), stored.ID, model.RequestStatusApproved, nil)
				Expect(err).NotTo(HaveOccurred())

				_, err = svc.TransitionStatus(ctx, portalIdentity(clientA), stored.ID, model.RequestStatusApproved, nil)
				Expect(err).To(MatchError(domain.ErrInvalidTransition))
				Expect(stored.Status).To(Equal(model.RequestStatusApproved))
				Expect(updates).To(Equal(1))
			})
		})

		Context("as a client on a request outside review", func() {
			It("rejects new to in_progress without writing", func() {
				stored.Status = model.RequestStatusNew

				_, err := svc.TransitionStatus(ctx, portalIdentity(clientA), stored.ID, model.RequestStatusInProgress, nil)

				Expect(err).To(MatchError(domain.ErrInvalidTransition))
				Expect(stored.Status).To(Equal(model.RequestStatusNew))
				Expect(updates).To(BeZero())
			})
		})

		Context("as a client of another client", func() {
			It("is forbidden before the state machine runs", func() {
				_, err := svc.TransitionStatus(ctx, portalIdentity(clientB), stored.ID, model.RequestStatusApproved, nil)

				Expect(err).To(MatchError(domain.ErrForbidden))
				Expect(err).NotTo(MatchError(domain.ErrInvalidTransition))
				Expect(updates).To(BeZero())
			})
		})

		Context("as staff", func() {
			It("reopens a completed request", func() {
				stored.Status = model.RequestStatusCompleted

				updated, err := svc.TransitionStatus(ctx, memberIdentity(), stored.ID, model.RequestStatusInProgress, nil)

				Expect(err).NotTo(HaveOccurred())
				Expect(updated.Status).To(Equal(model.RequestStatusInProgress))
			})

			It("treats a repeat of the current status as a no-op", func() {
				first, err := svc.TransitionStatus(ctx, adminIdentity(), stored.ID, model.RequestStatusInProgress, nil)
				Expect(err).NotTo(HaveOccurred())

				second, err := svc.TransitionStatus(ctx, adminIdentity(), stored.ID, model.RequestStatusInProgress, nil)
				Expect(err).NotTo(HaveOccurred())

				Expect(second.Status).To(Equal(first.Status))
				Expect(second.Version).To(Equal(first.Version))
				Expect(updates).To(Equal(1))
			})

			It("rejects an unknown status", func() {
				_, err := svc.TransitionStatus(ctx, adminIdentity(), stored.ID, "archived", nil)
				Expect(err).To(MatchError(domain.ErrValidationFailed))
			})

			It("reports a stale expected version as a conflict", func() {
				stale := stored.Version - 1
				_, err := svc.TransitionStatus(ctx, adminIdentity(), stored.ID, model.RequestStatusCompleted, &stale)

				Expect(err).To(MatchError(domain.ErrConflict))
				Expect(updates).To(BeZero())
			})

			It("accepts a matching expected version", func() {
				current := stored.Version
				updated, err := svc.TransitionStatus(ctx, adminIdentity(), stored.ID, model.RequestStatusCompleted, &current)

				Expect(err).NotTo(HaveOccurred())
				Expect(updated.Version).To(Equal(current + 1))
			})

			It("maps a concurrent write to a conflict", func() {
				requests.updateStatusFn = func(context.Context, int64, int64, model.RequestStatus, int64) (*model.Request, error) {
					return nil, store.ErrVersionConflict
				}

				_, err := svc.TransitionStatus(ctx, adminIdentity(), stored.ID, model.RequestStatusCompleted, nil)
				Expect(err).To(MatchError(domain.ErrConflict))
			})

			It("returns not found for another organization's request", func() {
				stored.OrganizationID = otherOrgID

				_, err := svc.TransitionStatus(ctx, adminIdentity(), stored.ID, model.RequestStatusCompleted, nil)
				Expect(err).To(MatchError(domain.ErrNotFound))
			})
		})

		It("surfaces store failures as unavailable", func() {
			requests.getByIDFn = func(context.Context, int64, int64) (*model.Request, error) {
				return nil, errors.New("connection refused")
			}

			_, err := svc.TransitionStatus(ctx, adminIdentity(), stored.ID, model.RequestStatusCompleted, nil)
			Expect(err).To(MatchError(domain.ErrStoreUnavailable))
		})

		It("refuses an unresolved identity", func() {
			_, err := svc.TransitionStatus(ctx, domain.Identity{}, stored.ID, model.RequestStatusCompleted, nil)
			Expect(err).To(MatchError(domain.ErrIdentityNotFound))
		})

		It("commits the transition after the caller disconnects", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			var writeErr error = context.Canceled
			update := requests.updateStatusFn
			requests.updateStatusFn = func(c context.Context, org, id int64, status model.RequestStatus, expected int64) (*model.Request, error) {
				writeErr = c.Err()
				return update(c, org, id, status, expected)
			}

			updated, err := svc.TransitionStatus(cancelled, portalIdentity(clientA), stored.ID, model.RequestStatusApproved, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(writeErr).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(model.RequestStatusApproved))
		})
	})

	Describe("Get", func() {
		It("returns requests of the caller's client", func() {
			req, err := svc.Get(ctx, portalIdentity(clientA), stored.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(req.ID).To(Equal(stored.ID))
		})

		It("hides other clients' requests as not found", func() {
			_, err := svc.Get(ctx, portalIdentity(clientB), stored.ID)
			Expect(err).To(MatchError(domain.ErrNotFound))
		})
	})

	Describe("List", func() {
		It("always passes the caller's scope and the bucket statuses to the store", func() {
			var captured store.RequestFilter
			requests.listFn = func(_ context.Context, f store.RequestFilter) ([]model.Request, error) {
				captured = f
				return []model.Request{*stored}, nil
			}

			out, err := svc.List(ctx, portalIdentity(clientA), service.ListRequestsInput{Bucket: domain.BucketReview, Search: "logo"})

			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(HaveLen(1))
			Expect(captured.Scope.OrganizationID).To(Equal(orgID))
			Expect(*captured.Scope.ClientID).To(Equal(clientA))
			Expect(captured.Statuses).To(ConsistOf(model.RequestStatusReview, model.RequestStatusChangesRequested))
			Expect(captured.Search).To(Equal("logo"))
		})

		It("lists everything for an empty bucket", func() {
			var captured store.RequestFilter
			requests.listFn = func(_ context.Context, f store.RequestFilter) ([]model.Request, error) {
				captured = f
				return nil, nil
			}

			_, err := svc.List(ctx, adminIdentity(), service.ListRequestsInput{})
			Expect(err).NotTo(HaveOccurred())
			Expect(captured.Statuses).To(BeNil())
			Expect(captured.Scope.ClientID).To(BeNil())
		})
	})

	Describe("Create", func() {
		var created *model.Request

		BeforeEach(func() {
			created = nil
			requests.createFn = func(_ context.Context, r *model.Request) error {
				created = r
				r.Version = 1
				return nil
			}
		})

		It("forces a client's own client and medium priority", func() {
			req, err := svc.Create(ctx, portalIdentity(clientA), service.CreateRequestInput{
				ClientID: clientB,
				Title:    "  New banner  ",
				Type:     model.RequestTypeDesign,
				Priority: model.PriorityUrgent,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(req.ClientID).To(Equal(clientA))
			Expect(req.Priority).To(Equal(model.PriorityMedium))
			Expect(req.Status).To(Equal(model.RequestStatusNew))
			Expect(req.Title).To(Equal("New banner"))
			Expect(req.CreatedBy).To(Equal(portalID))
			Expect(req.ID).NotTo(BeZero())
			Expect(created).To(Equal(req))
		})

		It("lets staff pick client and priority", func() {
			req, err := svc.Create(ctx, memberIdentity(), service.CreateRequestInput{
				ClientID: clientB,
				Title:    "Product video",
				Type:     model.RequestTypeVideo,
				Priority: model.PriorityUrgent,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(req.ClientID).To(Equal(clientB))
			Expect(req.Priority).To(Equal(model.PriorityUrgent))
		})

		DescribeTable("validates input",
			func(input service.CreateRequestInput) {
				_, err := svc.Create(ctx, memberIdentity(), input)
				Expect(err).To(MatchError(domain.ErrValidationFailed))
				Expect(created).To(BeNil())
			},
			Entry("missing client", service.CreateRequestInput{Title: "x"}),
			Entry("blank title", service.CreateRequestInput{ClientID: clientA, Title: "   "}),
			Entry("unknown type", service.CreateRequestInput{ClientID: clientA, Title: "x", Type: "podcast"}),
			Entry("unknown priority", service.CreateRequestInput{ClientID: clientA, Title: "x", Priority: "asap"}),
			Entry("unknown client", service.CreateRequestInput{ClientID: 999, Title: "x"}),
		)
	})
})
