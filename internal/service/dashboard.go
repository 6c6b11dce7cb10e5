package service

import (
	"context"
	"sort"
	"time"

	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/model"
	"clienthub.app/hub/internal/store"
)

// Badges are the navigation counters.
type Badges struct {
	ActiveRequests int `json:"active_requests"`
	Clients        int `json:"clients"`
	NeedsAttention int `json:"needs_attention"`
}

type Calendar struct {
	Year     int                     `json:"year"`
	Month    time.Month              `json:"month"`
	Days     map[int][]model.Request `json:"days"`
	Overdue  []model.Request         `json:"overdue"`
	Upcoming []model.Request         `json:"upcoming"`
}

type ClientReport struct {
	ClientID int64  `json:"client_id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Requests int    `json:"requests"`
}

type Report struct {
	domain.Aggregates
	Clients     []ClientReport `json:"clients"`
	ClientCount int            `json:"client_count"`
}

// DashboardService derives every figure on read from the caller's scoped
// request set.
type DashboardService interface {
	Aggregates(ctx context.Context, caller domain.Identity) (*domain.Aggregates, error)
	Badges(ctx context.Context, caller domain.Identity) (*Badges, error)
	Calendar(ctx context.Context, caller domain.Identity, year int, month time.Month, loc *time.Location) (*Calendar, error)
	Report(ctx context.Context, caller domain.Identity) (*Report, error)
}

type dashboardService struct {
	requests store.RequestStore
	clients  store.ClientStore
}

func NewDashboardService(requests store.RequestStore, clients store.ClientStore) DashboardService {
	return &dashboardService{
		requests: requests,
		clients:  clients,
	}
}

func (s *dashboardService) scopedRequests(ctx context.Context, caller domain.Identity, filter store.RequestFilter) ([]model.Request, error) {
	if err := authorize(ctx, caller, domain.ActionReadRequest, scopeTarget(caller)); err != nil {
		return nil, err
	}
	filter.Scope = caller.Scope
	requests, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, storeErr("listing requests", err)
	}
	return requests, nil
}

func (s *dashboardService) Aggregates(ctx context.Context, caller domain.Identity) (*domain.Aggregates, error) {
	requests, err := s.scopedRequests(ctx, caller, store.RequestFilter{})
	if err != nil {
		return nil, err
	}
	agg := domain.ComputeAggregates(requests, time.Now())
	return &agg, nil
}

func (s *dashboardService) Badges(ctx context.Context, caller domain.Identity) (*Badges, error) {
	requests, err := s.scopedRequests(ctx, caller, store.RequestFilter{})
	if err != nil {
		return nil, err
	}
	clients, err := s.clients.List(ctx, caller.Scope)
	if err != nil {
		return nil, storeErr("listing clients", err)
	}

	agg := domain.ComputeAggregates(requests, time.Now())
	return &Badges{
		ActiveRequests: agg.Active,
		Clients:        len(clients),
		NeedsAttention: agg.NeedsAttention,
	}, nil
}

func (s *dashboardService) Calendar(ctx context.Context, caller domain.Identity, year int, month time.Month, loc *time.Location) (*Calendar, error) {
	if month < time.January || month > time.December {
		return nil, domain.Validation("month must be between 1 and 12")
	}
	if loc == nil {
		loc = time.UTC
	}

	requests, err := s.scopedRequests(ctx, caller, store.RequestFilter{HasDueDate: true})
	if err != nil {
		return nil, err
	}

	now := time.Now().In(loc)
	return &Calendar{
		Year:     year,
		Month:    month,
		Days:     domain.MonthCalendar(requests, year, month, loc),
		Overdue:  domain.OverdueRequests(requests, now),
		Upcoming: domain.Upcoming(requests, now, domain.UpcomingWindow),
	}, nil
}

func (s *dashboardService) Report(ctx context.Context, caller domain.Identity) (*Report, error) {
	requests, err := s.scopedRequests(ctx, caller, store.RequestFilter{})
	if err != nil {
		return nil, err
	}
	clients, err := s.clients.List(ctx, caller.Scope)
	if err != nil {
		return nil, storeErr("listing clients", err)
	}

	counts := domain.ByClient(requests)
	rows := make([]ClientReport, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, ClientReport{
			ClientID: c.ID,
			Name:     c.Name,
			Color:    c.Color,
			Requests: counts[c.ID],
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Requests > rows[j].Requests
	})

	return &Report{
		Aggregates:  domain.ComputeAggregates(requests, time.Now()),
		Clients:     rows,
		ClientCount: len(clients),
	}, nil
}
