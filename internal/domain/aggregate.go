package domain

import (
	"math"
	"sort"
	"time"

	"clienthub.app/hub/internal/model"
)

// UpcomingWindow is how far ahead the calendar looks for due work.
const UpcomingWindow = 7 * 24 * time.Hour

// Aggregates are derived on read from the request set; nothing is materialized.
type Aggregates struct {
	Total             int                         `json:"total"`
	ByStatus          map[model.RequestStatus]int `json:"by_status"`
	ByType            map[model.RequestType]int   `json:"by_type"`
	NeedsAttention    int                         `json:"needs_attention"`
	Overdue           int                         `json:"overdue"`
	Active            int                         `json:"active"`
	Completed         int                         `json:"completed"`
	CompletionRate    float64                     `json:"completion_rate"`
	CompletionPercent int                         `json:"completion_percent"`
}

// ComputeAggregates is a pure function of the input set and the clock.
// ByStatus always carries every status, zero-valued when absent.
func ComputeAggregates(requests []model.Request, now time.Time) Aggregates {
	agg := Aggregates{
		Total:    len(requests),
		ByStatus: make(map[model.RequestStatus]int, len(AllStatuses)),
		ByType:   make(map[model.RequestType]int),
	}
	for _, s := range AllStatuses {
		agg.ByStatus[s] = 0
	}

	for _, r := range requests {
		agg.ByStatus[r.Status]++
		agg.ByType[r.Type]++
		if NeedsAttention(r.Status) {
			agg.NeedsAttention++
		}
		if IsActive(r.Status) {
			agg.Active++
		}
		if IsTerminal(r.Status) {
			agg.Completed++
		}
		if IsOverdue(r, now) {
			agg.Overdue++
		}
	}

	if agg.Total > 0 {
		agg.CompletionRate = float64(agg.Completed) / float64(agg.Total)
		agg.CompletionPercent = int(math.Round(agg.CompletionRate * 100))
	}
	return agg
}

// OverdueRequests returns the overdue subset, earliest due first.
func OverdueRequests(requests []model.Request, now time.Time) []model.Request {
	out := filter(requests, func(r model.Request) bool { return IsOverdue(r, now) })
	sortByDue(out)
	return out
}

// Upcoming returns non-terminal requests due within [now, now+window],
// earliest due first.
func Upcoming(requests []model.Request, now time.Time, window time.Duration) []model.Request {
	until := now.Add(window)
	out := filter(requests, func(r model.Request) bool {
		if r.DueDate == nil || IsTerminal(r.Status) {
			return false
		}
		return !r.DueDate.Before(now) && !r.DueDate.After(until)
	})
	sortByDue(out)
	return out
}

// DueOn returns the requests whose due date falls on the same calendar day as
// day, compared in day's location.
func DueOn(requests []model.Request, day time.Time) []model.Request {
	y, m, d := day.Date()
	return filter(requests, func(r model.Request) bool {
		if r.DueDate == nil {
			return false
		}
		ry, rm, rd := r.DueDate.In(day.Location()).Date()
		return ry == y && rm == m && rd == d
	})
}

// MonthCalendar buckets requests due in the given month by day of month.
func MonthCalendar(requests []model.Request, year int, month time.Month, loc *time.Location) map[int][]model.Request {
	days := make(map[int][]model.Request)
	for _, r := range requests {
		if r.DueDate == nil {
			continue
		}
		ry, rm, rd := r.DueDate.In(loc).Date()
		if ry == year && rm == month {
			days[rd] = append(days[rd], r)
		}
	}
	return days
}

// ByClient counts requests per client.
func ByClient(requests []model.Request) map[int64]int {
	counts := make(map[int64]int)
	for _, r := range requests {
		counts[r.ClientID]++
	}
	return counts
}

// Bucket is a list filter over statuses used by the dashboard and portal.
type Bucket string

const (
	BucketAll        Bucket = "all"
	BucketNew        Bucket = "new"
	BucketInProgress Bucket = "in_progress"
	BucketReview     Bucket = "review"
	BucketCompleted  Bucket = "completed"
	BucketAttention  Bucket = "attention"
	BucketActive     Bucket = "active"
)

var bucketStatuses = map[Bucket][]model.RequestStatus{
	BucketAll:        nil,
	BucketNew:        {model.RequestStatusNew},
	BucketInProgress: {model.RequestStatusInProgress},
	BucketReview:     {model.RequestStatusReview, model.RequestStatusChangesRequested},
	BucketCompleted:  {model.RequestStatusCompleted, model.RequestStatusApproved},
	BucketAttention:  {model.RequestStatusNew, model.RequestStatusChangesRequested},
	BucketActive:     {model.RequestStatusNew, model.RequestStatusInProgress, model.RequestStatusReview},
}

// ParseBucket maps a query value to a Bucket. Empty means all.
func ParseBucket(s string) (Bucket, error) {
	if s == "" {
		return BucketAll, nil
	}
	b := Bucket(s)
	if _, ok := bucketStatuses[b]; !ok {
		return "", Validation("unknown status filter %q", s)
	}
	return b, nil
}

// Statuses returns the statuses in the bucket, or nil for BucketAll.
func (b Bucket) Statuses() []model.RequestStatus {
	return bucketStatuses[b]
}

func (b Bucket) Matches(s model.RequestStatus) bool {
	statuses, ok := bucketStatuses[b]
	if !ok {
		return false
	}
	return statuses == nil || contains(statuses, s)
}

func filter(requests []model.Request, keep func(model.Request) bool) []model.Request {
	out := make([]model.Request, 0)
	for _, r := range requests {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func sortByDue(requests []model.Request) {
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].DueDate.Before(*requests[j].DueDate)
	})
}
