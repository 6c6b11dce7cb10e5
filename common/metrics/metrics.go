package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clienthub_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "clienthub_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	policyDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clienthub_policy_decisions_total",
		Help: "Access policy decisions by action, role and outcome",
	}, []string{"action", "role", "outcome"})

	statusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clienthub_status_transitions_total",
		Help: "Applied request status transitions",
	}, []string{"from", "to", "role"})

	identityCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clienthub_identity_cache_total",
		Help: "Identity cache lookups by result",
	}, []string{"result"})

	sessionsReaped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clienthub_sessions_reaped_total",
		Help: "Expired sessions removed by the worker",
	})
)

// Policy decision outcomes.
const (
	OutcomeAllowed    = "allowed"
	OutcomeForbidden  = "forbidden"
	OutcomeOutOfScope = "out_of_scope"
	OutcomeUnresolved = "unresolved"
)

// Identity cache results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func ObservePolicyDecision(action, role, outcome string) {
	policyDecisions.WithLabelValues(action, role, outcome).Inc()
}

func ObserveTransition(from, to, role string) {
	statusTransitions.WithLabelValues(from, to, role).Inc()
}

func ObserveIdentityCache(result string) {
	identityCache.WithLabelValues(result).Inc()
}

func ObserveSessionsReaped(n int64) {
	if n > 0 {
		sessionsReaped.Add(float64(n))
	}
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// OutcomeFor classifies an authorization result. The sentinels are passed in
// so this package stays free of domain imports.
func OutcomeFor(err error, outOfScope, unresolved error) string {
	switch {
	case err == nil:
		return OutcomeAllowed
	case errors.Is(err, outOfScope):
		return OutcomeOutOfScope
	case errors.Is(err, unresolved):
		return OutcomeUnresolved
	default:
		return OutcomeForbidden
	}
}
