// Package metrics defines and registers all custom Prometheus metrics for the
// lab portal. It is the single source of truth for metric names, labels, and
// help strings. Metrics are registered with the default registry at init.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/upslab/labportal/internal/core/domain"
)

const namespace = "labportal"

// ── Session metrics ───────────────────────────────────────────────────────────

// GuardDecisionsTotal counts access decisions for protected views.
// Labels:
//   - view: "user" or "admin"
//   - outcome: "allow", "landing" or "user"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of session guard decisions, by view and outcome.",
	},
	[]string{"view", "outcome"},
)

// SessionTransitionsTotal counts session lifecycle events.
// Label:
//   - event: "began", "ended" or "rejected"
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session transitions, by event.",
	},
	[]string{"event"},
)

// ── Upstream API metrics ──────────────────────────────────────────────────────

// UpstreamRequestsTotal counts calls made to the remote API.
// Labels:
//   - method, endpoint: request line with numeric ids collapsed to ":id"
//   - status: HTTP status, or "error" when no response arrived
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of remote API calls, by endpoint and status.",
	},
	[]string{"method", "endpoint", "status"},
)

var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of remote API calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "endpoint"},
)

// ── Reservation metrics ───────────────────────────────────────────────────────

// ReservationsSubmittedTotal counts reservation submissions.
// Label:
//   - result: "created", "duplicate", "invalid", "conflict" or "error"
var ReservationsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservations_submitted_total",
		Help:      "Total number of reservation submissions, by result.",
	},
	[]string{"result"},
)

// ── Transaction log metrics ───────────────────────────────────────────────────

var TransactionsQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "transactions_queue_depth",
		Help:      "Current number of audit entries waiting to be written.",
	},
)

var TransactionsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_dropped_total",
		Help:      "Total number of audit entries dropped because the queue was full.",
	},
)

// ObserveUpstream records one remote API round trip. Its signature matches
// apiclient.Observer.
func ObserveUpstream(method, endpoint string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	UpstreamRequestsTotal.WithLabelValues(method, endpoint, label).Inc()
	UpstreamRequestDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

// ObserveSession records a session transition. It is registered as a
// session subscriber.
func ObserveSession(ev domain.SessionEvent) {
	SessionTransitionsTotal.WithLabelValues(string(ev)).Inc()
}

// ObserveGuard records a guard decision for a view.
func ObserveGuard(requireAdmin bool, d domain.Decision) {
	view := "user"
	if requireAdmin {
		view = "admin"
	}
	outcome := "allow"
	switch {
	case d.Allowed:
	case d.Redirect == domain.RouteUser:
		outcome = "user"
	default:
		outcome = "landing"
	}
	GuardDecisionsTotal.WithLabelValues(view, outcome).Inc()
}

// ObserveSubmission records the outcome of a reservation submission.
func ObserveSubmission(err error) {
	result := "created"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrDuplicateSubmission):
		result = "duplicate"
	case errors.Is(err, domain.ErrInvalidInput):
		result = "invalid"
	case errors.Is(err, domain.ErrConflict):
		result = "conflict"
	default:
		result = "error"
	}
	ReservationsSubmittedTotal.WithLabelValues(result).Inc()
}
