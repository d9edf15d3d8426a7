// Package metrics defines and registers all custom Prometheus metrics for the
// forms API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed on /metrics by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "forms"

// ── Form metrics ──────────────────────────────────────────────────────────────

// FormsMutationsTotal counts successful form mutations.
// Label:
//   - action: "create", "update" or "delete"
var FormsMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "form_mutations_total",
		Help:      "Total number of successful form mutations, by action.",
	},
	[]string{"action"},
)

// ── Submission metrics ────────────────────────────────────────────────────────

// SubmissionsTotal counts stored submissions.
// Label:
//   - caller: "anonymous" or "authenticated"
var SubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_total",
		Help:      "Total number of stored submissions.",
	},
	[]string{"caller"},
)

// SubmissionsRejectedTotal counts submissions that were not stored.
// Label:
//   - reason: "validation", "form_not_found" or "error"
var SubmissionsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_rejected_total",
		Help:      "Total number of rejected submissions, by reason.",
	},
	[]string{"reason"},
)

// ── Statistics queue metrics ──────────────────────────────────────────────────

// StatsQueueDepth tracks the number of events waiting in each worker channel.
var StatsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stats_queue_depth",
		Help:      "Current number of events pending in each statistics worker channel.",
	},
	[]string{"worker_id"},
)

// StatsEventsDroppedTotal counts events discarded because a worker channel was full
// or the dispatcher was stopped.
var StatsEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_events_dropped_total",
		Help:      "Total number of statistics events dropped without processing.",
	},
)

// StatsProcessingDuration measures how long recording one event takes.
// Label:
//   - result: "ok" or "error"
var StatsProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stats_processing_duration_seconds",
		Help:      "Duration of statistics event processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts sign-up and login attempts.
// Labels:
//   - action: "sign_up" or "login"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts.",
	},
	[]string{"action", "result"},
)

// RateLimitDecisionsTotal counts rate limiter decisions.
// Labels:
//   - limiter: "memory" or "redis"
//   - result: "allowed", "rejected" or "error"
var RateLimitDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_decisions_total",
		Help:      "Total number of rate limiter decisions.",
	},
	[]string{"limiter", "result"},
)
