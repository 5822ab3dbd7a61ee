// Package metrics defines the custom Prometheus metrics of the frontend
// server. It is the single source of truth for metric names, labels and help
// strings. HTTP request metrics come from echoprometheus and are not
// declared here.
//
// All metrics register with the default Prometheus registry at package init
// through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "household"

// ── Navigation metrics ───────────────────────────────────────────────────────

// NavigationDecisionsTotal counts guard decisions.
// Labels:
//   - view: the component id of the requested route, or "unmatched"
//   - decision: "proceed", "redirect_login" or "redirect_dashboard"
var NavigationDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "navigation_decisions_total",
		Help:      "Total number of navigation guard decisions, by view and outcome.",
	},
	[]string{"view", "decision"},
)

// ── Session metrics ──────────────────────────────────────────────────────────

// SessionLoginsTotal counts login attempts.
// Label:
//   - result: "ok", "rejected" or "error"
var SessionLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// LogoutRemoteFailuresTotal counts logouts whose upstream revoke call failed.
// The local session is cleared regardless.
var LogoutRemoteFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logout_remote_failures_total",
		Help:      "Total number of logouts where the remote revoke call failed.",
	},
)

// ── Export metrics ───────────────────────────────────────────────────────────

// ExportQueueDepth tracks the number of poll jobs waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ExportQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "export_queue_depth",
		Help:      "Current number of export poll jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ExportPollDuration measures how long polling one export job takes.
// Label:
//   - result: "ok" or "error"
var ExportPollDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "export_poll_duration_seconds",
		Help:      "Duration of export polling from dequeue to settled status.",
		Buckets:   []float64{1, 2, 5, 10, 30, 60, 120, 300},
	},
	[]string{"result"},
)
