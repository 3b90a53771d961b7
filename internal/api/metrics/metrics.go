// Package metrics defines and registers all custom Prometheus metrics for the
// TLC backend. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed by the router at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tlc"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthRequestsTotal counts credential operations by outcome.
// Labels:
//   - operation: "signup", "signin", "edit_profile", "request_reset", "confirm_reset", "support"
//   - result: "ok" or the error reason sent to the client (e.g. "bad_credentials")
var AuthRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_requests_total",
		Help:      "Total number of credential operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts notifications by final outcome.
// Label:
//   - result: "sent", "failed" (retries exhausted) or "dropped" (queue full)
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notifications, labelled by outcome.",
	},
	[]string{"result"},
)

// NotificationQueueDepth tracks pending notifications in each worker channel.
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationSendDuration measures delivery time including retries.
var NotificationSendDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_send_duration_seconds",
		Help:      "Duration of notification delivery from dequeue to final outcome.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
