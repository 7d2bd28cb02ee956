// Package metrics defines all custom Prometheus metrics for the Pulse
// session agent. It is the single source of truth for metric names, labels,
// and help strings; everything registers with the default registry via
// promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pulse"

// ProfileFetchesTotal counts profile round-trips against the backend.
// Label:
//   - result: "ok", "unauthenticated", "error", or "skipped" (a fetch was
//     already in flight and no request was issued)
var ProfileFetchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_fetches_total",
		Help:      "Total number of profile fetch attempts, by result.",
	},
	[]string{"result"},
)

// AuthAttemptsTotal counts interactive auth submissions.
// Labels:
//   - kind: "signin", "signup", "admin_registration", "forgot_password",
//     "reset_password", "google"
//   - result: "ok" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication form submissions, by kind and result.",
	},
	[]string{"kind", "result"},
)

// BroadcastSignalsTotal counts session signals crossing the broadcast
// channel.
// Labels:
//   - action: "login", "logout", "refresh"
//   - direction: "published" or "received" (received excludes self-origin)
var BroadcastSignalsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcast_signals_total",
		Help:      "Total number of auth signals published and received on the broadcast channel.",
	},
	[]string{"action", "direction"},
)

// DebounceCoalescedTotal counts signals that were superseded inside a
// debounce window instead of being handled individually.
var DebounceCoalescedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "debounce_coalesced_total",
		Help:      "Total number of events coalesced by a debounce window, by listener.",
	},
	[]string{"listener"},
)

// SessionAuthenticated reflects the store's current view: 1 when a user is
// signed in, 0 otherwise.
var SessionAuthenticated = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "session_authenticated",
		Help:      "Whether the agent currently holds an authenticated session (0 or 1).",
	},
)
