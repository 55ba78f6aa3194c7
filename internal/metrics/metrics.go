// Package metrics exposes Prometheus counters for the social login flows.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Handshakes counts provider handshakes by provider and result
	// ("ok", "handshake_error", "timeout", "expired").
	Handshakes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "connect",
		Name:      "handshakes_total",
		Help:      "Provider handshakes completed by the callback step.",
	}, []string{"provider", "result"})

	// Decisions counts outcomes of the account-linking decision flow.
	Decisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "connect",
		Name:      "decisions_total",
		Help:      "Outcomes of the account-linking decision flow.",
	}, []string{"outcome"})

	// Events counts connect and login notifications.
	Events = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "connect",
		Name:      "events_total",
		Help:      "Connect and login notifications emitted.",
	}, []string{"event", "provider"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
