// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics declares the Prometheus instruments shared across stages.
// The serve command exposes them on /metrics; the CLI registers them but
// never scrapes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// UpstreamRequests counts GraphQL exchanges by query shape and outcome
	// ("ok", "not_found", "error", "rejected").
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anilookup_upstream_requests_total",
			Help: "GraphQL requests sent to AniList",
		},
		[]string{"shape", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "anilookup_upstream_request_duration_seconds",
			Help:    "Latency of AniList GraphQL requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"shape"},
	)

	// FanoutEntries counts recommendation entries by outcome ("resolved", "dropped").
	FanoutEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anilookup_fanout_entries_total",
			Help: "Recommendation entries processed during fan-out",
		},
		[]string{"outcome"},
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "anilookup_circuit_breaker_state",
			Help: "Upstream circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "anilookup_sessions_active",
			Help: "Paginated sessions currently navigable",
		},
	)

	SessionsReleased = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anilookup_sessions_released_total",
			Help: "Paginated sessions released, by reason",
		},
		[]string{"reason"},
	)

	Commands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anilookup_commands_total",
			Help: "Bot commands executed, by command and resulting card kind",
		},
		[]string{"command", "result"},
	)
)

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
