package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chat turn outcomes
const (
	ResultOK               = "ok"
	ResultStaleIdentity    = "stale_identity"
	ResultLookupError      = "lookup_error"
	ResultGroundingError   = "grounding_error"
	ResultImageError       = "image_error"
	ResultCompletionError  = "completion_error"
	ResultPersistenceError = "persistence_error"
)

var (
	ChatTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sop_chat_turns_total",
			Help: "Chat turns handled, by outcome.",
		},
		[]string{"result"},
	)

	CompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sop_completion_duration_seconds",
			Help:    "Latency of completion service calls.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		},
		[]string{"provider", "model"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sop_http_requests_total",
			Help: "HTTP requests served, by route pattern, method and status.",
		},
		[]string{"route", "method", "status"},
	)
)
