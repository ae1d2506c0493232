package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthFlowResults counts account flow outcomes by flow and result kind.
	AuthFlowResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelhub_auth_flow_results_total",
			Help: "Total number of account flow outcomes",
		},
		[]string{"flow", "result"},
	)

	// EmailsSent counts outbound notification emails by template and result (sent|failed|disabled).
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelhub_emails_sent_total",
			Help: "Total number of notification emails dispatched",
		},
		[]string{"template", "result"},
	)

	// TokensPurged counts expired tokens removed by maintenance jobs.
	TokensPurged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelhub_tokens_purged_total",
			Help: "Total number of expired tokens removed",
		},
		[]string{"kind"},
	)

	// RateLimited counts requests rejected by the rate limiter.
	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelhub_rate_limited_total",
			Help: "Total number of rate limited requests",
		},
		[]string{"path"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelhub_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
