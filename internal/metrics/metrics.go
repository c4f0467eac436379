// Package metrics holds the Prometheus collectors for the search engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderRequests counts provider calls by provider and outcome
	// (success, failure, timeout, skipped).
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sercha",
			Name:      "provider_requests_total",
			Help:      "Provider search calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	// ProviderLatency tracks provider call duration.
	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sercha",
			Name:      "provider_search_seconds",
			Help:      "Provider search latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	// ProviderHealth reports the current health status per provider
	// (0 healthy, 1 degraded, 2 unhealthy).
	ProviderHealth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "sercha",
			Name:      "provider_health_status",
			Help:      "Provider health: 0 healthy, 1 degraded, 2 unhealthy",
		},
		[]string{"provider"},
	)

	// AIFallbacks counts AI steps that fell back to deterministic behaviour.
	AIFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sercha",
			Name:      "ai_fallbacks_total",
			Help:      "AI steps that used the fallback path, by stage",
		},
		[]string{"stage"},
	)

	// AIBreakerState reports the AI circuit breaker state
	// (0 closed, 1 half-open, 2 open).
	AIBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "sercha",
			Name:      "ai_breaker_state",
			Help:      "AI circuit breaker: 0 closed, 1 half-open, 2 open",
		},
	)

	// SearchDuration tracks end-to-end search latency.
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "sercha",
			Name:      "search_duration_seconds",
			Help:      "End-to-end federated search latency in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2, 4, 8, 16},
		},
	)

	// AnalyticsDropped counts analytics events dropped because the queue was full.
	AnalyticsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sercha",
			Name:      "analytics_dropped_total",
			Help:      "Analytics events dropped because the queue was full",
		},
	)
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeTimeout = "timeout"
	OutcomeSkipped = "skipped"
)

// AI stages.
const (
	StageQuery = "query"
	StageRank  = "rank"
)
