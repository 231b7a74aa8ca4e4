// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_submissions_total",
			Help: "Total number of submission attempts by outcome",
		},
		[]string{"outcome"},
	)

	SubmissionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_submission_failures_total",
			Help: "Total number of failed submissions by error code",
		},
		[]string{"error_code"},
	)

	RiskTierTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_tier_total",
			Help: "Total number of classified results by risk tier",
		},
		[]string{"tier"},
	)

	PredictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "risk_prediction_duration_seconds",
			Help: "Duration of calls to the prediction service in seconds",
		},
		[]string{"outcome"},
	)

	PredictionCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "risk_prediction_cache_hits_total",
			Help: "Number of predictions served from the cache",
		},
	)

	PredictionCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "risk_prediction_cache_misses_total",
			Help: "Number of cache lookups that fell through to the service",
		},
	)
)
