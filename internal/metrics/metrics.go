// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegistrationAttempts is labelled by outcome: registered, already_registered,
	// capacity_exceeded, not_found or error.
	RegistrationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictify_registration_attempts_total",
			Help: "Registration attempts by outcome",
		},
		[]string{"outcome"},
	)

	RegistrationCancellations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "predictify_registration_cancellations_total",
			Help: "Registrations cancelled",
		},
	)

	AttendanceMarked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "predictify_attendance_marked_total",
			Help: "Registrations moved to confirmed",
		},
	)

	PredictionsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictify_predictions_generated_total",
			Help: "Predictions generated by level",
		},
		[]string{"level"},
	)

	InsightFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "predictify_insight_fallbacks_total",
			Help: "Insight requests answered with the fallback text",
		},
	)

	TextGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "predictify_text_generation_duration_seconds",
			Help:    "Latency of text generation calls",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "predictify_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictify_circuit_breaker_requests_total",
			Help: "Requests through a circuit breaker by result",
		},
		[]string{"name", "result"},
	)

	FeedSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "predictify_prediction_feed_subscribers",
			Help: "Open prediction feed websocket connections",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictify_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)
)
