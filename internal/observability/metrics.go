// Package observability provides Prometheus metrics and Fiber middleware for
// monitoring the gateway.
package observability

import "github.com/prometheus/client_golang/prometheus"

// Gate decision labels.
const (
	DecisionAllowed = "allowed"
	DecisionDenied  = "denied"
	DecisionError   = "error"
)

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursegate_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coursegate_request_duration_seconds",
			Help:    "Request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// GateDecisionsTotal counts bearer gate outcomes. Reason is one of
	// allow_list, token, no_header, malformed_scheme, unknown_token, store_error.
	GateDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursegate_gate_decisions_total",
			Help: "Bearer gate decisions",
		},
		[]string{"decision", "reason"},
	)

	// LoginAttemptsTotal counts POST /auth outcomes.
	LoginAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursegate_login_attempts_total",
			Help: "Login attempts",
		},
		[]string{"outcome"},
	)

	// RateLimitRejectedTotal counts login requests rejected by the rate limiter.
	RateLimitRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coursegate_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		GateDecisionsTotal,
		LoginAttemptsTotal,
		RateLimitRejectedTotal,
	)
}
