// Package metrics defines the Prometheus metrics of the overtime service.
// Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "overtime"

// RecordsTotal counts record mutations.
// Label op: "created", "updated", "deleted".
var RecordsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_total",
		Help:      "Total number of overtime record mutations, by operation.",
	},
	[]string{"op"},
)

// ValidationFailuresTotal counts rejected shifts.
// Label reason: e.g. "future_date", "invalid_time_range".
var ValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Total number of overtime submissions rejected by validation.",
	},
	[]string{"reason"},
)

// SignInAttemptsTotal counts sign-in attempts.
// Label result: "success", "invalid_credentials", "rate_limited", "error".
var SignInAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signin_attempts_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// HTTPRequestDuration measures request latency.
// Labels: method, route pattern and status code.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)
