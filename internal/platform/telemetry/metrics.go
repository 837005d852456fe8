package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus collectors served on /-/metrics. They are registered with the
// default registry at init.
var (
	// HTTPRequestDuration observes API latency by method, route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "customer_service",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests served by the API.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// CircuitState is 0 closed, 1 open, 2 half-open per downstream service.
	CircuitState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "customer_service",
		Subsystem: "client",
		Name:      "circuit_state",
		Help:      "Circuit breaker state per downstream service (0 closed, 1 open, 2 half-open).",
	}, []string{"service"})

	// EventsPublished counts domain event publish attempts by type and outcome.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "customer_service",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Domain events handed to the broker, by type and outcome.",
	}, []string{"type", "outcome"})
)
