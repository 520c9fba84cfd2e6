package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geolens_http_requests_total",
			Help: "HTTP requests processed, by path, method, and status.",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geolens_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	providerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geolens_provider_requests_total",
			Help: "Outbound provider calls, by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)

	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geolens_errors_total",
			Help: "Errors returned to callers, by code.",
		},
		[]string{"code"},
	)

	panicsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "geolens_panics_total",
			Help: "Recovered panics in HTTP handlers.",
		},
	)
)

func init() {
	registry.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		providerRequestsTotal,
		errorsTotal,
		panicsTotal,
	)
}

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// RecordRequest records a completed HTTP request.
func RecordRequest(path, method string, status int, seconds float64) {
	httpRequestsTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(path, method).Observe(seconds)
}

// RecordProviderRequest records an outbound provider call outcome ("ok" or "error").
func RecordProviderRequest(provider, outcome string) {
	providerRequestsTotal.WithLabelValues(provider, outcome).Inc()
}

// RecordError records an error response by code.
func RecordError(code string) {
	errorsTotal.WithLabelValues(code).Inc()
}

// RecordPanic records a recovered panic.
func RecordPanic() {
	panicsTotal.Inc()
}
