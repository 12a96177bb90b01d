package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetricsCollector handles inbound HTTP and outbound film API metrics
type HTTPMetricsCollector struct {
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	upstreamRequests  *prometheus.CounterVec
	upstreamRetries   *prometheus.CounterVec
	upstreamDurations *prometheus.HistogramVec
}

// NewHTTPMetricsCollector creates a new HTTP metrics collector
func NewHTTPMetricsCollector() *HTTPMetricsCollector {
	return &HTTPMetricsCollector{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by method, route, and status code",
			},
			[]string{"method", "route", "status_code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration distribution",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"method", "route"},
		),
		upstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "upstream_requests_total",
				Help:      "Total number of film API requests by outcome",
			},
			[]string{"outcome"},
		),
		upstreamRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "upstream_retries_total",
				Help:      "Total number of film API retry attempts",
			},
			[]string{"reason"},
		),
		upstreamDurations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "upstream_request_duration_seconds",
				Help:      "Film API request duration distribution",
				Buckets:   []float64{0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"outcome"},
		),
	}
}

// Register registers all HTTP metrics with the Prometheus registry
func (c *HTTPMetricsCollector) Register() error {
	return register(c.requestsTotal, c.requestDuration, c.upstreamRequests, c.upstreamRetries, c.upstreamDurations)
}

// Middleware records every request routed by chi. The route label is the
// matched pattern, so path parameters do not explode label cardinality.
func (c *HTTPMetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// RecordUpstreamRequest records one film API attempt
func (c *HTTPMetricsCollector) RecordUpstreamRequest(outcome string, duration time.Duration) {
	c.upstreamRequests.WithLabelValues(outcome).Inc()
	c.upstreamDurations.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordUpstreamRetry records a film API retry
func (c *HTTPMetricsCollector) RecordUpstreamRetry(reason string) {
	c.upstreamRetries.WithLabelValues(reason).Inc()
}
