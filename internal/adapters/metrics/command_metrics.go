package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CommandMetricsCollector handles all command/query dispatch metrics
type CommandMetricsCollector struct {
	commandDuration *prometheus.HistogramVec
	commandsTotal   *prometheus.CounterVec
}

// NewCommandMetricsCollector creates a new command metrics collector
func NewCommandMetricsCollector() *CommandMetricsCollector {
	return &CommandMetricsCollector{
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      "Mediator request handling duration distribution",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
			},
			[]string{"request", "status"},
		),
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Total number of mediator requests by type and status",
			},
			[]string{"request", "status"},
		),
	}
}

// Register registers all command metrics with the Prometheus registry
func (c *CommandMetricsCollector) Register() error {
	return register(c.commandDuration, c.commandsTotal)
}

// RecordCommandExecution records one dispatched request.
// status is one of "success", "client_error" or "error".
func (c *CommandMetricsCollector) RecordCommandExecution(requestName string, duration float64, status string) {
	c.commandDuration.WithLabelValues(requestName, status).Observe(duration)
	c.commandsTotal.WithLabelValues(requestName, status).Inc()
}
