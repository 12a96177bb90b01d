package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	// Namespace for all metrics
	namespace = "starwars"
	// Subsystem for catalog service metrics
	subsystem = "movies"
)

// Registry is the global Prometheus registry for all metrics.
// It stays nil when metrics are disabled, and every Register call is then a no-op.
var Registry *prometheus.Registry

// InitRegistry initializes the Prometheus registry with process and Go runtime collectors.
// Should be called once at application startup if metrics are enabled
func InitRegistry() *prometheus.Registry {
	Registry = prometheus.NewRegistry()
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

func register(metrics ...prometheus.Collector) error {
	if Registry == nil {
		return nil
	}
	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}
	return nil
}
