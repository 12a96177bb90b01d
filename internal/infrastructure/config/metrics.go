package config

// MetricsConfig holds Prometheus exposure configuration
type MetricsConfig struct {
	// Enabled registers collectors and mounts the scrape endpoint
	Enabled bool `mapstructure:"enabled"`

	// Path of the scrape endpoint on the API listener (default: /metrics)
	Path string `mapstructure:"path" validate:"omitempty,startswith=/"`
}

// TracingConfig holds OpenTelemetry settings. Spans go to the globally
// registered tracer provider; with none installed they are dropped.
type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}
