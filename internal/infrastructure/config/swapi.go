package config

import "time"

// SwapiConfig holds the film API client configuration
type SwapiConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`

	RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`
	Retry          RetryConfig          `mapstructure:"retry"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Maximum requests per second
	Requests int `mapstructure:"requests" validate:"min=1"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" validate:"min=1"`
}

// RetryConfig holds retry configuration for failed requests
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" validate:"min=0"`
	BackoffBase time.Duration `mapstructure:"backoff_base"`
}

// CircuitBreakerConfig holds the upstream circuit breaker thresholds
type CircuitBreakerConfig struct {
	MaxFailures int           `mapstructure:"max_failures" validate:"min=1"`
	Cooldown    time.Duration `mapstructure:"cooldown"`
}
