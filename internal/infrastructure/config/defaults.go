package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "starwars.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "starwars"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "starwars"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Server defaults
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	// Auth defaults
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "starwars-movies"
	}
	if cfg.Auth.Audience == "" {
		cfg.Auth.Audience = "starwars-movies-clients"
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}
	if cfg.Auth.BcryptCost == 0 {
		cfg.Auth.BcryptCost = 10
	}

	// Film API defaults
	if cfg.Swapi.BaseURL == "" {
		cfg.Swapi.BaseURL = "https://www.swapi.tech/api"
	}
	if cfg.Swapi.Timeout == 0 {
		cfg.Swapi.Timeout = 30 * time.Second
	}
	if cfg.Swapi.RateLimit.Requests == 0 {
		cfg.Swapi.RateLimit.Requests = 5
	}
	if cfg.Swapi.RateLimit.Burst == 0 {
		cfg.Swapi.RateLimit.Burst = 5
	}
	if cfg.Swapi.Retry.MaxAttempts == 0 {
		cfg.Swapi.Retry.MaxAttempts = 3
	}
	if cfg.Swapi.Retry.BackoffBase == 0 {
		cfg.Swapi.Retry.BackoffBase = 500 * time.Millisecond
	}
	if cfg.Swapi.CircuitBreaker.MaxFailures == 0 {
		cfg.Swapi.CircuitBreaker.MaxFailures = 5
	}
	if cfg.Swapi.CircuitBreaker.Cooldown == 0 {
		cfg.Swapi.CircuitBreaker.Cooldown = time.Minute
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Metrics and tracing defaults
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = "starwars-movies"
	}
}
