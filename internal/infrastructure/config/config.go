package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. MOVIES_SERVER_ADDRESS
const EnvPrefix = "MOVIES"

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Swapi    SwapiConfig    `mapstructure:"swapi"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (config.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/starwars-movies")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// DATABASE_URL is honoured without the prefix, as most hosting platforms set it
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		v.Set("database.url", dbURL)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// bindEnvKeys registers every key so AutomaticEnv also applies when no
// config file mentions it; viper's Unmarshal only sees keys it knows about.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"database.type", "database.url", "database.host", "database.port", "database.user",
		"database.password", "database.name", "database.sslmode", "database.path", "database.auto_migrate",
		"database.pool.max_open", "database.pool.max_idle", "database.pool.max_lifetime",
		"server.address", "server.read_timeout", "server.write_timeout", "server.idle_timeout", "server.shutdown_timeout",
		"auth.jwt_secret", "auth.issuer", "auth.audience", "auth.token_ttl", "auth.bcrypt_cost",
		"auth.seed.enabled", "auth.seed.admin_email", "auth.seed.admin_password",
		"auth.seed.user_email", "auth.seed.user_password",
		"swapi.base_url", "swapi.timeout", "swapi.rate_limit.requests", "swapi.rate_limit.burst",
		"swapi.retry.max_attempts", "swapi.retry.backoff_base",
		"swapi.circuit_breaker.max_failures", "swapi.circuit_breaker.cooldown",
		"logging.level", "logging.format", "logging.output", "logging.file_path",
		"metrics.enabled", "metrics.path",
		"tracing.enabled", "tracing.service_name",
	} {
		_ = v.BindEnv(key)
	}
}

// LoadConfigOrDefault loads configuration or returns a default config on error
func LoadConfigOrDefault(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		defaultCfg := &Config{}
		SetDefaults(defaultCfg)
		return defaultCfg
	}
	return cfg
}

// MustLoadConfig loads configuration and panics on error (for use in main.go)
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
