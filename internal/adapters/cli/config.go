package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/starwars-movies-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect the catalog configuration.

Configuration is loaded from multiple sources with priority:
1. Environment variables (MOVIES_* prefix, plus DATABASE_URL)
2. Config file (config.yaml)
3. Default values

Examples:
  movies config show
  movies config show --config ./configs/prod.yaml`,
	}

	cmd.AddCommand(newConfigShowCommand(env))

	return cmd
}

func newConfigShowCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long: `Display the effective configuration. Secrets are never printed.

Example:
  movies config show`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := env.loadConfig()
			if err != nil {
				return err
			}
			printConfig(cmd, cfg)
			return nil
		},
	}
}

func printConfig(cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Star Wars Movies Configuration")
	fmt.Fprintln(out, "==============================")

	fmt.Fprintln(out, "\nDatabase:")
	fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
	switch {
	case cfg.Database.URL != "":
		fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
	case cfg.Database.Type == "sqlite":
		fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
	default:
		fmt.Fprintf(out, "  Host:             %s\n", cfg.Database.Host)
		fmt.Fprintf(out, "  Port:             %d\n", cfg.Database.Port)
		fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
		fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
	}
	fmt.Fprintf(out, "  Auto Migrate:     %t\n", cfg.Database.AutoMigrate)
	fmt.Fprintf(out, "  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)

	fmt.Fprintln(out, "\nServer:")
	fmt.Fprintf(out, "  Address:          %s\n", cfg.Server.Address)
	fmt.Fprintf(out, "  Read Timeout:     %s\n", cfg.Server.ReadTimeout)
	fmt.Fprintf(out, "  Write Timeout:    %s\n", cfg.Server.WriteTimeout)

	fmt.Fprintln(out, "\nAuth:")
	fmt.Fprintf(out, "  JWT Secret:       %s\n", redact(cfg.Auth.JWTSecret))
	fmt.Fprintf(out, "  Issuer:           %s\n", cfg.Auth.Issuer)
	fmt.Fprintf(out, "  Audience:         %s\n", cfg.Auth.Audience)
	fmt.Fprintf(out, "  Token TTL:        %s\n", cfg.Auth.TokenTTL)
	fmt.Fprintf(out, "  Seed Accounts:    %t\n", cfg.Auth.Seed.Enabled)

	fmt.Fprintln(out, "\nFilm Source:")
	fmt.Fprintf(out, "  Base URL:         %s\n", cfg.Swapi.BaseURL)
	fmt.Fprintf(out, "  Timeout:          %s\n", cfg.Swapi.Timeout)
	fmt.Fprintf(out, "  Rate Limit:       %d req/s (burst: %d)\n",
		cfg.Swapi.RateLimit.Requests, cfg.Swapi.RateLimit.Burst)
	fmt.Fprintf(out, "  Max Retries:      %d\n", cfg.Swapi.Retry.MaxAttempts)
	fmt.Fprintf(out, "  Breaker:          %d failures, %s cooldown\n",
		cfg.Swapi.CircuitBreaker.MaxFailures, cfg.Swapi.CircuitBreaker.Cooldown)

	fmt.Fprintln(out, "\nLogging:")
	fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
	fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

	fmt.Fprintln(out, "\nObservability:")
	fmt.Fprintf(out, "  Metrics:          %t (%s)\n", cfg.Metrics.Enabled, cfg.Metrics.Path)
	fmt.Fprintf(out, "  Tracing:          %t (%s)\n", cfg.Tracing.Enabled, cfg.Tracing.ServiceName)
}

func redact(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	return "(set, redacted)"
}
