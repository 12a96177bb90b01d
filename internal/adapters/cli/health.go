package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/starwars-movies-go/internal/infrastructure/bootstrap"
	"github.com/andrescamacho/starwars-movies-go/internal/infrastructure/database"
)

// NewHealthCommand creates the health command
func NewHealthCommand(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check catalog database connectivity",
		Long:  `Verify that the configured database is reachable and report the film source state.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			return env.withApplication(ctx, func(ctx context.Context, app *bootstrap.Application) error {
				if err := database.Ping(ctx, app.DB); err != nil {
					return fmt.Errorf("health check failed: %w", err)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "✓ Catalog is healthy")
				fmt.Fprintf(out, "  Database:          %s\n", app.Config.Database.Type)
				if app.Films != nil {
					fmt.Fprintf(out, "  Film source:       %s\n", app.Config.Swapi.BaseURL)
					fmt.Fprintf(out, "  Circuit breaker:   %s\n", app.Films.Breaker().State())
				}
				return nil
			})
		},
	}

	return cmd
}
