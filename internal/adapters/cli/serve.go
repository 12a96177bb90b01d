package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/starwars-movies-go/internal/infrastructure/bootstrap"
	"github.com/andrescamacho/starwars-movies-go/internal/infrastructure/pidfile"
)

// NewServeCommand creates the serve command
func NewServeCommand(env *environment) *cobra.Command {
	var pidPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Start the catalog HTTP API and block until interrupted.

Default accounts are seeded first when auth.seed.enabled is set.

Examples:
  movies serve
  movies serve --address :9090
  movies serve --pid-file /run/movies.pid`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if pidPath != "" {
				pid := pidfile.New(pidPath)
				if err := pid.Acquire(); err != nil {
					return err
				}
				defer func() { _ = pid.Release() }()
			}

			return env.withApplication(ctx, func(ctx context.Context, app *bootstrap.Application) error {
				seeded, err := app.Seed(ctx)
				if err != nil {
					return fmt.Errorf("failed to seed accounts: %w", err)
				}
				if seeded > 0 {
					app.Logger.Info("seeded default accounts", "count", seeded)
				}
				if err := app.Server.Start(ctx); err != nil {
					return fmt.Errorf("server stopped: %w", err)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&pidPath, "pid-file", "", "Refuse to start while another server holds this PID file")
	cmd.Flags().StringVar(&env.address, "address", "", "Listen address (overrides server.address)")

	return cmd
}
