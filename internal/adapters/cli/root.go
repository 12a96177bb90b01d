package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/starwars-movies-go/internal/infrastructure/bootstrap"
)

// NewRootCommand creates the root command for the CLI.
// opts are applied to every application the subcommands build.
func NewRootCommand(opts ...bootstrap.Option) *cobra.Command {
	env := &environment{options: opts}

	rootCmd := &cobra.Command{
		Use:   "movies",
		Short: "Star Wars movie catalog service",
		Long: `Run and operate the Star Wars movie catalog.

The serve command starts the HTTP API. The remaining commands talk to the
catalog database directly through the same handlers the API uses.

Examples:
  movies serve
  movies sync
  movies movies list --search lucas
  movies movies get 4
  movies config show`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env.configPath, "config", "c", os.Getenv("MOVIES_CONFIG"),
		"Path to config file (defaults to ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&env.verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(NewServeCommand(env))
	rootCmd.AddCommand(NewSyncCommand(env))
	rootCmd.AddCommand(NewSeedCommand(env))
	rootCmd.AddCommand(NewMoviesCommand(env))
	rootCmd.AddCommand(NewHealthCommand(env))
	rootCmd.AddCommand(NewConfigCommand(env))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
