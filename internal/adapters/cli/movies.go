package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/starwars-movies-go/internal/application/mediator"
	"github.com/andrescamacho/starwars-movies-go/internal/application/movie/commands"
	"github.com/andrescamacho/starwars-movies-go/internal/application/movie/dto"
	"github.com/andrescamacho/starwars-movies-go/internal/application/movie/queries"
	"github.com/andrescamacho/starwars-movies-go/internal/infrastructure/bootstrap"
)

// NewSyncCommand creates the sync command
func NewSyncCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Import films from the external film source",
		Long: `Fetch every film from the configured film source and add the ones whose
episode is not in the catalog yet. Running it twice imports nothing new.

Example:
  movies sync`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withApplication(cmd.Context(), func(ctx context.Context, app *bootstrap.Application) error {
				synced, err := mediator.Send[int](ctx, app.Mediator, &commands.SyncMoviesCommand{UserID: operatorID})
				if err != nil {
					return fmt.Errorf("sync failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "✓ Movies synchronized successfully")
				fmt.Fprintf(cmd.OutOrStdout(), "  Synced: %d\n", synced)
				return nil
			})
		},
	}
}

// NewSeedCommand creates the seed command
func NewSeedCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default administrator and regular accounts",
		Long: `Create the accounts configured under auth.seed. Existing accounts are left alone.

Example:
  MOVIES_AUTH_SEED_ENABLED=true movies seed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withApplication(cmd.Context(), func(ctx context.Context, app *bootstrap.Application) error {
				if !app.Config.Auth.Seed.Enabled {
					fmt.Fprintln(cmd.OutOrStdout(), "Seeding is disabled (auth.seed.enabled=false)")
					return nil
				}
				created, err := app.Seed(ctx)
				if err != nil {
					return fmt.Errorf("seed failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Seeded %d account(s)\n", created)
				return nil
			})
		},
	}
}

// NewMoviesCommand creates the movies command group
func NewMoviesCommand(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "movies",
		Short: "Browse and manage catalog entries",
		Long: `Browse and manage catalog entries.

Examples:
  movies movies list --page 2 --size 5
  movies movies list --search kershner
  movies movies get 3
  movies movies episode 5
  movies movies delete 3`,
	}

	cmd.AddCommand(newMoviesListCommand(env))
	cmd.AddCommand(newMoviesGetCommand(env))
	cmd.AddCommand(newMoviesEpisodeCommand(env))
	cmd.AddCommand(newMoviesDeleteCommand(env))

	return cmd
}

func newMoviesListCommand(env *environment) *cobra.Command {
	var (
		page   int
		size   int
		search string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List movies one page at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withApplication(cmd.Context(), func(ctx context.Context, app *bootstrap.Application) error {
				movies, err := mediator.Send[[]*dto.MovieDTO](ctx, app.Mediator, &queries.GetAllMoviesQuery{
					UserID:     operatorID,
					PageNumber: page,
					PageSize:   size,
					SearchTerm: search,
				})
				if err != nil {
					return fmt.Errorf("failed to list movies: %w", err)
				}
				if len(movies) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No movies found")
					return nil
				}
				return writeMovieTable(cmd.OutOrStdout(), movies)
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", queries.DefaultPageNumber, "Page number, starting at 1")
	cmd.Flags().IntVar(&size, "size", queries.DefaultPageSize, "Page size")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by title or director")

	return cmd
}

func newMoviesGetCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one movie as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			return env.withApplication(cmd.Context(), func(ctx context.Context, app *bootstrap.Application) error {
				found, err := mediator.Send[*dto.MovieDTO](ctx, app.Mediator, &queries.GetMovieByIDQuery{
					UserID:  operatorID,
					MovieID: id,
				})
				if err != nil {
					return fmt.Errorf("failed to get movie: %w", err)
				}
				if found == nil {
					return fmt.Errorf("movie %d not found", id)
				}
				fmt.Fprintln(cmd.OutOrStdout(), prettyPrint(found))
				return nil
			})
		},
	}
}

func newMoviesEpisodeCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "episode <number>",
		Short: "List movies for an episode number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			episode, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid episode %q: must be an integer", args[0])
			}
			return env.withApplication(cmd.Context(), func(ctx context.Context, app *bootstrap.Application) error {
				movies, err := mediator.Send[[]*dto.MovieDTO](ctx, app.Mediator, &queries.GetMoviesByEpisodeQuery{
					UserID:    operatorID,
					EpisodeID: episode,
				})
				if err != nil {
					return fmt.Errorf("failed to look up episode: %w", err)
				}
				if len(movies) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No movie for episode %d\n", episode)
					return nil
				}
				return writeMovieTable(cmd.OutOrStdout(), movies)
			})
		},
	}
}

func newMoviesDeleteCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a movie from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			return env.withApplication(cmd.Context(), func(ctx context.Context, app *bootstrap.Application) error {
				deleted, err := mediator.Send[bool](ctx, app.Mediator, &commands.DeleteMovieCommand{
					UserID:  operatorID,
					MovieID: id,
				})
				if err != nil {
					return fmt.Errorf("failed to delete movie: %w", err)
				}
				if !deleted {
					return fmt.Errorf("movie %d not found", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Movie %d deleted\n", id)
				return nil
			})
		},
	}
}
