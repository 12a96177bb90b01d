package commands

import (
	"context"
	"log/slog"

	"github.com/andrescamacho/starwars-movies-go/internal/application/logging"
	"github.com/andrescamacho/starwars-movies-go/internal/application/mediator"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/movie"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

// SyncMoviesCommand reconciles the catalog against the upstream film source
type SyncMoviesCommand struct {
	UserID string
}

// SyncMoviesHandler upserts every upstream film by episode id.
//
// The result counts newly created movies only, so re-running against an
// unchanged source returns 0. Films are processed sequentially in source
// order; a failure aborts the remaining films and leaves earlier ones committed.
type SyncMoviesHandler struct {
	movieRepo  movie.MovieRepository
	filmSource movie.FilmSource
	publisher  mediator.Publisher
	clock      shared.Clock
}

// NewSyncMoviesHandler creates a new sync movies handler
func NewSyncMoviesHandler(movieRepo movie.MovieRepository, filmSource movie.FilmSource, publisher mediator.Publisher, clock shared.Clock) *SyncMoviesHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &SyncMoviesHandler{
		movieRepo:  movieRepo,
		filmSource: filmSource,
		publisher:  publisher,
		clock:      clock,
	}
}

// Handle executes the sync movies command
func (h *SyncMoviesHandler) Handle(ctx context.Context, cmd *SyncMoviesCommand) (int, error) {
	if err := requireUser(cmd.UserID); err != nil {
		return 0, err
	}

	films, err := h.filmSource.GetFilms(ctx)
	if err != nil {
		return 0, err
	}

	logger := logging.FromContext(ctx)
	created, updated := 0, 0

	for _, film := range films {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		existing, err := h.movieRepo.GetOne(ctx, movie.ByEpisodeID{EpisodeID: film.EpisodeID})
		if err != nil {
			return 0, err
		}

		if existing == nil {
			m := movie.NewMovieFromFilm(film, h.clock.Now())
			if err := h.movieRepo.Add(ctx, m); err != nil {
				return 0, err
			}
			created++
			logger.Debug("synced new movie", logging.MovieID(m.ID), logging.EpisodeID(m.EpisodeID))
			continue
		}

		existing.ApplyFilm(film, h.clock.Now())
		if err := h.movieRepo.Update(ctx, existing); err != nil {
			return 0, err
		}
		updated++
	}

	logger.Info("movies synchronized",
		slog.Int("fetched", len(films)),
		slog.Int("created", created),
		slog.Int("updated", updated),
		logging.UserID(cmd.UserID),
	)

	publish(ctx, h.publisher, &movie.MoviesSynced{Created: created, Updated: updated, UserID: cmd.UserID})

	return created, nil
}
