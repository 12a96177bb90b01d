package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/starwars-movies-go/internal/application/logging"
	"github.com/andrescamacho/starwars-movies-go/internal/application/mediator"
	"github.com/andrescamacho/starwars-movies-go/internal/application/movie/dto"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/movie"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

// UpdateMovieCommand replaces every mutable field of an existing movie
type UpdateMovieCommand struct {
	UserID  string
	MovieID int
	Movie   *dto.MoviePayload
}

// UpdateMovieHandler handles the update movie command.
//
// A missing target is not an error: Handle returns (nil, nil) so callers can
// treat update as update-if-exists.
type UpdateMovieHandler struct {
	movieRepo movie.MovieRepository
	publisher mediator.Publisher
	clock     shared.Clock
}

// NewUpdateMovieHandler creates a new update movie handler
func NewUpdateMovieHandler(movieRepo movie.MovieRepository, publisher mediator.Publisher, clock shared.Clock) *UpdateMovieHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &UpdateMovieHandler{
		movieRepo: movieRepo,
		publisher: publisher,
		clock:     clock,
	}
}

// Handle executes the update movie command
func (h *UpdateMovieHandler) Handle(ctx context.Context, cmd *UpdateMovieCommand) (*dto.MovieDTO, error) {
	if err := requireUser(cmd.UserID); err != nil {
		return nil, err
	}
	if cmd.MovieID <= 0 {
		return nil, shared.NewInvalidInputError("movie id must be greater than 0")
	}
	if cmd.Movie == nil {
		return nil, shared.NewInvalidInputError("movie payload is required")
	}
	details := cmd.Movie.ToDetails()
	if err := details.Validate(); err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)

	existing, err := h.movieRepo.GetByID(ctx, cmd.MovieID)
	if err != nil {
		return nil, repositoryFailure("failed to load movie", err)
	}
	if existing == nil {
		logger.Warn("movie to update not found", logging.MovieID(cmd.MovieID))
		return nil, nil
	}

	taken, err := h.movieRepo.Exists(ctx, movie.EpisodeTakenByOther{
		EpisodeID: cmd.Movie.EpisodeID,
		ExcludeID: cmd.MovieID,
	})
	if err != nil {
		return nil, repositoryFailure("failed to check episode uniqueness", err)
	}
	if taken {
		return nil, shared.NewConflictError(fmt.Sprintf("another movie with episode id %d already exists", cmd.Movie.EpisodeID))
	}

	existing.Replace(details, h.clock.Now())
	if err := h.movieRepo.Update(ctx, existing); err != nil {
		return nil, repositoryFailure("failed to update movie", err)
	}

	logger.Info("movie updated", logging.MovieID(existing.ID), logging.UserID(cmd.UserID))

	publish(ctx, h.publisher, &movie.MovieUpdated{
		MovieID:   existing.ID,
		EpisodeID: existing.EpisodeID,
		Title:     existing.Title,
		UserID:    cmd.UserID,
	})

	return dto.ToMovieDTO(existing), nil
}
