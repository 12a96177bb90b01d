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

// CreateMovieCommand adds a movie to the catalog
type CreateMovieCommand struct {
	UserID string
	Movie  *dto.MoviePayload
}

// CreateMovieHandler handles the create movie command
type CreateMovieHandler struct {
	movieRepo movie.MovieRepository
	publisher mediator.Publisher
	clock     shared.Clock
}

// NewCreateMovieHandler creates a new create movie handler
func NewCreateMovieHandler(movieRepo movie.MovieRepository, publisher mediator.Publisher, clock shared.Clock) *CreateMovieHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &CreateMovieHandler{
		movieRepo: movieRepo,
		publisher: publisher,
		clock:     clock,
	}
}

// Handle executes the create movie command
func (h *CreateMovieHandler) Handle(ctx context.Context, cmd *CreateMovieCommand) (*dto.MovieDTO, error) {
	if err := requireUser(cmd.UserID); err != nil {
		return nil, err
	}
	if cmd.Movie == nil {
		return nil, shared.NewInvalidInputError("movie payload is required")
	}
	details := cmd.Movie.ToDetails()
	if err := details.Validate(); err != nil {
		return nil, err
	}

	// Fast path for a friendly conflict; the storage unique index is authoritative
	existing, err := h.movieRepo.GetOne(ctx, movie.ByEpisodeID{EpisodeID: cmd.Movie.EpisodeID})
	if err != nil {
		return nil, repositoryFailure("failed to check episode uniqueness", err)
	}
	if existing != nil {
		return nil, shared.NewConflictError(fmt.Sprintf("a movie with episode id %d already exists", cmd.Movie.EpisodeID))
	}

	m := movie.NewMovie(details, h.clock.Now())
	if err := h.movieRepo.Add(ctx, m); err != nil {
		return nil, repositoryFailure("failed to add movie", err)
	}

	logging.FromContext(ctx).Info("movie created",
		logging.MovieID(m.ID),
		logging.EpisodeID(m.EpisodeID),
		logging.UserID(cmd.UserID),
	)

	publish(ctx, h.publisher, &movie.MovieCreated{
		MovieID:   m.ID,
		EpisodeID: m.EpisodeID,
		Title:     m.Title,
		UserID:    cmd.UserID,
	})

	return dto.ToMovieDTO(m), nil
}
