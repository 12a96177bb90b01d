package commands

import (
	"context"

	"github.com/andrescamacho/starwars-movies-go/internal/application/logging"
	"github.com/andrescamacho/starwars-movies-go/internal/application/mediator"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/movie"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

// DeleteMovieCommand hard-deletes a movie
type DeleteMovieCommand struct {
	UserID  string
	MovieID int
}

// DeleteMovieHandler handles the delete movie command. The result reports
// whether a movie was removed; false means there was nothing to delete.
type DeleteMovieHandler struct {
	movieRepo movie.MovieRepository
	publisher mediator.Publisher
}

// NewDeleteMovieHandler creates a new delete movie handler
func NewDeleteMovieHandler(movieRepo movie.MovieRepository, publisher mediator.Publisher) *DeleteMovieHandler {
	return &DeleteMovieHandler{
		movieRepo: movieRepo,
		publisher: publisher,
	}
}

// Handle executes the delete movie command
func (h *DeleteMovieHandler) Handle(ctx context.Context, cmd *DeleteMovieCommand) (bool, error) {
	if err := requireUser(cmd.UserID); err != nil {
		return false, err
	}
	if cmd.MovieID <= 0 {
		return false, shared.NewInvalidInputError("movie id must be greater than 0")
	}

	deleted, err := h.movieRepo.DeleteByID(ctx, cmd.MovieID)
	if err != nil {
		return false, repositoryFailure("failed to delete movie", err)
	}

	logger := logging.FromContext(ctx)
	if !deleted {
		logger.Warn("movie to delete not found", logging.MovieID(cmd.MovieID))
		return false, nil
	}

	logger.Info("movie deleted", logging.MovieID(cmd.MovieID), logging.UserID(cmd.UserID))
	publish(ctx, h.publisher, &movie.MovieDeleted{MovieID: cmd.MovieID, UserID: cmd.UserID})

	return true, nil
}
