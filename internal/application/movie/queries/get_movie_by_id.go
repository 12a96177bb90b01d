package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/starwars-movies-go/internal/application/movie/dto"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/movie"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

// GetMovieByIDQuery fetches a single movie
type GetMovieByIDQuery struct {
	UserID  string
	MovieID int
}

// GetMovieByIDHandler handles the get movie query. Unlike update, absence is
// reported as a NotFound error.
type GetMovieByIDHandler struct {
	movieRepo movie.MovieRepository
}

// NewGetMovieByIDHandler creates a new get movie handler
func NewGetMovieByIDHandler(movieRepo movie.MovieRepository) *GetMovieByIDHandler {
	return &GetMovieByIDHandler{movieRepo: movieRepo}
}

// Handle executes the get movie query
func (h *GetMovieByIDHandler) Handle(ctx context.Context, query *GetMovieByIDQuery) (*dto.MovieDTO, error) {
	if query.MovieID <= 0 {
		return nil, shared.NewInvalidInputError("movie id must be greater than 0")
	}

	m, err := h.movieRepo.GetByID(ctx, query.MovieID)
	if err != nil {
		return nil, shared.NewInternalError("failed to load movie", err)
	}
	if m == nil {
		return nil, shared.NewNotFoundError(fmt.Sprintf("movie %d not found", query.MovieID))
	}

	return dto.ToMovieDTO(m), nil
}
