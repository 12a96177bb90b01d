package queries

import (
	"context"

	"github.com/andrescamacho/starwars-movies-go/internal/application/movie/dto"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/movie"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

// GetMoviesByEpisodeQuery lists movies holding an episode id
type GetMoviesByEpisodeQuery struct {
	UserID    string
	EpisodeID int
}

// GetMoviesByEpisodeHandler handles the movies-by-episode query
type GetMoviesByEpisodeHandler struct {
	movieRepo movie.MovieRepository
}

// NewGetMoviesByEpisodeHandler creates a new movies-by-episode handler
func NewGetMoviesByEpisodeHandler(movieRepo movie.MovieRepository) *GetMoviesByEpisodeHandler {
	return &GetMoviesByEpisodeHandler{movieRepo: movieRepo}
}

// Handle executes the movies-by-episode query
func (h *GetMoviesByEpisodeHandler) Handle(ctx context.Context, query *GetMoviesByEpisodeQuery) ([]*dto.MovieDTO, error) {
	if query.EpisodeID <= 0 {
		return nil, shared.NewInvalidInputError("episode id must be greater than 0")
	}

	movies, err := h.movieRepo.Find(ctx, movie.ByEpisodeID{EpisodeID: query.EpisodeID})
	if err != nil {
		return nil, shared.NewInternalError("failed to find movies by episode", err)
	}

	return dto.ToMovieDTOs(movies), nil
}
