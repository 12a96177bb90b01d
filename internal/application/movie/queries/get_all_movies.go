package queries

import (
	"context"
	"strings"

	"github.com/andrescamacho/starwars-movies-go/internal/application/movie/dto"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/movie"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

// Pagination defaults
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
	MaxPageSize       = 100
)

// GetAllMoviesQuery lists movies, optionally filtered by a search term
type GetAllMoviesQuery struct {
	UserID     string
	PageNumber int
	PageSize   int
	// SearchTerm matches title or director, case-insensitively
	SearchTerm string
}

// GetAllMoviesHandler handles the list movies query.
// Page numbers below 1 are clamped to 1, page sizes below 1 use the default
// and sizes above MaxPageSize are capped.
type GetAllMoviesHandler struct {
	movieRepo movie.MovieRepository
}

// NewGetAllMoviesHandler creates a new list movies handler
func NewGetAllMoviesHandler(movieRepo movie.MovieRepository) *GetAllMoviesHandler {
	return &GetAllMoviesHandler{movieRepo: movieRepo}
}

// Handle executes the list movies query
func (h *GetAllMoviesHandler) Handle(ctx context.Context, query *GetAllMoviesQuery) ([]*dto.MovieDTO, error) {
	movies, err := h.movieRepo.GetAll(ctx)
	if err != nil {
		return nil, shared.NewInternalError("failed to list movies", err)
	}

	if term := strings.TrimSpace(query.SearchTerm); term != "" {
		filter := movie.TitleOrDirectorContains{Term: term}
		matched := make([]*movie.Movie, 0, len(movies))
		for _, m := range movies {
			if filter.IsSatisfiedBy(m) {
				matched = append(matched, m)
			}
		}
		movies = matched
	}

	pageNumber, pageSize := normalizePage(query.PageNumber, query.PageSize)
	return dto.ToMovieDTOs(paginate(movies, pageNumber, pageSize)), nil
}

func normalizePage(pageNumber, pageSize int) (int, int) {
	if pageNumber < 1 {
		pageNumber = DefaultPageNumber
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return pageNumber, pageSize
}

func paginate(movies []*movie.Movie, pageNumber, pageSize int) []*movie.Movie {
	// Compared before multiplying so huge page numbers cannot overflow
	if pageNumber-1 >= (len(movies)+pageSize-1)/pageSize {
		return nil
	}
	skip := (pageNumber - 1) * pageSize
	end := skip + pageSize
	if end > len(movies) {
		end = len(movies)
	}
	return movies[skip:end]
}
