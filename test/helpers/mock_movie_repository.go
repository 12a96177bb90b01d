package helpers

import (
	"context"
	"fmt"
	"sync"

	"github.com/andrescamacho/starwars-movies-go/internal/domain/movie"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

// MockMovieRepository is an in-memory MovieRepository that keeps insertion
// order and enforces episode uniqueness like the storage unique index.
type MockMovieRepository struct {
	mu     sync.RWMutex
	movies []*movie.Movie
	nextID int
	errs   map[string]error // operation name -> injected error
	calls  map[string]int
}

// NewMockMovieRepository creates a new mock movie repository
func NewMockMovieRepository() *MockMovieRepository {
	return &MockMovieRepository{
		nextID: 1,
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

// SetError makes every later call of op ("GetAll", "GetByID", "GetOne",
// "Find", "Add", "Update", "DeleteByID", "Exists") fail with err. A nil err clears it.
func (r *MockMovieRepository) SetError(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.errs, op)
		return
	}
	r.errs[op] = err
}

// Calls returns how many times op was invoked
func (r *MockMovieRepository) Calls(op string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.calls[op]
}

// Seed stores movies directly, bypassing injected errors
func (r *MockMovieRepository) Seed(movies ...*movie.Movie) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range movies {
		m.ID = r.nextID
		r.nextID++
		r.movies = append(r.movies, copyMovie(m))
	}
}

// Count returns the number of stored movies
func (r *MockMovieRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.movies)
}

func (r *MockMovieRepository) GetAll(ctx context.Context) ([]*movie.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("GetAll"); err != nil {
		return nil, err
	}
	out := make([]*movie.Movie, 0, len(r.movies))
	for _, m := range r.movies {
		out = append(out, copyMovie(m))
	}
	return out, nil
}

func (r *MockMovieRepository) GetByID(ctx context.Context, id int) (*movie.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("GetByID"); err != nil {
		return nil, err
	}
	if i := r.indexOf(id); i >= 0 {
		return copyMovie(r.movies[i]), nil
	}
	return nil, nil
}

func (r *MockMovieRepository) GetOne(ctx context.Context, spec movie.Specification) (*movie.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("GetOne"); err != nil {
		return nil, err
	}
	for _, m := range r.movies {
		if spec.IsSatisfiedBy(m) {
			return copyMovie(m), nil
		}
	}
	return nil, nil
}

func (r *MockMovieRepository) Find(ctx context.Context, spec movie.Specification) ([]*movie.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Find"); err != nil {
		return nil, err
	}
	var out []*movie.Movie
	for _, m := range r.movies {
		if spec.IsSatisfiedBy(m) {
			out = append(out, copyMovie(m))
		}
	}
	return out, nil
}

func (r *MockMovieRepository) Add(ctx context.Context, m *movie.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Add"); err != nil {
		return err
	}
	if r.episodeTaken(m.EpisodeID, 0) {
		return shared.NewConflictError(fmt.Sprintf("episode id %d already exists", m.EpisodeID))
	}
	m.ID = r.nextID
	r.nextID++
	r.movies = append(r.movies, copyMovie(m))
	return nil
}

func (r *MockMovieRepository) Update(ctx context.Context, m *movie.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Update"); err != nil {
		return err
	}
	i := r.indexOf(m.ID)
	if i < 0 {
		return fmt.Errorf("movie %d not found", m.ID)
	}
	if r.episodeTaken(m.EpisodeID, m.ID) {
		return shared.NewConflictError(fmt.Sprintf("episode id %d already exists", m.EpisodeID))
	}
	r.movies[i] = copyMovie(m)
	return nil
}

func (r *MockMovieRepository) DeleteByID(ctx context.Context, id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("DeleteByID"); err != nil {
		return false, err
	}
	i := r.indexOf(id)
	if i < 0 {
		return false, nil
	}
	r.movies = append(r.movies[:i], r.movies[i+1:]...)
	return true, nil
}

func (r *MockMovieRepository) Exists(ctx context.Context, spec movie.Specification) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Exists"); err != nil {
		return false, err
	}
	for _, m := range r.movies {
		if spec.IsSatisfiedBy(m) {
			return true, nil
		}
	}
	return false, nil
}

// enter records a call and returns the injected error, if any. Callers hold the lock.
func (r *MockMovieRepository) enter(op string) error {
	r.calls[op]++
	return r.errs[op]
}

func (r *MockMovieRepository) indexOf(id int) int {
	for i, m := range r.movies {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (r *MockMovieRepository) episodeTaken(episodeID, excludeID int) bool {
	for _, m := range r.movies {
		if m.EpisodeID == episodeID && m.ID != excludeID {
			return true
		}
	}
	return false
}

func copyMovie(m *movie.Movie) *movie.Movie {
	c := *m
	c.Characters = append([]string(nil), m.Characters...)
	c.Planets = append([]string(nil), m.Planets...)
	c.Starships = append([]string(nil), m.Starships...)
	c.Vehicles = append([]string(nil), m.Vehicles...)
	c.Species = append([]string(nil), m.Species...)
	return &c
}
