package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/starwars-movies-go/internal/domain/movie"
)

// MockFilmSource is a FilmSource returning a fixed film list
type MockFilmSource struct {
	mu    sync.Mutex
	films []movie.Film
	err   error
	calls int
}

// NewMockFilmSource creates a film source serving films
func NewMockFilmSource(films ...movie.Film) *MockFilmSource {
	return &MockFilmSource{films: films}
}

// SetFilms replaces the upstream film list
func (s *MockFilmSource) SetFilms(films ...movie.Film) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.films = films
}

// SetError makes GetFilms fail with err
func (s *MockFilmSource) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Calls returns how many times GetFilms was invoked
func (s *MockFilmSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *MockFilmSource) GetFilms(ctx context.Context) ([]movie.Film, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return append([]movie.Film(nil), s.films...), nil
}

// OriginalTrilogy returns the upstream records for episodes 4 to 6
func OriginalTrilogy() []movie.Film {
	return []movie.Film{
		{
			Title:        "A New Hope",
			EpisodeID:    4,
			OpeningCrawl: "It is a period of civil war.",
			Director:     "George Lucas",
			Producer:     "Gary Kurtz, Rick McCallum",
			ReleaseDate:  "1977-05-25",
			References: movie.References{
				Characters: []string{"https://www.swapi.tech/api/people/1"},
				Planets:    []string{"https://www.swapi.tech/api/planets/1"},
			},
			URL: "https://www.swapi.tech/api/films/1",
		},
		{
			Title:        "The Empire Strikes Back",
			EpisodeID:    5,
			OpeningCrawl: "It is a dark time for the Rebellion.",
			Director:     "Irvin Kershner",
			Producer:     "Gary Kurtz, Rick McCallum",
			ReleaseDate:  "1980-05-17",
			URL:          "https://www.swapi.tech/api/films/2",
		},
		{
			Title:        "Return of the Jedi",
			EpisodeID:    6,
			OpeningCrawl: "Luke Skywalker has returned to his home planet of Tatooine.",
			Director:     "Richard Marquand",
			Producer:     "Howard G. Kazanjian, George Lucas, Rick McCallum",
			ReleaseDate:  "1983-05-25",
			URL:          "https://www.swapi.tech/api/films/3",
		},
	}
}
