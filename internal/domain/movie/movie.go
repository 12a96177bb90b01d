package movie

import (
	"fmt"
	"strings"
	"time"

	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

// Field limits for movie attributes
const (
	MaxTitleLength    = 200
	MaxDirectorLength = 100
	MaxProducerLength = 200
)

// References holds the ordered lists of external entities a film mentions.
// Order is preserved and duplicates are allowed.
type References struct {
	Characters []string
	Planets    []string
	Starships  []string
	Vehicles   []string
	Species    []string
}

// Details is the full set of mutable movie attributes
type Details struct {
	Title        string
	EpisodeID    int
	OpeningCrawl string
	Director     string
	Producer     string
	ReleaseDate  time.Time
	References
}

// Movie is the catalog aggregate root
type Movie struct {
	ID           int
	Title        string
	EpisodeID    int
	OpeningCrawl string
	Director     string
	Producer     string
	ReleaseDate  time.Time
	References
	CreatedAt time.Time
	UpdatedAt *time.Time
	// URL is the upstream resource this movie was synchronized from
	URL *string
}

// NewMovie creates a movie that has not yet been persisted
func NewMovie(details Details, createdAt time.Time) *Movie {
	m := &Movie{CreatedAt: createdAt}
	m.apply(details)
	return m
}

// Replace overwrites every mutable field and stamps the update time
func (m *Movie) Replace(details Details, updatedAt time.Time) {
	m.apply(details)
	m.touch(updatedAt)
}

// ApplyFilm copies the upstream-sourced fields of a film record onto the
// movie. The release date is only replaced when the film carries a parsable one.
func (m *Movie) ApplyFilm(film Film, updatedAt time.Time) {
	m.Title = film.Title
	m.OpeningCrawl = film.OpeningCrawl
	m.Director = film.Director
	m.Producer = film.Producer
	if releaseDate, ok := ParseReleaseDate(film.ReleaseDate); ok {
		m.ReleaseDate = releaseDate
	}
	m.References = film.References.clone()
	m.URL = optionalURL(film.URL)
	m.touch(updatedAt)
}

// NewMovieFromFilm creates a movie from an upstream film record.
// Unparsable release dates fall back to the zero time.
func NewMovieFromFilm(film Film, createdAt time.Time) *Movie {
	releaseDate, _ := ParseReleaseDate(film.ReleaseDate)
	m := NewMovie(Details{
		Title:        film.Title,
		EpisodeID:    film.EpisodeID,
		OpeningCrawl: film.OpeningCrawl,
		Director:     film.Director,
		Producer:     film.Producer,
		ReleaseDate:  releaseDate,
		References:   film.References,
	}, createdAt)
	m.URL = optionalURL(film.URL)
	return m
}

// Validate checks the field-level rules of the catalog
func (d Details) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return shared.NewValidationError("title", "is required")
	}
	if len(d.Title) > MaxTitleLength {
		return shared.NewValidationError("title", fmt.Sprintf("must be at most %d characters", MaxTitleLength))
	}
	if d.EpisodeID <= 0 {
		return shared.NewValidationError("episodeId", "must be greater than 0")
	}
	if strings.TrimSpace(d.OpeningCrawl) == "" {
		return shared.NewValidationError("openingCrawl", "is required")
	}
	if strings.TrimSpace(d.Director) == "" {
		return shared.NewValidationError("director", "is required")
	}
	if len(d.Director) > MaxDirectorLength {
		return shared.NewValidationError("director", fmt.Sprintf("must be at most %d characters", MaxDirectorLength))
	}
	if strings.TrimSpace(d.Producer) == "" {
		return shared.NewValidationError("producer", "is required")
	}
	if len(d.Producer) > MaxProducerLength {
		return shared.NewValidationError("producer", fmt.Sprintf("must be at most %d characters", MaxProducerLength))
	}
	return nil
}

// Details returns a snapshot of the movie's mutable attributes
func (m *Movie) Details() Details {
	return Details{
		Title:        m.Title,
		EpisodeID:    m.EpisodeID,
		OpeningCrawl: m.OpeningCrawl,
		Director:     m.Director,
		Producer:     m.Producer,
		ReleaseDate:  m.ReleaseDate,
		References:   m.References.clone(),
	}
}

func (m *Movie) apply(d Details) {
	m.Title = d.Title
	m.EpisodeID = d.EpisodeID
	m.OpeningCrawl = d.OpeningCrawl
	m.Director = d.Director
	m.Producer = d.Producer
	m.ReleaseDate = d.ReleaseDate
	m.References = d.References.clone()
}

func (m *Movie) touch(at time.Time) {
	m.UpdatedAt = &at
}

func (r References) clone() References {
	return References{
		Characters: cloneList(r.Characters),
		Planets:    cloneList(r.Planets),
		Starships:  cloneList(r.Starships),
		Vehicles:   cloneList(r.Vehicles),
		Species:    cloneList(r.Species),
	}
}

func cloneList(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	return out
}

func optionalURL(url string) *string {
	if url == "" {
		return nil
	}
	return &url
}

// releaseDateLayouts are tried in order when reading upstream dates
var releaseDateLayouts = []string{"2006-01-02", time.RFC3339}

// ParseReleaseDate parses an upstream release date string
func ParseReleaseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
