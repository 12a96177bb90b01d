package dto

import (
	"time"

	"github.com/andrescamacho/starwars-movies-go/internal/domain/movie"
)

// MovieDTO is the outward representation of a movie
type MovieDTO struct {
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	EpisodeID    int        `json:"episodeId"`
	OpeningCrawl string     `json:"openingCrawl"`
	Director     string     `json:"director"`
	Producer     string     `json:"producer"`
	ReleaseDate  time.Time  `json:"releaseDate"`
	Characters   []string   `json:"characters"`
	Planets      []string   `json:"planets"`
	Starships    []string   `json:"starships"`
	Vehicles     []string   `json:"vehicles"`
	Species      []string   `json:"species"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
	URL          *string    `json:"url,omitempty"`
}

// MoviePayload is the input for creating or replacing a movie.
// Validation tags are checked at the HTTP boundary.
type MoviePayload struct {
	Title        string    `json:"title" validate:"required,max=200"`
	EpisodeID    int       `json:"episodeId" validate:"required,gt=0"`
	OpeningCrawl string    `json:"openingCrawl" validate:"required"`
	Director     string    `json:"director" validate:"required,max=100"`
	Producer     string    `json:"producer" validate:"required,max=200"`
	ReleaseDate  time.Time `json:"releaseDate" validate:"required"`
	Characters   []string  `json:"characters"`
	Planets      []string  `json:"planets"`
	Starships    []string  `json:"starships"`
	Vehicles     []string  `json:"vehicles"`
	Species      []string  `json:"species"`
}

// ToDetails converts the payload into domain attributes
func (p *MoviePayload) ToDetails() movie.Details {
	return movie.Details{
		Title:        p.Title,
		EpisodeID:    p.EpisodeID,
		OpeningCrawl: p.OpeningCrawl,
		Director:     p.Director,
		Producer:     p.Producer,
		ReleaseDate:  p.ReleaseDate,
		References: movie.References{
			Characters: p.Characters,
			Planets:    p.Planets,
			Starships:  p.Starships,
			Vehicles:   p.Vehicles,
			Species:    p.Species,
		},
	}
}

// ToMovieDTO maps a domain movie to its DTO
func ToMovieDTO(m *movie.Movie) *MovieDTO {
	if m == nil {
		return nil
	}
	return &MovieDTO{
		ID:           m.ID,
		Title:        m.Title,
		EpisodeID:    m.EpisodeID,
		OpeningCrawl: m.OpeningCrawl,
		Director:     m.Director,
		Producer:     m.Producer,
		ReleaseDate:  m.ReleaseDate,
		Characters:   nonNil(m.Characters),
		Planets:      nonNil(m.Planets),
		Starships:    nonNil(m.Starships),
		Vehicles:     nonNil(m.Vehicles),
		Species:      nonNil(m.Species),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		URL:          m.URL,
	}
}

// ToMovieDTOs maps a slice of domain movies, preserving order
func ToMovieDTOs(movies []*movie.Movie) []*MovieDTO {
	out := make([]*MovieDTO, 0, len(movies))
	for _, m := range movies {
		out = append(out, ToMovieDTO(m))
	}
	return out
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
