package movie_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/starwars-movies-go/internal/domain/movie"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

func validDetails() movie.Details {
	return movie.Details{
		Title:        "A New Hope",
		EpisodeID:    4,
		OpeningCrawl: "It is a period of civil war.",
		Director:     "George Lucas",
		Producer:     "Gary Kurtz, Rick McCallum",
		ReleaseDate:  time.Date(1977, 5, 25, 0, 0, 0, 0, time.UTC),
		References: movie.References{
			Characters: []string{"Luke Skywalker", "Leia Organa"},
			Planets:    []string{"Tatooine"},
		},
	}
}

func TestDetails_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *movie.Details)
		field  string
	}{
		{"valid", func(d *movie.Details) {}, ""},
		{"empty title", func(d *movie.Details) { d.Title = "  " }, "title"},
		{"long title", func(d *movie.Details) { d.Title = strings.Repeat("x", movie.MaxTitleLength+1) }, "title"},
		{"zero episode", func(d *movie.Details) { d.EpisodeID = 0 }, "episodeId"},
		{"negative episode", func(d *movie.Details) { d.EpisodeID = -3 }, "episodeId"},
		{"empty crawl", func(d *movie.Details) { d.OpeningCrawl = "" }, "openingCrawl"},
		{"empty director", func(d *movie.Details) { d.Director = "" }, "director"},
		{"long director", func(d *movie.Details) { d.Director = strings.Repeat("d", movie.MaxDirectorLength+1) }, "director"},
		{"empty producer", func(d *movie.Details) { d.Producer = "" }, "producer"},
		{"long producer", func(d *movie.Details) { d.Producer = strings.Repeat("p", movie.MaxProducerLength+1) }, "producer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDetails()
			tt.mutate(&d)

			err := d.Validate()

			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var validationErr *shared.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.field, validationErr.Field)
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
		})
	}
}

func TestMovie_ReplaceOverwritesAllFields(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := movie.NewMovie(validDetails(), created)
	require.Nil(t, m.UpdatedAt)

	replacement := validDetails()
	replacement.Title = "The Empire Strikes Back"
	replacement.EpisodeID = 5
	replacement.Characters = []string{"Yoda"}
	updated := created.Add(time.Hour)

	m.Replace(replacement, updated)

	assert.Equal(t, "The Empire Strikes Back", m.Title)
	assert.Equal(t, 5, m.EpisodeID)
	assert.Equal(t, []string{"Yoda"}, m.Characters)
	assert.Equal(t, created, m.CreatedAt)
	require.NotNil(t, m.UpdatedAt)
	assert.Equal(t, updated, *m.UpdatedAt)
}

func TestMovie_ReferencesAreCopied(t *testing.T) {
	d := validDetails()
	m := movie.NewMovie(d, time.Now())

	d.Characters[0] = "Darth Vader"

	assert.Equal(t, "Luke Skywalker", m.Characters[0])
}

func TestParseReleaseDate(t *testing.T) {
	got, ok := movie.ParseReleaseDate("1980-05-17")
	require.True(t, ok)
	assert.Equal(t, time.Date(1980, 5, 17, 0, 0, 0, 0, time.UTC), got)

	got, ok = movie.ParseReleaseDate("1983-05-25T10:00:00Z")
	require.True(t, ok)
	assert.Equal(t, 1983, got.Year())

	got, ok = movie.ParseReleaseDate("someday")
	assert.False(t, ok)
	assert.True(t, got.IsZero())
}

func TestNewMovieFromFilm_UnparsableDateFallsBackToZero(t *testing.T) {
	film := movie.Film{Title: "A New Hope", EpisodeID: 4, ReleaseDate: "n/a", URL: "https://swapi.tech/api/films/1"}

	m := movie.NewMovieFromFilm(film, time.Now())

	assert.True(t, m.ReleaseDate.IsZero())
	require.NotNil(t, m.URL)
	assert.Equal(t, "https://swapi.tech/api/films/1", *m.URL)
}

func TestMovie_ApplyFilmKeepsPriorDateWhenUnparsable(t *testing.T) {
	m := movie.NewMovie(validDetails(), time.Now())
	prior := m.ReleaseDate

	m.ApplyFilm(movie.Film{Title: "A New Hope (Special Edition)", ReleaseDate: "unknown"}, time.Now())

	assert.Equal(t, prior, m.ReleaseDate)
	assert.Equal(t, "A New Hope (Special Edition)", m.Title)
	assert.Nil(t, m.URL)
	assert.NotNil(t, m.UpdatedAt)
}

func TestSpecifications(t *testing.T) {
	m := movie.NewMovie(validDetails(), time.Now())
	m.ID = 7

	assert.True(t, movie.ByID{ID: 7}.IsSatisfiedBy(m))
	assert.True(t, movie.ByEpisodeID{EpisodeID: 4}.IsSatisfiedBy(m))
	assert.False(t, movie.EpisodeTakenByOther{EpisodeID: 4, ExcludeID: 7}.IsSatisfiedBy(m))
	assert.True(t, movie.EpisodeTakenByOther{EpisodeID: 4, ExcludeID: 8}.IsSatisfiedBy(m))
	assert.True(t, movie.TitleOrDirectorContains{Term: "NEW"}.IsSatisfiedBy(m))
	assert.True(t, movie.TitleOrDirectorContains{Term: "lucas"}.IsSatisfiedBy(m))
	assert.False(t, movie.TitleOrDirectorContains{Term: "empire"}.IsSatisfiedBy(m))
}
