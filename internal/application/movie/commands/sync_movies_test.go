package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/starwars-movies-go/internal/application/movie/commands"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/movie"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
	"github.com/andrescamacho/starwars-movies-go/test/helpers"
)

func newSyncHandler(repo movie.MovieRepository, source movie.FilmSource, publisher *helpers.RecordingPublisher, clock shared.Clock) *commands.SyncMoviesHandler {
	return commands.NewSyncMoviesHandler(repo, source, publisher, clock)
}

func TestSyncMovies_CreatesNewMoviesAndCountsThem(t *testing.T) {
	// Arrange
	repo := helpers.NewMockMovieRepository()
	source := helpers.NewMockFilmSource(helpers.OriginalTrilogy()...)
	publisher := helpers.NewRecordingPublisher()
	handler := newSyncHandler(repo, source, publisher, shared.NewMockClock(fixedNow))

	// Act
	created, err := handler.Handle(context.Background(), &commands.SyncMoviesCommand{UserID: "admin"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, created)
	assert.Equal(t, 1, source.Calls())

	all, _ := repo.GetAll(context.Background())
	require.Len(t, all, 3)
	assert.Equal(t, "A New Hope", all[0].Title, "source order is preserved")
	assert.Equal(t, time.Date(1977, 5, 25, 0, 0, 0, 0, time.UTC), all[0].ReleaseDate)
	require.NotNil(t, all[0].URL)
	assert.Equal(t, "https://www.swapi.tech/api/films/1", *all[0].URL)
	assert.Equal(t, fixedNow, all[0].CreatedAt)
	assert.Nil(t, all[0].UpdatedAt)

	assert.Equal(t, []interface{}{&movie.MoviesSynced{Created: 3, Updated: 0, UserID: "admin"}}, toInterfaces(publisher))
}

func TestSyncMovies_IsIdempotent(t *testing.T) {
	repo := helpers.NewMockMovieRepository()
	clock := shared.NewMockClock(fixedNow)
	handler := newSyncHandler(repo, helpers.NewMockFilmSource(helpers.OriginalTrilogy()...), helpers.NewRecordingPublisher(), clock)

	first, err := handler.Handle(context.Background(), &commands.SyncMoviesCommand{UserID: "admin"})
	require.NoError(t, err)
	before, _ := repo.GetAll(context.Background())

	clock.Advance(time.Hour)
	second, err := handler.Handle(context.Background(), &commands.SyncMoviesCommand{UserID: "admin"})
	require.NoError(t, err)
	after, _ := repo.GetAll(context.Background())

	assert.Equal(t, 3, first)
	assert.Equal(t, 0, second)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].Details(), after[i].Details(), "catalog content is unchanged")
		assert.Equal(t, before[i].URL, after[i].URL)
	}
}

func TestSyncMovies_UpdatesExistingWithoutCounting(t *testing.T) {
	repo := helpers.NewMockMovieRepository()
	repo.Seed(seededMovie("Episode IV", 4))
	film := helpers.OriginalTrilogy()[0]
	handler := newSyncHandler(repo, helpers.NewMockFilmSource(film), helpers.NewRecordingPublisher(), shared.NewMockClock(fixedNow))

	created, err := handler.Handle(context.Background(), &commands.SyncMoviesCommand{UserID: "admin"})

	require.NoError(t, err)
	assert.Equal(t, 0, created)
	stored, _ := repo.GetByID(context.Background(), 1)
	assert.Equal(t, "A New Hope", stored.Title)
	assert.Equal(t, film.Director, stored.Director)
	assert.Equal(t, film.Characters, stored.Characters)
	require.NotNil(t, stored.UpdatedAt)
	assert.Equal(t, fixedNow, *stored.UpdatedAt)
	require.NotNil(t, stored.URL)
}

func TestSyncMovies_ReleaseDateFallbacks(t *testing.T) {
	repo := helpers.NewMockMovieRepository()
	existing := seededMovie("A New Hope", 4)
	priorDate := existing.ReleaseDate
	repo.Seed(existing)

	films := helpers.OriginalTrilogy()[:2]
	films[0].ReleaseDate = "not-a-date"
	films[1].ReleaseDate = "sometime in 1980"
	handler := newSyncHandler(repo, helpers.NewMockFilmSource(films...), helpers.NewRecordingPublisher(), shared.NewMockClock(fixedNow))

	_, err := handler.Handle(context.Background(), &commands.SyncMoviesCommand{UserID: "admin"})
	require.NoError(t, err)

	updated, _ := repo.GetOne(context.Background(), movie.ByEpisodeID{EpisodeID: 4})
	assert.Equal(t, priorDate, updated.ReleaseDate, "existing movie keeps its prior date")

	created, _ := repo.GetOne(context.Background(), movie.ByEpisodeID{EpisodeID: 5})
	assert.True(t, created.ReleaseDate.IsZero(), "new movie falls back to the zero date")
}

func TestSyncMovies_SourceFailurePropagatesUnchanged(t *testing.T) {
	sourceErr := errors.New("upstream unavailable")
	source := helpers.NewMockFilmSource()
	source.SetError(sourceErr)
	repo := helpers.NewMockMovieRepository()
	handler := newSyncHandler(repo, source, helpers.NewRecordingPublisher(), shared.NewMockClock(fixedNow))

	created, err := handler.Handle(context.Background(), &commands.SyncMoviesCommand{UserID: "admin"})

	assert.Same(t, sourceErr, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 0, repo.Calls("GetOne"))
}

func TestSyncMovies_MidLoopFailureKeepsProcessedRecords(t *testing.T) {
	repo := helpers.NewMockMovieRepository()
	repo.Seed(seededMovie("Episode V", 5))
	repoErr := errors.New("update failed")
	repo.SetError("Update", repoErr)
	publisher := helpers.NewRecordingPublisher()
	handler := newSyncHandler(repo, helpers.NewMockFilmSource(helpers.OriginalTrilogy()...), publisher, shared.NewMockClock(fixedNow))

	_, err := handler.Handle(context.Background(), &commands.SyncMoviesCommand{UserID: "admin"})

	assert.Same(t, repoErr, err)
	assert.Equal(t, 2, repo.Count(), "episode 4 was committed before the failure, episode 6 never ran")
	missing, _ := repo.GetOne(context.Background(), movie.ByEpisodeID{EpisodeID: 6})
	assert.Nil(t, missing)
	assert.Empty(t, publisher.Notifications())
}

func TestSyncMovies_RequiresUser(t *testing.T) {
	source := helpers.NewMockFilmSource(helpers.OriginalTrilogy()...)
	handler := newSyncHandler(helpers.NewMockMovieRepository(), source, helpers.NewRecordingPublisher(), shared.NewMockClock(fixedNow))

	_, err := handler.Handle(context.Background(), &commands.SyncMoviesCommand{})

	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Equal(t, 0, source.Calls())
}

func TestSyncMovies_StopsWhenCancelled(t *testing.T) {
	repo := helpers.NewMockMovieRepository()
	handler := newSyncHandler(repo, helpers.NewMockFilmSource(helpers.OriginalTrilogy()...), helpers.NewRecordingPublisher(), shared.NewMockClock(fixedNow))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := handler.Handle(ctx, &commands.SyncMoviesCommand{UserID: "admin"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, repo.Count())
}
