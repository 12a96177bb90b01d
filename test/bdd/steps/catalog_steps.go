package steps

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/starwars-movies-go/internal/adapters/persistence"
	"github.com/andrescamacho/starwars-movies-go/internal/application/mediator"
	"github.com/andrescamacho/starwars-movies-go/internal/application/movie/commands"
	"github.com/andrescamacho/starwars-movies-go/internal/application/movie/dto"
	"github.com/andrescamacho/starwars-movies-go/internal/application/movie/queries"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/movie"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
	"github.com/andrescamacho/starwars-movies-go/internal/infrastructure/bootstrap"
	"github.com/andrescamacho/starwars-movies-go/test/helpers"
)

const catalogUser = "bdd-admin"

type catalogContext struct {
	repo     *persistence.GormMovieRepository
	mediator *mediator.Mediator
	films    *helpers.MockFilmSource
	clock    *shared.MockClock

	mu            sync.Mutex
	notifications []string

	ids     map[string]int
	movie   *dto.MovieDTO
	movies  []*dto.MovieDTO
	count   int
	deleted bool
	err     error
}

func InitializeCatalogScenario(sc *godog.ScenarioContext) {
	c := &catalogContext{}

	sc.After(func(ctx context.Context, s *godog.Scenario, err error) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	sc.Step(`^an empty catalog$`, c.anEmptyCatalog)
	sc.Step(`^the film source serves the original trilogy$`, c.theFilmSourceServesTheOriginalTrilogy)
	sc.Step(`^the film source is unavailable$`, c.theFilmSourceIsUnavailable)
	sc.Step(`^the movie "([^"]*)" for episode (\d+) directed by "([^"]*)" exists$`, c.theMovieExists)
	sc.Step(`^(\d+) numbered movies exist$`, c.numberedMoviesExist)

	sc.Step(`^I create the movie "([^"]*)" for episode (\d+) directed by "([^"]*)"$`, c.iCreateTheMovie)
	sc.Step(`^I update "([^"]*)" to title "([^"]*)" and episode (\d+)$`, c.iUpdateByTitle)
	sc.Step(`^I update movie (\d+) to title "([^"]*)" and episode (\d+)$`, c.iUpdateMovie)
	sc.Step(`^I delete "([^"]*)"$`, c.iDelete)
	sc.Step(`^I get movie (\d+)$`, c.iGetMovie)
	sc.Step(`^I get "([^"]*)"$`, c.iGetByTitle)
	sc.Step(`^I sync the catalog$`, c.iSyncTheCatalog)
	sc.Step(`^I list page (\d+) with size (\d+)$`, c.iListPage)
	sc.Step(`^I search for "([^"]*)"$`, c.iSearchFor)
	sc.Step(`^I look up episode (\d+)$`, c.iLookUpEpisode)

	sc.Step(`^the operation should succeed$`, c.theOperationShouldSucceed)
	sc.Step(`^the operation should fail with a "([^"]*)" error$`, c.theOperationShouldFailWith)
	sc.Step(`^the movie "([^"]*)" should have an id$`, c.theMovieShouldHaveAnID)
	sc.Step(`^the catalog should contain (\d+) movies?$`, c.theCatalogShouldContain)
	sc.Step(`^a "([^"]*)" notification should have been published$`, c.aNotificationShouldHaveBeenPublished)
	sc.Step(`^the returned movie should have title "([^"]*)"$`, c.theReturnedMovieShouldHaveTitle)
	sc.Step(`^the returned movie should have an update time$`, c.theReturnedMovieShouldHaveAnUpdateTime)
	sc.Step(`^no movie should be returned$`, c.noMovieShouldBeReturned)
	sc.Step(`^the delete result should be (true|false)$`, c.theDeleteResultShouldBe)
	sc.Step(`^the sync count should be (\d+)$`, c.theSyncCountShouldBe)
	sc.Step(`^(\d+) movies should be returned$`, c.moviesShouldBeReturned)
	sc.Step(`^the returned movies should include "([^"]*)"$`, c.theReturnedMoviesShouldInclude)
}

func (c *catalogContext) reset() {
	c.repo, c.mediator, c.films, c.clock = nil, nil, nil, nil
	c.mu.Lock()
	c.notifications = nil
	c.mu.Unlock()
	c.ids, c.movie, c.movies, c.count, c.deleted, c.err = nil, nil, nil, 0, false, nil
}

func (c *catalogContext) anEmptyCatalog() error {
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}
	c.repo = persistence.NewGormMovieRepository(helpers.SharedTestDB)
	c.films = helpers.NewMockFilmSource()
	c.clock = shared.NewMockClock(time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC))
	c.ids = make(map[string]int)
	c.mediator = mediator.NewMediator()

	if err := bootstrap.RegisterHandlers(c.mediator, bootstrap.Dependencies{
		Movies: c.repo,
		Films:  c.films,
		Clock:  c.clock,
	}); err != nil {
		return err
	}
	return c.subscribe()
}

// subscribe records the catalog notifications by name
func (c *catalogContext) subscribe() error {
	record := func(name string) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.notifications = append(c.notifications, name)
	}
	if err := mediator.RegisterNotificationHandler[*movie.MovieCreated](c.mediator,
		mediator.NotificationHandlerFunc[*movie.MovieCreated](func(ctx context.Context, _ *movie.MovieCreated) error {
			record("created")
			return nil
		})); err != nil {
		return err
	}
	if err := mediator.RegisterNotificationHandler[*movie.MovieUpdated](c.mediator,
		mediator.NotificationHandlerFunc[*movie.MovieUpdated](func(ctx context.Context, _ *movie.MovieUpdated) error {
			record("updated")
			return nil
		})); err != nil {
		return err
	}
	if err := mediator.RegisterNotificationHandler[*movie.MovieDeleted](c.mediator,
		mediator.NotificationHandlerFunc[*movie.MovieDeleted](func(ctx context.Context, _ *movie.MovieDeleted) error {
			record("deleted")
			return nil
		})); err != nil {
		return err
	}
	return mediator.RegisterNotificationHandler[*movie.MoviesSynced](c.mediator,
		mediator.NotificationHandlerFunc[*movie.MoviesSynced](func(ctx context.Context, _ *movie.MoviesSynced) error {
			record("synced")
			return nil
		}))
}

func (c *catalogContext) theFilmSourceServesTheOriginalTrilogy() error {
	c.films.SetFilms(helpers.OriginalTrilogy()...)
	return nil
}

func (c *catalogContext) theFilmSourceIsUnavailable() error {
	c.films.SetError(shared.NewInternalError("film source unavailable", errors.New("503 Service Unavailable")))
	return nil
}

func payload(title string, episode int, director string) *dto.MoviePayload {
	return &dto.MoviePayload{
		Title:        title,
		EpisodeID:    episode,
		OpeningCrawl: "A long time ago in a galaxy far, far away....",
		Director:     director,
		Producer:     "Rick McCallum",
		ReleaseDate:  time.Date(1999, 5, 19, 0, 0, 0, 0, time.UTC),
	}
}

func (c *catalogContext) create(title string, episode int, director string) (*dto.MovieDTO, error) {
	created, err := mediator.Send[*dto.MovieDTO](context.Background(), c.mediator, &commands.CreateMovieCommand{
		UserID: catalogUser,
		Movie:  payload(title, episode, director),
	})
	if err == nil && created != nil {
		c.ids[title] = created.ID
	}
	return created, err
}

func (c *catalogContext) theMovieExists(title string, episode int, director string) error {
	_, err := c.create(title, episode, director)
	return err
}

func (c *catalogContext) numberedMoviesExist(n int) error {
	for i := 1; i <= n; i++ {
		if _, err := c.create(fmt.Sprintf("Episode %d", i), i, "Director"); err != nil {
			return err
		}
	}
	return nil
}

func (c *catalogContext) iCreateTheMovie(title string, episode int, director string) error {
	c.movie, c.err = c.create(title, episode, director)
	return nil
}

func (c *catalogContext) iUpdateByTitle(title, newTitle string, episode int) error {
	id, ok := c.ids[title]
	if !ok {
		return fmt.Errorf("no movie titled %q was created", title)
	}
	return c.iUpdateMovie(id, newTitle, episode)
}

func (c *catalogContext) iUpdateMovie(id int, newTitle string, episode int) error {
	c.clock.Advance(time.Hour)
	c.movie, c.err = mediator.Send[*dto.MovieDTO](context.Background(), c.mediator, &commands.UpdateMovieCommand{
		UserID:  catalogUser,
		MovieID: id,
		Movie:   payload(newTitle, episode, "George Lucas"),
	})
	return nil
}

func (c *catalogContext) iDelete(title string) error {
	id, ok := c.ids[title]
	if !ok {
		return fmt.Errorf("no movie titled %q was created", title)
	}
	c.deleted, c.err = mediator.Send[bool](context.Background(), c.mediator, &commands.DeleteMovieCommand{
		UserID:  catalogUser,
		MovieID: id,
	})
	return nil
}

func (c *catalogContext) iGetMovie(id int) error {
	c.movie, c.err = mediator.Send[*dto.MovieDTO](context.Background(), c.mediator, &queries.GetMovieByIDQuery{
		UserID:  catalogUser,
		MovieID: id,
	})
	return nil
}

func (c *catalogContext) iGetByTitle(title string) error {
	id, ok := c.ids[title]
	if !ok {
		return fmt.Errorf("no movie titled %q was created", title)
	}
	return c.iGetMovie(id)
}

func (c *catalogContext) iSyncTheCatalog() error {
	c.count, c.err = mediator.Send[int](context.Background(), c.mediator, &commands.SyncMoviesCommand{UserID: catalogUser})
	return nil
}

func (c *catalogContext) iListPage(page, size int) error {
	c.movies, c.err = mediator.Send[[]*dto.MovieDTO](context.Background(), c.mediator, &queries.GetAllMoviesQuery{
		UserID:     catalogUser,
		PageNumber: page,
		PageSize:   size,
	})
	return nil
}

func (c *catalogContext) iSearchFor(term string) error {
	c.movies, c.err = mediator.Send[[]*dto.MovieDTO](context.Background(), c.mediator, &queries.GetAllMoviesQuery{
		UserID:     catalogUser,
		SearchTerm: term,
	})
	return nil
}

func (c *catalogContext) iLookUpEpisode(episode int) error {
	c.movies, c.err = mediator.Send[[]*dto.MovieDTO](context.Background(), c.mediator, &queries.GetMoviesByEpisodeQuery{
		UserID:    catalogUser,
		EpisodeID: episode,
	})
	return nil
}

func (c *catalogContext) theOperationShouldSucceed() error {
	if c.err != nil {
		return fmt.Errorf("expected success, got %w", c.err)
	}
	return nil
}

func (c *catalogContext) theOperationShouldFailWith(kind string) error {
	return assertErrorKind(c.err, kind)
}

func (c *catalogContext) theMovieShouldHaveAnID(title string) error {
	if c.movie == nil || c.movie.Title != title {
		return fmt.Errorf("expected movie %q to be returned, got %+v", title, c.movie)
	}
	if c.movie.ID <= 0 {
		return fmt.Errorf("expected a positive id, got %d", c.movie.ID)
	}
	return nil
}

func (c *catalogContext) theCatalogShouldContain(n int) error {
	all, err := c.repo.GetAll(context.Background())
	if err != nil {
		return err
	}
	if len(all) != n {
		return fmt.Errorf("expected %d movies in the catalog, found %d", n, len(all))
	}
	return nil
}

func (c *catalogContext) aNotificationShouldHaveBeenPublished(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.notifications {
		if n == name {
			return nil
		}
	}
	return fmt.Errorf("expected a %q notification, got %v", name, c.notifications)
}

func (c *catalogContext) theReturnedMovieShouldHaveTitle(title string) error {
	if c.movie == nil {
		return fmt.Errorf("no movie returned")
	}
	if c.movie.Title != title {
		return fmt.Errorf("expected title %q, got %q", title, c.movie.Title)
	}
	return nil
}

func (c *catalogContext) theReturnedMovieShouldHaveAnUpdateTime() error {
	if c.movie == nil || c.movie.UpdatedAt == nil {
		return fmt.Errorf("expected an update time")
	}
	if !c.movie.UpdatedAt.Equal(c.clock.Now()) {
		return fmt.Errorf("expected update time %s, got %s", c.clock.Now(), c.movie.UpdatedAt)
	}
	return nil
}

func (c *catalogContext) noMovieShouldBeReturned() error {
	if c.movie != nil {
		return fmt.Errorf("expected no movie, got %+v", c.movie)
	}
	return nil
}

func (c *catalogContext) theDeleteResultShouldBe(expected string) error {
	if c.err != nil {
		return fmt.Errorf("delete failed: %w", c.err)
	}
	if want := expected == "true"; c.deleted != want {
		return fmt.Errorf("expected delete result %t, got %t", want, c.deleted)
	}
	return nil
}

func (c *catalogContext) theSyncCountShouldBe(n int) error {
	if c.err != nil {
		return fmt.Errorf("sync failed: %w", c.err)
	}
	if c.count != n {
		return fmt.Errorf("expected %d synced movies, got %d", n, c.count)
	}
	return nil
}

func (c *catalogContext) moviesShouldBeReturned(n int) error {
	if c.err != nil {
		return fmt.Errorf("query failed: %w", c.err)
	}
	if len(c.movies) != n {
		return fmt.Errorf("expected %d movies, got %d", n, len(c.movies))
	}
	return nil
}

func (c *catalogContext) theReturnedMoviesShouldInclude(title string) error {
	for _, m := range c.movies {
		if m.Title == title {
			return nil
		}
	}
	return fmt.Errorf("expected %q among the returned movies", title)
}
