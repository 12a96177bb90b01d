package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/starwars-movies-go/internal/adapters/persistence"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/movie"
	"github.com/andrescamacho/starwars-movies-go/test/helpers"
)

type movieRepositoryContext struct {
	repo    *persistence.GormMovieRepository
	stored  map[string]*movie.Movie
	loaded  *movie.Movie
	found   []*movie.Movie
	deleted bool
	err     error
}

func InitializeMovieRepositoryScenario(sc *godog.ScenarioContext) {
	c := &movieRepositoryContext{}

	sc.After(func(ctx context.Context, s *godog.Scenario, err error) (context.Context, error) {
		*c = movieRepositoryContext{}
		return ctx, nil
	})

	sc.Step(`^a clean movie store$`, c.aCleanMovieStore)
	sc.Step(`^a stored movie "([^"]*)" for episode (\d+)$`, c.aStoredMovie)
	sc.Step(`^a stored movie "([^"]*)" for episode (\d+) with characters:$`, c.aStoredMovieWithCharacters)

	sc.Step(`^I load the movie "([^"]*)" by id$`, c.iLoadTheMovieByID)
	sc.Step(`^I store a movie "([^"]*)" for episode (\d+)$`, c.iStoreAMovie)
	sc.Step(`^I find movies for episode (\d+)$`, c.iFindMoviesForEpisode)
	sc.Step(`^I search the store for "([^"]*)"$`, c.iSearchTheStoreFor)
	sc.Step(`^I delete the stored movie "([^"]*)"$`, c.iDeleteTheStoredMovie)

	sc.Step(`^the loaded movie should have characters "([^"]*)"$`, c.theLoadedMovieShouldHaveCharacters)
	sc.Step(`^the store should report a "([^"]*)" error$`, c.theStoreShouldReportAnError)
	sc.Step(`^the store should return "([^"]*)"$`, c.theStoreShouldReturn)
	sc.Step(`^episode (\d+) should be free for "([^"]*)"$`, c.episodeShouldBeFreeFor)
	sc.Step(`^episode (\d+) should be taken for any other movie$`, c.episodeShouldBeTakenForAnyOtherMovie)
	sc.Step(`^the store delete result should be (true|false)$`, c.theStoreDeleteResultShouldBe)
}

func (c *movieRepositoryContext) aCleanMovieStore() error {
	if err := helpers.TruncateAllTables(); err != nil {
		return fmt.Errorf("failed to reset test database: %w", err)
	}
	c.repo = persistence.NewGormMovieRepository(helpers.SharedTestDB)
	c.stored = make(map[string]*movie.Movie)
	return nil
}

func newStoreMovie(title string, episode int, characters []string) *movie.Movie {
	return movie.NewMovie(movie.Details{
		Title:        title,
		EpisodeID:    episode,
		OpeningCrawl: "It is a period of civil war.",
		Director:     "George Lucas",
		Producer:     "Gary Kurtz",
		ReleaseDate:  time.Date(1977, 5, 25, 0, 0, 0, 0, time.UTC),
		References:   movie.References{Characters: characters},
	}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func (c *movieRepositoryContext) aStoredMovie(title string, episode int) error {
	return c.store(newStoreMovie(title, episode, nil))
}

func (c *movieRepositoryContext) aStoredMovieWithCharacters(title string, episode int, table *godog.Table) error {
	characters, err := columnValues(table, "url")
	if err != nil {
		return err
	}
	for i := range characters {
		characters[i] = strings.TrimSpace(characters[i])
	}
	return c.store(newStoreMovie(title, episode, characters))
}

func (c *movieRepositoryContext) store(m *movie.Movie) error {
	if err := c.repo.Add(context.Background(), m); err != nil {
		return err
	}
	c.stored[m.Title] = m
	return nil
}

func (c *movieRepositoryContext) storedID(title string) (int, error) {
	m, ok := c.stored[title]
	if !ok {
		return 0, fmt.Errorf("movie %q was never stored", title)
	}
	return m.ID, nil
}

func (c *movieRepositoryContext) iLoadTheMovieByID(title string) error {
	id, err := c.storedID(title)
	if err != nil {
		return err
	}
	c.loaded, c.err = c.repo.GetByID(context.Background(), id)
	return nil
}

func (c *movieRepositoryContext) iStoreAMovie(title string, episode int) error {
	c.err = c.repo.Add(context.Background(), newStoreMovie(title, episode, nil))
	return nil
}

func (c *movieRepositoryContext) iFindMoviesForEpisode(episode int) error {
	c.found, c.err = c.repo.Find(context.Background(), movie.ByEpisodeID{EpisodeID: episode})
	return nil
}

func (c *movieRepositoryContext) iSearchTheStoreFor(term string) error {
	c.found, c.err = c.repo.Find(context.Background(), movie.TitleOrDirectorContains{Term: term})
	return nil
}

func (c *movieRepositoryContext) iDeleteTheStoredMovie(title string) error {
	id, err := c.storedID(title)
	if err != nil {
		return err
	}
	c.deleted, c.err = c.repo.DeleteByID(context.Background(), id)
	return nil
}

func (c *movieRepositoryContext) theLoadedMovieShouldHaveCharacters(expected string) error {
	if c.err != nil {
		return c.err
	}
	if c.loaded == nil {
		return fmt.Errorf("movie was not loaded")
	}
	want := strings.Split(expected, ",")
	got := c.loaded.Characters
	if len(got) != len(want) {
		return fmt.Errorf("expected %d characters, got %v", len(want), got)
	}
	for i := range want {
		if !strings.HasSuffix(got[i], want[i]) {
			return fmt.Errorf("character %d: expected suffix %q, got %q", i, want[i], got[i])
		}
	}
	return nil
}

func (c *movieRepositoryContext) theStoreShouldReportAnError(kind string) error {
	return assertErrorKind(c.err, kind)
}

func (c *movieRepositoryContext) theStoreShouldReturn(titles string) error {
	if c.err != nil {
		return c.err
	}
	want := strings.Split(titles, ",")
	if len(c.found) != len(want) {
		return fmt.Errorf("expected %d movies, got %d", len(want), len(c.found))
	}
	for i, title := range want {
		if c.found[i].Title != strings.TrimSpace(title) {
			return fmt.Errorf("expected %q at position %d, got %q", title, i, c.found[i].Title)
		}
	}
	return nil
}

func (c *movieRepositoryContext) episodeShouldBeFreeFor(episode int, title string) error {
	id, err := c.storedID(title)
	if err != nil {
		return err
	}
	taken, err := c.repo.Exists(context.Background(), movie.EpisodeTakenByOther{EpisodeID: episode, ExcludeID: id})
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("episode %d should not count as taken for %q", episode, title)
	}
	return nil
}

func (c *movieRepositoryContext) episodeShouldBeTakenForAnyOtherMovie(episode int) error {
	taken, err := c.repo.Exists(context.Background(), movie.EpisodeTakenByOther{EpisodeID: episode})
	if err != nil {
		return err
	}
	if !taken {
		return fmt.Errorf("episode %d should be taken", episode)
	}
	return nil
}

func (c *movieRepositoryContext) theStoreDeleteResultShouldBe(expected string) error {
	if c.err != nil {
		return c.err
	}
	if want := expected == "true"; c.deleted != want {
		return fmt.Errorf("expected delete result %t, got %t", want, c.deleted)
	}
	return nil
}
