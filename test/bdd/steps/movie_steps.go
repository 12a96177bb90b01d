package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/starwars-movies-go/internal/domain/movie"
)

type movieDetailsContext struct {
	details movie.Details
	err     error
	parsed  time.Time
	ok      bool
}

func InitializeMovieDetailsScenario(sc *godog.ScenarioContext) {
	c := &movieDetailsContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		*c = movieDetailsContext{}
		return ctx, nil
	})

	sc.Step(`^movie details with title "([^"]*)" episode (\d+) and director "([^"]*)"$`, c.movieDetailsWith)
	sc.Step(`^I validate the details$`, c.iValidateTheDetails)
	sc.Step(`^validation should (pass|fail)$`, c.validationShould)
	sc.Step(`^I parse the release date "([^"]*)"$`, c.iParseTheReleaseDate)
	sc.Step(`^the parsed date should be "([^"]*)"$`, c.theParsedDateShouldBe)
}

func (c *movieDetailsContext) movieDetailsWith(title string, episode int, director string) error {
	c.details = movie.Details{
		Title:        title,
		EpisodeID:    episode,
		OpeningCrawl: "Turmoil has engulfed the Galactic Republic.",
		Director:     director,
		Producer:     "Rick McCallum",
		ReleaseDate:  time.Date(1999, 5, 19, 0, 0, 0, 0, time.UTC),
	}
	return nil
}

func (c *movieDetailsContext) iValidateTheDetails() error {
	c.err = c.details.Validate()
	return nil
}

func (c *movieDetailsContext) validationShould(outcome string) error {
	if outcome == "pass" && c.err != nil {
		return fmt.Errorf("expected validation to pass, got %w", c.err)
	}
	if outcome == "fail" {
		return assertErrorKind(c.err, "invalid input")
	}
	return nil
}

func (c *movieDetailsContext) iParseTheReleaseDate(value string) error {
	c.parsed, c.ok = movie.ParseReleaseDate(value)
	return nil
}

func (c *movieDetailsContext) theParsedDateShouldBe(expected string) error {
	if expected == "invalid" {
		if c.ok {
			return fmt.Errorf("expected the date to be rejected, got %s", c.parsed)
		}
		return nil
	}
	if !c.ok {
		return fmt.Errorf("expected %s, the date was rejected", expected)
	}
	if got := c.parsed.Format("2006-01-02"); got != expected {
		return fmt.Errorf("expected %s, got %s", expected, got)
	}
	return nil
}
