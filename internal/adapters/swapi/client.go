package swapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/starwars-movies-go/internal/application/logging"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/movie"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

const (
	DefaultBaseURL = "https://www.swapi.tech/api"

	defaultTimeout     = 30 * time.Second
	defaultMaxRetries  = 3
	defaultBackoffBase = 500 * time.Millisecond
	defaultMaxPages    = 50
)

// Config tunes the film API client
type Config struct {
	BaseURL            string
	Timeout            time.Duration
	RequestsPerSecond  float64
	Burst              int
	MaxRetries         int
	BackoffBase        time.Duration
	BreakerMaxFailures int
	BreakerCooldown    time.Duration
}

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() Config {
	return Config{
		BaseURL:            DefaultBaseURL,
		Timeout:            defaultTimeout,
		RequestsPerSecond:  5,
		Burst:              5,
		MaxRetries:         defaultMaxRetries,
		BackoffBase:        defaultBackoffBase,
		BreakerMaxFailures: 5,
		BreakerCooldown:    time.Minute,
	}
}

// Observer receives per-attempt outcomes, e.g. for metrics
type Observer interface {
	RecordUpstreamRequest(outcome string, duration time.Duration)
	RecordUpstreamRetry(reason string)
}

type noopObserver struct{}

func (noopObserver) RecordUpstreamRequest(string, time.Duration) {}
func (noopObserver) RecordUpstreamRetry(string)                  {}

// Client is the movie.FilmSource backed by swapi.tech
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	breaker     *CircuitBreaker
	observer    Observer
	baseURL     string
	maxRetries  int
	backoffBase time.Duration
}

var _ movie.FilmSource = (*Client)(nil)

// NewClient creates a film API client. Zero fields in cfg fall back to
// DefaultConfig; a nil clock uses RealClock for the circuit breaker.
func NewClient(cfg Config, clock shared.Clock) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = def.RequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = def.BackoffBase
	}
	if cfg.BreakerMaxFailures <= 0 {
		cfg.BreakerMaxFailures = def.BreakerMaxFailures
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = def.BreakerCooldown
	}

	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		breaker:     NewCircuitBreaker(cfg.BreakerMaxFailures, cfg.BreakerCooldown, clock),
		observer:    noopObserver{},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		maxRetries:  cfg.MaxRetries,
		backoffBase: cfg.BackoffBase,
	}
}

// WithObserver sets the attempt observer and returns the client
func (c *Client) WithObserver(o Observer) *Client {
	if o != nil {
		c.observer = o
	}
	return c
}

// Breaker exposes the circuit breaker for health reporting
func (c *Client) Breaker() *CircuitBreaker {
	return c.breaker
}

type filmProperties struct {
	Title        string   `json:"title"`
	EpisodeID    int      `json:"episode_id"`
	OpeningCrawl string   `json:"opening_crawl"`
	Director     string   `json:"director"`
	Producer     string   `json:"producer"`
	ReleaseDate  string   `json:"release_date"`
	Characters   []string `json:"characters"`
	Planets      []string `json:"planets"`
	Starships    []string `json:"starships"`
	Vehicles     []string `json:"vehicles"`
	Species      []string `json:"species"`
	URL          string   `json:"url"`
}

type filmEntry struct {
	UID        string         `json:"uid"`
	Properties filmProperties `json:"properties"`
}

// filmsPage covers both shapes swapi.tech answers with: "result" on the
// films list and "results" on paged listings.
type filmsPage struct {
	Message string      `json:"message"`
	Result  []filmEntry `json:"result"`
	Results []filmEntry `json:"results"`
	Next    *string     `json:"next"`
}

// GetFilms fetches every film, following next links until exhausted
func (c *Client) GetFilms(ctx context.Context) ([]movie.Film, error) {
	logger := logging.FromContext(ctx).With(logging.Component("swapi"))

	films := []movie.Film{}
	next := c.baseURL + "/films"
	seen := map[string]bool{}

	for pages := 0; next != ""; pages++ {
		if pages >= defaultMaxPages || seen[next] {
			return nil, fmt.Errorf("film listing did not terminate after %d pages", pages)
		}
		seen[next] = true

		var page filmsPage
		err := c.breaker.Call(func() error {
			return c.getJSON(ctx, next, &page)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get films: %w", err)
		}

		entries := page.Result
		if len(entries) == 0 {
			entries = page.Results
		}
		for _, entry := range entries {
			films = append(films, toFilm(entry.Properties))
		}
		logger.Debug("film page fetched", "url", next, "films", len(entries))

		next = ""
		if page.Next != nil {
			next = *page.Next
		}
	}

	logger.Info("films fetched", "count", len(films))
	return films, nil
}

func toFilm(p filmProperties) movie.Film {
	return movie.Film{
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
		URL: p.URL,
	}
}

// statusError is an unexpected HTTP status from the film API
type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("swapi responded %d: %s", e.StatusCode, e.Body)
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// getJSON performs a GET with rate limiting and exponential backoff. 429 and
// 5xx responses and transport errors are retried; other statuses are not.
func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	logger := logging.FromContext(ctx)

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.backoffBase
	policy.MaxElapsedTime = 0

	var strategy backoff.BackOff = backoff.WithContext(
		backoff.WithMaxRetries(policy, uint64(c.maxRetries)), ctx)

	operation := func() error {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return backoff.Permanent(fmt.Errorf("rate limiter error: %w", err))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.observer.RecordUpstreamRequest("network_error", time.Since(start))
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("network error: %w", err)
		}
		defer resp.Body.Close()
		c.observer.RecordUpstreamRequest(strconv.Itoa(resp.StatusCode), time.Since(start))

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			statusErr := &statusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
			if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && seconds > 0 {
				policy.InitialInterval = time.Duration(seconds) * time.Second
				policy.Reset()
			}
			if !retryable(resp.StatusCode) {
				return backoff.Permanent(statusErr)
			}
			return statusErr
		}

		if err := json.Unmarshal(body, out); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		reason := "network"
		var statusErr *statusError
		if errors.As(err, &statusErr) {
			reason = strconv.Itoa(statusErr.StatusCode)
		}
		c.observer.RecordUpstreamRetry(reason)
		logger.Warn("retrying film API request", "url", url, logging.Error(err), logging.Duration(wait))
	}

	err := backoff.RetryNotify(operation, strategy, notify)
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Err
	}
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
