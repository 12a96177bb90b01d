package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	httpserver "github.com/andrescamacho/starwars-movies-go/internal/adapters/http"
	"github.com/andrescamacho/starwars-movies-go/internal/adapters/metrics"
	"github.com/andrescamacho/starwars-movies-go/internal/adapters/persistence"
	"github.com/andrescamacho/starwars-movies-go/internal/adapters/security"
	"github.com/andrescamacho/starwars-movies-go/internal/adapters/swapi"
	"github.com/andrescamacho/starwars-movies-go/internal/adapters/telemetry"
	"github.com/andrescamacho/starwars-movies-go/internal/application/logging"
	"github.com/andrescamacho/starwars-movies-go/internal/application/mediator"
	"github.com/andrescamacho/starwars-movies-go/internal/application/movie/subscribers"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/movie"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/user"
	"github.com/andrescamacho/starwars-movies-go/internal/infrastructure/config"
	"github.com/andrescamacho/starwars-movies-go/internal/infrastructure/database"
)

// Application is the assembled service: storage, ports, the mediator with
// every handler and subscriber registered, and the HTTP server.
type Application struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *gorm.DB
	Mediator *mediator.Mediator
	Movies   movie.MovieRepository
	Users    user.UserRepository
	Films    *swapi.Client
	Hasher   user.PasswordHasher
	Tokens   *security.JWTService
	Server   *httpserver.Server

	closers []func() error
}

// Option overrides a collaborator, used by tests and the CLI
type Option func(*options)

type options struct {
	db     *gorm.DB
	logger *slog.Logger
	films  movie.FilmSource
	clock  shared.Clock
}

// WithDB uses an existing connection instead of opening one from config
func WithDB(db *gorm.DB) Option {
	return func(o *options) { o.db = db }
}

// WithLogger uses logger instead of building one from config
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithFilmSource replaces the swapi.tech client
func WithFilmSource(films movie.FilmSource) Option {
	return func(o *options) { o.films = films }
}

// WithClock replaces the wall clock
func WithClock(clock shared.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// NewApplication wires the service from cfg
func NewApplication(cfg *config.Config, opts ...Option) (*Application, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.clock == nil {
		o.clock = shared.NewRealClock()
	}

	app := &Application{Config: cfg}

	// 1. Logging
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger, closeLog, err := NewLogger(cfg.Logging)
		if err != nil {
			return nil, err
		}
		app.Logger = logger
		app.closers = append(app.closers, closeLog)
	}
	log := app.Logger.With(logging.Component("bootstrap"))

	// 2. Database
	if o.db != nil {
		app.DB = o.db
	} else {
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.DB = db
		app.closers = append(app.closers, func() error { return database.Close(db) })
		log.Info("database connected", "type", cfg.Database.Type)
	}
	if cfg.Database.AutoMigrate || cfg.Database.Type == "sqlite" {
		if err := database.AutoMigrate(app.DB); err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// 3. Repositories and ports
	app.Movies = persistence.NewGormMovieRepository(app.DB)
	app.Users = persistence.NewGormUserRepository(app.DB)
	app.Hasher = security.NewBcryptHasher(cfg.Auth.BcryptCost)

	tokens, err := security.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience, cfg.Auth.TokenTTL, o.clock)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Tokens = tokens

	var httpMetrics *metrics.HTTPMetricsCollector
	var commandMetrics *metrics.CommandMetricsCollector
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		httpMetrics = metrics.NewHTTPMetricsCollector()
		commandMetrics = metrics.NewCommandMetricsCollector()
		if err := errors.Join(httpMetrics.Register(), commandMetrics.Register()); err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	films := o.films
	if films == nil {
		app.Films = swapi.NewClient(swapiConfig(cfg.Swapi), o.clock)
		if httpMetrics != nil {
			app.Films.WithObserver(httpMetrics)
		}
		films = app.Films
	}

	// 4. Mediator: middleware outermost first, then handlers and subscribers
	app.Mediator = mediator.NewMediator()
	app.Mediator.RegisterMiddleware(mediator.LoggingMiddleware())
	if cfg.Tracing.Enabled {
		app.Mediator.RegisterMiddleware(telemetry.TracingMiddleware(nil, cfg.Tracing.ServiceName))
	}
	if commandMetrics != nil {
		app.Mediator.RegisterMiddleware(metrics.PrometheusMiddleware(commandMetrics))
	}

	if err := RegisterHandlers(app.Mediator, Dependencies{
		Movies: app.Movies,
		Users:  app.Users,
		Films:  films,
		Hasher: app.Hasher,
		Tokens: app.Tokens,
		Clock:  o.clock,
	}); err != nil {
		_ = app.Close()
		return nil, err
	}

	if err := subscribers.NewAuditTrail(app.Logger).Register(app.Mediator); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to register audit trail: %w", err)
	}
	if cfg.Metrics.Enabled {
		if err := metrics.NewCatalogMetricsCollector().Register(app.Mediator); err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("failed to register catalog metrics: %w", err)
		}
	}

	// 5. HTTP
	serverOpts := httpserver.Options{
		Config: httpserver.Config{
			Address:         cfg.Server.Address,
			ReadTimeout:     cfg.Server.ReadTimeout,
			WriteTimeout:    cfg.Server.WriteTimeout,
			IdleTimeout:     cfg.Server.IdleTimeout,
			ShutdownTimeout: cfg.Server.ShutdownTimeout,
			MetricsPath:     cfg.Metrics.Path,
		},
		Mediator: app.Mediator,
		Verifier: app.Tokens,
		Logger:   app.Logger,
		Health: func(ctx context.Context) error {
			return database.Ping(ctx, app.DB)
		},
	}
	if httpMetrics != nil {
		serverOpts.Instrument = httpMetrics.Middleware
		serverOpts.MetricsHandler = promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})
	}
	app.Server = httpserver.New(serverOpts)

	log.Info("application initialized",
		"metrics", cfg.Metrics.Enabled,
		"tracing", cfg.Tracing.Enabled,
	)
	return app, nil
}

// Context returns ctx carrying the application logger
func (a *Application) Context(ctx context.Context) context.Context {
	return logging.WithLogger(ctx, a.Logger)
}

// Seed creates the default accounts when seeding is enabled
func (a *Application) Seed(ctx context.Context) (int, error) {
	if !a.Config.Auth.Seed.Enabled {
		return 0, nil
	}
	return SeedDefaultUsers(a.Context(ctx), a.Users, a.Hasher, nil, a.Config.Auth.Seed)
}

// Close releases the database connection and log file, last opened first
func (a *Application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func swapiConfig(cfg config.SwapiConfig) swapi.Config {
	return swapi.Config{
		BaseURL:            cfg.BaseURL,
		Timeout:            cfg.Timeout,
		RequestsPerSecond:  float64(cfg.RateLimit.Requests),
		Burst:              cfg.RateLimit.Burst,
		MaxRetries:         cfg.Retry.MaxAttempts,
		BackoffBase:        cfg.Retry.BackoffBase,
		BreakerMaxFailures: cfg.CircuitBreaker.MaxFailures,
		BreakerCooldown:    cfg.CircuitBreaker.Cooldown,
	}
}
