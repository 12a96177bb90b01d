package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/starwars-movies-go/internal/application/auth"
	"github.com/andrescamacho/starwars-movies-go/internal/application/mediator"
)

// TokenVerifier turns a bearer token into the authenticated caller
type TokenVerifier interface {
	Verify(token string) (auth.Principal, error)
}

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

// Config holds listener settings
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MetricsPath     string
}

// Options are the collaborators of the HTTP server. Mediator and Verifier are
// required; the rest are optional.
type Options struct {
	Config         Config
	Mediator       *mediator.Mediator
	Verifier       TokenVerifier
	Logger         *slog.Logger
	Health         HealthCheck
	MetricsHandler http.Handler
	Instrument     func(http.Handler) http.Handler
}

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg      Config
	mediator *mediator.Mediator
	verifier TokenVerifier
	health   HealthCheck
	logger   *slog.Logger
	validate *validator.Validate
	router   chi.Router
	httpSrv  *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if opts.Instrument != nil {
		r.Use(opts.Instrument)
	}
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	s := &Server{
		cfg:      opts.Config,
		mediator: opts.Mediator,
		verifier: opts.Verifier,
		health:   opts.Health,
		logger:   logger,
		validate: newValidator(),
		router:   r,
	}
	s.registerRoutes(opts.MetricsHandler)
	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes(metricsHandler http.Handler) {
	s.router.Get("/health", s.handleHealth)
	if metricsHandler != nil {
		path := s.cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.router.Method(http.MethodGet, path, metricsHandler)
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
		})

		r.Route("/movies", func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/", s.handleListMovies)
			r.Get("/episode/{episodeId}", s.handleMoviesByEpisode)
			r.With(requireRole(roleRegularUser, roleAdministrator)).Get("/{id}", s.handleGetMovie)

			r.Group(func(r chi.Router) {
				r.Use(requireRole(roleAdministrator))
				r.Post("/", s.handleCreateMovie)
				r.Post("/sync", s.handleSyncMovies)
				r.Put("/{id}", s.handleUpdateMovie)
				r.Delete("/{id}", s.handleDeleteMovie)
			})
		})
	})
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "address", s.cfg.Address)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		s.logger.Info("http server shutting down")
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health(ctx); err != nil {
			s.logger.Warn("health check failed", "error", err)
			s.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
