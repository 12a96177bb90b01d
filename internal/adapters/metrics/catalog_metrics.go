package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/starwars-movies-go/internal/application/mediator"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/movie"
)

// CatalogMetricsCollector counts catalog changes. It subscribes to the
// mediator's catalog notifications rather than being called by handlers.
type CatalogMetricsCollector struct {
	changesTotal *prometheus.CounterVec
	syncRuns     prometheus.Counter
	syncedMovies *prometheus.CounterVec
}

// NewCatalogMetricsCollector creates a new catalog metrics collector
func NewCatalogMetricsCollector() *CatalogMetricsCollector {
	return &CatalogMetricsCollector{
		changesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "catalog_changes_total",
				Help:      "Total number of catalog changes by action",
			},
			[]string{"action"},
		),
		syncRuns: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sync_runs_total",
				Help:      "Total number of completed synchronizations",
			},
		),
		syncedMovies: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "synced_movies_total",
				Help:      "Movies touched by synchronization, by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// Register registers the catalog metrics with the Prometheus registry and
// subscribes the collector to catalog notifications on m
func (c *CatalogMetricsCollector) Register(m *mediator.Mediator) error {
	if err := register(c.changesTotal, c.syncRuns, c.syncedMovies); err != nil {
		return err
	}

	if err := mediator.RegisterNotificationHandler[*movie.MovieCreated](m, mediator.NotificationHandlerFunc[*movie.MovieCreated](
		func(ctx context.Context, e *movie.MovieCreated) error {
			c.changesTotal.WithLabelValues("create").Inc()
			return nil
		})); err != nil {
		return err
	}
	if err := mediator.RegisterNotificationHandler[*movie.MovieUpdated](m, mediator.NotificationHandlerFunc[*movie.MovieUpdated](
		func(ctx context.Context, e *movie.MovieUpdated) error {
			c.changesTotal.WithLabelValues("update").Inc()
			return nil
		})); err != nil {
		return err
	}
	if err := mediator.RegisterNotificationHandler[*movie.MovieDeleted](m, mediator.NotificationHandlerFunc[*movie.MovieDeleted](
		func(ctx context.Context, e *movie.MovieDeleted) error {
			c.changesTotal.WithLabelValues("delete").Inc()
			return nil
		})); err != nil {
		return err
	}
	return mediator.RegisterNotificationHandler[*movie.MoviesSynced](m, mediator.NotificationHandlerFunc[*movie.MoviesSynced](
		func(ctx context.Context, e *movie.MoviesSynced) error {
			c.syncRuns.Inc()
			c.syncedMovies.WithLabelValues("created").Add(float64(e.Created))
			c.syncedMovies.WithLabelValues("updated").Add(float64(e.Updated))
			return nil
		}))
}
