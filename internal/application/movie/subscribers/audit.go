package subscribers

import (
	"context"
	"log/slog"

	"github.com/andrescamacho/starwars-movies-go/internal/application/logging"
	"github.com/andrescamacho/starwars-movies-go/internal/application/mediator"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/movie"
)

// AuditTrail writes one structured audit record per catalog change
type AuditTrail struct {
	logger *slog.Logger
}

// NewAuditTrail creates an audit trail writing to logger
func NewAuditTrail(logger *slog.Logger) *AuditTrail {
	return &AuditTrail{logger: logger.With(logging.Component("audit"))}
}

func (a *AuditTrail) MovieCreated(ctx context.Context, e *movie.MovieCreated) error {
	a.logger.InfoContext(ctx, "catalog change", slog.String("action", "create"),
		logging.MovieID(e.MovieID), logging.EpisodeID(e.EpisodeID), logging.UserID(e.UserID))
	return nil
}

func (a *AuditTrail) MovieUpdated(ctx context.Context, e *movie.MovieUpdated) error {
	a.logger.InfoContext(ctx, "catalog change", slog.String("action", "update"),
		logging.MovieID(e.MovieID), logging.EpisodeID(e.EpisodeID), logging.UserID(e.UserID))
	return nil
}

func (a *AuditTrail) MovieDeleted(ctx context.Context, e *movie.MovieDeleted) error {
	a.logger.InfoContext(ctx, "catalog change", slog.String("action", "delete"),
		logging.MovieID(e.MovieID), logging.UserID(e.UserID))
	return nil
}

func (a *AuditTrail) MoviesSynced(ctx context.Context, e *movie.MoviesSynced) error {
	a.logger.InfoContext(ctx, "catalog change", slog.String("action", "sync"),
		slog.Int("created", e.Created), slog.Int("updated", e.Updated), logging.UserID(e.UserID))
	return nil
}

// Register subscribes the audit trail to every catalog notification
func (a *AuditTrail) Register(m *mediator.Mediator) error {
	if err := mediator.RegisterNotificationHandler[*movie.MovieCreated](m, mediator.NotificationHandlerFunc[*movie.MovieCreated](a.MovieCreated)); err != nil {
		return err
	}
	if err := mediator.RegisterNotificationHandler[*movie.MovieUpdated](m, mediator.NotificationHandlerFunc[*movie.MovieUpdated](a.MovieUpdated)); err != nil {
		return err
	}
	if err := mediator.RegisterNotificationHandler[*movie.MovieDeleted](m, mediator.NotificationHandlerFunc[*movie.MovieDeleted](a.MovieDeleted)); err != nil {
		return err
	}
	return mediator.RegisterNotificationHandler[*movie.MoviesSynced](m, mediator.NotificationHandlerFunc[*movie.MoviesSynced](a.MoviesSynced))
}
