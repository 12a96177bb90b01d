package mediator

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/starwars-movies-go/internal/application/logging"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

// LoggingMiddleware records the request type, duration and outcome of every
// dispatch. Each dispatch gets a correlation id attached to the context logger.
func LoggingMiddleware() Middleware {
	return func(ctx context.Context, request Request, next HandlerFunc) (Response, error) {
		name := RequestName(request)
		logger := logging.FromContext(ctx).With(
			logging.RequestType(name),
			"dispatch_id", uuid.NewString(),
		)
		ctx = logging.WithLogger(ctx, logger)

		logger.Debug("handling request")
		start := time.Now()

		response, err := next(ctx, request)

		if err != nil {
			level := slog.LevelError
			if shared.IsClientError(err) {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "request failed", logging.Duration(time.Since(start)), logging.Error(err))
			return response, err
		}
		logger.Debug("request handled", logging.Duration(time.Since(start)))
		return response, nil
	}
}
