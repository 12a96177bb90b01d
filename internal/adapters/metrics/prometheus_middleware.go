package metrics

import (
	"context"
	"time"

	"github.com/andrescamacho/starwars-movies-go/internal/application/mediator"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

// PrometheusMiddleware records the duration and outcome of every request
// sent through the mediator. A nil collector disables recording.
func PrometheusMiddleware(collector *CommandMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		response, err := next(ctx, request)

		status := "success"
		switch {
		case err == nil:
		case shared.IsClientError(err):
			status = "client_error"
		default:
			status = "error"
		}
		collector.RecordCommandExecution(mediator.RequestName(request), time.Since(start).Seconds(), status)

		return response, err
	}
}
