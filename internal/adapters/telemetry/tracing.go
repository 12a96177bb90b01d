package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/andrescamacho/starwars-movies-go/internal/application/mediator"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

const instrumentationName = "github.com/andrescamacho/starwars-movies-go"

var (
	AttrServiceName = attribute.Key("service.name")
	AttrRequestType = attribute.Key("mediator.request.type")
	AttrErrorKind   = attribute.Key("mediator.error.kind")
)

// Tracer returns the service tracer from the global provider
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// TracingMiddleware starts one span per mediator request, tagged with
// serviceName when it is set. Client errors are recorded on the span but
// leave its status unset; other failures mark the span as errored.
func TracingMiddleware(tracer trace.Tracer, serviceName string) mediator.Middleware {
	if tracer == nil {
		tracer = Tracer()
	}

	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		name := mediator.RequestName(request)
		attrs := []attribute.KeyValue{AttrRequestType.String(name)}
		if serviceName != "" {
			attrs = append(attrs, AttrServiceName.String(serviceName))
		}
		ctx, span := tracer.Start(ctx, "mediator.send "+name,
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		response, err := next(ctx, request)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(AttrErrorKind.String(errorKind(err)))
			if !shared.IsClientError(err) {
				span.SetStatus(codes.Error, err.Error())
			}
			return response, err
		}

		span.SetStatus(codes.Ok, "")
		return response, nil
	}
}

func errorKind(err error) string {
	for _, kind := range []error{
		shared.ErrInvalidInput,
		shared.ErrConflict,
		shared.ErrNotFound,
		shared.ErrUnauthorized,
		shared.ErrForbidden,
	} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return shared.ErrInternal.Error()
}
