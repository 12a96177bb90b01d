package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/andrescamacho/starwars-movies-go/internal/application/mediator"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

type recordedSpan struct {
	trace.Span
	name   string
	attrs  []attribute.KeyValue
	errs   []error
	status codes.Code
	ended  bool
}

func (s *recordedSpan) SetAttributes(kv ...attribute.KeyValue) { s.attrs = append(s.attrs, kv...) }
func (s *recordedSpan) RecordError(err error, _ ...trace.EventOption) {
	s.errs = append(s.errs, err)
}
func (s *recordedSpan) SetStatus(code codes.Code, _ string) { s.status = code }
func (s *recordedSpan) End(...trace.SpanEndOption)          { s.ended = true }

type recordingTracer struct {
	trace.Tracer
	mu    sync.Mutex
	spans []*recordedSpan
}

func newRecordingTracer() *recordingTracer {
	return &recordingTracer{Tracer: noop.NewTracerProvider().Tracer("test")}
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	ctx, inner := t.Tracer.Start(ctx, name, opts...)
	cfg := trace.NewSpanStartConfig(opts...)
	span := &recordedSpan{Span: inner, name: name, attrs: cfg.Attributes()}
	t.mu.Lock()
	t.spans = append(t.spans, span)
	t.mu.Unlock()
	return trace.ContextWithSpan(ctx, span), span
}

type echoQuery struct{ err error }

func run(t *testing.T, tracer trace.Tracer, q *echoQuery) (*recordedSpan, error) {
	t.Helper()
	rt := tracer.(*recordingTracer)
	_, err := TracingMiddleware(tracer, "")(context.Background(), q, func(ctx context.Context, r mediator.Request) (mediator.Response, error) {
		assert.Same(t, rt.spans[len(rt.spans)-1], trace.SpanFromContext(ctx), "handler sees the request span")
		return "done", q.err
	})
	require.Len(t, rt.spans, 1)
	return rt.spans[0], err
}

func TestTracingMiddleware_Success(t *testing.T) {
	span, err := run(t, newRecordingTracer(), &echoQuery{})

	require.NoError(t, err)
	assert.Equal(t, "mediator.send echoQuery", span.name)
	assert.Contains(t, span.attrs, AttrRequestType.String("echoQuery"))
	assert.Equal(t, codes.Ok, span.status)
	assert.True(t, span.ended)
}

func TestTracingMiddleware_ClientErrorLeavesStatusUnset(t *testing.T) {
	failure := shared.NewConflictError("episode taken")

	span, err := run(t, newRecordingTracer(), &echoQuery{err: failure})

	assert.Same(t, failure, err)
	assert.Equal(t, codes.Unset, span.status)
	assert.Equal(t, []error{failure}, span.errs)
	assert.Contains(t, span.attrs, AttrErrorKind.String("conflict"))
}

func TestTracingMiddleware_InternalErrorMarksSpan(t *testing.T) {
	failure := errors.New("connection reset")

	span, err := run(t, newRecordingTracer(), &echoQuery{err: failure})

	assert.Same(t, failure, err)
	assert.Equal(t, codes.Error, span.status)
	assert.Contains(t, span.attrs, AttrErrorKind.String("internal failure"))
}

func TestTracingMiddleware_DefaultTracer(t *testing.T) {
	mw := TracingMiddleware(nil, "")

	res, err := mw(context.Background(), &echoQuery{}, func(ctx context.Context, r mediator.Request) (mediator.Response, error) {
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", res)
}

func TestTracingMiddleware_TagsServiceName(t *testing.T) {
	tracer := newRecordingTracer()

	_, err := TracingMiddleware(tracer, "starwars-movies")(context.Background(), &echoQuery{}, func(ctx context.Context, r mediator.Request) (mediator.Response, error) {
		return "done", nil
	})

	require.NoError(t, err)
	require.Len(t, tracer.spans, 1)
	assert.Contains(t, tracer.spans[0].attrs, AttrServiceName.String("starwars-movies"))
	assert.Contains(t, tracer.spans[0].attrs, AttrRequestType.String("echoQuery"))
}

func TestTracingMiddleware_OmitsEmptyServiceName(t *testing.T) {
	span, err := run(t, newRecordingTracer(), &echoQuery{})

	require.NoError(t, err)
	for _, kv := range span.attrs {
		assert.NotEqual(t, AttrServiceName, kv.Key)
	}
}
