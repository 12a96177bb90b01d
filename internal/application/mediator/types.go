package mediator

import (
	"context"
)

// Request represents a command or query
type Request interface{}

// Response represents the result of handling a request
type Response interface{}

// Notification represents an event broadcast to every subscriber
type Notification interface{}

// RequestHandler handles a specific request type
type RequestHandler[Req Request, Res Response] interface {
	Handle(ctx context.Context, request Req) (Res, error)
}

// NotificationHandler reacts to a specific notification type
type NotificationHandler[N Notification] interface {
	Handle(ctx context.Context, notification N) error
}

// NotificationHandlerFunc adapts a function to NotificationHandler
type NotificationHandlerFunc[N Notification] func(ctx context.Context, notification N) error

func (f NotificationHandlerFunc[N]) Handle(ctx context.Context, notification N) error {
	return f(ctx, notification)
}

// HandlerFunc is a function that handles a request
type HandlerFunc func(ctx context.Context, request Request) (Response, error)

// Middleware is a function that wraps handler execution with cross-cutting concerns
// Examples: logging, tracing, metrics
type Middleware func(ctx context.Context, request Request, next HandlerFunc) (Response, error)

// Sender dispatches a request to its single handler
type Sender interface {
	Send(ctx context.Context, request Request) (Response, error)
}

// Publisher broadcasts a notification to all of its handlers
type Publisher interface {
	Publish(ctx context.Context, notification Notification) error
}
