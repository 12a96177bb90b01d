package mediator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/starwars-movies-go/internal/application/logging"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

// ErrNoHandlerFound is returned when no handler is bound to a request type
var ErrNoHandlerFound = errors.New("no handler found")

// binding is a registered request handler. Handlers are wrapped in a typed
// closure at registration time, so dispatch never invokes through reflection;
// reflect.Type is only used as the registry key.
type binding struct {
	responseType reflect.Type
	handle       HandlerFunc
}

type subscriber func(ctx context.Context, notification Notification) error

// Mediator dispatches requests to exactly one handler and notifications to
// every subscribed handler.
type Mediator struct {
	mu          sync.RWMutex
	handlers    map[reflect.Type]binding
	subscribers map[reflect.Type][]subscriber
	middleware  []Middleware
}

// NewMediator creates a new mediator instance
func NewMediator() *Mediator {
	return &Mediator{
		handlers:    make(map[reflect.Type]binding),
		subscribers: make(map[reflect.Type][]subscriber),
	}
}

// RegisterMiddleware appends middleware to the send pipeline. The first
// registered middleware is the outermost.
func (m *Mediator) RegisterMiddleware(middleware Middleware) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.middleware = append(m.middleware, middleware)
}

// RegisterHandler binds handler to the concrete request type Req.
// Registering a second handler for the same request type is an error.
func RegisterHandler[Req Request, Res Response](m *Mediator, handler RequestHandler[Req, Res]) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	requestType := typeOf[Req]()
	if requestType.Kind() == reflect.Interface {
		return fmt.Errorf("request type %s must be concrete", requestType)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.handlers[requestType]; exists {
		return fmt.Errorf("handler already registered for type %s", requestType)
	}

	m.handlers[requestType] = binding{
		responseType: typeOf[Res](),
		handle: func(ctx context.Context, request Request) (Response, error) {
			req, ok := request.(Req)
			if !ok {
				return nil, fmt.Errorf("%w for %T", ErrNoHandlerFound, request)
			}
			res, err := handler.Handle(ctx, req)
			return res, err
		},
	}
	return nil
}

// RegisterNotificationHandler subscribes handler to notifications of type N.
// Any number of handlers may subscribe to the same type.
func RegisterNotificationHandler[N Notification](m *Mediator, handler NotificationHandler[N]) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	notificationType := typeOf[N]()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.subscribers[notificationType] = append(m.subscribers[notificationType], func(ctx context.Context, notification Notification) error {
		n, ok := notification.(N)
		if !ok {
			return fmt.Errorf("unexpected notification %T", notification)
		}
		return handler.Handle(ctx, n)
	})
	return nil
}

// Send dispatches a request to its registered handler and returns the
// handler's response and error unchanged.
func (m *Mediator) Send(ctx context.Context, request Request) (Response, error) {
	return m.send(ctx, request, nil)
}

// Send dispatches request and returns a typed response. The handler must be
// registered for the exact (request, response) type pair, otherwise
// ErrNoHandlerFound is returned without invoking anything.
func Send[Res Response](ctx context.Context, m *Mediator, request Request) (Res, error) {
	var zero Res

	response, err := m.send(ctx, request, typeOf[Res]())
	if err != nil {
		return zero, err
	}
	if response == nil {
		return zero, nil
	}

	res, ok := response.(Res)
	if !ok {
		return zero, fmt.Errorf("unexpected response %T for %T", response, request)
	}
	return res, nil
}

// Publish delivers notification to every subscribed handler concurrently and
// waits for all of them. Sibling handlers are not cancelled when one fails;
// the first failure is returned after all have finished.
func (m *Mediator) Publish(ctx context.Context, notification Notification) error {
	if isNil(notification) {
		return shared.NewInvalidInputError("notification cannot be nil")
	}

	notificationType := reflect.TypeOf(notification)

	m.mu.RLock()
	subscribers := m.subscribers[notificationType]
	m.mu.RUnlock()

	logger := logging.FromContext(ctx)
	start := time.Now()

	var g errgroup.Group
	for _, handle := range subscribers {
		g.Go(func() error {
			return handle(ctx, notification)
		})
	}
	err := g.Wait()

	logger.Debug("notification published",
		logging.RequestType(notificationType.String()),
		"handlers", len(subscribers),
		logging.Duration(time.Since(start)),
		logging.Error(err),
	)
	return err
}

func (m *Mediator) send(ctx context.Context, request Request, responseType reflect.Type) (Response, error) {
	if isNil(request) {
		return nil, shared.NewInvalidInputError("request cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	requestType := reflect.TypeOf(request)

	m.mu.RLock()
	b, ok := m.handlers[requestType]
	middleware := m.middleware
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w for type %s", ErrNoHandlerFound, requestType)
	}
	if responseType != nil && b.responseType != responseType {
		return nil, fmt.Errorf("%w for type %s returning %s", ErrNoHandlerFound, requestType, responseType)
	}

	return chain(middleware, b.handle)(ctx, request)
}

// chain wraps final with middleware, first element outermost
func chain(middleware []Middleware, final HandlerFunc) HandlerFunc {
	handler := final
	for i := len(middleware) - 1; i >= 0; i-- {
		mw := middleware[i]
		next := handler
		handler = func(ctx context.Context, request Request) (Response, error) {
			return mw(ctx, request, next)
		}
	}
	return handler
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// RequestName returns a short name for a request, used in logs and metrics
func RequestName(request Request) string {
	t := reflect.TypeOf(request)
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
