package steps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/starwars-movies-go/internal/application/mediator"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

type echoRequest struct {
	Text string
}

type pingNotification struct{}

type echoHandler struct {
	calls int32
	err   error
	trace *traceLog
}

func (h *echoHandler) Handle(ctx context.Context, req *echoRequest) (string, error) {
	atomic.AddInt32(&h.calls, 1)
	h.trace.add("handler")
	if h.err != nil {
		return "", h.err
	}
	return req.Text, nil
}

type traceLog struct {
	mu      sync.Mutex
	entries []string
}

func (t *traceLog) add(entry string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, entry)
}

func (t *traceLog) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.entries, ">")
}

type mediatorContext struct {
	mediator    *mediator.Mediator
	handler     *echoHandler
	trace       *traceLog
	response    string
	err         error
	registerErr error
	received    []int32
	failing     map[int]error
}

func InitializeMediatorScenario(sc *godog.ScenarioContext) {
	c := &mediatorContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		*c = mediatorContext{trace: &traceLog{}, failing: make(map[int]error)}
		return ctx, nil
	})

	sc.Step(`^an empty mediator$`, c.anEmptyMediator)
	sc.Step(`^a mediator with an echo handler$`, c.aMediatorWithAnEchoHandler)
	sc.Step(`^a mediator with an echo handler that fails with "([^"]*)"$`, c.aMediatorWithAFailingEchoHandler)
	sc.Step(`^middleware "([^"]*)" then "([^"]*)"$`, c.middlewareThen)
	sc.Step(`^a mediator with (\d+) subscribers for the ping notification$`, c.aMediatorWithSubscribers)
	sc.Step(`^subscriber (\d+) fails with "([^"]*)"$`, c.subscriberFailsWith)

	sc.Step(`^I send an echo request "([^"]*)"$`, c.iSendAnEchoRequest)
	sc.Step(`^I register another echo handler$`, c.iRegisterAnotherEchoHandler)
	sc.Step(`^I publish a ping notification$`, c.iPublishAPingNotification)

	sc.Step(`^the response should be "([^"]*)"$`, c.theResponseShouldBe)
	sc.Step(`^the echo handler should have been called (\d+) times?$`, c.theEchoHandlerShouldHaveBeenCalled)
	sc.Step(`^the error should be "([^"]*)"$`, c.theErrorShouldBe)
	sc.Step(`^registration should fail$`, c.registrationShouldFail)
	sc.Step(`^the middleware trace should be "([^"]*)"$`, c.theMiddlewareTraceShouldBe)
	sc.Step(`^publishing should succeed$`, c.publishingShouldSucceed)
	sc.Step(`^publishing should fail with "([^"]*)"$`, c.publishingShouldFailWith)
	sc.Step(`^every subscriber should have received (\d+) notifications?$`, c.everySubscriberShouldHaveReceived)
}

func (c *mediatorContext) anEmptyMediator() error {
	c.mediator = mediator.NewMediator()
	return nil
}

func (c *mediatorContext) aMediatorWithAnEchoHandler() error {
	c.mediator = mediator.NewMediator()
	c.handler = &echoHandler{trace: c.trace}
	return mediator.RegisterHandler[*echoRequest, string](c.mediator, c.handler)
}

func (c *mediatorContext) aMediatorWithAFailingEchoHandler(kind string) error {
	sentinel, err := errorKind(kind)
	if err != nil {
		return err
	}
	if err := c.aMediatorWithAnEchoHandler(); err != nil {
		return err
	}
	c.handler.err = shared.NewDomainError(sentinel, "echo refused")
	return nil
}

func (c *mediatorContext) middlewareThen(outer, inner string) error {
	for _, name := range []string{outer, inner} {
		name := name
		c.mediator.RegisterMiddleware(func(ctx context.Context, req mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
			c.trace.add(name)
			res, err := next(ctx, req)
			c.trace.add(name)
			return res, err
		})
	}
	return nil
}

func (c *mediatorContext) aMediatorWithSubscribers(n int) error {
	c.mediator = mediator.NewMediator()
	c.received = make([]int32, n)
	for i := 0; i < n; i++ {
		index := i
		err := mediator.RegisterNotificationHandler[*pingNotification](c.mediator,
			mediator.NotificationHandlerFunc[*pingNotification](func(ctx context.Context, _ *pingNotification) error {
				atomic.AddInt32(&c.received[index], 1)
				return c.failing[index+1]
			}))
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *mediatorContext) subscriberFailsWith(n int, message string) error {
	if n < 1 || n > len(c.received) {
		return fmt.Errorf("no subscriber %d", n)
	}
	c.failing[n] = errors.New(message)
	return nil
}

func (c *mediatorContext) iSendAnEchoRequest(text string) error {
	c.response, c.err = mediator.Send[string](context.Background(), c.mediator, &echoRequest{Text: text})
	return nil
}

func (c *mediatorContext) iRegisterAnotherEchoHandler() error {
	c.registerErr = mediator.RegisterHandler[*echoRequest, string](c.mediator, &echoHandler{trace: c.trace})
	return nil
}

func (c *mediatorContext) iPublishAPingNotification() error {
	c.err = c.mediator.Publish(context.Background(), &pingNotification{})
	return nil
}

func (c *mediatorContext) theResponseShouldBe(expected string) error {
	if c.err != nil {
		return fmt.Errorf("unexpected error: %w", c.err)
	}
	if c.response != expected {
		return fmt.Errorf("expected response %q, got %q", expected, c.response)
	}
	return nil
}

func (c *mediatorContext) theEchoHandlerShouldHaveBeenCalled(n int) error {
	if got := int(atomic.LoadInt32(&c.handler.calls)); got != n {
		return fmt.Errorf("expected %d calls, got %d", n, got)
	}
	return nil
}

func (c *mediatorContext) theErrorShouldBe(kind string) error {
	if c.err == nil {
		return fmt.Errorf("expected %q error, got none", kind)
	}
	if kind == "no handler found" {
		if !errors.Is(c.err, mediator.ErrNoHandlerFound) {
			return fmt.Errorf("expected no handler found, got %v", c.err)
		}
		return nil
	}
	return assertErrorKind(c.err, kind)
}

func (c *mediatorContext) registrationShouldFail() error {
	if c.registerErr == nil {
		return fmt.Errorf("expected duplicate registration to fail")
	}
	return nil
}

func (c *mediatorContext) theMiddlewareTraceShouldBe(expected string) error {
	if got := c.trace.String(); got != expected {
		return fmt.Errorf("expected trace %q, got %q", expected, got)
	}
	return nil
}

func (c *mediatorContext) publishingShouldSucceed() error {
	if c.err != nil {
		return fmt.Errorf("expected publish to succeed, got %w", c.err)
	}
	return nil
}

func (c *mediatorContext) publishingShouldFailWith(message string) error {
	if c.err == nil || !strings.Contains(c.err.Error(), message) {
		return fmt.Errorf("expected publish to fail with %q, got %v", message, c.err)
	}
	return nil
}

func (c *mediatorContext) everySubscriberShouldHaveReceived(n int) error {
	for i := range c.received {
		if got := int(atomic.LoadInt32(&c.received[i])); got != n {
			return fmt.Errorf("subscriber %d received %d notifications, expected %d", i+1, got, n)
		}
	}
	return nil
}
