package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/starwars-movies-go/internal/application/mediator"
)

// RecordingPublisher is a Publisher that keeps every published notification
type RecordingPublisher struct {
	mu            sync.Mutex
	notifications []mediator.Notification
	err           error
}

// NewRecordingPublisher creates a new recording publisher
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

// SetError makes Publish fail with err after recording
func (p *RecordingPublisher) SetError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *RecordingPublisher) Publish(ctx context.Context, notification mediator.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notifications = append(p.notifications, notification)
	return p.err
}

// Notifications returns a copy of everything published so far
func (p *RecordingPublisher) Notifications() []mediator.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]mediator.Notification(nil), p.notifications...)
}
