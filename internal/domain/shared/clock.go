package shared

import (
	"sync"
	"time"
)

// Clock supplies timestamps for created and updated movies, issued tokens
// and circuit breaker cooldowns.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// NewRealClock returns the system clock, in UTC
func NewRealClock() Clock {
	return realClock{}
}

// MockClock is a manually driven Clock. It is safe for concurrent use since
// notification subscribers read it from their own goroutines.
type MockClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewMockClock creates a MockClock frozen at start, or at the current time
// when start is zero.
func NewMockClock(start time.Time) *MockClock {
	if start.IsZero() {
		start = time.Now().UTC()
	}
	return &MockClock{now: start}
}

func (m *MockClock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Advance moves the clock forward by d
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// SetTime jumps the clock to t
func (m *MockClock) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}
