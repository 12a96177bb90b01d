package swapi

import (
	"errors"
	"sync"
	"time"

	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

// CircuitState represents the state of the circuit breaker
type CircuitState int

const (
	// CircuitClosed lets every call through
	CircuitClosed CircuitState = iota
	// CircuitOpen rejects calls until the cool-down elapses
	CircuitOpen
	// CircuitHalfOpen lets a single trial call through to test recovery and
	// rejects everything else until it finishes
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// ErrCircuitOpen is returned when the upstream has failed too often recently
var ErrCircuitOpen = errors.New("swapi circuit breaker open")

// CircuitBreaker stops hammering the film API after consecutive failures
type CircuitBreaker struct {
	maxFailures     int
	cooldown        time.Duration
	state           CircuitState
	failureCount    int
	lastFailureTime time.Time
	trialInFlight   bool
	mu              sync.Mutex
	clock           shared.Clock
}

// NewCircuitBreaker creates a breaker that opens after maxFailures consecutive
// failures and half-opens once cooldown has passed. A nil clock uses RealClock.
func NewCircuitBreaker(maxFailures int, cooldown time.Duration, clock shared.Clock) *CircuitBreaker {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if maxFailures < 1 {
		maxFailures = 1
	}
	return &CircuitBreaker{
		maxFailures: maxFailures,
		cooldown:    cooldown,
		state:       CircuitClosed,
		clock:       clock,
	}
}

// Call runs fn unless the circuit is open, or half-open with its trial call
// still running. The lock is not held while fn runs, so a slow page fetch
// does not serialize unrelated callers.
func (cb *CircuitBreaker) Call(fn func() error) error {
	trial := false
	cb.mu.Lock()
	switch cb.state {
	case CircuitOpen:
		if cb.clock.Now().Sub(cb.lastFailureTime) < cb.cooldown {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		cb.state = CircuitHalfOpen
		cb.trialInFlight, trial = true, true
	case CircuitHalfOpen:
		if cb.trialInFlight {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		cb.trialInFlight, trial = true, true
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if trial {
		cb.trialInFlight = false
	}
	if err != nil {
		cb.failureCount++
		cb.lastFailureTime = cb.clock.Now()
		if cb.state == CircuitHalfOpen || cb.failureCount >= cb.maxFailures {
			cb.state = CircuitOpen
		}
		return err
	}

	cb.failureCount = 0
	cb.state = CircuitClosed
	return nil
}

// State returns the current state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// FailureCount returns the consecutive failure count
func (cb *CircuitBreaker) FailureCount() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failureCount
}
