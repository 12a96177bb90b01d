package swapi

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

func TestCircuitBreaker_Transitions(t *testing.T) {
	clock := shared.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	cb := NewCircuitBreaker(2, 30*time.Second, clock)
	boom := errors.New("boom")
	fail := func() error { return boom }
	ok := func() error { return nil }

	assert.ErrorIs(t, cb.Call(fail), boom)
	assert.Equal(t, CircuitClosed, cb.State())
	assert.ErrorIs(t, cb.Call(fail), boom)
	assert.Equal(t, CircuitOpen, cb.State())

	called := false
	err := cb.Call(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)

	clock.Advance(30 * time.Second)
	assert.ErrorIs(t, cb.Call(fail), boom, "failed probe reopens")
	assert.Equal(t, CircuitOpen, cb.State())

	clock.Advance(31 * time.Second)
	assert.NoError(t, cb.Call(ok))
	assert.Equal(t, CircuitClosed, cb.State())
	assert.Equal(t, 0, cb.FailureCount())
}

func TestCircuitBreaker_HalfOpenAdmitsSingleTrial(t *testing.T) {
	clock := shared.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	cb := NewCircuitBreaker(1, 30*time.Second, clock)
	boom := errors.New("boom")
	assert.ErrorIs(t, cb.Call(func() error { return boom }), boom)
	require.Equal(t, CircuitOpen, cb.State())
	clock.Advance(30 * time.Second)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- cb.Call(func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	assert.Equal(t, CircuitHalfOpen, cb.State())
	called := false
	assert.ErrorIs(t, cb.Call(func() error { called = true; return nil }), ErrCircuitOpen)
	assert.False(t, called, "a second caller waits for the trial to finish")

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, CircuitClosed, cb.State())
	assert.NoError(t, cb.Call(func() error { called = true; return nil }))
	assert.True(t, called)
}

func TestCircuitState_String(t *testing.T) {
	assert.Equal(t, "closed", CircuitClosed.String())
	assert.Equal(t, "open", CircuitOpen.String())
	assert.Equal(t, "half-open", CircuitHalfOpen.String())
}
