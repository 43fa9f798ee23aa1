package hardware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker(2, 50*time.Millisecond, 1)
	failing := func() error { return errors.New("boom") }

	assert.Error(t, cb.Execute(context.Background(), failing))
	assert.Equal(t, StateClosed, cb.State())

	assert.Error(t, cb.Execute(context.Background(), failing))
	assert.Equal(t, StateOpen, cb.State())

	err := cb.Execute(context.Background(), func() error { return nil })
	assert.Error(t, err, "open breaker must reject without executing")
}

func TestCircuitBreaker_HalfOpenClosesAfterSuccesses(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond, 1)
	assert.Error(t, cb.Execute(context.Background(), func() error { return errors.New("boom") }))
	assert.Equal(t, StateOpen, cb.State())

	time.Sleep(20 * time.Millisecond)

	assert.NoError(t, cb.Execute(context.Background(), func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Second, 1)
	assert.Error(t, cb.Execute(context.Background(), func() error { return errors.New("boom") }))
	assert.NoError(t, cb.Execute(context.Background(), func() error { return nil }))
	assert.Error(t, cb.Execute(context.Background(), func() error { return errors.New("boom") }))
	assert.Equal(t, StateClosed, cb.State(), "the reset failure counter should not have tripped the breaker yet")
}
