// Package hardware implements the Hardware side of the elevator FSM
// (§4.1): a driver that turns motor/door/light commands into physical
// (or simulated) effects and feeds floor-sensor events back in.
package hardware

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// CircuitBreakerState is the current state of a CircuitBreaker.
type CircuitBreakerState int

const (
	StateClosed CircuitBreakerState = iota
	StateOpen
	StateHalfOpen
)

func (s CircuitBreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker guards driver calls against a flapping or unresponsive
// hardware link: it stops issuing commands once failures pile up and
// probes for recovery after resetTimeout.
type CircuitBreaker struct {
	mu           sync.RWMutex
	state        CircuitBreakerState
	failureCount int
	successCount int
	nextRetry    time.Time

	maxFailures   int
	resetTimeout  time.Duration
	halfOpenLimit int
}

// NewCircuitBreaker builds a closed circuit breaker with the given
// thresholds.
func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration, halfOpenLimit int) *CircuitBreaker {
	return &CircuitBreaker{
		state:         StateClosed,
		maxFailures:   maxFailures,
		resetTimeout:  resetTimeout,
		halfOpenLimit: halfOpenLimit,
	}
}

// Execute runs operation if the circuit allows it, recording the
// outcome.
func (cb *CircuitBreaker) Execute(_ context.Context, operation func() error) error {
	if !cb.allowRequest() {
		return fmt.Errorf("circuit breaker is open - request rejected")
	}

	err := operation()
	if err != nil {
		cb.recordFailure()
		return err
	}

	cb.recordSuccess()
	return nil
}

func (cb *CircuitBreaker) allowRequest() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Now().After(cb.nextRetry) {
			cb.state = StateHalfOpen
			cb.successCount = 0
			return true
		}
		return false
	case StateHalfOpen:
		return cb.successCount < cb.halfOpenLimit
	default:
		return false
	}
}

func (cb *CircuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount = 0
	if cb.state == StateHalfOpen {
		cb.successCount++
		if cb.successCount >= cb.halfOpenLimit {
			cb.state = StateClosed
		}
	}
}

func (cb *CircuitBreaker) recordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	if cb.state == StateHalfOpen {
		cb.state = StateOpen
		cb.nextRetry = time.Now().Add(cb.resetTimeout)
	} else if cb.failureCount >= cb.maxFailures {
		cb.state = StateOpen
		cb.nextRetry = time.Now().Add(cb.resetTimeout)
	}
}

// State returns the breaker's current state.
func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}
