package utils

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrBreakerOpen is returned when the breaker sheds a call instead of
// running it.
var ErrBreakerOpen = errors.New("circuit breaker is open")

type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerHalfOpen
	BreakerOpen
)

// CircuitBreaker sheds calls to a failing downstream. It opens once the
// failure ratio over a counting window is crossed, stays open for the
// cooldown, then lets a probe request through half-open.
type CircuitBreaker struct {
	name         string
	maxRequests  uint32
	interval     time.Duration
	cooldown     time.Duration
	failureRatio float64
	now          func() time.Time

	mu         sync.Mutex
	state      BreakerState
	generation uint64
	requests   uint32
	failures   uint32
	expiry     time.Time
}

func NewCircuitBreaker(name string) *CircuitBreaker {
	return &CircuitBreaker{
		name:         name,
		maxRequests:  100,
		interval:     60 * time.Second,
		cooldown:     60 * time.Second,
		failureRatio: 0.6,
		now:          time.Now,
	}
}

// Execute runs req unless the breaker is open. The request's error is
// returned as-is; shed calls fail with ErrBreakerOpen.
func (cb *CircuitBreaker) Execute(_ context.Context, req func() (any, error)) (any, error) {
	generation, err := cb.before()
	if err != nil {
		return nil, err
	}

	result, err := req()
	cb.after(generation, err == nil)
	return result, err
}

func (cb *CircuitBreaker) before() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.advance()

	switch cb.state {
	case BreakerOpen:
		return cb.generation, ErrBreakerOpen
	case BreakerHalfOpen:
		if cb.requests >= cb.maxRequests {
			return cb.generation, ErrBreakerOpen
		}
	}

	cb.requests++
	return cb.generation, nil
}

func (cb *CircuitBreaker) after(generation uint64, success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.advance()
	if generation != cb.generation {
		// The window rolled over while the request ran.
		return
	}

	if success {
		if cb.state == BreakerHalfOpen {
			cb.transition(BreakerClosed)
		}
		return
	}

	cb.failures++
	if cb.state == BreakerHalfOpen || cb.tripped() {
		cb.transition(BreakerOpen)
	}
}

func (cb *CircuitBreaker) tripped() bool {
	return cb.requests >= cb.maxRequests &&
		float64(cb.failures)/float64(cb.requests) >= cb.failureRatio
}

// advance applies time-based state changes before any counting.
func (cb *CircuitBreaker) advance() {
	now := cb.now()
	switch cb.state {
	case BreakerClosed:
		if !cb.expiry.IsZero() && now.After(cb.expiry) {
			cb.transition(BreakerClosed)
		}
	case BreakerOpen:
		if now.After(cb.expiry) {
			cb.transition(BreakerHalfOpen)
		}
	}
}

func (cb *CircuitBreaker) transition(state BreakerState) {
	cb.state = state
	cb.generation++
	cb.requests = 0
	cb.failures = 0

	switch state {
	case BreakerClosed:
		cb.expiry = cb.now().Add(cb.interval)
	case BreakerOpen:
		cb.expiry = cb.now().Add(cb.cooldown)
	default:
		cb.expiry = time.Time{}
	}
}
