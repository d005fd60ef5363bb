package transport

import (
	"sync"
	"time"

	"github.com/abelbrown/glossia/internal/apperr"
)

// BreakerState is the circuit breaker's current position.
type BreakerState int

const (
	StateClosed BreakerState = iota
	StateOpen
	StateHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	}
	return "unknown"
}

// Breaker is a three-state circuit breaker that reacts only to
// authentication-shaped failures (HTTP 401/403). Other errors pass through
// without moving the state machine: a flaky backend should not mask a
// revoked key, and a revoked key should fail fast.
type Breaker struct {
	mu sync.Mutex

	state       BreakerState
	failures    int
	successes   int
	lastFailure time.Time

	failureThreshold int
	recoveryTimeout  time.Duration
	successThreshold int

	now func() time.Time
}

// NewBreaker builds a breaker with the given thresholds. Non-positive
// arguments fall back to the defaults: 5 failures, 60s recovery, 2 successes.
func NewBreaker(failureThreshold int, recoveryTimeout time.Duration, successThreshold int) *Breaker {
	if failureThreshold <= 0 {
		failureThreshold = 5
	}
	if recoveryTimeout <= 0 {
		recoveryTimeout = 60 * time.Second
	}
	if successThreshold <= 0 {
		successThreshold = 2
	}
	return &Breaker{
		state:            StateClosed,
		failureThreshold: failureThreshold,
		recoveryTimeout:  recoveryTimeout,
		successThreshold: successThreshold,
		now:              time.Now,
	}
}

// Allow reports whether a call may proceed. While Open it rejects until the
// recovery timeout has elapsed since the last failure, then moves to HalfOpen
// and admits probes.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if b.now().Sub(b.lastFailure) < b.recoveryTimeout {
			return apperr.API("Circuit breaker is open - too many authentication failures")
		}
		b.state = StateHalfOpen
		b.successes = 0
	}
	return nil
}

// RecordSuccess notes a successful call. In HalfOpen, enough successes close
// the breaker; in Closed it clears the consecutive-failure count.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateHalfOpen:
		b.successes++
		if b.successes >= b.successThreshold {
			b.state = StateClosed
			b.failures = 0
			b.successes = 0
		}
	case StateClosed:
		b.failures = 0
	}
}

// RecordFailure notes a failed call. Only errors whose TripsBreaker predicate
// holds move the state machine.
func (b *Breaker) RecordFailure(err error) {
	e, ok := apperr.As(err)
	if !ok || !e.TripsBreaker() {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastFailure = b.now()
	switch b.state {
	case StateClosed:
		b.failures++
		if b.failures >= b.failureThreshold {
			b.state = StateOpen
		}
	case StateHalfOpen:
		b.state = StateOpen
		b.successes = 0
	}
}

// State returns the breaker's current position.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
