package upstream

import (
	"sync"
	"time"
)

// BreakerState is one of the three circuit breaker states.
type BreakerState int32

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
	default:
		return "unknown"
	}
}

const (
	openAfterFailures        = 5
	closeAfterSuccesses      = 3
	openDuration             = 30 * time.Second
)

// Breaker is a per-upstream circuit breaker, generalized from the
// teacher's resolver circuit breaker (a map of atomic failure counters
// cleaned up on a timer) into the full closed/open/half_open state
// machine the load balancer needs.
type Breaker struct {
	mu              sync.Mutex
	state           BreakerState
	consecFailures  int
	consecSuccesses int
	openedAt        time.Time
}

// NewBreaker returns a breaker starting in the closed state.
func NewBreaker() *Breaker {
	return &Breaker{state: StateClosed}
}

// Allow reports whether a request may be attempted right now, and
// transitions open -> half_open once openDuration has elapsed.
func (b *Breaker) Allow(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed, StateHalfOpen:
		return true
	case StateOpen:
		if now.Sub(b.openedAt) >= openDuration {
			b.state = StateHalfOpen
			b.consecSuccesses = 0
			return true
		}
		return false
	default:
		return false
	}
}

// RecordSuccess reports a successful attempt.
func (b *Breaker) RecordSuccess(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.consecFailures = 0
	case StateHalfOpen:
		b.consecSuccesses++
		if b.consecSuccesses >= closeAfterSuccesses {
			b.state = StateClosed
			b.consecFailures = 0
			b.consecSuccesses = 0
		}
	}
}

// RecordFailure reports a failed attempt.
func (b *Breaker) RecordFailure(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.consecFailures++
		if b.consecFailures >= openAfterFailures {
			b.state = StateOpen
			b.openedAt = now
			b.consecFailures = 0
		}
	case StateHalfOpen:
		b.state = StateOpen
		b.openedAt = now
		b.consecSuccesses = 0
	}
}

// State returns the breaker's current state without mutating it.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
