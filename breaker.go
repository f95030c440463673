package qphase

import (
	"sync"
	"time"

	"github.com/theapemachine/errnie"
)

// BreakerState is the operating mode of a Breaker.
type BreakerState int

const (
	BreakerClosed   BreakerState = iota // runs go through
	BreakerOpen                         // runs are refused
	BreakerHalfOpen                     // a few probe runs go through
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	}
	return "unknown"
}

/*
Breaker stops a Runner from hammering a backend that keeps failing. After
maxFailures consecutive failures it opens and refuses runs until resetTimeout
has passed, then lets halfOpenMax probe runs through. Enough successful probes
close it again; any failed probe reopens it.
*/
type Breaker struct {
	mu               sync.Mutex
	maxFailures      int
	resetTimeout     time.Duration
	halfOpenMax      int
	failureCount     int
	state            BreakerState
	openTime         time.Time
	halfOpenAttempts int
}

func NewBreaker(maxFailures int, resetTimeout time.Duration, halfOpenMax int) *Breaker {
	return &Breaker{
		maxFailures:  max(maxFailures, 1),
		resetTimeout: resetTimeout,
		halfOpenMax:  max(halfOpenMax, 1),
		state:        BreakerClosed,
	}
}

// State reports the current mode without advancing it.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Allow reports whether a run may go ahead, moving an expired open breaker
// to half-open.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		return true
	case BreakerOpen:
		if time.Since(b.openTime) > b.resetTimeout {
			b.state = BreakerHalfOpen
			b.halfOpenAttempts = 0
			return true
		}
		return false
	case BreakerHalfOpen:
		return b.halfOpenAttempts < b.halfOpenMax
	}

	return false
}

func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failureCount++

	switch {
	case b.state == BreakerHalfOpen:
		b.state = BreakerOpen
		b.openTime = time.Now()
		errnie.Warn("breaker reopened from half-open after %d failures", b.failureCount)
	case b.state == BreakerClosed && b.failureCount >= b.maxFailures:
		b.state = BreakerOpen
		b.openTime = time.Now()
		errnie.Warn("breaker opened after %d failures", b.failureCount)
	}
}

func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerHalfOpen:
		b.halfOpenAttempts++
		if b.halfOpenAttempts >= b.halfOpenMax {
			b.state = BreakerClosed
			b.failureCount = 0
			b.halfOpenAttempts = 0
			errnie.Info("breaker closed")
		}
	case BreakerClosed:
		b.failureCount = 0
	}
}
