package qphase

import (
	"context"
	"errors"
	"math"
	"time"
)

// RetryPolicy defines how a Runner retries a failed job.
type RetryPolicy struct {
	MaxAttempts int
	Strategy    RetryStrategy
	Filter      func(error) bool
}

// RetryStrategy defines the interface for retry behavior
type RetryStrategy interface {
	NextDelay(attempt int) time.Duration
}

// ExponentialBackoff implements RetryStrategy
type ExponentialBackoff struct {
	Initial time.Duration
}

func (eb *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	return eb.Initial * time.Duration(math.Pow(2, float64(attempt-1)))
}

// Retryable reports whether err might go away on a second attempt. Malformed
// circuits and settings never do, and neither does a finished context.
func Retryable(err error) bool {
	for _, permanent := range []error{
		ErrInvalidQubitCount, ErrDimensionMismatch, ErrIndexOutOfRange, ErrNotUnitary,
		ErrInvalidShots, ErrTooManyQubits, ErrUnknownPreset,
		context.Canceled, context.DeadlineExceeded,
	} {
		if errors.Is(err, permanent) {
			return false
		}
	}
	return true
}

func defaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: 3,
		Strategy:    &ExponentialBackoff{Initial: 100 * time.Millisecond},
		Filter:      Retryable,
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
