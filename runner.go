package qphase

import (
	"context"
	"fmt"
	"time"

	"github.com/theapemachine/errnie"
)

/*
Runner executes jobs one at a time on a Backend, retrying failures the retry
policy considers transient. An optional Breaker stops it from calling a
backend that keeps failing.
*/
type Runner struct {
	backend Backend
	retry   *RetryPolicy
	breaker *Breaker
	timeout time.Duration
}

// RunnerOption is a function type for configuring runners
type RunnerOption func(*Runner)

// WithRetry replaces the default retry policy.
func WithRetry(attempts int, strategy RetryStrategy) RunnerOption {
	return func(r *Runner) {
		r.retry = &RetryPolicy{
			MaxAttempts: max(attempts, 1),
			Strategy:    strategy,
			Filter:      Retryable,
		}
	}
}

// WithBreaker guards the backend with breaker.
func WithBreaker(breaker *Breaker) RunnerOption {
	return func(r *Runner) {
		r.breaker = breaker
	}
}

// WithJobTimeout bounds every job, retries included.
func WithJobTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func NewRunner(backend Backend, opts ...RunnerOption) *Runner {
	r := &Runner{
		backend: backend,
		retry:   defaultRetryPolicy(),
		timeout: defaultRunTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run blocks until job has produced counts, failed permanently, run out of
// attempts or outlived its timeout.
func (r *Runner) Run(ctx context.Context, job *Job) (*Result, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	counts, err := r.executeWithRetries(ctx, job)
	if err != nil {
		return nil, err
	}

	return &Result{
		JobID:    job.ID,
		Backend:  r.backendName(),
		Shots:    job.Shots,
		Counts:   counts,
		Duration: time.Since(start),
	}, nil
}

func (r *Runner) executeWithRetries(ctx context.Context, job *Job) (Counts, error) {
	var lastErr error

	for attempt := 0; attempt < r.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := r.retry.Strategy.NextDelay(attempt)
			errnie.Warn("job %s retrying attempt %d after %v", job.ID, attempt+1, delay)
			if err := sleep(ctx, delay); err != nil {
				return nil, fmt.Errorf("job %s: %w", job.ID, err)
			}
		}

		if r.breaker != nil && !r.breaker.Allow() {
			lastErr = fmt.Errorf("%s: %w", r.backendName(), ErrBackendUnavailable)
			continue
		}

		counts, err := r.attempt(ctx, job)
		if err == nil {
			r.recordSuccess()
			return counts, nil
		}

		lastErr = err
		if r.retry.Filter != nil && !r.retry.Filter(err) {
			return nil, err
		}
		r.recordFailure()
	}

	return nil, fmt.Errorf("all retries failed for job %s: %w", job.ID, lastErr)
}

// jobExecutor is a Backend that can run a whole job, so its logs and errors
// carry the caller's job id.
type jobExecutor interface {
	Execute(ctx context.Context, job *Job) (*Result, error)
}

func (r *Runner) attempt(ctx context.Context, job *Job) (Counts, error) {
	executor, ok := r.backend.(jobExecutor)
	if !ok {
		return r.backend.Run(ctx, job.Circuit, job.Shots)
	}

	result, err := executor.Execute(ctx, job)
	if err != nil {
		return nil, err
	}
	return result.Counts, nil
}

func (r *Runner) recordSuccess() {
	if r.breaker != nil {
		r.breaker.RecordSuccess()
	}
}

func (r *Runner) recordFailure() {
	if r.breaker != nil {
		r.breaker.RecordFailure()
	}
}

func (r *Runner) backendName() string {
	if named, ok := r.backend.(interface{ Name() string }); ok {
		return named.Name()
	}
	return fmt.Sprintf("%T", r.backend)
}
