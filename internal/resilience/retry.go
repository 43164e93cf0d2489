package resilience

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"inkcast/internal/services"
)

// Policy controls attempt counts and delay growth.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int
	// FallbackAfter is the attempt count after which Attempt.Fallback is
	// set, steering the operation to its fallback backend. Zero disables
	// fallback.
	FallbackAfter   int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	// RandomizationFactor spreads each delay by the given fraction in
	// both directions so concurrent retries do not synchronize.
	RandomizationFactor float64
}

// DefaultPolicy returns the retry schedule used by both service clients.
func DefaultPolicy(maxAttempts, fallbackAfter int) Policy {
	return Policy{
		MaxAttempts:         maxAttempts,
		FallbackAfter:       fallbackAfter,
		InitialInterval:     time.Second,
		MaxInterval:         30 * time.Second,
		Multiplier:          2.0,
		RandomizationFactor: 0.25,
	}
}

// Attempt describes the current try to the operation.
type Attempt struct {
	// Number counts from 1.
	Number int
	// Fallback is set once enough transient failures have accumulated
	// that the operation should use its fallback backend.
	Fallback bool
}

// Sleeper pauses between attempts. Tests substitute an instant one.
type Sleeper func(ctx context.Context, d time.Duration) error

// ContextSleeper waits for the duration or until the context is done.
func ContextSleeper(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Runner executes operations under a shared policy.
type Runner struct {
	policy Policy
	logger *slog.Logger
	sleep  Sleeper
}

// NewRunner builds a Runner. A nil logger disables retry logging.
func NewRunner(policy Policy, logger *slog.Logger) *Runner {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.InitialInterval <= 0 {
		policy.InitialInterval = time.Second
	}
	if policy.MaxInterval <= 0 {
		policy.MaxInterval = 30 * time.Second
	}
	if policy.Multiplier <= 1 {
		policy.Multiplier = 2.0
	}
	if policy.RandomizationFactor < 0 {
		policy.RandomizationFactor = 0
	}
	return &Runner{policy: policy, logger: logger, sleep: ContextSleeper}
}

// WithSleeper replaces the inter-attempt sleep. Intended for tests.
func (r *Runner) WithSleeper(sleep Sleeper) *Runner {
	if sleep != nil {
		r.sleep = sleep
	}
	return r
}

// Run executes op until it succeeds, fails fatally, or attempts run out.
// Fatal, validation, and configuration errors stop retrying immediately.
// Once FallbackAfter transient failures have occurred, remaining attempts
// see Attempt.Fallback set.
func (r *Runner) Run(ctx context.Context, operation string, op func(ctx context.Context, attempt Attempt) error) error {
	schedule := backoff.NewExponentialBackOff()
	schedule.InitialInterval = r.policy.InitialInterval
	schedule.MaxInterval = r.policy.MaxInterval
	schedule.Multiplier = r.policy.Multiplier
	schedule.RandomizationFactor = r.policy.RandomizationFactor
	schedule.MaxElapsedTime = 0
	schedule.Reset()

	var lastErr error
	for number := 1; number <= r.policy.MaxAttempts; number++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		attempt := Attempt{
			Number:   number,
			Fallback: r.policy.FallbackAfter > 0 && number > r.policy.FallbackAfter,
		}
		err := op(ctx, attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		if !services.IsRetryable(err) {
			return err
		}
		if number == r.policy.MaxAttempts {
			break
		}

		delay := schedule.NextBackOff()
		if r.logger != nil {
			r.logger.Warn("attempt failed, retrying",
				"operation", operation,
				"attempt", number,
				"delay", delay,
				"fallback_next", r.policy.FallbackAfter > 0 && number+1 > r.policy.FallbackAfter,
				"error", err)
		}
		if err := r.sleep(ctx, delay); err != nil {
			return err
		}
	}

	return fmt.Errorf("%s: attempts exhausted after %d tries: %w", operation, r.policy.MaxAttempts, lastErr)
}
