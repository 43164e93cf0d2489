package resilience

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"inkcast/internal/services"
)

func instantSleeper(delays *[]time.Duration) Sleeper {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestRunSucceedsAfterTransientFailures(t *testing.T) {
	var delays []time.Duration
	runner := NewRunner(DefaultPolicy(5, 0), nil).WithSleeper(instantSleeper(&delays))

	var calls int
	err := runner.Run(context.Background(), "analyze", func(_ context.Context, attempt Attempt) error {
		calls++
		if calls < 3 {
			return services.Wrap(services.ErrTransient, "vision", "analyze", "", errors.New("throttled"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if len(delays) != 2 {
		t.Errorf("slept %d times, want 2", len(delays))
	}
}

func TestRunDelaysGrow(t *testing.T) {
	policy := DefaultPolicy(4, 0)
	policy.RandomizationFactor = 0
	var delays []time.Duration
	runner := NewRunner(policy, nil).WithSleeper(instantSleeper(&delays))

	_ = runner.Run(context.Background(), "synthesize", func(context.Context, Attempt) error {
		return services.Wrap(services.ErrTransient, "speech", "synthesize", "", nil)
	})

	if len(delays) != 3 {
		t.Fatalf("slept %d times, want 3", len(delays))
	}
	if delays[1] <= delays[0] || delays[2] <= delays[1] {
		t.Errorf("delays did not grow: %v", delays)
	}
}

func TestRunStopsOnFatalError(t *testing.T) {
	runner := NewRunner(DefaultPolicy(5, 0), nil).WithSleeper(func(context.Context, time.Duration) error {
		t.Fatal("should not sleep after fatal error")
		return nil
	})

	var calls int
	fatal := services.Wrap(services.ErrFatal, "vision", "analyze", "rejected image", nil)
	err := runner.Run(context.Background(), "analyze", func(context.Context, Attempt) error {
		calls++
		return fatal
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !errors.Is(err, services.ErrFatal) {
		t.Errorf("error = %v, want fatal marker", err)
	}
}

func TestRunExhaustsAttempts(t *testing.T) {
	var delays []time.Duration
	runner := NewRunner(DefaultPolicy(3, 0), nil).WithSleeper(instantSleeper(&delays))

	err := runner.Run(context.Background(), "analyze", func(context.Context, Attempt) error {
		return services.Wrap(services.ErrTransient, "vision", "analyze", "", nil)
	})
	if err == nil {
		t.Fatal("expected error after exhaustion")
	}
	if !strings.Contains(err.Error(), "attempts exhausted after 3 tries") {
		t.Errorf("error = %v", err)
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Error("exhaustion error should preserve the last failure")
	}
}

func TestRunSwitchesToFallback(t *testing.T) {
	var delays []time.Duration
	runner := NewRunner(DefaultPolicy(5, 2), nil).WithSleeper(instantSleeper(&delays))

	var fallbackAttempts []int
	err := runner.Run(context.Background(), "analyze", func(_ context.Context, attempt Attempt) error {
		if attempt.Fallback {
			fallbackAttempts = append(fallbackAttempts, attempt.Number)
			return nil
		}
		return services.Wrap(services.ErrTransient, "vision", "analyze", "", nil)
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(fallbackAttempts) != 1 || fallbackAttempts[0] != 3 {
		t.Errorf("fallback attempts = %v, want [3]", fallbackAttempts)
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := NewRunner(DefaultPolicy(5, 0), nil).WithSleeper(func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	})

	err := runner.Run(ctx, "analyze", func(context.Context, Attempt) error {
		return services.Wrap(services.ErrTransient, "vision", "analyze", "", nil)
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestRunJitterStaysWithinBounds(t *testing.T) {
	policy := DefaultPolicy(2, 0)
	policy.InitialInterval = time.Second
	var delays []time.Duration
	runner := NewRunner(policy, nil).WithSleeper(instantSleeper(&delays))

	_ = runner.Run(context.Background(), "analyze", func(context.Context, Attempt) error {
		return services.Wrap(services.ErrTransient, "vision", "analyze", "", nil)
	})

	if len(delays) != 1 {
		t.Fatalf("slept %d times", len(delays))
	}
	lo := time.Duration(float64(time.Second) * 0.75)
	hi := time.Duration(float64(time.Second) * 1.25)
	if delays[0] < lo || delays[0] > hi {
		t.Errorf("first delay %v outside [%v, %v]", delays[0], lo, hi)
	}
}
