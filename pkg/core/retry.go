package core

import (
	"context"
	"time"
)

// Clock abstracts time for retry schedules, so tests inject a fake and run
// without real delays.
type Clock interface {
	Now() time.Time

	// Sleep waits for the given duration or until the context is done,
	// whichever comes first
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock is the wall clock
func RealClock() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RetryPolicy bounds the retries attempted when the version lock is contended.
type RetryPolicy struct {
	// MaxAttempts caps the total number of attempts, first try included.
	// Values below 1 mean a single attempt.
	MaxAttempts int

	// Backoff yields the pause before the given retry attempt (1-based)
	Backoff func(attempt int) time.Duration

	// Timeout bounds the whole retry schedule. Zero means no bound beyond
	// the caller's context.
	Timeout time.Duration
	_       struct{}
}

// NoRetry surfaces lock contention on the first attempt
func NoRetry() RetryPolicy {
	return RetryPolicy{MaxAttempts: 1}
}

// ConstantBackoff retries up to maxAttempts with a fixed pause in between
func ConstantBackoff(maxAttempts int, interval time.Duration) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: maxAttempts,
		Backoff: func(int) time.Duration {
			return interval
		},
	}
}

// ExponentialBackoff retries up to maxAttempts, doubling the pause each time,
// capped at ceiling
func ExponentialBackoff(maxAttempts int, base, ceiling time.Duration) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: maxAttempts,
		Backoff: func(attempt int) time.Duration {
			d := base << uint(attempt-1)
			if d > ceiling || d <= 0 {
				return ceiling
			}
			return d
		},
	}
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	if p.Backoff == nil {
		return 0
	}
	return p.Backoff(attempt)
}
