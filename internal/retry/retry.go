package retry

import (
	"context"
	"time"
)

// Policy describes a bounded sequential retry: how many attempts to make, how
// long to wait between them, and which errors are worth retrying.
type Policy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
	// Retryable reports whether an error should be retried. Nil retries all.
	Retryable func(err error) bool
}

// Exponential returns a backoff function doubling from base: base, 2*base,
// 4*base, ... for attempts 1, 2, 3, ...
func Exponential(base time.Duration) func(attempt int) time.Duration {
	return func(attempt int) time.Duration {
		return base << (attempt - 1)
	}
}

// Do runs fn up to p.MaxAttempts times, sleeping p.Backoff(attempt) between
// attempts. Retries are strictly sequential. The last observed error is
// returned after the final attempt; context cancellation during a backoff
// sleep aborts with the context's error.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}
		if err := sleep(ctx, p.Backoff(attempt)); err != nil {
			return err
		}
	}
	return lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
