package database

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultMaxAttempts  = 4
	defaultBaseDelay    = 20 * time.Millisecond
	defaultJitterFactor = 0.3
)

// RetryPolicy configures exponential backoff for retryable transaction failures.
type RetryPolicy struct {
	MaxAttempts  int
	BaseDelay    time.Duration
	JitterFactor float64
}

// DefaultRetryPolicy retries up to 4 times: 0ms, 20ms, 40ms, 80ms (+/- 30% jitter).
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  defaultMaxAttempts,
		BaseDelay:    defaultBaseDelay,
		JitterFactor: defaultJitterFactor,
	}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}
	if p.BaseDelay < 0 {
		p.BaseDelay = 0
	}
	if p.JitterFactor < 0 || p.JitterFactor > 1 {
		p.JitterFactor = 0
	}
	return p
}

// delay returns the backoff before the given attempt (attempt 0 never waits).
func (p RetryPolicy) delay(attempt int) time.Duration {
	if attempt == 0 || p.BaseDelay == 0 {
		return 0
	}

	d := p.BaseDelay * time.Duration(1<<(attempt-1))
	if p.JitterFactor > 0 {
		jitter := float64(d) * p.JitterFactor * (rand.Float64()*2 - 1)
		d += time.Duration(jitter)
	}
	if d < 0 {
		return 0
	}
	return d
}

// Retry runs fn until it succeeds, fails with a non-retryable error, or the
// policy runs out of attempts. Only IsRetryableError errors are retried.
func Retry(ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) error) error {
	policy = policy.normalized()

	var lastErr error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if d := policy.delay(attempt); d > 0 {
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return fmt.Errorf("retry cancelled after %d attempts: %w", attempt, ctx.Err())
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil || !IsRetryableError(lastErr) {
			return lastErr
		}

		log.Warn().
			Err(lastErr).
			Int("attempt", attempt+1).
			Int("max_attempts", policy.MaxAttempts).
			Msg("[DATABASE] Retryable transaction failure")
	}

	return lastErr
}
