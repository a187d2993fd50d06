// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retry provides the exponential-backoff policy shared by the
// pipeline's outbound generative-service calls.
package retry

import (
	"context"
	"math"
	"time"
)

// Policy describes a bounded retry schedule: MaxAttempts total attempts with
// delays of BaseDelay, 2·BaseDelay, 4·BaseDelay, … capped at MaxDelay.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// Retryable decides whether an error is worth another attempt. A nil
	// predicate retries every error.
	Retryable func(error) bool
}

// DefaultPolicy matches the generative-service call budget: three attempts
// with backoff starting at 4s, doubling, capped at 60s.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: 4 * time.Second, MaxDelay: 60 * time.Second}
}

// delay returns the backoff before attempt n (1-based; no delay before the first).
func (p Policy) delay(attempt int) time.Duration {
	d := time.Duration(math.Pow(2, float64(attempt-1))) * p.BaseDelay
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// Do runs op up to p.MaxAttempts times, sleeping between attempts. It
// returns the first success, or the last error once attempts are exhausted,
// the error is not retryable, or the context is cancelled during a wait.
func Do[T any](ctx context.Context, p Policy, op func(context.Context) (T, error)) (T, error) {
	var zero T
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if p.Retryable != nil && !p.Retryable(err) {
			return zero, err
		}
		if attempt == p.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(p.delay(attempt)):
		}
	}
	return zero, lastErr
}
