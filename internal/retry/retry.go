// Package retry provides bounded retry with exponential backoff for
// calls to external AI services.
package retry

import (
	"context"
	"math/rand/v2"
	"time"
)

// Default policy for embedding and provider calls.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 2 * time.Second

	// maxBackoff caps the delay between attempts.
	maxBackoff = 30 * time.Second
)

// Backoff returns the exponential backoff delay with jitter for the
// given attempt. Attempt 0 (the first try) has no delay. Jitter is
// -25% to +25% of the computed delay.
func Backoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt-1))
	if backoff > maxBackoff || backoff <= 0 {
		backoff = maxBackoff
	}
	jitter := time.Duration(rand.Int64N(int64(backoff)/2)) - backoff/4
	return backoff + jitter
}

// Do runs fn up to maxAttempts times, sleeping with exponential backoff
// between attempts. It returns nil on the first success, the last error
// on exhaustion, and the context error if the context is cancelled
// while waiting.
func Do(ctx context.Context, maxAttempts int, baseDelay time.Duration, fn func() error) error {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(Backoff(baseDelay, attempt)):
			}
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}
	}

	return lastErr
}
