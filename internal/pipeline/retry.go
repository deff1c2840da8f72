package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// RetryPolicy bounds retries of transient failures.
type RetryPolicy struct {
	Attempts int           // total attempts, including the first
	Backoff  time.Duration // wait before retry i is Backoff*i
}

// DefaultRetryPolicy returns three attempts with 500ms linear backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Backoff: 500 * time.Millisecond}
}

// retryable is implemented by the classified errors of every pipeline stage
type retryable interface {
	Retryable() bool
}

// IsRetryable reports whether err carries a classification that allows another attempt.
func IsRetryable(err error) bool {
	var r retryable
	return errors.As(err, &r) && r.Retryable()
}

// retry calls fn until it succeeds, returns a permanent error, or the attempts
// run out. Only errors reporting Retryable() are retried.
func retry[T any](ctx context.Context, policy RetryPolicy, op string, fn func() (T, error)) (T, error) {
	var zero T
	attempts := max(policy.Attempts, 1)

	var lastErr error
	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !IsRetryable(err) || i == attempts-1 {
			break
		}

		wait := policy.Backoff * time.Duration(i+1)
		log.Printf("[pipeline] %s attempt %d/%d failed, retrying in %s: %v", op, i+1, attempts, wait, err)
		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(wait):
		}
	}
	return zero, lastErr
}
