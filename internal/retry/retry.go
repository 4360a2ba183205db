package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Policy handles retry logic with exponential backoff
type Policy struct {
	maxAttempts  int
	initialDelay time.Duration
	maxDelay     time.Duration
}

// NewPolicy creates a retry policy. maxAttempts below 1 is treated as 1.
func NewPolicy(maxAttempts int, initialDelay time.Duration) *Policy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Policy{
		maxAttempts:  maxAttempts,
		initialDelay: initialDelay,
		maxDelay:     30 * time.Second,
	}
}

type permanentError struct{ err error }

func (p permanentError) Error() string { return p.err.Error() }
func (p permanentError) Unwrap() error { return p.err }

// Permanent marks err as not worth retrying
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

// Execute runs fn until it succeeds, returns a permanent error, the attempts
// run out, or ctx is done
func (r *Policy) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	delay := r.initialDelay

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		var perm permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		lastErr = err

		if attempt == r.maxAttempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted after %d attempts: %w", attempt, errors.Join(ctx.Err(), lastErr))
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * 1.5)
		if delay > r.maxDelay {
			delay = r.maxDelay
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", r.maxAttempts, lastErr)
}
