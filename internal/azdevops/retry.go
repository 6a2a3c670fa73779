package azdevops

import (
	"context"
	"errors"
	"time"
)

// Policy controls retry behavior for one class of API call.
type Policy struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// ReadPolicy is used for GET calls: three attempts with exponential backoff.
func ReadPolicy() Policy {
	return Policy{MaxAttempts: 3, InitialDelay: 500 * time.Millisecond, MaxDelay: 10 * time.Second, BackoffFactor: 2}
}

// WritePolicy is used for thread creation: two attempts total.
func WritePolicy() Policy {
	return Policy{MaxAttempts: 2, InitialDelay: time.Second, MaxDelay: 10 * time.Second, BackoffFactor: 2}
}

// NoRetryPolicy disables retries. Thread updates use it.
func NoRetryPolicy() Policy {
	return Policy{MaxAttempts: 1}
}

type temporary interface {
	Temporary() bool
}

// retryable reports whether err is worth another attempt: server-side
// failures and timeouts are, validation and 4xx responses are not.
func retryable(err error) bool {
	var t temporary
	if errors.As(err, &t) {
		return t.Temporary()
	}
	return false
}

// retry runs fn up to p.MaxAttempts times, sleeping between attempts with
// exponential backoff. It stops early for non-retryable errors and when the
// context is done.
func retry(ctx context.Context, p Policy, fn func() error) error {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}

	delay := p.InitialDelay
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
		if attempt == p.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * p.BackoffFactor)
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}
	return lastErr
}
