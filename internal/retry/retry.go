package retry

import (
	"context"
	"errors"
	"net"
	"syscall"
	"time"
)

// HTTPStatusError is implemented by errors that carry an upstream HTTP status
// code. The default classifier retries server-side (5xx) statuses and treats
// every other status as permanent.
type HTTPStatusError interface {
	error
	HTTPStatus() int
}

// Config controls how an operation is retried. The zero value performs a
// single attempt with no waiting.
type Config struct {
	// MaxAttempts is the total number of tries, including the first. Values
	// below one behave as one.
	MaxAttempts int
	// BaseDelay seeds the exponential backoff sequence.
	BaseDelay time.Duration
	// MaxDelay caps the backoff. Zero means uncapped.
	MaxDelay time.Duration
	// ShouldRetry decides whether a failed attempt is worth repeating.
	// Defaults to DefaultShouldRetry.
	ShouldRetry func(error) bool
	// OnRetry fires with the triggering error and the 1-based retry count
	// before the backoff wait.
	OnRetry func(err error, attempt int)
	// Sleep waits between attempts. Defaults to a context-aware timer; tests
	// inject a recorder to avoid real waits.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Do runs op until it succeeds, the retry budget is exhausted, or the error is
// classified as permanent. The last error observed is returned unchanged.
func Do[T any](ctx context.Context, cfg Config, op func(context.Context) (T, error)) (T, error) {
	var zero T

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	shouldRetry := cfg.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = DefaultShouldRetry
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = contextSleep
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		value, err := op(ctx)
		if err == nil {
			return value, nil
		}
		lastErr = err

		if attempt == attempts || !shouldRetry(err) {
			break
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(err, attempt)
		}
		if err := sleep(ctx, Delay(attempt, cfg.BaseDelay, cfg.MaxDelay)); err != nil {
			return zero, err
		}
	}
	return zero, lastErr
}

// Delay computes the exponential backoff for the given 1-based attempt:
// base * 2^(attempt-1), capped at max when max is positive.
func Delay(attempt int, base, max time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	if attempt < 1 {
		attempt = 1
	}
	shift := attempt - 1
	// Guard against overflow before shifting.
	if shift > 32 {
		shift = 32
	}
	delay := base << shift
	if delay < base {
		delay = base
	}
	if max > 0 && delay > max {
		delay = max
	}
	return delay
}

// DefaultShouldRetry retries network timeouts, connection-level failures, and
// upstream 5xx statuses. Client errors (4xx) and unclassified errors are
// considered permanent.
func DefaultShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.HTTPStatus() >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	return false
}

func contextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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
