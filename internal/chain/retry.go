package chain

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
)

// RetryRateLimited runs fn and retries it exactly once after delay when the
// first attempt was rate limited.
func RetryRateLimited[T any](ctx context.Context, clk clock.Clock, delay time.Duration, fn func(context.Context) (T, error)) (T, error) {
	v, err := fn(ctx)
	if err == nil || !IsRateLimited(err) {
		return v, err
	}

	timer := clk.Timer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-timer.C:
	}
	return fn(ctx)
}
