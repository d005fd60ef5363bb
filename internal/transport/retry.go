package transport

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/abelbrown/glossia/internal/apperr"
	"github.com/abelbrown/glossia/internal/logging"
)

// RetryConfig controls exponential backoff between attempts.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
	Jitter     bool
}

// DefaultRetryConfig matches the transport defaults: 3 retries, 500ms base,
// 10s cap, doubling, with jitter.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   10 * time.Second,
		Multiplier: 2.0,
		Jitter:     true,
	}
}

// delay computes the backoff before retry number attempt (0-based):
// base·multiplier^attempt, capped, with optional uniform [0.8,1.2] jitter.
func (c RetryConfig) delay(attempt int) time.Duration {
	d := float64(c.BaseDelay) * math.Pow(c.Multiplier, float64(attempt))
	if max := float64(c.MaxDelay); d > max {
		d = max
	}
	if c.Jitter {
		d *= 0.8 + 0.4*rand.Float64()
	}
	return time.Duration(d)
}

// withRetry runs op up to 1+MaxRetries times, backing off between attempts.
// It stops on the first success, the first non-retryable error, or context
// cancellation. A RateLimit error's Retry-After overrides the computed delay
// when longer.
func withRetry(ctx context.Context, cfg RetryConfig, op func(context.Context) error) error {
	var lastErr error
	for attempt := 0; ; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !apperr.Retryable(lastErr) || attempt >= cfg.MaxRetries {
			return lastErr
		}

		delay := cfg.delay(attempt)
		if e, ok := apperr.As(lastErr); ok && e.RetryAfter > delay {
			delay = e.RetryAfter
		}
		logging.Debug("retrying request", "attempt", attempt+1, "delay", delay, "error", lastErr)

		select {
		case <-ctx.Done():
			return apperr.Network("request cancelled: %v", ctx.Err())
		case <-time.After(delay):
		}
	}
}
