package transport

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/abelbrown/glossia/internal/apperr"
)

// RateLimiter is a token bucket holding maxRequests permits per window.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter allows maxRequests calls per window. Defaults to 10 per
// second when given non-positive arguments.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	if maxRequests <= 0 {
		maxRequests = 10
	}
	if window <= 0 {
		window = time.Second
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Every(window/time.Duration(maxRequests)), maxRequests),
	}
}

// WaitForPermit blocks until a token is available or ctx is cancelled.
func (r *RateLimiter) WaitForPermit(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return apperr.Network("rate limiter wait: %v", err)
	}
	return nil
}

// TryAcquire takes a token without blocking; false means the bucket is empty.
func (r *RateLimiter) TryAcquire() bool {
	return r.limiter.Allow()
}
