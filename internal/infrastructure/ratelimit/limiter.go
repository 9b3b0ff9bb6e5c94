// Package ratelimit spaces out calls to the upstream catalog API.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/hszk-dev/nextup/internal/infrastructure/metrics"
)

// DefaultMinInterval keeps the process under 40 requests per second.
const DefaultMinInterval = 25 * time.Millisecond

// Limiter enforces a minimum interval between successive upstream calls.
// One Limiter is shared by every caller in the process; it is not coordinated
// across processes.
type Limiter struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// New creates a Limiter that admits one call per interval.
// A non-positive interval disables limiting.
func New(interval time.Duration) *Limiter {
	if interval <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
	}
}

// Wait blocks until the caller may make the next upstream call.
// It returns early with an error when ctx is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	start := time.Now()
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	metrics.RateLimitWaitSeconds.Observe(time.Since(start).Seconds())
	return nil
}

// Interval returns the configured minimum interval between calls.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}
