package resilience

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	apperrors "github.com/GriffinCanCode/gamesight/internal/errors"
)

// RetryConfig controls RetryWithResult. Zero delays and a nil IsRetryable take
// the DefaultRetryConfig values. MaxRetries 0 makes a single attempt and a
// JitterFactor of 0 disables jitter.
type RetryConfig struct {
	MaxRetries   int              // retries after the first attempt; 0 or less means none
	BaseDelay    time.Duration    // delay before the first retry, doubled per retry
	MaxDelay     time.Duration    // upper bound on a single delay
	JitterFactor float64          // spread of each delay, 0.2 means +/-10%
	IsRetryable  func(error) bool // defaults to errors.IsRetryable

	// OnRetry, when set, is called before each wait.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultRetryConfig suits slow, rarely called operations.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   3,
		BaseDelay:    500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		JitterFactor: 0.2,
		IsRetryable:  apperrors.IsRetryable,
	}
}

// CaptureRetryConfig suits screen grabs. A frame is stale after a fraction of
// a second, so it gives up within a couple of hundred milliseconds.
func CaptureRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   2,
		BaseDelay:    20 * time.Millisecond,
		MaxDelay:     200 * time.Millisecond,
		JitterFactor: 0.2,
		IsRetryable:  apperrors.IsRetryable,
	}
}

// RetryWithResult calls fn until it succeeds, returns a non-retryable error,
// runs out of retries or ctx ends. It returns the last error seen.
func RetryWithResult[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	cfg = cfg.normalized()
	var zero T

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		v, err := fn()
		if err == nil {
			return v, nil
		}
		if attempt >= cfg.MaxRetries || !cfg.IsRetryable(err) {
			return zero, err
		}

		wait := cfg.jittered(cfg.delay(attempt))
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, err, wait)
		} else {
			slog.Debug("retrying", "attempt", attempt+1, "of", cfg.MaxRetries, "delay", wait, "error", err)
		}
		if err := sleep(ctx, wait); err != nil {
			return zero, err
		}
	}
}

// delay is the un-jittered wait before retry number attempt+1.
func (c RetryConfig) delay(attempt int) time.Duration {
	d := c.BaseDelay << min(attempt, 16)
	if d <= 0 || d > c.MaxDelay {
		return c.MaxDelay
	}
	return d
}

func (c RetryConfig) jittered(d time.Duration) time.Duration {
	if c.JitterFactor == 0 {
		return d
	}
	return d + time.Duration(float64(d)*c.JitterFactor*(rand.Float64()-0.5))
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c RetryConfig) normalized() RetryConfig {
	def := DefaultRetryConfig()
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = def.BaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = def.MaxDelay
	}
	if c.JitterFactor < 0 {
		c.JitterFactor = def.JitterFactor
	}
	if c.IsRetryable == nil {
		c.IsRetryable = def.IsRetryable
	}
	return c
}
