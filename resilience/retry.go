package resilience

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	apperrors "github.com/kbukum/extkit/errors"
)

// RetryConfig configures Do.
type RetryConfig struct {
	// MaxAttempts counts the first call. Zero means 3.
	MaxAttempts int
	// InitialBackoff is doubled after every failed attempt up to MaxBackoff.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// Jitter spreads each backoff by up to this fraction in either
	// direction (0.0 to 1.0).
	Jitter float64
	// RetryIf reports whether err is worth another attempt. Nil retries
	// everything but context errors.
	RetryIf func(error) bool
	// OnRetry runs before each wait.
	OnRetry func(attempt int, err error, backoff time.Duration)
}

// DefaultRetryConfig returns three attempts starting at 100ms.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
		Jitter:         0.1,
	}
}

// Retryable is the default RetryIf. Context errors stop the loop, an
// AppError decides by its Retryable flag and anything else is retried.
func Retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr.Retryable
	}
	return true
}

func (c RetryConfig) withDefaults() RetryConfig {
	def := DefaultRetryConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = def.InitialBackoff
	}
	if c.MaxBackoff < c.InitialBackoff {
		c.MaxBackoff = c.InitialBackoff
	}
	if c.RetryIf == nil {
		c.RetryIf = Retryable
	}
	return c
}

// Do calls fn until it succeeds, returns an error RetryIf rejects, or the
// attempts run out. The last error is returned wrapped with the attempt
// count; a cancelled ctx returns ctx.Err().
func Do(ctx context.Context, cfg RetryConfig, fn func(context.Context) error) error {
	cfg = cfg.withDefaults()

	var err error
	for attempt := 1; ; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err = fn(ctx); err == nil {
			return nil
		}
		if !cfg.RetryIf(err) {
			return err
		}
		if attempt == cfg.MaxAttempts {
			return fmt.Errorf("gave up after %d attempts: %w", attempt, err)
		}

		wait := cfg.backoff(attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, wait)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// backoff is InitialBackoff * 2^(attempt-1), jittered and capped.
func (c RetryConfig) backoff(attempt int) time.Duration {
	d := c.InitialBackoff << (attempt - 1)
	if d <= 0 || d > c.MaxBackoff {
		d = c.MaxBackoff
	}
	if c.Jitter > 0 {
		spread := float64(d) * c.Jitter
		d += time.Duration((rand.Float64()*2 - 1) * spread)
	}
	return max(d, 0)
}
