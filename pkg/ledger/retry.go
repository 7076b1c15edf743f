package ledger

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/tally-ledger/backend/pkg/models"
)

// RetryConfig configures the retries of whole ledger operations with exponential backoff.
type RetryConfig struct {
	MaxRetries     int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	BackoffFactor  float64
	JitterFraction float64 // 0.0 to 1.0, fraction of the delay to randomize
}

// DefaultRetryConfig retries twice, which covers a writer holding the database for a short time.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:     2,
	InitialDelay:   50 * time.Millisecond,
	MaxDelay:       time.Second,
	BackoffFactor:  2.0,
	JitterFraction: 0.2,
}

// WithRetry executes fn and retries it with exponential backoff and jitter
// while it fails with ErrStorageTransient.
//
// A transient failure guarantees that nothing was applied, so fn is always
// retried as a whole. Other errors are returned immediately. When the context
// ends while waiting, the last error of fn is returned.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !errors.Is(err, models.ErrStorageTransient) || ctx.Err() != nil {
			return zero, err
		}

		if attempt >= cfg.MaxRetries {
			break
		}

		delay := float64(cfg.InitialDelay) * math.Pow(cfg.BackoffFactor, float64(attempt))
		if delay > float64(cfg.MaxDelay) {
			delay = float64(cfg.MaxDelay)
		}

		if cfg.JitterFraction > 0 {
			delay += delay * cfg.JitterFraction * (rand.Float64()*2 - 1)
			if delay < 0 {
				delay = float64(cfg.InitialDelay)
			}
		}

		select {
		case <-ctx.Done():
			return zero, lastErr
		case <-time.After(time.Duration(delay)):
		}
	}

	return zero, lastErr
}
