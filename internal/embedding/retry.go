package embedding

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// RetryConfig controls per-attempt timeout and retry behavior
type RetryConfig struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
	Timeout     time.Duration
}

// DefaultRetryConfig is suitable for remote embedding APIs
var DefaultRetryConfig = RetryConfig{
	MaxRetries:  2,
	InitialWait: 250 * time.Millisecond,
	MaxWait:     5 * time.Second,
	Multiplier:  2.0,
	Timeout:     30 * time.Second,
}

// Resilient wraps an embedder with a per-attempt timeout and bounded retries
type Resilient struct {
	inner  Embedder
	cfg    RetryConfig
	logger *zap.Logger
}

// WithRetry wraps inner with the given retry policy
func WithRetry(inner Embedder, cfg RetryConfig, logger *zap.Logger) *Resilient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resilient{inner: inner, cfg: cfg, logger: logger}
}

// Embed calls the inner embedder until it succeeds or retries are exhausted
func (r *Resilient) Embed(ctx context.Context, texts []string) (Result, error) {
	var lastErr error

	for attempt := 0; attempt <= r.cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}

		res, err := r.attempt(ctx, texts)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if attempt < r.cfg.MaxRetries {
			wait := r.backoff(attempt)
			r.logger.Debug("retrying embedding request",
				zap.Int("attempt", attempt+1),
				zap.Duration("wait", wait),
				zap.Error(err))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return Result{}, ctx.Err()
			}
		}
	}

	return Result{}, fmt.Errorf("embedding failed after %d attempts: %w", r.cfg.MaxRetries+1, lastErr)
}

func (r *Resilient) attempt(ctx context.Context, texts []string) (Result, error) {
	if r.cfg.Timeout <= 0 {
		return r.inner.Embed(ctx, texts)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()
	return r.inner.Embed(attemptCtx, texts)
}

func (r *Resilient) backoff(attempt int) time.Duration {
	mult := r.cfg.Multiplier
	if mult < 1 {
		mult = 1
	}
	wait := time.Duration(float64(r.cfg.InitialWait) * math.Pow(mult, float64(attempt)))
	if r.cfg.MaxWait > 0 && wait > r.cfg.MaxWait {
		wait = r.cfg.MaxWait
	}
	return wait
}
