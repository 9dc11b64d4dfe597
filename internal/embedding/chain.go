package embedding

import (
	"context"
	"fmt"

	"github.com/jonathan/ats-scorer/internal/metrics"
	"go.uber.org/zap"
)

// Strategy is a named embedder in a fallback chain
type Strategy struct {
	Name     string
	Embedder Embedder
}

// Chain tries its strategies in order and returns the first success.
// The returned Result names the strategy that produced the vectors.
type Chain struct {
	strategies []Strategy
	logger     *zap.Logger
}

// NewChain creates a fallback chain. Order is significant.
func NewChain(logger *zap.Logger, strategies ...Strategy) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{strategies: strategies, logger: logger}
}

// Strategies returns the strategy names in fallback order
func (c *Chain) Strategies() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name
	}
	return names
}

// Embed runs the chain. When every strategy fails it returns *ModelUnavailableError.
func (c *Chain) Embed(ctx context.Context, texts []string) (Result, error) {
	var attempts []Attempt

	for _, s := range c.strategies {
		res, err := s.Embedder.Embed(ctx, texts)
		if err == nil && len(res.Vectors) != len(texts) {
			err = fmt.Errorf("expected %d vectors, got %d", len(texts), len(res.Vectors))
		}
		metrics.EmbeddingRequests.WithLabelValues(s.Name, metrics.Outcome(err)).Inc()

		if err == nil {
			if len(attempts) > 0 {
				c.logger.Info("embedding served by fallback strategy",
					zap.String("strategy", s.Name),
					zap.Int("failed_strategies", len(attempts)))
			}
			res.Strategy = s.Name
			return res, nil
		}

		attempts = append(attempts, Attempt{Strategy: s.Name, Err: err})
		c.logger.Warn("embedding strategy failed",
			zap.String("strategy", s.Name),
			zap.Error(err))

		if ctx.Err() != nil {
			break
		}
	}

	return Result{}, &ModelUnavailableError{Attempts: attempts}
}
