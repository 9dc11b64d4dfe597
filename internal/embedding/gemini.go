package embedding

import (
	"context"
	"fmt"

	"github.com/jonathan/ats-scorer/internal/llm"
	"golang.org/x/sync/errgroup"
)

// maxBatchSize is the most texts the Gemini API accepts per batch request
const maxBatchSize = 100

// GeminiEmbedder embeds texts through the Gemini embedding API
type GeminiEmbedder struct {
	client      llm.Client
	tier        llm.ModelTier
	concurrency int
}

// NewGeminiEmbedder creates an embedder over an llm.Client.
// concurrency bounds the number of batch requests in flight for one call.
func NewGeminiEmbedder(client llm.Client, tier llm.ModelTier, concurrency int) *GeminiEmbedder {
	if concurrency < 1 {
		concurrency = 1
	}
	return &GeminiEmbedder{client: client, tier: tier, concurrency: concurrency}
}

// Name identifies the strategy and model
func (g *GeminiEmbedder) Name() string {
	return fmt.Sprintf("%s:%s", llm.ProviderGemini, g.client.GetModel(g.tier))
}

// Embed splits texts into API-sized batches and embeds them concurrently
func (g *GeminiEmbedder) Embed(ctx context.Context, texts []string) (Result, error) {
	vectors := make([][]float64, len(texts))
	if len(texts) == 0 {
		return Result{Vectors: vectors, Strategy: g.Name()}, nil
	}

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(g.concurrency)

	for start := 0; start < len(texts); start += maxBatchSize {
		end := min(start+maxBatchSize, len(texts))
		grp.Go(func() error {
			batch, err := g.client.EmbedTexts(gctx, texts[start:end], g.tier)
			if err != nil {
				return fmt.Errorf("batch %d-%d: %w", start, end, err)
			}
			if len(batch) != end-start {
				return fmt.Errorf("batch %d-%d: expected %d vectors, got %d", start, end, end-start, len(batch))
			}
			for i, v := range batch {
				vectors[start+i] = toFloat64(v)
			}
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return Result{}, err
	}
	return Result{Vectors: vectors, Strategy: g.Name()}, nil
}
