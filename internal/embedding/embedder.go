// Package embedding turns sentences into dense vectors.
//
// Providers implement Embedder. Production wiring layers them:
//
//	Pool -> Chain -> [Cached -> Resilient -> GeminiEmbedder, HashingEmbedder]
//
// Pool bounds concurrent model invocations across requests, Chain tries
// strategies in a fixed order and records which one answered, Cached skips the
// model for previously seen sentences, and Resilient applies a per-attempt
// timeout with exponential-backoff retry.
package embedding

import "context"

// Result holds one vector per input text and the strategy that produced them
type Result struct {
	Vectors  [][]float64
	Strategy string
}

// Embedder maps texts to fixed-dimension vectors, preserving input order
type Embedder interface {
	Embed(ctx context.Context, texts []string) (Result, error)
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
