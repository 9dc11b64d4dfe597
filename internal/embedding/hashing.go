package embedding

import (
	"context"
	"hash/fnv"

	"github.com/jonathan/ats-scorer/internal/nlp"
	"github.com/jonathan/ats-scorer/internal/vecmath"
)

// DefaultHashingDimension matches the width of common small sentence encoders
const DefaultHashingDimension = 384

const (
	wordFeatureWeight    = 1.0
	trigramFeatureWeight = 0.5
)

// HashingEmbedder is an offline, deterministic embedder. Word unigrams and
// character trigrams are hashed with FNV-1a into a fixed number of signed
// buckets and the result is L2-normalized. It needs no model download and
// serves as the last strategy when remote providers are unavailable.
type HashingEmbedder struct {
	dim int
}

// NewHashingEmbedder creates a hashing embedder with the given dimension
func NewHashingEmbedder(dim int) *HashingEmbedder {
	if dim <= 0 {
		dim = DefaultHashingDimension
	}
	return &HashingEmbedder{dim: dim}
}

// Dimension returns the vector width
func (h *HashingEmbedder) Dimension() int {
	return h.dim
}

// Embed hashes every text independently
func (h *HashingEmbedder) Embed(ctx context.Context, texts []string) (Result, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		vectors[i] = h.vector(text)
	}
	return Result{Vectors: vectors, Strategy: "hashing"}, nil
}

func (h *HashingEmbedder) vector(text string) []float64 {
	v := make([]float64, h.dim)
	for _, word := range nlp.Tokenize(nlp.Normalize(text)) {
		h.add(v, "w:"+word, wordFeatureWeight)
		padded := []rune("^" + word + "$")
		for i := 0; i+3 <= len(padded); i++ {
			h.add(v, "c:"+string(padded[i:i+3]), trigramFeatureWeight)
		}
	}
	vecmath.Normalize(v)
	return v
}

func (h *HashingEmbedder) add(v []float64, feature string, weight float64) {
	f := fnv.New64a()
	_, _ = f.Write([]byte(feature))
	sum := f.Sum64()

	sign := 1.0
	if sum>>63 == 1 {
		sign = -1.0
	}
	v[sum%uint64(h.dim)] += sign * weight
}
