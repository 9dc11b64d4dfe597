// Package semantic compares texts by sentence embeddings.
package semantic

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/ats-scorer/internal/embedding"
	"github.com/jonathan/ats-scorer/internal/types"
	"github.com/jonathan/ats-scorer/internal/vecmath"
	"go.uber.org/zap"
)

// minSentenceLength is exclusive: a sentence must be longer to be embedded
const minSentenceLength = 10

// SentenceSplitter segments text into sentences
type SentenceSplitter interface {
	Sentences(text string) ([]string, error)
}

// Analyzer computes document similarity and sentence alignments.
// It holds no per-call state and is safe for concurrent use.
type Analyzer struct {
	splitter SentenceSplitter
	embedder embedding.Embedder
	logger   *zap.Logger
}

// NewAnalyzer creates an analyzer
func NewAnalyzer(splitter SentenceSplitter, embedder embedding.Embedder, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{splitter: splitter, embedder: embedder, logger: logger}
}

// embedded holds the sentences of both texts and their vectors
type embedded struct {
	source, target         []string
	sourceVecs, targetVecs [][]float64
	strategy               string
}

// Similarity compares source against target and aligns every source sentence
// to its closest target sentence.
func (a *Analyzer) Similarity(ctx context.Context, source, target string) (*types.SemanticSimilarity, error) {
	e, err := a.embed(ctx, source, target)
	if err != nil {
		return nil, err
	}

	docSim, err := documentSimilarity(e)
	if err != nil {
		return nil, err
	}

	return &types.SemanticSimilarity{
		DocumentSimilarity: docSim,
		SentenceAlignments: align(e),
		EmbeddingStrategy:  e.strategy,
	}, nil
}

// DocumentSimilarity returns only the document-level similarity and the
// embedding strategy that produced it.
func (a *Analyzer) DocumentSimilarity(ctx context.Context, source, target string) (float64, string, error) {
	e, err := a.embed(ctx, source, target)
	if err != nil {
		return 0, "", err
	}
	sim, err := documentSimilarity(e)
	if err != nil {
		return 0, "", err
	}
	return sim, e.strategy, nil
}

// Sentences returns the sentences of text that qualify for embedding
func (a *Analyzer) Sentences(text string) ([]string, error) {
	raw, err := a.splitter.Sentences(text)
	if err != nil {
		return nil, fmt.Errorf("failed to split sentences: %w", err)
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if utf8.RuneCountInString(s) > minSentenceLength {
			out = append(out, s)
		}
	}
	return out, nil
}

func (a *Analyzer) embed(ctx context.Context, source, target string) (*embedded, error) {
	src, err := a.Sentences(source)
	if err != nil {
		return nil, err
	}
	if len(src) == 0 {
		return nil, &InsufficientContentError{Side: SideSource}
	}
	tgt, err := a.Sentences(target)
	if err != nil {
		return nil, err
	}
	if len(tgt) == 0 {
		return nil, &InsufficientContentError{Side: SideTarget}
	}

	all := make([]string, 0, len(src)+len(tgt))
	all = append(all, src...)
	all = append(all, tgt...)

	res, err := a.embedder.Embed(ctx, all)
	if err != nil {
		return nil, err
	}
	if len(res.Vectors) != len(all) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d sentences", len(res.Vectors), len(all))
	}

	a.logger.Debug("embedded sentences",
		zap.Int("source_sentences", len(src)),
		zap.Int("target_sentences", len(tgt)),
		zap.String("strategy", res.Strategy))

	return &embedded{
		source:     src,
		target:     tgt,
		sourceVecs: res.Vectors[:len(src)],
		targetVecs: res.Vectors[len(src):],
		strategy:   res.Strategy,
	}, nil
}

func documentSimilarity(e *embedded) (float64, error) {
	srcMean, err := vecmath.Mean(e.sourceVecs)
	if err != nil {
		return 0, fmt.Errorf("failed to average source vectors: %w", err)
	}
	tgtMean, err := vecmath.Mean(e.targetVecs)
	if err != nil {
		return 0, fmt.Errorf("failed to average target vectors: %w", err)
	}
	return vecmath.Clamp01(vecmath.Cosine(srcMean, tgtMean)), nil
}

// align picks, for every source sentence, the earliest target sentence with
// the highest cosine similarity.
func align(e *embedded) []types.SentenceAlignment {
	out := make([]types.SentenceAlignment, 0, len(e.source))
	for i, s := range e.source {
		best, bestSim := 0, vecmath.Cosine(e.sourceVecs[i], e.targetVecs[0])
		for j := 1; j < len(e.target); j++ {
			if sim := vecmath.Cosine(e.sourceVecs[i], e.targetVecs[j]); sim > bestSim {
				best, bestSim = j, sim
			}
		}
		out = append(out, types.SentenceAlignment{
			SourceSentence:    s,
			BestMatchSentence: e.target[best],
			Similarity:        bestSim,
		})
	}
	return out
}
