package scoring

import (
	"context"
	"errors"

	"github.com/jonathan/ats-scorer/internal/semantic"
	"github.com/jonathan/ats-scorer/internal/types"
)

const maxTopMatchingTerms = 10

func (s *Scorer) semanticScore(ctx context.Context, resumeText, jobDescription string) (types.SubScore[types.SemanticDetails], error) {
	lex := s.lexical.LexicalSimilarity(resumeText, jobDescription)

	terms := lex.MatchingTerms
	if len(terms) > maxTopMatchingTerms {
		terms = terms[:maxTopMatchingTerms]
	}

	details := types.SemanticDetails{
		LexicalSimilarity: lex.SimilarityScore,
		TopMatchingTerms:  terms,
	}

	docSim, strategy, err := s.semantic.DocumentSimilarity(ctx, resumeText, jobDescription)
	var insufficient *semantic.InsufficientContentError
	switch {
	case errors.As(err, &insufficient):
		details.InsufficientContent = true
		details.Note = "Not enough sentence content for embedding comparison; embedding similarity set to 0"
		docSim = 0
	case err != nil:
		return types.SubScore[types.SemanticDetails]{}, err
	}

	details.EmbeddingSimilarity = docSim
	details.EmbeddingStrategy = strategy

	score := 100 * (s.calibration.LexicalBlend*lex.SimilarityScore + s.calibration.EmbeddingBlend*docSim)
	return types.SubScore[types.SemanticDetails]{Score: score, Details: details}, nil
}
