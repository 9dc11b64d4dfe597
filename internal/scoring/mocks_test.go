package scoring

import (
	"context"

	"github.com/jonathan/ats-scorer/internal/types"
)

// MockExtractor implements SkillExtractor for testing
type MockExtractor struct {
	ExtractSkillsFunc   func(text string) types.ExtractedSkills
	ExtractKeywordsFunc func(text string, topK int) []types.Keyword
}

func (m *MockExtractor) ExtractSkills(text string) types.ExtractedSkills {
	if m.ExtractSkillsFunc != nil {
		return m.ExtractSkillsFunc(text)
	}
	return types.ExtractedSkills{}
}

func (m *MockExtractor) ExtractKeywords(text string, topK int) []types.Keyword {
	if m.ExtractKeywordsFunc != nil {
		return m.ExtractKeywordsFunc(text, topK)
	}
	return nil
}

// MockLexical implements LexicalComparer for testing
type MockLexical struct {
	LexicalSimilarityFunc func(textA, textB string) types.LexicalSimilarity
}

func (m *MockLexical) LexicalSimilarity(textA, textB string) types.LexicalSimilarity {
	if m.LexicalSimilarityFunc != nil {
		return m.LexicalSimilarityFunc(textA, textB)
	}
	return types.LexicalSimilarity{MatchingTerms: []types.MatchingTerm{}}
}

// MockSemantic implements SemanticComparer for testing
type MockSemantic struct {
	DocumentSimilarityFunc func(ctx context.Context, source, target string) (float64, string, error)
}

func (m *MockSemantic) DocumentSimilarity(ctx context.Context, source, target string) (float64, string, error) {
	if m.DocumentSimilarityFunc != nil {
		return m.DocumentSimilarityFunc(ctx, source, target)
	}
	return 0, "mock", nil
}

// keywords builds a keyword list with descending scores
func keywords(terms ...string) []types.Keyword {
	out := make([]types.Keyword, len(terms))
	for i, t := range terms {
		out[i] = types.Keyword{Keyword: t, Score: 1 / float64(i+1)}
	}
	return out
}

// byText returns jd for the job description and resume otherwise
func byText[T any](jobDescription string, jd, resume T) func(string) T {
	return func(text string) T {
		if text == jobDescription {
			return jd
		}
		return resume
	}
}
