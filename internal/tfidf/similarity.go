package tfidf

import (
	"sort"

	"github.com/jonathan/ats-scorer/internal/nlp"
	"github.com/jonathan/ats-scorer/internal/types"
	"github.com/jonathan/ats-scorer/internal/vecmath"
)

const (
	similarityNgramMax    = 2
	similarityMaxFeatures = 1000
	maxMatchingTerms      = 20
)

// Comparer computes lexical similarity over preprocessed text
type Comparer struct {
	res *nlp.Resources
}

// NewComparer returns a Comparer using the given language resources
func NewComparer(res *nlp.Resources) *Comparer {
	return &Comparer{res: res}
}

// LexicalSimilarity preprocesses both texts and compares them
func (c *Comparer) LexicalSimilarity(textA, textB string) types.LexicalSimilarity {
	return Similarity(c.res.Preprocess(textA), c.res.Preprocess(textB))
}

// Similarity fits a 1-2 gram vocabulary jointly over the two documents and
// returns their cosine similarity with the top terms weighted in both
func Similarity(docA, docB string) types.LexicalSimilarity {
	v := Vectorizer{NgramMin: 1, NgramMax: similarityNgramMax, MaxFeatures: similarityMaxFeatures}
	if len(v.Analyze(docA)) == 0 || len(v.Analyze(docB)) == 0 {
		return types.LexicalSimilarity{MatchingTerms: []types.MatchingTerm{}}
	}

	m := v.FitTransform([]string{docA, docB})
	a, b := m.Rows[0], m.Rows[1]

	terms := []types.MatchingTerm{}
	for j, term := range m.Vocabulary {
		if a[j] > 0 && b[j] > 0 {
			terms = append(terms, types.MatchingTerm{
				Term:          term,
				ScoreA:        a[j],
				ScoreB:        b[j],
				CombinedScore: a[j] * b[j],
			})
		}
	}

	sort.SliceStable(terms, func(i, j int) bool {
		return terms[i].CombinedScore > terms[j].CombinedScore
	})
	if len(terms) > maxMatchingTerms {
		terms = terms[:maxMatchingTerms]
	}

	return types.LexicalSimilarity{
		SimilarityScore: vecmath.Clamp01(vecmath.Cosine(a, b)),
		MatchingTerms:   terms,
	}
}
