package tfidf

import (
	"sort"

	"github.com/jonathan/ats-scorer/internal/types"
)

// TopTerms weights the n-grams (1..ngramMax) of a single document and returns
// the topK highest-scoring ones. The vocabulary is first capped at topK*2 most
// frequent terms. Zero-weight terms are dropped; ties keep vocabulary order.
func TopTerms(doc string, ngramMax, topK int) []types.Keyword {
	if topK <= 0 {
		return nil
	}

	v := Vectorizer{NgramMin: 1, NgramMax: ngramMax, MaxFeatures: topK * 2}
	m := v.FitTransform([]string{doc})
	if m.Empty() {
		return nil
	}

	keywords := make([]types.Keyword, 0, len(m.Vocabulary))
	for j, term := range m.Vocabulary {
		if w := m.Rows[0][j]; w > 0 {
			keywords = append(keywords, types.Keyword{Keyword: term, Score: w})
		}
	}

	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Score > keywords[j].Score
	})

	if len(keywords) > topK {
		keywords = keywords[:topK]
	}
	return keywords
}
