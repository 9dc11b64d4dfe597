package scoring

import (
	"strings"

	"github.com/jonathan/ats-scorer/internal/types"
)

const (
	jobDescriptionKeywords = 30
	resumeKeywords         = 50
)

func (s *Scorer) keywordScore(resumeText, jobDescription string) types.SubScore[types.KeywordDetails] {
	jd := lowerUnique(keywordTerms(s.extractor.ExtractKeywords(jobDescription, jobDescriptionKeywords)))
	resume := lowerUnique(keywordTerms(s.extractor.ExtractKeywords(resumeText, resumeKeywords)))

	matched, missing := partition(jd, resume)

	score := 0.0
	if len(jd) > 0 {
		score = ratio(len(matched), len(jd))
	}

	return types.SubScore[types.KeywordDetails]{
		Score: score,
		Details: types.KeywordDetails{
			MatchedKeywords: matched,
			MissingKeywords: missing,
			TotalJDKeywords: len(jd),
			MatchedCount:    len(matched),
		},
	}
}

func keywordTerms(keywords []types.Keyword) []string {
	out := make([]string, len(keywords))
	for i, kw := range keywords {
		out[i] = kw.Keyword
	}
	return out
}

// lowerUnique lower-cases values and drops repeats, keeping first occurrence order
func lowerUnique(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(v)
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// partition splits want into the values present in have and those absent,
// both in the order of want
func partition(want, have []string) (matched, missing []string) {
	haveSet := make(map[string]bool, len(have))
	for _, h := range have {
		haveSet[h] = true
	}
	matched = []string{}
	missing = []string{}
	for _, w := range want {
		if haveSet[w] {
			matched = append(matched, w)
		} else {
			missing = append(missing, w)
		}
	}
	return matched, missing
}
