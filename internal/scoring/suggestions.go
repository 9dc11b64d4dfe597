package scoring

import (
	"strings"

	"github.com/jonathan/ats-scorer/internal/types"
)

// Suggestion thresholds. A sub-score strictly below its threshold triggers the suggestion.
const (
	keywordSuggestionThreshold    = 60.0
	skillSuggestionThreshold      = 70.0
	semanticSuggestionThreshold   = 50.0
	experienceSuggestionThreshold = 60.0
	formattingSuggestionThreshold = 80.0

	maxListedItems = 5
)

// Fixed suggestion texts
const (
	SuggestionRelevance   = "Improve content relevance by using more job-specific language"
	SuggestionExperience  = "Highlight more relevant work experience and achievements"
	SuggestionAffirmation = "Great job! Your resume shows good alignment with the job requirements."
)

// GenerateSuggestions derives improvement advice from a breakdown. The order
// of suggestions is fixed and the result is never empty.
func GenerateSuggestions(b types.ScoreBreakdown) []string {
	var out []string

	if missing := b.KeywordMatch.Details.MissingKeywords; b.KeywordMatch.Score < keywordSuggestionThreshold && len(missing) > 0 {
		out = append(out, "Add these important keywords: "+joinFirst(missing, maxListedItems))
	}

	if missing := b.SkillMatch.Details.MissingSkills; b.SkillMatch.Score < skillSuggestionThreshold && len(missing) > 0 {
		out = append(out, "Consider adding these skills: "+joinFirst(missing, maxListedItems))
	}

	if b.SemanticSimilarity.Score < semanticSuggestionThreshold {
		out = append(out, SuggestionRelevance)
	}

	if b.ExperienceRelevance.Score < experienceSuggestionThreshold {
		out = append(out, SuggestionExperience)
	}

	if b.FormattingQuality.Score < formattingSuggestionThreshold {
		for _, issue := range b.FormattingQuality.Details.Issues {
			out = append(out, "Fix formatting: "+issue)
		}
	}

	if len(out) == 0 {
		out = append(out, SuggestionAffirmation)
	}
	return out
}

func joinFirst(values []string, n int) string {
	if len(values) > n {
		values = values[:n]
	}
	return strings.Join(values, ", ")
}
