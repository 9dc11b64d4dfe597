package skills

import (
	"strings"
	"unicode/utf8"

	"github.com/jonathan/ats-scorer/internal/nlp"
	"github.com/jonathan/ats-scorer/internal/tfidf"
	"github.com/jonathan/ats-scorer/internal/types"
	"go.uber.org/zap"
)

const (
	keywordNgramMax     = 3
	maxNounPhraseTokens = 3
	minEntityLength     = 3
)

// technologyIndicators mark an entity as a plausible technology name
var technologyIndicators = []string{"api", "framework", "library", "platform", "tool", "language"}

// entityLabels are the entity kinds considered as skill candidates:
// organizations, products and locations. The prose model only emits GPE,
// LOCATION and PERSON, and tags product names such as "Stripe API" as
// LOCATION; ORG and PRODUCT cover annotators with a richer label set.
var entityLabels = map[string]bool{
	"ORG":      true,
	"PRODUCT":  true,
	"GPE":      true,
	"LOCATION": true,
}

// Extractor finds catalog skills, heuristic skill candidates and keywords.
// It holds only immutable state and is safe for concurrent use.
type Extractor struct {
	catalog *Catalog
	res     *nlp.Resources
	logger  *zap.Logger
}

// NewExtractor creates an Extractor over a catalog and language resources
func NewExtractor(catalog *Catalog, res *nlp.Resources, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{catalog: catalog, res: res, logger: logger}
}

// Catalog returns the catalog used for matching
func (e *Extractor) Catalog() *Catalog {
	return e.catalog
}

// ExtractSkills detects catalog skills by substring match on the lower-cased
// text, then adds entity and noun-phrase candidates as low-confidence skills
func (e *Extractor) ExtractSkills(text string) types.ExtractedSkills {
	lower := strings.ToLower(text)
	result := types.ExtractedSkills{
		Catalog: make([]types.CategorySkills, 0, len(e.catalog.categories)),
		Other:   []string{},
	}

	matched := map[string]bool{}
	for _, cat := range e.catalog.categories {
		found := []string{}
		for _, skill := range cat.Skills {
			if strings.Contains(lower, skill) {
				found = append(found, skill)
				matched[skill] = true
			}
		}
		result.Catalog = append(result.Catalog, types.CategorySkills{Category: cat.Name, Skills: found})
	}

	if strings.TrimSpace(text) == "" || e.res == nil || e.res.Annotator == nil {
		return result
	}

	ann, err := e.res.Annotator.Annotate(text)
	if err != nil {
		e.logger.Warn("annotation failed, skipping heuristic skills", zap.Error(err))
		return result
	}

	seen := map[string]bool{}
	addOther := func(candidate string) {
		if candidate == "" || matched[candidate] || seen[candidate] {
			return
		}
		seen[candidate] = true
		result.Other = append(result.Other, candidate)
	}

	for _, ent := range ann.Entities {
		if !entityLabels[ent.Label] {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(ent.Text))
		if utf8.RuneCountInString(name) < minEntityLength || !hasTechnologyIndicator(name) {
			continue
		}
		addOther(name)
	}

	for _, phrase := range nlp.NounPhrases(ann.Tokens) {
		name := strings.ToLower(strings.TrimSpace(phrase))
		if len(strings.Fields(name)) > maxNounPhraseTokens {
			continue
		}
		if !nlp.HasLetter(name) || e.res.IsStopWord(name) {
			continue
		}
		addOther(name)
	}

	return result
}

func hasTechnologyIndicator(s string) bool {
	for _, ind := range technologyIndicators {
		if strings.Contains(s, ind) {
			return true
		}
	}
	return false
}

// ExtractKeywords returns up to topK weighted 1-3 gram keywords of the preprocessed text
func (e *Extractor) ExtractKeywords(text string, topK int) []types.Keyword {
	return tfidf.TopTerms(e.res.Preprocess(text), keywordNgramMax, topK)
}
