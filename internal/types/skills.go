package types

// SkillConfidence tags how a skill was detected
type SkillConfidence string

const (
	// ConfidenceCatalog marks an exact catalog match
	ConfidenceCatalog SkillConfidence = "catalog"
	// ConfidenceHeuristic marks an entity or noun-phrase candidate outside the catalog
	ConfidenceHeuristic SkillConfidence = "heuristic"
)

// CategoryOther is the name used for uncategorized, heuristic skills in flattened views
const CategoryOther = "other"

// CategorySkills is the set of catalog skills matched in one category
type CategorySkills struct {
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
}

// ExtractedSkills separates catalog matches from low-confidence candidates.
// Catalog is ordered like the catalog that produced it.
type ExtractedSkills struct {
	Catalog []CategorySkills `json:"catalog"`
	Other   []string         `json:"other"`
}

// SkillMatch is a single detected skill with its provenance
type SkillMatch struct {
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Confidence SkillConfidence `json:"confidence"`
}

// Matches flattens the skills in detection order: catalog categories first, then other
func (e ExtractedSkills) Matches() []SkillMatch {
	var out []SkillMatch
	for _, cat := range e.Catalog {
		for _, s := range cat.Skills {
			out = append(out, SkillMatch{Name: s, Category: cat.Category, Confidence: ConfidenceCatalog})
		}
	}
	for _, s := range e.Other {
		out = append(out, SkillMatch{Name: s, Category: CategoryOther, Confidence: ConfidenceHeuristic})
	}
	return out
}

// ByCategory returns a category-keyed view with an "other" key for heuristic skills
func (e ExtractedSkills) ByCategory() map[string][]string {
	out := make(map[string][]string, len(e.Catalog)+1)
	for _, cat := range e.Catalog {
		out[cat.Category] = append([]string{}, cat.Skills...)
	}
	out[CategoryOther] = append([]string{}, e.Other...)
	return out
}

// Count returns the number of detected skills across all categories
func (e ExtractedSkills) Count() int {
	n := len(e.Other)
	for _, cat := range e.Catalog {
		n += len(cat.Skills)
	}
	return n
}

// Keyword is a weighted n-gram extracted from a document
type Keyword struct {
	Keyword string  `json:"keyword"`
	Score   float64 `json:"score"`
}
