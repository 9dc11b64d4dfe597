package types

// Sub-score weights. They sum to 1.0.
const (
	KeywordWeight    = 0.30
	SkillWeight      = 0.25
	SemanticWeight   = 0.20
	ExperienceWeight = 0.15
	FormattingWeight = 0.10
)

// SubScore is a score in [0,100] with a dimension-specific details payload
type SubScore[D any] struct {
	Score   float64 `json:"score"`
	Details D       `json:"details"`
}

// ScoreBreakdown holds the five weighted sub-scores
type ScoreBreakdown struct {
	KeywordMatch        SubScore[KeywordDetails]    `json:"keywordMatch"`
	SkillMatch          SubScore[SkillDetails]      `json:"skillMatch"`
	SemanticSimilarity  SubScore[SemanticDetails]   `json:"semanticSimilarity"`
	ExperienceRelevance SubScore[ExperienceDetails] `json:"experienceRelevance"`
	FormattingQuality   SubScore[FormattingDetails] `json:"formattingQuality"`
}

// WeightedTotal returns the unrounded weighted sum of the sub-scores
func (b ScoreBreakdown) WeightedTotal() float64 {
	return b.KeywordMatch.Score*KeywordWeight +
		b.SkillMatch.Score*SkillWeight +
		b.SemanticSimilarity.Score*SemanticWeight +
		b.ExperienceRelevance.Score*ExperienceWeight +
		b.FormattingQuality.Score*FormattingWeight
}

// KeywordDetails explains the keyword match score
type KeywordDetails struct {
	MatchedKeywords []string `json:"matchedKeywords"`
	MissingKeywords []string `json:"missingKeywords"`
	TotalJDKeywords int      `json:"totalJdKeywords"`
	MatchedCount    int      `json:"matchedCount"`
}

// SkillDetails explains the skill match score
type SkillDetails struct {
	MatchedSkills  []string            `json:"matchedSkills"`
	MissingSkills  []string            `json:"missingSkills"`
	ResumeSkills   map[string][]string `json:"resumeSkills"`
	JDSkills       map[string][]string `json:"jdSkills"`
	TotalJDSkills  int                 `json:"totalJdSkills"`
	MatchedCount   int                 `json:"matchedCount"`
	DefaultApplied bool                `json:"defaultApplied,omitempty"`
}

// SemanticDetails explains the semantic similarity score
type SemanticDetails struct {
	LexicalSimilarity   float64        `json:"lexicalSimilarity"`
	EmbeddingSimilarity float64        `json:"embeddingSimilarity"`
	TopMatchingTerms    []MatchingTerm `json:"topMatchingTerms"`
	EmbeddingStrategy   string         `json:"embeddingStrategy,omitempty"`
	InsufficientContent bool           `json:"insufficientContent,omitempty"`
	Note                string         `json:"note,omitempty"`
}

// ExperienceDetails explains the experience relevance score
type ExperienceDetails struct {
	Analyzed             bool    `json:"analyzed"`
	ParagraphsConsidered int     `json:"paragraphsConsidered"`
	ExperienceParagraphs int     `json:"experienceParagraphs"`
	Similarity           float64 `json:"similarity,omitempty"`
	EmbeddingStrategy    string  `json:"embeddingStrategy,omitempty"`
	Note                 string  `json:"note,omitempty"`
}

// FormattingDetails explains the formatting quality score
type FormattingDetails struct {
	Issues         []string `json:"issues"`
	TextLength     int      `json:"textLength"`
	ParagraphCount int      `json:"paragraphCount"`
	PageCount      int      `json:"pageCount,omitempty"`
}

// AnalysisResult is the outcome of scoring one résumé against one job description
type AnalysisResult struct {
	TotalScore      float64        `json:"totalScore"`
	Breakdown       ScoreBreakdown `json:"breakdown"`
	Suggestions     []string       `json:"suggestions"`
	MissingSkills   []string       `json:"missingSkills"`
	MissingKeywords []string       `json:"missingKeywords"`
}
