package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeights_SumToOne(t *testing.T) {
	sum := KeywordWeight + SkillWeight + SemanticWeight + ExperienceWeight + FormattingWeight
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestScoreBreakdown_WeightedTotal(t *testing.T) {
	b := ScoreBreakdown{}
	b.KeywordMatch.Score = 100
	b.SkillMatch.Score = 50
	b.SemanticSimilarity.Score = 40
	b.ExperienceRelevance.Score = 30
	b.FormattingQuality.Score = 80

	// 30 + 12.5 + 8 + 4.5 + 8
	assert.InDelta(t, 63.0, b.WeightedTotal(), 1e-9)
}

func TestAnalysisResult_JSONFieldNames(t *testing.T) {
	result := AnalysisResult{
		TotalScore:      72.5,
		Suggestions:     []string{"Great job!"},
		MissingSkills:   []string{"aws"},
		MissingKeywords: []string{"kubernetes"},
	}
	result.Breakdown.ExperienceRelevance = SubScore[ExperienceDetails]{
		Score:   30,
		Details: ExperienceDetails{Note: "Unable to analyze experience structure"},
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	require.NoError(t, err)
	out := string(jsonBytes)
	assert.Contains(t, out, `"totalScore": 72.5`)
	assert.Contains(t, out, `"missingSkills": [`)
	assert.Contains(t, out, `"missingKeywords": [`)
	assert.Contains(t, out, `"keywordMatch": {`)
	assert.Contains(t, out, `"experienceRelevance": {`)
	assert.Contains(t, out, `"formattingQuality": {`)
	assert.Contains(t, out, `"note": "Unable to analyze experience structure"`)
}

func TestExtractedDocument_StructureAbsentVersusEmpty(t *testing.T) {
	var absent ExtractedDocument
	require.NoError(t, json.Unmarshal([]byte(`{"text":"hello"}`), &absent))
	assert.False(t, absent.HasStructure())

	var empty ExtractedDocument
	require.NoError(t, json.Unmarshal([]byte(`{"text":"hello","structuredParagraphs":[]}`), &empty))
	assert.True(t, empty.HasStructure())
	assert.Empty(t, empty.StructuredParagraphs)
}

func TestExtractedSkills_MatchesOrderAndConfidence(t *testing.T) {
	skills := ExtractedSkills{
		Catalog: []CategorySkills{
			{Category: "programming_languages", Skills: []string{"python"}},
			{Category: "web_technologies", Skills: []string{"django"}},
		},
		Other: []string{"rest apis"},
	}

	matches := skills.Matches()
	require.Len(t, matches, 3)
	assert.Equal(t, SkillMatch{Name: "python", Category: "programming_languages", Confidence: ConfidenceCatalog}, matches[0])
	assert.Equal(t, SkillMatch{Name: "django", Category: "web_technologies", Confidence: ConfidenceCatalog}, matches[1])
	assert.Equal(t, SkillMatch{Name: "rest apis", Category: CategoryOther, Confidence: ConfidenceHeuristic}, matches[2])
	assert.Equal(t, 3, skills.Count())
}

func TestExtractedSkills_ByCategoryIncludesOther(t *testing.T) {
	skills := ExtractedSkills{
		Catalog: []CategorySkills{{Category: "databases", Skills: []string{"redis"}}},
	}

	byCat := skills.ByCategory()
	assert.Equal(t, []string{"redis"}, byCat["databases"])
	other, ok := byCat[CategoryOther]
	assert.True(t, ok)
	assert.Empty(t, other)
}
