package scoring

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/jonathan/ats-scorer/internal/embedding"
	"github.com/jonathan/ats-scorer/internal/semantic"
	"github.com/jonathan/ats-scorer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJD = "We are looking for a backend engineer with strong Go and Kubernetes experience."

func newMockScorer(ext *MockExtractor, lex *MockLexical, sem *MockSemantic) *Scorer {
	if ext == nil {
		ext = &MockExtractor{}
	}
	if lex == nil {
		lex = &MockLexical{}
	}
	if sem == nil {
		sem = &MockSemantic{}
	}
	return New(Deps{Extractor: ext, Lexical: lex, Semantic: sem})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		jd        string
		wantField string
	}{
		{"valid", "resume text", testJD, ""},
		{"short jd", "resume text", "Go developer wanted", "job_description"},
		{"padded short jd", "resume text", "   " + strings.Repeat("x", 49) + "   ", "job_description"},
		{"jd exactly 50", "resume text", strings.Repeat("x", 50), ""},
		{"empty resume", "  \n ", testJD, "resume_text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(types.ExtractedDocument{Text: tt.text}, tt.jd)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var inputErr *InputValidationError
			require.ErrorAs(t, err, &inputErr)
			assert.Equal(t, tt.wantField, inputErr.Field)
			assert.Equal(t, KindInputValidation, KindOf(err))
		})
	}
}

func TestScore_RejectsShortJobDescription(t *testing.T) {
	s := newMockScorer(nil, nil, nil)
	_, err := s.Score(context.Background(), types.ExtractedDocument{Text: "some resume"}, "too short")
	var inputErr *InputValidationError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "job_description", inputErr.Field)
}

func TestKeywordScore(t *testing.T) {
	tests := []struct {
		name        string
		jd          []types.Keyword
		resume      []types.Keyword
		wantScore   float64
		wantMatched []string
		wantMissing []string
	}{
		{
			name:        "partial match keeps jd order",
			jd:          keywords("kubernetes", "Golang", "terraform", "grpc"),
			resume:      keywords("grpc", "golang"),
			wantScore:   50,
			wantMatched: []string{"golang", "grpc"},
			wantMissing: []string{"kubernetes", "terraform"},
		},
		{
			name:        "no jd keywords scores zero",
			jd:          nil,
			resume:      keywords("golang"),
			wantScore:   0,
			wantMatched: []string{},
			wantMissing: []string{},
		},
		{
			name:        "full match",
			jd:          keywords("golang"),
			resume:      keywords("golang", "python"),
			wantScore:   100,
			wantMatched: []string{"golang"},
			wantMissing: []string{},
		},
		{
			name:        "duplicates after lower-casing count once",
			jd:          keywords("Go", "go", "rust"),
			resume:      keywords("go"),
			wantScore:   50,
			wantMatched: []string{"go"},
			wantMissing: []string{"rust"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := &MockExtractor{
				ExtractKeywordsFunc: func(text string, topK int) []types.Keyword {
					if text == testJD {
						assert.Equal(t, 30, topK)
						return tt.jd
					}
					assert.Equal(t, 50, topK)
					return tt.resume
				},
			}
			sub := newMockScorer(ext, nil, nil).keywordScore("resume", testJD)
			assert.Equal(t, tt.wantScore, sub.Score)
			assert.Equal(t, tt.wantMatched, sub.Details.MatchedKeywords)
			assert.Equal(t, tt.wantMissing, sub.Details.MissingKeywords)
			assert.Equal(t, len(tt.wantMatched), sub.Details.MatchedCount)
		})
	}
}

func TestSkillScore(t *testing.T) {
	jdSkills := types.ExtractedSkills{
		Catalog: []types.CategorySkills{
			{Category: "programming_languages", Skills: []string{"python", "go"}},
			{Category: "cloud_platforms", Skills: []string{"aws", "docker"}},
		},
		Other: []string{"event sourcing"},
	}
	resumeSkills := types.ExtractedSkills{
		Catalog: []types.CategorySkills{
			{Category: "programming_languages", Skills: []string{"python"}},
			{Category: "cloud_platforms", Skills: []string{"docker"}},
		},
		Other: []string{"event sourcing"},
	}

	ext := &MockExtractor{ExtractSkillsFunc: byText(testJD, jdSkills, resumeSkills)}
	sub := newMockScorer(ext, nil, nil).skillScore("resume", testJD)

	assert.Equal(t, 60.0, sub.Score)
	assert.Equal(t, []string{"python", "docker", "event sourcing"}, sub.Details.MatchedSkills)
	assert.Equal(t, []string{"go", "aws"}, sub.Details.MissingSkills)
	assert.Equal(t, 5, sub.Details.TotalJDSkills)
	assert.False(t, sub.Details.DefaultApplied)
	assert.Equal(t, []string{"event sourcing"}, sub.Details.JDSkills[types.CategoryOther])
}

func TestSkillScore_NeutralWhenJobDescriptionHasNoSkills(t *testing.T) {
	resumeSkills := types.ExtractedSkills{
		Catalog: []types.CategorySkills{{Category: "databases", Skills: []string{"redis"}}},
	}
	ext := &MockExtractor{ExtractSkillsFunc: byText(testJD, types.ExtractedSkills{}, resumeSkills)}
	sub := newMockScorer(ext, nil, nil).skillScore("resume", testJD)

	assert.Equal(t, 50.0, sub.Score)
	assert.True(t, sub.Details.DefaultApplied)
	assert.Empty(t, sub.Details.MissingSkills)
}

func TestSemanticScore(t *testing.T) {
	terms := make([]types.MatchingTerm, 15)
	for i := range terms {
		terms[i] = types.MatchingTerm{Term: "t", CombinedScore: float64(15 - i)}
	}
	lex := &MockLexical{
		LexicalSimilarityFunc: func(string, string) types.LexicalSimilarity {
			return types.LexicalSimilarity{SimilarityScore: 0.5, MatchingTerms: terms}
		},
	}
	sem := &MockSemantic{
		DocumentSimilarityFunc: func(context.Context, string, string) (float64, string, error) {
			return 0.8, "hashing", nil
		},
	}

	sub, err := newMockScorer(nil, lex, sem).semanticScore(context.Background(), "resume", testJD)
	require.NoError(t, err)
	assert.InDelta(t, 100*(0.4*0.5+0.6*0.8), sub.Score, 1e-9)
	assert.Len(t, sub.Details.TopMatchingTerms, 10)
	assert.Equal(t, "hashing", sub.Details.EmbeddingStrategy)
	assert.False(t, sub.Details.InsufficientContent)
}

func TestSemanticScore_InsufficientContentDegrades(t *testing.T) {
	lex := &MockLexical{
		LexicalSimilarityFunc: func(string, string) types.LexicalSimilarity {
			return types.LexicalSimilarity{SimilarityScore: 0.5}
		},
	}
	sem := &MockSemantic{
		DocumentSimilarityFunc: func(context.Context, string, string) (float64, string, error) {
			return 0, "", &semantic.InsufficientContentError{Side: semantic.SideSource}
		},
	}

	sub, err := newMockScorer(nil, lex, sem).semanticScore(context.Background(), "short", testJD)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, sub.Score, 1e-9)
	assert.True(t, sub.Details.InsufficientContent)
	assert.NotEmpty(t, sub.Details.Note)
}

func TestWithCalibration(t *testing.T) {
	lex := &MockLexical{
		LexicalSimilarityFunc: func(string, string) types.LexicalSimilarity {
			return types.LexicalSimilarity{SimilarityScore: 1}
		},
	}
	s := New(Deps{Extractor: &MockExtractor{}, Lexical: lex, Semantic: &MockSemantic{}},
		WithCalibration(Calibration{LexicalBlend: 1, EmbeddingBlend: 0}))

	sub, err := s.semanticScore(context.Background(), "resume", testJD)
	require.NoError(t, err)
	assert.Equal(t, 100.0, sub.Score)
}

func TestExperienceScore(t *testing.T) {
	sem := &MockSemantic{
		DocumentSimilarityFunc: func(_ context.Context, source, _ string) (float64, string, error) {
			if strings.Contains(source, "tiny") {
				return 0, "", &semantic.InsufficientContentError{Side: semantic.SideSource}
			}
			return 0.75, "hashing", nil
		},
	}
	s := newMockScorer(nil, nil, sem)

	tests := []struct {
		name       string
		paragraphs []types.Paragraph
		wantScore  float64
		wantNote   string
		wantParas  int
	}{
		{"nil paragraphs", nil, 30, NoteUnableToAnalyze, 0},
		{"empty paragraphs", []types.Paragraph{}, 30, NoteUnableToAnalyze, 0},
		{
			name:       "no indicators",
			paragraphs: []types.Paragraph{{Text: "Jane Doe"}, {Text: "Hobbies: chess"}},
			wantScore:  20,
			wantNote:   NoteNoExperience,
		},
		{
			name:       "insufficient experience content",
			paragraphs: []types.Paragraph{{Text: "Led tiny"}},
			wantScore:  20,
			wantNote:   NoteInsufficientContent,
			wantParas:  1,
		},
		{
			name: "experience paragraphs compared",
			paragraphs: []types.Paragraph{
				{Text: "Jane Doe"},
				{Text: "Developed payment services in Go"},
				{Text: "MANAGED a team of five"},
			},
			wantScore: 75,
			wantParas: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := s.experienceScore(context.Background(), tt.paragraphs, testJD)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantScore, sub.Score, 1e-9)
			assert.Equal(t, tt.wantNote, sub.Details.Note)
			assert.Equal(t, tt.wantParas, sub.Details.ExperienceParagraphs)
		})
	}
}

func TestFormattingScore(t *testing.T) {
	long := strings.Repeat("a", 600)
	paras := []types.Paragraph{{Text: "a"}, {Text: "b"}, {Text: "c"}}

	tests := []struct {
		name       string
		doc        types.ExtractedDocument
		wantScore  float64
		wantIssues []string
	}{
		{
			name:       "clean document",
			doc:        types.ExtractedDocument{Text: long, StructuredParagraphs: paras},
			wantScore:  100,
			wantIssues: []string{},
		},
		{
			name:       "too short without structure",
			doc:        types.ExtractedDocument{Text: "short"},
			wantScore:  80,
			wantIssues: []string{IssueTooShort},
		},
		{
			name:       "exactly 500 runes is not short",
			doc:        types.ExtractedDocument{Text: strings.Repeat("é", 500)},
			wantScore:  100,
			wantIssues: []string{},
		},
		{
			name:       "exactly 5000 is not long",
			doc:        types.ExtractedDocument{Text: strings.Repeat("a", 5000)},
			wantScore:  100,
			wantIssues: []string{},
		},
		{
			name:       "too long",
			doc:        types.ExtractedDocument{Text: strings.Repeat("a", 5001)},
			wantScore:  90,
			wantIssues: []string{IssueTooLong},
		},
		{
			name:       "empty structure present",
			doc:        types.ExtractedDocument{Text: long, StructuredParagraphs: []types.Paragraph{}},
			wantScore:  85,
			wantIssues: []string{IssueUnstructured},
		},
		{
			name: "metadata issues first",
			doc: types.ExtractedDocument{
				Text:                 long,
				StructuredParagraphs: paras,
				Metadata:             types.DocumentMetadata{FormattingIssues: []string{"Page 2 has extraction issues"}},
			},
			wantScore:  90,
			wantIssues: []string{"Page 2 has extraction issues"},
		},
		{
			name: "clamped at zero",
			doc: types.ExtractedDocument{
				Text:                 "x",
				StructuredParagraphs: []types.Paragraph{},
				Metadata:             types.DocumentMetadata{FormattingIssues: make([]string, 9)},
			},
			wantScore:  0,
			wantIssues: append(make([]string, 9), IssueTooShort, IssueUnstructured),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := formattingScore(tt.doc)
			assert.Equal(t, tt.wantScore, sub.Score)
			assert.Equal(t, tt.wantIssues, sub.Details.Issues)
		})
	}
}

func TestScore_ComposesBreakdown(t *testing.T) {
	ext := &MockExtractor{
		ExtractKeywordsFunc: func(text string, _ int) []types.Keyword {
			if text == testJD {
				return keywords("go", "kubernetes", "grpc", "terraform")
			}
			return keywords("go", "kubernetes", "grpc")
		},
		ExtractSkillsFunc: byText(testJD,
			types.ExtractedSkills{Catalog: []types.CategorySkills{{Category: "cloud_platforms", Skills: []string{"kubernetes", "aws"}}}},
			types.ExtractedSkills{Catalog: []types.CategorySkills{{Category: "cloud_platforms", Skills: []string{"kubernetes"}}}},
		),
	}
	lex := &MockLexical{
		LexicalSimilarityFunc: func(string, string) types.LexicalSimilarity {
			return types.LexicalSimilarity{SimilarityScore: 0.5}
		},
	}
	sem := &MockSemantic{
		DocumentSimilarityFunc: func(context.Context, string, string) (float64, string, error) {
			return 0.5, "hashing", nil
		},
	}
	doc := types.ExtractedDocument{
		Text: strings.Repeat("Worked on Go services. ", 30),
		StructuredParagraphs: []types.Paragraph{
			{Text: "Jane Doe"}, {Text: "Worked on Go services"}, {Text: "Education"},
		},
	}

	res, err := newMockScorer(ext, lex, sem).Score(context.Background(), doc, testJD)
	require.NoError(t, err)

	b := res.Breakdown
	assert.Equal(t, 75.0, b.KeywordMatch.Score)
	assert.Equal(t, 50.0, b.SkillMatch.Score)
	assert.Equal(t, 50.0, b.SemanticSimilarity.Score)
	assert.Equal(t, 50.0, b.ExperienceRelevance.Score)
	assert.Equal(t, 100.0, b.FormattingQuality.Score)

	// 75*.3 + 50*.25 + 50*.2 + 50*.15 + 100*.1 = 62.5
	assert.Equal(t, 62.5, res.TotalScore)
	assert.Equal(t, []string{"terraform"}, res.MissingKeywords)
	assert.Equal(t, []string{"aws"}, res.MissingSkills)
	assert.Equal(t, []string{
		"Consider adding these skills: aws",
		SuggestionExperience,
	}, res.Suggestions)
}

func TestScore_ModelUnavailableIsFatal(t *testing.T) {
	sem := &MockSemantic{
		DocumentSimilarityFunc: func(context.Context, string, string) (float64, string, error) {
			return 0, "", &embedding.ModelUnavailableError{Attempts: []embedding.Attempt{{Strategy: "gemini", Err: errors.New("timeout")}}}
		},
	}
	_, err := newMockScorer(nil, nil, sem).Score(context.Background(), types.ExtractedDocument{Text: "resume"}, testJD)
	require.Error(t, err)
	assert.Equal(t, KindModelUnavailable, KindOf(err))
}

func TestScore_NonFiniteIsComputationError(t *testing.T) {
	lex := &MockLexical{
		LexicalSimilarityFunc: func(string, string) types.LexicalSimilarity {
			return types.LexicalSimilarity{SimilarityScore: math.NaN()}
		},
	}
	_, err := newMockScorer(nil, lex, nil).Score(context.Background(), types.ExtractedDocument{Text: "resume"}, testJD)
	var compErr *ComputationError
	require.ErrorAs(t, err, &compErr)
	assert.Equal(t, "semantic_similarity", compErr.Stage)
	assert.Equal(t, KindComputation, KindOf(err))
}

func TestScore_TotalRounding(t *testing.T) {
	ext := &MockExtractor{
		ExtractKeywordsFunc: func(text string, _ int) []types.Keyword {
			if text == testJD {
				return keywords("a", "b", "c")
			}
			return keywords("a")
		},
	}
	res, err := newMockScorer(ext, nil, nil).Score(context.Background(), types.ExtractedDocument{Text: "resume"}, testJD)
	require.NoError(t, err)

	raw := res.Breakdown.WeightedTotal()
	assert.Equal(t, math.Round(raw*10)/10, res.TotalScore)
	assert.InDelta(t, raw, res.TotalScore, 0.05)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindNone},
		{"input", &InputValidationError{Field: "resume_text"}, KindInputValidation},
		{"wrapped content", errors.Join(errors.New("ctx"), &semantic.InsufficientContentError{Side: semantic.SideTarget}), KindInsufficientContent},
		{"model", &embedding.ModelUnavailableError{}, KindModelUnavailable},
		{"computation", &ComputationError{Stage: "x"}, KindComputation},
		{"other", errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}
