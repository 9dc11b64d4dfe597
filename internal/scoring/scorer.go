// Package scoring combines keyword, skill, semantic, experience and formatting
// signals into a single résumé-to-job-description score.
package scoring

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/ats-scorer/internal/metrics"
	"github.com/jonathan/ats-scorer/internal/types"
	"github.com/jonathan/ats-scorer/internal/vecmath"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MinJobDescriptionLength is the minimum trimmed rune length of a job description
const MinJobDescriptionLength = 50

// SkillExtractor finds skills and keywords in raw text
type SkillExtractor interface {
	ExtractSkills(text string) types.ExtractedSkills
	ExtractKeywords(text string, topK int) []types.Keyword
}

// LexicalComparer computes TF-IDF similarity between raw texts
type LexicalComparer interface {
	LexicalSimilarity(textA, textB string) types.LexicalSimilarity
}

// SemanticComparer computes embedding similarity between raw texts
type SemanticComparer interface {
	DocumentSimilarity(ctx context.Context, source, target string) (float64, string, error)
}

// Deps are the immutable components a Scorer is built from
type Deps struct {
	Extractor SkillExtractor
	Lexical   LexicalComparer
	Semantic  SemanticComparer
	Logger    *zap.Logger
}

// Calibration holds the tunable blend inside the semantic sub-score
type Calibration struct {
	LexicalBlend   float64
	EmbeddingBlend float64
}

// DefaultCalibration weights embedding similarity above term overlap
var DefaultCalibration = Calibration{LexicalBlend: 0.4, EmbeddingBlend: 0.6}

// Option configures a Scorer
type Option func(*Scorer)

// WithCalibration overrides the semantic blend
func WithCalibration(c Calibration) Option {
	return func(s *Scorer) {
		s.calibration = c
	}
}

// Scorer produces an AnalysisResult. It keeps no per-call state and may be
// shared by concurrent callers.
type Scorer struct {
	extractor   SkillExtractor
	lexical     LexicalComparer
	semantic    SemanticComparer
	logger      *zap.Logger
	calibration Calibration
}

// New creates a Scorer
func New(deps Deps, opts ...Option) *Scorer {
	s := &Scorer{
		extractor:   deps.Extractor,
		lexical:     deps.Lexical,
		semantic:    deps.Semantic,
		logger:      deps.Logger,
		calibration: DefaultCalibration,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checks the scorer's input contract
func Validate(doc types.ExtractedDocument, jobDescription string) error {
	if utf8.RuneCountInString(strings.TrimSpace(jobDescription)) < MinJobDescriptionLength {
		return &InputValidationError{
			Field:   "job_description",
			Message: fmt.Sprintf("must be at least %d characters", MinJobDescriptionLength),
		}
	}
	if strings.TrimSpace(doc.Text) == "" {
		return &InputValidationError{Field: "resume_text", Message: "must not be empty"}
	}
	return nil
}

// Score rates doc against jobDescription
func (s *Scorer) Score(ctx context.Context, doc types.ExtractedDocument, jobDescription string) (result *types.AnalysisResult, err error) {
	start := time.Now()
	defer func() {
		metrics.AnalysesTotal.WithLabelValues(metrics.Outcome(err)).Inc()
		metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	}()

	if err := Validate(doc, jobDescription); err != nil {
		return nil, err
	}

	var b types.ScoreBreakdown

	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		b.KeywordMatch = s.keywordScore(doc.Text, jobDescription)
		return nil
	})
	grp.Go(func() error {
		b.SkillMatch = s.skillScore(doc.Text, jobDescription)
		return nil
	})
	grp.Go(func() error {
		sub, err := s.semanticScore(gctx, doc.Text, jobDescription)
		if err != nil {
			return fmt.Errorf("semantic similarity: %w", err)
		}
		b.SemanticSimilarity = sub
		return nil
	})
	grp.Go(func() error {
		sub, err := s.experienceScore(gctx, doc.StructuredParagraphs, jobDescription)
		if err != nil {
			return fmt.Errorf("experience relevance: %w", err)
		}
		b.ExperienceRelevance = sub
		return nil
	})
	b.FormattingQuality = formattingScore(doc)

	if err := grp.Wait(); err != nil {
		return nil, err
	}

	if err := checkFinite(b); err != nil {
		return nil, err
	}

	total := math.Round(b.WeightedTotal()*10) / 10

	result = &types.AnalysisResult{
		TotalScore:      total,
		Breakdown:       b,
		Suggestions:     GenerateSuggestions(b),
		MissingSkills:   b.SkillMatch.Details.MissingSkills,
		MissingKeywords: b.KeywordMatch.Details.MissingKeywords,
	}

	s.logger.Debug("scored resume",
		zap.Float64("total", total),
		zap.Float64("keyword", b.KeywordMatch.Score),
		zap.Float64("skill", b.SkillMatch.Score),
		zap.Float64("semantic", b.SemanticSimilarity.Score),
		zap.Float64("experience", b.ExperienceRelevance.Score),
		zap.Float64("formatting", b.FormattingQuality.Score),
		zap.Duration("elapsed", time.Since(start)))

	return result, nil
}

func checkFinite(b types.ScoreBreakdown) error {
	stages := []struct {
		name  string
		score float64
	}{
		{"keyword_match", b.KeywordMatch.Score},
		{"skill_match", b.SkillMatch.Score},
		{"semantic_similarity", b.SemanticSimilarity.Score},
		{"experience_relevance", b.ExperienceRelevance.Score},
		{"formatting_quality", b.FormattingQuality.Score},
	}
	for _, st := range stages {
		if !vecmath.Finite(st.score) {
			return &ComputationError{Stage: st.name, Cause: fmt.Errorf("score is %v", st.score)}
		}
	}
	return nil
}

// ratio returns min(100, 100*matched/total)
func ratio(matched, total int) float64 {
	return math.Min(100, 100*float64(matched)/float64(total))
}
