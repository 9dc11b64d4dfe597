package server

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-scorer/internal/db"
	"github.com/jonathan/ats-scorer/internal/ingestion"
	"github.com/jonathan/ats-scorer/internal/server/ratelimit"
	"github.com/jonathan/ats-scorer/internal/types"
)

// MockScorer is a mock implementation of Scorer
type MockScorer struct {
	ScoreFunc func(ctx context.Context, doc types.ExtractedDocument, jd string) (*types.AnalysisResult, error)
}

func (m *MockScorer) Score(ctx context.Context, doc types.ExtractedDocument, jd string) (*types.AnalysisResult, error) {
	return m.ScoreFunc(ctx, doc, jd)
}

// MockExtractor is a mock implementation of Extractor
type MockExtractor struct {
	ExtractFunc func(filename string, data []byte) (*ingestion.Result, error)
}

func (m *MockExtractor) Extract(filename string, data []byte) (*ingestion.Result, error) {
	return m.ExtractFunc(filename, data)
}

// memoryStore is an in-memory db.Store
type memoryStore struct {
	mu       sync.Mutex
	items    []db.Analysis
	saveErr  error
	saveHits int
}

func (m *memoryStore) SaveAnalysis(_ context.Context, a *db.Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveHits++
	if m.saveErr != nil {
		return m.saveErr
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.TotalScore = a.Result.TotalScore
	m.items = append(m.items, *a)
	return nil
}

func (m *memoryStore) GetAnalysis(_ context.Context, id uuid.UUID) (*db.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			a := m.items[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) ListAnalyses(_ context.Context, limit int) ([]db.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Analysis{}
	for i := len(m.items) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, m.items[i])
	}
	return out, nil
}

func (m *memoryStore) Close() error { return nil }

func sampleResult() *types.AnalysisResult {
	return &types.AnalysisResult{
		TotalScore:      71.4,
		Suggestions:     []string{"Your resume shows good alignment with the job requirements!"},
		MissingSkills:   []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"},
		MissingKeywords: []string{"kubernetes"},
	}
}

func fixedScorer() *MockScorer {
	return &MockScorer{ScoreFunc: func(context.Context, types.ExtractedDocument, string) (*types.AnalysisResult, error) {
		return sampleResult(), nil
	}}
}

func unusedExtractor() *MockExtractor {
	return &MockExtractor{ExtractFunc: func(string, []byte) (*ingestion.Result, error) {
		panic("extractor should not be called")
	}}
}

// newTestServer builds a server with rate limiting disabled unless cfg says otherwise
func newTestServer(t *testing.T, deps Deps, cfg Config) *Server {
	t.Helper()
	if cfg.RateLimit == nil {
		cfg.RateLimit = &ratelimit.Config{Enabled: false}
	}
	if deps.Scorer == nil {
		deps.Scorer = fixedScorer()
	}
	if deps.Extractor == nil {
		deps.Extractor = unusedExtractor()
	}
	s, err := New(cfg, deps)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}
