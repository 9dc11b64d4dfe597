// Package db persists scored analyses in PostgreSQL or SQLite.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ats-scorer/internal/types"
)

// Supported drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverNone     = "none"
)

// DefaultListLimit is used when ListAnalyses is called with a non-positive limit
const DefaultListLimit = 20

// MaxListLimit caps ListAnalyses
const MaxListLimit = 500

// ErrDisabled is returned by Open when persistence is turned off
var ErrDisabled = errors.New("persistence is disabled")

// Analysis is a stored scoring result
type Analysis struct {
	ID             uuid.UUID            `json:"id"`
	CreatedAt      time.Time            `json:"createdAt"`
	TotalScore     float64              `json:"totalScore"`
	JobDescription string               `json:"jobDescription"`
	ResumeHash     string               `json:"resumeHash"`
	ResumeSource   string               `json:"resumeSource"`
	Result         types.AnalysisResult `json:"result"`
}

// Store saves and reads analyses
type Store interface {
	SaveAnalysis(ctx context.Context, a *Analysis) error
	// GetAnalysis returns nil, nil when no analysis has the given ID.
	GetAnalysis(ctx context.Context, id uuid.UUID) (*Analysis, error)
	// ListAnalyses returns the most recent analyses, newest first.
	ListAnalyses(ctx context.Context, limit int) ([]Analysis, error)
	Close() error
}

// Options selects and configures a Store
type Options struct {
	Driver     string
	URL        string
	SQLitePath string
}

// Open connects to the configured backend and creates the schema.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverPostgres:
		if opts.URL == "" {
			return nil, fmt.Errorf("database url is required for driver %q", opts.Driver)
		}
		pg, err := Connect(ctx, opts.URL)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			_ = pg.Close()
			return nil, err
		}
		return pg, nil
	case DriverSQLite:
		return OpenSQLite(ctx, opts.SQLitePath)
	case DriverNone, "":
		return nil, ErrDisabled
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

// prepare fills in the ID and creation time of a new analysis
func prepare(a *Analysis) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	a.TotalScore = a.Result.TotalScore
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}
