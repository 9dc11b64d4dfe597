package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS analyses (
	id              UUID PRIMARY KEY,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	total_score     DOUBLE PRECISION NOT NULL,
	job_description TEXT NOT NULL,
	resume_hash     TEXT NOT NULL,
	resume_source   TEXT NOT NULL,
	result          JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses (created_at DESC);
`

// Postgres stores analyses in PostgreSQL
type Postgres struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Migrate creates the analyses table if needed
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (p *Postgres) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

// SaveAnalysis inserts a new analysis, assigning its ID and timestamp when unset
func (p *Postgres) SaveAnalysis(ctx context.Context, a *Analysis) error {
	prepare(a)
	result, err := json.Marshal(a.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis result: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO analyses (id, created_at, total_score, job_description, resume_hash, resume_source, result)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.CreatedAt, a.TotalScore, a.JobDescription, a.ResumeHash, a.ResumeSource, result,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// GetAnalysis retrieves an analysis by ID
func (p *Postgres) GetAnalysis(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, created_at, total_score, job_description, resume_hash, resume_source, result
		 FROM analyses WHERE id = $1`,
		id,
	)
	a, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return a, nil
}

// ListAnalyses retrieves recent analyses
func (p *Postgres) ListAnalyses(ctx context.Context, limit int) ([]Analysis, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, created_at, total_score, job_description, resume_hash, resume_source, result
		 FROM analyses ORDER BY created_at DESC LIMIT $1`,
		clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	analyses := []Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses = append(analyses, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return analyses, nil
}

// scanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(s scanner) (*Analysis, error) {
	var a Analysis
	var result []byte
	if err := s.Scan(&a.ID, &a.CreatedAt, &a.TotalScore, &a.JobDescription, &a.ResumeHash, &a.ResumeSource, &result); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(result, &a.Result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis result: %w", err)
	}
	return &a, nil
}
