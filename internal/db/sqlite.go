package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS analyses (
	id              TEXT PRIMARY KEY,
	created_at      TEXT NOT NULL,
	total_score     REAL NOT NULL,
	job_description TEXT NOT NULL,
	resume_hash     TEXT NOT NULL,
	resume_source   TEXT NOT NULL,
	result          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses (created_at DESC);
`

// sqliteTime is sortable as text and keeps sub-second ordering
const sqliteTime = "2006-01-02T15:04:05.000000000Z07:00"

// SQLite stores analyses in a local SQLite file
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and creates the schema
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database
func (s *SQLite) Close() error {
	return s.db.Close()
}

// SaveAnalysis inserts a new analysis, assigning its ID and timestamp when unset
func (s *SQLite) SaveAnalysis(ctx context.Context, a *Analysis) error {
	prepare(a)
	result, err := json.Marshal(a.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis result: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, created_at, total_score, job_description, resume_hash, resume_source, result)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID.String(), a.CreatedAt.UTC().Format(sqliteTime), a.TotalScore,
		a.JobDescription, a.ResumeHash, a.ResumeSource, string(result),
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// GetAnalysis retrieves an analysis by ID
func (s *SQLite) GetAnalysis(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, total_score, job_description, resume_hash, resume_source, result
		 FROM analyses WHERE id = ?`,
		id.String(),
	)
	a, err := scanSQLiteAnalysis(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return a, nil
}

// ListAnalyses retrieves recent analyses
func (s *SQLite) ListAnalyses(ctx context.Context, limit int) ([]Analysis, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, total_score, job_description, resume_hash, resume_source, result
		 FROM analyses ORDER BY created_at DESC LIMIT ?`,
		clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	analyses := []Analysis{}
	for rows.Next() {
		a, err := scanSQLiteAnalysis(rows)
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

// scanSQLiteAnalysis decodes the text columns SQLite uses for UUIDs and timestamps
func scanSQLiteAnalysis(s scanner) (*Analysis, error) {
	var a Analysis
	var id, createdAt, result string
	if err := s.Scan(&id, &createdAt, &a.TotalScore, &a.JobDescription, &a.ResumeHash, &a.ResumeSource, &result); err != nil {
		return nil, err
	}

	var err error
	if a.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid analysis id %q: %w", id, err)
	}
	if a.CreatedAt, err = time.Parse(sqliteTime, createdAt); err != nil {
		return nil, fmt.Errorf("invalid analysis timestamp %q: %w", createdAt, err)
	}
	if err := json.Unmarshal([]byte(result), &a.Result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis result: %w", err)
	}
	return &a, nil
}
