// Package ingestion turns résumé files into ExtractedDocuments.
//
// A Chain holds an ordered list of extraction strategies. For a given file the
// strategies that support its extension are tried in order and the first
// success wins; the result records which strategy produced the document.
package ingestion

import (
	"fmt"
	"os"
	"slices"

	"github.com/jonathan/ats-scorer/internal/types"
	"go.uber.org/zap"
)

// Strategy names
const (
	StrategyPDFPlainText = "pdf-plaintext"
	StrategyPDFRows      = "pdf-rows"
	StrategyDOCX         = "docx"
	StrategyHTML         = "html"
	StrategyJSON         = "json"
	StrategyText         = "text"
)

// Strategy is one way of extracting a document
type Strategy struct {
	Name     string
	Supports func(ext string) bool
	Extract  func(data []byte) (*types.ExtractedDocument, error)
}

// Result is a successful extraction
type Result struct {
	Document types.ExtractedDocument
	Strategy string
	// Attempts lists strategies that failed before the successful one
	Attempts []Attempt
}

// Chain applies strategies in order
type Chain struct {
	strategies []Strategy
	limits     Limits
	logger     *zap.Logger
}

func extensions(exts ...string) func(string) bool {
	return func(ext string) bool {
		return slices.Contains(exts, ext)
	}
}

// DefaultStrategies returns the built-in strategies in fallback order
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: StrategyPDFPlainText, Supports: extensions(".pdf"), Extract: ExtractPDFPlainText},
		{Name: StrategyPDFRows, Supports: extensions(".pdf"), Extract: ExtractPDFRows},
		{Name: StrategyDOCX, Supports: extensions(".docx"), Extract: ExtractDOCX},
		{Name: StrategyHTML, Supports: extensions(".html", ".htm"), Extract: ExtractHTML},
		{Name: StrategyJSON, Supports: extensions(".json"), Extract: ExtractJSON},
		{Name: StrategyText, Supports: extensions(".txt", ".md"), Extract: ExtractPlainText},
	}
}

// NewChain creates a chain. With no strategies the default ones are used.
func NewChain(limits Limits, logger *zap.Logger, strategies ...Strategy) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Chain{strategies: strategies, limits: limits, logger: logger}
}

// Extract runs the strategies that support filename's extension
func (c *Chain) Extract(filename string, data []byte) (*Result, error) {
	if err := c.limits.Check(filename, int64(len(data))); err != nil {
		return nil, err
	}

	ext := Extension(filename)
	var attempts []Attempt
	for _, s := range c.strategies {
		if !s.Supports(ext) {
			continue
		}

		doc, err := s.Extract(data)
		if err != nil {
			c.logger.Debug("extraction strategy failed",
				zap.String("strategy", s.Name),
				zap.String("file", filename),
				zap.Error(err))
			attempts = append(attempts, Attempt{Strategy: s.Name, Err: err})
			continue
		}

		doc.Metadata.Source = s.Name
		doc.Metadata.ContentHash = ContentHash(doc.Text)
		if len(attempts) > 0 {
			c.logger.Info("document extracted by fallback strategy",
				zap.String("strategy", s.Name),
				zap.Int("failed_strategies", len(attempts)))
		}
		return &Result{Document: *doc, Strategy: s.Name, Attempts: attempts}, nil
	}

	if len(attempts) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return nil, &ExtractionError{Filename: filename, Attempts: attempts}
}

// ExtractFile reads path from disk and extracts it
func (c *Chain) ExtractFile(path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if err := c.limits.Check(path, info.Size()); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return c.Extract(path, data)
}
