// Package server provides the HTTP API for scoring résumés.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jonathan/ats-scorer/internal/db"
	"github.com/jonathan/ats-scorer/internal/ingestion"
	"github.com/jonathan/ats-scorer/internal/server/ratelimit"
	"github.com/jonathan/ats-scorer/internal/types"
)

// Scorer scores an extracted résumé against a job description
type Scorer interface {
	Score(ctx context.Context, doc types.ExtractedDocument, jobDescription string) (*types.AnalysisResult, error)
}

// Extractor turns an uploaded file into a document
type Extractor interface {
	Extract(filename string, data []byte) (*ingestion.Result, error)
}

// Deps are the collaborators the server delegates to
type Deps struct {
	Scorer    Scorer
	Extractor Extractor
	// Store is optional. Without it analyses are not persisted and the history endpoints return 503.
	Store  db.Store
	Logger *zap.Logger
}

// Config holds server configuration
type Config struct {
	Port           int
	MaxUploadBytes int64
	CORSOrigins    []string
	RateLimit      *ratelimit.Config
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	scorer      Scorer
	extractor   Extractor
	store       db.Store
	rateLimiter *ratelimit.Limiter
	validate    *validator.Validate
	logger      *zap.Logger
	maxUpload   int64
	corsOrigins map[string]bool
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Scorer == nil {
		return nil, errors.New("server requires a scorer")
	}
	if deps.Extractor == nil {
		return nil, errors.New("server requires an extractor")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = ingestion.DefaultMaxBytes
	}

	s := &Server{
		scorer:      deps.Scorer,
		extractor:   deps.Extractor,
		store:       deps.Store,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger,
		maxUpload:   maxUpload,
		corsOrigins: make(map[string]bool),
	}
	for _, origin := range cfg.CORSOrigins {
		s.corsOrigins[origin] = true
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /v1/analyze/upload", s.handleAnalyzeUpload)
	mux.HandleFunc("GET /v1/analyses", s.handleListAnalyses)
	mux.HandleFunc("GET /v1/analyses/{id}", s.handleGetAnalysis)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // remote embeddings can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.rateLimiter.Stop()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Close releases background resources without serving
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// extractClientID extracts the client identifier from the request.
// It uses the IP address from RemoteAddr; forwarding headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
