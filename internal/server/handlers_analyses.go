package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/ats-scorer/internal/db"
)

// ListAnalysesResponse is returned by GET /v1/analyses
type ListAnalysesResponse struct {
	Analyses []db.Analysis `json:"analyses"`
	Count    int           `json:"count"`
}

// handleListAnalyses returns the most recent analyses, newest first
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.handleError(w, r, ErrStoreDisabled)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.handleError(w, r, &ErrValidation{Field: "limit", Message: "must be a positive integer"})
			return
		}
		limit = n
	}

	analyses, err := s.store.ListAnalyses(r.Context(), limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ListAnalysesResponse{Analyses: analyses, Count: len(analyses)})
}

// handleGetAnalysis returns one stored analysis
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.handleError(w, r, ErrStoreDisabled)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.handleError(w, r, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	analysis, err := s.store.GetAnalysis(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if analysis == nil {
		s.errorResponse(w, http.StatusNotFound, "analysis not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, analysis)
}
