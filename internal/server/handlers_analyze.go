package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/ats-scorer/internal/db"
	"github.com/jonathan/ats-scorer/internal/ingestion"
	"github.com/jonathan/ats-scorer/internal/logger"
	"github.com/jonathan/ats-scorer/internal/schemas"
	"github.com/jonathan/ats-scorer/internal/types"
)

// maxResponseMissingSkills matches the number of missing skills shown to users
const maxResponseMissingSkills = 10

// requestSource marks documents that arrived as raw text in a request body
const requestSource = "request"

// AnalyzeRequest is the body of POST /v1/analyze. Exactly one of ResumeText
// and Resume is expected; Resume wins when both are present.
type AnalyzeRequest struct {
	ResumeText     string                   `json:"resume_text" validate:"required_without=Resume"`
	Resume         *types.ExtractedDocument `json:"resume" validate:"required_without=ResumeText"`
	JobDescription string                   `json:"job_description" validate:"required"`
	// Save defaults to true when a store is configured
	Save *bool `json:"save,omitempty"`
}

// AnalyzeResponse is returned by both analyze endpoints
type AnalyzeResponse struct {
	ID              string                `json:"id,omitempty"`
	Success         bool                  `json:"success"`
	ATSScore        float64               `json:"ats_score"`
	Breakdown       types.ScoreBreakdown  `json:"breakdown"`
	Suggestions     []string              `json:"suggestions"`
	MissingSkills   []string              `json:"missing_skills"`
	MissingKeywords []string              `json:"missing_keywords"`
	Source          string                `json:"source,omitempty"`
	Strategy        string                `json:"strategy,omitempty"`
	Result          *types.AnalysisResult `json:"result"`
}

// handleAnalyze scores a résumé sent as text or as an ExtractedDocument
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeAnalyzeRequest(w, r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var doc types.ExtractedDocument
	if req.Resume != nil {
		doc = *req.Resume
		if doc.Metadata.Source == "" {
			doc.Metadata.Source = requestSource
		}
	} else {
		doc = types.ExtractedDocument{
			Text:     req.ResumeText,
			Metadata: types.DocumentMetadata{Source: requestSource},
		}
	}
	doc.Metadata.ContentHash = ingestion.ContentHash(doc.Text)

	save := req.Save == nil || *req.Save
	s.score(w, r, doc, "", req.JobDescription, save)
}

// decodeAnalyzeRequest accepts JSON, or the form fields posted by the web form
func (s *Server) decodeAnalyzeRequest(w http.ResponseWriter, r *http.Request) (*AnalyzeRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return nil, requestBodyError(err)
		}
		req := &AnalyzeRequest{
			ResumeText:     r.PostForm.Get("resume_text"),
			JobDescription: r.PostForm.Get("job_description"),
		}
		if req.ResumeText == "" || req.JobDescription == "" {
			return nil, &ErrValidation{Message: "both resume_text and job_description are required"}
		}
		return req, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, requestBodyError(err)
	}
	if !json.Valid(body) {
		return nil, &ErrValidation{Message: "request body is not valid JSON"}
	}
	if err := schemas.Validate(schemas.AnalyzeRequest, body); err != nil {
		var verr *schemas.ValidationError
		if errors.As(err, &verr) {
			return nil, &ErrValidation{Message: verr.Summary()}
		}
		return nil, err
	}

	var req AnalyzeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &ErrValidation{Message: "invalid request body: " + err.Error()}
	}
	if err := s.validate.Struct(&req); err != nil {
		return nil, structError(err)
	}
	return &req, nil
}

// handleAnalyzeUpload scores an uploaded PDF or DOCX résumé
func (s *Server) handleAnalyzeUpload(w http.ResponseWriter, r *http.Request) {
	// room for the job description and multipart framing
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+1<<20)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		s.handleError(w, r, requestBodyError(err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	jobDescription := r.FormValue("job_description")
	if strings.TrimSpace(jobDescription) == "" {
		s.handleError(w, r, &ErrValidation{Field: "job_description", Message: "is required"})
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		s.handleError(w, r, &ErrValidation{Field: "resume", Message: "a pdf or docx file is required"})
		return
	}
	defer func() { _ = file.Close() }()

	limits := ingestion.UploadLimits
	limits.MaxBytes = s.maxUpload
	if err := limits.Check(header.Filename, header.Size); err != nil {
		s.handleError(w, r, err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.handleError(w, r, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	result, err := s.extractor.Extract(header.Filename, data)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.logger.Debug("résumé extracted",
		zap.String("file", header.Filename),
		zap.String("strategy", result.Strategy),
		zap.Int("failed_strategies", len(result.Attempts)))

	save := r.FormValue("save") != "false"
	s.score(w, r, result.Document, result.Strategy, jobDescription, save)
}

// score runs the scorer, persists the result when asked and writes the response.
// strategy names the ingestion strategy and is empty when no file was extracted.
func (s *Server) score(w http.ResponseWriter, r *http.Request, doc types.ExtractedDocument, strategy, jobDescription string, save bool) {
	result, err := s.scorer.Score(r.Context(), doc, jobDescription)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	resp := AnalyzeResponse{
		Success:         true,
		ATSScore:        result.TotalScore,
		Breakdown:       result.Breakdown,
		Suggestions:     result.Suggestions,
		MissingSkills:   truncate(result.MissingSkills, maxResponseMissingSkills),
		MissingKeywords: result.MissingKeywords,
		Source:          doc.Metadata.Source,
		Strategy:        strategy,
		Result:          result,
	}

	if save && s.store != nil {
		analysis := &db.Analysis{
			JobDescription: jobDescription,
			ResumeHash:     doc.Metadata.ContentHash,
			ResumeSource:   doc.Metadata.Source,
			Result:         *result,
		}
		if err := s.store.SaveAnalysis(r.Context(), analysis); err != nil {
			// the score is still useful without persistence
			s.logger.Error("failed to save analysis", zap.Error(err))
		} else {
			resp.ID = analysis.ID.String()
		}
	}

	s.logger.Info("résumé scored",
		zap.String("id", resp.ID),
		zap.Float64("total_score", result.TotalScore),
		zap.String("source", doc.Metadata.Source),
		zap.String("job_description", logger.TruncateForLog(jobDescription, 80)))

	s.jsonResponse(w, http.StatusOK, resp)
}

func truncate(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

// requestBodyError keeps size errors distinguishable and reports the rest as bad requests
func requestBodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return &ErrValidation{Message: "invalid request body: " + err.Error()}
}

// structError converts the first validator failure into an ErrValidation
func structError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ErrValidation{Field: fe.Field(), Message: fmt.Sprintf("failed '%s' validation", fe.Tag())}
	}
	return &ErrValidation{Message: err.Error()}
}
