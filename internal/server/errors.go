package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/ats-scorer/internal/ingestion"
	"github.com/jonathan/ats-scorer/internal/schemas"
	"github.com/jonathan/ats-scorer/internal/scoring"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrStoreDisabled is returned by the history endpoints when no store is configured
var ErrStoreDisabled = errors.New("analysis history is disabled")

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validationErr *ErrValidation
	var schemaErr *schemas.ValidationError
	var tooLarge *http.MaxBytesError
	var extractionErr *ingestion.ExtractionError

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr), errors.As(err, &schemaErr):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge), errors.Is(err, ingestion.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ingestion.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &extractionErr), errors.Is(err, ingestion.ErrNoText), errors.Is(err, ingestion.ErrInvalidEncoding):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrStoreDisabled):
		return http.StatusServiceUnavailable
	}

	switch scoring.KindOf(err) {
	case scoring.KindInputValidation:
		return http.StatusBadRequest
	case scoring.KindInsufficientContent:
		return http.StatusUnprocessableEntity
	case scoring.KindModelUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
