package scoring

import (
	"errors"
	"fmt"

	"github.com/jonathan/ats-scorer/internal/embedding"
	"github.com/jonathan/ats-scorer/internal/semantic"
)

// InputValidationError is returned when the résumé or job description cannot be scored
type InputValidationError struct {
	Field   string
	Message string
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ComputationError is returned when a sub-score is not a finite number
type ComputationError struct {
	Stage string
	Cause error
}

func (e *ComputationError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("computation failed in %s", e.Stage)
	}
	return fmt.Sprintf("computation failed in %s: %v", e.Stage, e.Cause)
}

func (e *ComputationError) Unwrap() error {
	return e.Cause
}

// ErrorKind classifies errors surfaced by the scorer
type ErrorKind string

const (
	KindNone                ErrorKind = ""
	KindInputValidation     ErrorKind = "input_validation"
	KindInsufficientContent ErrorKind = "insufficient_content"
	KindModelUnavailable    ErrorKind = "model_unavailable"
	KindComputation         ErrorKind = "computation"
	KindInternal            ErrorKind = "internal"
)

// KindOf returns the kind of err, looking through wrapped errors
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var inputErr *InputValidationError
	var contentErr *semantic.InsufficientContentError
	var modelErr *embedding.ModelUnavailableError
	var compErr *ComputationError

	switch {
	case errors.As(err, &inputErr):
		return KindInputValidation
	case errors.As(err, &contentErr):
		return KindInsufficientContent
	case errors.As(err, &modelErr):
		return KindModelUnavailable
	case errors.As(err, &compErr):
		return KindComputation
	default:
		return KindInternal
	}
}
