package embedding

import (
	"fmt"
	"strings"
)

// Attempt records one failed strategy invocation
type Attempt struct {
	Strategy string
	Err      error
}

// ModelUnavailableError is returned when no embedding strategy could produce vectors
type ModelUnavailableError struct {
	Attempts []Attempt
}

func (e *ModelUnavailableError) Error() string {
	if len(e.Attempts) == 0 {
		return "embedding model unavailable: no strategies configured"
	}
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Strategy, a.Err))
	}
	return "embedding model unavailable: " + strings.Join(parts, "; ")
}

func (e *ModelUnavailableError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}
