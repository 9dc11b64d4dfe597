package ingestion

import (
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned when no strategy handles the file extension
	ErrUnsupportedFormat = fmt.Errorf("unsupported file format")
	// ErrTooLarge is returned when a file exceeds the size limit
	ErrTooLarge = fmt.Errorf("file too large")
	// ErrNoText is returned when a document yields no text
	ErrNoText = fmt.Errorf("no text extracted")
	// ErrInvalidEncoding is returned for text files that are not UTF-8
	ErrInvalidEncoding = fmt.Errorf("text is not valid UTF-8")
)

// Attempt records one failed extraction strategy
type Attempt struct {
	Strategy string
	Err      error
}

// ExtractionError is returned when every applicable strategy failed
type ExtractionError struct {
	Filename string
	Attempts []Attempt
}

func (e *ExtractionError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Strategy, a.Err))
	}
	return fmt.Sprintf("failed to extract %s: %s", e.Filename, strings.Join(parts, "; "))
}

func (e *ExtractionError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}
