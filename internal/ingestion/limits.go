package ingestion

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultMaxBytes is the largest accepted document
const DefaultMaxBytes = 10 << 20

// Limits bounds what a Chain accepts
type Limits struct {
	MaxBytes          int64
	AllowedExtensions []string
}

// DefaultLimits accepts every format the default chain understands
var DefaultLimits = Limits{
	MaxBytes:          DefaultMaxBytes,
	AllowedExtensions: []string{".pdf", ".docx", ".txt", ".md", ".html", ".htm", ".json"},
}

// UploadLimits accepts only the binary résumé formats offered for upload
var UploadLimits = Limits{
	MaxBytes:          DefaultMaxBytes,
	AllowedExtensions: []string{".pdf", ".docx"},
}

// Check validates a file name and size
func (l Limits) Check(filename string, size int64) error {
	ext := Extension(filename)
	if len(l.AllowedExtensions) > 0 && !slices.Contains(l.AllowedExtensions, ext) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if l.MaxBytes > 0 && size > l.MaxBytes {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, size, l.MaxBytes)
	}
	return nil
}

// Extension returns the lower-cased extension of filename, including the dot
func Extension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}
