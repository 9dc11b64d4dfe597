package ingestion

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/ats-scorer/internal/schemas"
	"github.com/jonathan/ats-scorer/internal/types"
)

// ExtractJSON decodes an ExtractedDocument produced elsewhere, after checking
// it against the document schema.
func ExtractJSON(data []byte) (*types.ExtractedDocument, error) {
	if err := schemas.Validate(schemas.Document, data); err != nil {
		return nil, err
	}
	var doc types.ExtractedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return &doc, nil
}
