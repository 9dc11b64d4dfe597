// Package types provides type definitions for structured data used throughout the ats-scorer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ExtractedDocument is a résumé after ingestion: plain text plus optional structure
type ExtractedDocument struct {
	Text string `json:"text"`
	// StructuredParagraphs is nil when the ingestion source has no paragraph structure.
	// A non-nil empty slice means structure was available but held no paragraphs.
	StructuredParagraphs []Paragraph      `json:"structuredParagraphs"`
	Metadata             DocumentMetadata `json:"metadata"`
}

// Paragraph is one structured paragraph of a document
type Paragraph struct {
	Text      string `json:"text"`
	StyleName string `json:"styleName,omitempty"`
}

// DocumentMetadata holds diagnostic signals reported by ingestion
type DocumentMetadata struct {
	FormattingIssues []string `json:"formattingIssues,omitempty"`
	PageCount        int      `json:"pageCount,omitempty"`
	ParagraphCount   int      `json:"paragraphCount,omitempty"`
	TablesCount      int      `json:"tablesCount,omitempty"`
	Source           string   `json:"source,omitempty"`
	ContentHash      string   `json:"contentHash,omitempty"`
}

// HasStructure reports whether structured paragraphs were supplied at all
func (d ExtractedDocument) HasStructure() bool {
	return d.StructuredParagraphs != nil
}
