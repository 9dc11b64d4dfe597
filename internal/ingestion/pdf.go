package ingestion

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jonathan/ats-scorer/internal/types"
	"github.com/ledongthuc/pdf"
)

// pageText reads the text of one page
type pageText func(p pdf.Page) (string, error)

// ExtractPDFPlainText reads each page's content stream in document order.
// Pages that yield no text are reported as formatting issues.
func ExtractPDFPlainText(data []byte) (*types.ExtractedDocument, error) {
	return extractPDF(data, func(p pdf.Page) (string, error) {
		return p.GetPlainText(nil)
	})
}

// ExtractPDFRows reassembles each page from positioned text rows. It copes
// with PDFs whose content streams are not in reading order.
func ExtractPDFRows(data []byte) (*types.ExtractedDocument, error) {
	return extractPDF(data, func(p pdf.Page) (string, error) {
		rows, err := p.GetTextByRow()
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		for _, row := range rows {
			for i, word := range row.Content {
				if i > 0 {
					sb.WriteString(" ")
				}
				sb.WriteString(word.S)
			}
			sb.WriteString("\n")
		}
		return sb.String(), nil
	})
}

func extractPDF(data []byte, read pageText) (doc *types.ExtractedDocument, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	pages := r.NumPage()
	var sb strings.Builder
	issues := []string{}
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			issues = append(issues, fmt.Sprintf("Page %d has extraction issues", i))
			continue
		}
		text, err := read(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d: %w", i, err)
		}
		if strings.TrimSpace(text) == "" {
			issues = append(issues, fmt.Sprintf("Page %d has extraction issues", i))
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	text := CleanText(sb.String())
	if text == "" {
		return nil, ErrNoText
	}

	return &types.ExtractedDocument{
		Text: text,
		Metadata: types.DocumentMetadata{
			FormattingIssues: issues,
			PageCount:        pages,
		},
	}, nil
}
