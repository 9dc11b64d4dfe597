package ingestion

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/ats-scorer/internal/types"
)

const htmlBlockSelector = "p, li, h1, h2, h3, h4, h5, h6"

// ExtractHTML reads block-level elements as structured paragraphs, using the
// tag name as the style name.
func ExtractHTML(data []byte) (*types.ExtractedDocument, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	doc.Find("script, style, noscript, template").Remove()

	paragraphs := []types.Paragraph{}
	doc.Find(htmlBlockSelector).Each(func(_ int, s *goquery.Selection) {
		// nested blocks are covered by their outermost ancestor
		if s.ParentsFiltered(htmlBlockSelector).Length() > 0 {
			return
		}
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			return
		}
		paragraphs = append(paragraphs, types.Paragraph{Text: text, StyleName: goquery.NodeName(s)})
	})

	var text string
	if len(paragraphs) > 0 {
		lines := make([]string, len(paragraphs))
		for i, p := range paragraphs {
			lines[i] = p.Text
		}
		text = strings.Join(lines, "\n")
	} else {
		text = CleanText(doc.Find("body").Text())
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}

	return &types.ExtractedDocument{
		Text:                 text,
		StructuredParagraphs: paragraphs,
		Metadata: types.DocumentMetadata{
			ParagraphCount: len(paragraphs),
			TablesCount:    doc.Find("table").Length(),
		},
	}, nil
}
