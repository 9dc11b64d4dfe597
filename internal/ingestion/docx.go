package ingestion

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/ats-scorer/internal/types"
)

const docxBody = "word/document.xml"

// ExtractDOCX reads the main document part of a .docx file. Body paragraphs
// become structured paragraphs with their style id; table cell text is kept
// in the plain text but not in the paragraph list.
func ExtractDOCX(data []byte) (*types.ExtractedDocument, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open docx archive: %w", err)
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBody {
			body = f
			break
		}
	}
	if body == nil {
		return nil, fmt.Errorf("no %s found in docx", docxBody)
	}

	rc, err := body.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", docxBody, err)
	}
	defer func() { _ = rc.Close() }()

	parsed, err := parseDocumentXML(rc)
	if err != nil {
		return nil, err
	}

	text := CleanText(strings.Join(parsed.lines, "\n"))
	if text == "" {
		return nil, ErrNoText
	}

	return &types.ExtractedDocument{
		Text:                 text,
		StructuredParagraphs: parsed.paragraphs,
		Metadata: types.DocumentMetadata{
			ParagraphCount: len(parsed.paragraphs),
			TablesCount:    parsed.tables,
		},
	}, nil
}

type docxContent struct {
	lines      []string
	paragraphs []types.Paragraph
	tables     int
}

func parseDocumentXML(r io.Reader) (*docxContent, error) {
	dec := xml.NewDecoder(r)
	out := &docxContent{paragraphs: []types.Paragraph{}}

	var (
		tableDepth int
		inPara     bool
		inText     bool
		style      string
		buf        strings.Builder
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse document xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				if tableDepth == 0 {
					out.tables++
				}
				tableDepth++
			case "p":
				inPara = true
				style = ""
				buf.Reset()
			case "pStyle":
				for _, a := range t.Attr {
					if a.Name.Local == "val" {
						style = a.Value
					}
				}
			case "t":
				inText = true
			case "tab":
				if inPara {
					buf.WriteString("\t")
				}
			case "br", "cr":
				if inPara {
					buf.WriteString("\n")
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth--
			case "t":
				inText = false
			case "p":
				inPara = false
				text := buf.String()
				if strings.TrimSpace(text) == "" {
					continue
				}
				out.lines = append(out.lines, text)
				if tableDepth == 0 {
					out.paragraphs = append(out.paragraphs, types.Paragraph{Text: text, StyleName: style})
				}
			}
		case xml.CharData:
			if inPara && inText {
				buf.Write(t)
			}
		}
	}

	return out, nil
}
