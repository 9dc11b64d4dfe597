package scoring

import (
	"unicode/utf8"

	"github.com/jonathan/ats-scorer/internal/types"
)

const (
	minResumeLength        = 500
	maxResumeLength        = 5000
	minStructuredParagraph = 3

	penaltyPerIssue     = 10.0
	penaltyTooShort     = 20.0
	penaltyTooLong      = 10.0
	penaltyUnstructured = 15.0
)

// Formatting issue messages
const (
	IssueTooShort     = "Resume appears too short"
	IssueTooLong      = "Resume might be too long"
	IssueUnstructured = "Lacks proper paragraph structure"
)

func formattingScore(doc types.ExtractedDocument) types.SubScore[types.FormattingDetails] {
	score := 100.0
	issues := []string{}

	for _, issue := range doc.Metadata.FormattingIssues {
		score -= penaltyPerIssue
		issues = append(issues, issue)
	}

	length := utf8.RuneCountInString(doc.Text)
	switch {
	case length < minResumeLength:
		score -= penaltyTooShort
		issues = append(issues, IssueTooShort)
	case length > maxResumeLength:
		score -= penaltyTooLong
		issues = append(issues, IssueTooLong)
	}

	if doc.HasStructure() && len(doc.StructuredParagraphs) < minStructuredParagraph {
		score -= penaltyUnstructured
		issues = append(issues, IssueUnstructured)
	}

	return types.SubScore[types.FormattingDetails]{
		Score: max(0, min(100, score)),
		Details: types.FormattingDetails{
			Issues:         issues,
			TextLength:     length,
			ParagraphCount: len(doc.StructuredParagraphs),
			PageCount:      doc.Metadata.PageCount,
		},
	}
}
