// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/ats-scorer/internal/ingestion"
	"github.com/jonathan/ats-scorer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to at most n runes, ending in "..." when cut
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// writeList writes up to limit items as bullets, with a count of the rest
func writeList(sb *strings.Builder, items []string, limit int) {
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintDocument outputs what ingestion recovered from the résumé, including
// which common sections could be located in its text.
func (p *Printer) PrintDocument(doc *types.ExtractedDocument) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	md := doc.Metadata
	if md.Source != "" {
		sb.WriteString(fmt.Sprintf("Source:      %s\n", md.Source))
	}
	sb.WriteString(fmt.Sprintf("Characters:  %d\n", len([]rune(doc.Text))))
	if md.PageCount > 0 {
		sb.WriteString(fmt.Sprintf("Pages:       %d\n", md.PageCount))
	}
	if doc.HasStructure() {
		sb.WriteString(fmt.Sprintf("Paragraphs:  %d\n", len(doc.StructuredParagraphs)))
	}
	if md.TablesCount > 0 {
		sb.WriteString(fmt.Sprintf("Tables:      %d\n", md.TablesCount))
	}

	sections := ingestion.ExtractSections(doc.Text)
	var found, absent []string
	for _, name := range ingestion.SectionNames {
		if sections[name] != "" {
			found = append(found, name)
		} else {
			absent = append(absent, name)
		}
	}
	sb.WriteString("\n")
	if len(found) > 0 {
		sb.WriteString(fmt.Sprintf("Sections:    %s\n", strings.Join(found, ", ")))
	}
	if len(absent) > 0 {
		sb.WriteString(fmt.Sprintf("Not found:   %s\n", strings.Join(absent, ", ")))
	}

	if len(md.FormattingIssues) > 0 {
		sb.WriteString("\nExtraction issues:\n")
		writeList(&sb, md.FormattingIssues, maxItemsToShow)
	}

	p.printBox("EXTRACTED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBreakdown outputs the total score and the five weighted sub-scores.
func (p *Printer) PrintBreakdown(result *types.AnalysisResult) {
	if result == nil {
		return
	}

	b := result.Breakdown
	rows := []struct {
		name   string
		score  float64
		weight float64
	}{
		{"Keyword match", b.KeywordMatch.Score, types.KeywordWeight},
		{"Skill match", b.SkillMatch.Score, types.SkillWeight},
		{"Semantic similarity", b.SemanticSimilarity.Score, types.SemanticWeight},
		{"Experience relevance", b.ExperienceRelevance.Score, types.ExperienceWeight},
		{"Formatting quality", b.FormattingQuality.Score, types.FormattingWeight},
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ATS score:  %.1f / 100\n\n", result.TotalScore))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-21s %5.1f  %s  x%.2f\n", r.name, r.score, bar(r.score, 15), r.weight))
	}

	sem := b.SemanticSimilarity.Details
	sb.WriteString(fmt.Sprintf("\nLexical %.2f · embedding %.2f", sem.LexicalSimilarity, sem.EmbeddingSimilarity))
	if sem.EmbeddingStrategy != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", sem.EmbeddingStrategy))
	}
	if sem.Note != "" {
		sb.WriteString("\n" + sem.Note)
	}
	if note := b.ExperienceRelevance.Details.Note; note != "" {
		sb.WriteString("\n" + note)
	}

	p.printBox("SCORE BREAKDOWN", sb.String())
}

// bar renders score in [0,100] as a fixed-width gauge
func bar(score float64, width int) string {
	filled := int(score/100*float64(width) + 0.5)
	filled = max(0, min(width, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// PrintGaps outputs the skills and keywords the résumé is missing.
func (p *Printer) PrintGaps(result *types.AnalysisResult) {
	if result == nil {
		return
	}
	if len(result.MissingSkills) == 0 && len(result.MissingKeywords) == 0 {
		p.printBox("GAPS", "✅ No missing skills or keywords")
		return
	}

	var sb strings.Builder
	if len(result.MissingSkills) > 0 {
		sb.WriteString(fmt.Sprintf("Missing skills (%d):\n", len(result.MissingSkills)))
		writeList(&sb, result.MissingSkills, maxItemsToShow)
	}
	if len(result.MissingKeywords) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("Missing keywords (%d):\n", len(result.MissingKeywords)))
		writeList(&sb, result.MissingKeywords, maxItemsToShow)
	}

	p.printBox("GAPS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSuggestions outputs every suggestion; long ones are clipped to the box.
func (p *Printer) PrintSuggestions(result *types.AnalysisResult) {
	if result == nil || len(result.Suggestions) == 0 {
		return
	}

	var sb strings.Builder
	for i, s := range result.Suggestions {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, s))
	}
	p.printBox("SUGGESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAnalysis prints the document summary followed by the full result
func (p *Printer) PrintAnalysis(doc *types.ExtractedDocument, result *types.AnalysisResult) {
	p.PrintDocument(doc)
	p.PrintBreakdown(result)
	p.PrintGaps(result)
	p.PrintSuggestions(result)
}
