package ingestion

import (
	"regexp"
	"strings"
)

// Section names returned by ExtractSections
var SectionNames = []string{"contact", "summary", "experience", "education", "skills", "projects", "certifications"}

var sectionHeaders = map[string]*regexp.Regexp{
	"contact":        regexp.MustCompile(`contact|phone|email|address`),
	"summary":        regexp.MustCompile(`summary|objective|profile`),
	"experience":     regexp.MustCompile(`experience|employment|work history`),
	"education":      regexp.MustCompile(`education|academic`),
	"skills":         regexp.MustCompile(`skills|technical skills|competencies`),
	"projects":       regexp.MustCompile(`projects|portfolio`),
	"certifications": regexp.MustCompile(`certifications|certificates|licenses`),
}

// sectionEnd matches a blank line or a line starting with a letter
var sectionEnd = regexp.MustCompile(`\n(\n|[a-z])`)

// ExtractSections finds common résumé sections in the lower-cased text.
// A section runs from the first header keyword that is followed by a section
// boundary up to that boundary. Sections that are not found are empty.
func ExtractSections(text string) map[string]string {
	lower := strings.ToLower(text)
	out := make(map[string]string, len(SectionNames))

	for _, name := range SectionNames {
		out[name] = ""
		for _, loc := range sectionHeaders[name].FindAllStringIndex(lower, -1) {
			end := sectionEnd.FindStringIndex(lower[loc[1]:])
			if end == nil {
				continue
			}
			out[name] = strings.TrimSpace(lower[loc[0] : loc[1]+end[0]])
			break
		}
	}
	return out
}
