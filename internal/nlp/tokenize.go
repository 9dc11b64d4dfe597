package nlp

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	urlPattern      = regexp.MustCompile(`https?://\S+`)
	emailPattern    = regexp.MustCompile(`\S+@\S+`)
	disallowedChars = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Z}.,+#-]`)
)

// Normalize lower-cases text, strips URLs and e-mail addresses, and replaces
// every character outside letters, digits, whitespace and ". , - + #" with a space
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, "")
	text = emailPattern.ReplaceAllString(text, "")
	return disallowedChars.ReplaceAllString(text, " ")
}

// Tokenize splits normalized text into word tokens. Commas separate tokens
// except between digits ("1,000"); leading and trailing periods and hyphens are
// detached so "node.js" and "c++" survive while "apis." becomes "apis".
// Tokens without a letter or digit are dropped.
func Tokenize(text string) []string {
	var tokens []string
	for _, field := range strings.Fields(text) {
		for _, part := range splitCommas(field) {
			part = strings.Trim(part, ".-")
			if part == "" || !hasAlnum(part) {
				continue
			}
			tokens = append(tokens, part)
		}
	}
	return tokens
}

func splitCommas(field string) []string {
	if !strings.Contains(field, ",") {
		return []string{field}
	}
	runes := []rune(field)
	var parts []string
	start := 0
	for i, r := range runes {
		if r != ',' {
			continue
		}
		if i > 0 && i < len(runes)-1 && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
			continue
		}
		parts = append(parts, string(runes[start:i]))
		start = i + 1
	}
	return append(parts, string(runes[start:]))
}

func hasAlnum(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
