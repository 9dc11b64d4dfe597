package nlp

import (
	"strings"
	"unicode/utf8"
)

// minTokenLength is the shortest token kept by Preprocess
const minTokenLength = 3

// Preprocess normalizes text and returns its content words as a single
// space-separated string: stop-words and tokens of two characters or fewer
// dropped, then each remaining token lemmatized
func (r *Resources) Preprocess(text string) string {
	return strings.Join(r.PreprocessTokens(text), " ")
}

// PreprocessTokens is Preprocess without the final join
func (r *Resources) PreprocessTokens(text string) []string {
	tokens := Tokenize(Normalize(text))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if r.StopWords.Contains(tok) || utf8.RuneCountInString(tok) < minTokenLength {
			continue
		}
		out = append(out, r.lemma(tok))
	}
	return out
}

// IsStopWord reports whether the lower-cased phrase is a single stop-word
func (r *Resources) IsStopWord(phrase string) bool {
	return r.StopWords.Contains(strings.ToLower(strings.TrimSpace(phrase)))
}

// HasLetter reports whether s contains at least one alphabetic character
func HasLetter(s string) bool {
	return hasLetter(s)
}
