// Package nlp holds the immutable language resources shared by every scoring
// component: stop-words, the lemmatizer, and the sentence/POS/entity annotator.
//
// Resources are expensive to build (the lemmatizer dictionary and the tagging
// model are loaded into memory), so they are constructed once at startup with
// NewResources and passed to the components that need them. Nothing mutates
// a Resources value after construction, so it is safe for concurrent use.
package nlp

import (
	"fmt"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// Lemmatizer reduces a lower-cased word to its dictionary base form
type Lemmatizer interface {
	Lemma(word string) string
}

// Resources is the read-only language context
type Resources struct {
	StopWords  StopWords
	Lemmatizer Lemmatizer
	Annotator  Annotator
}

// NewResources loads the English stop-word list, lemmatizer dictionary, and annotator
func NewResources() (*Resources, error) {
	lemmatizer, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("failed to load lemmatizer dictionary: %w", err)
	}

	annotator, err := NewProseAnnotator()
	if err != nil {
		return nil, err
	}

	return &Resources{
		StopWords:  EnglishStopWords(),
		Lemmatizer: lemmatizer,
		Annotator:  annotator,
	}, nil
}

// lemma applies the configured lemmatizer, falling back to the word itself
func (r *Resources) lemma(word string) string {
	if r.Lemmatizer == nil {
		return word
	}
	if l := r.Lemmatizer.Lemma(word); l != "" {
		return l
	}
	return word
}
