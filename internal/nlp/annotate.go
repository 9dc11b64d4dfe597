package nlp

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

// Token is a word with its Penn Treebank part-of-speech tag
type Token struct {
	Text string
	Tag  string
}

// Entity is a named-entity span
type Entity struct {
	Text  string
	Label string
}

// Annotation is the linguistic analysis of one text
type Annotation struct {
	Tokens   []Token
	Entities []Entity
}

// Annotator segments sentences and produces tagged tokens and entities
type Annotator interface {
	Sentences(text string) ([]string, error)
	Annotate(text string) (*Annotation, error)
}

// ProseAnnotator is an Annotator backed by the prose tagging and extraction
// models and the punkt English sentence tokenizer. Both are loaded once by
// NewProseAnnotator and only read afterwards, so one value can be shared by
// concurrent callers.
type ProseAnnotator struct {
	model     *prose.Model
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewProseAnnotator loads the prose models and the sentence tokenizer
func NewProseAnnotator() (*ProseAnnotator, error) {
	// an empty document with tagging and extraction on makes prose decode its default model
	seed, err := prose.NewDocument("", prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("failed to load tagging model: %w", err)
	}

	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load sentence tokenizer: %w", err)
	}

	return &ProseAnnotator{model: seed.Model, tokenizer: tokenizer}, nil
}

// Sentences splits text into sentences
func (p *ProseAnnotator) Sentences(text string) ([]string, error) {
	sents := p.tokenizer.Tokenize(text)
	out := make([]string, 0, len(sents))
	for _, s := range sents {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

// Annotate tags tokens and extracts named entities
func (p *ProseAnnotator) Annotate(text string) (*Annotation, error) {
	doc, err := p.document(text)
	if err != nil {
		return nil, fmt.Errorf("failed to annotate text: %w", err)
	}

	ann := &Annotation{}
	for _, tok := range doc.Tokens() {
		ann.Tokens = append(ann.Tokens, Token{Text: tok.Text, Tag: tok.Tag})
	}
	for _, ent := range doc.Entities() {
		ann.Entities = append(ann.Entities, Entity{Text: ent.Text, Label: ent.Label})
	}
	return ann, nil
}

// document tags and chunks text with the shared model
func (p *ProseAnnotator) document(text string) (*prose.Document, error) {
	return prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.UsingModel(p.model))
}

// chunkTags are the tags allowed inside a base noun phrase
var chunkTags = map[string]bool{
	"DT": true, "PRP$": true, "CD": true,
	"JJ": true, "JJR": true, "JJS": true,
	"NN": true, "NNS": true, "NNP": true, "NNPS": true,
}

func isNounTag(tag string) bool {
	return strings.HasPrefix(tag, "NN")
}

// NounPhrases groups tagged tokens into base noun phrases: maximal runs of
// determiners, numbers, adjectives and nouns, cut after the last noun.
// Runs without a noun are discarded.
func NounPhrases(tokens []Token) []string {
	var phrases []string
	var run []Token

	flush := func() {
		last := -1
		for i, tok := range run {
			if isNounTag(tok.Tag) {
				last = i
			}
		}
		if last >= 0 {
			words := make([]string, 0, last+1)
			for _, tok := range run[:last+1] {
				words = append(words, tok.Text)
			}
			phrases = append(phrases, strings.Join(words, " "))
		}
		run = run[:0]
	}

	for _, tok := range tokens {
		if chunkTags[tok.Tag] {
			run = append(run, tok)
			continue
		}
		flush()
	}
	flush()

	return phrases
}
