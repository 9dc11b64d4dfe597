// Package tfidf implements term-frequency/inverse-document-frequency weighting
// with scikit-learn's TfidfVectorizer defaults, so scores line up with models
// and thresholds calibrated against that implementation:
//
//   - tokens are runs of two or more word characters, lower-cased
//   - n-grams are space-joined token runs
//   - idf is smoothed: ln((1+n)/(1+df)) + 1
//   - rows are raw counts times idf, L2-normalized
//
// When MaxFeatures truncates the vocabulary, ties in corpus frequency are
// broken by term order so results never depend on map iteration.
package tfidf

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/ats-scorer/internal/vecmath"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vectorizer configures n-gram range and vocabulary size
type Vectorizer struct {
	NgramMin    int
	NgramMax    int
	MaxFeatures int // 0 means unlimited
}

// Matrix is a fitted vocabulary with one weighted row per document
type Matrix struct {
	Vocabulary []string
	Rows       [][]float64
}

// Empty reports whether fitting produced no terms
func (m *Matrix) Empty() bool {
	return len(m.Vocabulary) == 0
}

// Analyze splits a document into its n-gram terms
func (v Vectorizer) Analyze(doc string) []string {
	tokens := wordPattern.FindAllString(strings.ToLower(doc), -1)
	minN, maxN := v.ngramRange()
	if maxN == 1 {
		return tokens
	}

	var terms []string
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

func (v Vectorizer) ngramRange() (int, int) {
	minN, maxN := v.NgramMin, v.NgramMax
	if minN < 1 {
		minN = 1
	}
	if maxN < minN {
		maxN = minN
	}
	return minN, maxN
}

// FitTransform learns the vocabulary and idf from docs and returns their weighted rows
func (v Vectorizer) FitTransform(docs []string) *Matrix {
	counts := make([]map[string]int, len(docs))
	totals := map[string]int{}
	df := map[string]int{}

	for i, doc := range docs {
		counts[i] = map[string]int{}
		for _, term := range v.Analyze(doc) {
			counts[i][term]++
			totals[term]++
		}
		for term := range counts[i] {
			df[term]++
		}
	}

	vocab := make([]string, 0, len(totals))
	for term := range totals {
		vocab = append(vocab, term)
	}
	vocab = limitFeatures(vocab, totals, v.MaxFeatures)
	sort.Strings(vocab)

	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for j, term := range vocab {
		idf[j] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	rows := make([][]float64, len(docs))
	for i := range docs {
		row := make([]float64, len(vocab))
		for j, term := range vocab {
			row[j] = float64(counts[i][term]) * idf[j]
		}
		vecmath.Normalize(row)
		rows[i] = row
	}

	return &Matrix{Vocabulary: vocab, Rows: rows}
}

// limitFeatures keeps the maxFeatures most frequent terms
func limitFeatures(vocab []string, totals map[string]int, maxFeatures int) []string {
	if maxFeatures <= 0 || len(vocab) <= maxFeatures {
		return vocab
	}
	sort.Slice(vocab, func(i, j int) bool {
		if totals[vocab[i]] != totals[vocab[j]] {
			return totals[vocab[i]] > totals[vocab[j]]
		}
		return vocab[i] < vocab[j]
	})
	return vocab[:maxFeatures]
}
