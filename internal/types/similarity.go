package types

// LexicalSimilarity is the TF-IDF comparison of two texts
type LexicalSimilarity struct {
	SimilarityScore float64        `json:"similarityScore"`
	MatchingTerms   []MatchingTerm `json:"matchingTerms"`
}

// MatchingTerm is a vocabulary term weighted in both documents
type MatchingTerm struct {
	Term          string  `json:"term"`
	ScoreA        float64 `json:"scoreA"`
	ScoreB        float64 `json:"scoreB"`
	CombinedScore float64 `json:"combinedScore"`
}

// SemanticSimilarity is the embedding comparison of two texts
type SemanticSimilarity struct {
	DocumentSimilarity float64             `json:"documentSimilarity"`
	SentenceAlignments []SentenceAlignment `json:"sentenceAlignments"`
	EmbeddingStrategy  string              `json:"embeddingStrategy,omitempty"`
}

// SentenceAlignment pairs a source sentence with its closest target sentence
type SentenceAlignment struct {
	SourceSentence    string  `json:"sourceSentence"`
	BestMatchSentence string  `json:"bestMatchSentence"`
	Similarity        float64 `json:"similarity"`
}
