package model

// Exemplar is a category-labeled reference text with a precomputed
// embedding, used to ground RAG prompts. Exemplars are immutable once
// stored; re-storing the same (text, category) pair replaces the
// embedding and metadata in place.
type Exemplar struct {
	Text      string           `json:"text"`
	Category  Category         `json:"category"`
	Embedding []float32        `json:"embedding"`
	Metadata  ExemplarMetadata `json:"metadata"`
}

// ExemplarMetadata carries provenance for an exemplar.
type ExemplarMetadata struct {
	Indicators []string `json:"indicators,omitempty"` // developmental indicators the text demonstrates
	Source     string   `json:"source,omitempty"`     // where the exemplar came from (curriculum, manual coding, ...)
}
