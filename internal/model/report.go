package model

import "time"

// Classification method labels stored with an assessment.
const (
	MethodHybrid      = "hybrid"       // RAG pipeline produced scores; combined with keyword scores
	MethodKeywordOnly = "keyword-only" // RAG unavailable or failed; keyword scores only
)

// AssessmentReport is the complete result of analyzing one transcript.
// This is what callers persist against the child's record.
type AssessmentReport struct {
	Source     string    `json:"source,omitempty"` // transcript file or identifier
	AnalyzedAt time.Time `json:"analyzed_at"`
	WordCount  int       `json:"word_count"`

	KeywordScores ScoreVector  `json:"keyword_scores"`
	RAGScores     *ScoreVector `json:"rag_scores,omitempty"` // nil when the RAG path did not run
	Combined      ScoreVector  `json:"combined_scores"`

	// Method is MethodHybrid when RAG scores were genuinely produced,
	// MethodKeywordOnly when only keyword scores fed the combiner.
	Method string `json:"classification_method"`

	Weights WeightSnapshot `json:"weights"`

	Segments []Segment `json:"segments,omitempty"`

	// KeywordDetail lists the matched vocabulary per category, for the
	// dashboard's frequency displays.
	KeywordDetail map[Category][]KeywordHit `json:"keyword_detail,omitempty"`

	Timing ReportTiming `json:"timing"`
}

// WeightSnapshot records the weight split that produced the combined
// scores. Reconfiguring weights later does not alter stored reports.
type WeightSnapshot struct {
	RAG     float64 `json:"rag"`
	Keyword float64 `json:"keyword"`
}

// KeywordHit is one matched vocabulary entry and its occurrence count.
type KeywordHit struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// ReportTiming breaks down where analysis time went.
type ReportTiming struct {
	KeywordMs int64 `json:"keyword_ms"`
	RAGMs     int64 `json:"rag_ms,omitempty"`
	TotalMs   int64 `json:"total_ms"`
}
