package model

// Segment attributes a verbatim substring of the source transcript to a
// category. Invariant: 0 <= StartIndex < EndIndex <= len(transcript) and
// transcript[StartIndex:EndIndex] == Text. Segments are derived per
// classification call and never stored independently of the transcript.
type Segment struct {
	Text       string   `json:"text"`
	Category   Category `json:"category"`
	StartIndex int      `json:"startIndex"`
	EndIndex   int      `json:"endIndex"`
}

// ClassificationResult is the output of a segment-mode classification.
// Segments may be empty even when scores are non-zero.
type ClassificationResult struct {
	Scores   ScoreVector `json:"scores"`
	Segments []Segment   `json:"segments"`
}
