// Package classify implements the hybrid transcript classification
// pipeline: retrieval-augmented LLM scoring with graceful degradation
// to the keyword scorer.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/bainum-project/talkscore/internal/exemplar"
	"github.com/bainum-project/talkscore/internal/llm"
	"github.com/bainum-project/talkscore/internal/model"
)

// Embedder is the embedding capability the classifier consumes.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ExemplarSearcher is the retrieval capability the classifier consumes.
type ExemplarSearcher interface {
	FindSimilarByCategory(query []float32, topK int) (map[model.Category][]exemplar.Scored, error)
}

// RAGConfig holds the classifier's tunables.
type RAGConfig struct {
	Model            string  // LLM model override; empty uses provider default
	TopK             int     // exemplars retrieved per category
	SegmentPromptK   int     // exemplars quoted per category in segment prompts
	MaxTokens        int     // response budget, scores-only mode
	SegmentMaxTokens int     // response budget, segment mode (segments are verbose)
	Temperature      float32 // low for reproducibility
	Verbose          bool
}

// DefaultRAGConfig returns the classifier defaults.
func DefaultRAGConfig() RAGConfig {
	return RAGConfig{
		TopK:             5,
		SegmentPromptK:   3,
		MaxTokens:        500,
		SegmentMaxTokens: 2000,
		Temperature:      0.3,
	}
}

// Classifier runs the RAG pipeline: embed the transcript, retrieve
// similar exemplars per category, build a grounded prompt, call the
// LLM, and parse the scores. Every per-call failure is absorbed into
// the all-zero fallback; only construction can fail.
type Classifier struct {
	embedder Embedder
	store    ExemplarSearcher
	provider llm.Provider
	cfg      RAGConfig
}

// NewClassifier wires the pipeline. Missing dependencies are a
// deployment mistake and fail here, never per call.
func NewClassifier(embedder Embedder, store ExemplarSearcher, provider llm.Provider, cfg RAGConfig) (*Classifier, error) {
	if embedder == nil {
		return nil, fmt.Errorf("classify: embedder is required: %w", model.ErrNotConfigured)
	}
	if store == nil {
		return nil, fmt.Errorf("classify: exemplar store is required: %w", model.ErrNotConfigured)
	}
	if provider == nil {
		return nil, fmt.Errorf("classify: LLM provider is required: %w", model.ErrNotConfigured)
	}

	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.SegmentPromptK <= 0 {
		cfg.SegmentPromptK = 3
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 500
	}
	if cfg.SegmentMaxTokens <= 0 {
		cfg.SegmentMaxTokens = 2000
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.3
	}

	return &Classifier{
		embedder: embedder,
		store:    store,
		provider: provider,
		cfg:      cfg,
	}, nil
}

// Classify scores a transcript. It never returns an error: any pipeline
// failure yields the zero vector so the keyword fallback still produces
// a usable hybrid result.
func (c *Classifier) Classify(ctx context.Context, transcript string) model.ScoreVector {
	scores, _, err := c.run(ctx, transcript, false)
	if err != nil {
		c.warn(err)
		return model.ScoreVector{}
	}
	return scores
}

// ClassifyWithSegments scores a transcript and attributes transcript
// excerpts to categories. If the segment-mode pipeline fails it falls
// back to scores-only classification with no segments.
func (c *Classifier) ClassifyWithSegments(ctx context.Context, transcript string) model.ClassificationResult {
	scores, segments, err := c.run(ctx, transcript, true)
	if err != nil {
		c.warn(err)
		return model.ClassificationResult{
			Scores:   c.Classify(ctx, transcript),
			Segments: []model.Segment{},
		}
	}
	return model.ClassificationResult{Scores: scores, Segments: segments}
}

// run executes the pipeline once. Stage names in the wrapped errors are
// what operators see in the warning log.
func (c *Classifier) run(ctx context.Context, transcript string, withSegments bool) (model.ScoreVector, []model.Segment, error) {
	if strings.TrimSpace(transcript) == "" {
		return model.ScoreVector{}, []model.Segment{}, nil
	}

	queryVec, err := c.embedder.Embed(ctx, transcript)
	if err != nil {
		return model.ScoreVector{}, nil, fmt.Errorf("embed transcript: %w", err)
	}

	topK := c.cfg.TopK
	retrieved, err := c.store.FindSimilarByCategory(queryVec, topK)
	if err != nil {
		return model.ScoreVector{}, nil, fmt.Errorf("retrieve exemplars: %w", err)
	}

	var system, prompt string
	maxTokens := c.cfg.MaxTokens
	if withSegments {
		system, prompt = buildSegmentPrompt(transcript, retrieved, c.cfg.SegmentPromptK)
		maxTokens = c.cfg.SegmentMaxTokens
	} else {
		system, prompt = buildScorePrompt(transcript, retrieved)
	}

	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		System:      system,
		Prompt:      prompt,
		Model:       c.cfg.Model,
		MaxTokens:   maxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return model.ScoreVector{}, nil, fmt.Errorf("LLM call: %w", err)
	}

	raw, err := llm.ExtractJSON(resp.Content)
	if err != nil {
		return model.ScoreVector{}, nil, fmt.Errorf("parse response: %w", err)
	}

	scores, rawSegments, err := decodeResponse(raw)
	if err != nil {
		return model.ScoreVector{}, nil, fmt.Errorf("decode response: %w", err)
	}

	segments := []model.Segment{}
	if withSegments {
		segments = relocateSegments(transcript, rawSegments)
	}

	return scores, segments, nil
}

func (c *Classifier) warn(err error) {
	fmt.Fprintf(os.Stderr, "Warning: RAG classification failed: %v\n", err)
}

// rawSegment is the segment shape requested from the LLM. The model's
// offsets are requested but never trusted; text is relocated by literal
// substring search (LLMs are unreliable at character counting).
type rawSegment struct {
	Text       string `json:"text"`
	Category   string `json:"category"`
	StartIndex int    `json:"startIndex"`
	EndIndex   int    `json:"endIndex"`
}

// decodeResponse handles both response shapes: a flat score object, or
// {"scores": {...}, "segments": [...]}.
func decodeResponse(raw json.RawMessage) (model.ScoreVector, []rawSegment, error) {
	var payload struct {
		Scores   map[string]any `json:"scores"`
		Segments []rawSegment   `json:"segments"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return model.ScoreVector{}, nil, err
	}

	if payload.Scores != nil {
		return parseScores(payload.Scores), payload.Segments, nil
	}

	var flat map[string]any
	if err := json.Unmarshal(raw, &flat); err != nil {
		return model.ScoreVector{}, nil, err
	}
	return parseScores(flat), payload.Segments, nil
}

// scoreKeys are the accepted spellings per category, checked in order.
var scoreKeys = map[model.Category][]string{
	model.CategoryScience:    {"scienceTalk", "science"},
	model.CategorySocial:     {"socialTalk", "social"},
	model.CategoryLiterature: {"literatureTalk", "literature"},
	model.CategoryLanguage:   {"languageDevelopment", "language"},
}

// parseScores normalizes a raw score object: clamp to [0,100], round,
// non-numeric or missing values become 0.
func parseScores(payload map[string]any) model.ScoreVector {
	var scores model.ScoreVector
	for _, cat := range model.Categories() {
		for _, key := range scoreKeys[cat] {
			if v, ok := payload[key]; ok {
				scores.Set(cat, model.NormalizeScore(toFloat(v)))
				break
			}
		}
	}
	return scores
}

// toFloat coerces a JSON value to a float; anything non-numeric maps to
// NaN, which NormalizeScore turns into 0.
func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}
