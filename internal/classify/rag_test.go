package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/bainum-project/talkscore/internal/exemplar"
	"github.com/bainum-project/talkscore/internal/llm"
	"github.com/bainum-project/talkscore/internal/model"
)

// fakeEmbedder implements Embedder for testing.
type fakeEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.vec == nil {
		return []float32{1, 0, 0}, nil
	}
	return f.vec, nil
}

// fakeSearcher implements ExemplarSearcher for testing.
type fakeSearcher struct {
	results map[model.Category][]exemplar.Scored
	err     error
}

func (f *fakeSearcher) FindSimilarByCategory(query []float32, topK int) (map[model.Category][]exemplar.Scored, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.results == nil {
		return map[model.Category][]exemplar.Scored{}, nil
	}
	return f.results, nil
}

// fakeProvider implements llm.Provider for testing.
type fakeProvider struct {
	content  string
	err      error
	requests []llm.CompletionRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return true }

func (f *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.content, Model: "fake"}, nil
}

func newTestClassifier(t *testing.T, e Embedder, s ExemplarSearcher, p llm.Provider) *Classifier {
	t.Helper()
	c, err := NewClassifier(e, s, p, DefaultRAGConfig())
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}
	return c
}

func TestNewClassifier_RequiresDependencies(t *testing.T) {
	e := &fakeEmbedder{}
	s := &fakeSearcher{}
	p := &fakeProvider{}

	cases := []struct {
		name string
		e    Embedder
		s    ExemplarSearcher
		p    llm.Provider
	}{
		{"no embedder", nil, s, p},
		{"no store", e, nil, p},
		{"no provider", e, s, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewClassifier(tc.e, tc.s, tc.p, DefaultRAGConfig())
			if !errors.Is(err, model.ErrNotConfigured) {
				t.Errorf("Expected ErrNotConfigured, got %v", err)
			}
		})
	}
}

func TestClassifier_Classify_EmptyTranscript(t *testing.T) {
	p := &fakeProvider{content: `{"scienceTalk": 99}`}
	c := newTestClassifier(t, &fakeEmbedder{}, &fakeSearcher{}, p)

	scores := c.Classify(context.Background(), "   \n\t ")
	if !scores.IsZero() {
		t.Errorf("Expected zero vector for blank transcript, got %+v", scores)
	}
	if len(p.requests) != 0 {
		t.Errorf("Expected no LLM call for blank transcript, got %d", len(p.requests))
	}
}

func TestClassifier_Classify_HappyPath(t *testing.T) {
	p := &fakeProvider{content: `{"scienceTalk": 80, "socialTalk": 20, "literatureTalk": 10, "languageDevelopment": 55}`}
	c := newTestClassifier(t, &fakeEmbedder{}, &fakeSearcher{}, p)

	scores := c.Classify(context.Background(), "we planted seeds today")

	want := model.ScoreVector{Science: 80, Social: 20, Literature: 10, Language: 55}
	if scores != want {
		t.Errorf("Got %+v, want %+v", scores, want)
	}
}

func TestClassifier_Classify_NormalizesScores(t *testing.T) {
	// Out-of-range, fractional, non-numeric, and missing values.
	p := &fakeProvider{content: `{"scienceTalk": 150, "socialTalk": -5, "literatureTalk": "not a number", "languageDevelopment": 49.6}`}
	c := newTestClassifier(t, &fakeEmbedder{}, &fakeSearcher{}, p)

	scores := c.Classify(context.Background(), "transcript")

	want := model.ScoreVector{Science: 100, Social: 0, Literature: 0, Language: 50}
	if scores != want {
		t.Errorf("Got %+v, want %+v", scores, want)
	}
}

func TestClassifier_Classify_FencedResponse(t *testing.T) {
	p := &fakeProvider{content: "Here you go:\n```json\n{\"scienceTalk\": 30, \"socialTalk\": 0, \"literatureTalk\": 0, \"languageDevelopment\": 0}\n```"}
	c := newTestClassifier(t, &fakeEmbedder{}, &fakeSearcher{}, p)

	scores := c.Classify(context.Background(), "transcript")
	if scores.Science != 30 {
		t.Errorf("Expected fenced response to parse, got %+v", scores)
	}
}

func TestClassifier_Classify_GracefulDegradation(t *testing.T) {
	cases := []struct {
		name string
		c    *Classifier
	}{
		{"embedder fails", func() *Classifier {
			return mustClassifier(&fakeEmbedder{err: errors.New("boom")}, &fakeSearcher{}, &fakeProvider{content: "{}"})
		}()},
		{"retrieval fails", func() *Classifier {
			return mustClassifier(&fakeEmbedder{}, &fakeSearcher{err: errors.New("boom")}, &fakeProvider{content: "{}"})
		}()},
		{"LLM fails", func() *Classifier {
			return mustClassifier(&fakeEmbedder{}, &fakeSearcher{}, &fakeProvider{err: errors.New("boom")})
		}()},
		{"unparseable response", func() *Classifier {
			return mustClassifier(&fakeEmbedder{}, &fakeSearcher{}, &fakeProvider{content: "sorry, I can't help with that"})
		}()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			scores := tc.c.Classify(context.Background(), "any text")
			if !scores.IsZero() {
				t.Errorf("Expected zero vector, got %+v", scores)
			}
		})
	}
}

func mustClassifier(e Embedder, s ExemplarSearcher, p llm.Provider) *Classifier {
	c, err := NewClassifier(e, s, p, DefaultRAGConfig())
	if err != nil {
		panic(err)
	}
	return c
}

func TestClassifier_ClassifyWithSegments_VerbatimInvariant(t *testing.T) {
	transcript := "The plant grew tall. Then we read a story together."
	p := &fakeProvider{content: `{
		"scores": {"scienceTalk": 60, "socialTalk": 0, "literatureTalk": 40, "languageDevelopment": 0},
		"segments": [
			{"text": "The plant grew tall.", "category": "science", "startIndex": 999, "endIndex": 1},
			{"text": "we read a story together", "category": "literature", "startIndex": 0, "endIndex": 0}
		]
	}`}
	c := newTestClassifier(t, &fakeEmbedder{}, &fakeSearcher{}, p)

	result := c.ClassifyWithSegments(context.Background(), transcript)

	if len(result.Segments) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(result.Segments))
	}
	for _, seg := range result.Segments {
		if seg.StartIndex < 0 || seg.EndIndex > len(transcript) || seg.EndIndex <= seg.StartIndex {
			t.Errorf("Segment span invalid: %+v", seg)
		}
		if transcript[seg.StartIndex:seg.EndIndex] != seg.Text {
			t.Errorf("Segment not verbatim: %q vs %q", transcript[seg.StartIndex:seg.EndIndex], seg.Text)
		}
	}
	if result.Scores.Science != 60 || result.Scores.Literature != 40 {
		t.Errorf("Unexpected scores: %+v", result.Scores)
	}
}

func TestClassifier_ClassifyWithSegments_DropsInvalid(t *testing.T) {
	transcript := "We shared the blocks."
	p := &fakeProvider{content: `{
		"scores": {"socialTalk": 50},
		"segments": [
			{"text": "We shared the blocks.", "category": "emotional"},
			{"text": "this text is not in the transcript", "category": "social"},
			{"text": "", "category": "social"},
			{"text": "shared the blocks", "category": "social"}
		]
	}`}
	c := newTestClassifier(t, &fakeEmbedder{}, &fakeSearcher{}, p)

	result := c.ClassifyWithSegments(context.Background(), transcript)

	if len(result.Segments) != 1 {
		t.Fatalf("Expected 1 surviving segment, got %d: %+v", len(result.Segments), result.Segments)
	}
	if result.Segments[0].Category != model.CategorySocial {
		t.Errorf("Unexpected category: %s", result.Segments[0].Category)
	}
}

func TestClassifier_ClassifyWithSegments_FallsBackToScoresOnly(t *testing.T) {
	// Provider fails every call: segment mode falls back to scores-only,
	// which also fails, ending in the zero result -- but never an error.
	p := &fakeProvider{err: errors.New("model overloaded")}
	c := newTestClassifier(t, &fakeEmbedder{}, &fakeSearcher{}, p)

	result := c.ClassifyWithSegments(context.Background(), "any text")

	if !result.Scores.IsZero() {
		t.Errorf("Expected zero scores, got %+v", result.Scores)
	}
	if len(result.Segments) != 0 {
		t.Errorf("Expected no segments, got %d", len(result.Segments))
	}
	// Segment attempt plus scores-only fallback.
	if len(p.requests) != 2 {
		t.Errorf("Expected 2 LLM calls (segment + fallback), got %d", len(p.requests))
	}
}

func TestClassifier_SegmentModeUsesHigherTokenBudget(t *testing.T) {
	p := &fakeProvider{content: `{"scores": {}, "segments": []}`}
	cfg := DefaultRAGConfig()
	cfg.MaxTokens = 400
	cfg.SegmentMaxTokens = 1600
	c, err := NewClassifier(&fakeEmbedder{}, &fakeSearcher{}, p, cfg)
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}

	c.ClassifyWithSegments(context.Background(), "transcript")
	c.Classify(context.Background(), "transcript")

	if len(p.requests) != 2 {
		t.Fatalf("Expected 2 requests, got %d", len(p.requests))
	}
	if p.requests[0].MaxTokens != 1600 {
		t.Errorf("Segment request MaxTokens = %d, want 1600", p.requests[0].MaxTokens)
	}
	if p.requests[1].MaxTokens != 400 {
		t.Errorf("Score request MaxTokens = %d, want 400", p.requests[1].MaxTokens)
	}
}
