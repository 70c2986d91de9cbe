package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bainum-project/talkscore/internal/cache"
	"github.com/bainum-project/talkscore/internal/model"
)

// mockClient implements Client for testing.
type mockClient struct {
	calls    [][]string
	vectors  map[string][]float32
	err      error
	modelTag string
}

func (m *mockClient) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	m.calls = append(m.calls, texts)
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := m.vectors[t]; ok {
			out[i] = v
		} else {
			out[i] = []float32{1, 0, 0}
		}
	}
	return out, nil
}

func (m *mockClient) Model() string {
	if m.modelTag == "" {
		return "test-model"
	}
	return m.modelTag
}

func newTestGateway(t *testing.T, client Client) *Gateway {
	t.Helper()
	g, err := NewGateway(client, cache.NewMemoryCache(time.Hour, time.Hour), nil)
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}
	return g
}

func TestNewGateway_RequiresClient(t *testing.T) {
	_, err := NewGateway(nil, nil, nil)
	if !errors.Is(err, model.ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestGateway_Embed_InvalidInput(t *testing.T) {
	g := newTestGateway(t, &mockClient{})

	for _, input := range []string{"", "   ", "\n\t"} {
		_, err := g.Embed(context.Background(), input)
		if !errors.Is(err, model.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput for %q, got %v", input, err)
		}
	}
}

func TestGateway_Embed_CacheHit(t *testing.T) {
	client := &mockClient{}
	g := newTestGateway(t, client)

	first, err := g.Embed(context.Background(), "the plant grew")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	second, err := g.Embed(context.Background(), "the plant grew")
	if err != nil {
		t.Fatalf("Embed (cached): %v", err)
	}

	if len(client.calls) != 1 {
		t.Errorf("Expected 1 provider call, got %d", len(client.calls))
	}
	if len(first) != len(second) {
		t.Errorf("Cached vector differs in length: %d vs %d", len(first), len(second))
	}
}

func TestGateway_Embed_CacheKeyIsCaseFolded(t *testing.T) {
	client := &mockClient{}
	g := newTestGateway(t, client)

	if _, err := g.Embed(context.Background(), "The Plant Grew"); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if _, err := g.Embed(context.Background(), "the plant grew  "); err != nil {
		t.Fatalf("Embed: %v", err)
	}

	if len(client.calls) != 1 {
		t.Errorf("Expected case/whitespace variants to share a cache entry, got %d provider calls", len(client.calls))
	}

	// The provider must have received the trimmed original, not the
	// case-folded form.
	if got := client.calls[0][0]; got != "The Plant Grew" {
		t.Errorf("Expected provider to receive original casing, got %q", got)
	}
}

func TestGateway_EmbedBatch_PartitionsMisses(t *testing.T) {
	client := &mockClient{vectors: map[string][]float32{
		"a": {1, 0},
		"b": {0, 1},
		"c": {1, 1},
	}}
	g := newTestGateway(t, client)

	// Prime the cache with "b".
	if _, err := g.Embed(context.Background(), "b"); err != nil {
		t.Fatalf("Embed: %v", err)
	}

	vectors, err := g.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}

	if len(vectors) != 3 {
		t.Fatalf("Expected 3 vectors, got %d", len(vectors))
	}

	// One priming call plus exactly one call for the two misses.
	if len(client.calls) != 2 {
		t.Fatalf("Expected 2 provider calls total, got %d", len(client.calls))
	}
	if got := client.calls[1]; len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("Expected miss call [a c], got %v", got)
	}

	// Order must match input order despite the partition.
	if vectors[0][0] != 1 || vectors[0][1] != 0 {
		t.Errorf("vectors[0] = %v, want [1 0]", vectors[0])
	}
	if vectors[1][0] != 0 || vectors[1][1] != 1 {
		t.Errorf("vectors[1] = %v, want [0 1]", vectors[1])
	}
	if vectors[2][0] != 1 || vectors[2][1] != 1 {
		t.Errorf("vectors[2] = %v, want [1 1]", vectors[2])
	}
}

func TestGateway_EmbedBatch_EmptyElement(t *testing.T) {
	g := newTestGateway(t, &mockClient{})

	_, err := g.EmbedBatch(context.Background(), []string{"fine", "  "})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestGateway_Embed_ProviderError(t *testing.T) {
	wantErr := errors.New("rate limited")
	g := newTestGateway(t, &mockClient{err: wantErr})

	_, err := g.Embed(context.Background(), "anything")
	if !errors.Is(err, wantErr) {
		t.Errorf("Expected wrapped provider error, got %v", err)
	}
}
