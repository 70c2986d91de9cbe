package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bainum-project/talkscore/internal/model"
)

const seedYAML = `exemplars:
  - text: "The caterpillar turned into a butterfly"
    category: science
    indicators: [observation, transformation]
    source: curated-v1
  - text: "Can I have a turn with the blocks?"
    category: social
`

func TestReadSeeds(t *testing.T) {
	path := writeFile(t, t.TempDir(), "seeds.yaml", seedYAML)

	seeds, err := ReadSeeds(path)
	if err != nil {
		t.Fatalf("ReadSeeds: %v", err)
	}

	if len(seeds) != 2 {
		t.Fatalf("Expected 2 seeds, got %d", len(seeds))
	}
	if seeds[0].Category != "science" || len(seeds[0].Indicators) != 2 {
		t.Errorf("Unexpected first seed: %+v", seeds[0])
	}
	if seeds[1].Source != "" {
		t.Errorf("Expected empty source, got %q", seeds[1].Source)
	}
}

func TestReadSeeds_Invalid(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name    string
		content string
	}{
		{"bad category", "exemplars:\n  - text: hello\n    category: motor\n"},
		{"empty text", "exemplars:\n  - text: \"  \"\n    category: science\n"},
		{"no exemplars", "exemplars: []\n"},
		{"not yaml", "{{{{"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, dir, "seeds.yaml", tc.content)
			if _, err := ReadSeeds(path); err == nil {
				t.Error("Expected error")
			}
			_ = os.Remove(filepath.Join(dir, "seeds.yaml"))
		})
	}
}

type stubEmbedder struct {
	err   error
	calls int
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(len(texts[i])), 1, 0}
	}
	return out, nil
}

type stubStore struct {
	exemplars []model.Exemplar
	err       error
}

func (s *stubStore) Upsert(ex model.Exemplar) (model.Exemplar, error) {
	if s.err != nil {
		return model.Exemplar{}, s.err
	}
	s.exemplars = append(s.exemplars, ex)
	return ex, nil
}

func TestLoader_Load(t *testing.T) {
	embedder := &stubEmbedder{}
	store := &stubStore{}
	loader, err := NewLoader(embedder, store)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}

	seeds := []Seed{
		{Text: "The plant needs sunlight", Category: "science", Source: "curated-v1"},
		{Text: "Let's share the crayons", Category: "social"},
		{Text: "Once upon a time", Category: "literature"},
	}

	n, err := loader.Load(context.Background(), seeds)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if n != 3 || len(store.exemplars) != 3 {
		t.Fatalf("Expected 3 exemplars loaded, got n=%d stored=%d", n, len(store.exemplars))
	}
	if store.exemplars[0].Category != model.CategoryScience {
		t.Errorf("First exemplar category = %s", store.exemplars[0].Category)
	}
	if len(store.exemplars[0].Embedding) != 3 {
		t.Errorf("Embedding not attached: %+v", store.exemplars[0])
	}
	if store.exemplars[0].Metadata.Source != "curated-v1" {
		t.Errorf("Metadata lost: %+v", store.exemplars[0].Metadata)
	}
}

func TestLoader_LoadBatches(t *testing.T) {
	embedder := &stubEmbedder{}
	store := &stubStore{}
	loader, err := NewLoader(embedder, store)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	loader.BatchSize = 2

	seeds := []Seed{
		{Text: "a", Category: "science"},
		{Text: "b", Category: "science"},
		{Text: "c", Category: "science"},
		{Text: "d", Category: "science"},
		{Text: "e", Category: "science"},
	}

	n, err := loader.Load(context.Background(), seeds)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != 5 {
		t.Errorf("Expected 5 loaded, got %d", n)
	}
	if embedder.calls != 3 {
		t.Errorf("Expected 3 embedding batches, got %d", embedder.calls)
	}
}

func TestLoader_EmbeddingFailureStops(t *testing.T) {
	embedder := &stubEmbedder{err: errors.New("quota exceeded")}
	store := &stubStore{}
	loader, err := NewLoader(embedder, store)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}

	n, err := loader.Load(context.Background(), []Seed{{Text: "a", Category: "science"}})
	if err == nil {
		t.Fatal("Expected error")
	}
	if n != 0 || len(store.exemplars) != 0 {
		t.Errorf("Expected nothing stored, got n=%d stored=%d", n, len(store.exemplars))
	}
}

func TestNewLoader_RequiresDependencies(t *testing.T) {
	if _, err := NewLoader(nil, &stubStore{}); !errors.Is(err, model.ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
	if _, err := NewLoader(&stubEmbedder{}, nil); !errors.Is(err, model.ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}
