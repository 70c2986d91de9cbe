package ingest

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"gopkg.in/yaml.v3"

	"github.com/bainum-project/talkscore/internal/model"
)

// Seed is one exemplar entry in a seed file, before embedding.
type Seed struct {
	Text       string   `yaml:"text"`
	Category   string   `yaml:"category"`
	Indicators []string `yaml:"indicators,omitempty"`
	Source     string   `yaml:"source,omitempty"`
}

// seedFile is the on-disk YAML layout.
type seedFile struct {
	Exemplars []Seed `yaml:"exemplars"`
}

// ReadSeeds parses a YAML seed file and validates every entry: text
// must be non-blank and the category one of the four. The entry index
// in the error is zero-based.
func ReadSeeds(path string) ([]Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if len(f.Exemplars) == 0 {
		return nil, fmt.Errorf("seed file %s contains no exemplars", path)
	}

	for i, seed := range f.Exemplars {
		if strings.TrimSpace(seed.Text) == "" {
			return nil, fmt.Errorf("exemplar %d: empty text", i)
		}
		if _, ok := model.ParseCategory(seed.Category); !ok {
			return nil, fmt.Errorf("exemplar %d: unknown category %q", i, seed.Category)
		}
	}

	return f.Exemplars, nil
}

// BatchEmbedder is the embedding surface the loader needs.
type BatchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// ExemplarWriter is the store surface the loader needs.
type ExemplarWriter interface {
	Upsert(ex model.Exemplar) (model.Exemplar, error)
}

// Loader embeds seed exemplars and writes them to the store.
type Loader struct {
	embedder BatchEmbedder
	store    ExemplarWriter
	// BatchSize caps how many seed texts go into one embedding call.
	BatchSize int
	// Progress draws a terminal progress bar during loading.
	Progress bool
}

// NewLoader creates a seed loader.
func NewLoader(embedder BatchEmbedder, store ExemplarWriter) (*Loader, error) {
	if embedder == nil || store == nil {
		return nil, fmt.Errorf("seed loader: %w", model.ErrNotConfigured)
	}
	return &Loader{
		embedder:  embedder,
		store:     store,
		BatchSize: 64,
	}, nil
}

// Load embeds the seeds batch by batch and upserts each into the
// store. Returns the number of exemplars written.
func (l *Loader) Load(ctx context.Context, seeds []Seed) (int, error) {
	if len(seeds) == 0 {
		return 0, nil
	}

	batchSize := l.BatchSize
	if batchSize <= 0 {
		batchSize = 64
	}

	var bar *progressbar.ProgressBar
	if l.Progress {
		bar = progressbar.Default(int64(len(seeds)), "embedding exemplars")
	}

	loaded := 0
	for start := 0; start < len(seeds); start += batchSize {
		end := start + batchSize
		if end > len(seeds) {
			end = len(seeds)
		}
		batch := seeds[start:end]

		texts := make([]string, len(batch))
		for i, seed := range batch {
			texts[i] = seed.Text
		}

		embeddings, err := l.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return loaded, fmt.Errorf("embed seed batch: %w", err)
		}

		for i, seed := range batch {
			cat, _ := model.ParseCategory(seed.Category)
			ex := model.Exemplar{
				Text:      seed.Text,
				Category:  cat,
				Embedding: embeddings[i],
				Metadata: model.ExemplarMetadata{
					Indicators: seed.Indicators,
					Source:     seed.Source,
				},
			}
			if _, err := l.store.Upsert(ex); err != nil {
				return loaded, fmt.Errorf("store exemplar %q: %w", truncate(seed.Text, 40), err)
			}
			loaded++
			if bar != nil {
				_ = bar.Add(1)
			}
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}
	return loaded, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
