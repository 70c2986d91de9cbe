package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/bainum-project/talkscore/internal/cache"
	"github.com/bainum-project/talkscore/internal/model"
)

// Gateway is the embedding entry point for the rest of the system. It
// validates input, serves repeats from the cache, and rate-limits the
// provider. Concurrent use is safe: both cache tiers tolerate
// last-writer-wins collisions.
type Gateway struct {
	client  Client
	cache   cache.Cache   // nil disables caching
	limiter *rate.Limiter // nil disables rate limiting
}

// NewGateway creates a gateway around the given client. A nil client is
// a deployment mistake and fails immediately.
func NewGateway(client Client, c cache.Cache, limiter *rate.Limiter) (*Gateway, error) {
	if client == nil {
		return nil, fmt.Errorf("embedding: client is required: %w", model.ErrNotConfigured)
	}
	return &Gateway{
		client:  client,
		cache:   c,
		limiter: limiter,
	}, nil
}

// Model returns the embedding model identifier in use.
func (g *Gateway) Model() string {
	return g.client.Model()
}

// Embed returns the embedding vector for a single text.
func (g *Gateway) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := g.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch returns one vector per text, in input order. Cached texts
// are served locally; all misses go to the provider in a single call.
func (g *Gateway) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("embedding: no texts given: %w", model.ErrInvalidInput)
	}

	trimmed := make([]string, len(texts))
	keys := make([]string, len(texts))
	for i, t := range texts {
		tt := strings.TrimSpace(t)
		if tt == "" {
			return nil, fmt.Errorf("embedding: text %d is empty: %w", i, model.ErrInvalidInput)
		}
		trimmed[i] = tt
		// Case-folded for the cache key only; the provider sees the
		// trimmed original.
		keys[i] = cache.Key(strings.ToLower(tt))
	}

	vectors := make([][]float32, len(texts))

	// Partition into cached and uncached.
	var missTexts []string
	var missIndex []int
	for i := range trimmed {
		if v, ok := g.cacheGet(keys[i]); ok {
			vectors[i] = v
			continue
		}
		missTexts = append(missTexts, trimmed[i])
		missIndex = append(missIndex, i)
	}

	if len(missTexts) == 0 {
		return vectors, nil
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("embedding: rate limit wait: %w", err)
		}
	}

	fresh, err := g.client.CreateEmbeddings(ctx, missTexts)
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	if len(fresh) != len(missTexts) {
		return nil, fmt.Errorf("embedding provider: got %d vectors for %d texts", len(fresh), len(missTexts))
	}

	for j, v := range fresh {
		i := missIndex[j]
		vectors[i] = v
		g.cacheSet(keys[i], v)
	}

	return vectors, nil
}

func (g *Gateway) cacheGet(key string) ([]float32, bool) {
	if g.cache == nil {
		return nil, false
	}
	data, ok := g.cache.Get(key)
	if !ok {
		return nil, false
	}
	var v []float32
	if err := json.Unmarshal(data, &v); err != nil {
		// Corrupted entry; drop it and re-embed.
		_ = g.cache.Delete(key)
		return nil, false
	}
	return v, true
}

func (g *Gateway) cacheSet(key string, v []float32) {
	if g.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = g.cache.Set(key, data, 0)
}
