package cli

import (
	"fmt"
	"os"

	"golang.org/x/time/rate"

	"github.com/bainum-project/talkscore/internal/cache"
	"github.com/bainum-project/talkscore/internal/classify"
	"github.com/bainum-project/talkscore/internal/embedding"
	"github.com/bainum-project/talkscore/internal/exemplar"
	"github.com/bainum-project/talkscore/internal/keyword"
	"github.com/bainum-project/talkscore/internal/llm"
	"github.com/bainum-project/talkscore/internal/model"
)

// app bundles the wired components a command needs, plus the cleanup
// that releases the exemplar store.
type app struct {
	analyzer *classify.Analyzer
	gateway  *embedding.Gateway // nil when the RAG path is disabled
	store    *exemplar.Store    // nil when the RAG path is disabled
	cfg      *model.Config
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: close exemplar store: %v\n", err)
		}
	}
}

// buildApp wires the full analyzer from configuration. The RAG path is
// assembled only when an LLM provider is configured and ragEnabled is
// true; otherwise keyword scoring carries assessments alone.
func buildApp(cfg *model.Config, ragEnabled bool) (*app, error) {
	a := &app{cfg: cfg}

	kw := keyword.NewScorer(cfg.Keyword.MaxPerCategory)
	hybrid := classify.NewHybrid(cfg.Scoring.RAGWeight, cfg.Scoring.KeywordWeight)

	var rag *classify.Classifier
	if ragEnabled && cfg.LLM.Provider != "" {
		gateway, store, err := buildRAGDependencies(cfg)
		if err != nil {
			return nil, err
		}

		provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			a.store = store
			a.Close()
			return nil, fmt.Errorf("LLM provider: %w", err)
		}

		rag, err = classify.NewClassifier(gateway, store, provider, classify.RAGConfig{
			Model:            cfg.LLM.Model,
			TopK:             cfg.Retrieval.TopK,
			SegmentPromptK:   cfg.Retrieval.SegmentPromptK,
			MaxTokens:        cfg.LLM.MaxTokens,
			SegmentMaxTokens: cfg.LLM.SegmentMaxTokens,
			Temperature:      cfg.LLM.Temperature,
			Verbose:          cfg.Output.Verbose,
		})
		if err != nil {
			a.store = store
			a.Close()
			return nil, fmt.Errorf("classifier: %w", err)
		}

		a.gateway = gateway
		a.store = store
	}

	a.analyzer = classify.NewAnalyzer(kw, rag, hybrid)
	return a, nil
}

// buildRAGDependencies assembles the embedding gateway and exemplar
// store the classifier retrieves against.
func buildRAGDependencies(cfg *model.Config) (*embedding.Gateway, *exemplar.Store, error) {
	gateway, err := buildGateway(cfg)
	if err != nil {
		return nil, nil, err
	}

	var store *exemplar.Store
	if cfg.Store.Path != "" {
		store, err = exemplar.Open(cfg.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open exemplar store: %w", err)
		}
	} else {
		store = exemplar.NewStore()
	}

	return gateway, store, nil
}

// buildGateway assembles the embedding gateway: provider client, cache
// tiers, and rate limiter.
func buildGateway(cfg *model.Config) (*embedding.Gateway, error) {
	client, err := embedding.NewOpenAIClient(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("embedding client: %w", err)
	}

	var c cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			c = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		} else {
			c = cache.NewMemoryCache(cfg.Cache.MemoryTTL, cfg.Cache.MemoryTTL)
		}
	}

	var limiter *rate.Limiter
	if cfg.Embedding.RequestsPerSecond > 0 {
		burst := cfg.Embedding.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.Embedding.RequestsPerSecond), burst)
	}

	gateway, err := embedding.NewGateway(client, c, limiter)
	if err != nil {
		return nil, fmt.Errorf("embedding gateway: %w", err)
	}

	return gateway, nil
}

// loadConfig resolves the effective configuration: defaults, then the
// config file and TALKSCORE_* environment (via viper), then flags
// applied by the caller.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	applyViper(cfg)

	// API keys come from the environment, never from the config file.
	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.LLM.Provider == "openai" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.LLM.Provider == "ollama" {
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return cfg
}
