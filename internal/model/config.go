package model

import "time"

// Config is the complete talkscore configuration. Values are resolved
// from (highest to lowest priority) CLI flags, TALKSCORE_* environment
// variables, the config file, and the defaults below.
type Config struct {
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	LLM         LLMConfig         `yaml:"llm"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
	Keyword     KeywordConfig     `yaml:"keyword"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	Cache       CacheConfig       `yaml:"cache"`
	Store       StoreConfig       `yaml:"store"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	Model             string        `yaml:"model"`               // embedding model identifier
	APIKey            string        `yaml:"api_key,omitempty"`   // usually from OPENAI_API_KEY
	BaseURL           string        `yaml:"base_url,omitempty"`  // custom endpoint
	Timeout           time.Duration `yaml:"timeout"`             // per provider call
	RequestsPerSecond float64       `yaml:"requests_per_second"` // provider rate limit
	Burst             int           `yaml:"burst"`
}

// LLMConfig configures the chat-completion provider.
type LLMConfig struct {
	Provider         string        `yaml:"provider"` // "openai", "ollama", "" = disabled
	Model            string        `yaml:"model"`
	APIKey           string        `yaml:"api_key,omitempty"`
	BaseURL          string        `yaml:"base_url,omitempty"`
	Timeout          time.Duration `yaml:"timeout"`
	Temperature      float32       `yaml:"temperature"`
	MaxTokens        int           `yaml:"max_tokens"`         // scores-only responses
	SegmentMaxTokens int           `yaml:"segment_max_tokens"` // segment responses are verbose
}

// RetrievalConfig configures exemplar retrieval.
type RetrievalConfig struct {
	TopK           int `yaml:"top_k"`            // exemplars retrieved per category
	SegmentPromptK int `yaml:"segment_prompt_k"` // exemplars quoted in segment prompts
}

// KeywordConfig configures the keyword scorer.
type KeywordConfig struct {
	// MaxPerCategory is the saturation denominator: a category reaches
	// 100 at this many keyword occurrences.
	MaxPerCategory int `yaml:"max_per_category"`
}

// ScoringConfig configures the hybrid combiner.
type ScoringConfig struct {
	RAGWeight     float64 `yaml:"rag_weight"`
	KeywordWeight float64 `yaml:"keyword_weight"`
}

// CacheConfig configures embedding caching.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"` // disk tier; empty = memory only
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// StoreConfig configures exemplar persistence.
type StoreConfig struct {
	Path string `yaml:"path"` // bbolt file; empty = in-memory only
}

// ConcurrencyConfig configures batch processing.
type ConcurrencyConfig struct {
	Workers   int `yaml:"workers"`    // batch classification workers
	EmbedSize int `yaml:"embed_size"` // texts per embedding batch call
}

// OutputConfig configures rendering.
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults. The retrieval and keyword
// knobs are tunable; nothing downstream assumes these exact values.
func DefaultConfig() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Model:             "text-embedding-3-small",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		LLM: LLMConfig{
			Provider:         "openai",
			Model:            "gpt-4o-mini",
			Timeout:          60 * time.Second,
			Temperature:      0.3,
			MaxTokens:        500,
			SegmentMaxTokens: 2000,
		},
		Retrieval: RetrievalConfig{
			TopK:           5,
			SegmentPromptK: 3,
		},
		Keyword: KeywordConfig{
			MaxPerCategory: 20,
		},
		Scoring: ScoringConfig{
			RAGWeight:     0.7,
			KeywordWeight: 0.3,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: time.Hour,
			DiskTTL:   30 * 24 * time.Hour,
		},
		Store: StoreConfig{
			Path: "", // set via config/flag; empty keeps exemplars in memory
		},
		Concurrency: ConcurrencyConfig{
			Workers:   4,
			EmbedSize: 64,
		},
		Output: OutputConfig{
			Verbose: false,
		},
	}
}
