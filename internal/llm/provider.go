// Package llm provides the chat-completion capability the RAG
// classifier consumes. Providers return raw text; all JSON extraction
// and validation happens on the caller's side (see parse.go).
package llm

import (
	"context"
	"time"

	"github.com/bainum-project/talkscore/internal/model"
)

// Provider defines the interface for LLM providers.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Complete sends a system + user prompt and returns the raw
	// completion text. No structured output is guaranteed.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and
	// reachable.
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains the input for a completion call.
type CompletionRequest struct {
	// System is the system prompt (role framing).
	System string

	// Prompt is the user prompt.
	Prompt string

	// Model overrides the configured model when non-empty.
	Model string

	// MaxTokens bounds the response length.
	MaxTokens int

	// Temperature overrides the configured temperature when > 0.
	Temperature float32
}

// CompletionResponse contains the raw completion output.
type CompletionResponse struct {
	// Content is the raw response text.
	Content string

	// Model is the model that generated the response.
	Model string

	// TokensUsed tracks token consumption.
	TokensUsed int
}

// Config holds LLM provider configuration.
type Config struct {
	// Provider name: "openai", "ollama", "".
	Provider string

	// Model name (provider-specific).
	Model string

	// APIKey for OpenAI.
	APIKey string

	// BaseURL for custom endpoints (e.g. Ollama).
	BaseURL string

	// Timeout for API requests.
	Timeout time.Duration

	// Temperature for generation; the classifier wants it low for
	// reproducibility.
	Temperature float32

	// MaxTokens for response generation.
	MaxTokens int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:    "",
		Model:       "",
		Timeout:     60 * time.Second,
		Temperature: 0.3,
		MaxTokens:   500,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config.
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:    mc.Provider,
		Model:       mc.Model,
		APIKey:      mc.APIKey,
		BaseURL:     mc.BaseURL,
		Timeout:     mc.Timeout,
		Temperature: mc.Temperature,
		MaxTokens:   mc.MaxTokens,
	}
}
