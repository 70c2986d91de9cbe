package embedding

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/bainum-project/talkscore/internal/model"
)

// OpenAIClient implements Client using the OpenAI embeddings API.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIClient creates a new OpenAI embedding client.
func NewOpenAIClient(cfg model.EmbeddingConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("embedding: OpenAI API key is required: %w", model.ErrNotConfigured)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("embedding: model identifier is required: %w", model.ErrNotConfigured)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		timeout: timeout,
	}, nil
}

// Model returns the embedding model identifier.
func (c *OpenAIClient) Model() string {
	return c.model
}

// CreateEmbeddings calls the embeddings API once for all inputs.
func (c *OpenAIClient) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateEmbeddings(ctxWithTimeout, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI embeddings API error: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("OpenAI embeddings API returned %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	// The API may return data out of order; Index is authoritative.
	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("OpenAI embeddings API returned invalid index %d", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}

	return vectors, nil
}
