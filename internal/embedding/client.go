// Package embedding wraps the embedding provider behind a
// content-addressed cache and a rate limiter. The gateway never
// substitutes zero vectors on provider failure; callers decide the
// fallback policy.
package embedding

import "context"

// Client is the raw embedding capability. The model identifier is
// client configuration, not a per-call parameter; vectors from different
// models must never be compared.
type Client interface {
	// CreateEmbeddings returns one vector per input text, in input order.
	CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)

	// Model returns the embedding model identifier.
	Model() string
}
