// Package cache provides the embedding cache tiers: a process-lifetime
// memory tier and an optional disk tier for reuse across restarts.
// Values are opaque bytes; the embedding gateway stores JSON-encoded
// vectors. Last-writer-wins on key collision is acceptable since the
// value for a given key is deterministic.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a content-addressed cache key from normalized text.
func Key(normalized string) string {
	hash := sha256.Sum256([]byte(normalized))
	return "talkscore:v1:" + hex.EncodeToString(hash[:])
}
