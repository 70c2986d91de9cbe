// Package exemplar holds the category-labeled exemplar corpus and its
// nearest-neighbor retrieval. The corpus is small (tens to low hundreds
// of exemplars per category), so retrieval is a brute-force cosine scan;
// result ordering is the contract, not the search structure.
package exemplar

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bainum-project/talkscore/internal/model"
)

// Scored pairs an exemplar with its similarity to a query.
type Scored struct {
	Exemplar   model.Exemplar
	Similarity float64
}

type position struct {
	category model.Category
	idx      int
}

// Store holds exemplars in memory, optionally mirrored to a bbolt file
// (see Open). Reads are safe under concurrent use; writes are rare,
// operator-triggered bulk loads.
type Store struct {
	mu         sync.RWMutex
	db         *boltBackend // nil when memory-only
	dimension  int          // fixed by the first stored embedding
	byCategory map[model.Category][]model.Exemplar
	index      map[string]position // upsert key -> location
	seqs       map[string]uint64   // upsert key -> persistent sequence
	nextSeq    uint64
}

// NewStore creates an in-memory store with no persistence.
func NewStore() *Store {
	return &Store{
		byCategory: make(map[model.Category][]model.Exemplar),
		index:      make(map[string]position),
		seqs:       make(map[string]uint64),
		nextSeq:    1,
	}
}

// Upsert stores an exemplar, keyed by (text, category). Re-storing the
// same pair replaces the embedding and metadata in place; it never
// duplicates. The first exemplar fixes the embedding dimension; vectors
// of any other length are rejected, which also catches embeddings from
// a different model.
func (s *Store) Upsert(ex model.Exemplar) (model.Exemplar, error) {
	if ex.Text == "" {
		return model.Exemplar{}, fmt.Errorf("exemplar: empty text: %w", model.ErrInvalidInput)
	}
	if _, ok := model.ParseCategory(string(ex.Category)); !ok {
		return model.Exemplar{}, fmt.Errorf("exemplar: unknown category %q: %w", ex.Category, model.ErrInvalidInput)
	}
	if len(ex.Embedding) == 0 {
		return model.Exemplar{}, fmt.Errorf("exemplar: empty embedding: %w", model.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dimension == 0 {
		s.dimension = len(ex.Embedding)
	} else if len(ex.Embedding) != s.dimension {
		return model.Exemplar{}, fmt.Errorf("exemplar: embedding dimension %d does not match store dimension %d", len(ex.Embedding), s.dimension)
	}

	key := upsertKey(ex.Text, ex.Category)
	seq, existed := s.seqs[key]
	if !existed {
		seq = s.nextSeq
		s.nextSeq++
	}

	if s.db != nil {
		if err := s.db.put(seq, ex); err != nil {
			return model.Exemplar{}, fmt.Errorf("exemplar: persist: %w", err)
		}
	}

	if pos, ok := s.index[key]; ok {
		s.byCategory[pos.category][pos.idx] = ex
	} else {
		s.byCategory[ex.Category] = append(s.byCategory[ex.Category], ex)
		s.index[key] = position{category: ex.Category, idx: len(s.byCategory[ex.Category]) - 1}
		s.seqs[key] = seq
	}

	return ex, nil
}

// FindSimilarByCategory runs four independent top-K searches, one per
// category, so every category gets exemplar grounding even when another
// category's exemplars are globally closer. Each returned slice is
// sorted by descending similarity, at most topK long; equal similarities
// keep storage order.
func (s *Store) FindSimilarByCategory(query []float32, topK int) (map[model.Category][]Scored, error) {
	if topK <= 0 {
		topK = 1
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dimension != 0 && len(query) != s.dimension {
		return nil, fmt.Errorf("exemplar: query dimension %d does not match store dimension %d", len(query), s.dimension)
	}

	results := make(map[model.Category][]Scored, 4)
	for _, cat := range model.Categories() {
		pool := s.byCategory[cat]
		scored := make([]Scored, 0, len(pool))
		for _, ex := range pool {
			scored = append(scored, Scored{
				Exemplar:   ex,
				Similarity: cosineSimilarity(query, ex.Embedding),
			})
		}

		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Similarity > scored[j].Similarity
		})

		if len(scored) > topK {
			scored = scored[:topK]
		}
		results[cat] = scored
	}

	return results, nil
}

// CountsByCategory reports how many exemplars each category holds.
func (s *Store) CountsByCategory() map[model.Category]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[model.Category]int, 4)
	for _, cat := range model.Categories() {
		counts[cat] = len(s.byCategory[cat])
	}
	return counts
}

// Dimension returns the embedding dimension, 0 if the store is empty.
func (s *Store) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimension
}

// Clear removes every exemplar, including persisted ones.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		if err := s.db.clear(); err != nil {
			return fmt.Errorf("exemplar: clear: %w", err)
		}
	}

	s.byCategory = make(map[model.Category][]model.Exemplar)
	s.index = make(map[string]position)
	s.seqs = make(map[string]uint64)
	s.dimension = 0
	s.nextSeq = 1
	return nil
}

// Close releases the persistence backend, if any.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.close()
	s.db = nil
	return err
}

func upsertKey(text string, category model.Category) string {
	return string(category) + "\x00" + text
}
