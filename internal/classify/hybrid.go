package classify

import (
	"sync"

	"github.com/bainum-project/talkscore/internal/model"
)

// Default weight split, also the fallback when a degenerate (0, 0)
// configuration is supplied.
const (
	DefaultRAGWeight     = 0.7
	DefaultKeywordWeight = 0.3
)

// Hybrid combines RAG and keyword scores by weighted average. Weights
// are normalized to sum to 1 at configuration time, never during
// scoring; reconfiguring does not retroactively affect results already
// combined.
type Hybrid struct {
	mu            sync.RWMutex
	ragWeight     float64
	keywordWeight float64
}

// NewHybrid creates a combiner with the given weight pair.
func NewHybrid(ragWeight, keywordWeight float64) *Hybrid {
	h := &Hybrid{}
	h.SetWeights(ragWeight, keywordWeight)
	return h
}

// SetWeights reconfigures the split. The pair is normalized so the two
// weights sum to 1; a degenerate pair (sum <= 0) falls back to the
// default split.
func (h *Hybrid) SetWeights(ragWeight, keywordWeight float64) {
	if ragWeight < 0 {
		ragWeight = 0
	}
	if keywordWeight < 0 {
		keywordWeight = 0
	}

	sum := ragWeight + keywordWeight
	if sum <= 0 {
		ragWeight = DefaultRAGWeight
		keywordWeight = DefaultKeywordWeight
		sum = 1
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.ragWeight = ragWeight / sum
	h.keywordWeight = keywordWeight / sum
}

// Weights returns the current normalized split.
func (h *Hybrid) Weights() (ragWeight, keywordWeight float64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ragWeight, h.keywordWeight
}

// Combine merges the two score sources per category. A nil source is
// treated as all zeros, never as an error; out-of-range inputs are
// clamped before weighting.
func (h *Hybrid) Combine(ragScores, keywordScores *model.ScoreVector) model.ScoreVector {
	ragWeight, keywordWeight := h.Weights()

	var rag, kw model.ScoreVector
	if ragScores != nil {
		rag = *ragScores
	}
	if keywordScores != nil {
		kw = *keywordScores
	}

	var combined model.ScoreVector
	for _, cat := range model.Categories() {
		r := float64(clampScore(rag.Get(cat)))
		k := float64(clampScore(kw.Get(cat)))
		combined.Set(cat, model.NormalizeScore(r*ragWeight+k*keywordWeight))
	}
	return combined
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
