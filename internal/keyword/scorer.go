// Package keyword implements the deterministic keyword-frequency scorer.
// It is the fallback path of the hybrid pipeline: no external calls, no
// hidden state, identical output for identical input.
package keyword

import (
	"regexp"
	"strings"

	"github.com/bainum-project/talkscore/internal/model"
)

// DefaultMaxPerCategory is the saturation denominator: a category scores
// 100 once its keywords occur this many times.
const DefaultMaxPerCategory = 20

type pattern struct {
	keyword string
	re      *regexp.Regexp
}

// Scorer counts category keyword occurrences in a transcript and maps
// the counts onto 0-100 with linear saturation.
type Scorer struct {
	maxPerCategory int
	patterns       map[model.Category][]pattern
}

// NewScorer compiles the vocabulary. maxPerCategory <= 0 selects the
// default.
func NewScorer(maxPerCategory int) *Scorer {
	if maxPerCategory <= 0 {
		maxPerCategory = DefaultMaxPerCategory
	}

	patterns := make(map[model.Category][]pattern, len(vocabulary))
	for cat, words := range vocabulary {
		compiled := make([]pattern, 0, len(words))
		for _, w := range words {
			compiled = append(compiled, pattern{keyword: w, re: compile(w)})
		}
		patterns[cat] = compiled
	}

	return &Scorer{
		maxPerCategory: maxPerCategory,
		patterns:       patterns,
	}
}

// compile builds a case-insensitive, word-boundary pattern. Multi-word
// phrases tolerate any run of whitespace between their words.
func compile(keyword string) *regexp.Regexp {
	words := strings.Fields(keyword)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b` + strings.Join(words, `\s+`) + `\b`)
}

// Score counts keyword occurrences per category and returns saturated
// 0-100 scores. Empty or whitespace-only input yields the zero vector.
func (s *Scorer) Score(transcript string) model.ScoreVector {
	scores, _ := s.ScoreDetail(transcript)
	return scores
}

// ScoreDetail additionally reports which keywords matched and how often,
// for the dashboard's frequency displays.
func (s *Scorer) ScoreDetail(transcript string) (model.ScoreVector, map[model.Category][]model.KeywordHit) {
	var scores model.ScoreVector
	detail := make(map[model.Category][]model.KeywordHit)

	if strings.TrimSpace(transcript) == "" {
		return scores, detail
	}

	for _, cat := range model.Categories() {
		total := 0
		for _, p := range s.patterns[cat] {
			n := len(p.re.FindAllStringIndex(transcript, -1))
			if n == 0 {
				continue
			}
			total += n
			detail[cat] = append(detail[cat], model.KeywordHit{Keyword: p.keyword, Count: n})
		}
		scores.Set(cat, saturate(total, s.maxPerCategory))
	}

	return scores, detail
}

// saturate maps a raw count onto 0-100 linearly, capping at 100.
func saturate(count, maxPerCategory int) int {
	return model.NormalizeScore(float64(count) / float64(maxPerCategory) * 100)
}
