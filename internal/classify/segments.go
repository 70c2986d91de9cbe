package classify

import (
	"sort"
	"strings"

	"github.com/bainum-project/talkscore/internal/model"
)

// relocateSegments turns LLM-reported segments into offset-verified
// ones. The model's text is trusted, its offsets are not: each segment
// is located by literal substring search in the original transcript.
// Segments whose text cannot be found verbatim, whose category is not
// one of the four, or whose span is degenerate are dropped.
func relocateSegments(transcript string, raw []rawSegment) []model.Segment {
	segments := make([]model.Segment, 0, len(raw))

	for _, rs := range raw {
		cat, ok := model.ParseCategory(rs.Category)
		if !ok {
			continue
		}
		if rs.Text == "" {
			continue
		}

		start := strings.Index(transcript, rs.Text)
		if start < 0 {
			continue
		}
		end := start + len(rs.Text)
		if end <= start {
			continue
		}

		segments = append(segments, model.Segment{
			Text:       rs.Text,
			Category:   cat,
			StartIndex: start,
			EndIndex:   end,
		})
	}

	return segments
}

// DedupeSegments resolves overlapping segments with a stable
// first-wins-by-start-index rule. The classifier returns raw, possibly
// overlapping segments; presentation layers that need non-overlapping
// highlights apply this.
func DedupeSegments(segments []model.Segment) []model.Segment {
	if len(segments) <= 1 {
		return segments
	}

	sorted := make([]model.Segment, len(segments))
	copy(sorted, segments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartIndex < sorted[j].StartIndex
	})

	out := sorted[:1]
	for _, s := range sorted[1:] {
		if s.StartIndex < out[len(out)-1].EndIndex {
			continue // overlaps an earlier-starting segment
		}
		out = append(out, s)
	}

	return out
}
