package classify

import (
	"testing"

	"github.com/bainum-project/talkscore/internal/model"
)

func TestRelocateSegments(t *testing.T) {
	transcript := "The caterpillar turned into a butterfly. We took turns with the magnifying glass."

	raw := []rawSegment{
		{Text: "The caterpillar turned into a butterfly.", Category: "science", StartIndex: 5, EndIndex: 2},
		{Text: "We took turns", Category: "socialTalk"},
		{Text: "not present anywhere", Category: "science"},
		{Text: "We took turns", Category: "motor"},
		{Text: "", Category: "science"},
	}

	segments := relocateSegments(transcript, raw)

	if len(segments) != 2 {
		t.Fatalf("Expected 2 segments, got %d: %+v", len(segments), segments)
	}
	for _, seg := range segments {
		if transcript[seg.StartIndex:seg.EndIndex] != seg.Text {
			t.Errorf("Offsets don't slice back to text: %+v", seg)
		}
	}
	if segments[0].Category != model.CategoryScience {
		t.Errorf("First segment category = %s, want science", segments[0].Category)
	}
	if segments[1].Category != model.CategorySocial {
		t.Errorf("Second segment category = %s, want social", segments[1].Category)
	}
}

func TestDedupeSegments(t *testing.T) {
	segments := []model.Segment{
		{Text: "cc", Category: model.CategoryScience, StartIndex: 10, EndIndex: 20},
		{Text: "aa", Category: model.CategorySocial, StartIndex: 0, EndIndex: 8},
		{Text: "bb", Category: model.CategoryLiterature, StartIndex: 5, EndIndex: 12},
		{Text: "dd", Category: model.CategoryLanguage, StartIndex: 20, EndIndex: 25},
	}

	out := DedupeSegments(segments)

	// bb overlaps aa and is dropped; cc starts exactly where nothing
	// overlaps it; dd starts at cc's end, which is not an overlap.
	if len(out) != 3 {
		t.Fatalf("Expected 3 segments, got %d: %+v", len(out), out)
	}
	if out[0].Text != "aa" || out[1].Text != "cc" || out[2].Text != "dd" {
		t.Errorf("Unexpected survivors: %+v", out)
	}
	for i := 1; i < len(out); i++ {
		if out[i].StartIndex < out[i-1].EndIndex {
			t.Errorf("Segments %d and %d overlap: %+v", i-1, i, out)
		}
	}
}

func TestDedupeSegments_SmallInputs(t *testing.T) {
	if got := DedupeSegments(nil); len(got) != 0 {
		t.Errorf("Expected empty result for nil input, got %+v", got)
	}

	one := []model.Segment{{Text: "x", Category: model.CategoryScience, StartIndex: 3, EndIndex: 4}}
	if got := DedupeSegments(one); len(got) != 1 {
		t.Errorf("Expected single segment back, got %+v", got)
	}
}

func TestDedupeSegments_DoesNotMutateInput(t *testing.T) {
	segments := []model.Segment{
		{Text: "b", Category: model.CategoryScience, StartIndex: 10, EndIndex: 20},
		{Text: "a", Category: model.CategorySocial, StartIndex: 0, EndIndex: 8},
	}

	DedupeSegments(segments)

	if segments[0].Text != "b" || segments[1].Text != "a" {
		t.Errorf("Input slice reordered: %+v", segments)
	}
}
