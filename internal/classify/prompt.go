package classify

import (
	"fmt"
	"strings"

	"github.com/bainum-project/talkscore/internal/exemplar"
	"github.com/bainum-project/talkscore/internal/model"
)

const systemPrompt = "You are an early childhood development specialist who scores " +
	"transcripts of children's classroom speech. You ground every score in the " +
	"reference examples provided and respond with JSON only."

// categoryDefinitions frame each category for the model. Order and
// wording are fixed so prompts are deterministic for a given
// transcript and retrieval result.
var categoryDefinitions = map[model.Category]string{
	model.CategoryScience:    "scientific vocabulary and reasoning: observation, experimentation, cause and effect, nature, measurement",
	model.CategorySocial:     "communication and interaction: emotions, sharing, cooperation, empathy, turn-taking",
	model.CategoryLiterature: "storytelling and narrative: books, characters, story structure, imagination, rhyme",
	model.CategoryLanguage:   "overall language growth: vocabulary breadth, sentence formation, questions, description",
}

// buildScorePrompt assembles the scores-only prompt: category
// definitions, the retrieved exemplars with similarity percentages,
// the transcript, and strict output-format instructions.
func buildScorePrompt(transcript string, retrieved map[model.Category][]exemplar.Scored) (system, prompt string) {
	var b strings.Builder

	b.WriteString("Score the transcript below from 0 to 100 for each developmental category.\n\n")
	b.WriteString("Categories:\n")
	for _, cat := range model.Categories() {
		fmt.Fprintf(&b, "- %s (%s): %s\n", cat.DisplayName(), cat, categoryDefinitions[cat])
	}

	b.WriteString("\nReference examples of scored speech, most similar first:\n")
	for _, cat := range model.Categories() {
		fmt.Fprintf(&b, "\n%s examples:\n", cat.DisplayName())
		examples := retrieved[cat]
		if len(examples) == 0 {
			b.WriteString("(none available)\n")
			continue
		}
		for _, ex := range examples {
			fmt.Fprintf(&b, "- [%.0f%% similar] %q\n", ex.Similarity*100, ex.Exemplar.Text)
		}
	}

	fmt.Fprintf(&b, "\nTranscript:\n%s\n", transcript)

	b.WriteString("\nRespond with a JSON object only, no extra text, in exactly this format:\n")
	b.WriteString(`{"scienceTalk": 0, "socialTalk": 0, "literatureTalk": 0, "languageDevelopment": 0}`)

	return systemPrompt, b.String()
}

// buildSegmentPrompt assembles the segment-mode prompt. It quotes fewer
// exemplars per category (plain list, no similarity figures) to leave
// token budget for the verbose segment output.
func buildSegmentPrompt(transcript string, retrieved map[model.Category][]exemplar.Scored, perCategory int) (system, prompt string) {
	var b strings.Builder

	b.WriteString("Score the transcript below from 0 to 100 for each developmental category, ")
	b.WriteString("and list the transcript excerpts that demonstrate each category.\n\n")
	b.WriteString("Categories:\n")
	for _, cat := range model.Categories() {
		fmt.Fprintf(&b, "- %s (%s): %s\n", cat.DisplayName(), cat, categoryDefinitions[cat])
	}

	b.WriteString("\nReference examples:\n")
	for _, cat := range model.Categories() {
		examples := retrieved[cat]
		if len(examples) > perCategory {
			examples = examples[:perCategory]
		}
		fmt.Fprintf(&b, "\n%s examples:\n", cat.DisplayName())
		if len(examples) == 0 {
			b.WriteString("(none available)\n")
			continue
		}
		for _, ex := range examples {
			fmt.Fprintf(&b, "- %q\n", ex.Exemplar.Text)
		}
	}

	fmt.Fprintf(&b, "\nTranscript:\n%s\n", transcript)

	b.WriteString("\nRespond with a JSON object only, no extra text, in exactly this format:\n")
	b.WriteString(`{"scores": {"scienceTalk": 0, "socialTalk": 0, "literatureTalk": 0, "languageDevelopment": 0}, ` +
		`"segments": [{"text": "exact excerpt copied verbatim from the transcript", "category": "science", "startIndex": 0, "endIndex": 0}]}`)
	b.WriteString("\nEvery segment text must be copied verbatim from the transcript, character for character.")

	return systemPrompt, b.String()
}
