package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/bainum-project/talkscore/internal/model"
)

// Renderer writes assessment reports as JSON, Markdown, and terminal
// summaries.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON to the given path.
func (r *Renderer) RenderJSON(report *model.AssessmentReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write JSON report: %w", err)
	}

	return nil
}

// RenderMarkdown writes a human-readable Markdown report to the given
// path.
func (r *Renderer) RenderMarkdown(report *model.AssessmentReport, path string) error {
	if err := os.WriteFile(path, []byte(r.Markdown(report)), 0o644); err != nil {
		return fmt.Errorf("write Markdown report: %w", err)
	}
	return nil
}

// Markdown renders the report as a Markdown document.
func (r *Renderer) Markdown(report *model.AssessmentReport) string {
	var b strings.Builder

	b.WriteString("# Transcript Assessment\n\n")
	if report.Source != "" {
		fmt.Fprintf(&b, "**Source:** %s\n\n", report.Source)
	}
	fmt.Fprintf(&b, "**Analyzed:** %s\n\n", report.AnalyzedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "**Words:** %d\n\n", report.WordCount)
	fmt.Fprintf(&b, "**Method:** %s", report.Method)
	if report.Method == model.MethodHybrid {
		fmt.Fprintf(&b, " (RAG %.0f%% / keyword %.0f%%)", report.Weights.RAG*100, report.Weights.Keyword*100)
	}
	b.WriteString("\n\n")

	b.WriteString("## Scores\n\n")
	if report.RAGScores != nil {
		b.WriteString("| Category | Keyword | RAG | Combined |\n")
		b.WriteString("|----------|---------|-----|----------|\n")
		for _, cat := range model.Categories() {
			fmt.Fprintf(&b, "| %s | %d | %d | **%d** |\n",
				cat.DisplayName(),
				report.KeywordScores.Get(cat),
				report.RAGScores.Get(cat),
				report.Combined.Get(cat))
		}
	} else {
		b.WriteString("| Category | Score |\n")
		b.WriteString("|----------|-------|\n")
		for _, cat := range model.Categories() {
			fmt.Fprintf(&b, "| %s | **%d** |\n", cat.DisplayName(), report.Combined.Get(cat))
		}
	}
	b.WriteString("\n")

	if len(report.Segments) > 0 {
		b.WriteString("## Evidence Segments\n\n")
		for _, seg := range report.Segments {
			fmt.Fprintf(&b, "- **%s:** %q (chars %d-%d)\n",
				seg.Category.DisplayName(), seg.Text, seg.StartIndex, seg.EndIndex)
		}
		b.WriteString("\n")
	}

	if len(report.KeywordDetail) > 0 {
		b.WriteString("## Matched Vocabulary\n\n")
		for _, cat := range model.Categories() {
			hits := report.KeywordDetail[cat]
			if len(hits) == 0 {
				continue
			}
			fmt.Fprintf(&b, "**%s:** ", cat.DisplayName())
			parts := make([]string, len(hits))
			for i, hit := range hits {
				parts[i] = fmt.Sprintf("%s (%d)", hit.Keyword, hit.Count)
			}
			b.WriteString(strings.Join(parts, ", "))
			b.WriteString("\n\n")
		}
	}

	if r.includeFooter {
		b.WriteString("---\n")
		fmt.Fprintf(&b, "*Generated by talkscore in %dms. Scores are screening signals, not diagnoses.*\n", report.Timing.TotalMs)
	}

	return b.String()
}

// RenderSummary prints a compact score summary to stdout.
func (r *Renderer) RenderSummary(report *model.AssessmentReport) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("  Transcript Assessment")
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println()
	if report.Source != "" {
		fmt.Printf("  Source:   %s\n", report.Source)
	}
	fmt.Printf("  Words:    %d\n", report.WordCount)
	fmt.Printf("  Method:   %s\n", report.Method)
	fmt.Println()
	for _, cat := range model.Categories() {
		fmt.Printf("  %-22s %3d/100  %s\n",
			cat.DisplayName(), report.Combined.Get(cat), scoreBar(report.Combined.Get(cat)))
	}
	fmt.Println()
}

// scoreBar renders a 20-character bar for a 0-100 score.
func scoreBar(score int) string {
	filled := score / 5
	return strings.Repeat("█", filled) + strings.Repeat("░", 20-filled)
}
