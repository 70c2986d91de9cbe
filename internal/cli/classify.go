package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bainum-project/talkscore/internal/ingest"
	"github.com/bainum-project/talkscore/internal/model"
	"github.com/bainum-project/talkscore/internal/report"
)

var (
	outJSON       string
	outMD         string
	timeout       time.Duration
	withSegments  bool
	noRAG         bool
	noCache       bool
	noFooter      bool
	llmProvider   string
	llmModel      string
	storePath     string
	ragWeight     float64
	keywordWeight float64
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <transcript>",
	Short: "Assess a single transcript across the four developmental categories",
	Long: `Classify assesses one transcript file:
- Score deterministic keyword matches per category
- Embed the transcript and retrieve similar curated exemplars
- Ask the LLM for grounded 0-100 scores per category
- Combine both score sources into a weighted hybrid result

Plain-text and HTML transcript files are supported. When the LLM path
is disabled or fails, the keyword scores carry the assessment alone.

Example:
  talkscore classify session.txt
  talkscore classify session.txt --segments --json report.json --md report.md
  talkscore classify session.txt --no-rag
  talkscore classify session.txt --provider ollama --model llama3.2`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	// Output flags
	classifyCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	classifyCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	classifyCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Classification flags
	classifyCmd.Flags().BoolVar(&withSegments, "segments", false, "also extract per-category evidence segments")
	classifyCmd.Flags().BoolVar(&noRAG, "no-rag", false, "skip the LLM path, keyword scoring only")
	classifyCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall assessment timeout")
	classifyCmd.Flags().Float64Var(&ragWeight, "rag-weight", 0, "hybrid weight for RAG scores (0 = configured default)")
	classifyCmd.Flags().Float64Var(&keywordWeight, "keyword-weight", 0, "hybrid weight for keyword scores (0 = configured default)")

	// Provider flags
	classifyCmd.Flags().StringVar(&llmProvider, "provider", "", "LLM provider (openai, ollama; default from config)")
	classifyCmd.Flags().StringVar(&llmModel, "model", "", "LLM model name (default from config)")
	classifyCmd.Flags().StringVar(&storePath, "store", "", "exemplar store path (default from config)")
	classifyCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding cache")
}

func runClassify(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := loadConfig()
	applyClassifyFlags(cmd, cfg)

	transcript, err := ingest.ReadTranscript(path)
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Classifying: %s\n", path)
		fmt.Fprintf(os.Stderr, "RAG path: %v\n", !noRAG && cfg.LLM.Provider != "")
		fmt.Fprintf(os.Stderr, "Segments: %v\n", withSegments)
		fmt.Fprintln(os.Stderr)
	}

	a, err := buildApp(cfg, !noRAG)
	if err != nil {
		return err
	}
	defer a.Close()

	if verbose && a.store != nil {
		counts := a.store.CountsByCategory()
		total := 0
		for _, n := range counts {
			total += n
		}
		fmt.Fprintf(os.Stderr, "Exemplar store: %d exemplars loaded\n", total)
	}

	result := a.analyzer.Analyze(ctx, transcript, withSegments)
	result.Source = path

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Method: %s\n", result.Method)
		fmt.Fprintf(os.Stderr, "✓ Analysis took %dms\n", result.Timing.TotalMs)
		fmt.Fprintln(os.Stderr)
	}

	renderer := report.NewRenderer(!noFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(result, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(result, outMD); err != nil {
			return fmt.Errorf("render Markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
		}
	}

	renderer.RenderSummary(result)
	return nil
}

// applyClassifyFlags overlays command flags onto the resolved
// configuration. Weight flags apply individually: setting one leaves
// the other at its configured value.
func applyClassifyFlags(cmd *cobra.Command, cfg *model.Config) {
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if storePath != "" {
		cfg.Store.Path = storePath
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if cmd.Flags().Changed("rag-weight") {
		cfg.Scoring.RAGWeight = ragWeight
	}
	if cmd.Flags().Changed("keyword-weight") {
		cfg.Scoring.KeywordWeight = keywordWeight
	}
	cfg.Output.Verbose = verbose
}
