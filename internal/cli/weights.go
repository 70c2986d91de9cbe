package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bainum-project/talkscore/internal/classify"
)

// weightsCmd represents the weights command group
var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Inspect or change the hybrid score weights",
	Long: `The combined score is a weighted average of the RAG and keyword
scores. Weights are normalized to sum to 1; changing them affects
future assessments only, never stored reports.`,
}

var weightsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective weight split",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		h := classify.NewHybrid(cfg.Scoring.RAGWeight, cfg.Scoring.KeywordWeight)
		rag, kw := h.Weights()

		fmt.Printf("RAG weight:     %.2f\n", rag)
		fmt.Printf("Keyword weight: %.2f\n", kw)
		return nil
	},
}

var weightsSetCmd = &cobra.Command{
	Use:   "set <rag> <keyword>",
	Short: "Persist a new weight split to the config file",
	Long: `Set writes the given weight pair to the config file. The pair is
normalized before use; "set 3 1" and "set 0.75 0.25" are equivalent.

Example:
  talkscore weights set 0.6 0.4`,
	Args: cobra.ExactArgs(2),
	RunE: runWeightsSet,
}

func init() {
	rootCmd.AddCommand(weightsCmd)
	weightsCmd.AddCommand(weightsShowCmd)
	weightsCmd.AddCommand(weightsSetCmd)
}

func runWeightsSet(cmd *cobra.Command, args []string) error {
	rag, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid RAG weight %q: %w", args[0], err)
	}
	kw, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid keyword weight %q: %w", args[1], err)
	}
	if rag < 0 || kw < 0 || rag+kw <= 0 {
		return fmt.Errorf("weights must be non-negative and not both zero")
	}

	// Store the normalized pair so the config file reads unambiguously.
	sum := rag + kw
	rag /= sum
	kw /= sum

	viper.Set("scoring.rag_weight", rag)
	viper.Set("scoring.keyword_weight", kw)

	if err := viper.WriteConfig(); err != nil {
		// No config file yet; create one in the default location.
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return fmt.Errorf("write config: %w", err)
		}
		configDir := home + "/.talkscore"
		if mkErr := os.MkdirAll(configDir, 0o755); mkErr != nil {
			return fmt.Errorf("create config directory: %w", mkErr)
		}
		if wErr := viper.WriteConfigAs(configDir + "/config.yaml"); wErr != nil {
			return fmt.Errorf("write config: %w", wErr)
		}
	}

	fmt.Printf("✓ Weights set: RAG %.2f / keyword %.2f\n", rag, kw)
	return nil
}
