package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bainum-project/talkscore/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "talkscore",
	Short: "Talkscore - developmental classification of children's speech transcripts",
	Long: `Talkscore assesses transcripts of children's classroom speech across
four developmental categories: science talk, social talk, literature
talk, and language development.

Each transcript is scored two ways: a deterministic keyword scorer that
always runs, and a retrieval-augmented LLM classifier grounded on
curated exemplar utterances. The two are combined into a weighted
hybrid score; when the LLM path is unavailable or fails, keyword scores
carry the assessment alone.

Scores are screening signals for educators, not diagnoses.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Talkscore.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("talkscore v0.2.1")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.talkscore/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	// .env in the working directory supplies API keys during local
	// development; absence is not an error.
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.talkscore")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match TALKSCORE_*
	viper.SetEnvPrefix("TALKSCORE")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// applyViper overlays config-file and environment values onto cfg.
// Only keys the user actually set are applied.
func applyViper(cfg *model.Config) {
	set := func(key string, apply func()) {
		if viper.IsSet(key) {
			apply()
		}
	}

	set("embedding.model", func() { cfg.Embedding.Model = viper.GetString("embedding.model") })
	set("embedding.base_url", func() { cfg.Embedding.BaseURL = viper.GetString("embedding.base_url") })
	set("embedding.timeout", func() { cfg.Embedding.Timeout = viper.GetDuration("embedding.timeout") })
	set("embedding.requests_per_second", func() { cfg.Embedding.RequestsPerSecond = viper.GetFloat64("embedding.requests_per_second") })
	set("embedding.burst", func() { cfg.Embedding.Burst = viper.GetInt("embedding.burst") })

	set("llm.provider", func() { cfg.LLM.Provider = viper.GetString("llm.provider") })
	set("llm.model", func() { cfg.LLM.Model = viper.GetString("llm.model") })
	set("llm.base_url", func() { cfg.LLM.BaseURL = viper.GetString("llm.base_url") })
	set("llm.timeout", func() { cfg.LLM.Timeout = viper.GetDuration("llm.timeout") })
	set("llm.temperature", func() { cfg.LLM.Temperature = float32(viper.GetFloat64("llm.temperature")) })
	set("llm.max_tokens", func() { cfg.LLM.MaxTokens = viper.GetInt("llm.max_tokens") })
	set("llm.segment_max_tokens", func() { cfg.LLM.SegmentMaxTokens = viper.GetInt("llm.segment_max_tokens") })

	set("retrieval.top_k", func() { cfg.Retrieval.TopK = viper.GetInt("retrieval.top_k") })
	set("retrieval.segment_prompt_k", func() { cfg.Retrieval.SegmentPromptK = viper.GetInt("retrieval.segment_prompt_k") })

	set("keyword.max_per_category", func() { cfg.Keyword.MaxPerCategory = viper.GetInt("keyword.max_per_category") })

	set("scoring.rag_weight", func() { cfg.Scoring.RAGWeight = viper.GetFloat64("scoring.rag_weight") })
	set("scoring.keyword_weight", func() { cfg.Scoring.KeywordWeight = viper.GetFloat64("scoring.keyword_weight") })

	set("cache.enabled", func() { cfg.Cache.Enabled = viper.GetBool("cache.enabled") })
	set("cache.dir", func() { cfg.Cache.Dir = viper.GetString("cache.dir") })
	set("cache.memory_ttl", func() { cfg.Cache.MemoryTTL = viper.GetDuration("cache.memory_ttl") })
	set("cache.disk_ttl", func() { cfg.Cache.DiskTTL = viper.GetDuration("cache.disk_ttl") })

	set("store.path", func() { cfg.Store.Path = viper.GetString("store.path") })

	set("concurrency.workers", func() { cfg.Concurrency.Workers = viper.GetInt("concurrency.workers") })
	set("concurrency.embed_size", func() { cfg.Concurrency.EmbedSize = viper.GetInt("concurrency.embed_size") })

	set("output.verbose", func() { cfg.Output.Verbose = viper.GetBool("output.verbose") })
}
