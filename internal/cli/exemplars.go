package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bainum-project/talkscore/internal/exemplar"
	"github.com/bainum-project/talkscore/internal/ingest"
	"github.com/bainum-project/talkscore/internal/model"
)

var (
	loadTimeout   time.Duration
	exemplarStore string
)

// exemplarsCmd represents the exemplars command group
var exemplarsCmd = &cobra.Command{
	Use:   "exemplars",
	Short: "Manage the curated exemplar store",
	Long: `Manage the store of curated exemplar utterances the RAG classifier
retrieves against.

Exemplars are short, labeled examples of children's speech per
developmental category. They are loaded from YAML seed files, embedded
once, and persisted with their vectors.`,
}

var exemplarsLoadCmd = &cobra.Command{
	Use:   "load <seeds.yaml>",
	Short: "Embed and load exemplars from a YAML seed file",
	Long: `Load reads exemplar seeds from a YAML file, embeds each text, and
upserts the results into the store. Re-loading the same file is safe:
exemplars are deduplicated by text and category.

Seed file format:
  exemplars:
    - text: "The caterpillar turned into a butterfly"
      category: science
      indicators: [observation, transformation]
      source: curated-v1

Example:
  talkscore exemplars load seeds.yaml --store exemplars.db`,
	Args: cobra.ExactArgs(1),
	RunE: runExemplarsLoad,
}

var exemplarsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show exemplar counts per category",
	Args:  cobra.NoArgs,
	RunE:  runExemplarsStats,
}

var clearConfirmed bool

var exemplarsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all exemplars from the store",
	Args:  cobra.NoArgs,
	RunE:  runExemplarsClear,
}

func init() {
	rootCmd.AddCommand(exemplarsCmd)
	exemplarsCmd.AddCommand(exemplarsLoadCmd)
	exemplarsCmd.AddCommand(exemplarsStatsCmd)
	exemplarsCmd.AddCommand(exemplarsClearCmd)

	exemplarsCmd.PersistentFlags().StringVar(&exemplarStore, "store", "", "exemplar store path (default from config)")
	exemplarsLoadCmd.Flags().DurationVar(&loadTimeout, "timeout", 10*time.Minute, "total timeout for embedding and loading")
	exemplarsClearCmd.Flags().BoolVar(&clearConfirmed, "yes", false, "confirm deletion without prompting")
}

// openExemplarStore resolves the store path from flag or config and
// opens it. Stats and clear refuse to run without a persistent path:
// an in-memory store would be empty every time.
func openExemplarStore(cfg *model.Config) (*exemplar.Store, error) {
	path := exemplarStore
	if path == "" {
		path = cfg.Store.Path
	}
	if path == "" {
		return nil, fmt.Errorf("no exemplar store configured: set --store or store.path in the config file")
	}

	store, err := exemplar.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open exemplar store: %w", err)
	}
	return store, nil
}

func runExemplarsLoad(cmd *cobra.Command, args []string) error {
	seedPath := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	cfg := loadConfig()

	seeds, err := ingest.ReadSeeds(seedPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Read %d exemplar seeds from %s\n", len(seeds), seedPath)

	gateway, err := buildGateway(cfg)
	if err != nil {
		return err
	}

	store, err := openExemplarStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	loader, err := ingest.NewLoader(gateway, store)
	if err != nil {
		return err
	}
	loader.BatchSize = cfg.Concurrency.EmbedSize
	loader.Progress = true

	loaded, err := loader.Load(ctx, seeds)
	if err != nil {
		return fmt.Errorf("load exemplars (%d written before failure): %w", loaded, err)
	}

	fmt.Fprintf(os.Stderr, "✓ Loaded %d exemplars (embedding model: %s)\n", loaded, gateway.Model())
	printStoreStats(store)
	return nil
}

func runExemplarsStats(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	store, err := openExemplarStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	printStoreStats(store)
	return nil
}

func runExemplarsClear(cmd *cobra.Command, args []string) error {
	if !clearConfirmed {
		return fmt.Errorf("refusing to clear the exemplar store without --yes")
	}

	cfg := loadConfig()

	store, err := openExemplarStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Clear(); err != nil {
		return fmt.Errorf("clear exemplar store: %w", err)
	}

	fmt.Println("✓ Exemplar store cleared")
	return nil
}

func printStoreStats(store *exemplar.Store) {
	counts := store.CountsByCategory()
	total := 0

	fmt.Println()
	fmt.Println("Exemplar store:")
	for _, cat := range model.Categories() {
		fmt.Printf("  %-22s %d\n", cat.DisplayName()+":", counts[cat])
		total += counts[cat]
	}
	fmt.Printf("  %-22s %d\n", "Total:", total)
	if dim := store.Dimension(); dim > 0 {
		fmt.Printf("  %-22s %d\n", "Vector dimension:", dim)
	}
	fmt.Println()
}
