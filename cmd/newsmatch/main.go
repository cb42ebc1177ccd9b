// Package main implements the newsmatch CLI: building the similarity
// index from client documents and querying it for relevant news.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridianads/newsmatch/internal/chunker"
	"github.com/meridianads/newsmatch/internal/config"
	"github.com/meridianads/newsmatch/internal/embeddings"
	"github.com/meridianads/newsmatch/internal/index"
	"github.com/meridianads/newsmatch/internal/keywords"
	"github.com/meridianads/newsmatch/internal/logging"
	"github.com/meridianads/newsmatch/internal/retrieval"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var (
	// configPath is the --config flag value
	configPath string
	// snapshotPath overrides index.snapshot_path when set
	snapshotPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "newsmatch",
	Short: "Semantic news-relevance retrieval for client landing pages",
	Long: `newsmatch builds a cosine-similarity index over client landing pages
and scraped news articles, and finds the news most relevant to each
client's page.

Typical workflow:

  # Build the index from the upstream client-data file
  newsmatch build --input client_data_with_content.json

  # Ask for news relevant to one client
  newsmatch relevant "Global Asset Partners" -k 5

  # Free-form semantic search
  newsmatch search "fed rate decision" --kind news_article

  # Serve the HTTP API
  newsmatch serve`,
	Version: fmt.Sprintf("%s (commit %s, built %s)", version, gitCommit, buildDate),
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "", "snapshot path prefix (overrides config)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(relevantCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exploreCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("newsmatch %s\n  commit: %s\n  built:  %s\n", version, gitCommit, buildDate)
	},
}

// setup loads config and builds the logger shared by all commands.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if snapshotPath != "" {
		cfg.Index.SnapshotPath = snapshotPath
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// newEngine wires the provider, index, chunker, and keyword extractor.
// The returned closer releases the embedding provider.
func newEngine(cfg *config.Config, logger *zap.Logger) (*retrieval.Engine, func() error, error) {
	provider, err := embeddings.NewProvider(embeddings.ProviderConfig{
		Provider:        cfg.Embeddings.Provider,
		Model:           cfg.Embeddings.Model,
		BaseURL:         cfg.Embeddings.BaseURL,
		CacheDir:        cfg.Embeddings.CacheDir,
		Timeout:         cfg.Embeddings.Timeout,
		RequestInterval: cfg.Embeddings.RequestInterval,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("initializing embedding provider: %w", err)
	}

	var p embeddings.Provider = provider
	if cfg.Embeddings.CacheTTL > 0 {
		p = embeddings.NewCached(provider, cfg.Embeddings.CacheTTL)
	}

	ix := index.New(p, logger.Named("index"),
		index.WithOverfetchFactor(cfg.Index.OverfetchFactor))

	ext := keywords.New()
	logger.Debug("keyword extractor selected", zap.String("tier", ext.Name()))

	engine := retrieval.New(ix, chunker.New(cfg.Index.ChunkBudget), ext, logger.Named("retrieval"))
	return engine, p.Close, nil
}

// loadedEngine is newEngine plus a snapshot load, for query commands.
func loadedEngine(cfg *config.Config, logger *zap.Logger) (*retrieval.Engine, func() error, error) {
	engine, closer, err := newEngine(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := engine.Index().Load(cfg.Index.SnapshotPath); err != nil {
		closer()
		return nil, nil, fmt.Errorf("loading snapshot %s: %w (run 'newsmatch build' first)", cfg.Index.SnapshotPath, err)
	}
	return engine, closer, nil
}
