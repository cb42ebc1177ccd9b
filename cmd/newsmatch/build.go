package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridianads/newsmatch/internal/corpus"
)

var buildInput string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the similarity index from a client-data file",
	Long: `Build the similarity index from the upstream client-data JSON file
and save it as a snapshot pair.

Landing pages are chunked and indexed one record per chunk; each news
article becomes one record. Clients with no fetched landing-page
content are skipped with a warning, not failed.

Examples:
  newsmatch build --input client_data_with_content.json
  newsmatch build --input clients.json --snapshot data/myindex`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildInput, "input", "client_data_with_content.json", "client data JSON file")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	clients, err := corpus.LoadClients(buildInput)
	if err != nil {
		return err
	}

	engine, closer, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer closer()

	stats, err := engine.BuildFromClients(cmd.Context(), clients)
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	if err := engine.Index().Save(cfg.Index.SnapshotPath); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	logger.Info("build complete",
		zap.String("snapshot", cfg.Index.SnapshotPath),
		zap.Int("records", stats.Total()),
	)
	fmt.Printf("Indexed %d records (%d landing-page chunks, %d news articles)\n",
		stats.Total(), stats.LandingPageChunks, stats.NewsArticles)
	if skipped := stats.SkippedClients + stats.SkippedArticles; skipped > 0 {
		fmt.Printf("Skipped %d clients and %d articles with missing content\n",
			stats.SkippedClients, stats.SkippedArticles)
	}
	fmt.Printf("Snapshot saved to %s{.vectors,.meta.json}\n", cfg.Index.SnapshotPath)
	return nil
}
