package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	relevantK    int
	relevantFile string
)

var relevantCmd = &cobra.Command{
	Use:   "relevant <client>",
	Short: "Find news relevant to a client's landing page",
	Long: `Find the news articles most relevant to a client's landing page.

By default the landing-page text comes from the client's indexed
chunks; --file reads raw page text from a file instead.

Examples:
  newsmatch relevant "Global Asset Partners" -k 5
  newsmatch relevant "Global Asset Partners" --file landing.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runRelevant,
}

func init() {
	relevantCmd.Flags().IntVarP(&relevantK, "top", "k", 10, "number of results")
	relevantCmd.Flags().StringVar(&relevantFile, "file", "", "read landing-page text from file")
}

func runRelevant(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	engine, closer, err := loadedEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer closer()

	client := args[0]

	if relevantFile != "" {
		text, err := os.ReadFile(relevantFile)
		if err != nil {
			return fmt.Errorf("reading landing-page text: %w", err)
		}
		results, err := engine.FindRelevantNews(cmd.Context(), client, string(text), relevantK)
		if err != nil {
			return err
		}
		printResults(results)
		return nil
	}

	results, err := engine.FindRelevantNewsForClient(cmd.Context(), client, relevantK)
	if err != nil {
		return err
	}
	printResults(results)
	return nil
}
