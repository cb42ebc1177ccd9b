package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var contextK int

var contextCmd = &cobra.Command{
	Use:   "context <client> <topic>...",
	Short: "Gather landing-page and news context for a topic",
	Long: `Gather the contextual information downstream ad generation consumes:
the client's landing-page chunks nearest the topic, and the news
articles nearest the topic.

Example:
  newsmatch context "Global Asset Partners" rate cuts -k 3`,
	Args: cobra.MinimumNArgs(2),
	RunE: runContext,
}

func init() {
	contextCmd.Flags().IntVarP(&contextK, "top", "k", 5, "results per category")
}

func runContext(cmd *cobra.Command, args []string) error {
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
	topic := strings.Join(args[1:], " ")

	result, err := engine.ContextFor(cmd.Context(), client, topic, contextK)
	if err != nil {
		return err
	}

	fmt.Printf("Context for %s on %q\n\nLanding-page context:\n", result.ClientName, result.Topic)
	printResults(result.LandingPageContext)
	fmt.Println("\nRelevant news:")
	printResults(result.RelevantNews)
	return nil
}
