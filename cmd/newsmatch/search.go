package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meridianads/newsmatch/internal/corpus"
)

var (
	searchK    int
	searchKind string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Run a general semantic search against the index",
	Long: `Run a free-form semantic search against the loaded snapshot.

Examples:
  newsmatch search fed policy
  newsmatch search "interest rates" --kind news_article -k 3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchK, "top", "k", 5, "number of results")
	searchCmd.Flags().StringVar(&searchKind, "kind", "", "filter by kind: landing_page or news_article")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	kind, err := corpus.ParseKind(searchKind)
	if err != nil {
		return err
	}

	engine, closer, err := loadedEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer closer()

	query := strings.Join(args, " ")
	results, err := engine.Search(cmd.Context(), query, searchK, kind)
	if err != nil {
		return err
	}

	printResults(results)
	return nil
}

// printResults renders search results best-first for the terminal.
func printResults(results []corpus.SearchResult) {
	if len(results) == 0 {
		fmt.Println("No results.")
		return
	}
	for i, r := range results {
		fmt.Printf("%2d. [%.3f] %-12s %s\n", i+1, r.Score, r.Kind, resultLine(r))
		if len(r.Keywords) > 0 {
			fmt.Printf("    keywords: %s\n", strings.Join(r.Keywords, ", "))
		}
	}
}

func resultLine(r corpus.SearchResult) string {
	if r.NewsArticle != nil {
		line := r.NewsArticle.Title
		if r.NewsArticle.Source != "" {
			line += " (" + r.NewsArticle.Source + ")"
		}
		return line
	}
	content := r.Content
	if len(content) > 80 {
		content = content[:80] + "..."
	}
	return fmt.Sprintf("%s: %s", r.Owner, content)
}
