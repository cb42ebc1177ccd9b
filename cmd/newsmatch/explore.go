package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/meridianads/newsmatch/internal/tui"
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Explore the index interactively in the terminal",
	Long: `Open an interactive terminal explorer over the loaded snapshot.

Keys:
  enter  run the typed query
  tab    cycle the kind filter (all / news_article / landing_page)
  up/dn  move through results
  ctrl+c quit`,
	RunE: runExplore,
}

func runExplore(cmd *cobra.Command, args []string) error {
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

	p := tea.NewProgram(tui.New(engine), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running explorer: %w", err)
	}
	return nil
}
