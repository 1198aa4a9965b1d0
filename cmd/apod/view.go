// ABOUTME: View command launching the full-screen APOD browser
// ABOUTME: Runs the bubbletea viewer against the shared resolver

package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/harper/apod/internal/tui"
)

var viewCmd = &cobra.Command{
	Use:     "view",
	Aliases: []string{"browse"},
	Short:   "Browse pictures day by day",
	Long: `Open a full-screen viewer starting at the most recent picture.

Keys: ←/h previous day, →/l next day, t jump to today, r retry,
o open in browser, q quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		model := tui.NewViewerModel(cmd.Context(), resolver, openMedia)

		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
