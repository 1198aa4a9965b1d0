// ABOUTME: Cobra command for interactive apod configuration.
// ABOUTME: Launches a bubbletea TUI wizard to set the NASA API key and timezone.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/harper/apod/internal/config"
	"github.com/harper/apod/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:         "setup",
	Short:       "Configure NASA API key and timezone",
	Long:        "Interactive wizard to set the NASA API key and the timezone that decides what today is.",
	Annotations: map[string]string{skipRuntime: "true"},
	RunE:        runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	// Read the file only so environment overrides are not written back.
	path := config.GetConfigPath()
	cfg, err := config.LoadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	model := tui.NewSetupModel(cfg.APIKey, cfg.Timezone)

	p := tea.NewProgram(model)
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		fmt.Fprintln(cmd.OutOrStdout(), "Setup canceled.")
		return nil
	}

	cfg.APIKey, cfg.Timezone = final.Result()

	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", path)
	return nil
}
