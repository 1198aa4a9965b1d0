// ABOUTME: Install Claude Code skill for apod
// ABOUTME: Embeds and installs the skill definition to ~/.claude/skills/

package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harper/apod/internal/config"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

var installSkillCmd = &cobra.Command{
	Use:   "install-skill",
	Short: "Install Claude Code skill",
	Long: `Install the apod skill for Claude Code.

This copies the skill definition to ~/.claude/skills/apod/
so Claude Code can use apod commands contextually.`,
	Annotations: map[string]string{skipRuntime: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		skillPath := filepath.Join(home, ".claude", "skills", "apod", "SKILL.md")
		if err := installSkillToPath(skillPath); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Installed apod skill to %s\n", skillPath)
		fmt.Fprintln(cmd.OutOrStdout(), "Claude Code will now recognize /apod commands.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installSkillCmd)
}

// installSkillToPath writes the embedded skill to skillPath, replacing any
// existing file.
func installSkillToPath(skillPath string) error {
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		return fmt.Errorf("failed to read embedded skill: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(skillPath), config.DefaultDirPerms); err != nil {
		return fmt.Errorf("failed to create skill directory: %w", err)
	}

	if err := os.WriteFile(skillPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write skill file: %w", err)
	}
	return nil
}
