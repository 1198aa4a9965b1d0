// ABOUTME: Tests for the install-skill command
// ABOUTME: Covers directory creation, file writing, and overwrite scenarios

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSkillCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	skillDir := filepath.Join(tmpDir, ".claude", "skills", "apod")
	skillPath := filepath.Join(skillDir, "SKILL.md")

	if _, err := os.Stat(skillDir); !os.IsNotExist(err) {
		t.Fatal("skill directory should not exist before test")
	}

	if err := installSkillToPath(skillPath); err != nil {
		t.Fatalf("installSkillToPath failed: %v", err)
	}

	info, err := os.Stat(skillDir)
	if err != nil {
		t.Fatalf("skill directory was not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected skill directory to be a directory")
	}
}

func TestSkillFileContent(t *testing.T) {
	skillPath := filepath.Join(t.TempDir(), ".claude", "skills", "apod", "SKILL.md")

	if err := installSkillToPath(skillPath); err != nil {
		t.Fatalf("installSkillToPath failed: %v", err)
	}

	content, err := os.ReadFile(skillPath)
	if err != nil {
		t.Fatalf("failed to read skill file: %v", err)
	}
	contentStr := string(content)

	expectedSections := []string{
		"name: apod",
		"# apod",
		"## When to use apod",
		"mcp__apod__get_apod",
		"mcp__apod__check_today",
		"CLI commands",
	}
	for _, section := range expectedSections {
		if !strings.Contains(contentStr, section) {
			t.Errorf("skill file missing expected section: %q", section)
		}
	}

	if !strings.HasPrefix(contentStr, "---") {
		t.Error("skill file should start with YAML front matter (---)")
	}
}

func TestSkillOverwritesExisting(t *testing.T) {
	skillDir := filepath.Join(t.TempDir(), ".claude", "skills", "apod")
	skillPath := filepath.Join(skillDir, "SKILL.md")

	if err := os.MkdirAll(skillDir, 0755); err != nil {
		t.Fatalf("failed to create skill directory: %v", err)
	}
	originalContent := "# Old skill file content\nThis should be overwritten."
	if err := os.WriteFile(skillPath, []byte(originalContent), 0644); err != nil {
		t.Fatalf("failed to write original file: %v", err)
	}

	if err := installSkillToPath(skillPath); err != nil {
		t.Fatalf("installSkillToPath failed: %v", err)
	}

	content, err := os.ReadFile(skillPath)
	if err != nil {
		t.Fatalf("failed to read skill file: %v", err)
	}
	if string(content) == originalContent {
		t.Error("skill file should have been overwritten")
	}
	if !strings.Contains(string(content), "name: apod") {
		t.Error("skill file should contain new content")
	}
}

func TestSkillFilePermissions(t *testing.T) {
	skillPath := filepath.Join(t.TempDir(), ".claude", "skills", "apod", "SKILL.md")

	if err := installSkillToPath(skillPath); err != nil {
		t.Fatalf("installSkillToPath failed: %v", err)
	}

	info, err := os.Stat(skillPath)
	if err != nil {
		t.Fatalf("failed to stat skill file: %v", err)
	}
	if perm := info.Mode().Perm(); perm&0400 == 0 {
		t.Errorf("expected skill file to be readable by owner, got %v", perm)
	}
}
