// ABOUTME: Tests for CLI commands
// ABOUTME: Tests command structure, flags, and subcommands

package main

import (
	"testing"
)

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "apod" {
		t.Errorf("expected Use to be 'apod', got %q", rootCmd.Use)
	}
	if rootCmd.Short == "" {
		t.Error("expected root command to have a short description")
	}
	for _, name := range []string{"api-key", "tz", "debug"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected --%s persistent flag to exist", name)
		}
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"show": false, "view": false, "open": false, "mcp": false,
		"setup": false, "version": false, "install-skill": false,
	}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected %q subcommand to be registered", name)
		}
	}
}

func TestShowCommand(t *testing.T) {
	if showCmd.Use != "show [date]" {
		t.Errorf("expected Use to be 'show [date]', got %q", showCmd.Use)
	}
	for _, name := range []string{"today", "yes", "json"} {
		if showCmd.Flags().Lookup(name) == nil {
			t.Errorf("expected --%s flag to exist", name)
		}
	}
	if err := showCmd.Args(showCmd, []string{"2024-01-01", "2024-01-02"}); err == nil {
		t.Error("expected show to reject more than one date")
	}
}

func TestOpenCommand(t *testing.T) {
	if openCmd.Use != "open [date]" {
		t.Errorf("expected Use to be 'open [date]', got %q", openCmd.Use)
	}
	if openCmd.Flags().Lookup("hd") == nil {
		t.Error("expected --hd flag to exist")
	}
}

func TestViewCommand(t *testing.T) {
	if viewCmd.Use != "view" {
		t.Errorf("expected Use to be 'view', got %q", viewCmd.Use)
	}
	if len(viewCmd.Aliases) == 0 {
		t.Error("expected view command to have aliases")
	}
}

func TestRuntimeFreeCommands(t *testing.T) {
	for _, c := range []string{"setup", "version", "install-skill"} {
		cmd, _, err := rootCmd.Find([]string{c})
		if err != nil {
			t.Fatalf("find %s: %v", c, err)
		}
		if cmd.Annotations[skipRuntime] != "true" {
			t.Errorf("%s should skip runtime setup", c)
		}
	}
	if showCmd.Annotations[skipRuntime] == "true" {
		t.Error("show needs the resolver")
	}
}
