// ABOUTME: Tests for version command
// ABOUTME: Verifies version information display

package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionVariables(t *testing.T) {
	// Set at build time via ldflags, but defaults must be non-empty
	if Version == "" {
		t.Error("expected Version to be set")
	}
	if Commit == "" {
		t.Error("expected Commit to be set")
	}
	if BuildDate == "" {
		t.Error("expected BuildDate to be set")
	}
}

func TestVersionCommandOutput(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)

	out := buf.String()
	if !strings.HasPrefix(out, "apod "+Version) {
		t.Errorf("unexpected output %q", out)
	}
	if !strings.Contains(out, "commit:") {
		t.Error("expected commit line")
	}
}

func TestVersionSkipsRuntime(t *testing.T) {
	if versionCmd.Annotations[skipRuntime] != "true" {
		t.Error("version should not need config or network")
	}
}
