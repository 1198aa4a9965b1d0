// ABOUTME: Tests for root command runtime setup
// ABOUTME: Verifies config flags, timezone handling, and logger levels

package main

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/harper/apod/internal/config"
)

// isolate points config lookups at an empty temp dir and restores globals.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{"NASA_API_KEY", "VITE_NASA_API_KEY", "APOD_TIMEZONE", "APOD_BASE_URL", "APOD_LOG_LEVEL", "APOD_TIMEOUT_SECONDS"} {
		t.Setenv(k, "")
	}

	oldKey, oldTZ, oldDebug := apiKeyFlag, timezoneFlag, debugFlag
	oldCfg, oldLogger, oldResolver := cfg, logger, resolver
	t.Cleanup(func() {
		apiKeyFlag, timezoneFlag, debugFlag = oldKey, oldTZ, oldDebug
		cfg, logger, resolver = oldCfg, oldLogger, oldResolver
	})
}

func TestInitRuntime_Flags(t *testing.T) {
	isolate(t)
	apiKeyFlag = "flag-key"
	timezoneFlag = "Asia/Tokyo"

	var logs bytes.Buffer
	if err := initRuntime(&logs); err != nil {
		t.Fatalf("initRuntime: %v", err)
	}

	if cfg.GetAPIKey() != "flag-key" {
		t.Errorf("api key = %q, want flag-key", cfg.GetAPIKey())
	}
	if resolver == nil {
		t.Fatal("expected resolver to be built")
	}
	if got := resolver.Location().String(); got != "Asia/Tokyo" {
		t.Errorf("location = %q, want Asia/Tokyo", got)
	}
}

func TestInitRuntime_InvalidTimezone(t *testing.T) {
	isolate(t)
	timezoneFlag = "Mars/Olympus_Mons"

	if err := initRuntime(&bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestNewLogger(t *testing.T) {
	c := &config.Config{LogLevel: "error"}

	if got := newLogger(&bytes.Buffer{}, c, false).GetLevel(); got != log.ErrorLevel {
		t.Errorf("level = %v, want error", got)
	}
	if got := newLogger(&bytes.Buffer{}, c, true).GetLevel(); got != log.DebugLevel {
		t.Errorf("level with --debug = %v, want debug", got)
	}
}

func TestNewLogger_WritesToGivenWriter(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, &config.Config{}, true)
	l.Debug("hello", "k", "v")
	if !bytes.Contains(buf.Bytes(), []byte("hello")) {
		t.Errorf("expected log output, got %q", buf.String())
	}
}
