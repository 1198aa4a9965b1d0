// ABOUTME: Tests for configuration defaults
// ABOUTME: Verifies constants are properly defined

package config

import (
	"testing"
	"time"
)

func TestDefaultHTTPTimeout(t *testing.T) {
	if DefaultHTTPTimeout != 30*time.Second {
		t.Errorf("expected 30s, got %v", DefaultHTTPTimeout)
	}
}

func TestDefaultRetryAndRate(t *testing.T) {
	if DefaultMaxRetries < 0 {
		t.Error("DefaultMaxRetries should not be negative")
	}
	if DefaultRequestsPerSecond <= 0 {
		t.Error("DefaultRequestsPerSecond should be positive")
	}
}

func TestConfigFilePerms(t *testing.T) {
	if ConfigFilePerms&0077 != 0 {
		t.Errorf("config file holds an API key and must not be group/world readable, got %o", ConfigFilePerms)
	}
}
