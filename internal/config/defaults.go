// ABOUTME: Centralized configuration defaults for apod
// ABOUTME: Contains magic numbers and hardcoded values for HTTP, display, and storage

package config

import "time"

// HTTP settings
const (
	DefaultHTTPTimeout       = 30 * time.Second
	DefaultMaxRetries        = 1
	DefaultRequestsPerSecond = 2.0
)

// Display settings
const (
	SeparatorWidth  = 60
	DefaultStyle    = "dark"
	DefaultLogLevel = "warn"
)

// Storage settings
const (
	DefaultDirPerms  = 0755
	ConfigFilePerms  = 0600
	ConfigDirName    = "apod"
	ConfigFileName   = "config.json"
	DotEnvFileName   = ".env"
	DefaultAPIKeyEnv = "NASA_API_KEY"
)
