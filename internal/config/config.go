// ABOUTME: Configuration loading for the APOD client, viewer, and MCP server
// ABOUTME: Merges the JSON config file, a .env file, and environment overrides

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/harper/apod/internal/fetch"
)

// Config stores apod configuration.
type Config struct {
	// APIKey authenticates against api.nasa.gov. Defaults to DEMO_KEY.
	APIKey string `json:"api_key,omitempty"`

	// BaseURL overrides the APOD endpoint, mostly for testing.
	BaseURL string `json:"base_url,omitempty"`

	// Timezone is an IANA name that decides what "today" is.
	// Empty means the system local timezone.
	Timezone string `json:"timezone,omitempty"`

	TimeoutSeconds    int      `json:"timeout_seconds,omitempty"`
	MaxRetries        *int     `json:"max_retries,omitempty"`
	RequestsPerSecond *float64 `json:"requests_per_second,omitempty"`
	LogLevel          string   `json:"log_level,omitempty"`
}

// GetAPIKey returns the configured key, defaulting to DEMO_KEY.
func (c *Config) GetAPIKey() string {
	if c.APIKey == "" {
		return fetch.DefaultAPIKey
	}
	return c.APIKey
}

// GetBaseURL returns the configured endpoint, defaulting to api.nasa.gov.
func (c *Config) GetBaseURL() string {
	if c.BaseURL == "" {
		return fetch.DefaultBaseURL
	}
	return c.BaseURL
}

// GetTimeout returns the HTTP timeout.
func (c *Config) GetTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultHTTPTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *Config) GetMaxRetries() int {
	if c.MaxRetries == nil || *c.MaxRetries < 0 {
		return DefaultMaxRetries
	}
	return *c.MaxRetries
}

func (c *Config) GetRequestsPerSecond() float64 {
	if c.RequestsPerSecond == nil {
		return DefaultRequestsPerSecond
	}
	return *c.RequestsPerSecond
}

// GetLogLevel parses the configured level, defaulting to warn.
func (c *Config) GetLogLevel() log.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate checks values that would otherwise fail later at request time.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must be non-negative, got %d", c.TimeoutSeconds)
	}
	if c.RequestsPerSecond != nil && *c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must be non-negative, got %v", *c.RequestsPerSecond)
	}
	return nil
}

// ClientOptions builds fetch options from the config.
func (c *Config) ClientOptions(logger *log.Logger) []fetch.Option {
	return []fetch.Option{
		fetch.WithBaseURL(c.GetBaseURL()),
		fetch.WithTimeout(c.GetTimeout()),
		fetch.WithMaxRetries(c.GetMaxRetries()),
		fetch.WithRateLimit(c.GetRequestsPerSecond()),
		fetch.WithLogger(logger),
	}
}

// ApplyEnv overlays environment variables read through getenv.
// NASA_API_KEY wins over VITE_NASA_API_KEY.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("VITE_NASA_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := getenv(DefaultAPIKeyEnv); v != "" {
		c.APIKey = v
	}
	if v := getenv("APOD_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := getenv("APOD_TIMEZONE"); v != "" {
		c.Timezone = v
	}
	if v := getenv("APOD_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("APOD_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TimeoutSeconds = n
		}
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, ConfigDirName, ConfigFileName)
}

// Load reads the config file, then .env from the working directory, then
// environment overrides. A missing config file is not an error.
func Load() (*Config, error) {
	cfg, err := LoadFile(GetConfigPath())
	if err != nil {
		return nil, err
	}

	// godotenv.Load never overrides variables already set in the environment
	if err := godotenv.Load(DotEnvFileName); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", DotEnvFileName, err)
	}

	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// LoadFile reads config from path without applying the environment.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes config to path through a temp file and rename.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DefaultDirPerms); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Chmod(ConfigFilePerms); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set config permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close config: %w", err)
	}
	return os.Rename(tmpName, path)
}
