// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading for shopchat.
//
// Configuration comes from ~/.shopchat/config.toml with built-in
// defaults and environment variable overrides applied last.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete shopchat configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	WS      WSConfig      `toml:"ws"`
	Bot     BotConfig     `toml:"bot"`
	UI      UIConfig      `toml:"ui"`
	Storage StorageConfig `toml:"storage"`
}

// APIConfig contains chat backend REST settings.
type APIConfig struct {
	// BaseURL of the backend API, e.g. https://api.shopvn.example/api
	BaseURL string `toml:"base_url"`
	// TimeoutSecs per REST request. Generous: some backend calls fan
	// out into email/notification side-effects (default: 30).
	TimeoutSecs int `toml:"timeout_secs"`
	// PageSize for history fetches (default: 50).
	PageSize int `toml:"page_size"`
}

// WSConfig contains push-channel settings.
type WSConfig struct {
	// URL of the broker WebSocket endpoint.
	URL string `toml:"url"`
	// HandshakeTimeoutSecs bounds the handshake; fail fast so the UI
	// can offer a manual reconnect (default: 5).
	HandshakeTimeoutSecs int `toml:"handshake_timeout_secs"`
	// ReconnectDelaySecs between automatic reconnect attempts (default: 3).
	ReconnectDelaySecs int `toml:"reconnect_delay_secs"`
	// MaxReconnectAttempts before giving up (default: 5).
	MaxReconnectAttempts int `toml:"max_reconnect_attempts"`
}

// BotConfig contains AI responder settings.
type BotConfig struct {
	// BaseURL of the bot service.
	BaseURL string `toml:"base_url"`
	// TimeoutSecs per AI call (default: 30).
	TimeoutSecs int `toml:"timeout_secs"`
	// RequestsPerMinute paces AI calls (default: 20).
	RequestsPerMinute int `toml:"requests_per_minute"`
}

// UIConfig contains UI settings.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// DateFormat for date group separators beyond today/yesterday.
	DateFormat string `toml:"date_format"`
}

// StorageConfig contains local cache settings.
type StorageConfig struct {
	// CacheEnabled controls the sqlite history display cache.
	CacheEnabled bool `toml:"cache_enabled"`
	// Dir overrides the cache directory (empty = ~/.shopchat).
	Dir string `toml:"dir"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     "http://127.0.0.1:8080/api",
			TimeoutSecs: 30,
			PageSize:    50,
		},
		WS: WSConfig{
			URL:                  "ws://127.0.0.1:8080/ws",
			HandshakeTimeoutSecs: 5,
			ReconnectDelaySecs:   3,
			MaxReconnectAttempts: 5,
		},
		Bot: BotConfig{
			BaseURL:           "http://127.0.0.1:8000/api",
			TimeoutSecs:       30,
			RequestsPerMinute: 20,
		},
		UI: UIConfig{
			Theme:      "dark",
			DateFormat: "02/01/2006",
		},
		Storage: StorageConfig{
			CacheEnabled: true,
		},
	}
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// Dir returns the shopchat configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".shopchat"), nil
}

// Path returns the path to the TOML config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureDir ensures the config directory exists.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD
// =============================================================================

// Load reads the config file, applies env overrides and validation.
// A missing file is not an error: defaults are used.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific TOML file.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the default TOML file.
func Save(cfg *Config) error {
	if err := EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	path, err := Path()
	if err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# shopchat configuration file")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// DEFAULTS / VALIDATION
// =============================================================================

// SetDefaults backfills zero-value fields.
func (c *Config) SetDefaults() {
	d := Default()

	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	if c.API.TimeoutSecs <= 0 {
		c.API.TimeoutSecs = d.API.TimeoutSecs
	}
	if c.API.PageSize <= 0 {
		c.API.PageSize = d.API.PageSize
	}

	if c.WS.URL == "" {
		c.WS.URL = d.WS.URL
	}
	if c.WS.HandshakeTimeoutSecs <= 0 {
		c.WS.HandshakeTimeoutSecs = d.WS.HandshakeTimeoutSecs
	}
	if c.WS.ReconnectDelaySecs <= 0 {
		c.WS.ReconnectDelaySecs = d.WS.ReconnectDelaySecs
	}
	if c.WS.MaxReconnectAttempts <= 0 {
		c.WS.MaxReconnectAttempts = d.WS.MaxReconnectAttempts
	}

	if c.Bot.BaseURL == "" {
		c.Bot.BaseURL = d.Bot.BaseURL
	}
	if c.Bot.TimeoutSecs <= 0 {
		c.Bot.TimeoutSecs = d.Bot.TimeoutSecs
	}
	if c.Bot.RequestsPerMinute <= 0 {
		c.Bot.RequestsPerMinute = d.Bot.RequestsPerMinute
	}

	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.UI.DateFormat == "" {
		c.UI.DateFormat = d.UI.DateFormat
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration and returns the first error found.
func (c *Config) Validate() error {
	if _, err := url.Parse(c.API.BaseURL); err != nil {
		return ValidationError{Field: "api.base_url", Message: fmt.Sprintf("invalid URL: %v", err)}
	}
	if u, err := url.Parse(c.WS.URL); err != nil {
		return ValidationError{Field: "ws.url", Message: fmt.Sprintf("invalid URL: %v", err)}
	} else if u.Scheme != "ws" && u.Scheme != "wss" {
		return ValidationError{Field: "ws.url", Message: fmt.Sprintf("scheme must be ws or wss, got %q", u.Scheme)}
	}
	if _, err := url.Parse(c.Bot.BaseURL); err != nil {
		return ValidationError{Field: "bot.base_url", Message: fmt.Sprintf("invalid URL: %v", err)}
	}

	// Clamp reconnect behavior into a sane window rather than reject.
	if c.WS.MaxReconnectAttempts > 20 {
		c.WS.MaxReconnectAttempts = 20
	}
	if c.WS.ReconnectDelaySecs > 60 {
		c.WS.ReconnectDelaySecs = 60
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		return ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		}
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported variables:
//   - SHOPCHAT_API_URL: overrides api.base_url
//   - SHOPCHAT_WS_URL: overrides ws.url
//   - SHOPCHAT_BOT_URL: overrides bot.base_url
//   - SHOPCHAT_THEME: overrides ui.theme
//   - SHOPCHAT_CACHE: "0"/"false" disables the history cache
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SHOPCHAT_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("SHOPCHAT_WS_URL"); v != "" {
		c.WS.URL = v
	}
	if v := os.Getenv("SHOPCHAT_BOT_URL"); v != "" {
		c.Bot.BaseURL = v
	}
	if v := os.Getenv("SHOPCHAT_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("SHOPCHAT_CACHE"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err == nil {
			c.Storage.CacheEnabled = enabled
		}
	}
}

// =============================================================================
// GLOBAL ACCESSOR (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance, loading it on
// first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state between tests.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
