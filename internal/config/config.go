// Package config provides configuration loading and validation for the rewriter.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/rewriter/internal/llm"
)

// Defaults applied by MergeWithDefaults when a field is unset.
const (
	DefaultPort            = 8080
	DefaultFallbackDelayMS = 1000
	DefaultStyleTimeoutSec = 15
	DefaultLogFormat       = "text"
)

// Config represents the rewriter configuration. It can be loaded from a JSON,
// TOML or YAML file; every field is optional and environment variables
// override file values.
type Config struct {
	// Client
	BackendURL      string `json:"backend_url,omitempty" toml:"backend_url" yaml:"backend_url"`       // Remote rewrite backend base URL
	BackendToken    string `json:"backend_token,omitempty" toml:"backend_token" yaml:"backend_token"` // Bearer token for the backend
	StatePath       string `json:"state_path,omitempty" toml:"state_path" yaml:"state_path"`          // Session state file
	HistoryPath     string `json:"history_path,omitempty" toml:"history_path" yaml:"history_path"`    // Local SQLite history file
	FallbackDelayMS int    `json:"fallback_delay_ms,omitempty" toml:"fallback_delay_ms" yaml:"fallback_delay_ms"`

	// Server
	Port            int    `json:"port,omitempty" toml:"port" yaml:"port"`
	DatabaseURL     string `json:"database_url,omitempty" toml:"database_url" yaml:"database_url"` // PostgreSQL connection URL
	StyleTimeoutSec int    `json:"style_timeout_sec,omitempty" toml:"style_timeout_sec" yaml:"style_timeout_sec"`

	// Generation model
	LLM    llm.Config `json:"llm,omitempty" toml:"llm" yaml:"llm"`
	APIKey string     `json:"api_key,omitempty" toml:"api_key" yaml:"api_key"` // Provider API key

	// Logging
	LogFormat string `json:"log_format,omitempty" toml:"log_format" yaml:"log_format"` // "text" or "json"
	Verbose   bool   `json:"verbose,omitempty" toml:"verbose" yaml:"verbose"`
}

// LoadConfig loads configuration from a file. The format follows the
// extension: .toml, .yaml/.yml, anything else is parsed as JSON.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}
	if c.FallbackDelayMS < 0 {
		return fmt.Errorf("config error: 'fallback_delay_ms' must be non-negative")
	}
	if c.StyleTimeoutSec < 0 {
		return fmt.Errorf("config error: 'style_timeout_sec' must be non-negative")
	}
	if c.BackendURL != "" {
		u, err := url.Parse(c.BackendURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config error: 'backend_url' must be an http(s) URL: %s", c.BackendURL)
		}
	}
	if c.LLM.Provider != "" {
		if _, err := llm.ParseProvider(string(c.LLM.Provider)); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	if c.LLM.MaxTokens < 0 {
		return fmt.Errorf("config error: 'llm.max_tokens' must be non-negative")
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("config error: 'log_format' must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.BackendURL == "" {
		result.BackendURL = defaults.BackendURL
	}
	if result.BackendToken == "" {
		result.BackendToken = defaults.BackendToken
	}
	if result.StatePath == "" {
		result.StatePath = defaults.StatePath
	}
	if result.HistoryPath == "" {
		result.HistoryPath = defaults.HistoryPath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	if result.LLM.Provider == "" {
		result.LLM.Provider = defaults.LLM.Provider
	}
	if result.LLM.Model == "" {
		result.LLM.Model = defaults.LLM.Model
	}
	if result.LLM.BaseURL == "" {
		result.LLM.BaseURL = defaults.LLM.BaseURL
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.FallbackDelayMS == 0 {
		result.FallbackDelayMS = defaults.FallbackDelayMS
	}
	if result.StyleTimeoutSec == 0 {
		result.StyleTimeoutSec = defaults.StyleTimeoutSec
	}
	if result.LLM.Temperature == 0 {
		result.LLM.Temperature = defaults.LLM.Temperature
	}
	if result.LLM.MaxTokens == 0 {
		result.LLM.MaxTokens = defaults.LLM.MaxTokens
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:            DefaultPort,
		FallbackDelayMS: DefaultFallbackDelayMS,
		StyleTimeoutSec: DefaultStyleTimeoutSec,
		LogFormat:       DefaultLogFormat,
		LLM:             *llm.DefaultConfig(),
	}
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	setString("REWRITER_BACKEND_URL", &c.BackendURL)
	setString("REWRITER_BACKEND_TOKEN", &c.BackendToken)
	setString("REWRITER_STATE_PATH", &c.StatePath)
	setString("REWRITER_HISTORY_PATH", &c.HistoryPath)
	setString("DATABASE_URL", &c.DatabaseURL)
	setString("REWRITER_LLM_MODEL", &c.LLM.Model)
	setString("REWRITER_LLM_BASE_URL", &c.LLM.BaseURL)
	setString("REWRITER_LOG_FORMAT", &c.LogFormat)

	if v := os.Getenv("REWRITER_LLM_PROVIDER"); v != "" {
		p, err := llm.ParseProvider(v)
		if err != nil {
			return fmt.Errorf("invalid REWRITER_LLM_PROVIDER: %w", err)
		}
		c.LLM.Provider = p
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = port
	}
	return nil
}

// ProviderAPIKey returns the API key for the configured provider: the
// explicit api_key when set, otherwise the provider's environment variable.
func (c *Config) ProviderAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	switch c.LLM.Provider {
	case llm.ProviderGemini:
		return os.Getenv("GEMINI_API_KEY")
	case llm.ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
			return key
		}
		return os.Getenv("OPENAI_API_KEY")
	}
}

// FallbackDelay returns the pause before degraded local rewriting.
func (c *Config) FallbackDelay() time.Duration {
	return time.Duration(c.FallbackDelayMS) * time.Millisecond
}

// StyleTimeout returns the per-style model timeout.
func (c *Config) StyleTimeout() time.Duration {
	return time.Duration(c.StyleTimeoutSec) * time.Second
}
