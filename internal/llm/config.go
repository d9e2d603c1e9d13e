// Package llm provides LLM configuration and client abstractions shared by the
// rewrite orchestrator. Gemini, OpenAI-compatible endpoints and Anthropic are supported.
package llm

import (
	"fmt"
	"strings"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI covers OpenAI and any OpenAI-compatible endpoint such as OpenRouter
	ProviderOpenAI Provider = "openai"
	// ProviderAnthropic is the Anthropic/Claude provider
	ProviderAnthropic Provider = "anthropic"
)

// Default generation settings used for rewriting.
const (
	DefaultTemperature  = 0.7
	DefaultMaxTokens    = 500
	DefaultGeminiModel  = "gemini-2.5-flash"
	DefaultOpenAIModel  = "meta-llama/llama-3.2-3b-instruct:free"
	DefaultOpenAIURL    = "https://openrouter.ai/api/v1"
	DefaultClaudeModel  = "claude-3-5-haiku-latest"
	defaultMaxRetries   = 1
	openRouterReferer   = "https://re-right.app"
	openRouterAppHeader = "RE-right Content Rewriter"
)

// Config holds the model configuration for the rewriter
type Config struct {
	Provider    Provider `json:"provider" toml:"provider" yaml:"provider"`
	Model       string   `json:"model,omitempty" toml:"model" yaml:"model"`
	Temperature float32  `json:"temperature,omitempty" toml:"temperature" yaml:"temperature"`
	MaxTokens   int      `json:"max_tokens,omitempty" toml:"max_tokens" yaml:"max_tokens"`
	BaseURL     string   `json:"base_url,omitempty" toml:"base_url" yaml:"base_url"`
}

// DefaultConfig returns the default configuration: an OpenAI-compatible
// client pointed at OpenRouter.
func DefaultConfig() *Config {
	return DefaultConfigFor(ProviderOpenAI)
}

// DefaultConfigFor returns defaults for a specific provider.
func DefaultConfigFor(p Provider) *Config {
	cfg := &Config{
		Provider:    p,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
	switch p {
	case ProviderGemini:
		cfg.Model = DefaultGeminiModel
	case ProviderAnthropic:
		cfg.Model = DefaultClaudeModel
	default:
		cfg.Provider = ProviderOpenAI
		cfg.Model = DefaultOpenAIModel
		cfg.BaseURL = DefaultOpenAIURL
	}
	return cfg
}

// ParseProvider resolves a provider name case-insensitively.
func ParseProvider(name string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(name))); p {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
		return p, nil
	case "openrouter":
		return ProviderOpenAI, nil
	default:
		return "", fmt.Errorf("unknown llm provider %q", name)
	}
}

// WithDefaults returns a copy of c with unset fields filled from the
// provider defaults.
func (c *Config) WithDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}
	defaults := DefaultConfigFor(c.Provider)
	merged := *c
	merged.Provider = defaults.Provider
	if merged.Model == "" {
		merged.Model = defaults.Model
	}
	if merged.Temperature == 0 {
		merged.Temperature = defaults.Temperature
	}
	if merged.MaxTokens <= 0 {
		merged.MaxTokens = defaults.MaxTokens
	}
	if merged.BaseURL == "" {
		merged.BaseURL = defaults.BaseURL
	}
	return &merged
}

// WithModel returns a new Config with a specific model
func (c *Config) WithModel(model string) *Config {
	newConfig := *c
	newConfig.Model = model
	return &newConfig
}
