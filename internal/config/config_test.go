package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/rewriter/internal/llm"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"backend_url": "https://rewrite.example.com",
		"port": 9090,
		"llm": {"provider": "gemini", "model": "gemini-2.5-pro", "max_tokens": 256},
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://rewrite.example.com", cfg.BackendURL)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
	assert.Equal(t, 256, cfg.LLM.MaxTokens)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_TOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `
backend_url = "http://localhost:8080"
fallback_delay_ms = 250
log_format = "json"

[llm]
provider = "anthropic"
temperature = 0.2
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.BackendURL)
	assert.Equal(t, 250, cfg.FallbackDelayMS)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, llm.ProviderAnthropic, cfg.LLM.Provider)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 0.0001)
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeConfig(t, "config.yml", `
history_path: /tmp/history.db
style_timeout_sec: 5
llm:
  provider: openai
  base_url: http://localhost:11434/v1
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/history.db", cfg.HistoryPath)
	assert.Equal(t, 5, cfg.StyleTimeoutSec)
	assert.Equal(t, "http://localhost:11434/v1", cfg.LLM.BaseURL)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{ invalid json }`)

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `port = "not a number`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config TOML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"empty is valid", Config{}, ""},
		{"defaults are valid", Defaults(), ""},
		{"negative port", Config{Port: -1}, "'port'"},
		{"port too large", Config{Port: 70000}, "'port'"},
		{"negative delay", Config{FallbackDelayMS: -5}, "fallback_delay_ms"},
		{"bad backend scheme", Config{BackendURL: "ftp://example.com"}, "backend_url"},
		{"backend without host", Config{BackendURL: "http://"}, "backend_url"},
		{"unknown provider", Config{LLM: llm.Config{Provider: "mistral"}}, "unknown llm provider"},
		{"bad log format", Config{LogFormat: "xml"}, "log_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{
		BackendURL: "http://custom:9000",
		LLM:        llm.Config{Provider: llm.ProviderGemini},
	}

	result := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, "http://custom:9000", result.BackendURL)
	assert.Equal(t, DefaultPort, result.Port)
	assert.Equal(t, DefaultFallbackDelayMS, result.FallbackDelayMS)
	assert.Equal(t, llm.ProviderGemini, result.LLM.Provider)
	assert.Equal(t, llm.DefaultMaxTokens, result.LLM.MaxTokens)
	assert.Equal(t, time.Second, result.FallbackDelay())
	assert.Equal(t, 15*time.Second, result.StyleTimeout())
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := &Config{Port: 3000}
	result := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, 3000, result.Port)
	assert.Empty(t, result.BackendURL)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("REWRITER_BACKEND_URL", "https://env.example.com")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("REWRITER_LLM_PROVIDER", "Anthropic")
	t.Setenv("PORT", "7070")

	cfg := &Config{BackendURL: "http://file"}
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "https://env.example.com", cfg.BackendURL)
	assert.Equal(t, "postgres://u:p@localhost/db", cfg.DatabaseURL)
	assert.Equal(t, llm.ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, 7070, cfg.Port)
}

func TestApplyEnv_Invalid(t *testing.T) {
	t.Setenv("PORT", "eighty")
	assert.Error(t, (&Config{}).ApplyEnv())

	t.Setenv("PORT", "")
	t.Setenv("REWRITER_LLM_PROVIDER", "nope")
	assert.Error(t, (&Config{}).ApplyEnv())
}

func TestProviderAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gem")
	t.Setenv("ANTHROPIC_API_KEY", "ant")
	t.Setenv("OPENROUTER_API_KEY", "or")
	t.Setenv("OPENAI_API_KEY", "oa")

	assert.Equal(t, "gem", (&Config{LLM: llm.Config{Provider: llm.ProviderGemini}}).ProviderAPIKey())
	assert.Equal(t, "ant", (&Config{LLM: llm.Config{Provider: llm.ProviderAnthropic}}).ProviderAPIKey())
	assert.Equal(t, "or", (&Config{LLM: llm.Config{Provider: llm.ProviderOpenAI}}).ProviderAPIKey())
	assert.Equal(t, "explicit", (&Config{APIKey: "explicit"}).ProviderAPIKey())

	t.Setenv("OPENROUTER_API_KEY", "")
	assert.Equal(t, "oa", (&Config{}).ProviderAPIKey())
}
