package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderOpenAI, config.Provider)
	assert.Equal(t, DefaultOpenAIModel, config.Model)
	assert.Equal(t, DefaultOpenAIURL, config.BaseURL)
	assert.InDelta(t, 0.7, config.Temperature, 0.0001)
	assert.Equal(t, 500, config.MaxTokens)
}

func TestDefaultConfigFor(t *testing.T) {
	tests := []struct {
		provider Provider
		model    string
		baseURL  string
	}{
		{ProviderGemini, DefaultGeminiModel, ""},
		{ProviderAnthropic, DefaultClaudeModel, ""},
		{ProviderOpenAI, DefaultOpenAIModel, DefaultOpenAIURL},
		{"", DefaultOpenAIModel, DefaultOpenAIURL},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			config := DefaultConfigFor(tt.provider)
			assert.Equal(t, tt.model, config.Model)
			assert.Equal(t, tt.baseURL, config.BaseURL)
		})
	}
}

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider(" Gemini ")
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, p)

	p, err = ParseProvider("openrouter")
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, p)

	_, err = ParseProvider("mistral")
	assert.Error(t, err)
}

func TestWithDefaults(t *testing.T) {
	config := (&Config{Provider: ProviderGemini, MaxTokens: 128}).WithDefaults()

	assert.Equal(t, DefaultGeminiModel, config.Model)
	assert.Equal(t, 128, config.MaxTokens)
	assert.InDelta(t, DefaultTemperature, config.Temperature, 0.0001)

	var nilConfig *Config
	assert.Equal(t, ProviderOpenAI, nilConfig.WithDefaults().Provider)
}

func TestWithModel(t *testing.T) {
	original := DefaultConfig()
	modified := original.WithModel("custom-model")

	assert.Equal(t, DefaultOpenAIModel, original.Model)
	assert.Equal(t, "custom-model", modified.Model)
	assert.Equal(t, original.BaseURL, modified.BaseURL)
}
