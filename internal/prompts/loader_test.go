package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/rewriter/internal/types"
)

func TestRewriting_CoversEveryStyle(t *testing.T) {
	set, err := Rewriting()
	require.NoError(t, err)

	for _, s := range types.AllStyles() {
		prompt, ok := set.Lookup(string(s))
		assert.True(t, ok, "no prompt for %s", s)
		assert.NotEmpty(t, prompt)
	}
	template, ok := set.Lookup(rewriteTemplate)
	require.True(t, ok)
	assert.Contains(t, template, "{{.Instruction}}")
	assert.Contains(t, template, "{{.Text}}")
}

func TestParse(t *testing.T) {
	set, err := Parse([]byte(`{"Casual": "be chill", "rewrite-text": "{{.Text}}"}`))
	require.NoError(t, err)

	prompt, ok := set.Lookup("  CASUAL ")
	assert.True(t, ok)
	assert.Equal(t, "be chill", prompt)

	_, ok = set.Lookup("formal")
	assert.False(t, ok)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"not a string map", `{"casual": 3}`},
		{"blank prompt", `{"casual": "  "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestFill(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		want     string
	}{
		{"all placeholders", "{{.Instruction}}: {{.Text}}", map[string]string{"Instruction": "Shorten", "Text": "hello"}, "Shorten: hello"},
		{"missing value kept", "{{.Instruction}}: {{.Text}}", map[string]string{"Text": "hello"}, "{{.Instruction}}: hello"},
		{"no data", "plain", nil, "plain"},
		{"placeholder inside value", "{{.Text}} / {{.Instruction}}", map[string]string{"Text": "{{.Instruction}}", "Instruction": "x"}, "{{.Instruction}} / x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fill(tt.template, tt.data))
		})
	}
}
