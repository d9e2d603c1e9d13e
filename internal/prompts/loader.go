// Package prompts holds the model instructions used for rewriting: one per
// style plus the template that wraps the user's text. They live in
// rewriting.json, embedded at compile time.
package prompts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed rewriting.json
var rewritingJSON []byte

// Set is a parsed prompt file keyed by lower-case prompt name.
type Set map[string]string

var loadRewriting = sync.OnceValues(func() (Set, error) {
	return Parse(rewritingJSON)
})

// Rewriting returns the embedded rewriting prompts.
func Rewriting() (Set, error) {
	return loadRewriting()
}

// Parse decodes a prompt file. Keys are folded to lower case and every
// prompt must be non-blank.
func Parse(data []byte) (Set, error) {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse prompts: %w", err)
	}

	set := make(Set, len(raw))
	for key, prompt := range raw {
		if strings.TrimSpace(prompt) == "" {
			return nil, fmt.Errorf("prompt %q is empty", key)
		}
		set[strings.ToLower(key)] = prompt
	}
	return set, nil
}

// Lookup returns the prompt named key, ignoring case and surrounding space.
func (s Set) Lookup(key string) (string, bool) {
	prompt, ok := s[strings.ToLower(strings.TrimSpace(key))]
	return prompt, ok
}

// Fill replaces {{.Key}} placeholders with values from data in a single
// pass, so placeholders appearing inside a value are left as typed.
// Placeholders without a value are kept.
func Fill(template string, data map[string]string) string {
	pairs := make([]string, 0, 2*len(data))
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
