// Package types provides type definitions for structured data used throughout the rewriter.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
)

// Style identifies one of the fixed rewrite transformations.
type Style string

// Style constants, in the order options are produced.
const (
	StyleProfessional Style = "Professional"
	StyleCasual       Style = "Casual"
	StyleConcise      Style = "Concise"
	StyleCreative     Style = "Creative"
	StyleSimplified   Style = "Simplified"
)

// DefaultTone is the tone reported for styles outside the fixed set.
const DefaultTone = "Alternative style"

var styleTones = map[Style]string{
	StyleProfessional: "Polished and business-appropriate",
	StyleCasual:       "Friendly and conversational",
	StyleConcise:      "Short and to the point",
	StyleCreative:     "Engaging and imaginative",
	StyleSimplified:   "Easy to understand",
}

// AllStyles returns every supported style in the fixed option order.
func AllStyles() []Style {
	return []Style{
		StyleProfessional,
		StyleCasual,
		StyleConcise,
		StyleCreative,
		StyleSimplified,
	}
}

// StyleCount is the number of options produced for a full rewrite.
const StyleCount = 5

// Tone returns the human-readable descriptor tied to the style.
func (s Style) Tone() string {
	if tone, ok := styleTones[s]; ok {
		return tone
	}
	return DefaultTone
}

// Known reports whether s is one of the fixed styles.
func (s Style) Known() bool {
	_, ok := styleTones[s]
	return ok
}

// ParseStyle resolves a style name case-insensitively.
func ParseStyle(name string) (Style, error) {
	trimmed := strings.TrimSpace(name)
	for _, s := range AllStyles() {
		if strings.EqualFold(string(s), trimmed) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown style %q", name)
}

// StyleNames converts styles to their wire names.
func StyleNames(styles []Style) []string {
	names := make([]string, len(styles))
	for i, s := range styles {
		names[i] = string(s)
	}
	return names
}

// RewriteOption is one rewritten version of the input text.
type RewriteOption struct {
	Text  string `json:"text"`
	Style string `json:"style"`
	Tone  string `json:"tone"`
}

// NewRewriteOption tags text with its style and the matching tone.
func NewRewriteOption(text string, style Style) RewriteOption {
	return RewriteOption{
		Text:  text,
		Style: string(style),
		Tone:  style.Tone(),
	}
}

// RewriteRequest is the request body accepted by the generation backend.
type RewriteRequest struct {
	Text   string   `json:"text"`
	Styles []string `json:"styles,omitempty"`
}

// RewriteResponse is the success body returned by the generation backend.
type RewriteResponse struct {
	Options []RewriteOption `json:"options"`
}

// ErrorResponse is the body returned with a non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}
