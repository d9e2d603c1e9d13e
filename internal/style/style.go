// Package style rewrites text into one of the supported styles using local,
// rule-based transforms. It needs no network and never fails.
package style

import (
	"math/rand/v2"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/jonathan/rewriter/internal/types"
)

var (
	professionalTable = compile(professionalExpansions)
	casualTable       = compile(casualContractions)
	simplifiedTable   = compile(simplerSynonyms)
)

// Transformer applies rule-based style transforms. Creative and Casual draw
// from a random source; a Transformer built with NewSeeded produces the same
// output for the same seed and call sequence.
type Transformer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewTransformer returns a Transformer drawing from rng. A nil rng is replaced
// by a randomly seeded source.
func NewTransformer(rng *rand.Rand) *Transformer {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Transformer{rng: rng}
}

// NewSeeded returns a deterministic Transformer.
func NewSeeded(seed uint64) *Transformer {
	return NewTransformer(rand.New(rand.NewPCG(seed, seed)))
}

var defaultTransformer = NewTransformer(nil)

// Transform rewrites text with the shared default Transformer.
func Transform(text string, s types.Style) string {
	return defaultTransformer.Transform(text, s)
}

// Transform rewrites text into style s. Unknown styles are treated as Professional.
// The result is never empty and always ends in '.', '!' or '?'.
func (t *Transformer) Transform(text string, s types.Style) string {
	text = strings.TrimSpace(text)
	if text == "" {
		text = emptyPlaceholder
	}

	switch s {
	case types.StyleCasual:
		return t.casual(text)
	case types.StyleConcise:
		return concise(text)
	case types.StyleCreative:
		return t.creative(text)
	case types.StyleSimplified:
		return simplified(text)
	default:
		return professional(text)
	}
}

// TransformAll returns one option per style, in the order given.
func (t *Transformer) TransformAll(text string, styles []types.Style) []types.RewriteOption {
	options := make([]types.RewriteOption, 0, len(styles))
	for _, s := range styles {
		options = append(options, types.NewRewriteOption(t.Transform(text, s), s))
	}
	return options
}

func (t *Transformer) pick(choices []string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return choices[t.rng.IntN(len(choices))]
}

func professional(text string) string {
	out := applyAll(text, professionalTable)
	out = capitalizeFirst(out)
	return ensureTerminal(out, ".")
}

func (t *Transformer) casual(text string) string {
	out := applyAll(text, casualTable)
	out = strings.ToLower(out)
	out = capitalizeFirst(out)
	return ensureTerminal(out, t.pick(casualEndings))
}

func concise(text string) string {
	tokens := strings.Fields(text)
	n := len(tokens)

	filtered := make([]string, 0, n)
	for _, tok := range tokens {
		if !isShortFiller(tok) {
			filtered = append(filtered, tok)
		}
	}
	if len(filtered) < min(conciseMinTokens, n) {
		filtered = tokens
	}

	keep := max(conciseMinTokens, (n*conciseKeepNum+conciseKeepDen-1)/conciseKeepDen)
	if keep < len(filtered) {
		filtered = filtered[:keep]
	}

	last := len(filtered) - 1
	filtered[last] = strings.TrimRight(filtered[last], ",;:")
	out := strings.Join(filtered, " ")
	out = capitalizeFirst(out)
	if strings.TrimRight(out, ",;:.!? ") == "" {
		out = emptyPlaceholder
	}
	return ensureTerminal(out, ".")
}

func isShortFiller(tok string) bool {
	word := normalizeToken(tok)
	return fillerWords[word] && utf8.RuneCountInString(word) <= conciseFillerMaxLen
}

func (t *Transformer) creative(text string) string {
	opening := t.pick(creativeOpenings)
	closing := t.pick(creativeClosings)

	body := lowerFirst(text)
	if !strings.HasPrefix(closing, " ") {
		body = trimTerminal(body)
		if body == "" {
			body = strings.ToLower(emptyPlaceholder)
		}
		return opening + body + closing
	}
	return opening + ensureTerminal(body, ".") + closing
}

func simplified(text string) string {
	out := applyAll(text, simplifiedTable)
	sentences := splitSentences(out)
	if len(sentences) == 0 {
		return emptyPlaceholder + "."
	}
	for i, s := range sentences {
		sentences[i] = capitalizeFirst(s)
	}
	return strings.Join(sentences, ". ") + "."
}
