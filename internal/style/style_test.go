package style

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/rewriter/internal/types"
)

func endsWithTerminal(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?")
}

func TestTransform_AlwaysNonEmptyWithTerminal(t *testing.T) {
	inputs := map[string]string{
		"empty":          "",
		"whitespace":     "   \t\n ",
		"single word":    "hello",
		"no punctuation": "we should meet tomorrow to talk about the plan",
		"already formal": "I cannot attend the meeting. It is scheduled too late.",
		"already casual": "hey, can't make it!",
		"mixed case":     "I CAN'T believe It's Gonna rain",
		"only punct":     "?!...",
		"very long":      strings.Repeat("the quick brown fox jumps over the lazy dog ", 200),
	}

	tr := NewSeeded(42)
	for name, input := range inputs {
		for _, s := range types.AllStyles() {
			t.Run(name+"/"+string(s), func(t *testing.T) {
				out := tr.Transform(input, s)
				require.NotEmpty(t, strings.TrimSpace(out))
				assert.True(t, endsWithTerminal(out), "output %q lacks terminal punctuation", out)
			})
		}
	}
}

func TestProfessional(t *testing.T) {
	out := Transform("I can't do this, it's too hard", types.StyleProfessional)

	assert.True(t, strings.HasPrefix(out, "I"))
	assert.Contains(t, out, "cannot")
	assert.Contains(t, out, "it is")
	assert.True(t, endsWithTerminal(out))
}

func TestProfessional_Cases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"capitalizes", "we won't stop", "We will not stop."},
		{"keeps existing terminal", "you're late!", "You are late!"},
		{"preserves leading capital", "Can't wait", "Cannot wait."},
		{"upper case contraction", "I CAN'T", "I CANNOT."},
		{"typographic apostrophe", "it’s fine", "It is fine."},
		{"informal filler", "this is kinda gonna work", "This is somewhat going to work."},
		{"substring untouched", "the cannotation stays", "The cannotation stays."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, professional(tt.input))
		})
	}
}

func TestWholeWordSafety(t *testing.T) {
	tests := []struct {
		name  string
		input string
		style types.Style
		keep  string
	}{
		{"contraction inside word", "xcan'ty is a token", types.StyleProfessional, "xcan'ty"},
		{"filler inside word", "prettyish colors", types.StyleProfessional, "prettyish"},
		{"formal word inside word", "cannotation matters", types.StyleCasual, "cannotation"},
		{"complex word inside word", "reutilized parts", types.StyleSimplified, "reutilized"},
		{"prefix match", "thereforeafter", types.StyleSimplified, "thereforeafter"},
	}

	tr := NewSeeded(7)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tr.Transform(tt.input, tt.style)
			assert.Contains(t, strings.ToLower(out), tt.keep)
		})
	}
}

func TestQuotedWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		style types.Style
		want  string
	}{
		{"single quotes", "It is 'cannot' here", types.StyleCasual, "'can't'"},
		{"curly quotes", "she said ‘gonna’ twice", types.StyleProfessional, "‘going to’"},
		{"leading quote only", "'kinda true", types.StyleProfessional, "'somewhat"},
		{"elided prefix", "o'gonna stays", types.StyleProfessional, "o'gonna"},
		{"elided suffix", "gonna'd stays", types.StyleProfessional, "gonna'd"},
	}

	tr := NewSeeded(3)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tr.Transform(tt.input, tt.style)
			assert.Contains(t, strings.ToLower(out), tt.want)
		})
	}
}

func TestCasual(t *testing.T) {
	tr := NewSeeded(1)

	out := tr.Transform("Hello, I cannot attend. We do not know", types.StyleCasual)
	assert.True(t, strings.HasPrefix(out, "Hey"))
	assert.Contains(t, out, "can't")
	assert.Contains(t, out, "don't")
	assert.Equal(t, strings.ToLower(out[1:]), out[1:])

	bare := tr.Transform("greetings friend", types.StyleCasual)
	last := bare[len(bare)-1:]
	assert.Contains(t, CasualEndings(), last)
	assert.True(t, strings.HasPrefix(bare, "Hi there friend"))
}

func TestConcise(t *testing.T) {
	twenty := "The team really needs to actually finish the very important quarterly report before the big meeting on Friday so we can relax"
	require.Len(t, strings.Fields(twenty), 22)

	words := strings.Fields(strings.Repeat("alpha ", 20))
	out := concise(strings.Join(words, " "))
	tokens := strings.Fields(out)
	assert.GreaterOrEqual(t, len(tokens), 3)
	assert.LessOrEqual(t, len(tokens), 12)

	out = concise(twenty)
	tokens = strings.Fields(out)
	assert.GreaterOrEqual(t, len(tokens), 3)
	assert.LessOrEqual(t, len(tokens), 14)
	for _, tok := range tokens {
		assert.False(t, isShortFiller(tok), "filler %q kept", tok)
	}
	assert.True(t, strings.HasPrefix(out, "Team"))
	assert.True(t, strings.HasSuffix(out, "."))
}

func TestConcise_LongFillersKept(t *testing.T) {
	out := concise("we basically finished the report")
	assert.Equal(t, "We basically finished.", out)

	out = concise("The results were really quite literally amazing today")
	assert.NotContains(t, out, "really")
	assert.NotContains(t, out, "quite")
	assert.Contains(t, out, "literally")
}

func TestConcise_ShortInputs(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"hello", "Hello."},
		{"the a an", "The a an."},
		{"just do it,", "Just do it."},
		{"really big dog", "Really big dog."},
		{"we shipped it!", "We shipped it!"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, concise(tt.input))
		})
	}
}

func TestCreative_ClosedSets(t *testing.T) {
	tr := NewSeeded(99)
	for i := 0; i < 50; i++ {
		out := tr.Transform("The launch went well", types.StyleCreative)

		var opening string
		for _, o := range Openings() {
			if strings.HasPrefix(out, o) {
				opening = o
			}
		}
		require.NotEmpty(t, opening, "unexpected opening in %q", out)

		var closing string
		for _, c := range Closings() {
			if strings.HasSuffix(out, c) {
				closing = c
			}
		}
		require.NotEmpty(t, closing, "unexpected closing in %q", out)
		assert.Contains(t, out, "the launch went well")
	}
}

func TestCreative_KeepsPronounI(t *testing.T) {
	out := NewSeeded(3).Transform("I love it", types.StyleCreative)
	assert.Contains(t, out, ": I love it")
}

func TestSeedDeterminism(t *testing.T) {
	a := NewSeeded(2024)
	b := NewSeeded(2024)
	for i := 0; i < 20; i++ {
		for _, s := range []types.Style{types.StyleCreative, types.StyleCasual} {
			assert.Equal(t, a.Transform("some text here", s), b.Transform("some text here", s))
		}
	}
}

func TestSimplified(t *testing.T) {
	out := Transform("We will utilize this to facilitate growth.", types.StyleSimplified)

	assert.Contains(t, out, "use")
	assert.Contains(t, out, "help")
	assert.NotContains(t, out, "utilize")
	assert.NotContains(t, out, "facilitate")
	assert.Equal(t, "We will use this to help growth.", out)
}

func TestSimplified_Sentences(t *testing.T) {
	out := simplified("however, it works! therefore we ship?  additionally nothing")
	assert.Equal(t, "But, it works. So we ship. Also nothing.", out)
}

func TestTransform_UnknownStyleIsProfessional(t *testing.T) {
	tr := NewSeeded(5)
	assert.Equal(t, tr.Transform("don't go", types.StyleProfessional), tr.Transform("don't go", types.Style("Pirate")))
}

func TestTransformAll(t *testing.T) {
	options := NewSeeded(11).TransformAll("I can't wait", types.AllStyles())

	require.Len(t, options, types.StyleCount)
	for i, s := range types.AllStyles() {
		assert.Equal(t, string(s), options[i].Style)
		assert.Equal(t, s.Tone(), options[i].Tone)
		assert.NotEmpty(t, options[i].Text)
	}
}

func TestCapitalizeFirst(t *testing.T) {
	assert.Equal(t, "\"Hello\"", capitalizeFirst("\"hello\""))
	assert.Equal(t, "42 apples", capitalizeFirst("42 apples"))
	assert.Equal(t, "", capitalizeFirst(""))
	assert.Equal(t, "Élan", capitalizeFirst("élan"))
}
