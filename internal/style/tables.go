package style

// substitution maps a phrase to its replacement. Phrases match case-insensitively
// on whole-word boundaries; an apostrophe in a phrase also matches a typographic one.
type substitution struct {
	from string
	to   string
}

// professionalExpansions expands contractions and informal fillers.
var professionalExpansions = []substitution{
	{"can't", "cannot"},
	{"won't", "will not"},
	{"don't", "do not"},
	{"doesn't", "does not"},
	{"isn't", "is not"},
	{"i'm", "I am"},
	{"it's", "it is"},
	{"you're", "you are"},
	{"we're", "we are"},
	{"they're", "they are"},
	{"pretty", "rather"},
	{"kinda", "somewhat"},
	{"gonna", "going to"},
	{"wanna", "want to"},
	{"gotta", "have to"},
}

// casualContractions is the inverse of professionalExpansions plus informal greetings.
var casualContractions = []substitution{
	{"cannot", "can't"},
	{"will not", "won't"},
	{"do not", "don't"},
	{"does not", "doesn't"},
	{"going to", "gonna"},
	{"want to", "wanna"},
	{"hello", "hey"},
	{"greetings", "hi there"},
}

// simplerSynonyms replaces complex words with plain ones.
var simplerSynonyms = []substitution{
	{"utilize", "use"},
	{"utilizes", "uses"},
	{"utilized", "used"},
	{"facilitate", "help"},
	{"facilitates", "helps"},
	{"commence", "start"},
	{"terminate", "end"},
	{"purchase", "buy"},
	{"acquire", "get"},
	{"demonstrate", "show"},
	{"nevertheless", "but"},
	{"however", "but"},
	{"therefore", "so"},
	{"additionally", "also"},
	{"subsequently", "then"},
	{"approximately", "about"},
	{"sufficient", "enough"},
}

// fillerWords are dropped by the Concise style when no longer than
// conciseFillerMaxLen letters; longer ones are kept.
var fillerWords = map[string]bool{
	"the": true, "a": true, "an": true,
	"very": true, "really": true, "quite": true, "rather": true,
	"just": true, "actually": true, "basically": true,
	"so": true, "totally": true, "literally": true,
}

var creativeOpenings = []string{
	"Imagine this: ",
	"Picture this: ",
	"Here's the thing: ",
	"Get this: ",
	"Listen up: ",
}

var creativeClosings = []string{
	" Pretty cool, right?",
	" Exciting stuff!",
	" Amazing, isn't it?",
	"!",
	" How awesome is that?",
}

var casualEndings = []string{"!", "."}

// emptyPlaceholder stands in for empty or whitespace-only input.
const emptyPlaceholder = "Nothing to rewrite"

// Concise keeps ceil(3/5) of the tokens, never fewer than conciseMinTokens.
const (
	conciseKeepNum   = 3
	conciseKeepDen   = 5
	conciseMinTokens = 3

	conciseFillerMaxLen = 6
)

// Openings returns the closed set of Creative opening phrases.
func Openings() []string {
	return append([]string(nil), creativeOpenings...)
}

// Closings returns the closed set of Creative closing phrases.
func Closings() []string {
	return append([]string(nil), creativeClosings...)
}

// CasualEndings returns the closed set of marks appended by the Casual style.
func CasualEndings() []string {
	return append([]string(nil), casualEndings...)
}
