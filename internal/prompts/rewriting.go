package prompts

import "fmt"

const (
	rewriteTemplate = "rewrite-text"
	fallbackKey     = "professional"
)

func mustRewriting() Set {
	set, err := Rewriting()
	if err != nil {
		panic(fmt.Sprintf("embedded rewriting prompts: %v", err))
	}
	return set
}

// RewriteInstruction returns the instruction for a style name. Unknown
// styles get the professional instruction.
func RewriteInstruction(style string) string {
	set := mustRewriting()
	if instruction, ok := set.Lookup(style); ok && style != rewriteTemplate {
		return instruction
	}
	instruction, _ := set.Lookup(fallbackKey)
	return instruction
}

// RewritePrompt builds the full prompt asking a model to rewrite text in style.
func RewritePrompt(style, text string) string {
	template, _ := mustRewriting().Lookup(rewriteTemplate)
	return Fill(template, map[string]string{
		"Instruction": RewriteInstruction(style),
		"Text":        text,
	})
}
