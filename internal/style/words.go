package style

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// compiledSubstitution is a substitution with its case-insensitive matcher.
type compiledSubstitution struct {
	pattern *regexp.Regexp
	to      string
}

func compile(table []substitution) []compiledSubstitution {
	compiled := make([]compiledSubstitution, 0, len(table))
	for _, sub := range table {
		expr := regexp.QuoteMeta(sub.from)
		expr = strings.ReplaceAll(expr, "'", "['’]")
		expr = strings.ReplaceAll(expr, " ", `\s+`)
		compiled = append(compiled, compiledSubstitution{
			pattern: regexp.MustCompile("(?i)" + expr),
			to:      sub.to,
		})
	}
	return compiled
}

// applyAll runs every substitution of the table over text in order.
func applyAll(text string, table []compiledSubstitution) string {
	for _, sub := range table {
		text = replaceWholeWord(text, sub)
	}
	return text
}

// replaceWholeWord replaces matches that are not embedded in a longer word.
// Letters, digits and underscores count as word characters. An apostrophe
// counts only between two letters, so "can't" inside "xcan'ty" is left alone
// while 'cannot' in single quotes is still replaced.
func replaceWholeWord(text string, sub compiledSubstitution) string {
	matches := sub.pattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if !atWordBoundary(text, start, end) {
			continue
		}
		sb.WriteString(text[last:start])
		sb.WriteString(matchCase(text[start:end], sub.to))
		last = end
	}
	sb.WriteString(text[last:])
	return sb.String()
}

func atWordBoundary(text string, start, end int) bool {
	if start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
		if isApostrophe(r) {
			before, _ := utf8.DecodeLastRuneInString(text[:start-size])
			first, _ := utf8.DecodeRuneInString(text[start:])
			if unicode.IsLetter(before) && unicode.IsLetter(first) {
				return false
			}
		}
	}
	if end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
		if isApostrophe(r) {
			lastRune, _ := utf8.DecodeLastRuneInString(text[:end])
			after, _ := utf8.DecodeRuneInString(text[end+size:])
			if unicode.IsLetter(lastRune) && unicode.IsLetter(after) {
				return false
			}
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’'
}

// matchCase carries the capitalisation of the matched text over to the replacement.
func matchCase(matched, replacement string) string {
	if isAllUpper(matched) && utf8.RuneCountInString(matched) > 1 {
		return strings.ToUpper(replacement)
	}
	first, _ := utf8.DecodeRuneInString(matched)
	if unicode.IsUpper(first) {
		return capitalizeFirst(replacement)
	}
	return replacement
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// capitalizeFirst upper-cases the first letter, skipping leading punctuation
// such as quotes. A leading digit stops the search.
func capitalizeFirst(s string) string {
	for i, r := range s {
		if unicode.IsDigit(r) {
			return s
		}
		if unicode.IsLetter(r) {
			if unicode.IsUpper(r) {
				return s
			}
			return s[:i] + string(unicode.ToUpper(r)) + s[i+utf8.RuneLen(r):]
		}
	}
	return s
}

// lowerFirst lower-cases the first letter unless the leading word is the
// pronoun "I" (or a contraction of it) or an acronym.
func lowerFirst(s string) string {
	firstWord := strings.Fields(s)
	if len(firstWord) > 0 {
		word := strings.TrimRight(firstWord[0], ".,!?;:")
		if word == "I" || strings.HasPrefix(word, "I'") || strings.HasPrefix(word, "I’") {
			return s
		}
		if isAllUpper(word) && utf8.RuneCountInString(word) > 1 {
			return s
		}
	}
	for i, r := range s {
		if unicode.IsLetter(r) {
			return s[:i] + string(unicode.ToLower(r)) + s[i+utf8.RuneLen(r):]
		}
		if unicode.IsDigit(r) {
			return s
		}
	}
	return s
}

// hasTerminal reports whether s ends in sentence-final punctuation.
func hasTerminal(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r == '.' || r == '!' || r == '?'
}

// ensureTerminal appends mark when s lacks sentence-final punctuation.
func ensureTerminal(s, mark string) string {
	if hasTerminal(s) {
		return s
	}
	return s + mark
}

// trimTerminal removes trailing sentence punctuation and clause separators.
func trimTerminal(s string) string {
	return strings.TrimRight(s, ".!?,;: ")
}

// splitSentences splits on runs of terminators, dropping blank fragments.
func splitSentences(s string) []string {
	fragments := strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentences := make([]string, 0, len(fragments))
	for _, f := range fragments {
		f = strings.TrimSpace(f)
		if f != "" {
			sentences = append(sentences, f)
		}
	}
	return sentences
}

// normalizeToken lower-cases a token and strips surrounding punctuation.
func normalizeToken(token string) string {
	return strings.ToLower(strings.TrimFunc(token, func(r rune) bool {
		return unicode.IsPunct(r) && r != '\'' && r != '’'
	}))
}
