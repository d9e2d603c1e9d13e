// Package observability provides human-readable CLI output and logger setup.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/rewriter/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// previewRunes bounds the original text shown per history entry
	previewRunes = 60
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", inner, truncate(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", inner, truncate(line, inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintOptions lists rewrite options numbered from 1. degraded marks
// options produced locally after the generation service failed.
func (p *Printer) PrintOptions(options []types.RewriteOption, degraded bool) {
	if len(options) == 0 {
		return
	}

	var sb strings.Builder
	for i, opt := range options {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%d. %s (%s)\n", i+1, opt.Style, opt.Tone)
		for _, line := range wrap(opt.Text, boxWidth-7) {
			sb.WriteString("   " + line + "\n")
		}
	}
	if degraded {
		sb.WriteString("\nGenerated locally: the rewrite service was unavailable.\n")
	}

	p.printBox("REWRITE OPTIONS", sb.String())
}

// PrintHistory lists records newest first.
func (p *Printer) PrintHistory(records []types.RewriteRecord) {
	if len(records) == 0 {
		fmt.Fprintln(p.out, "No history yet.") //nolint:errcheck
		return
	}

	var sb strings.Builder
	for i, rec := range records {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s  %s\n", rec.ID, rec.CreatedAt.Local().Format("2006-01-02 15:04"))
		fmt.Fprintf(&sb, "  %q\n", truncate(rec.OriginalText, previewRunes))
		if opt, ok := rec.Selected(); ok {
			fmt.Fprintf(&sb, "  selected #%d %s: %s\n", *rec.SelectedOption+1, opt.Style, truncate(opt.Text, previewRunes-10))
		} else {
			fmt.Fprintf(&sb, "  %d options, none selected\n", len(rec.RewriteOptions))
		}
	}

	p.printBox(fmt.Sprintf("HISTORY (%d)", len(records)), sb.String())
}

// PrintSelection confirms a chosen option. saved reports whether the
// selection reached history.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSelection(index int, option types.RewriteOption, saved bool) {
	fmt.Fprintf(p.out, "Selected option %d (%s):\n%s\n", index+1, option.Style, option.Text)
	if !saved {
		fmt.Fprintln(p.out, "Selection was not saved to history.")
	}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// wrap breaks text into lines of at most width runes on word boundaries.
// Words longer than width get their own line and are truncated by printBox.
func wrap(text string, width int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if utf8.RuneCountInString(line)+1+utf8.RuneCountInString(w) > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line += " " + w
		}
		lines = append(lines, line)
	}
	return lines
}
