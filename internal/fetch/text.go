package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ErrNoText is returned when a source yields nothing to rewrite.
var ErrNoText = errors.New("no text found")

// CleanText normalizes line endings, collapses spaces within lines and keeps
// at most one blank line between paragraphs.
func CleanText(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// FromFile reads and cleans a text file.
func FromFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %w", err)
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return nonEmpty(CleanText(string(content)))
}

// FromReader reads and cleans everything from r.
func FromReader(r io.Reader) (string, error) {
	content, err := io.ReadAll(io.LimitReader(r, MaxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return nonEmpty(CleanText(string(content)))
}

// PageOptions configures FromURL.
type PageOptions struct {
	Fetch *Options
	// Browser re-renders the page headlessly when the plain fetch yields
	// too little text.
	Browser bool
	Logger  *slog.Logger
}

// FromURL fetches a page and returns its main text.
func FromURL(ctx context.Context, urlStr string, opts PageOptions) (string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	result, err := URL(ctx, urlStr, opts.Fetch)
	if err != nil {
		return "", err
	}

	text, err := ExtractMainText(result.HTML, DefaultTextSelectors())
	if err != nil {
		return "", fmt.Errorf("content extraction failed: %w", err)
	}
	logger.Debug("extracted page text", "url", urlStr, "chars", len(text))

	if opts.Browser && ShouldUseBrowser(text) {
		html, renderErr := Render(ctx, urlStr, DefaultRenderTimeout, logger)
		if renderErr != nil {
			logger.Warn("browser rendering failed, using fetched content", "url", urlStr, "error", renderErr)
		} else if rendered, extractErr := ExtractMainText(html, DefaultTextSelectors()); extractErr == nil {
			text = rendered
		}
	}

	return nonEmpty(CleanText(text))
}

func nonEmpty(text string) (string, error) {
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}
