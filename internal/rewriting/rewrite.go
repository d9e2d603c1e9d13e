// Package rewriting produces one rewrite per style, asking an LLM first and
// falling back to the local style transformer for any style the model fails on.
package rewriting

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/rewriter/internal/llm"
	"github.com/jonathan/rewriter/internal/prompts"
	"github.com/jonathan/rewriter/internal/style"
	"github.com/jonathan/rewriter/internal/types"
)

// DefaultStyleTimeout bounds a single style's model call.
const DefaultStyleTimeout = 15 * time.Second

// Orchestrator fans a rewrite out over styles.
type Orchestrator struct {
	client      llm.Client
	transformer *style.Transformer
	timeout     time.Duration
	logger      *slog.Logger
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithTransformer sets the local fallback transformer.
func WithTransformer(t *style.Transformer) Option {
	return func(o *Orchestrator) { o.transformer = t }
}

// WithTimeout sets the per-style timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// NewOrchestrator creates an Orchestrator. A nil client runs every style locally.
func NewOrchestrator(client llm.Client, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:  client,
		timeout: DefaultStyleTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.transformer == nil {
		o.transformer = style.NewTransformer(nil)
	}
	return o
}

// GenerateOptions returns exactly one option per style, in the order given.
// Nil or empty styles means every supported style. Each style resolves on its
// own; a failure for one never affects the others, and the call returns only
// once all styles are resolved.
func (o *Orchestrator) GenerateOptions(ctx context.Context, text string, styles []types.Style) []types.RewriteOption {
	if len(styles) == 0 {
		styles = types.AllStyles()
	}

	options := make([]types.RewriteOption, len(styles))
	var g errgroup.Group
	for i, s := range styles {
		g.Go(func() error {
			out, err := o.tryRemote(ctx, text, s)
			options[i] = types.NewRewriteOption(o.orElse(out, err, text, s), s)
			return nil
		})
	}
	_ = g.Wait()

	return options
}

// Rewrite adapts GenerateOptions to the option source used by the rewrite
// service. It never returns an error.
func (o *Orchestrator) Rewrite(ctx context.Context, text string, styles []types.Style) ([]types.RewriteOption, error) {
	return o.GenerateOptions(ctx, text, styles), nil
}

// Fallback computes every option locally.
func (o *Orchestrator) Fallback(text string, styles []types.Style) []types.RewriteOption {
	if len(styles) == 0 {
		styles = types.AllStyles()
	}
	return o.transformer.TransformAll(text, styles)
}

// tryRemote asks the model for one style under its own timeout.
func (o *Orchestrator) tryRemote(ctx context.Context, text string, s types.Style) (string, error) {
	if o.client == nil {
		return "", &APICallError{Message: "no generation model configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.GenerateContent(ctx, prompts.RewritePrompt(string(s), text))
	if err != nil {
		return "", &APICallError{
			Message: fmt.Sprintf("failed to generate content for style %s", s),
			Cause:   err,
		}
	}

	out := Sanitize(resp)
	if out == "" {
		return "", &APICallError{Message: fmt.Sprintf("empty content for style %s", s)}
	}
	return out, nil
}

// orElse keeps a remote result or substitutes the local transform.
func (o *Orchestrator) orElse(remote string, err error, text string, s types.Style) string {
	if err == nil {
		return remote
	}
	if o.client != nil {
		o.logger.Warn("falling back to local rewrite", "style", string(s), "error", err)
	}
	return o.transformer.Transform(text, s)
}

// Sanitize trims a model reply and strips a single wrapping quote character
// at each end. Inner quotes are kept.
func Sanitize(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, `"`) || strings.HasPrefix(text, "'") {
		text = text[1:]
	}
	if strings.HasSuffix(text, `"`) || strings.HasSuffix(text, "'") {
		text = text[:len(text)-1]
	}
	return strings.TrimSpace(text)
}
