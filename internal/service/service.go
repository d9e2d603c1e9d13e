// Package service implements the client-side rewrite flow: validate input,
// fetch options, degrade to local rewriting, and record history.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/rewriter/internal/history"
	"github.com/jonathan/rewriter/internal/style"
	"github.com/jonathan/rewriter/internal/types"
)

// DefaultFallbackDelay is the pause before the fully local pass.
const DefaultFallbackDelay = time.Second

// OptionSource produces rewrite options, typically over the network.
type OptionSource interface {
	Rewrite(ctx context.Context, text string, styles []types.Style) ([]types.RewriteOption, error)
}

// Result is the outcome of a rewrite.
type Result struct {
	Options  []types.RewriteOption
	RecordID uuid.UUID
	// Degraded is set when every option came from the local transformer.
	Degraded bool
	// Selected is the locally chosen option, independent of persistence.
	Selected *int
}

// Saved reports whether the request was recorded in history.
func (r *Result) Saved() bool {
	return r.RecordID != uuid.Nil
}

type textInput struct {
	Text string `validate:"required,min=5"`
}

// RewriteService coordinates option generation and history.
type RewriteService struct {
	source        OptionSource
	history       *history.Adapter
	logger        *slog.Logger
	validate      *validator.Validate
	styles        []types.Style
	fallbackDelay time.Duration
	local         func(text string, styles []types.Style) []types.RewriteOption
}

// Option configures a RewriteService
type Option func(*RewriteService)

// WithFallbackDelay overrides DefaultFallbackDelay.
func WithFallbackDelay(d time.Duration) Option {
	return func(s *RewriteService) { s.fallbackDelay = d }
}

// WithTransformer sets the transformer used in degraded mode.
func WithTransformer(t *style.Transformer) Option {
	return func(s *RewriteService) { s.local = t.TransformAll }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *RewriteService) { s.logger = l }
}

// New creates a RewriteService. source may be nil to always rewrite locally;
// store may be nil to skip history.
func New(source OptionSource, store *history.Adapter, opts ...Option) *RewriteService {
	s := &RewriteService{
		source:        source,
		history:       store,
		logger:        slog.Default(),
		validate:      validator.New(),
		styles:        types.AllStyles(),
		fallbackDelay: DefaultFallbackDelay,
		local:         style.NewTransformer(nil).TransformAll,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateText checks the input before any backend call.
func (s *RewriteService) ValidateText(text string) error {
	err := s.validate.Struct(textInput{Text: strings.TrimSpace(text)})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		switch fieldErrs[0].Tag() {
		case "required":
			return &ValidationError{Field: "text", Message: MsgTextRequired}
		case "min":
			return &ValidationError{Field: "text", Message: MsgTextTooShort}
		}
	}
	return fmt.Errorf("failed to validate text: %w", err)
}

// Rewrite produces one option per style for text and records the request
// under session. Persistence failures leave RecordID unset but do not fail
// the call.
func (s *RewriteService) Rewrite(ctx context.Context, session types.SessionID, text string) (*Result, error) {
	if err := s.ValidateText(text); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)

	result := &Result{}
	var options []types.RewriteOption
	if s.source == nil {
		options = s.local(text, s.styles)
		result.Degraded = true
	} else if remote, err := s.fetch(ctx, text); err != nil {
		s.logger.Warn("rewrite backend unavailable, using local rewrites", "error", err)
		if err := s.pause(ctx); err != nil {
			return nil, err
		}
		options = s.local(text, s.styles)
		result.Degraded = true
	} else {
		options = remote
	}

	if len(options) != len(s.styles) {
		s.logger.Error("rewrite produced wrong option count", "want", len(s.styles), "got", len(options))
		return nil, ErrGenerationFailed
	}
	result.Options = options

	if s.history != nil {
		if saved := s.history.Save(ctx, text, options, session); saved.OK() {
			result.RecordID = saved.Value
		}
	}
	return result, nil
}

// Select marks option index of result as chosen. It returns whether the
// choice was persisted; the local selection is updated either way.
func (s *RewriteService) Select(ctx context.Context, result *Result, index int) (bool, error) {
	if index < 0 || index >= len(result.Options) {
		return false, &ValidationError{Field: "index", Message: MsgInvalidSelection}
	}
	result.Selected = &index

	if !result.Saved() || s.history == nil {
		return false, nil
	}
	return s.history.SetSelection(ctx, result.RecordID, index).Value, nil
}

// SelectRecord marks an option of a stored record as chosen, checking the
// index against the record's options.
func (s *RewriteService) SelectRecord(ctx context.Context, session types.SessionID, id uuid.UUID, index int) (bool, error) {
	if s.history == nil {
		return false, nil
	}

	found := s.history.Get(ctx, session, id)
	if !found.OK() {
		if errors.Is(found.Err, history.ErrRecordNotFound) {
			return false, history.ErrRecordNotFound
		}
		return false, nil
	}
	if index < 0 || index >= len(found.Value.RewriteOptions) {
		return false, &ValidationError{Field: "index", Message: MsgInvalidSelection}
	}
	return s.history.SetSelection(ctx, id, index).Value, nil
}

// History lists the session's past requests, newest first.
func (s *RewriteService) History(ctx context.Context, session types.SessionID, limit int) history.Result[[]types.RewriteRecord] {
	if s.history == nil {
		return history.Result[[]types.RewriteRecord]{Value: []types.RewriteRecord{}}
	}
	return s.history.List(ctx, session, limit)
}

// Delete removes a history record.
func (s *RewriteService) Delete(ctx context.Context, id uuid.UUID) history.Result[bool] {
	if s.history == nil {
		return history.Result[bool]{Value: false, Err: history.ErrRecordNotFound}
	}
	return s.history.Delete(ctx, id)
}

func (s *RewriteService) fetch(ctx context.Context, text string) ([]types.RewriteOption, error) {
	options, err := s.source.Rewrite(ctx, text, s.styles)
	if err != nil {
		return nil, err
	}
	if len(options) != len(s.styles) {
		return nil, fmt.Errorf("backend returned %d options, want %d", len(options), len(s.styles))
	}

	checked := make([]types.RewriteOption, len(options))
	for i, want := range s.styles {
		got := options[i]
		if !sameStyle(got.Style, want) {
			return nil, fmt.Errorf("backend option %d has style %q, want %q", i, got.Style, want)
		}
		if strings.TrimSpace(got.Text) == "" {
			return nil, fmt.Errorf("backend option %d (%s) is empty", i, want)
		}
		checked[i] = types.NewRewriteOption(got.Text, want)
	}
	return checked, nil
}

// sameStyle matches a returned style name against the requested style,
// ignoring case and surrounding space.
func sameStyle(name string, want types.Style) bool {
	if parsed, err := types.ParseStyle(name); err == nil {
		return parsed == want
	}
	return strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(string(want)))
}

func (s *RewriteService) pause(ctx context.Context) error {
	if s.fallbackDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.fallbackDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
