package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/jonathan/rewriter/internal/backend"
	"github.com/jonathan/rewriter/internal/config"
	"github.com/jonathan/rewriter/internal/db"
	"github.com/jonathan/rewriter/internal/history"
	"github.com/jonathan/rewriter/internal/llm"
	"github.com/jonathan/rewriter/internal/observability"
	"github.com/jonathan/rewriter/internal/rewriting"
	"github.com/jonathan/rewriter/internal/service"
	"github.com/jonathan/rewriter/internal/session"
)

// app holds what every command needs after config is loaded.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	out    io.Writer
}

// newApp loads configuration (defaults, file, environment, flags) and
// builds the logger.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg := config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := observability.NewLogger(cmd.ErrOrStderr(), cfg.LogFormat, cfg.Verbose)
	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	})); err != nil {
		logger.Debug("failed to set GOMAXPROCS", "error", err)
	}

	return &app{cfg: cfg, logger: logger, out: cmd.OutOrStdout()}, nil
}

// sessions returns the provider for this client's session id.
func (a *app) sessions() (*session.Provider, error) {
	path := a.cfg.StatePath
	if path == "" {
		var err error
		if path, err = session.DefaultStatePath(); err != nil {
			return nil, err
		}
	}
	return session.NewProvider(session.NewFileKV(path)), nil
}

// openHistory connects to PostgreSQL when a database URL is configured and
// to the local SQLite file otherwise.
func (a *app) openHistory(ctx context.Context) (*history.Adapter, func(), error) {
	if a.cfg.DatabaseURL != "" {
		pg, err := db.Connect(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		a.logger.Debug("using PostgreSQL history")
		return history.NewAdapter(pg, a.logger), pg.Close, nil
	}

	path := a.cfg.HistoryPath
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve config dir: %w", err)
		}
		path = filepath.Join(dir, "rewriter", "history.db")
	}
	lite, err := db.OpenSQLite(path)
	if err != nil {
		return nil, nil, err
	}
	a.logger.Debug("using SQLite history", "path", path)
	return history.NewAdapter(lite, a.logger), func() { _ = lite.Close() }, nil
}

// newModelClient returns nil when no API key is available; callers then
// rewrite locally.
func (a *app) newModelClient(ctx context.Context) (llm.Client, error) {
	apiKey := a.cfg.ProviderAPIKey()
	if apiKey == "" {
		a.logger.Warn("no API key for provider, rewriting locally", "provider", string(a.cfg.LLM.Provider))
		return nil, nil
	}
	client, err := llm.NewClient(ctx, &a.cfg.LLM, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

// newOrchestrator wraps an optional model client.
func (a *app) newOrchestrator(client llm.Client) *rewriting.Orchestrator {
	return rewriting.NewOrchestrator(client,
		rewriting.WithTimeout(a.cfg.StyleTimeout()),
		rewriting.WithLogger(a.logger),
	)
}

// optionSource picks where options come from: a remote backend, the model
// directly, or nowhere (local rewriting). The returned cleanup is never nil.
func (a *app) optionSource(ctx context.Context, local bool) (service.OptionSource, func(), error) {
	noop := func() {}
	if local {
		return nil, noop, nil
	}
	if a.cfg.BackendURL != "" {
		a.logger.Debug("using rewrite backend", "url", a.cfg.BackendURL)
		return backend.NewClient(a.cfg.BackendURL, a.cfg.BackendToken, nil), noop, nil
	}

	client, err := a.newModelClient(ctx)
	if err != nil {
		return nil, noop, err
	}
	if client == nil {
		return nil, noop, nil
	}
	return a.newOrchestrator(client), func() { _ = client.Close() }, nil
}
