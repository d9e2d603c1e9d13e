package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/rewriter/internal/config"
	"github.com/jonathan/rewriter/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing POST /rewrite and the /history endpoints.

Options come from the configured model, one request per style, with a local
rewrite for any style that fails. History is stored in PostgreSQL when
DATABASE_URL is set and in a local SQLite file otherwise. Setting JWT_SECRET
requires bearer tokens (see "rewriter token").`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if servePort != 0 {
		a.cfg.Port = servePort
	}

	jwtConfig, err := config.OptionalJWTConfig()
	if err != nil {
		return err
	}
	if jwtConfig == nil {
		a.logger.Warn("JWT_SECRET not set, API is unauthenticated")
	}

	store, closeStore, err := a.openHistory(ctx)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer closeStore()

	client, err := a.newModelClient(ctx)
	if err != nil {
		return err
	}
	if client != nil {
		defer func() { _ = client.Close() }()
	}

	srv := server.New(server.Config{
		Port:   a.cfg.Port,
		JWT:    jwtConfig,
		Logger: a.logger,
	}, a.newOrchestrator(client), store)

	return srv.Start()
}
