package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/rewriter/internal/fetch"
	"github.com/jonathan/rewriter/internal/observability"
	"github.com/jonathan/rewriter/internal/schemas"
	"github.com/jonathan/rewriter/internal/service"
	"github.com/jonathan/rewriter/internal/types"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [text]",
	Short: "Rewrite text in every style",
	Long: `Rewrite text in the Professional, Casual, Concise, Creative and Simplified styles.

Text comes from the arguments, --file, --url, or standard input. Options are
generated by the configured backend or model; when that fails every option is
produced locally. Each request is saved to this session's history.`,
	RunE: runRewrite,
}

var (
	rewriteFile    string
	rewriteURL     string
	rewriteBrowser bool
	rewriteSelect  int
	rewriteLocal   bool
	rewriteJSON    bool
)

func init() {
	rewriteCmd.Flags().StringVarP(&rewriteFile, "file", "f", "", "Read text from a file")
	rewriteCmd.Flags().StringVarP(&rewriteURL, "url", "u", "", "Read the main text of a web page")
	rewriteCmd.Flags().BoolVar(&rewriteBrowser, "browser", false, "Render --url pages in headless Chrome when the plain fetch finds little text")
	rewriteCmd.Flags().IntVarP(&rewriteSelect, "select", "s", 0, "Select option N (1-based) after generating")
	rewriteCmd.Flags().BoolVar(&rewriteLocal, "local", false, "Skip the backend and model; rewrite locally")
	rewriteCmd.Flags().BoolVar(&rewriteJSON, "json", false, "Print options as JSON")

	rewriteCmd.MarkFlagsMutuallyExclusive("file", "url")
	rootCmd.AddCommand(rewriteCmd)
}

// rewriteOutput is the --json document.
type rewriteOutput struct {
	types.RewriteResponse
	RecordID *uuid.UUID `json:"record_id,omitempty"`
	Degraded bool       `json:"degraded"`
	Selected *int       `json:"selected,omitempty"`
}

func runRewrite(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	sessions, err := a.sessions()
	if err != nil {
		return err
	}
	sessionID, err := sessions.GetOrCreate()
	if err != nil {
		return err
	}

	store, closeStore, err := a.openHistory(ctx)
	if err != nil {
		a.logger.Warn("history unavailable, continuing without it", "error", err)
		store, closeStore = nil, func() {}
	}
	defer closeStore()

	source, closeSource, err := a.optionSource(ctx, rewriteLocal)
	if err != nil {
		return err
	}
	defer closeSource()

	svc := service.New(source, store,
		service.WithFallbackDelay(a.cfg.FallbackDelay()),
		service.WithLogger(a.logger),
	)

	result, err := svc.Rewrite(ctx, sessionID, text)
	if err != nil {
		return err
	}

	saved := false
	if rewriteSelect != 0 {
		if saved, err = svc.Select(ctx, result, rewriteSelect-1); err != nil {
			return err
		}
	}

	if rewriteJSON {
		return writeRewriteJSON(a.out, result)
	}

	printer := observability.NewPrinter(a.out)
	printer.PrintOptions(result.Options, result.Degraded && !rewriteLocal)
	if result.Selected != nil {
		printer.PrintSelection(*result.Selected, result.Options[*result.Selected], saved)
	}
	return nil
}

// readInput resolves the text source: --file, --url, arguments, then stdin.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case rewriteFile != "":
		return fetch.FromFile(rewriteFile)
	case rewriteURL != "":
		return fetch.FromURL(cmd.Context(), rewriteURL, fetch.PageOptions{Browser: rewriteBrowser})
	case len(args) > 0:
		return strings.Join(args, " "), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return "", errors.New("no text given: pass it as an argument, --file, --url, or on stdin")
		}
	}
	return fetch.FromReader(in)
}

func writeRewriteJSON(w io.Writer, result *service.Result) error {
	out := rewriteOutput{
		RewriteResponse: types.RewriteResponse{Options: result.Options},
		Degraded:        result.Degraded,
		Selected:        result.Selected,
	}
	if result.Saved() {
		out.RecordID = &result.RecordID
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := schemas.Validate(schemas.RewriteResponse, data); err != nil {
		return fmt.Errorf("generated JSON does not validate against schema: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
