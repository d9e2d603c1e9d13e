package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/rewriter/internal/history"
	"github.com/jonathan/rewriter/internal/observability"
	"github.com/jonathan/rewriter/internal/service"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, select and delete past rewrites for this session",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recent rewrites, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historySelectCmd = &cobra.Command{
	Use:   "select <id> <option>",
	Short: "Mark option N (1-based) of a past rewrite as chosen",
	Args:  cobra.ExactArgs(2),
	RunE:  runHistorySelect,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a past rewrite",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historyLimit int

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", history.DefaultListLimit, "Maximum number of records to show")

	historyCmd.AddCommand(historyListCmd, historySelectCmd, historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

// historyService opens history and returns a local-only service scoped to
// this client's session.
func historyService(cmd *cobra.Command) (*app, *service.RewriteService, func(), error) {
	a, err := newApp(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	store, closeStore, err := a.openHistory(cmd.Context())
	if err != nil {
		return nil, nil, nil, err
	}
	return a, service.New(nil, store, service.WithLogger(a.logger)), closeStore, nil
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	a, svc, closeStore, err := historyService(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	sessions, err := a.sessions()
	if err != nil {
		return err
	}
	sessionID, err := sessions.GetOrCreate()
	if err != nil {
		return err
	}

	result := svc.History(cmd.Context(), sessionID, historyLimit)
	if !result.OK() {
		return fmt.Errorf("failed to fetch history: %w", result.Err)
	}
	observability.NewPrinter(a.out).PrintHistory(result.Value)
	return nil
}

func runHistorySelect(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid record id %q: %w", args[0], err)
	}
	option, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid option %q: must be a number", args[1])
	}

	a, svc, closeStore, err := historyService(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	sessions, err := a.sessions()
	if err != nil {
		return err
	}
	sessionID, err := sessions.GetOrCreate()
	if err != nil {
		return err
	}

	saved, err := svc.SelectRecord(cmd.Context(), sessionID, id, option-1)
	if errors.Is(err, history.ErrRecordNotFound) {
		return fmt.Errorf("no record %s in this session", id)
	}
	if err != nil {
		return err
	}
	if !saved {
		return fmt.Errorf("failed to save selection for %s", id)
	}
	_, err = fmt.Fprintf(a.out, "Selected option %d of %s\n", option, id)
	return err
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid record id %q: %w", args[0], err)
	}

	a, svc, closeStore, err := historyService(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	result := svc.Delete(cmd.Context(), id)
	if errors.Is(result.Err, history.ErrRecordNotFound) {
		return fmt.Errorf("no record %s", id)
	}
	if !result.OK() {
		return fmt.Errorf("failed to delete %s: %w", id, result.Err)
	}
	_, err = fmt.Fprintf(a.out, "Deleted %s\n", id)
	return err
}
