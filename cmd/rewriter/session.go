package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Print this client's session id, creating it if needed",
	Args:  cobra.NoArgs,
	RunE:  runSession,
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}

func runSession(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	sessions, err := a.sessions()
	if err != nil {
		return err
	}
	id, err := sessions.GetOrCreate()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, id)
	return err
}
