package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/rewriter/internal/config"
	"github.com/jonathan/rewriter/internal/server"
	"github.com/jonathan/rewriter/internal/types"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the HTTP API",
	Long:  "Mint an HS256 bearer token for the HTTP API, signed with JWT_SECRET. The token scopes history requests to one session.",
	Args:  cobra.NoArgs,
	RunE:  runToken,
}

var (
	tokenSession string
	tokenTTL     time.Duration
)

func init() {
	tokenCmd.Flags().StringVar(&tokenSession, "session", "", "Session to issue the token for (default: this client's session)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (default: JWT_EXPIRATION_HOURS)")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}

	sessionID := types.SessionID(tokenSession)
	if sessionID == "" {
		sessions, err := a.sessions()
		if err != nil {
			return err
		}
		if sessionID, err = sessions.GetOrCreate(); err != nil {
			return err
		}
	}

	token, err := server.NewJWTService(jwtConfig).GenerateToken(sessionID, tokenTTL)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, token)
	return err
}
