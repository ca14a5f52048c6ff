package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"village-server/internal/auth"
	"village-server/internal/shared/clock"
)

func newTokenCmd() *cobra.Command {
	var (
		playerID string
		username string
		secret   string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := auth.NewTokenService(secret, ttl, clock.System{})
			if err != nil {
				return err
			}
			signed, err := tokens.Generate(playerID, username)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}
	cmd.Flags().StringVar(&playerID, "player", "", "player id (token subject)")
	cmd.Flags().StringVar(&username, "username", "", "display name")
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "signing secret (defaults to $JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("player")
	return cmd
}
