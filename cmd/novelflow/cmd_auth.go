package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thinkwright/novelflow/internal/config"
)

var (
	loginToken string
	logoutAll  bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a bearer token for the NovelFlow API",
	Long: `Stores the token in the client storage file. Every API request sends it
as "Authorization: Bearer <token>".

NOVELFLOW_TOKEN, when set, is used instead of the stored token.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		token := strings.TrimSpace(loginToken)
		if token == "" {
			return errors.New("--token must not be empty")
		}
		kv, err := openStorage()
		if err != nil {
			return err
		}
		defer kv.Close()

		if err := kv.SetAuthToken(token); err != nil {
			return fmt.Errorf("saving token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "token saved")
		if cfg.Token != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "note: %s is set and takes precedence\n", config.EnvToken)
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Delete the stored bearer token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, err := openStorage()
		if err != nil {
			return err
		}
		defer kv.Close()

		if logoutAll {
			if err := kv.Reset(); err != nil {
				return fmt.Errorf("clearing storage: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "token and saved state removed")
			return nil
		}
		if err := kv.ClearAuthToken(); err != nil {
			return fmt.Errorf("removing token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "token removed")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginToken, "token", "", "bearer token")
	_ = loginCmd.MarkFlagRequired("token")
	logoutCmd.Flags().BoolVar(&logoutAll, "all", false, "also forget the saved user and UI state")
}
