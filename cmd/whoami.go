package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Check the configured credentials against the backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.API.Username == "" || cfg.API.Password == "" {
			return errors.New("no credentials configured; use --username and --password")
		}

		ctx, stop := signalContext()
		defer stop()

		if err := newLoader(0).Login(ctx, cfg.API.Username, cfg.API.Password); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", cfg.API.Username)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
