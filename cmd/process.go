package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var processDate string

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Ask the backend to process the BORME of a given day",
	Long: `Process triggers server-side ingestion of the bulletin published on the
given date. The backend downloads and parses the bulletin; this command only
sends the request and prints the reply.

Examples:
  # Process today's bulletin
  ./borme process

  # Process a specific day
  ./borme process --date 2024-01-15 -u admin -p secret`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := time.Parse("2006-01-02", processDate); err != nil {
			return fmt.Errorf("invalid date format: %w", err)
		}

		ctx, stop := signalContext()
		defer stop()

		loader := newLoader(0)
		reply, err := loader.Process(ctx, processDate)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Processing requested for %s\n", processDate)
		if reply != "" {
			fmt.Fprintln(out, reply)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	today := time.Now().Format("2006-01-02")
	processCmd.Flags().StringVarP(&processDate, "date", "d", today, "Bulletin date (YYYY-MM-DD)")
}
