package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run one batch prediction over the ticker universe",
	Long: `Fetch the S&P 500 universe, download recent history for each ticker,
train a ridge model per ticker and store the forecasts.

Example:
  go run ./cmd/stockcast batch`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	d, closeDeps, err := buildDeps()
	if err != nil {
		return err
	}
	defer closeDeps()

	summary, err := d.runner.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("batch run failed: %w", err)
	}

	fmt.Printf("Batch complete: %d/%d tickers predicted (%d skipped) in %s\n",
		summary.Succeeded, summary.Total, summary.Skipped, summary.Duration.Round(time.Second))
	return nil
}
