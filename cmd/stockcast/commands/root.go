package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stockcast",
	Short: "Ridge-regression stock price forecasting service",
	Long: `Stockcast trains a fresh ridge regression per ticker on recent daily
candles and forecasts the close a configurable number of days ahead.

Usage:
  go run ./cmd/stockcast [command]

Examples:
  go run ./cmd/stockcast api
  go run ./cmd/stockcast batch
  go run ./cmd/stockcast scheduler
  go run ./cmd/stockcast predict --ticker AAPL --days 1`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}
