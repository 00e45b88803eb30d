package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trend",
	Short: "trendsignal - OHLCV indicator enrichment and trend scoring",
	Long: `trendsignal CLI

Fetches daily OHLCV candles, enriches them with technical indicators
and scores the trend with a rule table.

Usage:
  go run ./cmd/trend [command]

Examples:
  go run ./cmd/trend api
  go run ./cmd/trend analyze AAPL
  go run ./cmd/trend schedule`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
