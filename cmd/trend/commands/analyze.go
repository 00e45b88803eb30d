package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/trendsignal/pkg/config"
	"github.com/wonny/trendsignal/pkg/logger"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [symbol...]",
	Short: "Run the analysis pipeline for one or more symbols",
	Long: `Fetches OHLCV candles for each symbol, enriches them with
indicators, scores the trend and prints the report as JSON.

Example:
  go run ./cmd/trend analyze AAPL
  go run ./cmd/trend analyze AAPL MSFT --timeout 60s`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var analyzeTimeout time.Duration

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "total analysis timeout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	analyzer, _, err := buildAnalyzer(cfg, log, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	var failed int
	for _, symbol := range args {
		report, err := analyzer.Analyze(ctx, symbol)
		if err != nil {
			failed++
			log.WithError(err).WithField("symbol", symbol).Error("Analysis failed")
			continue
		}
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("analysis failed for %d of %d symbols", failed, len(args))
	}
	return nil
}
