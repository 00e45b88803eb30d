package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/trendsignal/internal/contracts"
	"github.com/wonny/trendsignal/internal/store"
	"github.com/wonny/trendsignal/pkg/config"
	"github.com/wonny/trendsignal/pkg/database"
	"github.com/wonny/trendsignal/pkg/logger"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [symbol]",
	Short: "Print stored OHLCV candles for a symbol",
	Long: `Reads previously persisted candles from the database and prints
them as JSON, most recent last. Requires DATABASE_URL.

Example:
  go run ./cmd/trend history AAPL --limit 30
  go run ./cmd/trend history AAPL --from 2026-01-01 --to 2026-03-01`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

var (
	historyLimit int
	historyFrom  string
	historyTo    string
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 60, "number of most recent candles to print")
	historyCmd.Flags().StringVar(&historyFrom, "from", "", "range start (YYYY-MM-DD), used with --to")
	historyCmd.Flags().StringVar(&historyTo, "to", "", "range end (YYYY-MM-DD), used with --from")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required for history")
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	priceRepo := store.NewPriceRepository(db.Pool)
	symbol := args[0]

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var ticks []contracts.Tick
	if historyFrom != "" || historyTo != "" {
		from, to, err := parseHistoryRange(historyFrom, historyTo)
		if err != nil {
			return err
		}
		ticks, err = priceRepo.GetTicks(ctx, symbol, from, to)
		if err != nil {
			return fmt.Errorf("load candles: %w", err)
		}
	} else {
		ticks, err = priceRepo.GetRecentTicks(ctx, symbol, historyLimit)
		if err != nil {
			return fmt.Errorf("load candles: %w", err)
		}
	}

	if len(ticks) == 0 {
		log.WithField("symbol", symbol).Warn("No stored candles")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(ticks)
}

func parseHistoryRange(fromStr, toStr string) (time.Time, time.Time, error) {
	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("--from and --to must be used together")
	}
	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
	}
	to, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %w", err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to must not be before --from")
	}
	return from, to, nil
}
