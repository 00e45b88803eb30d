package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/trendsignal/internal/contracts"
)

// PriceRepository implements contracts.PriceRepository on PostgreSQL.
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository.
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// SaveTicks upserts a batch of daily candles for a symbol.
func (r *PriceRepository) SaveTicks(ctx context.Context, symbol string, ticks []contracts.Tick) error {
	if len(ticks) == 0 {
		return nil
	}

	query := `
		INSERT INTO daily_prices (symbol, ts, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (symbol, ts) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume
	`

	batch := &pgx.Batch{}
	for _, t := range ticks {
		batch.Queue(query, symbol, t.Timestamp, t.Open, t.High, t.Low, t.Close, t.Volume)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range ticks {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("save ticks for %s: %w", symbol, err)
		}
	}
	return nil
}

// GetTicks retrieves candles for a symbol within a time range, ascending.
func (r *PriceRepository) GetTicks(ctx context.Context, symbol string, from, to time.Time) ([]contracts.Tick, error) {
	query := `
		SELECT ts, open, high, low, close, volume
		FROM daily_prices
		WHERE symbol = $1 AND ts BETWEEN $2 AND $3
		ORDER BY ts ASC
	`

	rows, err := r.pool.Query(ctx, query, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("get ticks for %s: %w", symbol, err)
	}
	defer rows.Close()

	return scanTicks(rows)
}

// GetRecentTicks retrieves the most recent candles for a symbol,
// ascending.
func (r *PriceRepository) GetRecentTicks(ctx context.Context, symbol string, limit int) ([]contracts.Tick, error) {
	query := `
		SELECT ts, open, high, low, close, volume
		FROM (
			SELECT ts, open, high, low, close, volume
			FROM daily_prices
			WHERE symbol = $1
			ORDER BY ts DESC
			LIMIT $2
		) recent
		ORDER BY ts ASC
	`

	rows, err := r.pool.Query(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent ticks for %s: %w", symbol, err)
	}
	defer rows.Close()

	return scanTicks(rows)
}

func scanTicks(rows pgx.Rows) ([]contracts.Tick, error) {
	var ticks []contracts.Tick
	for rows.Next() {
		var t contracts.Tick
		if err := rows.Scan(&t.Timestamp, &t.Open, &t.High, &t.Low, &t.Close, &t.Volume); err != nil {
			return nil, fmt.Errorf("scan tick: %w", err)
		}
		ticks = append(ticks, t)
	}
	return ticks, rows.Err()
}
