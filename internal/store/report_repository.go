package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/trendsignal/internal/contracts"
)

// ReportRepository persists generated trend reports as jsonb.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new report repository.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// SaveReport stores a trend report for a symbol.
func (r *ReportRepository) SaveReport(ctx context.Context, report *contracts.TrendReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report for %s: %w", report.Symbol, err)
	}

	query := `
		INSERT INTO trend_reports (symbol, generated_at, score_total, report)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.pool.Exec(ctx, query, report.Symbol, report.GeneratedAt, report.ScoreTotal, payload); err != nil {
		return fmt.Errorf("save report for %s: %w", report.Symbol, err)
	}
	return nil
}

// GetLatestReport returns the most recently generated report for a
// symbol, or nil when none exists.
func (r *ReportRepository) GetLatestReport(ctx context.Context, symbol string) (*contracts.TrendReport, error) {
	query := `
		SELECT report
		FROM trend_reports
		WHERE symbol = $1
		ORDER BY generated_at DESC
		LIMIT 1
	`

	var payload []byte
	err := r.pool.QueryRow(ctx, query, symbol).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest report for %s: %w", symbol, err)
	}

	var report contracts.TrendReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("unmarshal report for %s: %w", symbol, err)
	}
	return &report, nil
}
