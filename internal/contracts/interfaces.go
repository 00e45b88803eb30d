package contracts

import (
	"context"
	"time"
)

// TickSource fetches raw OHLCV observations for a symbol. Implementations
// must return ascending-timestamp, duplicate-free data or fail with a
// condition matching ErrDataUnavailable.
type TickSource interface {
	FetchOHLCV(ctx context.Context, symbol string) ([]Tick, error)
}

// ProfileSource fetches company classification for a symbol.
type ProfileSource interface {
	FetchProfile(ctx context.Context, symbol string) (*Profile, error)
}

// Advisor turns a trend report into a natural-language assessment.
// The prompt templating and model invocation behind it are out of scope
// for this module.
type Advisor interface {
	Advise(ctx context.Context, symbol string, report *TrendReport) (*Advice, error)
}

// PriceRepository persists raw OHLCV history.
type PriceRepository interface {
	SaveTicks(ctx context.Context, symbol string, ticks []Tick) error
	GetTicks(ctx context.Context, symbol string, from, to time.Time) ([]Tick, error)
	GetRecentTicks(ctx context.Context, symbol string, limit int) ([]Tick, error)
}

// ReportRepository persists analysis report snapshots.
type ReportRepository interface {
	SaveReport(ctx context.Context, report *TrendReport) error
	GetLatestReport(ctx context.Context, symbol string) (*TrendReport, error)
}
