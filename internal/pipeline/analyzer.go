package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/trendsignal/internal/contracts"
	"github.com/wonny/trendsignal/internal/indicator"
	"github.com/wonny/trendsignal/internal/metrics"
	"github.com/wonny/trendsignal/internal/scoring"
	"github.com/wonny/trendsignal/pkg/logger"
)

// Analyzer sequences the analysis pipeline: fetch raw data, enrich with
// indicators, score, assemble the final report. It is thin glue; all
// algorithmic content lives in the two engines. Engine errors propagate
// with their kind intact; nothing is downgraded to a default score.
type Analyzer struct {
	source     contracts.TickSource
	indicators *indicator.Engine
	scorer     *scoring.Engine
	metrics    *metrics.Metrics
	priceRepo  contracts.PriceRepository
	logger     *logger.Logger
}

// NewAnalyzer creates an analyzer. metrics may be nil.
func NewAnalyzer(
	source contracts.TickSource,
	indicators *indicator.Engine,
	scorer *scoring.Engine,
	m *metrics.Metrics,
	log *logger.Logger,
) *Analyzer {
	return &Analyzer{
		source:     source,
		indicators: indicators,
		scorer:     scorer,
		metrics:    m,
		logger:     log,
	}
}

// WithPriceStore makes the analyzer persist fetched candles. Storage is
// best-effort: a failing save never fails the analysis.
func (a *Analyzer) WithPriceStore(repo contracts.PriceRepository) *Analyzer {
	a.priceRepo = repo
	return a
}

// Analyze runs the full pipeline for one symbol.
func (a *Analyzer) Analyze(ctx context.Context, symbol string) (*contracts.TrendReport, error) {
	start := time.Now()

	report, err := a.analyze(ctx, symbol)

	if a.metrics != nil {
		a.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			a.metrics.AnalysesTotal.WithLabelValues(statusLabel(err)).Inc()
			if errors.Is(err, contracts.ErrDataUnavailable) {
				a.metrics.FetchFailures.Inc()
			}
		} else {
			a.metrics.AnalysesTotal.WithLabelValues("ok").Inc()
			a.metrics.LastScore.WithLabelValues(symbol).Set(float64(report.ScoreTotal))
		}
	}

	return report, err
}

func (a *Analyzer) analyze(ctx context.Context, symbol string) (*contracts.TrendReport, error) {
	a.logger.WithField("symbol", symbol).Debug("Fetching OHLCV")

	ticks, err := a.source.FetchOHLCV(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if len(ticks) == 0 {
		return nil, fmt.Errorf("%w: no OHLCV data for %s", contracts.ErrDataUnavailable, symbol)
	}

	if a.priceRepo != nil {
		if err := a.priceRepo.SaveTicks(ctx, symbol, ticks); err != nil {
			a.logger.WithError(err).WithField("symbol", symbol).Warn("Failed to persist candles")
		}
	}

	enriched, err := a.indicators.Enrich(ticks)
	if err != nil {
		return nil, err
	}

	report, err := a.scorer.BuildReport(enriched)
	if err != nil {
		return nil, err
	}

	report.Symbol = symbol
	report.GeneratedAt = time.Now().UTC()

	a.logger.WithFields(map[string]interface{}{
		"symbol":      symbol,
		"ticks":       len(ticks),
		"score_total": report.ScoreTotal,
	}).Info("Analysis completed")

	return report, nil
}

// statusLabel maps pipeline error kinds onto metric labels.
func statusLabel(err error) string {
	switch {
	case errors.Is(err, contracts.ErrDataUnavailable):
		return "data_unavailable"
	case errors.Is(err, contracts.ErrInvalidSeries):
		return "invalid_series"
	case errors.Is(err, contracts.ErrInsufficientData):
		return "insufficient_data"
	default:
		return "error"
	}
}
