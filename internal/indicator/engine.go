package indicator

import (
	"fmt"

	"github.com/wonny/trendsignal/internal/contracts"
	"github.com/wonny/trendsignal/pkg/logger"
)

// Engine enriches raw OHLCV series with derived technical indicators.
// Enrichment is a pure transformation: the input series is never mutated
// and identical input always produces identical output.
type Engine struct {
	cfg    Config
	logger *logger.Logger
}

// NewEngine creates an indicator engine with the given window config.
func NewEngine(cfg Config, log *logger.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("indicator config: %w", err)
	}
	return &Engine{cfg: cfg, logger: log}, nil
}

// Config returns the engine's window configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Enrich computes every configured indicator over a chronologically
// ordered series and returns a new enriched series. Indicators whose
// lookback is not yet satisfied at an index are left absent, never zero.
func (e *Engine) Enrich(series []contracts.Tick) ([]contracts.EnrichedTick, error) {
	if err := validateSeries(series); err != nil {
		return nil, err
	}

	closes := make([]float64, len(series))
	volumes := make([]float64, len(series))
	for i, t := range series {
		closes[i] = t.Close
		volumes[i] = t.Volume
	}

	maShort := sma(closes, e.cfg.MAShort)
	maMid := sma(closes, e.cfg.MAMid)
	maLong := sma(closes, e.cfg.MALong)
	macdLine, signalLine := macd(closes, e.cfg.MACDFast, e.cfg.MACDSlow, e.cfg.MACDSignal)
	rsiCol := rsi(closes, e.cfg.RSIPeriod)
	adxCol := adx(series, e.cfg.ADXPeriod)
	cciCol := cci(series, e.cfg.CCIPeriod)
	atrCol := atr(series, e.cfg.ATRPeriod)
	bbUpper, bbLower := bollinger(closes, e.cfg.BollingerPeriod, e.cfg.BollingerMult)
	vmaShort := sma(volumes, e.cfg.VMAShort)
	vmaLong := sma(volumes, e.cfg.VMALong)

	enriched := make([]contracts.EnrichedTick, len(series))
	for i, t := range series {
		enriched[i] = contracts.EnrichedTick{
			Tick:           t,
			MAShort:        maShort[i],
			MAMid:          maMid[i],
			MALong:         maLong[i],
			MACD:           macdLine[i],
			SignalLine:     signalLine[i],
			RSI:            rsiCol[i],
			ADX:            adxCol[i],
			CCI:            cciCol[i],
			ATR:            atrCol[i],
			BollingerUpper: bbUpper[i],
			BollingerLower: bbLower[i],
			VMAShort:       vmaShort[i],
			VMALong:        vmaLong[i],
		}
	}

	if e.logger != nil {
		e.logger.WithFields(map[string]interface{}{
			"ticks":        len(series),
			"max_lookback": e.cfg.MaxLookback(),
		}).Debug("Enriched series with indicators")
	}

	return enriched, nil
}

// validateSeries checks strict timestamp ordering and uniqueness.
func validateSeries(series []contracts.Tick) error {
	for i := 1; i < len(series); i++ {
		prev, cur := series[i-1].Timestamp, series[i].Timestamp
		if cur.Equal(prev) {
			return fmt.Errorf("%w: duplicate timestamp %s at index %d",
				contracts.ErrInvalidSeries, cur.Format("2006-01-02T15:04:05Z07:00"), i)
		}
		if cur.Before(prev) {
			return fmt.Errorf("%w: timestamps not ascending at index %d",
				contracts.ErrInvalidSeries, i)
		}
	}
	return nil
}
