package scoring

import (
	"fmt"
	"strings"

	"github.com/wonny/trendsignal/internal/contracts"
	"github.com/wonny/trendsignal/pkg/logger"
)

// Engine converts an enriched series into a TrendSignal by evaluating the
// rule table. Scoring is pure and deterministic: identical input and
// lookback always produce bit-identical output.
type Engine struct {
	cfg    Config
	logger *logger.Logger
}

// NewEngine creates a scoring engine with the given thresholds.
func NewEngine(cfg Config, log *logger.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scoring config: %w", err)
	}
	return &Engine{cfg: cfg, logger: log}, nil
}

// Config returns the engine's threshold configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Score evaluates every rule over the latest tick and the trailing
// lookback window, aggregates point contributions per category, and
// records every boolean signal regardless of score.
func (e *Engine) Score(enriched []contracts.EnrichedTick, lookback int) (contracts.TrendSignal, error) {
	var signal contracts.TrendSignal

	if len(enriched) == 0 {
		return signal, fmt.Errorf("%w: empty series", contracts.ErrInsufficientData)
	}
	if lookback < 1 {
		return signal, fmt.Errorf("%w: lookback must be positive, got %d",
			contracts.ErrInsufficientData, lookback)
	}

	latest := enriched[len(enriched)-1]
	if missing := missingRequiredFields(latest); len(missing) > 0 {
		return signal, fmt.Errorf("%w: latest tick missing %s",
			contracts.ErrInsufficientData, strings.Join(missing, ", "))
	}

	window := trailingWindow(enriched, lookback)

	for _, rule := range e.rules() {
		fired := rule.Fire(latest, window)
		recordSignal(&signal.ScoreSignals, rule.Name, fired)
		if !fired {
			continue
		}
		switch rule.Category {
		case CategoryTrend:
			signal.ScoreBreakdown.Trend += rule.Points
		case CategoryMomentum:
			signal.ScoreBreakdown.Momentum += rule.Points
		case CategoryVolume:
			signal.ScoreBreakdown.Volume += rule.Points
		case CategoryRisk:
			signal.ScoreBreakdown.Risk += rule.Points
		}
	}

	signal.ScoreTotal = signal.ScoreBreakdown.Total()

	if e.logger != nil {
		e.logger.WithFields(map[string]interface{}{
			"score_total": signal.ScoreTotal,
			"trend":       signal.ScoreBreakdown.Trend,
			"momentum":    signal.ScoreBreakdown.Momentum,
			"volume":      signal.ScoreBreakdown.Volume,
			"risk":        signal.ScoreBreakdown.Risk,
		}).Debug("Scored trend signal")
	}

	return signal, nil
}

// missingRequiredFields lists the latest-value fields scoring cannot run
// without. ADX is intentionally absent from this list: the adx_strong rule
// treats an undefined ADX as "not strong".
func missingRequiredFields(latest contracts.EnrichedTick) []string {
	var missing []string
	required := []struct {
		name  string
		value contracts.Float
	}{
		{"ma_short", latest.MAShort},
		{"ma_mid", latest.MAMid},
		{"ma_long", latest.MALong},
		{"macd", latest.MACD},
		{"signal_line", latest.SignalLine},
		{"rsi", latest.RSI},
		{"atr", latest.ATR},
	}
	for _, f := range required {
		if !f.value.Valid {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// trailingWindow returns the last lookback ticks, or the whole series when
// it is shorter.
func trailingWindow(enriched []contracts.EnrichedTick, lookback int) []contracts.EnrichedTick {
	if lookback >= len(enriched) {
		return enriched
	}
	return enriched[len(enriched)-lookback:]
}

// recordSignal maps a rule name onto its fixed signal field.
func recordSignal(signals *contracts.ScoreSignals, name string, fired bool) {
	switch name {
	case "ma_alignment":
		signals.MAAlignment = fired
	case "macd_bullish":
		signals.MACDBullish = fired
	case "adx_strong":
		signals.ADXStrong = fired
	case "rsi_healthy":
		signals.RSIHealthy = fired
	case "volume_support":
		signals.VolumeSupport = fired
	case "atr_high_risk":
		signals.ATRHighRisk = fired
	}
}
