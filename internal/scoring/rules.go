package scoring

import "github.com/wonny/trendsignal/internal/contracts"

// Category names the score bucket a rule contributes to.
type Category string

const (
	CategoryTrend    Category = "trend"
	CategoryMomentum Category = "momentum"
	CategoryVolume   Category = "volume"
	CategoryRisk     Category = "risk"
)

// RuleClass distinguishes rules evaluated on the latest tick from rules
// aggregated over the trailing window. Every new rule must declare its
// class.
type RuleClass int

const (
	ClassLatest RuleClass = iota
	ClassWindow
)

// Rule is one self-contained scoring predicate: adding or removing a rule
// never touches the aggregation loop.
type Rule struct {
	Name     string
	Category Category
	Points   int
	Class    RuleClass

	// Fire evaluates the predicate. Latest-class rules read only latest;
	// window-class rules read the trailing window.
	Fire func(latest contracts.EnrichedTick, window []contracts.EnrichedTick) bool
}

// rules builds the scoring rule table from the configured thresholds.
// Trend carries the heaviest weight (MA alignment and MACD direction are
// the primary swing confirmations); momentum and volume are supporting
// confirmation; risk is the only subtracting category.
func (e *Engine) rules() []Rule {
	cfg := e.cfg
	return []Rule{
		{
			Name:     "ma_alignment",
			Category: CategoryTrend,
			Points:   2,
			Class:    ClassLatest,
			Fire: func(latest contracts.EnrichedTick, _ []contracts.EnrichedTick) bool {
				return latest.MAShort.Value > latest.MAMid.Value &&
					latest.MAMid.Value > latest.MALong.Value
			},
		},
		{
			Name:     "macd_bullish",
			Category: CategoryTrend,
			Points:   2,
			Class:    ClassLatest,
			Fire: func(latest contracts.EnrichedTick, _ []contracts.EnrichedTick) bool {
				return latest.MACD.Value-latest.SignalLine.Value > 0
			},
		},
		{
			Name:     "adx_strong",
			Category: CategoryTrend,
			Points:   1,
			Class:    ClassLatest,
			Fire: func(latest contracts.EnrichedTick, _ []contracts.EnrichedTick) bool {
				// ADX is the one optional field: absent means "not strong",
				// not an error. Deliberately looser than the other rules.
				return latest.ADX.Valid && latest.ADX.Value > cfg.ADXThreshold
			},
		},
		{
			Name:     "rsi_healthy",
			Category: CategoryMomentum,
			Points:   1,
			Class:    ClassLatest,
			Fire: func(latest contracts.EnrichedTick, _ []contracts.EnrichedTick) bool {
				return latest.RSI.Value >= cfg.RSIHealthyMin &&
					latest.RSI.Value <= cfg.RSIHealthyMax
			},
		},
		{
			Name:     "volume_support",
			Category: CategoryVolume,
			Points:   1,
			Class:    ClassWindow,
			Fire: func(_ contracts.EnrichedTick, window []contracts.EnrichedTick) bool {
				shortMean, longMean, ok := windowVMAMeans(window)
				return ok && shortMean > longMean
			},
		},
		{
			Name:     "atr_high_risk",
			Category: CategoryRisk,
			Points:   -1,
			Class:    ClassLatest,
			Fire: func(latest contracts.EnrichedTick, _ []contracts.EnrichedTick) bool {
				return atrRatio(latest) > cfg.ATRRiskRatio
			},
		},
	}
}

// windowVMAMeans averages the short and long volume MAs over the ticks in
// the window where both are defined. Returns ok=false when no tick has
// both defined.
func windowVMAMeans(window []contracts.EnrichedTick) (shortMean, longMean float64, ok bool) {
	var shortSum, longSum float64
	n := 0
	for _, t := range window {
		if !t.VMAShort.Valid || !t.VMALong.Valid {
			continue
		}
		shortSum += t.VMAShort.Value
		longSum += t.VMALong.Value
		n++
	}
	if n == 0 {
		return 0, 0, false
	}
	return shortSum / float64(n), longSum / float64(n), true
}

// atrRatio returns ATR relative to close. A zero close yields ratio 0
// rather than a division failure.
func atrRatio(latest contracts.EnrichedTick) float64 {
	if latest.Close == 0 {
		return 0
	}
	return latest.ATR.Value / latest.Close
}
