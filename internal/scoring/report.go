package scoring

import (
	"math"

	"github.com/wonny/trendsignal/internal/contracts"
)

// BuildReport produces the full trend report: the scored TrendSignal plus
// the extended observational signals consumed by the LLM layer. Like
// Score, it is pure over its input.
func (e *Engine) BuildReport(enriched []contracts.EnrichedTick) (*contracts.TrendReport, error) {
	signal, err := e.Score(enriched, e.cfg.TrendLookback)
	if err != nil {
		return nil, err
	}

	window := trailingWindow(enriched, e.cfg.TrendLookback)
	latest := enriched[len(enriched)-1]

	report := &contracts.TrendReport{
		TrendSignal: signal,
		Latest:      latest,
	}

	report.MACDBullishStrict = e.macdBullishStrict(window)
	report.RecentHigh = recentHigh(window)
	report.SustainedHighs = e.sustainedHighs(window)
	report.SustainedHighsEnough = report.SustainedHighs >= e.cfg.SustainedHighDays
	report.TrendMomentum = e.trendMomentum(latest, window)
	report.VolumeSpike = e.volumeSpike(latest, window)
	report.MomentumKbar = e.momentumKbar(enriched)
	report.RSIOverbought = latest.RSI.Valid && latest.RSI.Value > e.cfg.RSIOverbought
	report.RSIOversold = latest.RSI.Valid && latest.RSI.Value < e.cfg.RSIOversold
	report.BollingerBreakout = bollingerBreakout(latest)

	report.TrendCategories = trendCategories(report)

	return report, nil
}

// macdBullishStrict is the stricter trend confirmation: MACD clearly above
// its signal line, aligned MAs, and a rising short MA.
func (e *Engine) macdBullishStrict(window []contracts.EnrichedTick) bool {
	if len(window) < 2 {
		return false
	}
	latest := window[len(window)-1]
	prev := window[len(window)-2]

	if latest.MACD.Value-latest.SignalLine.Value <= e.cfg.MACDStrictMargin {
		return false
	}
	if !(latest.MAShort.Value > latest.MAMid.Value && latest.MAMid.Value > latest.MALong.Value) {
		return false
	}

	if !prev.MAShort.Valid || prev.MAShort.Value == 0 {
		return false
	}
	slope := (latest.MAShort.Value - prev.MAShort.Value) / prev.MAShort.Value
	return slope > 0
}

// recentHigh reports whether the latest close exceeds the highest of the
// two closes before it.
func recentHigh(window []contracts.EnrichedTick) bool {
	if len(window) < 2 {
		return false
	}
	latest := window[len(window)-1].Close

	high := math.Inf(-1)
	start := len(window) - 3
	if start < 0 {
		start = 0
	}
	for _, t := range window[start : len(window)-1] {
		if t.Close > high {
			high = t.Close
		}
	}
	return latest > high
}

// sustainedHighs counts how many consecutive recent closes broke the
// rolling high of the configured breakout window, newest first. The count
// stops at the first close that did not break out or at the first step
// with insufficient history.
func (e *Engine) sustainedHighs(window []contracts.EnrichedTick) int {
	count := 0
	for i := 1; i <= e.cfg.SustainedHighDays; i++ {
		// Rolling high of the breakout window ending just before the
		// close under inspection.
		end := len(window) - (i + 1)
		start := end - e.cfg.BreakoutWindow
		if start < 0 {
			break
		}

		rollingHigh := math.Inf(-1)
		for _, t := range window[start:end] {
			if t.Close > rollingHigh {
				rollingHigh = t.Close
			}
		}

		if window[len(window)-i].Close > rollingHigh {
			count++
		} else {
			break
		}
	}
	return count
}

// trendMomentum combines a hot CCI with window-level volume support.
func (e *Engine) trendMomentum(latest contracts.EnrichedTick, window []contracts.EnrichedTick) bool {
	if !latest.CCI.Valid || latest.CCI.Value <= e.cfg.CCIMomentum {
		return false
	}
	shortMean, longMean, ok := windowVMAMeans(window)
	return ok && shortMean > longMean
}

// volumeSpike reports whether the latest volume exceeds a multiple of the
// rolling mean volume. The mean covers the spike period up to and
// including the latest bar, so a spike inflates its own baseline.
func (e *Engine) volumeSpike(latest contracts.EnrichedTick, window []contracts.EnrichedTick) bool {
	period := e.cfg.VolumeSpikePeriod
	if len(window) < period {
		return false
	}

	var sum float64
	for _, t := range window[len(window)-period:] {
		sum += t.Volume
	}
	mean := sum / float64(period)
	return latest.Volume > e.cfg.VolumeSpikeMult*mean
}

// momentumKbar detects a high-volume full-bodied bar closing beyond the
// recent three-bar range.
func (e *Engine) momentumKbar(series []contracts.EnrichedTick) bool {
	i := len(series) - 1
	if i < 1 {
		return false
	}
	bar := series[i]
	prev := series[i-1]

	if bar.Volume <= prev.Volume*e.cfg.KbarVolumeMult {
		return false
	}

	total := bar.High - bar.Low
	if total == 0 {
		return false
	}
	bodyHigh := math.Max(bar.Close, bar.Open)
	bodyLow := math.Min(bar.Close, bar.Open)
	shadowRatio := ((bar.High - bodyHigh) + (bodyLow - bar.Low)) / total
	if shadowRatio > e.cfg.KbarMaxShadowRatio {
		return false
	}

	start := i - 3
	if start < 0 {
		start = 0
	}
	recentHighVal := math.Inf(-1)
	recentLowVal := math.Inf(1)
	for _, t := range series[start:i] {
		if t.High > recentHighVal {
			recentHighVal = t.High
		}
		if t.Low < recentLowVal {
			recentLowVal = t.Low
		}
	}
	return bar.Close > recentHighVal || bar.Close < recentLowVal
}

// bollingerBreakout classifies the latest close against the bands. Absent
// bands yield "none".
func bollingerBreakout(latest contracts.EnrichedTick) string {
	if !latest.BollingerUpper.Valid || !latest.BollingerLower.Valid {
		return contracts.BreakoutNone
	}
	switch {
	case latest.Close > latest.BollingerUpper.Value:
		return contracts.BreakoutUpper
	case latest.Close < latest.BollingerLower.Value:
		return contracts.BreakoutLower
	default:
		return contracts.BreakoutNone
	}
}

// trendCategories lists the extended signals that fired, in a stable
// order.
func trendCategories(r *contracts.TrendReport) []string {
	categories := []string{}
	add := func(name string, fired bool) {
		if fired {
			categories = append(categories, name)
		}
	}
	add("macd_bullish_strict", r.MACDBullishStrict)
	add("recent_high", r.RecentHigh)
	add("sustained_highs_enough", r.SustainedHighsEnough)
	add("trend_momentum", r.TrendMomentum)
	add("volume_spike", r.VolumeSpike)
	add("momentum_kbar", r.MomentumKbar)
	add("rsi_overbought", r.RSIOverbought)
	add("rsi_oversold", r.RSIOversold)
	add("bollinger_breakout", r.BollingerBreakout != contracts.BreakoutNone)
	return categories
}
