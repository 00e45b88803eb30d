package indicator

import (
	"math"

	"github.com/wonny/trendsignal/internal/contracts"
)

// Column computations over parallel value slices. Each function returns a
// slice the same length as its input where entries before the indicator's
// lookback are invalid.

// sma computes a simple moving average over the trailing period values.
func sma(values []float64, period int) []contracts.Float {
	out := make([]contracts.Float, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = contracts.F(sum / float64(period))
		}
	}
	return out
}

// ema computes an exponential moving average seeded with the simple mean
// of the first period values.
func ema(values []float64, period int) []contracts.Float {
	out := make([]contracts.Float, len(values))
	if len(values) < period {
		return out
	}

	var seed float64
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	seed /= float64(period)
	out[period-1] = contracts.F(seed)

	alpha := 2.0 / (float64(period) + 1.0)
	prev := seed
	for i := period; i < len(values); i++ {
		prev = values[i]*alpha + prev*(1-alpha)
		out[i] = contracts.F(prev)
	}
	return out
}

// macd computes the MACD line (fast EMA − slow EMA) and its signal line
// (an EMA of the MACD line itself).
func macd(closes []float64, fast, slow, signal int) (line, signalLine []contracts.Float) {
	line = make([]contracts.Float, len(closes))
	signalLine = make([]contracts.Float, len(closes))

	fastEMA := ema(closes, fast)
	slowEMA := ema(closes, slow)
	for i := range closes {
		if fastEMA[i].Valid && slowEMA[i].Valid {
			line[i] = contracts.F(fastEMA[i].Value - slowEMA[i].Value)
		}
	}

	// Signal line: EMA over the defined portion of the MACD line.
	if len(closes) < slow {
		return line, signalLine
	}
	defined := make([]float64, 0, len(closes)-slow+1)
	for i := slow - 1; i < len(closes); i++ {
		defined = append(defined, line[i].Value)
	}
	sig := ema(defined, signal)
	for j, v := range sig {
		if v.Valid {
			signalLine[slow-1+j] = v
		}
	}
	return line, signalLine
}

// rsi computes the Relative Strength Index with Wilder smoothing. When no
// downward movement occurred in the window, the value caps at 100.
func rsi(closes []float64, period int) []contracts.Float {
	out := make([]contracts.Float, len(closes))
	if len(closes) < period+1 {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = contracts.F(rsiValue(avgGain, avgLoss))

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = contracts.F(rsiValue(avgGain, avgLoss))
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// trueRange returns the true range series. Defined from index 1 onward
// since it needs the previous close.
func trueRange(ticks []contracts.Tick) []float64 {
	tr := make([]float64, len(ticks))
	for i := 1; i < len(ticks); i++ {
		highLow := ticks[i].High - ticks[i].Low
		highClose := math.Abs(ticks[i].High - ticks[i-1].Close)
		lowClose := math.Abs(ticks[i].Low - ticks[i-1].Close)
		tr[i] = math.Max(highLow, math.Max(highClose, lowClose))
	}
	return tr
}

// atr computes the Average True Range with Wilder smoothing.
func atr(ticks []contracts.Tick, period int) []contracts.Float {
	out := make([]contracts.Float, len(ticks))
	if len(ticks) < period+1 {
		return out
	}

	tr := trueRange(ticks)
	var seed float64
	for i := 1; i <= period; i++ {
		seed += tr[i]
	}
	prev := seed / float64(period)
	out[period] = contracts.F(prev)

	for i := period + 1; i < len(ticks); i++ {
		prev = (prev*float64(period-1) + tr[i]) / float64(period)
		out[i] = contracts.F(prev)
	}
	return out
}

// adx computes the Average Directional Index with Wilder smoothing.
// Defined from index 2*period-1 onward; absent before that.
func adx(ticks []contracts.Tick, period int) []contracts.Float {
	out := make([]contracts.Float, len(ticks))
	if len(ticks) < 2*period {
		return out
	}

	tr := trueRange(ticks)
	plusDM := make([]float64, len(ticks))
	minusDM := make([]float64, len(ticks))
	for i := 1; i < len(ticks); i++ {
		up := ticks[i].High - ticks[i-1].High
		down := ticks[i-1].Low - ticks[i].Low
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	// Seed smoothed values over the first period entries.
	var smTR, smPlus, smMinus float64
	for i := 1; i <= period; i++ {
		smTR += tr[i]
		smPlus += plusDM[i]
		smMinus += minusDM[i]
	}

	dx := make([]float64, len(ticks))
	dx[period] = dxValue(smPlus, smMinus, smTR)
	for i := period + 1; i < len(ticks); i++ {
		smTR = smTR - smTR/float64(period) + tr[i]
		smPlus = smPlus - smPlus/float64(period) + plusDM[i]
		smMinus = smMinus - smMinus/float64(period) + minusDM[i]
		dx[i] = dxValue(smPlus, smMinus, smTR)
	}

	// First ADX is the mean of the first period DX values, then Wilder.
	var seed float64
	for i := period; i < 2*period; i++ {
		seed += dx[i]
	}
	prev := seed / float64(period)
	out[2*period-1] = contracts.F(prev)
	for i := 2 * period; i < len(ticks); i++ {
		prev = (prev*float64(period-1) + dx[i]) / float64(period)
		out[i] = contracts.F(prev)
	}
	return out
}

// dxValue computes the directional index from smoothed DM and TR sums.
// Zero denominators yield 0 rather than NaN.
func dxValue(smPlus, smMinus, smTR float64) float64 {
	if smTR == 0 {
		return 0
	}
	plusDI := 100.0 * smPlus / smTR
	minusDI := 100.0 * smMinus / smTR
	sum := plusDI + minusDI
	if sum == 0 {
		return 0
	}
	return 100.0 * math.Abs(plusDI-minusDI) / sum
}

// cci computes the Commodity Channel Index over typical prices. A zero
// mean deviation yields 0 rather than a division failure.
func cci(ticks []contracts.Tick, period int) []contracts.Float {
	out := make([]contracts.Float, len(ticks))
	if len(ticks) < period {
		return out
	}

	tp := make([]float64, len(ticks))
	for i, t := range ticks {
		tp[i] = (t.High + t.Low + t.Close) / 3.0
	}

	for i := period - 1; i < len(ticks); i++ {
		var sum float64
		for j := i - period + 1; j <= i; j++ {
			sum += tp[j]
		}
		mean := sum / float64(period)

		var dev float64
		for j := i - period + 1; j <= i; j++ {
			dev += math.Abs(tp[j] - mean)
		}
		dev /= float64(period)

		if dev == 0 {
			out[i] = contracts.F(0)
			continue
		}
		out[i] = contracts.F((tp[i] - mean) / (0.015 * dev))
	}
	return out
}

// bollinger computes the upper and lower Bollinger bands around a simple
// moving average of closes.
func bollinger(closes []float64, period int, mult float64) (upper, lower []contracts.Float) {
	upper = make([]contracts.Float, len(closes))
	lower = make([]contracts.Float, len(closes))

	for i := period - 1; i < len(closes); i++ {
		var sum float64
		for j := i - period + 1; j <= i; j++ {
			sum += closes[j]
		}
		mean := sum / float64(period)

		var variance float64
		for j := i - period + 1; j <= i; j++ {
			d := closes[j] - mean
			variance += d * d
		}
		std := math.Sqrt(variance / float64(period))

		upper[i] = contracts.F(mean + mult*std)
		lower[i] = contracts.F(mean - mult*std)
	}
	return upper, lower
}
