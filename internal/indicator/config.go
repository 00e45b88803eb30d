package indicator

import "fmt"

// Config holds the window lengths for every computed indicator.
type Config struct {
	// Price simple moving averages, short < mid < long
	MAShort int
	MAMid   int
	MALong  int

	// MACD periods, fast < slow
	MACDFast   int
	MACDSlow   int
	MACDSignal int

	// Oscillator periods
	RSIPeriod int
	ADXPeriod int
	CCIPeriod int

	// Volatility periods
	ATRPeriod       int
	BollingerPeriod int
	BollingerMult   float64

	// Volume simple moving averages, short < long
	VMAShort int
	VMALong  int
}

// DefaultConfig returns the swing/mid-term tuning used by the scoring
// engine: MA 5/10/20, MACD 12/26/9, RSI/ADX/ATR 14, CCI/Bollinger 20,
// VMA 5/20.
func DefaultConfig() Config {
	return Config{
		MAShort:         5,
		MAMid:           10,
		MALong:          20,
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
		RSIPeriod:       14,
		ADXPeriod:       14,
		CCIPeriod:       20,
		ATRPeriod:       14,
		BollingerPeriod: 20,
		BollingerMult:   2.0,
		VMAShort:        5,
		VMALong:         20,
	}
}

// Validate checks window ordering and positivity constraints.
func (c Config) Validate() error {
	positive := map[string]int{
		"MA_SHORT":         c.MAShort,
		"MA_MID":           c.MAMid,
		"MA_LONG":          c.MALong,
		"MACD_FAST":        c.MACDFast,
		"MACD_SLOW":        c.MACDSlow,
		"MACD_SIGNAL":      c.MACDSignal,
		"RSI_PERIOD":       c.RSIPeriod,
		"ADX_PERIOD":       c.ADXPeriod,
		"CCI_PERIOD":       c.CCIPeriod,
		"ATR_PERIOD":       c.ATRPeriod,
		"BOLLINGER_PERIOD": c.BollingerPeriod,
		"VMA_SHORT":        c.VMAShort,
		"VMA_LONG":         c.VMALong,
	}
	for name, v := range positive {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}
	if !(c.MAShort < c.MAMid && c.MAMid < c.MALong) {
		return fmt.Errorf("MA windows must satisfy short < mid < long, got %d/%d/%d",
			c.MAShort, c.MAMid, c.MALong)
	}
	if c.MACDFast >= c.MACDSlow {
		return fmt.Errorf("MACD fast period must be shorter than slow, got %d/%d",
			c.MACDFast, c.MACDSlow)
	}
	if c.VMAShort >= c.VMALong {
		return fmt.Errorf("VMA windows must satisfy short < long, got %d/%d",
			c.VMAShort, c.VMALong)
	}
	if c.BollingerMult <= 0 {
		return fmt.Errorf("BOLLINGER_MULT must be positive, got %v", c.BollingerMult)
	}
	return nil
}

// MaxLookback returns the longest lookback any indicator needs. A series
// with MaxLookback+1 ticks has every indicator defined on its latest tick.
func (c Config) MaxLookback() int {
	lookbacks := []int{
		c.MALong - 1,
		c.MACDSlow + c.MACDSignal - 2,
		c.RSIPeriod,
		2*c.ADXPeriod - 1,
		c.CCIPeriod - 1,
		c.ATRPeriod,
		c.BollingerPeriod - 1,
		c.VMALong - 1,
	}
	max := 0
	for _, lb := range lookbacks {
		if lb > max {
			max = lb
		}
	}
	return max
}
