package scoring

import "fmt"

// Config holds every scoring threshold. All values are overridable
// without touching rule logic.
type Config struct {
	// rsi_healthy band, inclusive both bounds
	RSIHealthyMin float64
	RSIHealthyMax float64

	// adx_strong threshold, strict
	ADXThreshold float64

	// atr_high_risk ratio threshold, strict
	ATRRiskRatio float64

	// Trailing window length for window-aggregate rules
	TrendLookback int

	// Extended report tuning
	MACDStrictMargin   float64
	BreakoutWindow     int
	SustainedHighDays  int
	CCIMomentum        float64
	VolumeSpikeMult    float64
	VolumeSpikePeriod  int
	KbarVolumeMult     float64
	KbarMaxShadowRatio float64
	RSIOverbought      float64
	RSIOversold        float64
}

// DefaultConfig returns the documented default policy.
func DefaultConfig() Config {
	return Config{
		RSIHealthyMin:      40,
		RSIHealthyMax:      70,
		ADXThreshold:       20,
		ATRRiskRatio:       0.05,
		TrendLookback:      60,
		MACDStrictMargin:   0.01,
		BreakoutWindow:     10,
		SustainedHighDays:  3,
		CCIMomentum:        100,
		VolumeSpikeMult:    2.0,
		VolumeSpikePeriod:  20,
		KbarVolumeMult:     2.0,
		KbarMaxShadowRatio: 0.2,
		RSIOverbought:      70,
		RSIOversold:        30,
	}
}

// Validate checks threshold sanity.
func (c Config) Validate() error {
	if c.RSIHealthyMin > c.RSIHealthyMax {
		return fmt.Errorf("RSI healthy band inverted: [%v, %v]", c.RSIHealthyMin, c.RSIHealthyMax)
	}
	if c.TrendLookback < 1 {
		return fmt.Errorf("trend lookback must be positive, got %d", c.TrendLookback)
	}
	if c.ATRRiskRatio <= 0 {
		return fmt.Errorf("ATR risk ratio must be positive, got %v", c.ATRRiskRatio)
	}
	if c.BreakoutWindow < 1 || c.SustainedHighDays < 1 {
		return fmt.Errorf("breakout window and sustained days must be positive, got %d/%d",
			c.BreakoutWindow, c.SustainedHighDays)
	}
	if c.VolumeSpikePeriod < 1 {
		return fmt.Errorf("volume spike period must be positive, got %d", c.VolumeSpikePeriod)
	}
	return nil
}
