package contracts

import (
	"encoding/json"
	"time"
)

// Tick represents a single OHLCV observation for one trading period.
type Tick struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Float is an optional float64. Indicators that cannot be computed yet
// (insufficient lookback) are represented as invalid rather than zero, so
// scoring rules can tell "unknown" apart from "known zero".
type Float struct {
	Value float64
	Valid bool
}

// F wraps a computed value.
func F(v float64) Float {
	return Float{Value: v, Valid: true}
}

// MarshalJSON encodes invalid values as null.
func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// UnmarshalJSON decodes null as an invalid value.
func (f *Float) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Float{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = F(v)
	return nil
}

// EnrichedTick is a Tick extended with derived technical indicators.
// Every derived field is optional: absent until the indicator's lookback
// is satisfied.
type EnrichedTick struct {
	Tick

	// Price moving averages (short < mid < long)
	MAShort Float `json:"ma_short"`
	MAMid   Float `json:"ma_mid"`
	MALong  Float `json:"ma_long"`

	// MACD line and its smoothed signal line
	MACD       Float `json:"macd"`
	SignalLine Float `json:"signal_line"`

	// Oscillators
	RSI Float `json:"rsi"`
	ADX Float `json:"adx"`
	CCI Float `json:"cci"`

	// Volatility
	ATR            Float `json:"atr"`
	BollingerUpper Float `json:"bollinger_upper"`
	BollingerLower Float `json:"bollinger_lower"`

	// Volume moving averages (short < long)
	VMAShort Float `json:"vma_short"`
	VMALong  Float `json:"vma_long"`
}
