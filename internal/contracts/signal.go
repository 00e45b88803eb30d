package contracts

import "time"

// ScoreBreakdown is the four-category signed decomposition of the total
// score. Category values may be negative (risk) or zero.
type ScoreBreakdown struct {
	Trend    int `json:"trend"`
	Momentum int `json:"momentum"`
	Volume   int `json:"volume"`
	Risk     int `json:"risk"`
}

// Total returns the sum of all four categories. This is the invariant
// defining ScoreTotal.
func (b ScoreBreakdown) Total() int {
	return b.Trend + b.Momentum + b.Volume + b.Risk
}

// ScoreSignals records the literal boolean result of each scoring rule,
// independent of its point weight.
type ScoreSignals struct {
	MAAlignment   bool `json:"ma_alignment"`
	MACDBullish   bool `json:"macd_bullish"`
	ADXStrong     bool `json:"adx_strong"`
	RSIHealthy    bool `json:"rsi_healthy"`
	VolumeSupport bool `json:"volume_support"`
	ATRHighRisk   bool `json:"atr_high_risk"`
}

// TrendSignal is the scoring result contract consumed downstream.
// ScoreTotal is the primary ranking input; breakdown and signals are
// justification detail.
type TrendSignal struct {
	ScoreTotal     int            `json:"score_total"`
	ScoreBreakdown ScoreBreakdown `json:"score_breakdown"`
	ScoreSignals   ScoreSignals   `json:"score_signals"`
}

// BollingerBreakout states for TrendReport.
const (
	BreakoutNone  = "none"
	BreakoutUpper = "breakout_upper"
	BreakoutLower = "breakout_lower"
)

// TrendReport wraps a TrendSignal with the extended observational signals
// and the latest enriched values, for downstream LLM consumption.
type TrendReport struct {
	Symbol      string    `json:"symbol"`
	GeneratedAt time.Time `json:"generated_at"`

	TrendSignal

	// Extended signals
	MACDBullishStrict    bool     `json:"macd_bullish_strict"`
	RecentHigh           bool     `json:"recent_high"`
	SustainedHighs       int      `json:"sustained_highs"`
	SustainedHighsEnough bool     `json:"sustained_highs_enough"`
	TrendMomentum        bool     `json:"trend_momentum"`
	VolumeSpike          bool     `json:"volume_spike"`
	MomentumKbar         bool     `json:"momentum_kbar"`
	RSIOverbought        bool     `json:"rsi_overbought"`
	RSIOversold          bool     `json:"rsi_oversold"`
	BollingerBreakout    string   `json:"bollinger_breakout"`
	TrendCategories      []string `json:"trend_categories"`

	// Latest enriched observation backing the signals
	Latest EnrichedTick `json:"latest"`
}

// Advice is the natural-language assessment produced by an Advisor.
type Advice struct {
	Suggestion string `json:"suggestion"`
	Reason     string `json:"reason"`
}

// Profile holds basic company classification for a symbol. It is
// context for consumers such as the advisor, never a scoring input.
type Profile struct {
	Symbol   string `json:"symbol"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}
