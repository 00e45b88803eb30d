package contracts

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFloat_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		f    Float
		want string
	}{
		{"valid value", F(42.5), "42.5"},
		{"valid zero is a real zero", F(0), "0"},
		{"absent value is null", Float{}, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.f)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFloat_UnmarshalJSON(t *testing.T) {
	var f Float
	if err := json.Unmarshal([]byte("null"), &f); err != nil {
		t.Fatalf("Unmarshal null: %v", err)
	}
	if f.Valid {
		t.Error("null must decode as absent")
	}

	if err := json.Unmarshal([]byte("3.14"), &f); err != nil {
		t.Fatalf("Unmarshal value: %v", err)
	}
	if !f.Valid || f.Value != 3.14 {
		t.Errorf("got %+v, want valid 3.14", f)
	}
}

func TestEnrichedTick_JSONDistinguishesAbsentFromZero(t *testing.T) {
	tick := EnrichedTick{
		MAShort: F(0), // computed zero
		// RSI left absent
	}

	data, err := json.Marshal(tick)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	s := string(data)
	if !strings.Contains(s, `"ma_short":0`) {
		t.Errorf("computed zero must serialize as 0: %s", s)
	}
	if !strings.Contains(s, `"rsi":null`) {
		t.Errorf("absent indicator must serialize as null: %s", s)
	}
}

func TestScoreBreakdown_Total(t *testing.T) {
	b := ScoreBreakdown{Trend: 5, Momentum: 1, Volume: 1, Risk: -1}
	if got := b.Total(); got != 6 {
		t.Errorf("Total() = %d, want 6", got)
	}
}

func TestScoreSignals_JSONKeys(t *testing.T) {
	data, err := json.Marshal(ScoreSignals{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded map[string]bool
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	keys := []string{
		"ma_alignment", "macd_bullish", "adx_strong",
		"rsi_healthy", "volume_support", "atr_high_risk",
	}
	for _, key := range keys {
		if _, ok := decoded[key]; !ok {
			t.Errorf("signal key %q missing from JSON", key)
		}
	}
	if len(decoded) != len(keys) {
		t.Errorf("got %d signal keys, want %d", len(decoded), len(keys))
	}
}
