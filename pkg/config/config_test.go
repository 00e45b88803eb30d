package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8089" {
		t.Errorf("Expected Port to be 8089, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}
	if cfg.Market.Range != "3mo" {
		t.Errorf("Expected Market.Range to be 3mo, got %s", cfg.Market.Range)
	}
	if cfg.Market.Interval != "1d" {
		t.Errorf("Expected Market.Interval to be 1d, got %s", cfg.Market.Interval)
	}
	if cfg.Indicator.MALong != 20 {
		t.Errorf("Expected Indicator.MALong to be 20, got %d", cfg.Indicator.MALong)
	}
	if cfg.Scoring.RSIHealthyMin != 40 || cfg.Scoring.RSIHealthyMax != 70 {
		t.Errorf("Expected RSI healthy band [40,70], got [%v,%v]",
			cfg.Scoring.RSIHealthyMin, cfg.Scoring.RSIHealthyMax)
	}
	if cfg.Scoring.TrendLookback != 60 {
		t.Errorf("Expected Scoring.TrendLookback to be 60, got %d", cfg.Scoring.TrendLookback)
	}
	if cfg.Redis.CacheTTL != 10*time.Minute {
		t.Errorf("Expected Redis.CacheTTL to be 10m, got %v", cfg.Redis.CacheTTL)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("ENV", "production")
	os.Setenv("IND_MA_LONG", "60")
	os.Setenv("SCORE_ADX_THRESHOLD", "25")
	os.Setenv("WATCHLIST", "AAPL, MSFT ,NVDA")

	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("ENV")
		os.Unsetenv("IND_MA_LONG")
		os.Unsetenv("SCORE_ADX_THRESHOLD")
		os.Unsetenv("WATCHLIST")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}
	if cfg.Indicator.MALong != 60 {
		t.Errorf("Expected Indicator.MALong to be 60, got %d", cfg.Indicator.MALong)
	}
	if cfg.Scoring.ADXThreshold != 25 {
		t.Errorf("Expected Scoring.ADXThreshold to be 25, got %v", cfg.Scoring.ADXThreshold)
	}

	want := []string{"AAPL", "MSFT", "NVDA"}
	if len(cfg.Watchlist) != len(want) {
		t.Fatalf("Expected %d watchlist symbols, got %d", len(want), len(cfg.Watchlist))
	}
	for i, symbol := range want {
		if cfg.Watchlist[i] != symbol {
			t.Errorf("Watchlist[%d] = %s, want %s", i, cfg.Watchlist[i], symbol)
		}
	}
}

func TestLoad_RejectsInvalidEnv(t *testing.T) {
	os.Setenv("ENV", "testing123")
	defer os.Unsetenv("ENV")

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid ENV")
	}
}

func TestLoad_RejectsBadWindowOrder(t *testing.T) {
	os.Setenv("IND_MA_SHORT", "30") // larger than the default mid/long
	defer os.Unsetenv("IND_MA_SHORT")

	if _, err := Load(); err == nil {
		t.Error("Expected error for MA short >= mid")
	}
}
