package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. Environment
// variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Market data source
	Market MarketConfig

	// Indicator windows
	Indicator IndicatorConfig

	// Scoring thresholds
	Scoring ScoringConfig

	// Scheduled analysis
	Watchlist    []string
	AnalysisCron string

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
	MetricsPort    string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
	CacheTTL time.Duration
}

// MarketConfig holds market data source configuration.
type MarketConfig struct {
	ChartBaseURL   string
	ProfileBaseURL string
	Range          string
	Interval       string
	RatePerSecond  float64
	RateBurst      int
	Timeout        time.Duration
}

// IndicatorConfig holds every indicator window length.
type IndicatorConfig struct {
	MAShort int
	MAMid   int
	MALong  int

	MACDFast   int
	MACDSlow   int
	MACDSignal int

	RSIPeriod int
	ADXPeriod int
	CCIPeriod int

	ATRPeriod       int
	BollingerPeriod int
	BollingerMult   float64

	VMAShort int
	VMALong  int
}

// ScoringConfig holds every scoring threshold.
type ScoringConfig struct {
	RSIHealthyMin float64
	RSIHealthyMax float64
	ADXThreshold  float64
	ATRRiskRatio  float64
	TrendLookback int

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

// Load reads configuration from environment variables. Only this function
// calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			CacheTTL: getEnvAsDuration("REDIS_CACHE_TTL", "10m"),
		},

		Market: MarketConfig{
			ChartBaseURL:   getEnv("MARKET_CHART_BASE_URL", "https://query1.finance.yahoo.com"),
			ProfileBaseURL: getEnv("MARKET_PROFILE_BASE_URL", "https://finance.yahoo.com"),
			Range:          getEnv("MARKET_RANGE", "3mo"),
			Interval:       getEnv("MARKET_INTERVAL", "1d"),
			RatePerSecond:  getEnvAsFloat("MARKET_RATE_PER_SECOND", 2.0),
			RateBurst:      getEnvAsInt("MARKET_RATE_BURST", 1),
			Timeout:        getEnvAsDuration("MARKET_TIMEOUT", "30s"),
		},

		Indicator: IndicatorConfig{
			MAShort:         getEnvAsInt("IND_MA_SHORT", 5),
			MAMid:           getEnvAsInt("IND_MA_MID", 10),
			MALong:          getEnvAsInt("IND_MA_LONG", 20),
			MACDFast:        getEnvAsInt("IND_MACD_FAST", 12),
			MACDSlow:        getEnvAsInt("IND_MACD_SLOW", 26),
			MACDSignal:      getEnvAsInt("IND_MACD_SIGNAL", 9),
			RSIPeriod:       getEnvAsInt("IND_RSI_PERIOD", 14),
			ADXPeriod:       getEnvAsInt("IND_ADX_PERIOD", 14),
			CCIPeriod:       getEnvAsInt("IND_CCI_PERIOD", 20),
			ATRPeriod:       getEnvAsInt("IND_ATR_PERIOD", 14),
			BollingerPeriod: getEnvAsInt("IND_BOLLINGER_PERIOD", 20),
			BollingerMult:   getEnvAsFloat("IND_BOLLINGER_MULT", 2.0),
			VMAShort:        getEnvAsInt("IND_VMA_SHORT", 5),
			VMALong:         getEnvAsInt("IND_VMA_LONG", 20),
		},

		Scoring: ScoringConfig{
			RSIHealthyMin:      getEnvAsFloat("SCORE_RSI_HEALTHY_MIN", 40),
			RSIHealthyMax:      getEnvAsFloat("SCORE_RSI_HEALTHY_MAX", 70),
			ADXThreshold:       getEnvAsFloat("SCORE_ADX_THRESHOLD", 20),
			ATRRiskRatio:       getEnvAsFloat("SCORE_ATR_RISK_RATIO", 0.05),
			TrendLookback:      getEnvAsInt("SCORE_TREND_LOOKBACK", 60),
			MACDStrictMargin:   getEnvAsFloat("SCORE_MACD_STRICT_MARGIN", 0.01),
			BreakoutWindow:     getEnvAsInt("SCORE_BREAKOUT_WINDOW", 10),
			SustainedHighDays:  getEnvAsInt("SCORE_SUSTAINED_HIGH_DAYS", 3),
			CCIMomentum:        getEnvAsFloat("SCORE_CCI_MOMENTUM", 100),
			VolumeSpikeMult:    getEnvAsFloat("SCORE_VOLUME_SPIKE_MULT", 2.0),
			VolumeSpikePeriod:  getEnvAsInt("SCORE_VOLUME_SPIKE_PERIOD", 20),
			KbarVolumeMult:     getEnvAsFloat("SCORE_KBAR_VOLUME_MULT", 2.0),
			KbarMaxShadowRatio: getEnvAsFloat("SCORE_KBAR_MAX_SHADOW_RATIO", 0.2),
			RSIOverbought:      getEnvAsFloat("SCORE_RSI_OVERBOUGHT", 70),
			RSIOversold:        getEnvAsFloat("SCORE_RSI_OVERSOLD", 30),
		},

		Watchlist:    getEnvAsSlice("WATCHLIST", nil),
		AnalysisCron: getEnv("ANALYSIS_CRON", "0 0 16 * * 1-5"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		MetricsPort:    getEnv("METRICS_PORT", "9090"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks configuration sanity. The database URL is checked at
// connection time instead, because analyze-only runs work without one.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Indicator.MAShort >= c.Indicator.MAMid || c.Indicator.MAMid >= c.Indicator.MALong {
		return fmt.Errorf("IND_MA windows must satisfy short < mid < long")
	}
	if c.Indicator.VMAShort >= c.Indicator.VMALong {
		return fmt.Errorf("IND_VMA windows must satisfy short < long")
	}
	if c.Scoring.TrendLookback < 1 {
		return fmt.Errorf("SCORE_TREND_LOOKBACK must be positive")
	}

	return nil
}

// loadEnvFile tries to load .env from several locations.
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
