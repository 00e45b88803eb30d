package commands

import (
	"fmt"

	"github.com/wonny/trendsignal/internal/contracts"
	"github.com/wonny/trendsignal/internal/indicator"
	"github.com/wonny/trendsignal/internal/marketdata"
	"github.com/wonny/trendsignal/internal/metrics"
	"github.com/wonny/trendsignal/internal/pipeline"
	"github.com/wonny/trendsignal/internal/scoring"
	"github.com/wonny/trendsignal/pkg/config"
	"github.com/wonny/trendsignal/pkg/httputil"
	"github.com/wonny/trendsignal/pkg/logger"
	"github.com/wonny/trendsignal/pkg/redis"
)

// buildAnalyzer wires the market data source, the indicator engine and
// the scoring engine into a pipeline analyzer. The market client is
// returned alongside so commands can serve profile lookups. m may be nil.
func buildAnalyzer(cfg *config.Config, log *logger.Logger, m *metrics.Metrics) (*pipeline.Analyzer, *marketdata.Client, error) {
	indicatorEngine, err := indicator.NewEngine(indicatorConfig(cfg), log)
	if err != nil {
		return nil, nil, fmt.Errorf("build indicator engine: %w", err)
	}

	scoringEngine, err := scoring.NewEngine(scoringConfig(cfg), log)
	if err != nil {
		return nil, nil, fmt.Errorf("build scoring engine: %w", err)
	}

	httpClient := httputil.New(cfg.Market.Timeout, log)
	market := marketdata.NewClient(cfg.Market, httpClient, log)
	var source contracts.TickSource = market

	if cfg.Redis.Enabled {
		redisClient, err := redis.New(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		cache := redis.NewCache(redisClient, "trendsignal")
		source = marketdata.NewCachedSource(source, cache, cfg.Redis.CacheTTL, log)
		log.Info("OHLCV caching enabled")
	}

	return pipeline.NewAnalyzer(source, indicatorEngine, scoringEngine, m, log), market, nil
}

func indicatorConfig(cfg *config.Config) indicator.Config {
	return indicator.Config{
		MAShort:         cfg.Indicator.MAShort,
		MAMid:           cfg.Indicator.MAMid,
		MALong:          cfg.Indicator.MALong,
		MACDFast:        cfg.Indicator.MACDFast,
		MACDSlow:        cfg.Indicator.MACDSlow,
		MACDSignal:      cfg.Indicator.MACDSignal,
		RSIPeriod:       cfg.Indicator.RSIPeriod,
		ADXPeriod:       cfg.Indicator.ADXPeriod,
		CCIPeriod:       cfg.Indicator.CCIPeriod,
		ATRPeriod:       cfg.Indicator.ATRPeriod,
		BollingerPeriod: cfg.Indicator.BollingerPeriod,
		BollingerMult:   cfg.Indicator.BollingerMult,
		VMAShort:        cfg.Indicator.VMAShort,
		VMALong:         cfg.Indicator.VMALong,
	}
}

func scoringConfig(cfg *config.Config) scoring.Config {
	return scoring.Config{
		RSIHealthyMin:      cfg.Scoring.RSIHealthyMin,
		RSIHealthyMax:      cfg.Scoring.RSIHealthyMax,
		ADXThreshold:       cfg.Scoring.ADXThreshold,
		ATRRiskRatio:       cfg.Scoring.ATRRiskRatio,
		TrendLookback:      cfg.Scoring.TrendLookback,
		MACDStrictMargin:   cfg.Scoring.MACDStrictMargin,
		BreakoutWindow:     cfg.Scoring.BreakoutWindow,
		SustainedHighDays:  cfg.Scoring.SustainedHighDays,
		CCIMomentum:        cfg.Scoring.CCIMomentum,
		VolumeSpikeMult:    cfg.Scoring.VolumeSpikeMult,
		VolumeSpikePeriod:  cfg.Scoring.VolumeSpikePeriod,
		KbarVolumeMult:     cfg.Scoring.KbarVolumeMult,
		KbarMaxShadowRatio: cfg.Scoring.KbarMaxShadowRatio,
		RSIOverbought:      cfg.Scoring.RSIOverbought,
		RSIOversold:        cfg.Scoring.RSIOversold,
	}
}
