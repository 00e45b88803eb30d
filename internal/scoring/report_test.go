package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/trendsignal/internal/contracts"
)

// reportConfig shrinks the window thresholds so short synthetic series
// can exercise every extended signal.
func reportConfig() Config {
	cfg := DefaultConfig()
	cfg.BreakoutWindow = 3
	cfg.SustainedHighDays = 2
	cfg.VolumeSpikePeriod = 3
	return cfg
}

// flatSeries returns n scorable ticks with constant close and volume.
func flatSeries(n int, close float64) []contracts.EnrichedTick {
	series := make([]contracts.EnrichedTick, n)
	for i := range series {
		series[i] = scorableTick(close)
	}
	return series
}

func TestBuildReport_PropagatesScoringError(t *testing.T) {
	engine := newTestEngine(t, reportConfig())

	_, err := engine.BuildReport(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrInsufficientData))
}

func TestBuildReport_CarriesSignalAndLatest(t *testing.T) {
	engine := newTestEngine(t, reportConfig())

	series := flatSeries(2, 100)
	report, err := engine.BuildReport(series)
	require.NoError(t, err)

	assert.Equal(t, report.ScoreBreakdown.Total(), report.ScoreTotal)
	assert.Equal(t, series[len(series)-1], report.Latest)
}

func TestBuildReport_MACDBullishStrict(t *testing.T) {
	engine := newTestEngine(t, reportConfig())

	t.Run("fires on clear margin, alignment and rising short MA", func(t *testing.T) {
		prev := scorableTick(100)
		prev.MAShort = contracts.F(99)
		latest := scorableTick(101)
		latest.MAShort = contracts.F(101)

		report, err := engine.BuildReport([]contracts.EnrichedTick{prev, latest})
		require.NoError(t, err)
		assert.True(t, report.MACDBullishStrict)
	})

	t.Run("falling short MA blocks it", func(t *testing.T) {
		prev := scorableTick(100)
		prev.MAShort = contracts.F(102)
		latest := scorableTick(101)
		latest.MAShort = contracts.F(101)

		report, err := engine.BuildReport([]contracts.EnrichedTick{prev, latest})
		require.NoError(t, err)
		assert.False(t, report.MACDBullishStrict)
	})

	t.Run("thin MACD margin blocks it", func(t *testing.T) {
		prev := scorableTick(100)
		latest := scorableTick(101)
		latest.MACD = contracts.F(0.505)
		latest.SignalLine = contracts.F(0.5) // diff 0.005 <= margin 0.01

		report, err := engine.BuildReport([]contracts.EnrichedTick{prev, latest})
		require.NoError(t, err)
		assert.False(t, report.MACDBullishStrict)
	})

	t.Run("single tick has no slope", func(t *testing.T) {
		report, err := engine.BuildReport([]contracts.EnrichedTick{scorableTick(100)})
		require.NoError(t, err)
		assert.False(t, report.MACDBullishStrict)
	})
}

func TestBuildReport_RecentHigh(t *testing.T) {
	engine := newTestEngine(t, reportConfig())

	rising := []contracts.EnrichedTick{scorableTick(100), scorableTick(101), scorableTick(102)}
	report, err := engine.BuildReport(rising)
	require.NoError(t, err)
	assert.True(t, report.RecentHigh)

	falling := []contracts.EnrichedTick{scorableTick(102), scorableTick(101), scorableTick(100)}
	report, err = engine.BuildReport(falling)
	require.NoError(t, err)
	assert.False(t, report.RecentHigh)
}

func TestBuildReport_SustainedHighs(t *testing.T) {
	engine := newTestEngine(t, reportConfig())

	t.Run("monotonic rise sustains the count", func(t *testing.T) {
		series := make([]contracts.EnrichedTick, 10)
		for i := range series {
			series[i] = scorableTick(100 + float64(i))
		}

		report, err := engine.BuildReport(series)
		require.NoError(t, err)
		assert.Equal(t, 2, report.SustainedHighs)
		assert.True(t, report.SustainedHighsEnough)
	})

	t.Run("flat closes never break out", func(t *testing.T) {
		report, err := engine.BuildReport(flatSeries(10, 100))
		require.NoError(t, err)
		assert.Equal(t, 0, report.SustainedHighs)
		assert.False(t, report.SustainedHighsEnough)
	})

	t.Run("insufficient history stops the count", func(t *testing.T) {
		// Too short for even one full breakout window before the close.
		series := []contracts.EnrichedTick{scorableTick(100), scorableTick(101), scorableTick(102)}
		report, err := engine.BuildReport(series)
		require.NoError(t, err)
		assert.Equal(t, 0, report.SustainedHighs)
	})
}

func TestBuildReport_TrendMomentum(t *testing.T) {
	engine := newTestEngine(t, reportConfig())

	hot := scorableTick(100)
	hot.CCI = contracts.F(150) // above the 100 threshold, VMAs already supportive
	report, err := engine.BuildReport([]contracts.EnrichedTick{hot})
	require.NoError(t, err)
	assert.True(t, report.TrendMomentum)

	cold := scorableTick(100)
	cold.CCI = contracts.F(50)
	report, err = engine.BuildReport([]contracts.EnrichedTick{cold})
	require.NoError(t, err)
	assert.False(t, report.TrendMomentum)

	absent := scorableTick(100)
	absent.CCI = contracts.Float{}
	report, err = engine.BuildReport([]contracts.EnrichedTick{absent})
	require.NoError(t, err)
	assert.False(t, report.TrendMomentum)
}

func TestBuildReport_VolumeSpike(t *testing.T) {
	engine := newTestEngine(t, reportConfig())

	series := flatSeries(4, 100) // history volume is 1000
	series[3].Volume = 5000      // rolling mean (1000+1000+5000)/3, doubled, is 4666.7

	report, err := engine.BuildReport(series)
	require.NoError(t, err)
	assert.True(t, report.VolumeSpike)

	report, err = engine.BuildReport(flatSeries(4, 100))
	require.NoError(t, err)
	assert.False(t, report.VolumeSpike)

	// The rolling mean includes the spike bar itself, so exactly
	// spike-period bars are enough.
	series = flatSeries(3, 100)
	series[2].Volume = 9000
	report, err = engine.BuildReport(series)
	require.NoError(t, err)
	assert.True(t, report.VolumeSpike)

	// Not enough history for the spike window.
	report, err = engine.BuildReport(flatSeries(2, 100))
	require.NoError(t, err)
	assert.False(t, report.VolumeSpike)
}

func TestBuildReport_MomentumKbar(t *testing.T) {
	engine := newTestEngine(t, reportConfig())

	t.Run("full-bodied high-volume breakout bar", func(t *testing.T) {
		series := flatSeries(4, 100)
		bar := &series[3]
		bar.Open = 101
		bar.Close = 110
		bar.High = 110
		bar.Low = 101
		bar.Volume = 5000

		report, err := engine.BuildReport(series)
		require.NoError(t, err)
		assert.True(t, report.MomentumKbar)
	})

	t.Run("long shadows disqualify the bar", func(t *testing.T) {
		series := flatSeries(4, 100)
		bar := &series[3]
		bar.Open = 104
		bar.Close = 106
		bar.High = 112
		bar.Low = 100
		bar.Volume = 5000

		report, err := engine.BuildReport(series)
		require.NoError(t, err)
		assert.False(t, report.MomentumKbar)
	})

	t.Run("ordinary volume disqualifies the bar", func(t *testing.T) {
		series := flatSeries(4, 100)
		bar := &series[3]
		bar.Open = 101
		bar.Close = 110
		bar.High = 110
		bar.Low = 101

		report, err := engine.BuildReport(series)
		require.NoError(t, err)
		assert.False(t, report.MomentumKbar)
	})
}

func TestBuildReport_RSIExtremes(t *testing.T) {
	engine := newTestEngine(t, reportConfig())

	hot := scorableTick(100)
	hot.RSI = contracts.F(80)
	report, err := engine.BuildReport([]contracts.EnrichedTick{hot})
	require.NoError(t, err)
	assert.True(t, report.RSIOverbought)
	assert.False(t, report.RSIOversold)

	cold := scorableTick(100)
	cold.RSI = contracts.F(20)
	report, err = engine.BuildReport([]contracts.EnrichedTick{cold})
	require.NoError(t, err)
	assert.False(t, report.RSIOverbought)
	assert.True(t, report.RSIOversold)
}

func TestBuildReport_BollingerBreakout(t *testing.T) {
	engine := newTestEngine(t, reportConfig())

	tests := []struct {
		name         string
		upper, lower contracts.Float
		close        float64
		want         string
	}{
		{"above upper band", contracts.F(105), contracts.F(95), 110, contracts.BreakoutUpper},
		{"below lower band", contracts.F(105), contracts.F(95), 90, contracts.BreakoutLower},
		{"inside the bands", contracts.F(105), contracts.F(95), 100, contracts.BreakoutNone},
		{"absent bands", contracts.Float{}, contracts.Float{}, 110, contracts.BreakoutNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tick := scorableTick(100)
			tick.Close = tt.close
			tick.BollingerUpper = tt.upper
			tick.BollingerLower = tt.lower

			report, err := engine.BuildReport([]contracts.EnrichedTick{tick})
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.BollingerBreakout)
		})
	}
}

func TestBuildReport_TrendCategoriesStableOrder(t *testing.T) {
	engine := newTestEngine(t, reportConfig())

	hot := scorableTick(100)
	hot.RSI = contracts.F(80)
	hot.CCI = contracts.F(150)

	report, err := engine.BuildReport([]contracts.EnrichedTick{hot})
	require.NoError(t, err)

	assert.Equal(t, []string{"trend_momentum", "rsi_overbought"}, report.TrendCategories)
}
