package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/trendsignal/internal/contracts"
	"github.com/wonny/trendsignal/internal/indicator"
	"github.com/wonny/trendsignal/internal/scoring"
	"github.com/wonny/trendsignal/pkg/logger"
)

// stubSource is a canned TickSource.
type stubSource struct {
	ticks []contracts.Tick
	err   error
}

func (s *stubSource) FetchOHLCV(ctx context.Context, symbol string) ([]contracts.Tick, error) {
	return s.ticks, s.err
}

func newTestAnalyzer(t *testing.T, source contracts.TickSource) *Analyzer {
	t.Helper()
	log := logger.NewNop()

	indicators, err := indicator.NewEngine(indicator.DefaultConfig(), log)
	require.NoError(t, err)
	scorer, err := scoring.NewEngine(scoring.DefaultConfig(), log)
	require.NoError(t, err)

	return NewAnalyzer(source, indicators, scorer, nil, log)
}

func bullishTicks(n int) []contracts.Tick {
	ticks := make([]contracts.Tick, n)
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	for i := range ticks {
		c := 100.0 + float64(i)
		ticks[i] = contracts.Tick{
			Timestamp: base.AddDate(0, 0, i),
			Open:      c - 0.5,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000 + float64(i)*50,
		}
	}
	return ticks
}

func TestAnalyze_Success(t *testing.T) {
	analyzer := newTestAnalyzer(t, &stubSource{ticks: bullishTicks(60)})

	report, err := analyzer.Analyze(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", report.Symbol)
	assert.False(t, report.GeneratedAt.IsZero())
	assert.Equal(t, report.ScoreBreakdown.Total(), report.ScoreTotal)
	// A steadily rising series must at least confirm the MA alignment.
	assert.True(t, report.ScoreSignals.MAAlignment)
}

func TestAnalyze_FetchErrorPropagates(t *testing.T) {
	fetchErr := fmt.Errorf("%w: upstream returned 502", contracts.ErrDataUnavailable)
	analyzer := newTestAnalyzer(t, &stubSource{err: fetchErr})

	_, err := analyzer.Analyze(context.Background(), "AAPL")
	assert.True(t, errors.Is(err, contracts.ErrDataUnavailable))
}

func TestAnalyze_EmptyFetchIsDataUnavailable(t *testing.T) {
	analyzer := newTestAnalyzer(t, &stubSource{})

	_, err := analyzer.Analyze(context.Background(), "AAPL")
	assert.True(t, errors.Is(err, contracts.ErrDataUnavailable))
}

func TestAnalyze_InvalidSeriesPropagates(t *testing.T) {
	ticks := bullishTicks(40)
	ticks[1].Timestamp = ticks[0].Timestamp // duplicate
	analyzer := newTestAnalyzer(t, &stubSource{ticks: ticks})

	_, err := analyzer.Analyze(context.Background(), "AAPL")
	assert.True(t, errors.Is(err, contracts.ErrInvalidSeries))
}

func TestAnalyze_ShortSeriesIsInsufficientData(t *testing.T) {
	analyzer := newTestAnalyzer(t, &stubSource{ticks: bullishTicks(10)})

	_, err := analyzer.Analyze(context.Background(), "AAPL")
	assert.True(t, errors.Is(err, contracts.ErrInsufficientData))
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("x: %w", contracts.ErrDataUnavailable), "data_unavailable"},
		{fmt.Errorf("x: %w", contracts.ErrInvalidSeries), "invalid_series"},
		{fmt.Errorf("x: %w", contracts.ErrInsufficientData), "insufficient_data"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		if got := statusLabel(tt.err); got != tt.want {
			t.Errorf("statusLabel(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
