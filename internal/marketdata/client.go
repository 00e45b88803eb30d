package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/trendsignal/internal/contracts"
	"github.com/wonny/trendsignal/pkg/config"
	"github.com/wonny/trendsignal/pkg/httputil"
	"github.com/wonny/trendsignal/pkg/logger"
)

// Client fetches OHLCV history from the Yahoo Finance chart API. It
// implements contracts.TickSource.
type Client struct {
	httpClient *httputil.Client
	limiter    *rate.Limiter
	cfg        config.MarketConfig
	logger     *logger.Logger
}

// NewClient creates a market data client.
func NewClient(cfg config.MarketConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
		cfg:        cfg,
		logger:     log,
	}
}

var defaultHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	"Accept":     "application/json",
}

// FetchOHLCV fetches daily candles for a symbol, ascending by timestamp.
// Failures wrap contracts.ErrDataUnavailable.
func (c *Client) FetchOHLCV(ctx context.Context, symbol string) ([]contracts.Tick, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	fullURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s",
		c.cfg.ChartBaseURL, url.PathEscape(symbol),
		url.QueryEscape(c.cfg.Range), url.QueryEscape(c.cfg.Interval))

	resp, err := c.httpClient.Get(ctx, fullURL, defaultHeaders)
	if err != nil {
		return nil, fmt.Errorf("%w: chart request for %s failed: %v",
			contracts.ErrDataUnavailable, symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: chart request for %s returned status %d",
			contracts.ErrDataUnavailable, symbol, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read chart response for %s: %v",
			contracts.ErrDataUnavailable, symbol, err)
	}

	ticks, err := parseChartResponse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse chart response for %s: %v",
			contracts.ErrDataUnavailable, symbol, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(ticks),
	}).Debug("Fetched OHLCV")

	return ticks, nil
}

// chartResponse mirrors the chart API JSON envelope.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// parseChartResponse decodes the chart envelope into ticks, skipping
// periods the vendor reports as null (halts, partial sessions).
func parseChartResponse(body []byte) ([]contracts.Tick, error) {
	var cr chartResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("decode chart JSON: %w", err)
	}

	if cr.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %s (%s)",
			cr.Chart.Error.Description, cr.Chart.Error.Code)
	}
	if len(cr.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart result is empty")
	}

	result := cr.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart quote block is empty")
	}
	quote := result.Indicators.Quote[0]

	ticks := make([]contracts.Tick, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) ||
			i >= len(quote.Low) || i >= len(quote.Close) || i >= len(quote.Volume) {
			break
		}
		if quote.Open[i] == nil || quote.High[i] == nil ||
			quote.Low[i] == nil || quote.Close[i] == nil || quote.Volume[i] == nil {
			continue
		}
		ticks = append(ticks, contracts.Tick{
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      *quote.Open[i],
			High:      *quote.High[i],
			Low:       *quote.Low[i],
			Close:     *quote.Close[i],
			Volume:    *quote.Volume[i],
		})
	}

	return ticks, nil
}
