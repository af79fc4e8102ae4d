package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/quantinfra/nifty500/internal/contracts"
	"github.com/quantinfra/nifty500/pkg/httputil"
	"github.com/quantinfra/nifty500/pkg/logger"
)

// Client fetches daily OHLCV history from the Yahoo Finance chart API.
// All provider calls go through this client; the bulk downloader owns the
// retry policy, so the underlying HTTP client runs with retries disabled.
type Client struct {
	httpClient *httputil.Client
	baseURL    string
	logger     *logger.Logger
}

// New creates a Yahoo Finance client.
func New(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	return &Client{httpClient: httpClient, baseURL: baseURL, logger: log}
}

// chartResponse is the response structure of the Yahoo Finance chart API.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []interface{} `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
			Events struct {
				Dividends map[string]struct {
					Amount float64 `json:"amount"`
					Date   int64   `json:"date"`
				} `json:"dividends"`
				Splits map[string]struct {
					Date        int64   `json:"date"`
					Numerator   float64 `json:"numerator"`
					Denominator float64 `json:"denominator"`
				} `json:"splits"`
			} `json:"events"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History fetches adjusted daily bars for a ticker over [start, end].
// A ticker with no data in the range returns an empty slice and no error;
// the caller treats that as a non-retryable miss.
func (c *Client) History(ctx context.Context, ticker string, start, end time.Time) ([]contracts.Bar, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=%s",
		c.baseURL, url.PathEscape(ticker), start.Unix(), end.Unix(), url.QueryEscape("div|split"))

	resp, err := c.httpClient.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("chart request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read chart response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		// Unknown or delisted symbol.
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	bars, err := parseChart(body)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"count":  len(bars),
	}).Debug("Fetched history")
	return bars, nil
}

// parseChart decodes a chart API payload into adjusted daily bars.
func parseChart(body []byte) ([]contracts.Bar, error) {
	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("decode chart response: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart api error: %s: %s",
			chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, nil
	}

	result := chart.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, nil
	}

	quote := result.Indicators.Quote[0]
	var adjClose []interface{}
	if len(result.Indicators.AdjClose) > 0 {
		adjClose = result.Indicators.AdjClose[0].AdjClose
	}

	dividends := make(map[string]float64)
	for _, d := range result.Events.Dividends {
		dividends[dayKey(d.Date)] = d.Amount
	}
	splits := make(map[string]float64)
	for _, s := range result.Events.Splits {
		if s.Denominator != 0 {
			splits[dayKey(s.Date)] = s.Numerator / s.Denominator
		}
	}

	bars := make([]contracts.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		date := time.Unix(ts, 0).UTC().Truncate(24 * time.Hour)

		bar := contracts.Bar{
			Date:   date,
			Open:   toPrice(quote.Open, i),
			High:   toPrice(quote.High, i),
			Low:    toPrice(quote.Low, i),
			Close:  toPrice(quote.Close, i),
			Volume: toPrice(quote.Volume, i),
		}

		// Adjust for splits and dividends using the adjusted close ratio.
		if adj := toPrice(adjClose, i); !contracts.IsMissing(adj) &&
			!contracts.IsMissing(bar.Close) && bar.Close != 0 {
			ratio := adj / bar.Close
			bar.Open *= ratio
			bar.High *= ratio
			bar.Low *= ratio
			bar.Close = adj
		}

		key := dayKey(ts)
		bar.Dividends = dividends[key]
		bar.StockSplits = splits[key]

		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// dayKey maps a unix timestamp to its UTC calendar day.
func dayKey(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02")
}

// toPrice extracts a nullable numeric array element; nil and out-of-range
// elements are missing.
func toPrice(arr []interface{}, i int) float64 {
	if i >= len(arr) || arr[i] == nil {
		return contracts.Missing()
	}
	switch v := arr[i].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return contracts.Missing()
	}
}
