package yahoo

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quantinfra/nifty500/internal/contracts"
	"github.com/quantinfra/nifty500/pkg/httputil"
	"github.com/quantinfra/nifty500/pkg/logger"
)

// Two trading days; the second close is null. Adjusted close halves the
// first day's prices.
const chartFixture = `{
	"chart": {
		"result": [{
			"timestamp": [1704067200, 1704153600],
			"indicators": {
				"quote": [{
					"open":   [100.0, 102.0],
					"high":   [110.0, 104.0],
					"low":    [90.0,  101.0],
					"close":  [100.0, null],
					"volume": [5000,  null]
				}],
				"adjclose": [{
					"adjclose": [50.0, null]
				}]
			},
			"events": {
				"dividends": {
					"1704067200": {"amount": 2.5, "date": 1704067200}
				},
				"splits": {
					"1704153600": {"date": 1704153600, "numerator": 2, "denominator": 1}
				}
			}
		}],
		"error": null
	}
}`

func TestParseChart(t *testing.T) {
	bars, err := parseChart([]byte(chartFixture))
	if err != nil {
		t.Fatalf("parseChart() error = %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("parseChart() got %d bars, want 2", len(bars))
	}

	first := bars[0]
	if !first.Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("parseChart() first date = %v, want 2024-01-01", first.Date)
	}
	// Adjusted by adjclose/close ratio of 0.5
	if first.Close != 50 || first.Open != 50 || first.High != 55 || first.Low != 45 {
		t.Errorf("parseChart() first OHLC = %v/%v/%v/%v, want 50/55/45/50",
			first.Open, first.High, first.Low, first.Close)
	}
	if first.Volume != 5000 {
		t.Errorf("parseChart() first volume = %v, want 5000", first.Volume)
	}
	if first.Dividends != 2.5 {
		t.Errorf("parseChart() first dividends = %v, want 2.5", first.Dividends)
	}

	second := bars[1]
	if !contracts.IsMissing(second.Close) {
		t.Errorf("parseChart() second close = %v, want missing", second.Close)
	}
	if !math.IsNaN(second.Volume) {
		t.Errorf("parseChart() second volume = %v, want missing", second.Volume)
	}
	// Unadjusted: no adjclose for that index
	if second.Open != 102 {
		t.Errorf("parseChart() second open = %v, want 102", second.Open)
	}
	if second.StockSplits != 2 {
		t.Errorf("parseChart() second splits = %v, want 2", second.StockSplits)
	}
}

func TestParseChartEmptyResult(t *testing.T) {
	bars, err := parseChart([]byte(`{"chart": {"result": [], "error": null}}`))
	if err != nil {
		t.Fatalf("parseChart() error = %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("parseChart() got %d bars, want 0", len(bars))
	}
}

func TestParseChartAPIError(t *testing.T) {
	body := `{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found"}}}`
	if _, err := parseChart([]byte(body)); err == nil {
		t.Fatal("parseChart() error = nil, want chart api error")
	}
}

func newTestClient(serverURL string) *Client {
	httpClient := httputil.New(logger.NewNop(), 5*time.Second).DisableRetry()
	return New(httpClient, serverURL, logger.NewNop())
}

func TestHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/TCS.NS" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("interval") != "1d" {
			t.Errorf("interval = %s, want 1d", q.Get("interval"))
		}
		if q.Get("events") != "div|split" {
			t.Errorf("events = %s, want div|split", q.Get("events"))
		}
		fmt.Fprint(w, chartFixture)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	bars, err := c.History(context.Background(),
		"TCS.NS", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(bars) != 2 {
		t.Errorf("History() got %d bars, want 2", len(bars))
	}
}

func TestHistoryNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	bars, err := c.History(context.Background(),
		"UNKNOWN.NS", time.Now().AddDate(-1, 0, 0), time.Now())
	if err != nil {
		t.Fatalf("History() error = %v, want nil for unknown symbols", err)
	}
	if len(bars) != 0 {
		t.Errorf("History() got %d bars, want 0", len(bars))
	}
}

func TestHistoryServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	if _, err := c.History(context.Background(),
		"TCS.NS", time.Now().AddDate(-1, 0, 0), time.Now()); err == nil {
		t.Fatal("History() error = nil, want failure on server error")
	}
}
