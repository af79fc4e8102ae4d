package contracts

import (
	"math"
	"time"
)

// MarketSuffix is appended to raw symbols for the market data provider.
// The pipeline stores tickers suffix-free; only the resolver/downloader
// boundary uses the suffixed form.
const MarketSuffix = ".NS"

// Bar is a single daily bar as returned by a market data provider.
// Missing numeric fields are NaN.
type Bar struct {
	Date        time.Time
	Open        float64
	High        float64
	Low         float64
	Close       float64
	Volume      float64
	Dividends   float64
	StockSplits float64
}

// PriceRecord is one row of the pipeline dataset, uniquely identified by
// (Date, Ticker). Price and volume fields use NaN for missing values until
// the cleaning stage repairs them.
type PriceRecord struct {
	Date        time.Time
	Ticker      string
	Open        float64
	High        float64
	Low         float64
	Close       float64
	Volume      float64
	Dividends   float64
	StockSplits float64

	// Metadata columns, populated by the cleaning stage.
	DayOfWeek          int
	Year               int
	Month              int
	TransactionCostBps float64
}

// Key returns the (date, ticker) identity of the record.
func (r PriceRecord) Key() RecordKey {
	return RecordKey{Date: r.Date.Format("2006-01-02"), Ticker: r.Ticker}
}

// RecordKey is the primary key of a PriceRecord.
type RecordKey struct {
	Date   string
	Ticker string
}

// IsMissing reports whether a numeric field holds no value.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Missing is the canonical missing-value marker.
func Missing() float64 {
	return math.NaN()
}

// DownloadStats tracks the outcome of one bulk download run.
// Invariant: Successful + Failed == TotalTickers once the run finishes.
type DownloadStats struct {
	TotalTickers  int
	Successful    int
	Failed        int
	FailedTickers []string
	StartedAt     time.Time
	FinishedAt    time.Time
}

// SuccessRate returns the success ratio as a percentage.
func (s *DownloadStats) SuccessRate() float64 {
	if s.TotalTickers == 0 {
		return 0
	}
	return float64(s.Successful) / float64(s.TotalTickers) * 100
}

// Duration returns the elapsed wall time of the run.
func (s *DownloadStats) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}
