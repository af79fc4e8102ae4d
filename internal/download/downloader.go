package download

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/quantinfra/nifty500/internal/contracts"
	"github.com/quantinfra/nifty500/pkg/logger"
)

// ErrNoData signals that the provider returned an empty series for a ticker.
// Not retried: a genuinely delisted or non-trading symbol will not produce
// data on a second attempt.
var ErrNoData = errors.New("no data available")

// Provider is the market data capability the downloader depends on.
// Kept injectable so it can be replaced with a deterministic stub in tests.
type Provider interface {
	History(ctx context.Context, ticker string, start, end time.Time) ([]contracts.Bar, error)
}

// Downloader retrieves per-ticker OHLCV history sequentially with
// retry/backoff and partial-failure bookkeeping. Downloads are deliberately
// serialized; the inter-request delay respects provider rate limits and must
// not be removed without re-deriving the provider's rate-limit contract.
type Downloader struct {
	provider    Provider
	logger      *logger.Logger
	maxRetries  int
	limiter     *rate.Limiter
	backoffUnit time.Duration
	sleep       func(time.Duration)
}

// New creates a Downloader. requestDelay is the fixed inter-request delay
// applied between ticker attempts.
func New(provider Provider, maxRetries int, requestDelay time.Duration, log *logger.Logger) *Downloader {
	var limiter *rate.Limiter
	if requestDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(requestDelay), 1)
	}
	return &Downloader{
		provider:    provider,
		logger:      log,
		maxRetries:  maxRetries,
		limiter:     limiter,
		backoffUnit: time.Second,
		sleep:       time.Sleep,
	}
}

// WithSleep replaces the backoff sleep function, for tests.
func (d *Downloader) WithSleep(sleep func(time.Duration)) *Downloader {
	d.sleep = sleep
	return d
}

// DownloadOne retrieves history for a single ticker with retry logic.
// Each failed attempt sleeps 2^attempt backoff units before the next try.
// An empty provider response fails immediately without retry.
func (d *Downloader) DownloadOne(ctx context.Context, ticker string, start, end time.Time) ([]contracts.PriceRecord, error) {
	for attempt := 0; attempt < d.maxRetries; attempt++ {
		bars, err := d.provider.History(ctx, ticker, start, end)
		if err != nil {
			d.logger.WithFields(map[string]interface{}{
				"ticker":  ticker,
				"attempt": attempt + 1,
				"error":   err.Error(),
			}).Warn("Download attempt failed")

			if attempt < d.maxRetries-1 {
				d.sleep(d.backoffUnit * (1 << attempt))
				continue
			}
			return nil, fmt.Errorf("all %d attempts failed: %w", d.maxRetries, err)
		}

		if len(bars) == 0 {
			d.logger.WithField("ticker", ticker).Warn("No data available")
			return nil, ErrNoData
		}

		records := tagRecords(ticker, bars)
		d.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"rows":   len(records),
			"from":   records[0].Date.Format("2006-01-02"),
			"to":     records[len(records)-1].Date.Format("2006-01-02"),
		}).Info("Downloaded history")
		return records, nil
	}

	return nil, ErrNoData
}

// DownloadAll retrieves history for all tickers sequentially, aggregating
// successes and recording failures. Per-ticker failures never abort the
// batch; a run with zero successes returns an empty dataset and leaves
// failure detection to the caller.
func (d *Downloader) DownloadAll(ctx context.Context, tickers []string, start, end time.Time) ([]contracts.PriceRecord, *contracts.DownloadStats, error) {
	stats := &contracts.DownloadStats{
		TotalTickers: len(tickers),
		StartedAt:    time.Now(),
	}

	d.logger.WithFields(map[string]interface{}{
		"tickers": len(tickers),
		"from":    start.Format("2006-01-02"),
		"to":      end.Format("2006-01-02"),
	}).Info("Starting bulk download")

	var all []contracts.PriceRecord
	for i, ticker := range tickers {
		if d.limiter != nil {
			if err := d.limiter.Wait(ctx); err != nil {
				return nil, nil, fmt.Errorf("rate limit wait failed: %w", err)
			}
		}

		records, err := d.DownloadOne(ctx, ticker, start, end)
		if err != nil {
			stats.Failed++
			stats.FailedTickers = append(stats.FailedTickers, ticker)
		} else {
			stats.Successful++
			all = append(all, records...)
		}

		if (i+1)%50 == 0 {
			d.logger.WithFields(map[string]interface{}{
				"done":  i + 1,
				"total": len(tickers),
			}).Info("Download progress")
		}
	}

	stats.FinishedAt = time.Now()

	d.logger.WithFields(map[string]interface{}{
		"total":      stats.TotalTickers,
		"successful": stats.Successful,
		"failed":     stats.Failed,
		"rows":       len(all),
	}).Info("Bulk download finished")

	if stats.Successful == 0 {
		d.logger.Error("No data downloaded for any ticker")
	}

	return all, stats, nil
}

// tagRecords converts provider bars into dataset records, storing the
// suffix-free ticker form.
func tagRecords(ticker string, bars []contracts.Bar) []contracts.PriceRecord {
	name := strings.TrimSuffix(ticker, contracts.MarketSuffix)
	records := make([]contracts.PriceRecord, len(bars))
	for i, bar := range bars {
		records[i] = contracts.PriceRecord{
			Date:        bar.Date,
			Ticker:      name,
			Open:        bar.Open,
			High:        bar.High,
			Low:         bar.Low,
			Close:       bar.Close,
			Volume:      bar.Volume,
			Dividends:   bar.Dividends,
			StockSplits: bar.StockSplits,
		}
	}
	return records
}
