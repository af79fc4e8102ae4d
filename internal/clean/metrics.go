package clean

import (
	"math"
	"time"

	"github.com/quantinfra/nifty500/internal/contracts"
)

// finalizeMetrics computes dataset statistics and the composite quality
// score after all transformation steps have run.
func (c *Cleaner) finalizeMetrics(records []contracts.PriceRecord) {
	c.metrics.FinalRows = len(records)
	c.metrics.Issues = c.issues

	if len(records) > 0 {
		type span struct {
			min, max time.Time
		}
		tickerSpans := make(map[string]*span)
		dates := make(map[string]bool)

		earliest, latest := records[0].Date, records[0].Date
		for _, r := range records {
			if r.Date.Before(earliest) {
				earliest = r.Date
			}
			if r.Date.After(latest) {
				latest = r.Date
			}
			dates[r.Date.Format("2006-01-02")] = true

			sp, ok := tickerSpans[r.Ticker]
			if !ok {
				tickerSpans[r.Ticker] = &span{min: r.Date, max: r.Date}
				continue
			}
			if r.Date.Before(sp.min) {
				sp.min = r.Date
			}
			if r.Date.After(sp.max) {
				sp.max = r.Date
			}
		}

		c.metrics.TickersProcessed = len(tickerSpans)
		c.metrics.DateRange = contracts.DateRangeSummary{
			Earliest:    earliest.Format("2006-01-02"),
			Latest:      latest.Format("2006-01-02"),
			TotalDays:   int(latest.Sub(earliest).Hours() / 24),
			TradingDays: len(dates),
		}

		totalYears := 0.0
		for _, sp := range tickerSpans {
			totalYears += sp.max.Sub(sp.min).Hours() / 24 / 365.25
		}
		c.metrics.AverageYearsOfData = round2(totalYears / float64(len(tickerSpans)))
	}

	c.metrics.DataQualityScore = qualityScore(
		c.metrics.InitialRows, c.metrics.FinalRows, c.metrics.MissingValuesFilled)
}

// qualityScore combines row retention and completeness into a 0-100 score.
// Both components are clamped to [0,1] so pathological inputs (more rows
// out than in, extreme data loss) cannot push the score out of range.
func qualityScore(initialRows, finalRows, missingFilled int) float64 {
	denom := initialRows
	if denom < 1 {
		denom = 1
	}

	retention := clamp01(float64(finalRows) / float64(denom))
	completeness := clamp01(1 - float64(missingFilled)/float64(denom))

	return round2((0.5*retention + 0.5*completeness) * 100)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Report wraps the metrics of the last Clean call for persistence.
func (c *Cleaner) Report(reportDate time.Time) contracts.QualityReport {
	return contracts.QualityReport{
		ReportDate: reportDate.Format(time.RFC3339),
		Metrics:    c.metrics,
	}
}
