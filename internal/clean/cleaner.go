package clean

import (
	"fmt"
	"sort"

	"github.com/quantinfra/nifty500/internal/contracts"
	"github.com/quantinfra/nifty500/pkg/logger"
)

// defaultTransactionCostBps is a placeholder cost assumption attached to
// every row, to be replaced by strategy-specific cost modeling downstream.
const defaultTransactionCostBps = 3.0

// Cleaner runs the fixed ordered transformation pipeline over a raw dataset:
// deduplicate, sort, repair missing values, validate, enrich, score.
// Every step is total except the explicit null-close and negative-price
// row drops.
type Cleaner struct {
	logger  *logger.Logger
	metrics contracts.QualityMetrics
	issues  []string
}

// New creates a Cleaner.
func New(log *logger.Logger) *Cleaner {
	return &Cleaner{logger: log}
}

// Clean transforms the raw dataset into the clean dataset and computes
// quality metrics from before/after counts.
func (c *Cleaner) Clean(records []contracts.PriceRecord) []contracts.PriceRecord {
	c.metrics = contracts.QualityMetrics{InitialRows: len(records)}
	c.issues = nil

	records, removed := Deduplicate(records)
	c.metrics.DuplicatesRemoved = removed
	if removed > 0 {
		c.logger.WithField("count", removed).Info("Removed duplicate records")
	} else {
		c.logger.Info("No duplicates found")
	}

	SortRecords(records)

	records, filled := c.fillMissing(records)
	c.metrics.MissingValuesFilled = filled
	c.logger.WithField("count", filled).Info("Handled missing values")

	records = c.validate(records)

	enrich(records)

	c.finalizeMetrics(records)
	return records
}

// Metrics returns the quality metrics of the last Clean call.
func (c *Cleaner) Metrics() contracts.QualityMetrics {
	return c.metrics
}

// Deduplicate removes duplicate (date, ticker) records, keeping the last
// occurrence under arrival order. Running it twice removes nothing more.
func Deduplicate(records []contracts.PriceRecord) ([]contracts.PriceRecord, int) {
	lastIndex := make(map[contracts.RecordKey]int, len(records))
	for i, r := range records {
		lastIndex[r.Key()] = i
	}

	out := make([]contracts.PriceRecord, 0, len(lastIndex))
	for i, r := range records {
		if lastIndex[r.Key()] == i {
			out = append(out, r)
		}
	}
	return out, len(records) - len(out)
}

// SortRecords orders records by (ticker, date) ascending. This ordering is
// required by the forward-fill step.
func SortRecords(records []contracts.PriceRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Ticker != records[j].Ticker {
			return records[i].Ticker < records[j].Ticker
		}
		return records[i].Date.Before(records[j].Date)
	})
}

// fillMissing repairs missing values in the sorted dataset:
//   - open/high/low/close forward-fill within each ticker's own series only,
//     never backward (backward-filling would leak future information into
//     past rows) and never across tickers
//   - missing volume becomes zero ("no trading activity", not "unknown")
//   - rows whose close is still missing after forward-fill carry no usable
//     information and are dropped
//
// Returns the surviving records and the number of values filled.
func (c *Cleaner) fillMissing(records []contracts.PriceRecord) ([]contracts.PriceRecord, int) {
	filled := 0
	currentTicker := ""
	var carry [4]float64

	for i := range records {
		r := &records[i]
		if r.Ticker != currentTicker {
			currentTicker = r.Ticker
			for j := range carry {
				carry[j] = contracts.Missing()
			}
		}

		fields := [4]*float64{&r.Open, &r.High, &r.Low, &r.Close}
		for j, f := range fields {
			if contracts.IsMissing(*f) {
				if !contracts.IsMissing(carry[j]) {
					*f = carry[j]
					filled++
				}
			} else {
				carry[j] = *f
			}
		}

		if contracts.IsMissing(r.Volume) {
			r.Volume = 0
			filled++
		}
	}

	out := make([]contracts.PriceRecord, 0, len(records))
	for _, r := range records {
		if contracts.IsMissing(r.Close) {
			continue
		}
		out = append(out, r)
	}
	return out, filled
}

// validate applies the repair rules and accumulates anomaly counts:
//   - rows with any negative price are removed (corrupt input, not repairable)
//   - negative volume is clamped to zero (sign errors assumed spurious)
//   - high < low rows have the two values swapped (assumed transposition)
//   - close outside [low, high] is counted and logged but left untouched;
//     the anomaly is ambiguous enough that silent correction could mask a
//     real data issue
func (c *Cleaner) validate(records []contracts.PriceRecord) []contracts.PriceRecord {
	c.logger.Info("Validating data quality")

	negative := map[string]int{}
	negativeVolume := 0
	swapped := 0
	closeOutside := 0

	out := make([]contracts.PriceRecord, 0, len(records))
	for _, r := range records {
		drop := false
		for name, v := range map[string]float64{
			"Open": r.Open, "High": r.High, "Low": r.Low, "Close": r.Close,
		} {
			if v < 0 {
				negative[name]++
				drop = true
			}
		}
		if drop {
			continue
		}

		if r.Volume < 0 {
			negativeVolume++
			r.Volume = 0
		}

		if !contracts.IsMissing(r.High) && !contracts.IsMissing(r.Low) && r.High < r.Low {
			r.High, r.Low = r.Low, r.High
			swapped++
		}

		if r.Close < r.Low || r.Close > r.High {
			closeOutside++
		}

		out = append(out, r)
	}

	for _, name := range []string{"Open", "High", "Low", "Close"} {
		if n := negative[name]; n > 0 {
			c.addIssue(fmt.Sprintf("%s: %d negative values", name, n))
		}
	}
	if negativeVolume > 0 {
		c.addIssue(fmt.Sprintf("Volume: %d negative values", negativeVolume))
	}
	if swapped > 0 {
		c.addIssue(fmt.Sprintf("%d rows where High < Low", swapped))
	}
	if closeOutside > 0 {
		c.addIssue(fmt.Sprintf("%d rows where Close outside High-Low range", closeOutside))
	}

	if len(c.issues) == 0 {
		c.logger.Info("No data quality issues detected")
	}
	return out
}

// addIssue records a human-readable anomaly for the quality report.
func (c *Cleaner) addIssue(issue string) {
	c.issues = append(c.issues, issue)
	c.logger.WithField("issue", issue).Warn("Data quality issue")
}

// enrich derives the metadata columns used by downstream strategies.
// DayOfWeek is zero-based on Monday.
func enrich(records []contracts.PriceRecord) {
	for i := range records {
		r := &records[i]
		r.DayOfWeek = (int(r.Date.Weekday()) + 6) % 7
		r.Year = r.Date.Year()
		r.Month = int(r.Date.Month())
		r.TransactionCostBps = defaultTransactionCostBps
	}
}
