package clean

import (
	"sort"
	"strconv"

	"github.com/quantinfra/nifty500/internal/contracts"
)

// CloseMatrix projects the clean dataset into a Date x Ticker matrix of
// closing prices, including a header row. Derivable purely from the records.
func CloseMatrix(records []contracts.PriceRecord) [][]string {
	return pivot(records, func(r contracts.PriceRecord) string {
		return strconv.FormatFloat(r.Close, 'f', -1, 64)
	})
}

// VolumeMatrix projects the clean dataset into a Date x Ticker matrix of
// volumes.
func VolumeMatrix(records []contracts.PriceRecord) [][]string {
	return pivot(records, func(r contracts.PriceRecord) string {
		return strconv.FormatInt(int64(r.Volume), 10)
	})
}

// pivot builds a wide-format matrix keyed by date with one column per
// ticker. Cells without a record stay empty.
func pivot(records []contracts.PriceRecord, value func(contracts.PriceRecord) string) [][]string {
	tickerSet := make(map[string]bool)
	cells := make(map[string]map[string]string)

	for _, r := range records {
		date := r.Date.Format("2006-01-02")
		tickerSet[r.Ticker] = true
		if cells[date] == nil {
			cells[date] = make(map[string]string)
		}
		cells[date][r.Ticker] = value(r)
	}

	tickers := make([]string, 0, len(tickerSet))
	for t := range tickerSet {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	dates := make([]string, 0, len(cells))
	for d := range cells {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	rows := make([][]string, 0, len(dates)+1)
	rows = append(rows, append([]string{"Date"}, tickers...))
	for _, date := range dates {
		row := make([]string, 0, len(tickers)+1)
		row = append(row, date)
		for _, ticker := range tickers {
			row = append(row, cells[date][ticker])
		}
		rows = append(rows, row)
	}
	return rows
}
