package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/quantinfra/nifty500/internal/contracts"
)

var rawHeader = []string{
	"Date", "Ticker", "Open", "High", "Low", "Close", "Volume", "Dividends", "Stock Splits",
}

var masterHeader = append(append([]string{}, rawHeader...),
	"DayOfWeek", "Year", "Month", "TransactionCostBps",
)

// SaveRaw persists the aggregated raw dataset.
func (s *Store) SaveRaw(records []contracts.PriceRecord) error {
	path := filepath.Join(s.RawDir(), RawDataCSV)
	return s.writeRecords(path, records, false)
}

// LoadRaw reads the persisted raw dataset.
func (s *Store) LoadRaw() ([]contracts.PriceRecord, error) {
	path := filepath.Join(s.RawDir(), RawDataCSV)
	return s.readRecords(path, "download")
}

// SaveMaster persists the cleaned dataset including metadata columns.
func (s *Store) SaveMaster(records []contracts.PriceRecord) error {
	path := filepath.Join(s.ProcessedDir(), MasterCSV)
	return s.writeRecords(path, records, true)
}

// SaveMatrix persists a Date x Ticker matrix produced by the cleaning stage.
func (s *Store) SaveMatrix(filename string, rows [][]string) error {
	path := filepath.Join(s.ProcessedDir(), filename)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"path": path,
		"rows": len(rows),
	}).Info("Saved matrix")
	return nil
}

func (s *Store) writeRecords(path string, records []contracts.PriceRecord, withMetadata bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := rawHeader
	if withMetadata {
		header = masterHeader
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Date.Format("2006-01-02"),
			r.Ticker,
			formatPrice(r.Open),
			formatPrice(r.High),
			formatPrice(r.Low),
			formatPrice(r.Close),
			formatVolume(r.Volume),
			formatPrice(r.Dividends),
			formatPrice(r.StockSplits),
		}
		if withMetadata {
			row = append(row,
				strconv.Itoa(r.DayOfWeek),
				strconv.Itoa(r.Year),
				strconv.Itoa(r.Month),
				strconv.FormatFloat(r.TransactionCostBps, 'f', -1, 64),
			)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write record row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"path": path,
		"rows": len(records),
	}).Info("Saved dataset")
	return nil
}

func (s *Store) readRecords(path, priorStage string) ([]contracts.PriceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (run the %s stage first)", ErrMissingArtifact, path, priorStage)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	records := make([]contracts.PriceRecord, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 7 {
			return nil, fmt.Errorf("%s: row %d has %d columns, want at least 7", path, i+1, len(row))
		}

		date, err := time.Parse("2006-01-02", row[0])
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: invalid date %q: %w", path, i+1, row[0], err)
		}

		r := contracts.PriceRecord{
			Date:   date,
			Ticker: row[1],
			Open:   parsePrice(row[2]),
			High:   parsePrice(row[3]),
			Low:    parsePrice(row[4]),
			Close:  parsePrice(row[5]),
			Volume: parsePrice(row[6]),
		}
		if len(row) > 7 {
			r.Dividends = parseOrZero(row[7])
		}
		if len(row) > 8 {
			r.StockSplits = parseOrZero(row[8])
		}
		records = append(records, r)
	}

	s.logger.WithFields(map[string]interface{}{
		"path": path,
		"rows": len(records),
	}).Info("Loaded dataset")

	return records, nil
}

// formatPrice renders a price cell; missing values become empty cells.
func formatPrice(v float64) string {
	if contracts.IsMissing(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatVolume renders a volume cell as an integer.
func formatVolume(v float64) string {
	if contracts.IsMissing(v) {
		return ""
	}
	return strconv.FormatInt(int64(v), 10)
}

// parsePrice parses a numeric cell; empty or malformed cells are missing.
func parsePrice(cell string) float64 {
	if cell == "" {
		return contracts.Missing()
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return contracts.Missing()
	}
	return v
}

// parseOrZero parses a numeric cell, defaulting to zero.
func parseOrZero(cell string) float64 {
	if cell == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0
	}
	return v
}
