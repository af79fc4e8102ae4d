package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// tickerSnapshot is the JSON form of the resolved universe.
type tickerSnapshot struct {
	Tickers []string `json:"tickers"`
	Count   int      `json:"count"`
}

// SaveTickers persists the resolved universe as both a tabular CSV and a
// structured JSON snapshot for downstream stages and for audit.
func (s *Store) SaveTickers(tickers []string) error {
	csvPath := filepath.Join(s.RawDir(), TickersCSV)

	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", csvPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"ticker"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, ticker := range tickers {
		if err := w.Write([]string{ticker}); err != nil {
			return fmt.Errorf("write ticker row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", csvPath, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"path":  csvPath,
		"count": len(tickers),
	}).Info("Saved tickers")

	jsonPath := filepath.Join(s.RawDir(), TickersJSON)
	return s.writeJSON(jsonPath, tickerSnapshot{Tickers: tickers, Count: len(tickers)})
}

// LoadTickers reads the persisted ticker list.
func (s *Store) LoadTickers() ([]string, error) {
	path := filepath.Join(s.RawDir(), TickersCSV)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (run the fetch stage first)", ErrMissingArtifact, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	tickers := make([]string, 0, len(rows))
	for i, row := range rows {
		if i == 0 || len(row) == 0 || row[0] == "" {
			continue // header and blank rows
		}
		tickers = append(tickers, row[0])
	}

	s.logger.WithFields(map[string]interface{}{
		"path":  path,
		"count": len(tickers),
	}).Info("Loaded tickers")

	return tickers, nil
}
