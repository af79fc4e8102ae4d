package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quantinfra/nifty500/internal/contracts"
)

// SaveDownloadSummary persists the download run report.
func (s *Store) SaveDownloadSummary(summary contracts.DownloadSummary) error {
	path := filepath.Join(s.ReportsDir(), DownloadSummary)
	return s.writeJSON(path, summary)
}

// LoadDownloadSummary reads the persisted download run report.
func (s *Store) LoadDownloadSummary() (*contracts.DownloadSummary, error) {
	var summary contracts.DownloadSummary
	path := filepath.Join(s.ReportsDir(), DownloadSummary)
	if err := s.readJSON(path, &summary, "download"); err != nil {
		return nil, err
	}
	return &summary, nil
}

// SaveQualityReport persists the data quality report.
func (s *Store) SaveQualityReport(report contracts.QualityReport) error {
	path := filepath.Join(s.ReportsDir(), QualityReport)
	return s.writeJSON(path, report)
}

// LoadQualityReport reads the persisted data quality report.
func (s *Store) LoadQualityReport() (*contracts.QualityReport, error) {
	var report contracts.QualityReport
	path := filepath.Join(s.ReportsDir(), QualityReport)
	if err := s.readJSON(path, &report, "clean"); err != nil {
		return nil, err
	}
	return &report, nil
}

// SaveFailedTickers persists the failed-ticker list. Written only when at
// least one failure occurred.
func (s *Store) SaveFailedTickers(tickers []string) error {
	if len(tickers) == 0 {
		return nil
	}

	path := filepath.Join(s.ReportsDir(), FailedTickers)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
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
		return fmt.Errorf("flush %s: %w", path, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"path":  path,
		"count": len(tickers),
	}).Info("Saved failed tickers")
	return nil
}
