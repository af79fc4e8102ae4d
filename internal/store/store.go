package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quantinfra/nifty500/pkg/logger"
)

// Artifact filenames. Persisted artifacts are the sole handoff mechanism
// between pipeline stages.
const (
	TickersCSV      = "nifty500_tickers.csv"
	TickersJSON     = "nifty500_tickers.json"
	RawDataCSV      = "nifty500_raw_data.csv"
	MasterCSV       = "nifty500_master.csv"
	ClosePricesCSV  = "nifty500_close_prices.csv"
	VolumesCSV      = "nifty500_volumes.csv"
	DownloadSummary = "download_summary.json"
	QualityReport   = "data_quality_report.json"
	FailedTickers   = "failed_tickers.csv"
)

// ErrMissingArtifact signals that a stage's required input artifact is
// absent. The wrapped message names the prior stage to run first.
var ErrMissingArtifact = errors.New("required artifact not found")

// Store reads and writes pipeline artifacts under a data directory.
// Writes are whole-file overwrites with no partial-write protection.
type Store struct {
	dataDir string
	logger  *logger.Logger
}

// New creates a Store rooted at dataDir.
func New(dataDir string, log *logger.Logger) *Store {
	return &Store{dataDir: dataDir, logger: log}
}

// RawDir returns the raw data directory.
func (s *Store) RawDir() string {
	return filepath.Join(s.dataDir, "raw")
}

// ProcessedDir returns the processed data directory.
func (s *Store) ProcessedDir() string {
	return filepath.Join(s.dataDir, "processed")
}

// ReportsDir returns the reports directory.
func (s *Store) ReportsDir() string {
	return filepath.Join(s.dataDir, "reports")
}

// EnsureDirs creates the data directory layout.
func (s *Store) EnsureDirs() error {
	for _, dir := range []string{s.RawDir(), s.ProcessedDir(), s.ReportsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// writeJSON marshals v with indentation and overwrites path.
func (s *Store) writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	s.logger.WithField("path", path).Info("Saved artifact")
	return nil
}

// readJSON unmarshals path into v, mapping a missing file to ErrMissingArtifact.
func (s *Store) readJSON(path string, v interface{}, priorStage string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s (run the %s stage first)", ErrMissingArtifact, path, priorStage)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return nil
}
