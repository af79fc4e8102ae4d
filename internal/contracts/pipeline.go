package contracts

// Pipeline stage definitions.
//
// Pipeline flow:
//   fetch → download → clean
//   Universe  OHLCV history  Validated dataset
//
// All logs, timings, and CLI stage selection use these constants.

// Stage identifies a pipeline stage.
type Stage string

const (
	// StageFetch resolves the NIFTY 500 constituent universe.
	// Location: internal/universe/
	StageFetch Stage = "fetch"

	// StageDownload retrieves per-ticker OHLCV history.
	// Location: internal/download/
	StageDownload Stage = "download"

	// StageClean deduplicates, repairs, validates, and enriches the dataset.
	// Location: internal/clean/
	StageClean Stage = "clean"
)

// String returns the stage name.
func (s Stage) String() string {
	return string(s)
}

// Stages lists all stages in execution order.
func Stages() []Stage {
	return []Stage{StageFetch, StageDownload, StageClean}
}

// Valid reports whether the stage name is known.
func (s Stage) Valid() bool {
	switch s {
	case StageFetch, StageDownload, StageClean:
		return true
	}
	return false
}
