package contracts

import "fmt"

// DownloadSummary is the persisted report of one bulk download run.
type DownloadSummary struct {
	DownloadDate        string   `json:"download_date"`
	StartDate           string   `json:"start_date"`
	EndDate             string   `json:"end_date"`
	TotalTickers        int      `json:"total_tickers"`
	SuccessfulDownloads int      `json:"successful_downloads"`
	FailedDownloads     int      `json:"failed_downloads"`
	SuccessRate         string   `json:"success_rate"`
	DurationSeconds     float64  `json:"duration_seconds"`
	FailedTickers       []string `json:"failed_tickers"`
}

// NewDownloadSummary builds the persisted summary from run stats.
func NewDownloadSummary(stats *DownloadStats, downloadDate, startDate, endDate string) DownloadSummary {
	failed := stats.FailedTickers
	if failed == nil {
		failed = []string{}
	}
	return DownloadSummary{
		DownloadDate:        downloadDate,
		StartDate:           startDate,
		EndDate:             endDate,
		TotalTickers:        stats.TotalTickers,
		SuccessfulDownloads: stats.Successful,
		FailedDownloads:     stats.Failed,
		SuccessRate:         fmt.Sprintf("%.2f%%", stats.SuccessRate()),
		DurationSeconds:     stats.Duration().Seconds(),
		FailedTickers:       failed,
	}
}

// DateRangeSummary describes the calendar span of the cleaned dataset.
type DateRangeSummary struct {
	Earliest    string `json:"earliest"`
	Latest      string `json:"latest"`
	TotalDays   int    `json:"total_days"`
	TradingDays int    `json:"trading_days"`
}

// QualityMetrics summarizes one cleaning run, computed after cleaning
// completes from before/after counts.
type QualityMetrics struct {
	InitialRows         int              `json:"initial_rows"`
	FinalRows           int              `json:"final_rows"`
	DuplicatesRemoved   int              `json:"duplicates_removed"`
	MissingValuesFilled int              `json:"missing_values_filled"`
	TickersProcessed    int              `json:"tickers_processed"`
	DateRange           DateRangeSummary `json:"date_range"`
	AverageYearsOfData  float64          `json:"average_years_of_data"`
	DataQualityScore    float64          `json:"data_quality_score"`
	Issues              []string         `json:"issues,omitempty"`
}

// QualityReport is the persisted data quality report.
type QualityReport struct {
	ReportDate string         `json:"report_date"`
	Metrics    QualityMetrics `json:"metrics"`
}
