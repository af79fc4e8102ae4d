package contracts

import (
	"testing"
	"time"
)

func TestPriceRecordKey(t *testing.T) {
	r := PriceRecord{
		Date:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Ticker: "TCS",
	}

	key := r.Key()
	if key.Date != "2024-01-15" || key.Ticker != "TCS" {
		t.Errorf("Key() = %+v, want {2024-01-15 TCS}", key)
	}

	same := PriceRecord{Date: r.Date, Ticker: "TCS", Close: 99}
	if same.Key() != key {
		t.Error("Key() differs for records with equal date and ticker")
	}
}

func TestMissing(t *testing.T) {
	if !IsMissing(Missing()) {
		t.Error("IsMissing(Missing()) = false, want true")
	}
	if IsMissing(0) {
		t.Error("IsMissing(0) = true, want false (zero is a value)")
	}
	if IsMissing(-1.5) {
		t.Error("IsMissing(-1.5) = true, want false")
	}
}

func TestDownloadStatsSuccessRate(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		successful int
		want       float64
	}{
		{"all succeeded", 10, 10, 100},
		{"half succeeded", 10, 5, 50},
		{"none attempted", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &DownloadStats{TotalTickers: tt.total, Successful: tt.successful}
			if got := s.SuccessRate(); got != tt.want {
				t.Errorf("SuccessRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewDownloadSummary(t *testing.T) {
	started := time.Date(2024, 1, 15, 18, 30, 0, 0, time.UTC)
	stats := &DownloadStats{
		TotalTickers:  2,
		Successful:    1,
		Failed:        1,
		FailedTickers: []string{"B.NS"},
		StartedAt:     started,
		FinishedAt:    started.Add(12500 * time.Millisecond),
	}

	got := NewDownloadSummary(stats, "2024-01-15T18:30:00Z", "2000-01-01", "2024-01-15")

	if got.SuccessRate != "50.00%" {
		t.Errorf("SuccessRate = %s, want 50.00%%", got.SuccessRate)
	}
	if got.DurationSeconds != 12.5 {
		t.Errorf("DurationSeconds = %v, want 12.5", got.DurationSeconds)
	}
	if len(got.FailedTickers) != 1 || got.FailedTickers[0] != "B.NS" {
		t.Errorf("FailedTickers = %v, want [B.NS]", got.FailedTickers)
	}
}

func TestNewDownloadSummaryEmptyFailedList(t *testing.T) {
	stats := &DownloadStats{TotalTickers: 1, Successful: 1}
	got := NewDownloadSummary(stats, "2024-01-15T18:30:00Z", "2000-01-01", "2024-01-15")

	// Serializes as [] rather than null
	if got.FailedTickers == nil {
		t.Error("FailedTickers = nil, want empty slice")
	}
}

func TestStageValid(t *testing.T) {
	for _, stage := range Stages() {
		if !stage.Valid() {
			t.Errorf("Valid(%s) = false, want true", stage)
		}
	}
	if Stage("bogus").Valid() {
		t.Error("Valid(bogus) = true, want false")
	}
}
