package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Env != "development" {
		t.Errorf("Env = %s, want development", cfg.Env)
	}
	if cfg.Pipeline.StartDate != "2000-01-01" {
		t.Errorf("StartDate = %s, want 2000-01-01", cfg.Pipeline.StartDate)
	}
	if cfg.Pipeline.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.Pipeline.MaxRetries)
	}
	if cfg.Pipeline.RequestDelay != 500*time.Millisecond {
		t.Errorf("RequestDelay = %v, want 500ms", cfg.Pipeline.RequestDelay)
	}
	if cfg.Database.URL != "" {
		t.Errorf("Database.URL = %s, want empty (warehouse disabled)", cfg.Database.URL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("START_DATE", "2015-06-01")
	t.Setenv("END_DATE", "2020-12-31")
	t.Setenv("MAX_RETRIES", "5")
	t.Setenv("REQUEST_DELAY", "2s")
	t.Setenv("DATA_DIR", "/tmp/nifty")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Pipeline.StartDate != "2015-06-01" {
		t.Errorf("StartDate = %s, want 2015-06-01", cfg.Pipeline.StartDate)
	}
	if cfg.Pipeline.EndDate != "2020-12-31" {
		t.Errorf("EndDate = %s, want 2020-12-31", cfg.Pipeline.EndDate)
	}
	if cfg.Pipeline.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.Pipeline.MaxRetries)
	}
	if cfg.Pipeline.RequestDelay != 2*time.Second {
		t.Errorf("RequestDelay = %v, want 2s", cfg.Pipeline.RequestDelay)
	}
	if cfg.DataDir != "/tmp/nifty" {
		t.Errorf("DataDir = %s, want /tmp/nifty", cfg.DataDir)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad env", "ENV", "prod"},
		{"bad start date", "START_DATE", "01-01-2000"},
		{"bad end date", "END_DATE", "yesterday"},
		{"zero retries", "MAX_RETRIES", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() error = nil, want validation failure for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestEndDateOrToday(t *testing.T) {
	cfg := &Config{Pipeline: PipelineConfig{EndDate: "2020-12-31"}}
	if got := cfg.EndDateOrToday(); got != "2020-12-31" {
		t.Errorf("EndDateOrToday() = %s, want 2020-12-31", got)
	}

	cfg.Pipeline.EndDate = ""
	want := time.Now().Format("2006-01-02")
	if got := cfg.EndDateOrToday(); got != want {
		t.Errorf("EndDateOrToday() = %s, want today %s", got, want)
	}
}
