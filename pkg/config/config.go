package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the pipeline.
// All environment variables are read here and nowhere else.
type Config struct {
	Env string // development, staging, production

	// Filesystem layout
	DataDir string

	// Pipeline
	Pipeline PipelineConfig

	// Ticker sources
	Sources SourcesConfig

	// Market data provider
	Provider ProviderConfig

	// Optional warehouse sink
	Database DatabaseConfig

	// Scheduling
	Schedule string

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string
}

// PipelineConfig holds the run parameters shared by the stages.
type PipelineConfig struct {
	StartDate    string // YYYY-MM-DD
	EndDate      string // YYYY-MM-DD, empty means today
	MaxRetries   int
	RequestDelay time.Duration // inter-request delay in the download loop
	SourceDelay  time.Duration // delay between ticker source attempts
}

// SourcesConfig holds ticker acquisition endpoints.
type SourcesConfig struct {
	NSEConstituentsURL string
	WikipediaURL       string
	UserAgent          string
}

// ProviderConfig holds market data provider settings.
type ProviderConfig struct {
	BaseURL string
	Timeout time.Duration
}

// DatabaseConfig holds the optional PostgreSQL warehouse configuration.
// The warehouse is disabled when URL is empty.
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

// Load reads configuration from environment variables.
// This is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env:     getEnv("ENV", "development"),
		DataDir: getEnv("DATA_DIR", "data"),

		Pipeline: PipelineConfig{
			StartDate:    getEnv("START_DATE", "2000-01-01"),
			EndDate:      getEnv("END_DATE", ""),
			MaxRetries:   getEnvAsInt("MAX_RETRIES", 3),
			RequestDelay: getEnvAsDuration("REQUEST_DELAY", "500ms"),
			SourceDelay:  getEnvAsDuration("SOURCE_DELAY", "2s"),
		},

		Sources: SourcesConfig{
			NSEConstituentsURL: getEnv("NSE_CONSTITUENTS_URL",
				"https://www.niftyindices.com/IndexConstituent/ind_nifty500list.csv"),
			WikipediaURL: getEnv("WIKIPEDIA_URL",
				"https://en.wikipedia.org/wiki/NIFTY_500"),
			UserAgent: getEnv("HTTP_USER_AGENT",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
		},

		Provider: ProviderConfig{
			BaseURL: getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			Timeout: getEnvAsDuration("YAHOO_TIMEOUT", "30s"),
		},

		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
		},

		Schedule: getEnv("PIPELINE_SCHEDULE", "0 30 18 * * 1-5"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
		LogFile:   getEnv("LOG_FILE", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks that required configuration values are well formed.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if _, err := time.Parse("2006-01-02", c.Pipeline.StartDate); err != nil {
		return fmt.Errorf("START_DATE must be YYYY-MM-DD: %w", err)
	}

	if c.Pipeline.EndDate != "" {
		if _, err := time.Parse("2006-01-02", c.Pipeline.EndDate); err != nil {
			return fmt.Errorf("END_DATE must be YYYY-MM-DD: %w", err)
		}
	}

	if c.Pipeline.MaxRetries < 1 {
		return fmt.Errorf("MAX_RETRIES must be at least 1")
	}

	return nil
}

// EndDateOrToday returns the configured end date, defaulting to the current date.
func (c *Config) EndDateOrToday() string {
	if c.Pipeline.EndDate != "" {
		return c.Pipeline.EndDate
	}
	return time.Now().Format("2006-01-02")
}

// loadEnvFile tries to load .env from a few likely locations.
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
