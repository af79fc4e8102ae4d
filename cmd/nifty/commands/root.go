package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags. Flags override the corresponding environment variables.
	startDate  string
	endDate    string
	maxRetries int
	dataDir    string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nifty",
	Short: "NIFTY 500 historical stock data pipeline",
	Long: `NIFTY 500 data pipeline CLI

Acquires the NIFTY 500 constituent universe, downloads full daily OHLCV
history per ticker, and produces a cleaned, validated master dataset with
quality reports. Stages hand off through filesystem artifacts and can be
re-run independently.

Usage:
  go run ./cmd/nifty [command]

Examples:
  go run ./cmd/nifty run
  go run ./cmd/nifty fetch
  go run ./cmd/nifty download --start-date 2015-01-01
  go run ./cmd/nifty clean
  go run ./cmd/nifty status`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&startDate, "start-date", "", "history start date (YYYY-MM-DD, default from START_DATE)")
	rootCmd.PersistentFlags().StringVar(&endDate, "end-date", "", "history end date (YYYY-MM-DD, default today)")
	rootCmd.PersistentFlags().IntVar(&maxRetries, "max-retries", 0, "per-ticker download attempts (default from MAX_RETRIES)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default from DATA_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
