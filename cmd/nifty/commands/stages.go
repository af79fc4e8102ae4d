package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/quantinfra/nifty500/internal/contracts"
)

// Per-stage commands. Each assumes its input artifact exists on disk,
// which makes individual stages re-runnable without repeating prior work.
var (
	fetchCmd = &cobra.Command{
		Use:   "fetch",
		Short: "Resolve the NIFTY 500 ticker universe",
		Long: `Fetches the constituent list from the index provider, falling back to
Wikipedia and then to a static list, and saves the suffixed tickers.

Example:
  go run ./cmd/nifty fetch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(contracts.StageFetch)
		},
	}

	downloadCmd = &cobra.Command{
		Use:   "download",
		Short: "Download OHLCV history for the saved universe",
		Long: `Downloads full daily OHLCV history for every saved ticker and writes
the raw dataset plus the download summary. Requires a prior fetch.

Example:
  go run ./cmd/nifty download
  go run ./cmd/nifty download --start-date 2015-01-01 --max-retries 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(contracts.StageDownload)
		},
	}

	cleanCmd = &cobra.Command{
		Use:   "clean",
		Short: "Clean and validate the raw dataset",
		Long: `Deduplicates, repairs missing values, validates, and enriches the raw
dataset into the master dataset, wide-format matrices, and quality report.
Requires a prior download.

Example:
  go run ./cmd/nifty clean`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(contracts.StageClean)
		},
	}
)

func init() {
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(cleanCmd)
}

func runStage(stage contracts.Stage) error {
	ctx := context.Background()

	app, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.orchestrator.RunStage(ctx, stage)
}
