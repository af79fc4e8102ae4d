package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline",
	Long: `Runs all three stages in order: fetch, download, clean.

Each stage persists its artifacts before the next starts, so a failed run
can be resumed from the failing stage with the per-stage commands.

Example:
  go run ./cmd/nifty run
  go run ./cmd/nifty run --start-date 2015-01-01 --end-date 2020-12-31`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	summary, runErr := app.orchestrator.Run(ctx)

	fmt.Println()
	fmt.Println("=== Pipeline Run Summary ===")
	fmt.Printf("Status:   %s\n", summary.Status)
	fmt.Printf("Duration: %s\n", summary.Duration.Round(time.Millisecond))
	for _, stage := range summary.Stages {
		mark := "ok"
		if !stage.Success {
			mark = "failed: " + stage.Error
		}
		fmt.Printf("  %-10s %-12s %s\n", stage.Stage, stage.Duration.Round(time.Millisecond), mark)
	}
	if summary.TickersFetched > 0 {
		fmt.Printf("Tickers:  %d\n", summary.TickersFetched)
	}
	if summary.RecordsDownloaded > 0 {
		fmt.Printf("Raw rows: %d\n", summary.RecordsDownloaded)
	}
	if summary.RecordsCleaned > 0 {
		fmt.Printf("Rows:     %d\n", summary.RecordsCleaned)
	}

	return runErr
}
