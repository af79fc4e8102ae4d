package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quantinfra/nifty500/internal/store"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the latest pipeline artifacts and reports",
	Long: `Prints the persisted universe size, the latest download summary, and
the latest data quality report.

Example:
  go run ./cmd/nifty status`,
	RunE: showStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func showStatus(cmd *cobra.Command, args []string) error {
	app, err := initApp(context.Background())
	if err != nil {
		return err
	}
	defer app.Close()

	fmt.Println("=== Pipeline Status ===")
	fmt.Println()

	tickers, err := app.store.LoadTickers()
	switch {
	case errors.Is(err, store.ErrMissingArtifact):
		fmt.Println("Universe:  not fetched yet")
	case err != nil:
		return err
	default:
		fmt.Printf("Universe:  %d tickers\n", len(tickers))
	}

	summary, err := app.store.LoadDownloadSummary()
	switch {
	case errors.Is(err, store.ErrMissingArtifact):
		fmt.Println("Download:  no summary yet")
	case err != nil:
		return err
	default:
		fmt.Printf("Download:  %s, %d/%d ok (%s), %.1fs\n",
			summary.DownloadDate, summary.SuccessfulDownloads, summary.TotalTickers,
			summary.SuccessRate, summary.DurationSeconds)
		if len(summary.FailedTickers) > 0 {
			fmt.Printf("  Failed:  %s\n", strings.Join(summary.FailedTickers, ", "))
		}
	}

	report, err := app.store.LoadQualityReport()
	switch {
	case errors.Is(err, store.ErrMissingArtifact):
		fmt.Println("Quality:   no report yet")
	case err != nil:
		return err
	default:
		m := report.Metrics
		fmt.Printf("Quality:   score %.2f, %d rows, %d tickers, %s to %s\n",
			m.DataQualityScore, m.FinalRows, m.TickersProcessed,
			m.DateRange.Earliest, m.DateRange.Latest)
		fmt.Printf("  Cleaned: %d duplicates removed, %d values filled\n",
			m.DuplicatesRemoved, m.MissingValuesFilled)
		for _, issue := range m.Issues {
			fmt.Printf("  Issue:   %s\n", issue)
		}
	}

	return nil
}
