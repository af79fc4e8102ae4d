package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quantinfra/nifty500/internal/scheduler"
)

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the pipeline on a cron schedule",
	Long: `Starts a scheduler daemon that runs the full pipeline on the configured
cron schedule (PIPELINE_SCHEDULE, default weekdays at 18:30).

The scheduler runs until interrupted with Ctrl+C.

Example:
  go run ./cmd/nifty schedule`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	sched := scheduler.New(app.logger)
	job := scheduler.NewPipelineJob(app.orchestrator, app.cfg.Schedule)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("add job: %w", err)
	}

	sched.Start()

	fmt.Println("Scheduler started")
	fmt.Printf("  %s (%s)\n", job.Name(), job.Schedule())
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()

	return nil
}
