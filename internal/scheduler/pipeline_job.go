package scheduler

import (
	"context"

	"github.com/quantinfra/nifty500/internal/pipeline"
)

// PipelineJob runs the full fetch-download-clean chain on a cron schedule.
type PipelineJob struct {
	orchestrator *pipeline.Orchestrator
	schedule     string
}

// NewPipelineJob creates the scheduled pipeline job.
func NewPipelineJob(orch *pipeline.Orchestrator, schedule string) *PipelineJob {
	return &PipelineJob{orchestrator: orch, schedule: schedule}
}

// Name implements Job.
func (j *PipelineJob) Name() string {
	return "nifty500-pipeline"
}

// Schedule implements Job.
func (j *PipelineJob) Schedule() string {
	return j.schedule
}

// Run implements Job.
func (j *PipelineJob) Run(ctx context.Context) error {
	_, err := j.orchestrator.Run(ctx)
	return err
}
