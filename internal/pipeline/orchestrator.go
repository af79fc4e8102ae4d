package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/quantinfra/nifty500/internal/clean"
	"github.com/quantinfra/nifty500/internal/contracts"
	"github.com/quantinfra/nifty500/internal/download"
	"github.com/quantinfra/nifty500/internal/store"
	"github.com/quantinfra/nifty500/internal/universe"
	"github.com/quantinfra/nifty500/internal/warehouse"
	"github.com/quantinfra/nifty500/pkg/config"
	"github.com/quantinfra/nifty500/pkg/logger"
)

// State is the orchestrator execution state.
type State string

const (
	StateIdle            State = "idle"
	StateFetchingTickers State = "fetching_tickers"
	StateDownloading     State = "downloading"
	StateCleaning        State = "cleaning"
	StateSucceeded       State = "succeeded"
	StateFailed          State = "failed"
)

// StageTiming records the outcome and duration of one stage execution.
// Timings are preserved up to the point of failure for diagnostics.
type StageTiming struct {
	Stage      contracts.Stage
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
	Success    bool
	Error      string
}

// Summary aggregates the outcome of a pipeline run.
type Summary struct {
	Status            State
	TickersFetched    int
	RecordsDownloaded int
	RecordsCleaned    int
	Duration          time.Duration
	Stages            []StageTiming
}

// Orchestrator sequences the three pipeline stages. Persisted artifacts are
// the sole handoff between stages, so each stage is independently
// re-runnable; re-running is a manual, idempotent operation.
type Orchestrator struct {
	cfg        *config.Config
	resolver   *universe.Resolver
	downloader *download.Downloader
	cleaner    *clean.Cleaner
	store      *store.Store
	warehouse  *warehouse.Repository // nil when the warehouse sink is disabled
	logger     *logger.Logger

	state   State
	timings []StageTiming

	tickersFetched    int
	recordsDownloaded int
	recordsCleaned    int
}

// New creates an Orchestrator. warehouseRepo may be nil.
func New(
	cfg *config.Config,
	resolver *universe.Resolver,
	downloader *download.Downloader,
	cleaner *clean.Cleaner,
	st *store.Store,
	warehouseRepo *warehouse.Repository,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		resolver:   resolver,
		downloader: downloader,
		cleaner:    cleaner,
		store:      st,
		warehouse:  warehouseRepo,
		logger:     log,
		state:      StateIdle,
	}
}

// State returns the current execution state.
func (o *Orchestrator) State() State {
	return o.state
}

// Run executes the full chain: fetch → download → clean. Any stage error
// transitions to Failed, preserving partial results and stage timings.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	started := time.Now()
	o.timings = nil

	o.logger.WithFields(map[string]interface{}{
		"start_date": o.cfg.Pipeline.StartDate,
		"end_date":   o.cfg.EndDateOrToday(),
	}).Info("Starting full pipeline run")

	stages := []struct {
		state State
		stage contracts.Stage
	}{
		{StateFetchingTickers, contracts.StageFetch},
		{StateDownloading, contracts.StageDownload},
		{StateCleaning, contracts.StageClean},
	}

	for _, s := range stages {
		o.state = s.state
		if err := o.executeStage(ctx, s.stage); err != nil {
			o.state = StateFailed
			summary := o.summary(started)
			o.logger.WithError(err).WithField("stage", s.stage.String()).Error("Pipeline run failed")
			return summary, err
		}
	}

	o.state = StateSucceeded
	summary := o.summary(started)

	o.logger.WithFields(map[string]interface{}{
		"tickers":  summary.TickersFetched,
		"raw_rows": summary.RecordsDownloaded,
		"rows":     summary.RecordsCleaned,
		"duration": summary.Duration,
	}).Info("Pipeline run succeeded")

	return summary, nil
}

// RunStage executes a single named stage, assuming any prerequisite
// artifact already exists on disk.
func (o *Orchestrator) RunStage(ctx context.Context, stage contracts.Stage) error {
	if !stage.Valid() {
		return fmt.Errorf("unknown stage: %s", stage)
	}
	return o.executeStage(ctx, stage)
}

// executeStage runs one stage with timing bookkeeping.
func (o *Orchestrator) executeStage(ctx context.Context, stage contracts.Stage) error {
	timing := StageTiming{Stage: stage, StartedAt: time.Now()}

	o.logger.WithField("stage", stage.String()).Info("Stage started")

	var err error
	switch stage {
	case contracts.StageFetch:
		err = o.runFetch(ctx)
	case contracts.StageDownload:
		err = o.runDownload(ctx)
	case contracts.StageClean:
		err = o.runClean(ctx)
	default:
		err = fmt.Errorf("unknown stage: %s", stage)
	}

	timing.FinishedAt = time.Now()
	timing.Duration = timing.FinishedAt.Sub(timing.StartedAt)
	timing.Success = err == nil
	if err != nil {
		timing.Error = err.Error()
	}
	o.timings = append(o.timings, timing)

	if err != nil {
		o.logger.WithError(err).WithFields(map[string]interface{}{
			"stage":    stage.String(),
			"duration": timing.Duration,
		}).Error("Stage failed")
		return fmt.Errorf("%s stage: %w", stage, err)
	}

	o.logger.WithFields(map[string]interface{}{
		"stage":    stage.String(),
		"duration": timing.Duration,
	}).Info("Stage completed")
	return nil
}

// runFetch resolves the ticker universe and persists it.
func (o *Orchestrator) runFetch(ctx context.Context) error {
	if err := o.store.EnsureDirs(); err != nil {
		return err
	}

	tickers, err := o.resolver.Resolve(ctx)
	if err != nil {
		return err
	}
	o.tickersFetched = len(tickers)

	return o.store.SaveTickers(tickers)
}

// runDownload loads the persisted universe, downloads all history, and
// persists the raw dataset plus the download reports. A run with zero
// successes is a stage failure.
func (o *Orchestrator) runDownload(ctx context.Context) error {
	if err := o.store.EnsureDirs(); err != nil {
		return err
	}

	tickers, err := o.store.LoadTickers()
	if err != nil {
		return err
	}

	start, err := time.Parse("2006-01-02", o.cfg.Pipeline.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	endStr := o.cfg.EndDateOrToday()
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}

	records, stats, err := o.downloader.DownloadAll(ctx, tickers, start, end)
	if err != nil {
		return err
	}
	o.recordsDownloaded = len(records)

	if err := o.store.SaveRaw(records); err != nil {
		return err
	}

	summary := contracts.NewDownloadSummary(
		stats, time.Now().Format(time.RFC3339), o.cfg.Pipeline.StartDate, endStr)
	if err := o.store.SaveDownloadSummary(summary); err != nil {
		return err
	}
	if err := o.store.SaveFailedTickers(stats.FailedTickers); err != nil {
		return err
	}

	if stats.Successful == 0 {
		return fmt.Errorf("download produced no data for any of %d tickers", stats.TotalTickers)
	}
	return nil
}

// runClean loads the raw dataset, cleans it, and persists the processed
// outputs, matrices, and quality report. When the warehouse sink is
// configured, the cleaned dataset is also loaded into PostgreSQL.
func (o *Orchestrator) runClean(ctx context.Context) error {
	if err := o.store.EnsureDirs(); err != nil {
		return err
	}

	records, err := o.store.LoadRaw()
	if err != nil {
		return err
	}

	cleaned := o.cleaner.Clean(records)
	o.recordsCleaned = len(cleaned)

	if err := o.store.SaveMaster(cleaned); err != nil {
		return err
	}
	if err := o.store.SaveMatrix(store.ClosePricesCSV, clean.CloseMatrix(cleaned)); err != nil {
		return err
	}
	if err := o.store.SaveMatrix(store.VolumesCSV, clean.VolumeMatrix(cleaned)); err != nil {
		return err
	}
	if err := o.store.SaveQualityReport(o.cleaner.Report(time.Now())); err != nil {
		return err
	}

	if o.warehouse != nil {
		if err := o.warehouse.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := o.warehouse.SaveBatch(ctx, cleaned); err != nil {
			return err
		}
	}
	return nil
}

// summary builds the run summary including per-stage timings.
func (o *Orchestrator) summary(started time.Time) *Summary {
	timings := make([]StageTiming, len(o.timings))
	copy(timings, o.timings)

	return &Summary{
		Status:            o.state,
		TickersFetched:    o.tickersFetched,
		RecordsDownloaded: o.recordsDownloaded,
		RecordsCleaned:    o.recordsCleaned,
		Duration:          time.Since(started),
		Stages:            timings,
	}
}
