package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/capengine/internal/orchestrator"
	"github.com/wonny/capengine/pkg/logger"
)

// DailyPipelineJob runs the full research pipeline once per trading
// day, shortly after the US market opens for the configured timezone.
type DailyPipelineJob struct {
	orch     *orchestrator.Orchestrator
	symbols  []string
	budget   float64
	workers  int
	schedule string
	logger   *logger.Logger
}

// NewDailyPipelineJob creates the daily job. schedule is a six-field
// cron expression, e.g. "0 5 12 * * *".
func NewDailyPipelineJob(
	orch *orchestrator.Orchestrator,
	symbols []string,
	budget float64,
	workers int,
	schedule string,
	log *logger.Logger,
) *DailyPipelineJob {
	return &DailyPipelineJob{
		orch:     orch,
		symbols:  symbols,
		budget:   budget,
		workers:  workers,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *DailyPipelineJob) Name() string {
	return "daily_pipeline"
}

// Schedule returns the cron schedule expression
func (j *DailyPipelineJob) Schedule() string {
	return j.schedule
}

// Run executes one full pipeline pass for today
func (j *DailyPipelineJob) Run(ctx context.Context) error {
	runID := orchestrator.NewRunID(time.Now())

	result, err := j.orch.Run(ctx, orchestrator.RunConfig{
		RunID:   runID,
		Symbols: j.symbols,
		Budget:  j.budget,
		Workers: j.workers,
	})
	if err != nil {
		return fmt.Errorf("daily pipeline run %s: %w", runID, err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":   runID,
		"ranked":   len(result.Report.Ranked),
		"duration": result.Duration,
	}).Info("Daily pipeline finished")
	return nil
}
