package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/capengine/internal/architect"
	"github.com/wonny/capengine/internal/contracts"
	"github.com/wonny/capengine/internal/discord"
	"github.com/wonny/capengine/internal/librarian"
	"github.com/wonny/capengine/internal/trader"
	"github.com/wonny/capengine/pkg/logger"
)

// Orchestrator coordinates the three-stage pipeline
// Librarian → Architect → Trader
// ⭐ SSOT: 파이프라인 조율은 여기서만
type Orchestrator struct {
	collector *librarian.Collector
	architect *architect.Architect
	trader    *trader.Trader
	notifier  *discord.Notifier

	onEvent func(Event)
	logger  *logger.Logger
}

// Event is one progress notification emitted during a run
type Event struct {
	RunID   string    `json:"run_id"`
	Stage   string    `json:"stage"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// RunConfig holds configuration for a pipeline run
type RunConfig struct {
	RunID    string
	Symbols  []string
	Budget   float64
	Workers  int
	SkipNews bool

	// DryRun stops after the Architect: no plan, no notifications
	DryRun bool
}

// RunResult holds the artifacts of a complete pipeline run
type RunResult struct {
	RunID           string
	Success         bool
	Error           error
	CompletedStages []string
	Financials      *contracts.FinancialSet
	News            *contracts.NewsSet
	Report          *contracts.RunReport
	Plan            *contracts.ExecutionPlan
	Duration        time.Duration
}

// NewOrchestrator creates a new orchestrator. The notifier may be nil.
func NewOrchestrator(
	collector *librarian.Collector,
	arch *architect.Architect,
	trd *trader.Trader,
	notifier *discord.Notifier,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		collector: collector,
		architect: arch,
		trader:    trd,
		notifier:  notifier,
		logger:    log,
	}
}

// WithEventHandler registers a callback for stage-progress events,
// used by the realtime stream. One handler at most.
func (o *Orchestrator) WithEventHandler(fn func(Event)) *Orchestrator {
	o.onEvent = fn
	return o
}

// NewRunID derives the canonical run identifier from a date.
// Re-running the same day overwrites the day's artifacts.
func NewRunID(t time.Time) string {
	return t.Format("20060102")
}

// Run executes the full pipeline. Only the Librarian can fail the run
// (no data, no research); the Architect and Trader absorb bad records
// into culls and warnings instead of erroring.
func (o *Orchestrator) Run(ctx context.Context, config RunConfig) (*RunResult, error) {
	startTime := time.Now()

	result := &RunResult{
		RunID:           config.RunID,
		CompletedStages: make([]string, 0),
	}

	o.logger.WithFields(map[string]interface{}{
		"run_id":  config.RunID,
		"symbols": len(config.Symbols),
		"budget":  config.Budget,
		"dry_run": config.DryRun,
	}).Info("Starting pipeline run")

	// Stage 1: Librarian
	finSet, newsSet, err := o.collector.Collect(ctx, config.RunID, config.Symbols, librarian.Config{
		Workers:  config.Workers,
		SkipNews: config.SkipNews,
	})
	if err != nil {
		result.Error = fmt.Errorf("librarian failed: %w", err)
		o.notifyError(ctx, config.RunID, result.Error)
		return result, result.Error
	}
	result.Financials = finSet
	result.News = newsSet
	o.stageDone(result, config.RunID, string(contracts.StageLibrarian),
		fmt.Sprintf("collected %d records", finSet.Count()))

	// Stage 2: Architect
	report := o.architect.Evaluate(ctx, config.RunID, finSet)
	result.Report = report
	o.stageDone(result, config.RunID, string(contracts.StageArchitect),
		fmt.Sprintf("%d ranked, %d culled", len(report.Ranked), len(report.Culled)))

	if config.DryRun {
		o.logger.Info("Dry run, stopping before the Trader stage")
		result.Success = true
		result.Duration = time.Since(startTime)
		return result, nil
	}

	// Stage 3: Trader
	plan := o.trader.BuildPlan(ctx, config.RunID, report, config.Budget)
	result.Plan = plan
	o.stageDone(result, config.RunID, string(contracts.StageTrader),
		fmt.Sprintf("%d positions proposed", len(plan.Plans)))

	o.notify(ctx, config.RunID, report, plan)

	result.Success = true
	result.Duration = time.Since(startTime)

	o.logger.WithFields(map[string]interface{}{
		"run_id":   config.RunID,
		"duration": result.Duration.Seconds(),
		"stages":   len(result.CompletedStages),
	}).Info("Pipeline run completed")

	return result, nil
}

// stageDone records completion and emits a progress event
func (o *Orchestrator) stageDone(result *RunResult, runID, stage, message string) {
	result.CompletedStages = append(result.CompletedStages, stage)
	o.logger.WithFields(map[string]interface{}{
		"run_id": runID,
		"stage":  stage,
	}).Info(message)

	if o.onEvent != nil {
		o.onEvent(Event{RunID: runID, Stage: stage, Message: message, At: time.Now().UTC()})
	}
}

// notify posts run artifacts; delivery failures are logged, never fatal
func (o *Orchestrator) notify(ctx context.Context, runID string, report *contracts.RunReport, plan *contracts.ExecutionPlan) {
	if o.notifier == nil {
		return
	}
	if err := o.notifier.SendReport(ctx, runID, report); err != nil {
		o.logger.WithError(err).Warn("Report notification failed")
	}
	if err := o.notifier.SendPlan(ctx, runID, plan); err != nil {
		o.logger.WithError(err).Warn("Plan notification failed")
	}
}

func (o *Orchestrator) notifyError(ctx context.Context, runID string, runErr error) {
	if o.notifier == nil {
		return
	}
	if err := o.notifier.SendError(ctx, runID, runErr); err != nil {
		o.logger.WithError(err).Warn("Error notification failed")
	}
}
