package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/wonny/capengine/internal/orchestrator"
	"github.com/wonny/capengine/pkg/logger"
)

// PipelineHandler triggers pipeline runs over HTTP
// ⭐ SSOT: 파이프라인 API 핸들러는 여기서만
type PipelineHandler struct {
	orch       *orchestrator.Orchestrator
	symbols    []string
	budget     float64
	workers    int
	logger     *logger.Logger
	runTimeout time.Duration
}

// NewPipelineHandler creates a new pipeline handler with the default
// watchlist and budget from configuration.
func NewPipelineHandler(orch *orchestrator.Orchestrator, symbols []string, budget float64, workers int, log *logger.Logger) *PipelineHandler {
	return &PipelineHandler{
		orch:       orch,
		symbols:    symbols,
		budget:     budget,
		workers:    workers,
		logger:     log,
		runTimeout: 10 * time.Minute,
	}
}

// triggerRequest optionally overrides the configured defaults
type triggerRequest struct {
	Symbols []string `json:"symbols,omitempty"`
	Budget  float64  `json:"budget,omitempty"`
	DryRun  bool     `json:"dry_run,omitempty"`
}

// TriggerRun starts a pipeline run in the background and returns its
// run ID immediately; progress flows over the websocket stream.
// POST /api/pipeline/run
func (h *PipelineHandler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	var req triggerRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	symbols := h.symbols
	if len(req.Symbols) > 0 {
		symbols = req.Symbols
	}
	budget := h.budget
	if req.Budget > 0 {
		budget = req.Budget
	}

	runID := orchestrator.NewRunID(time.Now())
	config := orchestrator.RunConfig{
		RunID:   runID,
		Symbols: symbols,
		Budget:  budget,
		Workers: h.workers,
		DryRun:  req.DryRun,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.runTimeout)
		defer cancel()

		if _, err := h.orch.Run(ctx, config); err != nil {
			h.logger.WithError(err).WithField("run_id", runID).Error("Triggered run failed")
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"run_id":  runID,
		"symbols": len(symbols),
		"dry_run": req.DryRun,
	})
}
