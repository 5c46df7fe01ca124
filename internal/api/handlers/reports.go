package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/capengine/internal/contracts"
	"github.com/wonny/capengine/pkg/logger"
)

// ReportHandler serves Architect run reports
// ⭐ SSOT: 리포트 API 핸들러는 여기서만
type ReportHandler struct {
	reports contracts.ReportRepository
	logger  *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports contracts.ReportRepository, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  log,
	}
}

// GetLatest returns the most recent run report
// GET /api/reports/latest
func (h *ReportHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	report, runID, err := h.reports.GetLatestReport(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id": runID,
		"report": report,
	})
}

// GetByRun returns the report for a specific run
// GET /api/reports/{runID}
func (h *ReportHandler) GetByRun(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["runID"]

	report, err := h.reports.GetReport(r.Context(), runID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id": runID,
		"report": report,
	})
}

// GetCandidates returns the latest run's candidates, filterable by
// status (?status=ranked|culled) and top tier (?top_tier=true)
// GET /api/reports/latest/candidates
func (h *ReportHandler) GetCandidates(w http.ResponseWriter, r *http.Request) {
	report, runID, err := h.reports.GetLatestReport(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	status := r.URL.Query().Get("status")
	topOnly := r.URL.Query().Get("top_tier") == "true"

	var candidates []contracts.Candidate
	switch status {
	case "culled":
		candidates = report.Culled
	case "ranked", "":
		candidates = report.Ranked
	default:
		writeError(w, http.StatusBadRequest, "status must be ranked or culled")
		return
	}

	if topOnly {
		candidates = report.TopTier()
	}
	if candidates == nil {
		candidates = []contracts.Candidate{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":     runID,
		"count":      len(candidates),
		"candidates": candidates,
	})
}
