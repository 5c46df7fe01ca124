package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/wonny/capengine/internal/contracts"
	"github.com/wonny/capengine/internal/trader"
	"github.com/wonny/capengine/pkg/logger"
)

// PlanHandler serves Trader plans and records approval decisions
// ⭐ SSOT: 승인 API 핸들러는 여기서만
type PlanHandler struct {
	trader *trader.Trader
	plans  contracts.PlanRepository
	logger *logger.Logger
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(trd *trader.Trader, plans contracts.PlanRepository, log *logger.Logger) *PlanHandler {
	return &PlanHandler{
		trader: trd,
		plans:  plans,
		logger: log,
	}
}

// GetLatest returns the most recent execution plan with its rendered
// factory log.
// GET /api/plans/latest
func (h *PlanHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	plan, runID, err := h.plans.GetLatestPlan(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":      runID,
		"plan":        plan,
		"factory_log": trader.RenderFactoryLog(plan),
	})
}

// approveRequest is the POST body carrying the human reply
type approveRequest struct {
	Reply string `json:"reply"`
}

// Approve records a decision against the latest pending plan.
// The reply uses the same grammar as the CLI: YES, NO, SKIP, RESIZE.
// POST /api/plans/latest/approve
func (h *PlanHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	plan, runID, err := h.plans.GetLatestPlan(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if plan.Status != contracts.PlanPendingApproval {
		writeError(w, http.StatusConflict, "latest plan is not pending approval")
		return
	}

	decision, err := trader.ParseDecision(req.Reply, plan)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	applied := h.trader.RecordDecision(r.Context(), runID, plan, decision)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":   runID,
		"decision": decision,
		"plan":     applied,
	})
}

// GetDecisions returns the approval audit trail for a window
// (?days=N, default 30)
// GET /api/decisions
func (h *PlanHandler) GetDecisions(w http.ResponseWriter, r *http.Request) {
	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)

	decisions, err := h.plans.GetDecisions(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if decisions == nil {
		decisions = []contracts.ApprovalDecision{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"from":      from,
		"to":        to,
		"count":     len(decisions),
		"decisions": decisions,
	})
}
