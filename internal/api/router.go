package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/capengine/internal/api/handlers"
	"github.com/wonny/capengine/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(
	reportHandler *handlers.ReportHandler,
	planHandler *handlers.PlanHandler,
	pipelineHandler *handlers.PipelineHandler,
	hub *Hub,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Architect reports
	api.HandleFunc("/reports/latest", reportHandler.GetLatest).Methods("GET")
	api.HandleFunc("/reports/latest/candidates", reportHandler.GetCandidates).Methods("GET")
	api.HandleFunc("/reports/{runID}", reportHandler.GetByRun).Methods("GET")

	// Trader plans and approval
	api.HandleFunc("/plans/latest", planHandler.GetLatest).Methods("GET")
	api.HandleFunc("/plans/latest/approve", planHandler.Approve).Methods("POST")
	api.HandleFunc("/decisions", planHandler.GetDecisions).Methods("GET")

	// Pipeline control
	api.HandleFunc("/pipeline/run", pipelineHandler.TriggerRun).Methods("POST")

	// Realtime run events
	if hub != nil {
		r.HandleFunc("/ws", hub.ServeWS)
	}

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "capengine-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
