package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"eduassist/internal/vectorstore"
)

// HealthHandler reports whether the service can answer questions: the
// similarity index must be loaded and the query-log database reachable.
type HealthHandler struct {
	index vectorstore.SimilarityIndex
	db    *sql.DB
}

// NewHealthHandler creates a new HealthHandler. db may be nil when the
// query log is disabled.
func NewHealthHandler(index vectorstore.SimilarityIndex, db *sql.DB) *HealthHandler {
	return &HealthHandler{index: index, db: db}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy" or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present when unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles health checks. Returns 200 when healthy, 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		writeError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	checks := make(map[string]string)
	var issues []string

	if h.index != nil && h.index.Len() > 0 {
		checks["index"] = "ok"
	} else {
		checks["index"] = "error"
		issues = append(issues, "index_empty")
	}

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			checks["query_log"] = "error"
			issues = append(issues, "query_log_unavailable")
		} else {
			checks["query_log"] = "ok"
		}
	}

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	}
	status := http.StatusOK
	if len(issues) > 0 {
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	writeJSON(ctx, w, status, resp)
}
