package handlers

import (
	"net/http"

	"eduassist/internal/contextutil"
	"eduassist/internal/storage"
)

// StatsHandler serves usage aggregates from the query log for the dashboard.
type StatsHandler struct {
	queryLog storage.QueryStore
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(queryLog storage.QueryStore) *StatsHandler {
	return &StatsHandler{queryLog: queryLog}
}

// ServeHTTP handles stats reads.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		writeError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	stats, err := h.queryLog.Aggregate(ctx)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to aggregate query log", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	writeJSON(ctx, w, http.StatusOK, stats)
}
