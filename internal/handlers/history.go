package handlers

import (
	"net/http"
	"strconv"

	"eduassist/internal/contextutil"
	"eduassist/internal/session"
)

// HistoryHandler serves and clears the caller's session history.
type HistoryHandler struct{}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler() *HistoryHandler {
	return &HistoryHandler{}
}

// HistoryResponse represents the HTTP response payload for history reads.
type HistoryResponse struct {
	Turns []session.Turn `json:"turns"`
	Total int            `json:"total"`
}

// ServeHTTP handles GET (recent window, oldest first) and DELETE (clear).
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	hist := session.FromContext(ctx)
	if hist == nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "no session history in context")
		writeError(ctx, w, http.StatusInternalServerError, "No session")
		return
	}

	switch r.Method {
	case http.MethodGet:
		n := session.DefaultWindow
		if raw := r.URL.Query().Get("n"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				writeError(ctx, w, http.StatusBadRequest, "n must be a positive integer")
				return
			}
			n = parsed
		}
		turns := hist.Recent(n)
		if turns == nil {
			turns = []session.Turn{}
		}
		writeJSON(ctx, w, http.StatusOK, HistoryResponse{Turns: turns, Total: hist.Len()})

	case http.MethodDelete:
		hist.Clear()
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
