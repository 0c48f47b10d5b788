package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"eduassist/internal/session"
)

func historyRequest(t *testing.T, method, target string, hist *session.History) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if hist != nil {
		req = req.WithContext(session.ContextWithHistory(req.Context(), hist))
	}
	rec := httptest.NewRecorder()
	NewHistoryHandler().ServeHTTP(rec, req)
	return rec
}

func TestHistoryHandler_Get(t *testing.T) {
	hist := session.NewHistory()
	hist.Append("q1", "a1")
	hist.Append("q2", "a2")
	hist.Append("q3", "a3")

	rec := historyRequest(t, http.MethodGet, "/api/history?n=2", hist)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp HistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 3 {
		t.Errorf("Total = %d, want 3", resp.Total)
	}
	if len(resp.Turns) != 2 || resp.Turns[0].Question != "q2" || resp.Turns[1].Question != "q3" {
		t.Fatalf("unexpected window: %v", resp.Turns)
	}
}

func TestHistoryHandler_GetEmpty(t *testing.T) {
	rec := historyRequest(t, http.MethodGet, "/api/history", session.NewHistory())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp HistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Turns == nil || len(resp.Turns) != 0 {
		t.Fatalf("expected empty turns array, got %v", resp.Turns)
	}
}

func TestHistoryHandler_BadWindow(t *testing.T) {
	rec := historyRequest(t, http.MethodGet, "/api/history?n=zero", session.NewHistory())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHistoryHandler_Delete(t *testing.T) {
	hist := session.NewHistory()
	hist.Append("q", "a")

	rec := historyRequest(t, http.MethodDelete, "/api/history", hist)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if hist.Len() != 0 {
		t.Fatal("history not cleared")
	}
}

func TestHistoryHandler_NoSession(t *testing.T) {
	rec := historyRequest(t, http.MethodGet, "/api/history", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
