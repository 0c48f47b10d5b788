package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"eduassist/internal/contextutil"
	"eduassist/internal/corpus"
	"eduassist/internal/engine"
	"eduassist/internal/session"
	"eduassist/internal/storage"
)

// AskHandler handles question-answering requests.
type AskHandler struct {
	engine   engine.Engine
	queryLog storage.QueryStore
}

// NewAskHandler creates a new AskHandler. queryLog may be nil to disable
// usage recording.
func NewAskHandler(eng engine.Engine, queryLog storage.QueryStore) *AskHandler {
	return &AskHandler{engine: eng, queryLog: queryLog}
}

// AskRequest represents the HTTP request payload for questions. Lang,
// Subject and Level are optional filters; empty means no constraint.
type AskRequest struct {
	Question string `json:"question"`
	Lang     string `json:"lang,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Level    string `json:"level,omitempty"`
	Audio    bool   `json:"audio,omitempty"`
}

// CandidateResponse represents a retrieved candidate in the HTTP response.
type CandidateResponse struct {
	Lang     string  `json:"lang"`
	Subject  string  `json:"subject"`
	Level    string  `json:"level"`
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Rank     int     `json:"rank"`
	Score    float64 `json:"score"`
}

// FallbackResponse represents a generated answer in the HTTP response.
type FallbackResponse struct {
	Text  string `json:"text"`
	Audio []byte `json:"audio,omitempty"`
}

// AskResponse represents the HTTP response payload. Primary and Fallback may
// both be present when the best retrieval score was below the fallback
// threshold.
type AskResponse struct {
	DetectedLang   string              `json:"detected_lang"`
	LangDetected   bool                `json:"lang_detected"`
	BestScore      float64             `json:"best_score"`
	Primary        *CandidateResponse  `json:"primary,omitempty"`
	Suggestions    []CandidateResponse `json:"suggestions,omitempty"`
	Fallback       *FallbackResponse   `json:"fallback,omitempty"`
	FallbackFailed bool                `json:"fallback_failed,omitempty"`
	QuestionAudio  []byte              `json:"question_audio,omitempty"`
	AnswerAudio    []byte              `json:"answer_audio,omitempty"`
}

// ServeHTTP handles question-answering requests.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		writeError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	engResp, err := h.engine.Ask(ctx, engine.AskRequest{
		Question: req.Question,
		Filter: corpus.Filter{
			Lang:    req.Lang,
			Subject: req.Subject,
			Level:   req.Level,
		},
		WantAudio: req.Audio,
		History:   session.FromContext(ctx),
	})
	if err != nil {
		h.handleEngineError(ctx, w, err)
		return
	}

	h.recordQuery(ctx, req.Question, &engResp)

	writeJSON(ctx, w, http.StatusOK, toAskResponse(&engResp))
}

func (h *AskHandler) handleEngineError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := contextutil.LoggerFromContext(ctx)

	switch {
	case errors.Is(err, engine.ErrEmptyQuestion):
		writeError(ctx, w, http.StatusBadRequest, "Question must not be empty")
	case errors.Is(err, engine.ErrRetrievalUnavailable):
		logger.ErrorContext(ctx, "retrieval unavailable", "error", err)
		writeError(ctx, w, http.StatusBadGateway, "Retrieval is temporarily unavailable")
	case errors.Is(err, engine.ErrGenerationFailed):
		logger.ErrorContext(ctx, "generation failed", "error", err)
		writeError(ctx, w, http.StatusBadGateway, "Answer generation failed")
	default:
		logger.ErrorContext(ctx, "ask failed", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Internal server error")
	}
}

// recordQuery appends the turn to the usage log. Logging is best-effort; a
// storage failure never fails the answer.
func (h *AskHandler) recordQuery(ctx context.Context, question string, resp *engine.AskResponse) {
	if h.queryLog == nil {
		return
	}
	rec := &storage.QueryRecord{
		Question:     question,
		DetectedLang: resp.DetectedLang,
		BestScore:    resp.BestScore,
		Answered:     resp.Primary != nil,
		FallbackUsed: resp.FallbackUsed(),
	}
	if err := h.queryLog.Insert(ctx, rec); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to record query", "error", err)
	}
}

func toAskResponse(engResp *engine.AskResponse) AskResponse {
	resp := AskResponse{
		DetectedLang:   engResp.DetectedLang,
		LangDetected:   engResp.LangDetected,
		BestScore:      engResp.BestScore,
		FallbackFailed: engResp.FallbackFailed,
		QuestionAudio:  engResp.QuestionAudio,
		AnswerAudio:    engResp.AnswerAudio,
	}
	if engResp.Primary != nil {
		primary := toCandidateResponse(*engResp.Primary)
		resp.Primary = &primary
	}
	for _, c := range engResp.Suggestions {
		resp.Suggestions = append(resp.Suggestions, toCandidateResponse(c))
	}
	if engResp.Fallback != nil {
		resp.Fallback = &FallbackResponse{
			Text:  engResp.Fallback.Text,
			Audio: engResp.Fallback.Audio,
		}
	}
	return resp
}

func toCandidateResponse(c engine.Candidate) CandidateResponse {
	return CandidateResponse{
		Lang:     c.Entry.Lang,
		Subject:  c.Entry.Subject,
		Level:    c.Entry.Level,
		Question: c.Entry.Question,
		Answer:   c.Entry.Answer,
		Rank:     c.Rank,
		Score:    c.Score,
	}
}
