// Package session holds per-session conversation state. A session's history
// is in-memory only and dies with the session; nothing is shared across
// sessions.
package session

import "sync"

// DefaultWindow is the display window used when the caller does not ask for
// a specific count.
const DefaultWindow = 10

// Turn is one question/answer exchange. The history does not record whether
// the answer came from retrieval or from the generative fallback.
type Turn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// History is an append-only log of a session's turns. Storage is unbounded;
// only the display window is bounded. Safe for concurrent use.
type History struct {
	mu    sync.Mutex
	turns []Turn
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Append records a turn.
func (h *History) Append(question, answer string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = append(h.turns, Turn{Question: question, Answer: answer})
}

// Clear empties the history unconditionally.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = nil
}

// Len returns the total number of recorded turns.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.turns)
}

// Recent returns the most recent n turns, oldest first within that window.
// n <= 0 uses DefaultWindow.
func (h *History) Recent(n int) []Turn {
	if n <= 0 {
		n = DefaultWindow
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	start := len(h.turns) - n
	if start < 0 {
		start = 0
	}
	window := make([]Turn, len(h.turns)-start)
	copy(window, h.turns[start:])
	return window
}
