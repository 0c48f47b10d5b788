package session

import (
	"fmt"
	"reflect"
	"testing"
)

func TestHistoryAppendAndRecent(t *testing.T) {
	h := NewHistory()

	for i := 0; i < 15; i++ {
		h.Append(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}
	if h.Len() != 15 {
		t.Fatalf("Len() = %d, want 15", h.Len())
	}

	window := h.Recent(10)
	if len(window) != 10 {
		t.Fatalf("Recent(10) returned %d turns, want 10", len(window))
	}
	// Oldest first within the window: q5..q14.
	if window[0].Question != "q5" || window[9].Question != "q14" {
		t.Fatalf("unexpected window bounds: first %q last %q", window[0].Question, window[9].Question)
	}
	for i := 1; i < len(window); i++ {
		if window[i].Question <= window[i-1].Question && len(window[i].Question) == len(window[i-1].Question) {
			t.Fatalf("window not in chronological order at %d: %v", i, window)
		}
	}
}

func TestHistoryRecentFewerTurnsThanWindow(t *testing.T) {
	h := NewHistory()
	h.Append("q0", "a0")
	h.Append("q1", "a1")

	window := h.Recent(10)
	want := []Turn{{Question: "q0", Answer: "a0"}, {Question: "q1", Answer: "a1"}}
	if !reflect.DeepEqual(window, want) {
		t.Fatalf("Recent(10) = %v, want %v", window, want)
	}
}

func TestHistoryRecentDefaultWindow(t *testing.T) {
	h := NewHistory()
	for i := 0; i < DefaultWindow+3; i++ {
		h.Append(fmt.Sprintf("q%d", i), "a")
	}
	if got := len(h.Recent(0)); got != DefaultWindow {
		t.Fatalf("Recent(0) returned %d turns, want %d", got, DefaultWindow)
	}
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory()
	h.Append("q", "a")
	h.Clear()

	if h.Len() != 0 {
		t.Fatalf("Len() after Clear() = %d, want 0", h.Len())
	}
	if got := h.Recent(10); len(got) != 0 {
		t.Fatalf("Recent() after Clear() = %v, want empty", got)
	}
}

func TestManagerIsolatesSessions(t *testing.T) {
	m := NewManager()
	a := m.Get("session-a")
	b := m.Get("session-b")

	a.Append("qa", "aa")
	if b.Len() != 0 {
		t.Fatal("histories leaked across sessions")
	}
	if m.Get("session-a") != a {
		t.Fatal("Get() did not return the same history for the same ID")
	}

	m.Drop("session-a")
	if m.Get("session-a") == a {
		t.Fatal("Drop() did not remove the session")
	}
}

func TestManagerNewIDUnique(t *testing.T) {
	m := NewManager()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := m.NewID()
		if seen[id] {
			t.Fatalf("duplicate session ID %q", id)
		}
		seen[id] = true
	}
}
