package session

import (
	"sync"

	"github.com/google/uuid"
)

// Manager hands out isolated histories keyed by session ID. The serving
// layer owns session identity (cookie); the manager only keeps each
// session's state apart.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*History
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*History)}
}

// NewID returns a fresh session identifier.
func (m *Manager) NewID() string {
	return uuid.New().String()
}

// Get returns the history for the session, creating it on first use.
func (m *Manager) Get(id string) *History {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.sessions[id]
	if !ok {
		h = NewHistory()
		m.sessions[id] = h
	}
	return h
}

// Drop removes a session's state entirely.
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
