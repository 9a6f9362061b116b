package dictation

import "sync"

// Manager hands out at most one dictation session per consultation session.
type Manager struct {
	deps Deps

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(deps Deps) *Manager {
	return &Manager{
		deps:     deps,
		sessions: make(map[string]*Session),
	}
}

// Acquire returns the session for sessionID, creating it on first use. The
// session's own state machine makes double-starts harmless.
func (m *Manager) Acquire(sessionID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		s = NewSession(sessionID, m.deps)
		m.sessions[sessionID] = s
	}
	return s
}

// Release drops an idle session; an active one stays until it stops.
func (m *Manager) Release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[sessionID]; ok && s.State() == StateIdle {
		delete(m.sessions, sessionID)
	}
}
