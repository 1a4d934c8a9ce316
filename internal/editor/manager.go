package editor

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sahilahmad48178-star/AI-image/internal/infra"
)

// Manager is the in-memory session registry. Sessions are scoped to one
// editing interaction and are never persisted; closed or abandoned sessions
// are swept after the idle TTL.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	bridge   *Bridge
	logger   infra.Logger
	ttl      time.Duration
}

// NewManager constructs a registry that hands out sessions wired to the
// given bridge. ttl bounds how long an untouched session is kept.
func NewManager(bridge *Bridge, logger infra.Logger, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Manager{
		sessions: make(map[string]*Session),
		bridge:   bridge,
		logger:   logger,
		ttl:      ttl,
	}
}

// Open creates and activates a session around the supplied image buffer.
func (m *Manager) Open(data []byte) (*Session, error) {
	s := NewSession(uuid.NewString(), m.bridge, m.logger)
	if err := s.Open(data); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	return s, nil
}

// Get resolves a session id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

// Remove drops a session from the registry, typically right after save or
// cancel.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep evicts terminated and idle-expired sessions and returns how many
// were dropped. Callers run it on a ticker.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	dropped := 0
	for id, s := range m.sessions {
		state := s.State()
		if state == StateSaved || state == StateCancelled || now.Sub(s.LastTouched()) > m.ttl {
			delete(m.sessions, id)
			dropped++
		}
	}
	if dropped > 0 {
		m.logger.Debug().Int("dropped", dropped).Msg("editor: swept sessions")
	}
	return dropped
}
