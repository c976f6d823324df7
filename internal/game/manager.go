package game

import (
	"fmt"
	"log"
	"sync"

	"castle-defenders/server/catalog"
	"castle-defenders/server/logging"
)

// Manager owns every live session. The registry lock only guards the map;
// each session carries its own lock for entity state.
type Manager struct {
	mu       sync.RWMutex
	cfg      Config
	catalog  *catalog.Catalog
	pub      logging.Publisher
	sessions map[string]*Session
	nextID   uint64
}

// NewManager builds an empty session registry.
func NewManager(cfg Config, cat *catalog.Catalog, pub logging.Publisher) *Manager {
	return &Manager{
		cfg:      cfg.normalized(),
		catalog:  cat,
		pub:      pub,
		sessions: make(map[string]*Session),
	}
}

// FindOrCreate returns a waiting session with roster space, creating a fresh
// one when none exists.
func (m *Manager) FindOrCreate() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		if s.HasCapacity() {
			return s
		}
	}

	m.nextID++
	id := fmt.Sprintf("game-%d", m.nextID)
	s := NewSession(id, m.cfg, m.catalog, m.pub)
	m.sessions[id] = s
	return s
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove drops a session from the registry.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Sessions returns the current registry contents.
func (m *Manager) Sessions() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// UpdateAll ticks every playing session with the shared delta and collects
// empty ended sessions. It returns the sessions that transitioned to ended
// during this pass so the caller can broadcast results.
func (m *Manager) UpdateAll(now int64, dt float64) []*Session {
	sessions := m.Sessions()

	var ended []*Session
	for _, s := range sessions {
		if s.State() != StatePlaying {
			continue
		}
		s.safeUpdate(now, dt)
		if s.State() == StateEnded {
			ended = append(ended, s)
		}
	}

	m.mu.Lock()
	for id, s := range m.sessions {
		if s.State() == StateEnded && s.Empty() {
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	return ended
}

// safeUpdate confines a panicking tick to its own session; the other
// sessions in the pass keep running.
func (s *Session) safeUpdate(now int64, dt float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("session %s: tick panic: %v", s.id, r)
		}
	}()
	s.Update(now, dt)
}
