package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/entitysearch/internal/domain/entity/kind"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/condition"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/field"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/page"
	"github.com/kailas-cloud/entitysearch/internal/metrics"
	"github.com/kailas-cloud/entitysearch/internal/normalize"
)

// Session is one search page: a condition set, the last results shown and
// the entities seen while paging. All access goes through its methods.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu           sync.Mutex
	lastActiveAt time.Time
	state        condition.State
	results      *page.Page
	queryFailed  bool
	// started is the sequence number of the latest search begun, applied the
	// one whose response is shown.
	started  uint64
	applied  uint64
	entities map[string]normalize.Entity
}

// New creates a session searching k.
func New(k kind.Kind) *Session {
	now := time.Now()
	return &Session{
		ID:           uuid.New().String(),
		CreatedAt:    now,
		lastActiveAt: now,
		state:        condition.New(k),
		entities:     make(map[string]normalize.Entity),
	}
}

// View is a consistent snapshot of a session.
type View struct {
	ID              string          `json:"id"`
	State           condition.State `json:"state"`
	Query           string          `json:"query"`
	NegationEnabled bool            `json:"negation_enabled"`
	Valid           bool            `json:"valid"`
	Results         *page.Page      `json:"results,omitempty"`
	QueryFailed     bool            `json:"query_failed"`
	CreatedAt       time.Time       `json:"created_at"`
}

// View returns a snapshot of the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	return View{
		ID:              s.ID,
		State:           s.state,
		Query:           s.state.Serialize(),
		NegationEnabled: s.state.NegationEnabled(),
		Valid:           s.state.Valid(),
		Results:         s.results,
		QueryFailed:     s.queryFailed,
		CreatedAt:       s.CreatedAt,
	}
}

// State returns the current condition set.
func (s *Session) State() condition.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Touch updates the last activity timestamp.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActiveAt = time.Now()
	s.mu.Unlock()
}

// IsExpired returns true if the session has exceeded the given max age.
func (s *Session) IsExpired(maxAge time.Duration) bool {
	return maxAge > 0 && time.Since(s.CreatedAt) > maxAge
}

// IsIdle returns true if the session has been idle longer than the timeout.
func (s *Session) IsIdle(timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return timeout > 0 && time.Since(s.lastActiveAt) > timeout
}

// apply reduces e into the condition state and commits the result while
// holding the session lock, so concurrent events never reduce from the same
// snapshot. A new entity kind drops the shown results.
func (s *Session) apply(catalog *field.Catalog, e condition.Event) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := condition.Reduce(catalog, s.state, e)
	if err != nil {
		return View{}, err
	}
	if next.Kind != s.state.Kind {
		s.results = nil
		s.queryFailed = false
	}
	s.state = next
	s.lastActiveAt = time.Now()
	return s.viewLocked(), nil
}

// begin registers a new search and returns its sequence number.
func (s *Session) begin() (uint64, condition.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started++
	s.lastActiveAt = time.Now()
	return s.started, s.state
}

// finish shows p unless a later search was already shown. It returns the
// page now shown and whether p was applied.
func (s *Session) finish(seq uint64, k kind.Kind, p page.Page) (page.Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.applied || k != s.state.Kind {
		if s.results == nil {
			return p, false
		}
		return *s.results, false
	}
	s.applied = seq
	s.results = &p
	s.queryFailed = p.Failed
	for _, r := range p.Results {
		if e := r.Entity.Entity; e != nil && e.GID != "" {
			s.entities[e.GID] = *e
		}
	}
	return p, true
}

// Results returns the page shown, if any.
func (s *Session) Results() (page.Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.results == nil {
		return page.Page{}, false
	}
	return *s.results, true
}

// Entity returns an entity seen in any result page of this session.
func (s *Session) Entity(gid string) (normalize.Entity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entities[gid]
	return e, ok
}

// Manager handles session creation, lookup, and cleanup.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxAge      time.Duration
	idleTimeout time.Duration
}

// NewManager creates a session manager with the given timeouts.
// A zero timeout disables that expiry.
func NewManager(maxAge, idleTimeout time.Duration) *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		maxAge:      maxAge,
		idleTimeout: idleTimeout,
	}
}

// Create creates a new session and returns it.
func (m *Manager) Create(k kind.Kind) *Session {
	s := New(k)
	m.mu.Lock()
	m.sessions[s.ID] = s
	metrics.SessionsActive.Set(float64(len(m.sessions)))
	m.mu.Unlock()
	return s
}

// Get retrieves a session by ID. Returns nil if not found or expired.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	if s.IsExpired(m.maxAge) || s.IsIdle(m.idleTimeout) {
		m.Remove(id)
		return nil
	}
	return s
}

// Remove deletes a session. It reports whether the session existed.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	metrics.SessionsActive.Set(float64(len(m.sessions)))
	return ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Cleanup removes all expired and idle sessions and returns how many.
func (m *Manager) Cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.IsExpired(m.maxAge) || s.IsIdle(m.idleTimeout) {
			delete(m.sessions, id)
			removed++
		}
	}
	metrics.SessionsActive.Set(float64(len(m.sessions)))
	return removed
}
