package session

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	espalier "github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/build"
	"github.com/aretw0/espalier/pkg/domain"
)

// Engine is the builder type hosted sessions run. Hosted trees come from
// schemas or hand assembly, so the finished value stays generic.
type Engine = espalier.Builder[map[string]any]

// entry pairs one live engine with the mutex enforcing its single-owner
// contract.
type entry struct {
	mu      sync.Mutex
	deleted bool
	engine  *Engine
	created time.Time
}

// Manager owns a set of concurrent builder sessions over one form shape.
// Every session gets a fresh tree from the factory and a UUID.
type Manager struct {
	newRoot build.Factory

	mu       sync.Mutex
	sessions map[string]*entry

	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for session lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a session manager that builds each session's tree
// with newRoot.
func NewManager(newRoot build.Factory, opts ...Option) *Manager {
	m := &Manager{
		newRoot:  newRoot,
		sessions: make(map[string]*entry),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a new session and returns its id.
func (m *Manager) Create(opts ...espalier.Option) string {
	id := uuid.NewString()
	e := &entry{
		engine:  espalier.New[map[string]any](m.newRoot(), opts...),
		created: time.Now(),
	}

	m.mu.Lock()
	m.sessions[id] = e
	m.mu.Unlock()

	m.logger.Debug("session created", "session_id", id)
	return id
}

// WithSession runs fn while holding the session's lock. It returns
// domain.ErrSessionNotFound for unknown or deleted ids, and the context's
// error when ctx is already done.
func (m *Manager) WithSession(ctx context.Context, id string, fn func(*Engine) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	e, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return domain.ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	// Deleted between the map lookup and the lock acquisition.
	if e.deleted {
		return domain.ErrSessionNotFound
	}
	return fn(e.engine)
}

// Delete ends a session. A caller holding the session via WithSession
// finishes its critical section first.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return domain.ErrSessionNotFound
	}

	e.mu.Lock()
	e.deleted = true
	e.mu.Unlock()

	m.logger.Debug("session deleted", "session_id", id)
	return nil
}

// List returns the ids of all live sessions, sorted for stable output.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
