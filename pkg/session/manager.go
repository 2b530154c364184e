package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skilltree/pkg/errors"
	"github.com/matzehuels/skilltree/pkg/graph"
	"github.com/matzehuels/skilltree/pkg/observability"
	"github.com/matzehuels/skilltree/pkg/viewport"
)

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithTTL sets how long sessions live after their last command.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithLogger sets the manager's logger.
func WithLogger(l *log.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// Manager runs session operations against a Store. Commands on the same
// session are serialized; commands on different sessions run in parallel.
type Manager struct {
	store  Store
	ttl    time.Duration
	logger *log.Logger

	mu    sync.Mutex
	locks map[string]*idLock
}

// idLock is a per-session mutex shared by every caller currently holding or
// waiting for it. It is dropped from Manager.locks when refs reaches zero.
type idLock struct {
	mu   sync.Mutex
	refs int
}

// NewManager creates a manager backed by store.
func NewManager(store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:  store,
		ttl:    DefaultTTL,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		locks:  make(map[string]*idLock),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store returns the backing store.
func (m *Manager) Store() Store { return m.store }

// Create stores a new session for l.
func (m *Manager) Create(ctx context.Context, l graph.Layout, opts CreateOptions) (*Session, error) {
	if err := l.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid layout")
	}
	if opts.TTL == 0 {
		opts.TTL = m.ttl
	}
	sess, err := New(l, opts)
	if err != nil {
		return nil, err
	}
	if err := m.store.Set(ctx, sess); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "store session")
	}
	observability.Session().OnSessionCreated(ctx, m.store.Name())
	m.logger.Debug("session created", "id", sess.ID, "nodes", len(l.Nodes), "store", m.store.Name())
	return sess, nil
}

// Get loads a session. Missing and expired sessions are SESSION_NOT_FOUND.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load session")
	}
	if sess == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	return sess, nil
}

// Apply runs cmd on the session and persists the new state. It reports
// whether the viewport changed.
func (m *Manager) Apply(ctx context.Context, id string, cmd Command) (*Session, bool, error) {
	start := time.Now()
	unlock := m.lock(id)
	defer unlock()

	sess, err := m.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	changed, err := sess.Apply(cmd, m.controllerOptions()...)
	observability.Session().OnSessionCommand(ctx, cmd.Type, changed, time.Since(start))
	if err != nil {
		return nil, false, err
	}

	sess.Touch(m.ttl)
	if err := m.store.Set(ctx, sess); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeStorage, err, "store session")
	}
	m.logger.Debug("session command", "id", id, "cmd", cmd.Type, "changed", changed,
		"scale", sess.Viewport.Scale)
	return sess, changed, nil
}

// Delete removes a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	unlock := m.lock(id)
	defer unlock()

	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "load session")
	}
	if sess == nil {
		return errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete session")
	}
	observability.Session().OnSessionDeleted(ctx, m.store.Name())
	return nil
}

// Run calls Cleanup on the store every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.store.Cleanup(ctx); err != nil {
				m.logger.Warn("session cleanup failed", "store", m.store.Name(), "error", err)
			}
		}
	}
}

// Close closes the backing store.
func (m *Manager) Close() error { return m.store.Close() }

func (m *Manager) controllerOptions() []viewport.Option {
	return []viewport.Option{viewport.WithLogger(m.logger)}
}

func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &idLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}
