package cassandra

import (
	"sync"
	"sync/atomic"

	"github.com/wikimedia/restbase-cassandra/adapter/cql"
	"github.com/wikimedia/restbase-cassandra/internal/logging"
	"github.com/wikimedia/restbase-cassandra/internal/metrics"
	"github.com/wikimedia/restbase-cassandra/types"
)

// SessionProvider hands out the backend session used for page reads.
//
// The scanner calls Session before every page fetch, so a provider that
// swaps its session (such as SessionManager after a connection reset) takes
// effect on the next fetch without coordination.
type SessionProvider interface {
	// Session returns the current backend session.
	Session() cql.Session
}

// staticProvider wraps a fixed session.
type staticProvider struct {
	session cql.Session
}

// StaticSession returns a provider that always hands out the given session.
//
// Use it when connection resets are handled elsewhere (for example by the
// driver's own reconnect logic).
//
// Parameters:
//   - session: The session to provide
//
// Returns:
//   - SessionProvider: A fixed provider
func StaticSession(session cql.Session) SessionProvider {
	return &staticProvider{session: session}
}

func (p *staticProvider) Session() cql.Session {
	return p.session
}

// SessionManager owns a backend session and supports fire-and-forget
// replacement of it.
//
// Reset closes and reopens the session in the background. It returns
// before the replacement completes, so a page fetch issued right after a
// reset may still run on the old, possibly poisoned session and fail once
// more. That extra failure cycle is absorbed by the fetcher's backoff and
// is a normal occurrence.
type SessionManager struct {
	factory   cql.SessionFactory
	logger    types.Logger
	collector types.MetricsCollector

	mu        sync.RWMutex
	session   cql.Session
	resetting atomic.Bool
	closed    atomic.Bool
}

// Compile-time assertions for the session manager's roles.
var (
	_ SessionProvider          = (*SessionManager)(nil)
	_ types.ConnectionResetter = (*SessionManager)(nil)
)

// ManagerOption configures a SessionManager.
type ManagerOption func(*SessionManager)

// WithManagerLogger sets the logger used for reset diagnostics.
//
// Parameters:
//   - logger: The logger implementation
//
// Returns:
//   - ManagerOption: Configuration option
func WithManagerLogger(logger types.Logger) ManagerOption {
	return func(m *SessionManager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithManagerMetrics sets the metrics collector for reset counting.
//
// Parameters:
//   - collector: The metrics collector
//
// Returns:
//   - ManagerOption: Configuration option
func WithManagerMetrics(collector types.MetricsCollector) ManagerOption {
	return func(m *SessionManager) {
		if collector != nil {
			m.collector = collector
		}
	}
}

// NewSessionManager creates a session manager and establishes the initial
// session via the factory.
//
// Parameters:
//   - factory: Creates backend sessions, called once now and once per reset
//   - opts: Optional configuration
//
// Returns:
//   - *SessionManager: The manager holding an open session
//   - error: Non-nil if the factory is nil or the initial session failed
func NewSessionManager(factory cql.SessionFactory, opts ...ManagerOption) (*SessionManager, error) {
	if factory == nil {
		return nil, types.ErrNilSession
	}

	m := &SessionManager{
		factory:   factory,
		logger:    logging.NewNopLogger(),
		collector: metrics.NewNopMetrics(),
	}
	for _, opt := range opts {
		opt(m)
	}

	session, err := factory()
	if err != nil {
		return nil, err
	}
	m.session = session

	return m, nil
}

// Session returns the current backend session.
func (m *SessionManager) Session() cql.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.session
}

// Reset closes and reopens the session in the background.
//
// The call returns immediately. Concurrent resets collapse into one; a
// reset on a closed manager is a no-op. If the factory fails, the old
// session stays in place and the failure is logged so a later reset can
// try again.
func (m *SessionManager) Reset() {
	if m.closed.Load() {
		return
	}
	if !m.resetting.CompareAndSwap(false, true) {
		return
	}

	m.collector.IncConnectionReset()
	m.logger.Warn("resetting backend session")

	go func() {
		defer m.resetting.Store(false)

		next, err := m.factory()
		if err != nil {
			m.logger.Error("session reopen failed, keeping previous session", "error", err)
			return
		}

		m.mu.Lock()
		old := m.session
		m.session = next
		m.mu.Unlock()

		if old != nil {
			old.Close()
		}
	}()
}

// Close closes the current session. Further Session calls return nil and
// further Reset calls are no-ops.
func (m *SessionManager) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		m.session.Close()
		m.session = nil
	}

	return nil
}
