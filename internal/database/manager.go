package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/enerdata/tradegate/internal/config"
	"github.com/enerdata/tradegate/internal/router"
)

// ErrShutdown is returned by Acquire once Shutdown has begun.
var ErrShutdown = errors.New("database manager is shut down")

// pingTimeout bounds the liveness probe run before a session is handed out.
const pingTimeout = 5 * time.Second

// Manager owns one lazy connection pool per backend name and hands out
// dedicated per-request sessions. Pools are created on first use and live
// until Shutdown.
type Manager struct {
	catalog *config.Catalog
	logger  *slog.Logger

	mu       sync.Mutex
	pools    map[string]*sql.DB
	shutdown bool
}

// NewManager creates a manager over the given catalog.
func NewManager(catalog *config.Catalog, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		catalog: catalog,
		logger:  logger,
		pools:   make(map[string]*sql.DB),
	}
}

// Catalog returns the backend catalog the manager was built over.
func (m *Manager) Catalog() *config.Catalog {
	return m.catalog
}

// Connect resolves the backend for a request and acquires a session on it.
// The explicit name wins over the task category when both are given. The
// returned name is the backend the session actually belongs to.
func (m *Manager) Connect(ctx context.Context, taskCategory, explicit string) (*Session, string, error) {
	name, err := router.Resolve(explicit, taskCategory, m.catalog)
	if err != nil {
		m.logger.Error("backend resolution failed", "database", explicit, "error", err)
		return nil, "", err
	}

	s, err := m.Acquire(ctx, name)
	if err != nil {
		return nil, "", err
	}
	return s, name, nil
}

// Acquire checks a dedicated session out of the named backend's pool,
// creating the pool on first use. Every session passes a bounded liveness
// probe before it is handed out.
func (m *Manager) Acquire(ctx context.Context, name string) (*Session, error) {
	db, err := m.pool(name)
	if err != nil {
		return nil, err
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		m.logger.Error("session checkout failed", "backend", name, "error", err)
		return nil, fmt.Errorf("acquire %s session: %w", name, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		m.logger.Error("session liveness probe failed", "backend", name, "error", err)
		return nil, fmt.Errorf("ping %s: %w", name, err)
	}

	s := &Session{
		ID:       uuid.New(),
		Backend:  name,
		conn:     conn,
		acquired: time.Now(),
	}
	m.logger.Debug("session acquired", "backend", name, "session_id", s.ID)
	return s, nil
}

// pool returns the cached pool for name, creating it on first use. At most
// one pool per name exists for the process lifetime.
func (m *Manager) pool(name string) (*sql.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shutdown {
		return nil, ErrShutdown
	}
	if db, ok := m.pools[name]; ok {
		return db, nil
	}

	b, ok := m.catalog.Get(name)
	if !ok {
		// Routing only hands back a name outside the catalog when it fell
		// all the way through; serve it with the built-in backend.
		b = config.DefaultBackend()
	}

	db, err := openPool(b)
	if err != nil {
		m.logger.Error("pool open failed", "backend", name, "error", err)
		return nil, err
	}
	m.pools[name] = db

	m.logger.Info("pool created",
		"backend", name,
		"kind", string(KindOf(b.DBType)),
		"host", b.Host,
		"port", b.Port,
	)
	return db, nil
}

// Release returns the session's connection to its pool. Safe to call with
// nil; close failures are logged, never surfaced.
func (m *Manager) Release(s *Session) {
	if s == nil || s.conn == nil {
		return
	}
	if err := s.conn.Close(); err != nil {
		m.logger.Warn("session release failed",
			"backend", s.Backend,
			"session_id", s.ID,
			"error", err,
		)
	} else {
		m.logger.Debug("session released",
			"backend", s.Backend,
			"session_id", s.ID,
			"held", time.Since(s.acquired),
		)
	}
	s.conn = nil
}

// Shutdown closes every pool exactly once. It is idempotent, safe when
// nothing was ever acquired, and refuses new pools afterwards. Sessions
// already handed out are not revoked; their connections close as they are
// released.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	if m.shutdown {
		m.mu.Unlock()
		return
	}
	m.shutdown = true
	pools := m.pools
	m.pools = nil
	m.mu.Unlock()

	for name, db := range pools {
		if err := db.Close(); err != nil {
			m.logger.Warn("pool close failed", "backend", name, "error", err)
			continue
		}
		m.logger.Info("pool closed", "backend", name)
	}
}
