package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/ironsheep/edge-refine-mcp/internal/contour"
	"github.com/ironsheep/edge-refine-mcp/internal/edge"
	"github.com/ironsheep/edge-refine-mcp/internal/raster"
)

// ErrUnknownSession is returned for image ids with no open session.
var ErrUnknownSession = errors.New("session: unknown image")

// Manager keeps one Session per image id. It owns the Store and Runner they
// share.
type Manager struct {
	engine edge.Engine
	store  *contour.Store
	runner *Runner
	opts   Options
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a manager running extractions on engine.
func NewManager(engine edge.Engine, opts Options, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	store := contour.NewStore()
	return &Manager{
		engine:   engine,
		store:    store,
		runner:   NewRunner(engine, store, logger),
		opts:     opts,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Engine returns the extraction engine.
func (m *Manager) Engine() edge.Engine { return m.engine }

// Store returns the shared contour store.
func (m *Manager) Store() *contour.Store { return m.store }

// Open starts a session for id over buf. An existing session for id is
// closed first so none of its data leaks into the new one.
func (m *Manager) Open(id string, buf *raster.PixelBuffer) (*Session, error) {
	if id == "" {
		return nil, errors.New("session: empty image id")
	}
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; ok {
		m.forget(id)
	}
	s, err := newSession(id, buf, m.engine, m.runner, m.store, m.opts, m.logger)
	if err != nil {
		return nil, err
	}
	m.sessions[id] = s
	m.logger.Info("session opened", "image", id, "width", buf.Width(), "height", buf.Height())
	return s, nil
}

// Get returns the session for id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	return s, nil
}

// IDs returns the open image ids in sorted order.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close ends the session for id and drops everything stored for it.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	m.forget(id)
	m.logger.Info("session closed", "image", id)
	return nil
}

func (m *Manager) forget(id string) {
	delete(m.sessions, id)
	m.runner.Forget(id)
	m.store.Forget(id)
}

// Shutdown stops all background extractions.
func (m *Manager) Shutdown() {
	m.runner.Close()
}
