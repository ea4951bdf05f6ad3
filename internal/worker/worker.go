// Package worker records matches. It observes the engine, publishes every
// finished round on the dispatcher and persists it from handler goroutines
// so storage never slows the round loop.
package worker

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/fluxwars/engine/internal/influx"
	"github.com/fluxwars/engine/internal/storage"
	"github.com/fluxwars/engine/pkg/core"
)

// ErrNoMatch is returned when rounds arrive before the match was started.
var ErrNoMatch = errors.New("no match started")

// Dependencies holds all dependencies for the worker manager
type Dependencies struct {
	Logger           *slog.Logger
	Backend          storage.Backend
	Influx           *influx.Manager // optional
	IncludeBytecodes bool
}

// Manager turns engine notifications into storage writes.
type Manager struct {
	deps Dependencies

	mu      sync.Mutex
	info    *core.MatchInfo
	pending sync.WaitGroup

	lastWrite time.Duration
	errs      []error
}

// NewManager creates a new worker manager
func NewManager(deps Dependencies) *Manager {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Backend == nil {
		deps.Backend = storage.Discard{}
	}
	return &Manager{deps: deps}
}

// LastWriteDuration returns how long the most recent round took to store.
func (m *Manager) LastWriteDuration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastWrite
}

// Err returns every storage error seen so far, joined.
func (m *Manager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return errors.Join(m.errs...)
}

func (m *Manager) fail(err error) error {
	m.mu.Lock()
	m.errs = append(m.errs, err)
	m.mu.Unlock()
	return err
}

func (m *Manager) match() (core.MatchInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.info == nil {
		return core.MatchInfo{}, false
	}
	return *m.info, true
}
