// Package app wires the managers together and owns their lifecycle. Core
// managers must start or the application does not come up; enhanced
// managers degrade to a logged warning, leaving the rest of the interface
// working.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gitlab.com/tinyland/lab/termfolio/pkg/bus"
	"gitlab.com/tinyland/lab/termfolio/pkg/state"
)

// Manager is one lifecycle-managed subsystem.
type Manager interface {
	// Name identifies the manager in logs and the registry.
	Name() string
	// Start brings the manager up. For core managers an error aborts
	// application startup.
	Start(ctx context.Context) error
	// Stop shuts the manager down. Called in reverse start order.
	Stop()
}

// App holds the registries and drives startup and shutdown.
type App struct {
	bus   *bus.Bus
	state *state.Manager
	log   *slog.Logger

	core     []Manager
	enhanced []Manager

	mu      sync.Mutex
	started []Manager
	byName  map[string]Manager
	degrade []string
}

// New builds an empty app around the shared bus and state.
func New(b *bus.Bus, st *state.Manager, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	return &App{
		bus:    b,
		state:  st,
		log:    log.With("component", "app"),
		byName: make(map[string]Manager),
	}
}

// RegisterCore adds managers whose Start failure is fatal. Start order is
// registration order.
func (a *App) RegisterCore(ms ...Manager) {
	a.core = append(a.core, ms...)
	for _, m := range ms {
		a.byName[m.Name()] = m
	}
}

// RegisterEnhanced adds managers whose Start failure only degrades the
// application. They start after all core managers.
func (a *App) RegisterEnhanced(ms ...Manager) {
	a.enhanced = append(a.enhanced, ms...)
	for _, m := range ms {
		a.byName[m.Name()] = m
	}
}

// Manager returns a registered manager by name.
func (a *App) Manager(name string) (Manager, bool) {
	m, ok := a.byName[name]
	return m, ok
}

// Degraded returns the names of enhanced managers that failed to start.
func (a *App) Degraded() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.degrade...)
}

// Start brings up core managers in order, then enhanced managers. A core
// failure stops everything already started and returns the error; an
// enhanced failure is recorded and logged.
func (a *App) Start(ctx context.Context) error {
	for _, m := range a.core {
		if err := m.Start(ctx); err != nil {
			a.log.Error("core manager failed to start", "manager", m.Name(), "error", err)
			a.Stop()
			return fmt.Errorf("app: start %s: %w", m.Name(), err)
		}
		a.log.Debug("manager started", "manager", m.Name())
		a.mu.Lock()
		a.started = append(a.started, m)
		a.mu.Unlock()
	}
	for _, m := range a.enhanced {
		if err := m.Start(ctx); err != nil {
			a.log.Warn("enhanced manager failed to start, continuing without it",
				"manager", m.Name(), "error", err)
			a.mu.Lock()
			a.degrade = append(a.degrade, m.Name())
			a.mu.Unlock()
			continue
		}
		a.log.Debug("manager started", "manager", m.Name())
		a.mu.Lock()
		a.started = append(a.started, m)
		a.mu.Unlock()
	}
	a.log.Info("application started",
		"core", len(a.core), "enhanced", len(a.enhanced), "degraded", len(a.degrade))
	return nil
}

// Stop shuts down started managers in reverse order and clears the bus.
// Safe to call more than once.
func (a *App) Stop() {
	a.mu.Lock()
	started := a.started
	a.started = nil
	a.mu.Unlock()

	for i := len(started) - 1; i >= 0; i-- {
		started[i].Stop()
		a.log.Debug("manager stopped", "manager", started[i].Name())
	}
	if len(started) > 0 && a.bus != nil {
		a.bus.Clear()
	}
}
