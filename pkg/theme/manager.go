package theme

import (
	"context"
	"log/slog"

	"gitlab.com/tinyland/lab/termfolio/pkg/bus"
	"gitlab.com/tinyland/lab/termfolio/pkg/state"
)

// EventChanged fires on the bus after every theme transition.
const EventChanged = "theme:changed"

// ChangeEvent is the payload of EventChanged.
type ChangeEvent struct {
	New string
	Old string
}

// Manager owns the active theme. Transitions happen only through Toggle and
// Set; every transition writes the theme state key (persisted) and emits
// EventChanged.
type Manager struct {
	st  *state.Manager
	bus *bus.Bus
	log *slog.Logger
}

// NewManager builds a theme manager over the shared state and bus.
func NewManager(st *state.Manager, b *bus.Bus, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{st: st, bus: b, log: log}
}

// Name implements app.Manager.
func (m *Manager) Name() string { return "theme" }

// Start validates the seeded theme value, coercing anything unknown to
// light with a warning.
func (m *Manager) Start(ctx context.Context) error {
	current := m.st.GetString(state.KeyTheme)
	if !Known(current) {
		m.log.Warn("unknown theme, falling back to light", "theme", current)
		m.st.Set(state.KeyTheme, Light)
	}
	return nil
}

// Stop implements app.Manager.
func (m *Manager) Stop() {}

// Current returns the active theme palette.
func (m *Manager) Current() Theme {
	return Get(m.st.GetString(state.KeyTheme))
}

// CurrentName returns the active theme name.
func (m *Manager) CurrentName() string {
	return m.Current().Name
}

// Toggle switches between light and dark.
func (m *Manager) Toggle() {
	if m.CurrentName() == Dark {
		m.Set(Light)
		return
	}
	m.Set(Dark)
}

// Set transitions to the named theme. Unknown names coerce to light with a
// logged warning. The new value is persisted through the state layer and
// EventChanged fires with the old and new names.
func (m *Manager) Set(name string) {
	if !Known(name) {
		m.log.Warn("invalid theme requested, using light", "theme", name)
		name = Light
	}
	old := m.CurrentName()
	m.st.Set(state.KeyTheme, name)
	if m.bus != nil {
		m.bus.Emit(EventChanged, ChangeEvent{New: name, Old: old})
	}
}
