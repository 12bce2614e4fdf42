// Package nav owns section navigation: the ordered section registry,
// viewport scrolling with a fixed-header offset, scroll-spy for the active
// section marker, an in-session history of visited sections, and the menu
// overlay open/close state.
//
// The manager does not move the viewport itself; it computes target offsets
// and the TUI applies them, reporting the resulting offset back through
// SetOffset.
package nav

import (
	"context"
	"log/slog"

	"gitlab.com/tinyland/lab/termfolio/pkg/bus"
	"gitlab.com/tinyland/lab/termfolio/pkg/state"
)

// SectionIDs is the fixed render order of the portfolio sections.
var SectionIDs = []string{"hero", "about", "projects", "skills", "blog", "footer"}

// HeaderOffset is the height of the fixed header in rows; scroll targets
// land this far below the top of the viewport.
const HeaderOffset = 3

// activeMinRatio is the share of a section's rows that must be visible for
// scroll-spy to mark it active.
const activeMinRatio = 0.3

// Bus events.
const (
	// EventActiveChanged fires when scroll-spy picks a new active section.
	EventActiveChanged = "nav:activeChanged"
	// EventOpen and EventClose request menu transitions from other
	// components.
	EventOpen  = "nav:open"
	EventClose = "nav:close"
)

// ActiveEvent is the payload of EventActiveChanged.
type ActiveEvent struct {
	ID string
}

// Section is one navigable region of the rendered document, in content
// coordinates (rows from the top of the full document).
type Section struct {
	ID     string
	Top    int
	Height int
}

// Manager tracks viewport geometry and menu state.
type Manager struct {
	st  *state.Manager
	bus *bus.Bus
	log *slog.Logger

	compactWidth int
	width        int
	height       int

	sections []Section
	offset   int
	active   string
	history  []string

	scrollLocked bool
}

// NewManager builds a nav manager. compactWidth is the column threshold at
// or below which the menu renders as a full overlay and locks scrolling
// while open.
func NewManager(st *state.Manager, b *bus.Bus, log *slog.Logger, compactWidth int) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		st:           st,
		bus:          b,
		log:          log,
		compactWidth: compactWidth,
	}
}

// Name implements app.Manager.
func (m *Manager) Name() string { return "nav" }

// Start wires the open/close request events.
func (m *Manager) Start(ctx context.Context) error {
	if m.bus != nil {
		m.bus.On(EventOpen, func(any) { m.Open() })
		m.bus.On(EventClose, func(any) { m.Close() })
	}
	return nil
}

// Stop implements app.Manager.
func (m *Manager) Stop() {}

// SetViewport records the terminal dimensions.
func (m *Manager) SetViewport(width, height int) {
	m.width = width
	m.height = height
}

// Compact reports whether the viewport is at or below the compact
// threshold.
func (m *Manager) Compact() bool {
	return m.width > 0 && m.width <= m.compactWidth
}

// SetSections replaces the section layout (content coordinates) after a
// render pass and re-runs scroll-spy against it.
func (m *Manager) SetSections(sections []Section) {
	m.sections = sections
	m.spy()
}

// Sections returns the current layout.
func (m *Manager) Sections() []Section { return m.sections }

// Offset returns the current scroll offset.
func (m *Manager) Offset() int { return m.offset }

// Active returns the scroll-spy active section id.
func (m *Manager) Active() string { return m.active }

// ScrollTo computes the viewport offset that puts the section's first row
// HeaderOffset rows below the top, pushes the currently active section onto
// the history stack, and returns the target offset. Unknown ids and locked
// scrolling are no-ops with ok=false.
func (m *Manager) ScrollTo(id string) (offset int, ok bool) {
	if m.scrollLocked {
		return m.offset, false
	}
	sec, found := m.find(id)
	if !found {
		return m.offset, false
	}
	if m.active != "" && m.active != id {
		m.history = append(m.history, m.active)
	}
	target := m.clamp(sec.Top - HeaderOffset)
	m.SetOffset(target)
	return target, true
}

// Back pops the history stack and scrolls to the previous section.
func (m *Manager) Back() (offset int, ok bool) {
	if m.scrollLocked || len(m.history) == 0 {
		return m.offset, false
	}
	id := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	sec, found := m.find(id)
	if !found {
		return m.offset, false
	}
	target := m.clamp(sec.Top - HeaderOffset)
	m.SetOffset(target)
	return target, true
}

// ScrollBy moves the viewport by delta rows unless scrolling is locked,
// returning the new offset.
func (m *Manager) ScrollBy(delta int) int {
	if m.scrollLocked {
		return m.offset
	}
	m.SetOffset(m.offset + delta)
	return m.offset
}

// SetOffset records the viewport position and re-runs scroll-spy.
func (m *Manager) SetOffset(offset int) {
	m.offset = m.clamp(offset)
	m.spy()
}

// IsOpen reports the menu overlay state.
func (m *Manager) IsOpen() bool {
	return m.st.GetBool(state.KeyNavOpen)
}

// Toggle flips the menu overlay.
func (m *Manager) Toggle() {
	if m.IsOpen() {
		m.Close()
		return
	}
	m.Open()
}

// Open shows the menu overlay. In compact mode this also suppresses
// viewport scrolling until the menu closes.
func (m *Manager) Open() {
	if m.IsOpen() {
		return
	}
	m.st.Set(state.KeyNavOpen, true)
	if m.Compact() {
		m.scrollLocked = true
	}
}

// Close hides the menu overlay and restores scrolling.
func (m *Manager) Close() {
	if !m.IsOpen() {
		return
	}
	m.st.Set(state.KeyNavOpen, false)
	m.scrollLocked = false
}

// HandleOutsideClick closes the menu when a mouse press lands outside it.
func (m *Manager) HandleOutsideClick() {
	m.Close()
}

// HandleEscape closes the menu on Esc while open, reporting whether the key
// was consumed.
func (m *Manager) HandleEscape() bool {
	if !m.IsOpen() {
		return false
	}
	m.Close()
	return true
}

func (m *Manager) find(id string) (Section, bool) {
	for _, s := range m.sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

func (m *Manager) contentHeight() int {
	if len(m.sections) == 0 {
		return 0
	}
	last := m.sections[len(m.sections)-1]
	return last.Top + last.Height
}

func (m *Manager) clamp(offset int) int {
	max := m.contentHeight() - m.height
	if max < 0 {
		max = 0
	}
	if offset > max {
		offset = max
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// spy recomputes the active section: the first section, in document order,
// with at least activeMinRatio of its rows inside the content window below
// the fixed header. Walking top-down biases the pick toward near-top
// sections. Falls back to the section containing the first content row.
func (m *Manager) spy() {
	if len(m.sections) == 0 || m.height <= HeaderOffset {
		return
	}
	winTop := m.offset + HeaderOffset
	winBottom := m.offset + m.height

	next := ""
	for _, s := range m.sections {
		if s.Height <= 0 {
			continue
		}
		top := s.Top
		bottom := s.Top + s.Height
		visTop := maxInt(top, winTop)
		visBottom := minInt(bottom, winBottom)
		visible := visBottom - visTop
		if visible <= 0 {
			continue
		}
		if float64(visible)/float64(s.Height) >= activeMinRatio {
			next = s.ID
			break
		}
		if next == "" && top <= winTop && bottom > winTop {
			next = s.ID
		}
	}
	if next == "" || next == m.active {
		return
	}
	m.active = next
	if m.bus != nil {
		m.bus.Emit(EventActiveChanged, ActiveEvent{ID: next})
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
