// Package typing drives the hero section's character-by-character text
// reveal. The manager is a small state machine advanced by ticks from the
// TUI's timer; it never owns a goroutine, so stopping it is just flipping
// the animating flag and letting the next tick fall through.
package typing

import (
	"context"
	"log/slog"
	"strings"

	"gitlab.com/tinyland/lab/termfolio/pkg/bus"
	"gitlab.com/tinyland/lab/termfolio/pkg/state"
)

// Bus events. The language control is disabled between Started and the
// matching Completed or Stopped so a switch cannot interleave mid-reveal.
const (
	EventStarted   = "typing:started"
	EventCompleted = "typing:completed"
	EventStopped   = "typing:stopped"
)

// Built-in defaults when the bundle has no hero lines.
const (
	defaultLine1 = "Hello, I'm"
	defaultLine2 = "a developer."
)

// SegmentKind selects the color a segment renders with.
type SegmentKind int

const (
	// KindPlain renders in the ordinary hero text color.
	KindPlain SegmentKind = iota
	// KindName renders in the accent name color.
	KindName
	// KindRest renders the trailing sentence after a name segment.
	KindRest
)

// Segment is one colored run of line two.
type Segment struct {
	Text []rune
	Kind SegmentKind
}

// phase is where the reveal currently stands.
type phase int

const (
	phaseLine1 phase = iota
	phasePause
	phaseLine2
	phaseDone
)

// Manager holds the reveal state for both hero lines.
type Manager struct {
	st  *state.Manager
	bus *bus.Bus
	log *slog.Logger

	// pauseTicks is how many ticks the hold between lines lasts.
	pauseTicks int

	animating bool
	phase     phase
	line1     []rune
	segments  []Segment

	pos1      int // revealed runes of line one
	seg       int // current segment of line two
	posSeg    int // revealed runes within the current segment
	pauseLeft int
}

// NewManager builds a typing manager. pauseTicks is the inter-line hold
// measured in tick intervals.
func NewManager(st *state.Manager, b *bus.Bus, log *slog.Logger, pauseTicks int) *Manager {
	if log == nil {
		log = slog.Default()
	}
	if pauseTicks < 1 {
		pauseTicks = 1
	}
	return &Manager{st: st, bus: b, log: log, pauseTicks: pauseTicks}
}

// Name implements app.Manager.
func (m *Manager) Name() string { return "typing" }

// Start implements app.Manager; the animation itself starts when the TUI
// calls StartAnimation with the hero lines.
func (m *Manager) Start(ctx context.Context) error { return nil }

// Stop implements app.Manager.
func (m *Manager) Stop() { m.StopAnimation() }

// Animating reports whether a reveal is in progress.
func (m *Manager) Animating() bool { return m.animating }

// Done reports whether the reveal ran to completion.
func (m *Manager) Done() bool { return m.phase == phaseDone }

// StartAnimation begins revealing the two lines. A second call while a
// reveal is running is a no-op and returns false, so there is never more
// than one live reveal.
func (m *Manager) StartAnimation(line1, line2, lang string) bool {
	if m.animating {
		return false
	}
	if line1 == "" {
		line1 = defaultLine1
	}
	if line2 == "" {
		line2 = defaultLine2
	}

	m.line1 = []rune(line1)
	m.segments = SplitLine2(line2, lang)
	m.phase = phaseLine1
	m.pos1 = 0
	m.seg = 0
	m.posSeg = 0
	m.pauseLeft = m.pauseTicks
	m.animating = true

	m.st.Set(state.KeyTypingComplete, false)
	if m.bus != nil {
		m.bus.Emit(EventStarted, nil)
	}
	return true
}

// StopAnimation cooperatively cancels a running reveal and clears both
// targets. The next Tick after a stop is a no-op.
func (m *Manager) StopAnimation() {
	if !m.animating {
		return
	}
	m.animating = false
	m.clear()
	if m.bus != nil {
		m.bus.Emit(EventStopped, nil)
	}
}

// RestartAnimation stops any in-progress reveal, clears both targets
// including segment substructure, and starts over with the new lines. Used
// when the active language changes.
func (m *Manager) RestartAnimation(line1, line2, lang string) {
	m.StopAnimation()
	m.clear()
	m.StartAnimation(line1, line2, lang)
}

func (m *Manager) clear() {
	m.line1 = nil
	m.segments = nil
	m.phase = phaseLine1
	m.pos1 = 0
	m.seg = 0
	m.posSeg = 0
}

// Tick advances the reveal by one step. Returns true while the animation
// wants further ticks.
func (m *Manager) Tick() bool {
	if !m.animating {
		return false
	}
	switch m.phase {
	case phaseLine1:
		if m.pos1 < len(m.line1) {
			m.pos1++
		}
		if m.pos1 >= len(m.line1) {
			m.phase = phasePause
		}
	case phasePause:
		m.pauseLeft--
		if m.pauseLeft <= 0 {
			m.phase = phaseLine2
		}
	case phaseLine2:
		if m.seg < len(m.segments) {
			if m.posSeg < len(m.segments[m.seg].Text) {
				m.posSeg++
			}
			if m.posSeg >= len(m.segments[m.seg].Text) {
				m.seg++
				m.posSeg = 0
			}
		}
		if m.seg >= len(m.segments) {
			m.complete()
			return false
		}
	case phaseDone:
		return false
	}
	return true
}

func (m *Manager) complete() {
	m.phase = phaseDone
	m.animating = false
	m.st.Set(state.KeyTypingComplete, true)
	if m.bus != nil {
		m.bus.Emit(EventCompleted, nil)
	}
}

// Line1 returns the revealed portion of line one.
func (m *Manager) Line1() string {
	return string(m.line1[:m.pos1])
}

// Line2Segments returns the revealed portion of line two as colored
// segments. Fully revealed segments come back whole; the segment currently
// being revealed is truncated at the reveal position.
func (m *Manager) Line2Segments() []Segment {
	if m.phase < phaseLine2 {
		return nil
	}
	var out []Segment
	for i, s := range m.segments {
		switch {
		case i < m.seg:
			out = append(out, Segment{Text: s.Text, Kind: s.Kind})
		case i == m.seg && m.posSeg > 0:
			out = append(out, Segment{Text: s.Text[:m.posSeg], Kind: s.Kind})
		}
	}
	return out
}

// CaretOnLine2 reports whether the caret is attached to line two (it sits
// on line one until that line finishes revealing, and stays on line two
// after completion).
func (m *Manager) CaretOnLine2() bool {
	return m.phase >= phaseLine2
}

// SplitLine2 breaks line two into colored segments by a language-specific
// rule: English-style lines split at the first space into a name segment
// and the trailing sentence; Korean lines stay whole.
func SplitLine2(line2, lang string) []Segment {
	runes := []rune(line2)
	if lang == "ko" {
		return []Segment{{Text: runes, Kind: KindPlain}}
	}
	idx := strings.IndexRune(line2, ' ')
	if idx <= 0 {
		return []Segment{{Text: runes, Kind: KindName}}
	}
	head := []rune(line2[:idx])
	tail := []rune(line2[idx:])
	return []Segment{
		{Text: head, Kind: KindName},
		{Text: tail, Kind: KindRest},
	}
}
