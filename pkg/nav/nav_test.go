package nav

import (
	"context"
	"log/slog"
	"testing"

	"gitlab.com/tinyland/lab/termfolio/pkg/bus"
	"gitlab.com/tinyland/lab/termfolio/pkg/state"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// testLayout is a simple document: six sections of 20 rows each.
func testLayout() []Section {
	secs := make([]Section, len(SectionIDs))
	for i, id := range SectionIDs {
		secs[i] = Section{ID: id, Top: i * 20, Height: 20}
	}
	return secs
}

func newTestManager(t *testing.T, width int) (*Manager, *bus.Bus) {
	t.Helper()
	b := bus.New(testLogger())
	st := state.New(nil, b, testLogger())
	m := NewManager(st, b, testLogger(), 80)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	m.SetViewport(width, 24)
	m.SetSections(testLayout())
	return m, b
}

func TestScrollToAlignsBelowHeader(t *testing.T) {
	m, _ := newTestManager(t, 120)

	offset, ok := m.ScrollTo("projects")
	if !ok {
		t.Fatal("ScrollTo failed for known section")
	}
	// projects starts at row 40; target leaves HeaderOffset rows above it.
	if want := 40 - HeaderOffset; offset != want {
		t.Errorf("offset = %d, want %d", offset, want)
	}
}

func TestScrollToUnknownIsNoOp(t *testing.T) {
	m, _ := newTestManager(t, 120)

	before := m.Offset()
	offset, ok := m.ScrollTo("nonexistent")
	if ok || offset != before {
		t.Errorf("unknown section moved viewport: (%d, %v)", offset, ok)
	}
}

func TestScrollClamping(t *testing.T) {
	m, _ := newTestManager(t, 120)

	// footer starts at 100; content is 120 rows, viewport 24, so the
	// maximum offset is 96.
	offset, ok := m.ScrollTo("footer")
	if !ok {
		t.Fatal("ScrollTo footer failed")
	}
	if offset != 96 {
		t.Errorf("offset = %d, want clamped 96", offset)
	}

	if got := m.ScrollBy(-1000); got != 0 {
		t.Errorf("offset after large negative scroll = %d, want 0", got)
	}
}

func TestHistoryBack(t *testing.T) {
	m, _ := newTestManager(t, 120)

	m.ScrollTo("about")
	m.ScrollTo("skills")

	offset, ok := m.Back()
	if !ok {
		t.Fatal("Back failed with history present")
	}
	// Previous active section was about (top 20).
	if want := 20 - HeaderOffset; offset != want {
		t.Errorf("offset = %d, want %d", offset, want)
	}

	if _, ok := m.Back(); !ok {
		t.Fatal("second Back failed")
	}
	if _, ok := m.Back(); ok {
		t.Error("Back succeeded with empty history")
	}
}

func TestScrollSpy(t *testing.T) {
	m, b := newTestManager(t, 120)

	var events []string
	b.On(EventActiveChanged, func(p any) {
		events = append(events, p.(ActiveEvent).ID)
	})

	if m.Active() != "hero" {
		t.Fatalf("initial active = %q, want hero", m.Active())
	}

	// Scroll so about fills the window: offset 20 puts rows 23..44 in
	// view; about (20..40) has 17/20 rows visible.
	m.SetOffset(20)
	if m.Active() != "about" {
		t.Errorf("active = %q, want about", m.Active())
	}
	if len(events) != 1 || events[0] != "about" {
		t.Errorf("events = %v, want [about]", events)
	}

	// Small move keeps the same active section: no duplicate event.
	m.SetOffset(22)
	if len(events) != 1 {
		t.Errorf("duplicate activeChanged events: %v", events)
	}
}

func TestScrollSpyNearTopBias(t *testing.T) {
	m, _ := newTestManager(t, 120)

	// Window rows 13..34: about (20..40) shows 14 rows (70%), hero
	// (0..20) shows 7 of 20 (35%). Both pass the threshold; the earlier
	// section wins.
	m.SetOffset(10)
	if m.Active() != "hero" {
		t.Errorf("active = %q, want hero (near-top bias)", m.Active())
	}
}

func TestMenuToggleMirrorsState(t *testing.T) {
	b := bus.New(testLogger())
	st := state.New(nil, b, testLogger())
	m := NewManager(st, b, testLogger(), 80)
	_ = m.Start(context.Background())
	m.SetViewport(120, 24)
	m.SetSections(testLayout())

	m.Toggle()
	if !m.IsOpen() || !st.GetBool(state.KeyNavOpen) {
		t.Error("open not mirrored into state")
	}
	m.Toggle()
	if m.IsOpen() || st.GetBool(state.KeyNavOpen) {
		t.Error("close not mirrored into state")
	}
}

func TestOpenCloseEvents(t *testing.T) {
	m, b := newTestManager(t, 120)

	b.Emit(EventOpen, nil)
	if !m.IsOpen() {
		t.Error("nav:open event ignored")
	}
	b.Emit(EventClose, nil)
	if m.IsOpen() {
		t.Error("nav:close event ignored")
	}
}

func TestCompactOpenLocksScroll(t *testing.T) {
	m, _ := newTestManager(t, 72) // at or below the compact threshold

	if !m.Compact() {
		t.Fatal("72 columns should be compact")
	}

	m.Open()
	before := m.Offset()
	if got := m.ScrollBy(10); got != before {
		t.Error("scroll moved while compact menu open")
	}
	if _, ok := m.ScrollTo("about"); ok {
		t.Error("ScrollTo succeeded while compact menu open")
	}

	m.Close()
	if got := m.ScrollBy(10); got == before {
		t.Error("scroll still locked after close")
	}
}

func TestWideOpenDoesNotLockScroll(t *testing.T) {
	m, _ := newTestManager(t, 120)

	m.Open()
	if got := m.ScrollBy(10); got == 0 {
		t.Error("scroll locked on wide viewport")
	}
}

func TestEscapeClosesOnlyWhenOpen(t *testing.T) {
	m, _ := newTestManager(t, 120)

	if m.HandleEscape() {
		t.Error("Escape consumed while closed")
	}
	m.Open()
	if !m.HandleEscape() {
		t.Error("Escape not consumed while open")
	}
	if m.IsOpen() {
		t.Error("menu still open after Escape")
	}
}

func TestOutsideClickCloses(t *testing.T) {
	m, _ := newTestManager(t, 120)
	m.Open()
	m.HandleOutsideClick()
	if m.IsOpen() {
		t.Error("menu open after outside click")
	}
}
