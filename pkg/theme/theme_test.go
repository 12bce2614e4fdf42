package theme

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

type memPersister struct {
	values map[string]string
}

func newMemPersister() *memPersister {
	return &memPersister{values: make(map[string]string)}
}

func (p *memPersister) PutString(key, value string) error {
	p.values[key] = value
	return nil
}

func (p *memPersister) GetString(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

func (p *memPersister) Delete(key string) error {
	delete(p.values, key)
	return nil
}

func TestRegistry(t *testing.T) {
	if !Known(Light) || !Known(Dark) {
		t.Fatal("builtin themes not registered")
	}
	if Known("sepia") {
		t.Error("unexpected theme registered")
	}
	if got := Get("sepia").Name; got != Light {
		t.Errorf("unknown theme resolved to %q, want light", got)
	}
	if Get(Dark).Background == Get(Light).Background {
		t.Error("light and dark share a background color")
	}
}

func TestSetAndPersist(t *testing.T) {
	p := newMemPersister()
	st := state.New(p, nil, testLogger())
	m := NewManager(st, nil, testLogger())

	m.Set(Dark)

	if got := m.CurrentName(); got != Dark {
		t.Errorf("current = %q, want dark", got)
	}
	if p.values[state.KeyTheme] != Dark {
		t.Errorf("persisted = %q, want dark", p.values[state.KeyTheme])
	}
}

func TestToggleIsItsOwnInverse(t *testing.T) {
	st := state.New(nil, nil, testLogger())
	m := NewManager(st, nil, testLogger())

	before := m.CurrentName()
	m.Toggle()
	if m.CurrentName() == before {
		t.Fatal("toggle did not change theme")
	}
	m.Toggle()
	if got := m.CurrentName(); got != before {
		t.Errorf("double toggle = %q, want %q", got, before)
	}
}

func TestSetInvalidCoercesToLight(t *testing.T) {
	st := state.New(nil, nil, testLogger())
	m := NewManager(st, nil, testLogger())

	m.Set(Dark)
	m.Set("solarized")

	if got := m.CurrentName(); got != Light {
		t.Errorf("current after invalid set = %q, want light", got)
	}
}

func TestChangeEvent(t *testing.T) {
	b := bus.New(testLogger())
	st := state.New(nil, b, testLogger())
	m := NewManager(st, b, testLogger())

	var got ChangeEvent
	b.On(EventChanged, func(p any) { got = p.(ChangeEvent) })

	m.Set(Dark)

	if got.New != Dark || got.Old != Light {
		t.Errorf("event = %+v, want {dark light}", got)
	}
}

func TestStartCoercesPersistedGarbage(t *testing.T) {
	p := newMemPersister()
	p.values[state.KeyTheme] = "mauve"
	st := state.New(p, nil, testLogger())
	m := NewManager(st, nil, testLogger())

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := m.CurrentName(); got != Light {
		t.Errorf("current = %q, want light", got)
	}
}
