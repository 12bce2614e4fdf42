package i18n

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
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

func TestLookup(t *testing.T) {
	b := Bundle{
		"hero": map[string]any{
			"line1": "hello",
			"nested": map[string]any{
				"deep": "value",
			},
		},
		"count": float64(3),
	}

	cases := []struct {
		path   string
		want   any
		wantOK bool
	}{
		{"hero.line1", "hello", true},
		{"hero.nested.deep", "value", true},
		{"count", float64(3), true},
		{"hero.missing", nil, false},
		{"missing.line1", nil, false},
		{"hero.line1.deeper", nil, false}, // string is not indexable
		{"count.x", nil, false},
	}
	for _, tc := range cases {
		got, ok := Lookup(b, tc.path)
		if ok != tc.wantOK || (ok && got != tc.want) {
			t.Errorf("Lookup(%q) = (%v, %v), want (%v, %v)", tc.path, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestGetStringFallback(t *testing.T) {
	b := Bundle{"a": map[string]any{"b": map[string]any{"c": "leaf"}}, "n": float64(1)}

	if got := GetString(b, "a.b.c", "X"); got != "leaf" {
		t.Errorf("present leaf = %q, want leaf", got)
	}
	for _, path := range []string{"a.b.d", "a.x.c", "z.b.c"} {
		if got := GetString(b, path, "X"); got != "X" {
			t.Errorf("GetString(%q) = %q, want fallback X", path, got)
		}
	}
	if got := GetString(b, "n", "X"); got != "X" {
		t.Errorf("non-string leaf = %q, want fallback X", got)
	}
}

func TestParseBundleRejects(t *testing.T) {
	if _, err := ParseBundle([]byte(`["not", "an", "object"]`)); err == nil {
		t.Error("array accepted as bundle")
	}
	if _, err := ParseBundle([]byte(`{`)); err == nil {
		t.Error("malformed JSON accepted")
	}
	if _, err := ParseBundle([]byte(`{}`)); err == nil {
		t.Error("empty object accepted")
	}
}

func newTestManager(t *testing.T, p state.Persister, dirs ...string) (*Manager, *state.Manager, *bus.Bus) {
	t.Helper()
	b := bus.New(testLogger())
	st := state.New(p, b, testLogger())
	m := NewManager(st, b, testLogger(), dirs...)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return m, st, b
}

func TestStartLoadsDefaultLanguage(t *testing.T) {
	m, _, _ := newTestManager(t, nil)

	if m.Current() != state.DefaultLanguage {
		t.Errorf("current = %q, want %q", m.Current(), state.DefaultLanguage)
	}
	if m.Bundle() == nil {
		t.Fatal("no bundle after Start")
	}
	if got := m.T("hero.line1"); got == "hero.line1" {
		t.Error("hero.line1 not resolved from embedded bundle")
	}
}

func TestTranslationsNeverEmpty(t *testing.T) {
	m, _, _ := newTestManager(t, nil)

	// A language with no embedded bundle and no bundle dir still yields
	// renderable content.
	b := m.LoadTranslations("fr")
	if len(b) == 0 {
		t.Fatal("fallback bundle empty")
	}
	if GetString(b, "hero.line1", "") == "" {
		t.Error("fallback bundle missing hero.line1")
	}
}

func TestKoreanFallbackDiffers(t *testing.T) {
	ko := fallbackBundle("ko")
	en := fallbackBundle("en")
	if GetString(ko, "hero.line1", "") == GetString(en, "hero.line1", "") {
		t.Error("ko and en fallbacks share hero.line1")
	}
}

func TestSwitchToSameLanguageIsNoOp(t *testing.T) {
	m, _, b := newTestManager(t, nil)

	events := 0
	b.On(EventSwitching, func(any) { events++ })
	b.On(EventChanged, func(any) { events++ })

	m.SwitchLanguage(m.Current())

	if events != 0 {
		t.Errorf("events fired on same-language switch: %d", events)
	}
}

func TestSwitchDisabledControls(t *testing.T) {
	m, _, _ := newTestManager(t, nil)

	before := m.Current()
	m.SetControlsEnabled(false)
	m.SwitchLanguage("en")

	if m.Current() != before {
		t.Error("switch went through with controls disabled")
	}

	m.SetControlsEnabled(true)
	m.SwitchLanguage("en")
	if m.Current() != "en" {
		t.Error("switch blocked with controls enabled")
	}
}

func TestSwitchLifecycle(t *testing.T) {
	p := newMemPersister()
	m, st, b := newTestManager(t, p)

	var sequence []string
	b.On(EventSwitching, func(pl any) {
		sequence = append(sequence, "switching:"+pl.(SwitchEvent).Lang)
	})
	b.On(EventChanged, func(pl any) {
		sequence = append(sequence, "changed:"+pl.(ChangeEvent).Lang)
	})

	m.SwitchLanguage("en")

	if len(sequence) != 2 || sequence[0] != "switching:en" || sequence[1] != "changed:en" {
		t.Errorf("sequence = %v, want [switching:en changed:en]", sequence)
	}
	if p.values[state.KeyLanguage] != "en" {
		t.Errorf("language not persisted, got %q", p.values[state.KeyLanguage])
	}
	if st.Get(state.KeyTranslations) == nil {
		t.Error("translations state empty after switch")
	}
	if got := m.T("meta.title"); got != "Suhyeon Kim | Frontend Developer" {
		t.Errorf("title after switch = %q", got)
	}
}

func TestSimulatedReloadReselectsLanguage(t *testing.T) {
	p := newMemPersister()
	m, _, _ := newTestManager(t, p)
	m.SwitchLanguage("en")

	// A fresh manager over the same persister is a simulated reload.
	m2, _, _ := newTestManager(t, p)
	if m2.Current() != "en" {
		t.Errorf("reloaded language = %q, want en", m2.Current())
	}
}

func TestBundleDirTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	custom := `{"meta": {"title": "custom"}, "hero": {"line1": "custom line"}}`
	if err := os.WriteFile(filepath.Join(dir, "ko.json"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	m, _, _ := newTestManager(t, nil, dir)
	if got := m.T("meta.title"); got != "custom" {
		t.Errorf("title = %q, want custom (bundle dir should win)", got)
	}
}

func TestUnparseableBundleFileFallsThrough(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ko.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	m, _, _ := newTestManager(t, nil, dir)
	// The broken file is skipped; the embedded bundle serves instead.
	if got := m.T("meta.title"); got == "meta.title" {
		t.Error("embedded bundle did not serve after broken file")
	}
}

func TestLanguages(t *testing.T) {
	m, _, _ := newTestManager(t, nil)
	langs := m.Languages()
	if len(langs) != 2 || langs[0] != "en" || langs[1] != "ko" {
		t.Errorf("languages = %v, want [en ko]", langs)
	}
}

func TestSwitchNextCycles(t *testing.T) {
	m, _, _ := newTestManager(t, nil)

	first := m.Current()
	m.SwitchNext()
	second := m.Current()
	if second == first {
		t.Fatal("SwitchNext did not change language")
	}
	m.SwitchNext()
	if m.Current() != first {
		t.Errorf("cycle did not return to %q", first)
	}
}
