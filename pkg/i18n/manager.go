package i18n

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gitlab.com/tinyland/lab/termfolio/pkg/bus"
	"gitlab.com/tinyland/lab/termfolio/pkg/state"
)

//go:embed bundles/*.json
var builtinBundles embed.FS

// Bus events emitted around a language switch.
const (
	// EventSwitching fires before a switch starts loading.
	EventSwitching = "language:switching"
	// EventChanged fires after the new bundle is in state and a render
	// pass should run.
	EventChanged = "language:changed"
)

// SwitchEvent is the payload of EventSwitching.
type SwitchEvent struct {
	Lang string
}

// ChangeEvent is the payload of EventChanged.
type ChangeEvent struct {
	Lang   string
	Bundle Bundle
}

// Manager owns language switching and bundle loading. A switch is a small
// lifecycle: emit EventSwitching, disable the language control, update the
// language state key (persisted), load the bundle, publish it, emit
// EventChanged. Switching to the active language, or while a switch is
// in flight, is a no-op.
type Manager struct {
	st  *state.Manager
	bus *bus.Bus
	log *slog.Logger

	// bundleDirs are searched, in order, before the embedded bundles.
	bundleDirs []string

	loading         bool
	controlsEnabled bool
}

// NewManager builds an i18n manager. bundleDirs may be empty; the embedded
// bundles always back the ladder.
func NewManager(st *state.Manager, b *bus.Bus, log *slog.Logger, bundleDirs ...string) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		st:              st,
		bus:             b,
		log:             log,
		bundleDirs:      bundleDirs,
		controlsEnabled: true,
	}
}

// Name implements app.Manager.
func (m *Manager) Name() string { return "i18n" }

// Start loads the bundle for the seeded language so the first render always
// has content.
func (m *Manager) Start(ctx context.Context) error {
	lang := m.st.GetString(state.KeyLanguage)
	b := m.LoadTranslations(lang)
	m.st.Set(state.KeyTranslations, b)
	if m.bus != nil {
		m.bus.Emit(EventChanged, ChangeEvent{Lang: lang, Bundle: b})
	}
	return nil
}

// Stop implements app.Manager.
func (m *Manager) Stop() {}

// Current returns the active language code.
func (m *Manager) Current() string {
	return m.st.GetString(state.KeyLanguage)
}

// Bundle returns the loaded bundle, which is never nil after Start.
func (m *Manager) Bundle() Bundle {
	b, _ := m.st.Get(state.KeyTranslations).(Bundle)
	return b
}

// Languages lists the language codes with embedded bundles, sorted.
func (m *Manager) Languages() []string {
	entries, err := builtinBundles.ReadDir("bundles")
	if err != nil {
		return nil
	}
	var langs []string
	for _, e := range entries {
		langs = append(langs, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(langs)
	return langs
}

// SetControlsEnabled gates SwitchLanguage; the typing animation disables
// the control while a reveal is in progress.
func (m *Manager) SetControlsEnabled(enabled bool) {
	m.controlsEnabled = enabled
}

// CanSwitch reports whether a language switch would be accepted right now.
func (m *Manager) CanSwitch() bool {
	return m.controlsEnabled && !m.loading
}

// SwitchLanguage transitions to lang. No-ops: already-active language,
// switch in flight, controls disabled.
func (m *Manager) SwitchLanguage(lang string) {
	if lang == m.Current() || !m.CanSwitch() {
		return
	}
	m.loading = true
	defer func() { m.loading = false }()

	if m.bus != nil {
		m.bus.Emit(EventSwitching, SwitchEvent{Lang: lang})
	}

	m.st.Set(state.KeyLanguage, lang)
	b := m.LoadTranslations(lang)
	m.st.Set(state.KeyTranslations, b)

	if m.bus != nil {
		m.bus.Emit(EventChanged, ChangeEvent{Lang: lang, Bundle: b})
	}
}

// SwitchNext cycles to the next available language. Used by the single
// language key binding.
func (m *Manager) SwitchNext() {
	langs := m.Languages()
	if len(langs) < 2 {
		return
	}
	cur := m.Current()
	for i, l := range langs {
		if l == cur {
			m.SwitchLanguage(langs[(i+1)%len(langs)])
			return
		}
	}
	m.SwitchLanguage(langs[0])
}

// LoadTranslations resolves the bundle for lang through the candidate
// ladder: each configured bundle directory, then the embedded bundle. The
// first candidate that reads and parses as an object wins. Total failure
// returns the hardcoded fallback bundle, so the result is never empty.
func (m *Manager) LoadTranslations(lang string) Bundle {
	for _, dir := range m.bundleDirs {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, lang+".json")
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		b, err := ParseBundle(raw)
		if err != nil {
			m.log.Warn("skipping unparseable bundle", "path", path, "error", err)
			continue
		}
		m.log.Debug("loaded bundle", "lang", lang, "path", path)
		return b
	}

	raw, err := builtinBundles.ReadFile(fmt.Sprintf("bundles/%s.json", lang))
	if err == nil {
		if b, err := ParseBundle(raw); err == nil {
			return b
		}
	}

	m.log.Warn("no bundle found, using fallback content", "lang", lang)
	return fallbackBundle(lang)
}

// T resolves a dotted key path through the loaded bundle. Absent paths
// return fallback; with no fallback given, the path itself comes back.
func (m *Manager) T(path string, fallback ...string) string {
	def := path
	if len(fallback) > 0 {
		def = fallback[0]
	}
	return GetString(m.Bundle(), path, def)
}

// Title returns the document title for the active bundle.
func (m *Manager) Title() string {
	return m.T("meta.title", "termfolio")
}
