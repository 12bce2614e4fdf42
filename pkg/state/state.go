// Package state holds the application's shared mutable state: active theme,
// active language, menu open flag, typing-animation completion, and the
// loaded translation bundle. Managers never reach into each other; they read
// and write keys here and subscribe to the ones they care about.
//
// Theme and language survive restarts through a Persister; everything else
// resets each session.
package state

import (
	"log/slog"
	"sync"

	"gitlab.com/tinyland/lab/termfolio/pkg/bus"
)

// State keys. Only KeyTheme and KeyLanguage are persisted.
const (
	KeyTheme          = "theme"
	KeyLanguage       = "language"
	KeyNavOpen        = "nav.open"
	KeyTypingComplete = "typing.complete"
	KeyTranslations   = "translations"
)

// Session defaults for the transient keys.
const (
	DefaultTheme    = "light"
	DefaultLanguage = "ko"
)

// EventChanged fires on the bus after every Set, carrying a Change payload.
const EventChanged = "state:changed"

// Change is the payload of EventChanged.
type Change struct {
	Key string
	New any
	Old any
}

// Persister stores the string-valued persisted keys across sessions.
type Persister interface {
	PutString(key, value string) error
	GetString(key string) (string, bool)
	Delete(key string) error
}

// Subscriber receives the new and old value after a key changes. Old is nil
// on the Reset notification.
type Subscriber func(newValue, oldValue any)

type subEntry struct {
	id int
	fn Subscriber
}

// Manager is the reactive key/value store. All notification happens
// synchronously inside Set, in subscription order.
type Manager struct {
	mu      sync.Mutex
	values  map[string]any
	subs    map[string][]subEntry
	nextID  int
	persist Persister
	bus     *bus.Bus
	log     *slog.Logger
}

// persistedKeys is the set of keys written through the Persister.
var persistedKeys = map[string]bool{
	KeyTheme:    true,
	KeyLanguage: true,
}

// New builds a Manager seeded from defaults, with theme and language read
// back from the persister when present.
func New(p Persister, b *bus.Bus, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	m := &Manager{
		values:  defaults(),
		subs:    make(map[string][]subEntry),
		persist: p,
		bus:     b,
		log:     log,
	}
	if p != nil {
		for key := range persistedKeys {
			if v, ok := p.GetString(key); ok && v != "" {
				m.values[key] = v
			}
		}
	}
	return m
}

func defaults() map[string]any {
	return map[string]any{
		KeyTheme:          DefaultTheme,
		KeyLanguage:       DefaultLanguage,
		KeyNavOpen:        false,
		KeyTypingComplete: false,
		KeyTranslations:   nil,
	}
}

// Get returns the value for key, or nil for unknown keys.
func (m *Manager) Get(key string) any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key]
}

// GetString returns the value for key as a string, or "" when it is not one.
func (m *Manager) GetString(key string) string {
	v, _ := m.Get(key).(string)
	return v
}

// GetBool returns the value for key as a bool, or false when it is not one.
func (m *Manager) GetBool(key string) bool {
	v, _ := m.Get(key).(bool)
	return v
}

// Snapshot returns a copy of the whole state map.
func (m *Manager) Snapshot() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]any, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// Set overwrites key with value, persists it when the key is in the
// persisted set, notifies that key's subscribers in subscription order with
// (new, old), then emits EventChanged on the bus.
func (m *Manager) Set(key string, value any) {
	m.mu.Lock()
	old := m.values[key]
	m.values[key] = value
	subs := m.snapshotSubs(key)
	m.mu.Unlock()

	if persistedKeys[key] && m.persist != nil {
		if s, ok := value.(string); ok {
			if err := m.persist.PutString(key, s); err != nil {
				m.log.Warn("failed to persist state key", "key", key, "error", err)
			}
		}
	}

	for _, e := range subs {
		m.notify(key, e, value, old)
	}

	if m.bus != nil {
		m.bus.Emit(EventChanged, Change{Key: key, New: value, Old: old})
	}
}

// Subscribe registers fn for changes to key and returns an unsubscribe
// function.
func (m *Manager) Subscribe(key string, fn Subscriber) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.subs[key] = append(m.subs[key], subEntry{id: id, fn: fn})
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		list := m.subs[key]
		for i, e := range list {
			if e.id == id {
				m.subs[key] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Reset restores every key to its default, clears the persisted keys from
// durable storage, and notifies every key's subscribers with a nil old
// value.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.values = defaults()
	snapshot := make(map[string][]subEntry, len(m.subs))
	for k := range m.subs {
		snapshot[k] = m.snapshotSubs(k)
	}
	m.mu.Unlock()

	if m.persist != nil {
		for key := range persistedKeys {
			if err := m.persist.Delete(key); err != nil {
				m.log.Warn("failed to clear persisted state key", "key", key, "error", err)
			}
		}
	}

	for key, subs := range snapshot {
		v := m.Get(key)
		for _, e := range subs {
			m.notify(key, e, v, nil)
		}
	}
}

// snapshotSubs copies the subscriber list for key. Caller must hold m.mu.
func (m *Manager) snapshotSubs(key string) []subEntry {
	list := m.subs[key]
	out := make([]subEntry, len(list))
	copy(out, list)
	return out
}

func (m *Manager) notify(key string, e subEntry, newValue, oldValue any) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("state subscriber panicked", "key", key, "panic", r)
		}
	}()
	e.fn(newValue, oldValue)
}
