// Package bus provides the synchronous publish/subscribe registry that
// connects the feature managers. Handlers for one event name run in
// registration order; handlers for different event names have no ordering
// relationship. A handler may emit further events (re-entrant dispatch), but
// nesting is capped so a feedback loop degrades into dropped events instead
// of unbounded recursion.
package bus

import (
	"log/slog"
	"sync"
)

// maxEmitDepth bounds re-entrant dispatch. An Emit issued from a handler
// already maxEmitDepth levels deep is dropped and logged.
const maxEmitDepth = 8

// Handler receives the payload passed to Emit. Payloads carrying multiple
// values are structs defined next to the event name constant.
type Handler func(payload any)

type entry struct {
	id   int
	fn   Handler
	once bool
}

// Bus is a session-scoped event registry. The zero value is not usable;
// construct with New.
type Bus struct {
	mu       sync.Mutex
	handlers map[string][]entry
	nextID   int
	// depth counts in-flight Emit calls across all goroutines. The cap
	// bounds total nesting, not nesting per goroutine; concurrent emits
	// from fetch goroutines count toward it, which only matters if they
	// stack maxEmitDepth deep simultaneously.
	depth int
	log   *slog.Logger
}

// New creates an empty Bus. A nil logger falls back to slog.Default.
func New(log *slog.Logger) *Bus {
	if log == nil {
		log = slog.Default()
	}
	return &Bus{
		handlers: make(map[string][]entry),
		log:      log,
	}
}

// On registers h for event and returns a function that removes exactly this
// registration. Calling the returned function more than once is harmless.
func (b *Bus) On(event string, h Handler) func() {
	return b.register(event, h, false)
}

// Once registers h for a single delivery. The registration is removed before
// h runs, so a handler that re-emits its own event does not loop.
func (b *Bus) Once(event string, h Handler) func() {
	return b.register(event, h, true)
}

func (b *Bus) register(event string, h Handler, once bool) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.handlers[event] = append(b.handlers[event], entry{id: id, fn: h, once: once})
	return func() { b.remove(event, id) }
}

func (b *Bus) remove(event string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.handlers[event]
	for i, e := range list {
		if e.id == id {
			b.handlers[event] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Emit invokes every handler registered for event, synchronously and in
// registration order. A panicking handler is recovered and logged so the
// remaining handlers still run.
func (b *Bus) Emit(event string, payload any) {
	b.mu.Lock()
	if b.depth >= maxEmitDepth {
		b.mu.Unlock()
		b.log.Warn("event dropped: emit depth exceeded", "event", event, "depth", maxEmitDepth)
		return
	}
	b.depth++
	list := b.handlers[event]
	snapshot := make([]entry, len(list))
	copy(snapshot, list)

	// Drop one-time registrations before dispatch.
	if n := filterOnce(list); n != len(list) {
		b.handlers[event] = list[:n]
	}
	b.mu.Unlock()

	for _, e := range snapshot {
		b.invoke(event, e, payload)
	}

	b.mu.Lock()
	b.depth--
	b.mu.Unlock()
}

// filterOnce compacts list in place, keeping only repeatable entries, and
// returns the new length.
func filterOnce(list []entry) int {
	n := 0
	for _, e := range list {
		if !e.once {
			list[n] = e
			n++
		}
	}
	return n
}

func (b *Bus) invoke(event string, e entry, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event handler panicked", "event", event, "panic", r)
		}
	}()
	e.fn(payload)
}

// Clear removes every handler for every event.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[string][]entry)
}

// HandlerCount reports how many handlers are registered for event.
func (b *Bus) HandlerCount(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[event])
}
