package blog

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"gitlab.com/tinyland/lab/termfolio/pkg/bus"
	"gitlab.com/tinyland/lab/termfolio/pkg/config"
	"gitlab.com/tinyland/lab/termfolio/pkg/store"
)

// Bus events.
const (
	// EventUpdated carries an UpdateEvent after the post list changed.
	EventUpdated = "blog:updated"
	// EventRefresh asks for a forced refetch that bypasses the freshness
	// window (the cache TTL still applies to what gets written back).
	EventRefresh = "blog:refresh"
)

// cacheKey is the store entry holding the fetched post list.
const cacheKey = "blog:feed"

// UpdateEvent is the payload of EventUpdated.
type UpdateEvent struct {
	Posts     []PostSummary
	FromCache bool
}

// Manager owns the blog section's data: cached posts, the fetch strategy
// chain, and the bundled fallback content.
type Manager struct {
	cfg    config.BlogConfig
	cache  *store.Store
	bus    *bus.Bus
	log    *slog.Logger
	client *http.Client

	strategies []Strategy

	// fallback supplies the bundled posts for the active language when
	// neither the network nor the cache can.
	fallback func() []PostSummary

	mu        sync.Mutex
	posts     []PostSummary
	forceNext bool
	unsub     func()
}

// NewManager builds a blog manager over the given cache store.
func NewManager(cfg config.BlogConfig, cache *store.Store, b *bus.Bus, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	m := &Manager{
		cfg:    cfg,
		cache:  cache,
		bus:    b,
		log:    log.With("component", "blog"),
		client: &http.Client{Timeout: cfg.RequestTimeout.Duration},
	}
	m.strategies = []Strategy{directStrategy{}}
	if cfg.ProxyEnvelope != "" {
		m.strategies = append(m.strategies, envelopeStrategy{endpoint: cfg.ProxyEnvelope})
	}
	if cfg.ProxyJSON != "" {
		m.strategies = append(m.strategies, jsonItemsStrategy{endpoint: cfg.ProxyJSON})
	}
	return m
}

// SetFallback installs the bundled-content supplier. Wired by the app so
// this package stays independent of the bundle format.
func (m *Manager) SetFallback(f func() []PostSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = f
}

// SetStrategies replaces the fetch chain. Tests use this to point the
// manager at local servers.
func (m *Manager) SetStrategies(s []Strategy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strategies = s
}

// Name implements app.Manager.
func (m *Manager) Name() string { return "blog" }

// Start implements app.Manager. The initial load runs from the TUI so the
// first frame is not blocked on the network.
func (m *Manager) Start(ctx context.Context) error {
	if m.bus != nil {
		m.unsub = m.bus.On(EventRefresh, func(any) {
			m.mu.Lock()
			m.forceNext = true
			m.mu.Unlock()
		})
	}
	return nil
}

// Stop implements app.Manager.
func (m *Manager) Stop() {
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
}

// Posts returns the current post list.
func (m *Manager) Posts() []PostSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PostSummary(nil), m.posts...)
}

// Load produces the post list: cache first, then the strategy chain, then
// the bundled fallback. With force false a cache entry younger than the
// freshness window suppresses the network entirely. The returned list is
// never empty. Safe to call from a fetch goroutine.
func (m *Manager) Load(ctx context.Context, force bool) []PostSummary {
	m.mu.Lock()
	if m.forceNext {
		force = true
		m.forceNext = false
	}
	strategies := m.strategies
	m.mu.Unlock()

	if !m.cfg.Enabled {
		return m.settle(m.bundled(), true)
	}

	cached, _, haveCache := store.GetTyped[[]PostSummary](m.cache, cacheKey)
	if !force && haveCache && m.cache.Fresh(cacheKey, m.cfg.FreshWithin.Duration) {
		m.log.Debug("cache fresh, skipping fetch", "posts", len(cached))
		return m.settle(cached, true)
	}
	if haveCache {
		// An unexpired cache renders immediately; the fetch below only
		// replaces it when the list actually changed.
		m.settle(cached, true)
	}

	posts, ok := m.fetch(ctx, strategies)
	if !ok {
		if haveCache {
			m.log.Warn("all fetch strategies failed, serving cached posts")
			return m.settle(cached, true)
		}
		m.log.Warn("all fetch strategies failed, serving bundled posts")
		return m.settle(m.bundled(), true)
	}

	if m.cfg.MaxPosts > 0 && len(posts) > m.cfg.MaxPosts {
		posts = posts[:m.cfg.MaxPosts]
	}

	if haveCache && SamePosts(posts, cached) {
		m.log.Debug("fetched posts unchanged")
		return m.settle(cached, false)
	}

	if err := m.cache.Put(cacheKey, posts, m.cfg.CacheTTL.Duration); err != nil {
		m.log.Warn("cache write failed", "error", err)
	}
	return m.settle(posts, false)
}

// fetch walks the strategy chain until one returns posts.
func (m *Manager) fetch(ctx context.Context, strategies []Strategy) ([]PostSummary, bool) {
	for _, s := range strategies {
		attempt, cancel := context.WithTimeout(ctx, m.cfg.RequestTimeout.Duration)
		posts, err := s.Fetch(attempt, m.client, m.cfg.FeedURL)
		cancel()
		if err != nil {
			m.log.Debug("fetch strategy failed", "strategy", s.Name(), "error", err)
			continue
		}
		m.log.Info("feed fetched", "strategy", s.Name(), "posts", len(posts))
		return posts, true
	}
	return nil, false
}

// settle records the new post list and emits an update when it differs
// from what the section already shows.
func (m *Manager) settle(posts []PostSummary, fromCache bool) []PostSummary {
	m.mu.Lock()
	changed := !SamePosts(posts, m.posts)
	if changed {
		m.posts = append([]PostSummary(nil), posts...)
	}
	m.mu.Unlock()

	if changed && m.bus != nil {
		m.bus.Emit(EventUpdated, UpdateEvent{Posts: posts, FromCache: fromCache})
	}
	return posts
}

// bundled returns the fallback posts, guaranteed non-empty.
func (m *Manager) bundled() []PostSummary {
	m.mu.Lock()
	f := m.fallback
	m.mu.Unlock()

	if f != nil {
		if posts := f(); len(posts) > 0 {
			return posts
		}
	}
	return []PostSummary{{
		Title:       "Posts are unavailable right now",
		Description: "Could not reach the feed. Cached and bundled posts were also empty.",
		Source:      sourceLabel,
	}}
}
