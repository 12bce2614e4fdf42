// Package tui renders the portfolio as a scrolling bubbletea document: a
// fixed header with nav entries, the six content sections, and a help bar.
// All section state lives in the managers; the model translates key and
// mouse input into manager calls and re-renders from their answers.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/termfolio/pkg/app"
	"gitlab.com/tinyland/lab/termfolio/pkg/blog"
	"gitlab.com/tinyland/lab/termfolio/pkg/bus"
	"gitlab.com/tinyland/lab/termfolio/pkg/config"
	"gitlab.com/tinyland/lab/termfolio/pkg/i18n"
	"gitlab.com/tinyland/lab/termfolio/pkg/nav"
	"gitlab.com/tinyland/lab/termfolio/pkg/state"
	"gitlab.com/tinyland/lab/termfolio/pkg/theme"
	"gitlab.com/tinyland/lab/termfolio/pkg/typing"
)

// headerRows is the rendered height of the fixed header (title row plus
// bottom border). Kept aligned with nav.HeaderOffset minus the scroll
// breathing row.
const headerRows = 2

// caretBlinkInterval drives the hero caret.
const caretBlinkInterval = 530 * time.Millisecond

type (
	typingTickMsg  struct{}
	caretBlinkMsg  struct{}
	resizeDoneMsg  struct{ seq int }
	postsLoadedMsg struct{ posts []blog.PostSummary }
)

// Deps bundles the constructed managers the model drives.
type Deps struct {
	App    *app.App
	Bus    *bus.Bus
	State  *state.Manager
	Theme  *theme.Manager
	Nav    *nav.Manager
	I18n   *i18n.Manager
	Typing *typing.Manager
	Blog   *blog.Manager
	Log    *slog.Logger
}

// Model is the bubbletea model for the whole application.
type Model struct {
	cfg  config.Config
	deps Deps
	log  *slog.Logger

	keys  keyMap
	help  help.Model
	spin  spinner.Model
	zones *zone.Manager

	styles   Styles
	renderer renderer

	width  int
	height int
	ready  bool

	caretVisible bool
	fetching     bool
	posts        []blog.PostSummary
	errText      string
	showHelp     bool

	content   []string
	resizeSeq int
}

// NewModel wires the model to the managers and connects the typing /
// language interlock on the bus.
func NewModel(cfg config.Config, deps Deps) *Model {
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	m := &Model{
		cfg:          cfg,
		deps:         deps,
		log:          deps.Log.With("component", "tui"),
		keys:         defaultKeyMap(),
		help:         help.New(),
		zones:        zone.New(),
		caretVisible: true,
	}
	m.spin = spinner.New(spinner.WithSpinner(spinner.Dot))

	// The language control stays disabled while the hero reveal runs.
	deps.Bus.On(typing.EventStarted, func(any) { deps.I18n.SetControlsEnabled(false) })
	deps.Bus.On(typing.EventCompleted, func(any) { deps.I18n.SetControlsEnabled(true) })
	deps.Bus.On(typing.EventStopped, func(any) { deps.I18n.SetControlsEnabled(true) })

	// Bundled posts back the blog section when the network and cache
	// both come up empty.
	deps.Blog.SetFallback(func() []blog.PostSummary {
		return bundledPosts(deps.I18n.Bundle())
	})

	m.rebuildStyles()
	if degraded := deps.App.Degraded(); len(degraded) > 0 {
		m.errText = "degraded: " + strings.Join(degraded, ", ")
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.startTyping()
	m.fetching = true
	return tea.Batch(
		tea.SetWindowTitle(m.deps.I18n.Title()),
		m.spin.Tick,
		m.typingTick(),
		m.caretBlink(),
		m.fetchPosts(false),
	)
}

// Update implements tea.Model. A panic anywhere below is recovered into
// the error banner; "r" clears it and rendering continues from the last
// good state.
func (m *Model) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("update loop panic", "panic", r)
			m.errText = fmt.Sprintf("%v", r)
			m.syncViewport()
			model, cmd = m, nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.syncViewport()
		m.resizeSeq++
		seq := m.resizeSeq
		if !m.ready {
			// First size message renders immediately; later ones
			// debounce so resize drags do not thrash the layout.
			m.ready = true
			m.rebuildStyles()
			m.rebuildContent()
			return m, nil
		}
		return m, tea.Tick(m.cfg.Typing.ResizeDebounce.Duration, func(time.Time) tea.Msg {
			return resizeDoneMsg{seq: seq}
		})

	case resizeDoneMsg:
		// Only the last resize in a burst settles; the reveal is never
		// restarted for geometry changes.
		if msg.seq == m.resizeSeq {
			m.rebuildStyles()
			m.rebuildContent()
		}
		return m, nil

	case typingTickMsg:
		if m.deps.Typing.Tick() {
			m.rebuildContent()
			return m, m.typingTick()
		}
		m.rebuildContent()
		return m, nil

	case caretBlinkMsg:
		m.caretVisible = !m.caretVisible
		m.rebuildContent()
		return m, m.caretBlink()

	case spinner.TickMsg:
		if !m.fetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		m.rebuildContent()
		return m, cmd

	case postsLoadedMsg:
		m.fetching = false
		m.posts = msg.posts
		m.rebuildContent()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit

	case key.Matches(msg, k.Escape):
		if m.deps.Nav.HandleEscape() {
			m.rebuildContent()
		}
		return m, nil

	case key.Matches(msg, k.Menu):
		m.deps.Nav.Toggle()
		m.rebuildContent()
		return m, nil

	case key.Matches(msg, k.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case key.Matches(msg, k.Theme):
		m.deps.Theme.Toggle()
		m.rebuildStyles()
		m.rebuildContent()
		return m, nil

	case key.Matches(msg, k.Language):
		before := m.deps.I18n.Current()
		m.deps.I18n.SwitchNext()
		if m.deps.I18n.Current() == before {
			return m, nil
		}
		m.startTyping()
		m.rebuildContent()
		return m, tea.Batch(
			tea.SetWindowTitle(m.deps.I18n.Title()),
			m.typingTick(),
		)

	case key.Matches(msg, k.Refresh):
		if m.errText != "" {
			m.errText = ""
			m.syncViewport()
			m.rebuildContent()
			return m, nil
		}
		m.fetching = true
		m.deps.Bus.Emit(blog.EventRefresh, nil)
		m.rebuildContent()
		return m, tea.Batch(m.spin.Tick, m.fetchPosts(true))

	case key.Matches(msg, k.Back):
		if _, ok := m.deps.Nav.Back(); ok {
			m.rebuildContent()
		}
		return m, nil

	case key.Matches(msg, k.Section):
		idx := int(msg.String()[0] - '1')
		if idx >= 0 && idx < len(nav.SectionIDs) {
			m.scrollTo(nav.SectionIDs[idx])
		}
		return m, nil

	case key.Matches(msg, k.Up):
		m.deps.Nav.ScrollBy(-1)
		return m, nil
	case key.Matches(msg, k.Down):
		m.deps.Nav.ScrollBy(1)
		return m, nil
	case key.Matches(msg, k.PageUp):
		m.deps.Nav.ScrollBy(-m.contentRows())
		return m, nil
	case key.Matches(msg, k.PageDown):
		m.deps.Nav.ScrollBy(m.contentRows())
		return m, nil
	case key.Matches(msg, k.Top):
		m.scrollTo("hero")
		return m, nil
	case key.Matches(msg, k.Bottom):
		m.scrollTo("footer")
		return m, nil
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.deps.Nav.ScrollBy(-3)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.deps.Nav.ScrollBy(3)
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	if m.deps.Nav.IsOpen() {
		for _, id := range nav.SectionIDs {
			if m.zones.Get("menu:" + id).InBounds(msg) {
				m.deps.Nav.Close()
				m.scrollTo(id)
				return m, nil
			}
		}
		if !m.zones.Get("menu").InBounds(msg) {
			m.deps.Nav.HandleOutsideClick()
			m.rebuildContent()
		}
		return m, nil
	}

	if m.zones.Get("nav:menu").InBounds(msg) {
		m.deps.Nav.Open()
		m.rebuildContent()
		return m, nil
	}
	for _, id := range nav.SectionIDs {
		if m.zones.Get("nav:" + id).InBounds(msg) {
			m.scrollTo(id)
			return m, nil
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderer.header(nav.SectionIDs, m.deps.Nav.Active(), m.deps.Nav.Compact()))
	b.WriteString("\n")

	if m.errText != "" {
		b.WriteString(m.styles.ErrorBanner.Render(
			m.deps.I18n.T("ui.error", "Something went wrong. Press r to recover.") + " (" + m.errText + ")"))
		b.WriteString("\n")
	}

	if m.deps.Nav.IsOpen() && m.deps.Nav.Compact() {
		b.WriteString(m.renderer.menuOverlay(nav.SectionIDs, m.deps.Nav.Active()))
		b.WriteString("\n")
	} else {
		b.WriteString(m.window())
		b.WriteString("\n")
	}

	b.WriteString(m.styles.HelpBar.Render(m.help.View(m.keys)))
	return m.zones.Scan(b.String())
}

// window slices the rendered document at the nav offset.
func (m *Model) window() string {
	rows := m.contentRows()
	offset := m.deps.Nav.Offset()
	if offset > len(m.content) {
		offset = len(m.content)
	}
	end := offset + rows
	if end > len(m.content) {
		end = len(m.content)
	}
	return strings.Join(m.content[offset:end], "\n")
}

// syncViewport reports the content-window geometry to the nav manager.
// Nav must see the rows the document actually scrolls in, not the full
// terminal height, or clamping strands the last rows off screen.
func (m *Model) syncViewport() {
	m.deps.Nav.SetViewport(m.width, m.contentRows())
}

// contentRows is the height available to the scrolling document.
func (m *Model) contentRows() int {
	rows := m.height - headerRows - 1
	if m.errText != "" {
		rows--
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

// scrollTo routes a section jump through the nav manager.
func (m *Model) scrollTo(id string) {
	if _, ok := m.deps.Nav.ScrollTo(id); ok {
		m.rebuildContent()
	}
}

// startTyping kicks the hero reveal for the active language.
func (m *Model) startTyping() {
	bundle := m.deps.I18n.Bundle()
	m.deps.Typing.RestartAnimation(
		i18n.GetString(bundle, "hero.line1", ""),
		i18n.GetString(bundle, "hero.line2", ""),
		m.deps.I18n.Current(),
	)
}

// rebuildStyles re-derives the lipgloss styles from the active theme.
func (m *Model) rebuildStyles() {
	width := m.width
	if width <= 0 {
		width = m.cfg.General.CompactWidth
	}
	m.styles = NewStyles(m.deps.Theme.Current(), width)
	m.renderer = renderer{styles: m.styles, bundle: m.deps.I18n.Bundle(), zones: m.zones}
}

// rebuildContent renders all sections, records their layout with the nav
// manager, and caches the document lines for windowed viewing.
func (m *Model) rebuildContent() {
	m.renderer.bundle = m.deps.I18n.Bundle()

	chunks := []struct {
		id   string
		text string
	}{
		{"hero", m.renderer.hero(m.deps.Typing, m.caretVisible)},
		{"about", m.renderer.about()},
		{"projects", m.renderer.projects()},
		{"skills", m.renderer.skills()},
		{"blog", m.renderer.blogSection(m.posts, m.fetching, m.spin.View())},
		{"footer", m.renderer.footer()},
	}

	var lines []string
	sections := make([]nav.Section, 0, len(chunks))
	for _, c := range chunks {
		chunkLines := strings.Split(strings.TrimRight(c.text, "\n"), "\n")
		sections = append(sections, nav.Section{
			ID:     c.id,
			Top:    len(lines),
			Height: len(chunkLines),
		})
		lines = append(lines, chunkLines...)
	}

	m.content = lines
	m.deps.Nav.SetSections(sections)
}

// typingTick schedules the next reveal step.
func (m *Model) typingTick() tea.Cmd {
	return tea.Tick(m.cfg.Typing.TickInterval.Duration, func(time.Time) tea.Msg {
		return typingTickMsg{}
	})
}

// caretBlink schedules the next caret toggle.
func (m *Model) caretBlink() tea.Cmd {
	return tea.Tick(caretBlinkInterval, func(time.Time) tea.Msg {
		return caretBlinkMsg{}
	})
}

// fetchPosts loads the feed off the update loop.
func (m *Model) fetchPosts(force bool) tea.Cmd {
	blogMgr := m.deps.Blog
	timeout := m.cfg.Blog.RequestTimeout.Duration
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*timeout)
		defer cancel()
		return postsLoadedMsg{posts: blogMgr.Load(ctx, force)}
	}
}

// bundledPosts converts the bundle's blog.posts list into post summaries.
func bundledPosts(b i18n.Bundle) []blog.PostSummary {
	var posts []blog.PostSummary
	for _, obj := range i18n.GetObjects(b, "blog.posts") {
		title, _ := obj["title"].(string)
		desc, _ := obj["description"].(string)
		date, _ := obj["date"].(string)
		link, _ := obj["link"].(string)
		posts = append(posts, blog.PostSummary{
			Title:       title,
			Description: desc,
			Date:        date,
			Link:        link,
			Tags:        objectStrings(obj, "tags"),
			Source:      "bundle",
		})
	}
	return posts
}
