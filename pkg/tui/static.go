package tui

import (
	"context"
	"strings"

	"gitlab.com/tinyland/lab/termfolio/pkg/nav"
)

// Static renders the whole document at the given width with the reveal
// already finished, for -print mode and piped output. The blog section is
// loaded synchronously through the normal cache-then-network path.
func Static(ctx context.Context, m *Model, width int) string {
	m.width = width
	m.height = width // tall enough that clamping never hides content
	m.ready = true
	m.deps.Nav.SetViewport(width, m.height)
	m.rebuildStyles()

	m.startTyping()
	for m.deps.Typing.Tick() {
	}
	m.caretVisible = false
	m.posts = m.deps.Blog.Load(ctx, false)
	m.rebuildContent()

	var b strings.Builder
	b.WriteString(m.renderer.header(nav.SectionIDs, m.deps.Nav.Active(), false))
	b.WriteString("\n")
	b.WriteString(strings.Join(m.content, "\n"))
	b.WriteString("\n")
	return b.String()
}
