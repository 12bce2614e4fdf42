package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/termfolio/pkg/blog"
	"gitlab.com/tinyland/lab/termfolio/pkg/i18n"
	"gitlab.com/tinyland/lab/termfolio/pkg/typing"
)

// renderer turns bundle content into section text. It holds everything a
// single render pass needs; the model rebuilds it when the theme, language,
// or width changes.
type renderer struct {
	styles Styles
	bundle i18n.Bundle
	zones  *zone.Manager
}

// caretRune is the typing caret glyph.
const caretRune = "▌"

// hero renders line one, the colored segments of line two, the caret, and
// the subtitle once the reveal completes.
func (r *renderer) hero(tm *typing.Manager, caretVisible bool) string {
	var b strings.Builder
	b.WriteString("\n")

	line1 := r.styles.HeroLine1.Render(tm.Line1())
	if !tm.CaretOnLine2() && caretVisible {
		line1 += r.styles.Caret.Render(caretRune)
	}
	b.WriteString(line1)
	b.WriteString("\n\n")

	var line2 strings.Builder
	for _, seg := range tm.Line2Segments() {
		text := string(seg.Text)
		switch seg.Kind {
		case typing.KindName:
			line2.WriteString(r.styles.HeroName.Render(text))
		case typing.KindRest:
			line2.WriteString(r.styles.HeroText.Render(text))
		default:
			line2.WriteString(r.styles.HeroText.Render(text))
		}
	}
	if tm.CaretOnLine2() && caretVisible {
		line2.WriteString(r.styles.Caret.Render(caretRune))
	}
	b.WriteString(line2.String())
	b.WriteString("\n")

	if tm.Done() {
		b.WriteString("\n")
		b.WriteString(r.styles.Dim.Render(i18n.GetString(r.bundle, "hero.subtitle", "")))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *renderer) about() string {
	var b strings.Builder
	b.WriteString(r.styles.SectionTitle.Render(i18n.GetString(r.bundle, "about.title", "About")))
	b.WriteString("\n")
	for _, p := range i18n.GetStrings(r.bundle, "about.paragraphs") {
		b.WriteString(r.styles.Body.Render(p))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func (r *renderer) projects() string {
	var b strings.Builder
	b.WriteString(r.styles.SectionTitle.Render(i18n.GetString(r.bundle, "projects.title", "Projects")))
	b.WriteString("\n")
	for _, item := range i18n.GetObjects(r.bundle, "projects.items") {
		name, _ := item["name"].(string)
		desc, _ := item["description"].(string)
		link, _ := item["link"].(string)

		var card strings.Builder
		card.WriteString(r.styles.HeroName.Render(name))
		if tags := objectStrings(item, "tags"); len(tags) > 0 {
			card.WriteString("  " + r.styles.Tag.Render(strings.Join(tags, " · ")))
		}
		card.WriteString("\n")
		card.WriteString(desc)
		if link != "" {
			card.WriteString("\n")
			card.WriteString(r.zones.Mark("link:"+name, r.styles.CardLink.Render(link)))
		}
		b.WriteString(r.styles.Card.Render(card.String()))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *renderer) skills() string {
	var b strings.Builder
	b.WriteString(r.styles.SectionTitle.Render(i18n.GetString(r.bundle, "skills.title", "Skills")))
	b.WriteString("\n")
	for _, group := range i18n.GetObjects(r.bundle, "skills.groups") {
		name, _ := group["name"].(string)
		items := objectStrings(group, "items")
		b.WriteString(fmt.Sprintf("%s  %s\n",
			r.styles.HeroName.Render(name),
			strings.Join(items, ", ")))
	}
	return b.String()
}

// blogSection renders the post grid. While a fetch is in flight the
// spinner line sits above the grid; posts already on screen stay rendered
// and are only replaced when the fetch settles with a different list.
func (r *renderer) blogSection(posts []blog.PostSummary, loading bool, spinnerView string) string {
	var b strings.Builder
	b.WriteString(r.styles.SectionTitle.Render(i18n.GetString(r.bundle, "blog.title", "Blog")))
	b.WriteString("\n")

	if loading {
		b.WriteString(spinnerView)
		b.WriteString(" " + r.styles.Dim.Render(i18n.GetString(r.bundle, "blog.loading", "Loading posts...")))
		b.WriteString("\n")
	}
	if len(posts) == 0 {
		if !loading {
			b.WriteString(r.styles.Dim.Render(i18n.GetString(r.bundle, "blog.empty", "No posts loaded yet.")))
			b.WriteString("\n")
		}
		return b.String()
	}

	for _, p := range posts {
		var card strings.Builder
		card.WriteString(r.styles.HeroName.Render(p.Title))
		card.WriteString("  " + r.styles.Dim.Render(p.Date))
		card.WriteString("\n")
		card.WriteString(p.Description)
		if len(p.Tags) > 0 {
			card.WriteString("\n" + r.styles.Tag.Render("#"+strings.Join(p.Tags, " #")))
		}
		if p.Link != "" {
			card.WriteString("\n" + r.zones.Mark("post:"+p.Link, r.styles.CardLink.Render(p.Link)))
		}
		b.WriteString(r.styles.Card.Render(card.String()))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *renderer) footer() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(r.styles.Dim.Render(i18n.GetString(r.bundle, "footer.text", "")))
	b.WriteString("\n")

	var links []string
	for _, k := range []string{"github", "email", "blog"} {
		if v := i18n.GetString(r.bundle, "social."+k, ""); v != "" {
			links = append(links, r.zones.Mark("social:"+k, r.styles.CardLink.Render(v)))
		}
	}
	if len(links) > 0 {
		b.WriteString(strings.Join(links, r.styles.Dim.Render("  ·  ")))
		b.WriteString("\n")
	}
	return b.String()
}

// header renders the fixed bar: brand plus one nav entry per section, the
// active one highlighted. Entries are zone-marked for mouse clicks.
func (r *renderer) header(sectionIDs []string, active string, compact bool) string {
	brand := r.styles.Brand.Render(i18n.GetString(r.bundle, "meta.title", "termfolio"))
	if compact {
		menu := r.zones.Mark("nav:menu", r.styles.NavItem.Render("≡ "+i18n.GetString(r.bundle, "ui.menu", "Menu")))
		return r.styles.Header.Render(brand + "  " + menu)
	}

	var items []string
	for _, id := range sectionIDs {
		label := i18n.GetString(r.bundle, "ui.nav."+id, id)
		style := r.styles.NavItem
		if id == active {
			style = r.styles.NavHot
		}
		items = append(items, r.zones.Mark("nav:"+id, style.Render(label)))
	}
	return r.styles.Header.Render(brand + "  " + lipgloss.JoinHorizontal(lipgloss.Top, items...))
}

// menuOverlay renders the compact-mode full menu.
func (r *renderer) menuOverlay(sectionIDs []string, active string) string {
	var b strings.Builder
	for _, id := range sectionIDs {
		label := i18n.GetString(r.bundle, "ui.nav."+id, id)
		style := r.styles.NavItem
		if id == active {
			style = r.styles.NavHot
		}
		b.WriteString(r.zones.Mark("menu:"+id, style.Render(label)))
		b.WriteString("\n")
	}
	return r.zones.Mark("menu", r.styles.MenuOverlay.Render(strings.TrimRight(b.String(), "\n")))
}

// objectStrings pulls a []string field out of a decoded JSON object.
func objectStrings(obj map[string]any, key string) []string {
	list, ok := obj[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
