package tui

import (
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/termfolio/pkg/theme"
)

// contentWidth caps the rendered column so wide terminals keep a readable
// measure.
const contentWidth = 96

// Styles holds every lipgloss style the renderers use, derived from the
// active theme palette. Rebuilt on theme change and on resize.
type Styles struct {
	width int

	App     lipgloss.Style
	Header  lipgloss.Style
	Brand   lipgloss.Style
	NavItem lipgloss.Style
	NavHot  lipgloss.Style

	SectionTitle lipgloss.Style
	Body         lipgloss.Style
	Dim          lipgloss.Style

	HeroLine1 lipgloss.Style
	HeroName  lipgloss.Style
	HeroText  lipgloss.Style
	Caret     lipgloss.Style

	Card     lipgloss.Style
	CardLink lipgloss.Style
	Tag      lipgloss.Style

	MenuOverlay lipgloss.Style
	ErrorBanner lipgloss.Style
	HelpBar     lipgloss.Style
}

// NewStyles derives the style set from a palette at a given terminal width.
func NewStyles(t theme.Theme, width int) Styles {
	inner := width
	if inner > contentWidth {
		inner = contentWidth
	}
	if inner < 20 {
		inner = 20
	}

	fg := lipgloss.Color(t.Foreground)
	dim := lipgloss.Color(t.Dim)
	accent := lipgloss.Color(t.Accent)
	border := lipgloss.Color(t.Border)

	return Styles{
		width: inner,

		App: lipgloss.NewStyle().
			Foreground(fg).
			Width(inner),
		Header: lipgloss.NewStyle().
			Width(inner).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(border),
		Brand: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),
		NavItem: lipgloss.NewStyle().
			Foreground(dim).
			Padding(0, 1),
		NavHot: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.NavActive)).
			Bold(true).
			Padding(0, 1),

		SectionTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Title)).
			MarginTop(1).
			MarginBottom(1),
		Body: lipgloss.NewStyle().
			Foreground(fg).
			Width(inner),
		Dim: lipgloss.NewStyle().
			Foreground(dim),

		HeroLine1: lipgloss.NewStyle().
			Foreground(fg).
			Bold(true),
		HeroName: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.HeroName)).
			Bold(true),
		HeroText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.HeroText)).
			Bold(true),
		Caret: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Caret)),

		Card: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1).
			Width(inner - 2),
		CardLink: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Link)).
			Underline(true),
		Tag: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Tag)),

		MenuOverlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(accent).
			Background(lipgloss.Color(t.NavBg)).
			Padding(1, 2),
		ErrorBanner: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Error)).
			Bold(true).
			Width(inner),
		HelpBar: lipgloss.NewStyle().
			Foreground(dim).
			Width(inner),
	}
}
