// Package theme defines the two visual palettes (light and dark) and the
// manager that switches between them. Palette colors are hex strings
// rendered through lipgloss, which degrades them automatically on terminals
// without true-color support; DetectProfile exposes the termenv profile for
// callers that render outside a bubbletea program.
package theme

import (
	"strings"
	"sync"

	"github.com/muesli/termenv"
)

// Theme defines the complete color palette for the portfolio.
type Theme struct {
	Name string

	// Base colors
	Background string // hex color e.g. "#fdfdfd"
	Foreground string // hex color
	Dim        string // dimmed text
	Accent     string // highlights, active nav entry

	// Section chrome
	Border string // section borders
	Title  string // section heading text

	// Hero / typing animation
	HeroName string // the name segment of line two
	HeroText string // the trailing segment of line two
	Caret    string // blinking caret

	// Navigation
	NavActive string // active section marker
	NavBg     string // menu overlay background

	// Content
	Link  string // post links, social links
	Tag   string // blog post tags
	Error string // error banner text
}

var (
	mu       sync.RWMutex
	registry = map[string]Theme{}
)

func init() {
	registerBuiltins()
}

// Get returns a named theme, falling back to the light theme if not found.
func Get(name string) Theme {
	mu.RLock()
	defer mu.RUnlock()
	if t, ok := registry[strings.ToLower(name)]; ok {
		return t
	}
	return registry[Light]
}

// Known reports whether name is a registered theme name.
func Known(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registry[strings.ToLower(name)]
	return ok
}

// register adds a theme to the registry under its lowercase name.
func register(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(t.Name)] = t
}

// DetectProfile returns the terminal's color profile. Rendering through
// lipgloss converts palette colors to this profile's gamut.
func DetectProfile() termenv.Profile {
	return termenv.ColorProfile()
}
