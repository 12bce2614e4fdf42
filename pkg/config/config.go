// Package config provides TOML-based configuration for termfolio.
package config

import (
	"fmt"
	"time"
)

// Duration wraps time.Duration with TOML-friendly string parsing.
// Supports standard Go duration strings: "1s", "250ms", "5m", "30m", etc.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if parsed < 0 {
		return fmt.Errorf("negative duration %q not allowed", s)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML serialization.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the root configuration structure.
type Config struct {
	General GeneralConfig `toml:"general"`
	Typing  TypingConfig  `toml:"typing"`
	Blog    BlogConfig    `toml:"blog"`
}

// GeneralConfig covers appearance, language, and storage locations.
type GeneralConfig struct {
	// Theme is the startup theme name ("light" or "dark"). A persisted
	// choice from a previous session takes precedence.
	Theme string `toml:"theme"`

	// Language is the startup language code. A persisted choice from a
	// previous session takes precedence.
	Language string `toml:"language"`

	// BundleDir is an extra directory searched for language bundle files
	// before the built-in bundles.
	BundleDir string `toml:"bundle_dir"`

	// StateDir holds the persisted state entries and the feed cache.
	StateDir string `toml:"state_dir"`

	// LogFile receives the structured log stream.
	LogFile string `toml:"log_file"`

	// CompactWidth is the terminal width, in columns, at or below which
	// the navigation renders as a full overlay menu.
	CompactWidth int `toml:"compact_width"`
}

// TypingConfig tunes the hero typewriter animation.
type TypingConfig struct {
	// TickInterval is the delay between revealed characters.
	TickInterval Duration `toml:"tick_interval"`

	// LinePause is the hold between finishing line one and starting line
	// two.
	LinePause Duration `toml:"line_pause"`

	// ResizeDebounce coalesces terminal resize bursts.
	ResizeDebounce Duration `toml:"resize_debounce"`
}

// BlogConfig covers the external feed and its cache windows.
type BlogConfig struct {
	// Enabled turns the blog section's live feed on or off entirely.
	Enabled bool `toml:"enabled"`

	// FeedURL is the upstream feed document.
	FeedURL string `toml:"feed_url"`

	// ProxyEnvelope is an allorigins-style endpoint returning the feed
	// wrapped in a JSON {"contents": ...} envelope. The feed URL is
	// appended as a query parameter.
	ProxyEnvelope string `toml:"proxy_envelope"`

	// ProxyJSON is an rss2json-style endpoint returning the feed already
	// converted to JSON items. The feed URL is appended as a query
	// parameter.
	ProxyJSON string `toml:"proxy_json"`

	// CacheTTL is how long cached posts remain usable at all.
	CacheTTL Duration `toml:"cache_ttl"`

	// FreshWithin suppresses network refetching while the cache is
	// younger than this.
	FreshWithin Duration `toml:"fresh_within"`

	// RequestTimeout bounds each fetch attempt, per strategy.
	RequestTimeout Duration `toml:"request_timeout"`

	// MaxPosts caps how many posts render in the blog grid.
	MaxPosts int `toml:"max_posts"`
}

// Validate checks the configuration for values the application cannot run
// with.
func (c *Config) Validate() error {
	if c.General.Theme != "" && c.General.Theme != "light" && c.General.Theme != "dark" {
		return fmt.Errorf("config: unknown theme %q (want light or dark)", c.General.Theme)
	}
	if c.General.CompactWidth <= 0 {
		return fmt.Errorf("config: compact_width must be positive, got %d", c.General.CompactWidth)
	}
	if c.Typing.TickInterval.Duration <= 0 {
		return fmt.Errorf("config: typing tick_interval must be positive")
	}
	if c.Blog.Enabled && c.Blog.FeedURL == "" {
		return fmt.Errorf("config: blog enabled without feed_url")
	}
	if c.Blog.FreshWithin.Duration > c.Blog.CacheTTL.Duration {
		return fmt.Errorf("config: blog fresh_within exceeds cache_ttl")
	}
	return nil
}
