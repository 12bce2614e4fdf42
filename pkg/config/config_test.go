package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Blog.CacheTTL.Duration != 30*time.Minute {
		t.Errorf("cache_ttl = %v, want 30m", cfg.Blog.CacheTTL.Duration)
	}
	if cfg.Blog.FreshWithin.Duration != 2*time.Minute {
		t.Errorf("fresh_within = %v, want 2m", cfg.Blog.FreshWithin.Duration)
	}
	if cfg.General.CompactWidth != 80 {
		t.Errorf("compact_width = %d, want 80", cfg.General.CompactWidth)
	}
}

func TestLoadFromReader(t *testing.T) {
	src := `
[general]
theme = "dark"
language = "en"
compact_width = 100

[typing]
tick_interval = "50ms"
line_pause = "1s"

[blog]
feed_url = "https://example.com/rss"
cache_ttl = "1h"
fresh_within = "5m"
`
	cfg, err := LoadFromReader(strings.NewReader(src))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}

	if cfg.General.Theme != "dark" {
		t.Errorf("theme = %q, want dark", cfg.General.Theme)
	}
	if cfg.General.Language != "en" {
		t.Errorf("language = %q, want en", cfg.General.Language)
	}
	if cfg.General.CompactWidth != 100 {
		t.Errorf("compact_width = %d, want 100", cfg.General.CompactWidth)
	}
	if cfg.Typing.TickInterval.Duration != 50*time.Millisecond {
		t.Errorf("tick_interval = %v, want 50ms", cfg.Typing.TickInterval.Duration)
	}
	if cfg.Blog.FeedURL != "https://example.com/rss" {
		t.Errorf("feed_url = %q", cfg.Blog.FeedURL)
	}
	if cfg.Blog.CacheTTL.Duration != time.Hour {
		t.Errorf("cache_ttl = %v, want 1h", cfg.Blog.CacheTTL.Duration)
	}
	// Unset fields keep their defaults.
	if cfg.Blog.RequestTimeout.Duration != 10*time.Second {
		t.Errorf("request_timeout = %v, want default 10s", cfg.Blog.RequestTimeout.Duration)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg, err := LoadFromFile("/nonexistent/config.toml")
	if err != nil {
		t.Fatalf("missing file should fall back to defaults, got %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("fallback config invalid: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TERMFOLIO_THEME", "dark")
	t.Setenv("TERMFOLIO_FEED_URL", "https://env.example.com/rss")

	cfg, err := LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.General.Theme != "dark" {
		t.Errorf("env theme override not applied, got %q", cfg.General.Theme)
	}
	if cfg.Blog.FeedURL != "https://env.example.com/rss" {
		t.Errorf("env feed override not applied, got %q", cfg.Blog.FeedURL)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown theme", func(c *Config) { c.General.Theme = "sepia" }},
		{"zero compact width", func(c *Config) { c.General.CompactWidth = 0 }},
		{"zero tick interval", func(c *Config) { c.Typing.TickInterval = Duration{0} }},
		{"blog without url", func(c *Config) { c.Blog.Enabled = true; c.Blog.FeedURL = "" }},
		{"fresh beyond ttl", func(c *Config) {
			c.Blog.FreshWithin = Duration{time.Hour}
			c.Blog.CacheTTL = Duration{time.Minute}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted invalid config")
			}
		})
	}
}

func TestDurationRoundTrip(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("250ms")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if d.Duration != 250*time.Millisecond {
		t.Errorf("parsed %v, want 250ms", d.Duration)
	}
	out, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	if string(out) != "250ms" {
		t.Errorf("marshaled %q, want 250ms", out)
	}
	if err := d.UnmarshalText([]byte("-5s")); err == nil {
		t.Error("negative duration accepted")
	}
}
