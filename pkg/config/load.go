package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

const appDir = "termfolio"

// Load reads configuration from the standard config path:
// $XDG_CONFIG_HOME/termfolio/config.toml. If no file exists, returns
// DefaultConfig().
func Load() (*Config, error) {
	return LoadFromFile(filepath.Join(xdg.ConfigHome, appDir, "config.toml"))
}

// LoadFromFile reads configuration from a specific file path, falling back
// to defaults when the file does not exist.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader reads configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			Theme:        "",
			Language:     "",
			BundleDir:    "content",
			StateDir:     filepath.Join(xdg.StateHome, appDir),
			LogFile:      filepath.Join(xdg.StateHome, appDir, "termfolio.log"),
			CompactWidth: 80,
		},
		Typing: TypingConfig{
			TickInterval:   Duration{80 * time.Millisecond},
			LinePause:      Duration{500 * time.Millisecond},
			ResizeDebounce: Duration{250 * time.Millisecond},
		},
		Blog: BlogConfig{
			Enabled:        true,
			FeedURL:        "https://velog.io/rss/@sunio00000",
			ProxyEnvelope:  "https://api.allorigins.win/get",
			ProxyJSON:      "https://api.rss2json.com/v1/api.json",
			CacheTTL:       Duration{30 * time.Minute},
			FreshWithin:    Duration{2 * time.Minute},
			RequestTimeout: Duration{10 * time.Second},
			MaxPosts:       6,
		},
	}
}

// applyEnvOverrides checks environment variables and overrides config
// values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TERMFOLIO_THEME"); v != "" {
		cfg.General.Theme = v
	}
	if v := os.Getenv("TERMFOLIO_LANG"); v != "" {
		cfg.General.Language = v
	}
	if v := os.Getenv("TERMFOLIO_FEED_URL"); v != "" {
		cfg.Blog.FeedURL = v
	}
	if v := os.Getenv("TERMFOLIO_STATE_DIR"); v != "" {
		cfg.General.StateDir = v
	}
}
