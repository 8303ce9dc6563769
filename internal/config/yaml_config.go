package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the config.yaml file. It carries the
// refresh watchlist and overrides that are easier to manage in YAML than env vars.
type YAMLConfig struct {
	Watchlist []WatchlistEntry `yaml:"watchlist"`
	Refresh   RefreshConfig    `yaml:"refresh"`
	Defaults  DefaultsConfig   `yaml:"defaults"`
}

// WatchlistEntry names a keyword the background refresher keeps current.
type WatchlistEntry struct {
	Keyword string `yaml:"keyword"`
	Label   string `yaml:"label,omitempty"` // Optional display name
}

// RefreshConfig overrides the background refresher settings.
type RefreshConfig struct {
	Enabled  *bool    `yaml:"enabled,omitempty"`
	Interval Duration `yaml:"interval,omitempty"` // How often to scan for stale series
	MaxAge   Duration `yaml:"max_age,omitempty"`  // Series older than this get refreshed
}

// DefaultsConfig overrides listing and suggestion limits.
type DefaultsConfig struct {
	RecentCap    int `yaml:"recent_cap,omitempty"`
	SuggestLimit int `yaml:"suggest_limit,omitempty"`
	PerPage      int `yaml:"per_page,omitempty"`
}

// Duration wraps time.Duration so YAML values like "30m" parse directly.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string ("1h", "90s") into the wrapper.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("CONFIG_FILE", "config.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Keywords returns the watchlist keywords in file order, skipping empties.
func (c *YAMLConfig) Keywords() []string {
	if c == nil {
		return nil
	}
	keywords := make([]string, 0, len(c.Watchlist))
	for _, entry := range c.Watchlist {
		if entry.Keyword != "" {
			keywords = append(keywords, entry.Keyword)
		}
	}
	return keywords
}

// Apply copies the YAML overrides onto an environment-loaded Config.
// Unset YAML fields leave the Config values untouched.
func (c *YAMLConfig) Apply(cfg *Config) {
	if c == nil {
		return
	}
	if c.Refresh.Enabled != nil {
		cfg.RefreshEnabled = *c.Refresh.Enabled
	}
	if c.Refresh.Interval > 0 {
		cfg.RefreshInterval = time.Duration(c.Refresh.Interval)
	}
	if c.Refresh.MaxAge > 0 {
		cfg.RefreshMaxAge = time.Duration(c.Refresh.MaxAge)
	}
	if c.Defaults.RecentCap > 0 {
		cfg.RecentCap = c.Defaults.RecentCap
	}
	if c.Defaults.SuggestLimit > 0 {
		cfg.SuggestLimit = c.Defaults.SuggestLimit
	}
	if c.Defaults.PerPage > 0 {
		cfg.PerPage = c.Defaults.PerPage
	}
}
