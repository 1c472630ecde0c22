package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/jhellingsdata/search-app/internal/brush"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Source is an RSS/Atom feed that new articles are ingested from.
type Source struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

// ChartConfig sizes the date brush in terminal cells.
type ChartConfig struct {
	Height       int `yaml:"height"`
	MinWidth     int `yaml:"min_width"`
	CompactWidth int `yaml:"compact_width"`
}

type Config struct {
	APIURL          string      `yaml:"api_url,omitempty"`
	TopK            int         `yaml:"top_k,omitempty"`
	RefreshInterval string      `yaml:"refresh_interval"`
	ArticlesFile    string      `yaml:"articles_file,omitempty"`
	Sources         []Source    `yaml:"sources"`
	Chart           ChartConfig `yaml:"chart"`
}

// APIEnabled reports whether searches go to the backend API. The
// SEARCHAPP_API_URL environment variable overrides the file.
func (c *Config) APIEnabled() bool {
	return c.ResolvedAPIURL() != ""
}

func (c *Config) ResolvedAPIURL() string {
	if v := os.Getenv("SEARCHAPP_API_URL"); v != "" {
		return v
	}
	return c.APIURL
}

func (c *Config) RefreshDuration() time.Duration {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// GetTopK returns the number of results requested per search, defaulting to 10.
func (c *Config) GetTopK() int {
	if c.TopK <= 0 {
		return 10
	}
	return c.TopK
}

func (c *Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// ChartLayout converts the chart section into brush layout options, one
// column per pixel. Unset fields fall back to terminal defaults.
func (c *Config) ChartLayout() brush.LayoutOptions {
	opts := brush.LayoutOptions{Height: 7, MinWidth: 40, CompactWidth: 80}
	if c.Chart.Height > 0 {
		opts.Height = float64(c.Chart.Height)
	}
	if c.Chart.MinWidth > 0 {
		opts.MinWidth = float64(c.Chart.MinWidth)
	}
	if c.Chart.CompactWidth > 0 {
		opts.CompactWidth = float64(c.Chart.CompactWidth)
	}
	return opts
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "searchapp", "config.yaml")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, "searchapp", "articles.db")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Non-fatal: embedded defaults still apply
			_ = writeDefaults(path)
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaults.Sources
	}
	if cfg.RefreshInterval == "" {
		cfg.RefreshInterval = defaults.RefreshInterval
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if cfg.APIURL != "" {
		if err := httpURL(cfg.APIURL); err != nil {
			return fmt.Errorf("api_url: %w", err)
		}
	}
	if cfg.TopK < 0 || cfg.TopK > 100 {
		return fmt.Errorf("top_k must be between 1 and 100, got %d", cfg.TopK)
	}
	if cfg.Chart.Height < 0 || cfg.Chart.MinWidth < 0 || cfg.Chart.CompactWidth < 0 {
		return fmt.Errorf("chart dimensions must not be negative")
	}

	validTypes := map[string]bool{"rss": true, "atom": true}
	for i, s := range cfg.Sources {
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if s.URL == "" {
			return fmt.Errorf("source %q: url is required", s.Name)
		}
		if err := httpURL(s.URL); err != nil {
			return fmt.Errorf("source %q: %w", s.Name, err)
		}
		if !validTypes[s.Type] {
			return fmt.Errorf("source %q: unknown type %q (valid: rss, atom)", s.Name, s.Type)
		}
	}
	return nil
}

func httpURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	return nil
}
