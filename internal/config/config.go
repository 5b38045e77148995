package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/matheuskafuri/newsletter/internal/api"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const (
	EnvAPIURL      = "NEWSLETTER_API_URL"
	EnvSiteURL     = "NEWSLETTER_SITE_URL"
	EnvLogRequests = "NEWSLETTER_LOG_REQUESTS"
	EnvAdminSecret = "NEWSLETTER_ADMIN_SECRET"
)

// Feed is an RSS/Atom source that `articles import` publishes from.
type Feed struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Lang    string `yaml:"lang"`
	Author  string `yaml:"author,omitempty"`
	Enabled bool   `yaml:"enabled"`
}

type Config struct {
	APIURL              string `yaml:"api_url"`
	SiteURL             string `yaml:"site_url"`
	Language            string `yaml:"language"`
	PageSize            int    `yaml:"page_size,omitempty"`
	SubscribersPageSize int    `yaml:"subscribers_page_size,omitempty"`
	SearchDebounce      string `yaml:"search_debounce"`
	MinLoader           string `yaml:"min_loader"`
	SiteStaleTime       string `yaml:"site_stale_time"`
	LogLevel            string `yaml:"log_level"`
	LogRequests         bool   `yaml:"log_requests"`
	ImportInterval      string `yaml:"import_interval"`
	Feeds               []Feed `yaml:"feeds"`
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func (c *Config) SearchDebounceDuration() time.Duration {
	return parseDuration(c.SearchDebounce, 280*time.Millisecond)
}

func (c *Config) MinLoaderDuration() time.Duration {
	return parseDuration(c.MinLoader, 400*time.Millisecond)
}

func (c *Config) SiteStaleDuration() time.Duration {
	return parseDuration(c.SiteStaleTime, 5*time.Minute)
}

func (c *Config) ImportIntervalDuration() time.Duration {
	return parseDuration(c.ImportInterval, time.Second)
}

// GetPageSize returns the article page size, defaulting to 10.
func (c *Config) GetPageSize() int {
	if c.PageSize <= 0 {
		return 10
	}
	return c.PageSize
}

// GetSubscribersPageSize returns the subscriber page size, defaulting to 20.
func (c *Config) GetSubscribersPageSize() int {
	if c.SubscribersPageSize <= 0 {
		return 20
	}
	return c.SubscribersPageSize
}

// Lang returns the configured language, or the primary one when unset.
func (c *Config) Lang() api.Lang {
	l, err := api.ParseLang(c.Language)
	if err != nil {
		return api.PrimaryLang
	}
	return l
}

// AdminSecret is read from the environment only; it never lives in the file.
func (c *Config) AdminSecret() string {
	return strings.TrimSpace(os.Getenv(EnvAdminSecret))
}

func (c *Config) EnabledFeeds() []Feed {
	var out []Feed
	for _, f := range c.Feeds {
		if f.Enabled {
			out = append(out, f)
		}
	}
	return out
}

func (c *Config) FeedNames() []string {
	var names []string
	for _, f := range c.EnabledFeeds() {
		names = append(names, f.Name)
	}
	return names
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "newsletter", "config.yaml")
}

func PrefsPath() string {
	return filepath.Join(xdg.StateHome, "newsletter", "prefs.db")
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
			// Non-fatal: the embedded defaults still apply
			_ = writeDefaults(path)
			applyEnv(defaults)
			if err := validate(defaults); err != nil {
				return nil, err
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	mergeDefaultFeeds(&cfg, defaults)
	applyEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeDefaultFeeds appends default feeds the user file does not list and
// refreshes the URL of the ones it does, matched by name.
func mergeDefaultFeeds(cfg, defaults *Config) {
	index := make(map[string]int, len(cfg.Feeds))
	for i, f := range cfg.Feeds {
		index[f.Name] = i
	}
	for _, d := range defaults.Feeds {
		if i, ok := index[d.Name]; ok {
			cfg.Feeds[i].URL = d.URL
			continue
		}
		cfg.Feeds = append(cfg.Feeds, d)
	}
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSiteURL)); v != "" {
		cfg.SiteURL = v
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogRequests))) {
	case "1", "true":
		cfg.LogRequests = true
	}
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	cfg.SiteURL = strings.TrimRight(strings.TrimSpace(cfg.SiteURL), "/")
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validateURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: invalid url: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: url scheme must be http or https, got %q", field, u.Scheme)
	}
	return nil
}

// validate rejects malformed values. An empty api_url is allowed here: it is
// reported by the gateway when a request is attempted.
func validate(cfg *Config) error {
	if err := validateURL("api_url", cfg.APIURL); err != nil {
		return err
	}
	if err := validateURL("site_url", cfg.SiteURL); err != nil {
		return err
	}
	if cfg.Language != "" {
		if _, err := api.ParseLang(cfg.Language); err != nil {
			return fmt.Errorf("language: %w", err)
		}
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level: unknown level %q (valid: debug, info, warn, error)", cfg.LogLevel)
	}
	for i, f := range cfg.Feeds {
		if f.Name == "" {
			return fmt.Errorf("feed %d: name is required", i)
		}
		if f.URL == "" {
			return fmt.Errorf("feed %q: url is required", f.Name)
		}
		if err := validateURL(fmt.Sprintf("feed %q", f.Name), f.URL); err != nil {
			return err
		}
		if _, err := api.ParseLang(f.Lang); err != nil {
			return fmt.Errorf("feed %q: %w", f.Name, err)
		}
	}
	return nil
}
