package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matheuskafuri/newsletter/internal/api"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvAPIURL, EnvSiteURL, EnvLogRequests, EnvAdminSecret} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if cfg.Language != "es" {
		t.Errorf("expected default language es, got %q", cfg.Language)
	}
	if cfg.APIURL != "" {
		t.Errorf("expected no default api_url, got %q", cfg.APIURL)
	}
	if cfg.GetPageSize() != 10 || cfg.GetSubscribersPageSize() != 20 {
		t.Errorf("unexpected page sizes %d/%d", cfg.GetPageSize(), cfg.GetSubscribersPageSize())
	}
}

func TestDurations(t *testing.T) {
	tests := []struct {
		name string
		got  func(*Config) time.Duration
		cfg  Config
		want time.Duration
	}{
		{"debounce default", (*Config).SearchDebounceDuration, Config{}, 280 * time.Millisecond},
		{"debounce custom", (*Config).SearchDebounceDuration, Config{SearchDebounce: "500ms"}, 500 * time.Millisecond},
		{"min loader invalid", (*Config).MinLoaderDuration, Config{MinLoader: "soon"}, 400 * time.Millisecond},
		{"site stale custom", (*Config).SiteStaleDuration, Config{SiteStaleTime: "1m"}, time.Minute},
		{"site stale negative", (*Config).SiteStaleDuration, Config{SiteStaleTime: "-1m"}, 5 * time.Minute},
		{"import interval default", (*Config).ImportIntervalDuration, Config{}, time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.got(&tt.cfg); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLang(t *testing.T) {
	if got := (&Config{Language: "EN"}).Lang(); got != api.LangEN {
		t.Errorf("expected en, got %s", got)
	}
	if got := (&Config{}).Lang(); got != api.PrimaryLang {
		t.Errorf("expected primary language, got %s", got)
	}
}

func TestEnabledFeeds(t *testing.T) {
	cfg := &Config{
		Feeds: []Feed{
			{Name: "A", Enabled: true},
			{Name: "B", Enabled: false},
			{Name: "C", Enabled: true},
		},
	}
	names := cfg.FeedNames()
	if len(names) != 2 || names[0] != "A" || names[1] != "C" {
		t.Errorf("unexpected enabled feeds: %v", names)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	content := `api_url: http://localhost:8000/api/
language: en
page_size: 25
feeds:
  - name: Blog
    url: https://blog.example.com/rss
    lang: en
    enabled: true
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "http://localhost:8000/api" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.APIURL)
	}
	if cfg.Lang() != api.LangEN || cfg.GetPageSize() != 25 {
		t.Errorf("unexpected values: lang=%s page=%d", cfg.Lang(), cfg.GetPageSize())
	}
	if len(cfg.Feeds) != 1 || cfg.Feeds[0].Name != "Blog" {
		t.Errorf("unexpected feeds %v", cfg.Feeds)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIURL, "  https://api.example.com/ ")
	t.Setenv(EnvLogRequests, "1")
	t.Setenv(EnvAdminSecret, " s3cret ")

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("api_url: http://file.example.com\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "https://api.example.com" {
		t.Errorf("expected env api url, got %q", cfg.APIURL)
	}
	if !cfg.LogRequests {
		t.Error("expected log_requests from env")
	}
	if cfg.AdminSecret() != "s3cret" {
		t.Errorf("expected trimmed secret, got %q", cfg.AdminSecret())
	}
}

func TestLoadNonexistentWritesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sub", "config.yaml")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Language != "es" {
		t.Errorf("expected defaults, got language %q", cfg.Language)
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Errorf("expected defaults written to %s: %v", cfgPath, err)
	}
}

func TestMergeDefaultFeeds(t *testing.T) {
	cfg := &Config{
		Feeds: []Feed{
			{Name: "Existing", URL: "https://example.com/feed", Lang: "es", Enabled: true},
			{Name: "Shared", URL: "https://old.com/feed", Lang: "en", Enabled: false},
		},
	}
	defaults := &Config{
		Feeds: []Feed{
			{Name: "Shared", URL: "https://new.com/feed", Lang: "en", Enabled: true},
			{Name: "NewFeed", URL: "https://new-feed.com/feed", Lang: "es", Enabled: true},
		},
	}
	mergeDefaultFeeds(cfg, defaults)

	if len(cfg.Feeds) != 3 {
		t.Fatalf("expected 3 feeds after merge, got %d", len(cfg.Feeds))
	}
	if cfg.Feeds[1].URL != "https://new.com/feed" {
		t.Errorf("expected Shared URL updated, got %s", cfg.Feeds[1].URL)
	}
	if cfg.Feeds[1].Enabled {
		t.Error("expected user's enabled flag to be kept")
	}
	if cfg.Feeds[2].Name != "NewFeed" {
		t.Errorf("expected NewFeed appended, got %s", cfg.Feeds[2].Name)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty api url is fine", Config{}, false},
		{"https api url", Config{APIURL: "https://api.example.com"}, false},
		{"file scheme", Config{APIURL: "file:///etc/passwd"}, true},
		{"bad site url", Config{SiteURL: "ftp://site"}, true},
		{"unknown language", Config{Language: "fr"}, true},
		{"unknown log level", Config{LogLevel: "loud"}, true},
		{"feed without name", Config{Feeds: []Feed{{URL: "https://x.com", Lang: "es"}}}, true},
		{"feed without url", Config{Feeds: []Feed{{Name: "X", Lang: "es"}}}, true},
		{"feed with bad lang", Config{Feeds: []Feed{{Name: "X", URL: "https://x.com", Lang: "de"}}}, true},
		{"valid feed", Config{Feeds: []Feed{{Name: "X", URL: "http://x.com/rss", Lang: "en"}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
