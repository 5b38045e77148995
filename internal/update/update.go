// Package update checks GitHub releases for a newer build of the CLI.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/matheuskafuri/newsletter/internal/prefs"
)

const (
	releasesURL = "https://api.github.com/repos/matheuskafuri/newsletter/releases/latest"

	// DefaultInterval spaces automatic checks.
	DefaultInterval = 24 * time.Hour
)

// Result holds the outcome of a version check.
type Result struct {
	LatestVersion string
}

type ghRelease struct {
	TagName string `json:"tag_name"`
}

// Throttle remembers when the last check ran. *prefs.Store satisfies it.
type Throttle interface {
	Due(key string, interval time.Duration) bool
	Touch(key string) error
}

type Checker struct {
	url      string
	client   *http.Client
	throttle Throttle
	interval time.Duration
}

type Option func(*Checker)

func WithURL(url string) Option {
	return func(c *Checker) { c.url = url }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Checker) { c.client = hc }
}

// WithThrottle makes Auto skip checks that ran less than interval ago.
func WithThrottle(t Throttle, interval time.Duration) Option {
	return func(c *Checker) {
		c.throttle = t
		c.interval = interval
	}
}

func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		url:      releasesURL,
		client:   http.DefaultClient,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check queries the releases API to see if a newer version is available.
// Returns nil on any error (non-fatal).
func (c *Checker) Check(ctx context.Context, currentVersion string) *Result {
	res, _ := c.check(ctx, currentVersion)
	return res
}

// Auto is Check limited by the throttle. Dev builds are never checked.
func (c *Checker) Auto(ctx context.Context, currentVersion string) *Result {
	if currentVersion == "" || currentVersion == "dev" {
		return nil
	}
	if c.throttle != nil {
		if !c.throttle.Due(prefs.KeyUpdateCheck, c.interval) {
			return nil
		}
		_ = c.throttle.Touch(prefs.KeyUpdateCheck)
	}
	return c.Check(ctx, currentVersion)
}

func (c *Checker) check(ctx context.Context, currentVersion string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("releases: status %d", resp.StatusCode)
	}

	var release ghRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, err
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	current := strings.TrimPrefix(currentVersion, "v")

	if latest == "" || latest == current {
		return nil, nil
	}

	return &Result{LatestVersion: latest}, nil
}
