// Package theme holds the light/dark preference shared by every view.
package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matheuskafuri/newsletter/internal/observable"
	"github.com/matheuskafuri/newsletter/internal/prefs"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

func Parse(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	default:
		return "", fmt.Errorf("unknown theme %q (valid: light, dark)", s)
	}
}

func (t Theme) Other() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Prefs is the subset of *prefs.Store the theme needs.
type Prefs interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

type Store struct {
	state  *observable.Store[Theme]
	prefs  Prefs
	isDark func() bool
}

type Option func(*Store)

// WithDetector replaces terminal background detection.
func WithDetector(isDark func() bool) Option {
	return func(s *Store) { s.isDark = isDark }
}

// New returns a store showing Light until Hydrate runs. p may be nil, in
// which case choices are not persisted.
func New(p Prefs, opts ...Option) *Store {
	s := &Store{
		state:  observable.New(Light),
		prefs:  p,
		isDark: lipgloss.HasDarkBackground,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate loads the saved choice. Without one, the terminal background
// decides.
func (s *Store) Hydrate() Theme {
	t := Light
	if s.isDark() {
		t = Dark
	}
	if s.prefs != nil {
		if v, ok, err := s.prefs.Get(prefs.KeyTheme); err == nil && ok {
			if saved, err := Parse(v); err == nil {
				t = saved
			}
		}
	}
	s.state.Set(t)
	return t
}

// Set switches the theme for every subscriber and persists it. The switch
// happens even if persisting fails.
func (s *Store) Set(t Theme) error {
	s.state.Set(t)
	if s.prefs == nil {
		return nil
	}
	if err := s.prefs.Set(prefs.KeyTheme, string(t)); err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}
	return nil
}

func (s *Store) Toggle() (Theme, error) {
	next := s.Snapshot().Other()
	return next, s.Set(next)
}

func (s *Store) Snapshot() Theme {
	return s.state.Snapshot()
}

func (s *Store) ServerSnapshot() Theme {
	return s.state.ServerSnapshot()
}

func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	return s.state.Subscribe(fn)
}
