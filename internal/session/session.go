// Package session tracks whether the process holds an admin credential and
// shares that state with every consumer (route guards, menus, the CLI).
package session

import (
	"context"

	"github.com/matheuskafuri/newsletter/internal/api"
	"github.com/matheuskafuri/newsletter/internal/observable"
)

// Snapshot is the shared session state. Resolved is false only until Hydrate
// has run; after that it stays true.
type Snapshot struct {
	Authenticated bool
	Resolved      bool
}

// Decision is what an authorization check may conclude.
type Decision int

const (
	// Unknown means the session has not been hydrated yet; callers should
	// show a neutral state instead of assuming "logged out".
	Unknown Decision = iota
	Allowed
	Denied
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	default:
		return "unknown"
	}
}

// Authenticator performs the remote login call.
type Authenticator interface {
	Login(ctx context.Context, secret string) (api.LoginResult, error)
}

type Session struct {
	store  *observable.Store[Snapshot]
	tokens *TokenStore
	auth   Authenticator
}

func New(tokens *TokenStore, auth Authenticator) *Session {
	return &Session{
		store:  observable.New(Snapshot{}),
		tokens: tokens,
		auth:   auth,
	}
}

// Hydrate derives the state from the credential currently held. It is meant
// to run once at start-up but tolerates repeated calls.
func (s *Session) Hydrate() {
	s.store.Set(Snapshot{
		Authenticated: s.tokens.Token() != "",
		Resolved:      true,
	})
}

func (s *Session) SetAuthenticated(v bool) {
	s.store.Update(func(cur Snapshot) Snapshot {
		cur.Authenticated = v
		return cur
	})
}

func (s *Session) Snapshot() Snapshot {
	return s.store.Snapshot()
}

// ServerSnapshot is the pre-hydration state.
func (s *Session) ServerSnapshot() Snapshot {
	return s.store.ServerSnapshot()
}

func (s *Session) Subscribe(fn func()) (unsubscribe func()) {
	return s.store.Subscribe(fn)
}

func (s *Session) Decision() Decision {
	snap := s.Snapshot()
	switch {
	case !snap.Resolved:
		return Unknown
	case snap.Authenticated:
		return Allowed
	default:
		return Denied
	}
}

// Login stores the token and flips the session to authenticated only after
// the remote call succeeds. On failure nothing changes and the error (usually
// an *api.Error) is returned as is.
func (s *Session) Login(ctx context.Context, secret string) error {
	res, err := s.auth.Login(ctx, secret)
	if err != nil {
		return err
	}
	s.tokens.SetToken(res.Token)
	s.SetAuthenticated(true)
	return nil
}

// Logout drops the credential locally. No server call is involved.
func (s *Session) Logout() {
	s.tokens.Clear()
	s.SetAuthenticated(false)
}
