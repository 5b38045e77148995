package session

import "sync"

// TokenStore holds the admin credential for the life of the process. It is
// never written to disk.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

func (t *TokenStore) Token() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.token
}

func (t *TokenStore) SetToken(token string) {
	t.mu.Lock()
	t.token = token
	t.mu.Unlock()
}

func (t *TokenStore) Clear() {
	t.SetToken("")
}
