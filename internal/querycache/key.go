package querycache

import "strings"

// Key identifies a cache entry as an ordered tuple, e.g.
// {"newsletter", "list", "es", "golang"}. Invalidation works on prefixes, so
// the most general component comes first.
type Key []string

func K(parts ...string) Key {
	return Key(parts)
}

// With returns a copy of k extended by parts.
func (k Key) With(parts ...string) Key {
	out := make(Key, 0, len(k)+len(parts))
	out = append(out, k...)
	return append(out, parts...)
}

// HasPrefix reports whether the first len(p) components of k equal p. The
// empty prefix matches every key.
func (k Key) HasPrefix(p Key) bool {
	if len(p) > len(k) {
		return false
	}
	for i := range p {
		if k[i] != p[i] {
			return false
		}
	}
	return true
}

func (k Key) Equal(o Key) bool {
	return len(k) == len(o) && k.HasPrefix(o)
}

func (k Key) String() string {
	return strings.Join(k, "/")
}

// id is the map key. Components may contain '/', so a control byte separates
// them.
func (k Key) id() string {
	return strings.Join(k, "\x1f")
}
