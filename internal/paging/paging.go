// Package paging holds the cursor contract shared by every list endpoint.
//
// A cursor is opaque: it is copied verbatim from one response's NextCursor
// into the next request and never inspected. An empty NextCursor marks the
// terminal page.
package paging

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// ErrNoMorePages is returned when asked to continue past the terminal page.
var ErrNoMorePages = errors.New("paging: no more pages")

type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// HasMore reports whether another page exists beyond this one.
func (p Page[T]) HasMore() bool {
	return p.NextCursor != ""
}

// FetchFunc loads the page that starts at cursor. The empty cursor asks for
// the first page.
type FetchFunc[T any] func(ctx context.Context, cursor string) (Page[T], error)

// Params are the request parameters common to the list endpoints.
type Params struct {
	Lang   string
	Query  string
	Cursor string
	Limit  int
}

// NormalizeQuery trims free-text search input. The empty result means "no
// query" so omitted and blank queries build identical requests.
func NormalizeQuery(q string) string {
	return strings.TrimSpace(q)
}

// Values encodes the non-empty params as a query string.
func (p Params) Values() url.Values {
	v := url.Values{}
	if p.Lang != "" {
		v.Set("lang", p.Lang)
	}
	if p.Cursor != "" {
		v.Set("cursor", p.Cursor)
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if q := NormalizeQuery(p.Query); q != "" {
		v.Set("q", q)
	}
	return v
}

// Flatten concatenates page items in page order.
func Flatten[T any](pages []Page[T]) []T {
	n := 0
	for _, p := range pages {
		n += len(p.Items)
	}
	out := make([]T, 0, n)
	for _, p := range pages {
		out = append(out, p.Items...)
	}
	return out
}
