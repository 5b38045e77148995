package querycache

import (
	"context"
	"sync"

	"github.com/matheuskafuri/newsletter/internal/paging"
)

// Source names a paginated collection: where it lives in the cache and how to
// fetch one page of it.
type Source[T any] struct {
	Key   Key
	Fetch paging.FetchFunc[T]
}

// List is a consumer's view of one paginated collection. Changing the source
// (a new search term, a language switch) restarts the chain from the first
// page; pages of the previous source are never merged into the new one.
type List[T any] struct {
	cache *Cache

	mu  sync.Mutex
	src Source[T]
}

func NewList[T any](c *Cache, src Source[T]) *List[T] {
	return &List[T]{cache: c, src: src}
}

func (l *List[T]) Source() Source[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src
}

// SetSource switches the list to src. The new key starts from an empty
// chain even if it was cached before.
func (l *List[T]) SetSource(src Source[T]) {
	l.mu.Lock()
	l.src = src
	l.mu.Unlock()
	l.cache.Restart(src.Key)
}

// Activate loads the first page. Published content is refetched on every
// activation, so the current chain is restarted unless a first-page fetch
// for it is already running, in which case the caller joins that fetch.
func (l *List[T]) Activate(ctx context.Context) (paging.Page[T], error) {
	src := l.Source()
	if !l.cache.loadingFirstPage(src.Key) {
		l.cache.Restart(src.Key)
	}
	return GetPage(ctx, l.cache, src.Key, "", src.Fetch)
}

// LoadMore fetches the page after the last one in the chain. It returns
// ErrSuperseded if the source changed or the chain was restarted before the
// page arrived, and paging.ErrNoMorePages when the chain is complete.
func (l *List[T]) LoadMore(ctx context.Context) (paging.Page[T], error) {
	src := l.Source()
	cursor, ok := l.cache.nextCursor(src.Key)
	if !ok {
		return paging.Page[T]{}, paging.ErrNoMorePages
	}
	page, err := GetPage(ctx, l.cache, src.Key, cursor, src.Fetch)
	if err != nil {
		return page, err
	}
	if !l.Source().Key.Equal(src.Key) {
		return page, ErrSuperseded
	}
	return page, nil
}

// Pages returns the pages loaded so far, in fetch order.
func (l *List[T]) Pages() []paging.Page[T] {
	pages, _ := Peek[T](l.cache, l.Source().Key)
	return pages
}

// Items is the concatenation of Pages.
func (l *List[T]) Items() []T {
	return paging.Flatten(l.Pages())
}

// HasMore reports whether LoadMore would fetch anything. It is false before
// the first page arrives.
func (l *List[T]) HasMore() bool {
	pages := l.Pages()
	if len(pages) == 0 {
		return false
	}
	return pages[len(pages)-1].HasMore()
}

// Loaded reports whether the first page of the current chain is in.
func (l *List[T]) Loaded() bool {
	return len(l.Pages()) > 0
}
