// Package querycache is the process-wide store of server-fetched data.
//
// Lists are kept as cursor chains: pages are appended in fetch order and
// never reordered, and a chain is only ever discarded as a whole. Every chain
// has a generation; a fetch that completes after its chain was restarted or
// invalidated is dropped instead of being appended to the new chain.
package querycache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/matheuskafuri/newsletter/internal/paging"
)

// ErrSuperseded reports a result that arrived for a chain that no longer
// exists. Consumers drop it.
var ErrSuperseded = errors.New("querycache: result superseded by a restart")

// Policy decides when a single-value entry may be reused without a round
// trip.
type Policy struct {
	// StaleTime keeps data fresh for this long after the last successful
	// fetch. Zero means every read refetches.
	StaleTime time.Duration
}

// RefetchPolicy is used for published content: reads always go to the
// server so admin changes show up immediately.
var RefetchPolicy = Policy{}

// StalePolicy tolerates data up to d old. Used for site configuration.
func StalePolicy(d time.Duration) Policy {
	return Policy{StaleTime: d}
}

func (p Policy) fresh(fetchedAt, now time.Time) bool {
	return p.StaleTime > 0 && now.Sub(fetchedAt) < p.StaleTime
}

type storedPage struct {
	cursor string
	next   string
	data   any
}

type entry struct {
	key       Key
	gen       uint64
	pages     []storedPage
	value     any
	hasValue  bool
	fetchedAt time.Time
	inflight  map[string]int
}

func (e *entry) page(cursor string) (storedPage, bool) {
	for _, p := range e.pages {
		if p.cursor == cursor {
			return p, true
		}
	}
	return storedPage{}, false
}

// continues reports whether a page fetched at cursor extends the chain.
func (e *entry) continues(cursor string) bool {
	if len(e.pages) == 0 {
		return cursor == ""
	}
	last := e.pages[len(e.pages)-1]
	return last.next != "" && last.next == cursor
}

func (e *entry) next() (string, bool) {
	if len(e.pages) == 0 {
		return "", true
	}
	last := e.pages[len(e.pages)-1]
	return last.next, last.next != ""
}

// DefaultFetchTimeout bounds a shared fetch once its callers stop waiting.
const DefaultFetchTimeout = 30 * time.Second

type Cache struct {
	mu           sync.Mutex
	entries      map[string]*entry
	seq          uint64
	flights      singleflight.Group
	fetchTimeout time.Duration
	now          func() time.Time
	logger       *slog.Logger
}

type Option func(*Cache)

func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// WithFetchTimeout sets the deadline of a shared fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Cache) { c.fetchTimeout = d }
}

// WithClock replaces time.Now, for staleness tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(opts ...Option) *Cache {
	c := &Cache{
		entries:      make(map[string]*entry),
		fetchTimeout: DefaultFetchTimeout,
		now:          time.Now,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ensure returns the entry for key, creating it with a fresh generation.
// Callers hold c.mu.
func (c *Cache) ensure(key Key) *entry {
	id := key.id()
	if e, ok := c.entries[id]; ok {
		return e
	}
	c.seq++
	e := &entry{key: append(Key(nil), key...), gen: c.seq, inflight: make(map[string]int)}
	c.entries[id] = e
	return e
}

func flightKey(key Key, gen uint64, cursor string) string {
	return fmt.Sprintf("%s\x00%d\x00%s", key.id(), gen, cursor)
}

// Invalidate drops every entry whose key starts with prefix and returns how
// many were dropped. In-flight fetches for those entries are not aborted;
// their results are discarded on arrival.
func (c *Cache) Invalidate(prefix Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for id, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			delete(c.entries, id)
			n++
		}
	}
	if n > 0 {
		c.logger.Debug("cache invalidate", "prefix", prefix.String(), "dropped", n)
	}
	return n
}

// Restart discards the chain stored under key so the next read starts from
// the first page. Pending fetches for the old chain are ignored when they
// land.
func (c *Cache) Restart(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key.id())
	c.ensure(key)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// do runs fn at most once per id among concurrent callers. fn does not see
// the caller's cancellation, so a caller that gives up leaves the call running
// for the others; each caller stops waiting when its own ctx is done.
func (c *Cache) do(ctx context.Context, id string, fn func(ctx context.Context) (any, error)) (any, error, bool) {
	ch := c.flights.DoChan(id, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()
		return fn(fctx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err(), false
	case r := <-ch:
		return r.Val, r.Err, r.Shared
	}
}

// GetPage returns the page that starts at cursor. A page already in the
// current chain is returned without a round trip; otherwise fetch runs, with
// at most one outstanding call per key, chain and cursor. Concurrent callers
// share the result, and a caller whose ctx ends returns ctx.Err() without
// cancelling the fetch for the rest.
//
// The fetched page is appended only if it continues the chain it was
// requested for. If the chain was restarted meanwhile, the page is returned
// together with ErrSuperseded.
func GetPage[T any](ctx context.Context, c *Cache, key Key, cursor string, fetch paging.FetchFunc[T]) (paging.Page[T], error) {
	c.mu.Lock()
	e := c.ensure(key)
	if p, ok := e.page(cursor); ok {
		c.mu.Unlock()
		return p.data.(paging.Page[T]), nil
	}
	gen := e.gen
	e.inflight[cursor]++
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if cur, ok := c.entries[key.id()]; ok && cur.gen == gen {
			if cur.inflight[cursor]--; cur.inflight[cursor] <= 0 {
				delete(cur.inflight, cursor)
			}
		}
		c.mu.Unlock()
	}()

	v, err, shared := c.do(ctx, flightKey(key, gen, cursor), func(ctx context.Context) (any, error) {
		c.logger.Debug("cache fetch", "key", key.String(), "cursor", cursor)
		page, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}
		return appendPage(c, key, gen, cursor, page)
	})
	if shared {
		c.logger.Debug("cache fetch shared", "key", key.String(), "cursor", cursor)
	}
	if v == nil {
		return paging.Page[T]{}, err
	}
	return v.(paging.Page[T]), err
}

// AppendPage adds page to the current chain of key. It fails with
// ErrSuperseded when cursor does not continue the chain.
func AppendPage[T any](c *Cache, key Key, cursor string, page paging.Page[T]) error {
	c.mu.Lock()
	gen := c.ensure(key).gen
	c.mu.Unlock()
	_, err := appendPage(c, key, gen, cursor, page)
	return err
}

// appendPage stores page at cursor in generation gen of key. A page already
// stored at that cursor wins, so the chain never holds duplicates.
func appendPage[T any](c *Cache, key Key, gen uint64, cursor string, page paging.Page[T]) (paging.Page[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.id()]
	if !ok || e.gen != gen {
		c.logger.Debug("cache drop superseded page", "key", key.String(), "cursor", cursor)
		return page, ErrSuperseded
	}
	if p, ok := e.page(cursor); ok {
		return p.data.(paging.Page[T]), nil
	}
	if !e.continues(cursor) {
		c.logger.Debug("cache drop out-of-chain page", "key", key.String(), "cursor", cursor)
		return page, ErrSuperseded
	}
	e.pages = append(e.pages, storedPage{cursor: cursor, next: page.NextCursor, data: page})
	e.fetchedAt = c.now()
	return page, nil
}

// loadingFirstPage reports whether the current chain of key is empty and
// already fetching its first page.
func (c *Cache) loadingFirstPage(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.id()]
	return ok && len(e.pages) == 0 && e.inflight[""] > 0
}

// nextCursor returns the cursor continuing key's chain and whether the
// chain can grow. An absent or empty chain continues from the beginning.
func (c *Cache) nextCursor(key Key) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.id()]
	if !ok {
		return "", true
	}
	return e.next()
}

// Peek returns the pages accumulated under key without fetching.
func Peek[T any](c *Cache, key Key) ([]paging.Page[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.id()]
	if !ok || len(e.pages) == 0 {
		return nil, false
	}
	out := make([]paging.Page[T], len(e.pages))
	for i, p := range e.pages {
		out[i] = p.data.(paging.Page[T])
	}
	return out, true
}

// Query reads a single value under key. Cached data is reused while policy
// considers it fresh; otherwise fetch runs, deduplicated across concurrent
// callers.
func Query[T any](ctx context.Context, c *Cache, key Key, policy Policy, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	c.mu.Lock()
	e := c.ensure(key)
	if e.hasValue && policy.fresh(e.fetchedAt, c.now()) {
		v := e.value.(T)
		c.mu.Unlock()
		return v, nil
	}
	gen := e.gen
	c.mu.Unlock()

	v, err, _ := c.do(ctx, flightKey(key, gen, "\x00value"), func(ctx context.Context) (any, error) {
		c.logger.Debug("cache fetch", "key", key.String())
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if cur, ok := c.entries[key.id()]; ok && cur.gen == gen {
			cur.value = v
			cur.hasValue = true
			cur.fetchedAt = c.now()
		}
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// PeekValue returns the cached single value under key, fresh or not.
func PeekValue[T any](c *Cache, key Key) (T, bool) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.id()]
	if !ok || !e.hasValue {
		return zero, false
	}
	return e.value.(T), true
}
