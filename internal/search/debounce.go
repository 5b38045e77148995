// Package search keeps a free-text search input and the committed query (the
// one that drives fetching) in sync, committing only after typing pauses.
package search

import (
	"sync"
	"time"
)

// DefaultDelay is the pause after the last keystroke before a query is
// committed.
const DefaultDelay = 280 * time.Millisecond

// Tick identifies one armed countdown. Only the most recent tick may commit.
type Tick uint64

// QueryChanged announces a newly committed query. Listings restart on it.
type QueryChanged struct {
	Query string
}

// Debounce is a clock-free state machine. A driver arms a timer for every
// Tick returned by Input and reports expiry through Expire; the bubbletea UI
// arms them with tea.Tick.
type Debounce struct {
	mu        sync.Mutex
	input     string
	committed string
	tick      Tick
	pending   bool
}

func NewDebounce(committed string) *Debounce {
	return &Debounce{input: committed, committed: committed}
}

// Input records the current input. It returns the tick to arm and true, or
// false when the input already equals the committed query, in which case any
// pending countdown is cancelled.
func (d *Debounce) Input(v string) (Tick, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.input = v
	d.tick++
	d.pending = v != d.committed
	return d.tick, d.pending
}

// Expire reports that the countdown for t ran out. The input is committed and
// returned only if t is still the latest tick and the input differs from the
// committed query.
func (d *Debounce) Expire(t Tick) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t != d.tick || !d.pending {
		return "", false
	}
	d.pending = false
	if d.input == d.committed {
		return "", false
	}
	d.committed = d.input
	return d.committed, true
}

// SetCommitted adopts a query committed elsewhere (navigation, a language
// switch). The input follows it and any pending countdown is dropped.
func (d *Debounce) SetCommitted(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.committed = v
	d.input = v
	d.tick++
	d.pending = false
}

// Cancel drops the pending countdown, keeping the input as is.
func (d *Debounce) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tick++
	d.pending = false
}

func (d *Debounce) Value() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.input
}

func (d *Debounce) Committed() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.committed
}

func (d *Debounce) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}
