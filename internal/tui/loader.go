package tui

import "time"

// DefaultMinLoader is how long the spinner stays up once shown.
const DefaultMinLoader = 400 * time.Millisecond

// minLoader keeps the loading indicator visible for at least min after
// loading starts, so a fast response does not flash it. It holds no timers:
// Stop returns the delay to wait and a sequence number, and the hide only
// applies if no Start or Stop happened in between.
type minLoader struct {
	min     time.Duration
	started time.Time
	loading bool
	visible bool
	seq     uint64
}

func newMinLoader(min time.Duration) *minLoader {
	if min < 0 {
		min = 0
	}
	return &minLoader{min: min}
}

// Start shows the indicator. Restarting while already loading keeps the
// original start time.
func (l *minLoader) Start(now time.Time) {
	l.seq++
	if !l.loading {
		l.loading = true
		l.started = now
	}
	l.visible = true
}

// Stop ends loading. A zero delay means the indicator is already hidden;
// otherwise the caller should call Hide(seq) after delay.
func (l *minLoader) Stop(now time.Time) (time.Duration, uint64) {
	l.seq++
	if !l.loading {
		l.visible = false
		return 0, l.seq
	}
	l.loading = false
	remaining := l.min - now.Sub(l.started)
	if remaining <= 0 {
		l.visible = false
		return 0, l.seq
	}
	return remaining, l.seq
}

// Hide applies a delayed hide scheduled by Stop. Stale sequence numbers are
// ignored.
func (l *minLoader) Hide(seq uint64) bool {
	if seq != l.seq || l.loading {
		return false
	}
	l.visible = false
	return true
}

func (l *minLoader) Loading() bool { return l.loading }

func (l *minLoader) Visible() bool { return l.visible }
