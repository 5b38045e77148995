package tui

import (
	"testing"
	"time"
)

func TestMinLoaderKeepsSpinnerUp(t *testing.T) {
	l := newMinLoader(400 * time.Millisecond)
	t0 := time.Now()

	l.Start(t0)
	if !l.Visible() {
		t.Fatal("loader should be visible after Start")
	}

	delay, seq := l.Stop(t0.Add(100 * time.Millisecond))
	if delay != 300*time.Millisecond {
		t.Fatalf("delay = %v, want 300ms", delay)
	}
	if !l.Visible() {
		t.Error("loader hidden before the minimum elapsed")
	}
	if !l.Hide(seq) {
		t.Error("Hide with current seq should apply")
	}
	if l.Visible() {
		t.Error("loader still visible after Hide")
	}
}

func TestMinLoaderSlowLoadHidesImmediately(t *testing.T) {
	l := newMinLoader(400 * time.Millisecond)
	t0 := time.Now()
	l.Start(t0)
	delay, _ := l.Stop(t0.Add(time.Second))
	if delay != 0 {
		t.Errorf("delay = %v, want 0", delay)
	}
	if l.Visible() {
		t.Error("loader should be hidden")
	}
}

func TestMinLoaderRestartSupersedesHide(t *testing.T) {
	l := newMinLoader(400 * time.Millisecond)
	t0 := time.Now()
	l.Start(t0)
	_, seq := l.Stop(t0.Add(50 * time.Millisecond))

	l.Start(t0.Add(100 * time.Millisecond))
	if l.Hide(seq) {
		t.Error("stale hide applied after restart")
	}
	if !l.Visible() || !l.Loading() {
		t.Error("loader should be loading and visible")
	}

	// The minimum counts from the restart.
	delay, _ := l.Stop(t0.Add(200 * time.Millisecond))
	if delay != 300*time.Millisecond {
		t.Errorf("delay = %v, want 300ms", delay)
	}
}

func TestMinLoaderStartWhileLoadingKeepsStart(t *testing.T) {
	l := newMinLoader(400 * time.Millisecond)
	t0 := time.Now()
	l.Start(t0)
	l.Start(t0.Add(300 * time.Millisecond))
	delay, _ := l.Stop(t0.Add(350 * time.Millisecond))
	if delay != 50*time.Millisecond {
		t.Errorf("delay = %v, want 50ms", delay)
	}
}

func TestMinLoaderStopWithoutStart(t *testing.T) {
	l := newMinLoader(400 * time.Millisecond)
	delay, _ := l.Stop(time.Now())
	if delay != 0 || l.Visible() {
		t.Errorf("delay = %v visible = %v, want 0 false", delay, l.Visible())
	}
}
