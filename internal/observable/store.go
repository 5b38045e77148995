// Package observable is a minimal publish/subscribe cell for state that is
// mutated outside of the consumers that read it.
package observable

import "sync"

type subscription struct {
	id uint64
	fn func()
}

// Store holds a value of T. Every mutation notifies subscribers
// synchronously, in registration order, after the new value is visible to
// Snapshot.
type Store[T any] struct {
	mu        sync.Mutex
	value     T
	initial   T
	nextID    uint64
	listeners []subscription
}

// New returns a store whose value and pre-hydration snapshot are initial.
func New[T any](initial T) *Store[T] {
	return &Store[T]{value: initial, initial: initial}
}

func (s *Store[T]) Snapshot() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// ServerSnapshot is the value consumers must assume before hydration.
func (s *Store[T]) ServerSnapshot() T {
	return s.initial
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (s *Store[T]) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Set replaces the value and notifies.
func (s *Store[T]) Set(v T) {
	s.Update(func(T) T { return v })
}

// Update applies fn to the current value under the store lock, then
// notifies. Listeners run outside the lock so they may read or mutate the
// store.
func (s *Store[T]) Update(fn func(T) T) {
	s.mu.Lock()
	s.value = fn(s.value)
	listeners := append([]subscription(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn()
	}
}
