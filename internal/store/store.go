package store

import "sync"

// Store is an observable value container. Writes replace the whole value
// and every subscriber is notified after the write; concurrent writers
// resolve as last writer wins.
type Store[T any] struct {
	mu      sync.Mutex
	value   T
	version uint64
	nextID  int
	subs    []*subscription[T]
}

type subscription[T any] struct {
	id int
	fn func(T)

	mu   sync.Mutex
	last uint64
}

// deliver calls fn unless a newer version already reached this subscriber
func (s *subscription[T]) deliver(version uint64, value T) {
	s.mu.Lock()
	if version <= s.last {
		s.mu.Unlock()
		return
	}
	s.last = version
	s.mu.Unlock()

	s.fn(value)
}

// New creates a store holding initial
func New[T any](initial T) *Store[T] {
	return &Store[T]{value: initial, version: 1}
}

// Get returns the current value
func (s *Store[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set replaces the value and notifies subscribers
func (s *Store[T]) Set(value T) {
	s.Update(func(T) T { return value })
}

// Update replaces the value with fn(current) and notifies subscribers.
// fn runs under the store's lock and must not touch the store.
func (s *Store[T]) Update(fn func(T) T) {
	s.mu.Lock()
	s.value = fn(s.value)
	s.version++
	value, version := s.value, s.version
	subs := make([]*subscription[T], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.deliver(version, value)
	}
}

// Subscribe registers fn, calls it with the current value and then after
// every change. The returned function removes the subscription.
func (s *Store[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	sub := &subscription[T]{id: s.nextID, fn: fn}
	s.subs = append(s.subs, sub)
	value, version := s.value, s.version
	s.mu.Unlock()

	sub.deliver(version, value)

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(sub.id) })
	}
}

// Subscribers returns the number of active subscriptions
func (s *Store[T]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *Store[T]) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}
