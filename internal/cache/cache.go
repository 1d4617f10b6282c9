// Package cache implements the layered in-process TTL caches.
package cache

import (
	"sync"
	"time"
)

// entry wraps a value with its write timestamp for passive TTL expiry.
type entry[V any] struct {
	value   V
	written time.Time
}

// Store is a concurrency-safe key/value store with a TTL and a maximum entry
// count. Expired entries are treated as absent on read and evicted lazily.
// When the store is at capacity, the oldest entry by write time is evicted so
// the store never exceeds its configured maximum.
type Store[V any] struct {
	ttl time.Duration
	max int

	mu  sync.RWMutex
	m   map[string]entry[V]
	ord []string // insertion order, oldest first

	now func() time.Time // overridable in tests
}

// NewStore builds a store with the given TTL and maximum entry count. A
// non-positive maxEntries is raised to one so Put always has room to evict
// into.
func NewStore[V any](ttl time.Duration, maxEntries int) *Store[V] {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Store[V]{
		ttl: ttl,
		max: maxEntries,
		m:   make(map[string]entry[V]),
		ord: make([]string, 0, maxEntries),
		now: time.Now,
	}
}

// Get returns the cached value for key, or ok=false when the key is absent
// or its entry has outlived the TTL.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	e, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		var zero V
		return zero, false
	}
	if s.now().Sub(e.written) >= s.ttl {
		s.mu.Lock()
		// Re-check under the write lock; another goroutine may have refreshed it.
		if cur, still := s.m[key]; still && s.now().Sub(cur.written) >= s.ttl {
			s.remove(key)
		}
		s.mu.Unlock()
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put stores value under key, refreshing the write timestamp. At capacity the
// oldest entry is evicted first.
func (s *Store[V]) Put(key string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.m[key]; exists {
		s.remove(key)
	}
	for len(s.ord) >= s.max {
		s.remove(s.ord[0])
	}
	s.m[key] = entry[V]{value: value, written: s.now()}
	s.ord = append(s.ord, key)
}

// Len reports the number of live entries, including not-yet-evicted expired ones.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// Clear drops every entry.
func (s *Store[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = make(map[string]entry[V])
	s.ord = s.ord[:0]
}

// remove must be called with the write lock held.
func (s *Store[V]) remove(key string) {
	delete(s.m, key)
	for i, k := range s.ord {
		if k == key {
			s.ord = append(s.ord[:i], s.ord[i+1:]...)
			break
		}
	}
}
