package shiftfanout

import "sync"

// RecordStore is a keyed container safe for concurrent use. A Get observes
// either the whole of a prior Put or none of it.
type RecordStore[K comparable, V any] interface {
	Put(key K, value V)
	Get(key K) (V, bool)
	Delete(key K)
	All() []V
	Clear()
	Len() int
}

// Ensure MemoryStore implements [RecordStore].
var _ RecordStore[string, Shift] = (*MemoryStore[string, Shift])(nil)

// MemoryStore is a volatile [RecordStore] backed by a map.
type MemoryStore[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore[K comparable, V any]() *MemoryStore[K, V] {
	return &MemoryStore[K, V]{items: make(map[K]V)}
}

// Put inserts or replaces the value stored under key.
func (s *MemoryStore[K, V]) Put(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.items == nil {
		s.items = make(map[K]V)
	}
	s.items[key] = value
}

// Get returns the value stored under key, and whether it was present.
func (s *MemoryStore[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[key]
	return v, ok
}

// Delete removes key. Deleting a missing key is a no-op.
func (s *MemoryStore[K, V]) Delete(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// All returns a snapshot of the stored values in no particular order.
func (s *MemoryStore[K, V]) All() []V {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values := make([]V, 0, len(s.items))
	for _, v := range s.items {
		values = append(values, v)
	}
	return values
}

// Clear removes every value.
func (s *MemoryStore[K, V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.items)
}

// Len returns the number of stored values.
func (s *MemoryStore[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
