package shiftfanout

import "sync"

// LockRegistry hands out one mutex per key, creating it on first use. Locks
// for distinct keys never contend. The zero value is ready to use.
//
// Locks are never removed, so the registry grows with the number of distinct
// keys it has seen.
type LockRegistry[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*sync.Mutex
}

// Acquire blocks until the lock for key is held and returns the function that
// releases it. Calling release more than once has no further effect.
func (r *LockRegistry[K]) Acquire(key K) (release func()) {
	l := r.lockFor(key)
	l.Lock()

	var once sync.Once
	return func() {
		once.Do(l.Unlock)
	}
}

func (r *LockRegistry[K]) lockFor(key K) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.locks == nil {
		r.locks = make(map[K]*sync.Mutex)
	}

	l, ok := r.locks[key]
	if !ok {
		l = &sync.Mutex{}
		r.locks[key] = l
	}
	return l
}

// Len returns the number of keys a lock has been created for.
func (r *LockRegistry[K]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.locks)
}
