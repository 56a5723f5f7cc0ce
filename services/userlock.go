package services

import "sync"

// lockRegistry serializes all writers for a given user key. Entries are
// reference counted and removed once the last holder releases, so the map
// does not grow with the user population.
type lockRegistry struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func newLockRegistry() *lockRegistry {
	return &lockRegistry{locks: map[string]*userLock{}}
}

// Lock blocks until the per-user mutex for key is held.
func (r *lockRegistry) Lock(key string) {
	r.mu.Lock()
	l, ok := r.locks[key]
	if !ok {
		l = &userLock{}
		r.locks[key] = l
	}
	l.refs++
	r.mu.Unlock()

	l.mu.Lock()
}

// Unlock releases the per-user mutex and drops the entry when unused.
func (r *lockRegistry) Unlock(key string) {
	r.mu.Lock()
	l := r.locks[key]
	l.refs--
	if l.refs == 0 {
		delete(r.locks, key)
	}
	r.mu.Unlock()

	l.mu.Unlock()
}
