package store

import (
	"sync"
	"time"
)

// Registry keeps one Store per visitor and forgets visitors idle longer
// than its TTL.
type Registry struct {
	mu     sync.Mutex
	stores map[string]*visitor
	ttl    time.Duration
	build  func() *Store
	now    func() time.Time
}

type visitor struct {
	store    *Store
	lastSeen time.Time
}

func NewRegistry(ttl time.Duration, build func() *Store) *Registry {
	return &Registry{
		stores: make(map[string]*visitor),
		ttl:    ttl,
		build:  build,
		now:    time.Now,
	}
}

// Get returns the visitor's store, creating it on first use.
func (r *Registry) Get(visitorID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.stores[visitorID]
	if !ok {
		v = &visitor{store: r.build()}
		r.stores[visitorID] = v
	}
	v.lastSeen = r.now()
	return v.store
}

// EvictIdle drops stores not touched within the TTL and returns how many
// went away.
func (r *Registry) EvictIdle() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-r.ttl)
	n := 0
	for id, v := range r.stores {
		if v.lastSeen.Before(cutoff) {
			v.store.Contact.Reset()
			delete(r.stores, id)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
