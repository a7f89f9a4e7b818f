package gocbkvx

import (
	"sync"

	"go.uber.org/atomic"
)

// cowCache is a read-mostly cache.  Lookups of existing entries read an
// immutable snapshot without locking; misses generate the value under a lock
// and publish a new snapshot.
type cowCache[K comparable, V any] struct {
	gen func(K) V

	snapshot atomic.Pointer[map[K]V]
	lock     sync.Mutex
	entries  map[K]V
}

func newCowCache[K comparable, V any](gen func(K) V) *cowCache[K, V] {
	c := &cowCache[K, V]{
		gen:     gen,
		entries: make(map[K]V),
	}
	c.publishLocked()
	return c
}

func (c *cowCache[K, V]) publishLocked() {
	snapshot := make(map[K]V, len(c.entries))
	for k, v := range c.entries {
		snapshot[k] = v
	}
	c.snapshot.Store(&snapshot)
}

func (c *cowCache[K, V]) Get(k K) V {
	if v, ok := (*c.snapshot.Load())[k]; ok {
		return v
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	if v, ok := c.entries[k]; ok {
		return v
	}

	v := c.gen(k)
	c.entries[k] = v
	c.publishLocked()
	return v
}
