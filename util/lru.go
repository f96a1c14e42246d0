package util

import (
	"fmt"
	"strings"
	"sync"
)

// LRU is a fixed-capacity, least-recently-used cache safe for concurrent use.
// Entries are kept on a circular list around a sentinel, most recent first.
type LRU[K comparable, V any] struct {
	mtx      *sync.Mutex
	entries  map[K]*lruEntry[K, V]
	sentinel *lruEntry[K, V]
	capacity int
}

type lruEntry[K comparable, V any] struct {
	key        K
	value      V
	prev, next *lruEntry[K, V]
}

// NewLRU returns a cache holding at most capacity entries.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	sentinel := &lruEntry[K, V]{}
	sentinel.prev, sentinel.next = sentinel, sentinel
	return &LRU[K, V]{
		mtx:      &sync.Mutex{},
		entries:  make(map[K]*lruEntry[K, V]),
		sentinel: sentinel,
		capacity: capacity,
	}
}

// Put inserts or updates a key, marking it most recently used.
func (c *LRU[K, V]) Put(key K, value V) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if e, ok := c.entries[key]; ok {
		e.value = value
		c.unlink(e)
		c.pushFront(e)
		return
	}
	e := &lruEntry[K, V]{key: key, value: value}
	c.entries[key] = e
	c.pushFront(e)
	for len(c.entries) > c.capacity {
		oldest := c.sentinel.prev
		c.unlink(oldest)
		delete(c.entries, oldest.key)
	}
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.unlink(e)
	c.pushFront(e)
	return e.value, true
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return len(c.entries)
}

// Reset empties the cache.
func (c *LRU[K, V]) Reset() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.entries = make(map[K]*lruEntry[K, V])
	c.sentinel.prev, c.sentinel.next = c.sentinel, c.sentinel
}

func (c *LRU[K, V]) pushFront(e *lruEntry[K, V]) {
	e.prev = c.sentinel
	e.next = c.sentinel.next
	c.sentinel.next.prev = e
	c.sentinel.next = e
}

func (c *LRU[K, V]) unlink(e *lruEntry[K, V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
}

// String returns the cache contents, most recent first.
func (c *LRU[K, V]) String() string {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	parts := make([]string, 0, len(c.entries))
	for e := c.sentinel.next; e != c.sentinel; e = e.next {
		parts = append(parts, fmt.Sprintf("%v:%v", e.key, e.value))
	}
	return fmt.Sprintf("(%d/%d) [%s]", len(c.entries), c.capacity, strings.Join(parts, " "))
}
