package server

import (
	"container/list"
	"sync"
	"time"
)

type entry[V any] struct {
	key     string
	value   V
	expires time.Time
}

// Cache is a size-bounded LRU cache whose entries expire after a fixed TTL. It is safe for concurrent use.
type Cache[V any] struct {
	mu    sync.Mutex
	ttl   time.Duration
	size  int
	order *list.List // front is most recently used
	items map[string]*list.Element
	now   func() time.Time
}

// NewCache returns a cache holding at most size entries for ttl each.
func NewCache[V any](ttl time.Duration, size int) *Cache[V] {
	return &Cache[V]{
		ttl:   ttl,
		size:  size,
		order: list.New(),
		items: map[string]*list.Element{},
		now:   time.Now,
	}
}

// Get returns the value for key if present and not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	e := elem.Value.(*entry[V])
	if !c.now().Before(e.expires) {
		c.remove(elem)
		var zero V
		return zero, false
	}
	c.order.MoveToFront(elem)
	return e.value, true
}

// Set stores the value for key, evicting the least recently used entry when full.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := c.now().Add(c.ttl)
	if elem, ok := c.items[key]; ok {
		e := elem.Value.(*entry[V])
		e.value, e.expires = value, expires
		c.order.MoveToFront(elem)
		return
	}
	if c.size <= 0 {
		return
	}
	for c.size <= c.order.Len() {
		c.remove(c.order.Back())
	}
	c.items[key] = c.order.PushFront(&entry[V]{key, value, expires})
}

// Len returns the number of entries, including expired ones not yet removed.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *Cache[V]) remove(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.items, elem.Value.(*entry[V]).key)
}
