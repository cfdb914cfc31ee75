// Package cache holds the last successfully fetched copy of each dashboard
// section so views can render instantly while a refresh runs. Entries never
// expire on their own; a newer fetch overwrites, and logout clears
// everything.
package cache

import (
	"sync"
	"time"
)

// ListKey addresses a metric-scoped customer list. The two dimensions are
// kept separate so "gsv" daily and "gsv" weekly can never collide.
type ListKey struct {
	Metric string
	Period string
}

// Entry pairs cached data with the time it was stored. Timestamp is
// informational; staleness never causes eviction.
type Entry struct {
	Data      any
	Timestamp time.Time
}

// Cache is a last-write-wins in-memory store. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	lists   map[ListKey]Entry
	now     func() time.Time
}

func New() *Cache {
	return &Cache{
		entries: make(map[string]Entry),
		lists:   make(map[ListKey]Entry),
		now:     time.Now,
	}
}

// Get returns the cached data for key, or nil when nothing is stored.
func (c *Cache) Get(key string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[key].Data
}

// GetEntry returns the full entry and whether it exists.
func (c *Cache) GetEntry(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

// Put stores data under key, overwriting any previous value.
func (c *Cache) Put(key string, data any) {
	c.mu.Lock()
	c.entries[key] = Entry{Data: data, Timestamp: c.now()}
	c.mu.Unlock()
}

// GetList returns the customer list cached under the composite key, or nil.
func (c *Cache) GetList(key ListKey) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lists[key].Data
}

// PutList stores a customer list under the composite key.
func (c *Cache) PutList(key ListKey, data any) {
	c.mu.Lock()
	c.lists[key] = Entry{Data: data, Timestamp: c.now()}
	c.mu.Unlock()
}

// Clear drops every entry. Called on logout so the next user never sees the
// previous user's data.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]Entry)
	c.lists = make(map[ListKey]Entry)
	c.mu.Unlock()
}

// Len reports how many flat entries are stored.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
