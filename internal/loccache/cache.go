// Package loccache remembers where anchor templates were last found on screen.
//
// Entries never expire; callers choose per lookup whether to trust them. A
// stale entry after the UI moves is expected and is corrected by the next
// uncached search.
package loccache

import (
	"log/slog"

	"github.com/GriffinCanCode/gamesight/internal/syncx"
	"github.com/GriffinCanCode/gamesight/internal/vision"
)

// Entry is a cached location plus the fingerprint of the pixels under it at
// the time it was recorded. Fingerprint is zero when unknown.
type Entry struct {
	Box         vision.BoundingBox
	Fingerprint int64
}

// Cache is safe for concurrent use. Locks are held only for the map access.
type Cache struct {
	entries *syncx.RWGuard[map[string]Entry]
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: syncx.NewGuard(make(map[string]Entry))}
}

// Get returns the cached box for key. An entry with a zero-size box is treated
// as a miss.
func (c *Cache) Get(key string) (vision.BoundingBox, bool) {
	e, ok := c.Lookup(key)
	return e.Box, ok
}

// Lookup returns the full entry for key.
func (c *Cache) Lookup(key string) (Entry, bool) {
	type hit struct {
		e  Entry
		ok bool
	}
	h := syncx.View(c.entries, func(m map[string]Entry) hit {
		e, ok := m[key]
		return hit{e, ok}
	})
	e := h.e
	if !h.ok {
		return Entry{}, false
	}
	if !e.Box.Valid() {
		slog.Warn("location cache entry failed invariant, ignoring", "key", key, "box", e.Box)
		return Entry{}, false
	}
	return e, true
}

// Update stores box under key with no fingerprint.
func (c *Cache) Update(key string, box vision.BoundingBox) {
	c.Store(key, Entry{Box: box})
}

// Store stores a full entry under key.
func (c *Cache) Store(key string, e Entry) {
	c.entries.Write(func(m *map[string]Entry) {
		(*m)[key] = e
	})
}

// Clear removes key.
func (c *Cache) Clear(key string) {
	c.entries.Write(func(m *map[string]Entry) {
		delete(*m, key)
	})
}

// ClearAll removes every entry.
func (c *Cache) ClearAll() {
	c.entries.Set(make(map[string]Entry))
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	return syncx.View(c.entries, func(m map[string]Entry) int { return len(m) })
}
