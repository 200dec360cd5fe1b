// Package syncx holds small generic wrappers over sync primitives.
package syncx

import "sync"

// RWGuard owns a value that is only reachable under its RWMutex.
//
// Go mutexes do not poison: all accessors unlock with defer, so a callback that
// panics leaves the guard usable and the value as the callback left it. Callers
// that keep an invariant on the value re-check it after acquiring.
type RWGuard[T any] struct {
	mu sync.RWMutex
	v  T
}

// NewGuard wraps v.
func NewGuard[T any](v T) *RWGuard[T] {
	return &RWGuard[T]{v: v}
}

// View runs fn under the read lock. fn must not retain or modify reference
// types it receives; copy out what it needs.
func View[T, R any](g *RWGuard[T], fn func(T) R) R {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return fn(g.v)
}

// Write runs fn under the write lock.
func (g *RWGuard[T]) Write(fn func(*T)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(&g.v)
}

// Get returns the value. For pointer or map types the caller shares it.
func (g *RWGuard[T]) Get() T {
	return View(g, func(v T) T { return v })
}

// Set replaces the value.
func (g *RWGuard[T]) Set(v T) {
	g.Write(func(p *T) { *p = v })
}
