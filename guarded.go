package guarded

import "github.com/baxromumarov/guarded/syncx"

// Guarded bundles a value with the mutex that protects it. The value is
// reachable only inside [Guarded.Do] and [Guarded.DoErr] closures, so it
// cannot be read or written without holding the lock.
//
//	counter := guarded.New(0)
//	counter.Do(func(n *int) { *n++ })
//
// The closure receives a pointer valid only for the duration of the call.
// Retaining it past the closure's return defeats the guard.
type Guarded[T any] struct {
	mu  syncx.Mutex
	val T
}

// New creates a [Guarded] owning the given initial value.
func New[T any](initial T) *Guarded[T] {
	return &Guarded[T]{val: initial}
}

// Do acquires the lock, invokes fn with exclusive access to the value, and
// releases the lock on every exit path. A panic in fn unlocks before
// propagating, so a recovered caller can keep using the guard.
func (g *Guarded[T]) Do(fn func(*T)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(&g.val)
}

// DoErr is [Guarded.Do] for closures that can fail. The lock is released
// before the error is returned.
func (g *Guarded[T]) DoErr(fn func(*T) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(&g.val)
}

// Get returns a copy of the value taken under the lock.
//
// If T contains reference types (slices, maps, pointers), the copy shares
// their backing storage; use [Guarded.Do] to work with such values safely.
func (g *Guarded[T]) Get() T {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.val
}

// Set replaces the value under the lock.
func (g *Guarded[T]) Set(v T) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.val = v
}

// Swap replaces the value and returns the previous one, atomically with
// respect to all other accessors.
func (g *Guarded[T]) Swap(v T) T {
	g.mu.Lock()
	defer g.mu.Unlock()
	old := g.val
	g.val = v
	return old
}
