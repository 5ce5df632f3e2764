//go:build !deadlock

// Package syncx provides the mutex primitives used by the guarded wrappers,
// with optional deadlock detection. Build with -tags=deadlock to swap the
// stdlib mutexes for instrumented ones during development and testing.
package syncx

import "sync"

// DeadlockEnabled is true if the deadlock detector is compiled in.
const DeadlockEnabled = false

// A Mutex is a mutual exclusion lock.
type Mutex struct {
	sync.Mutex
}

// An RWMutex is a reader/writer mutual exclusion lock.
type RWMutex struct {
	sync.RWMutex
}
