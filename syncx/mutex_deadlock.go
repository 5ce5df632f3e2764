//go:build deadlock

// Package syncx provides the mutex primitives used by the guarded wrappers,
// with optional deadlock detection. Build with -tags=deadlock to swap the
// stdlib mutexes for instrumented ones during development and testing.
package syncx

import (
	"time"

	deadlock "github.com/sasha-s/go-deadlock"
)

// DeadlockEnabled is true if the deadlock detector is compiled in.
const DeadlockEnabled = true

func init() {
	deadlock.Opts.DeadlockTimeout = 30 * time.Second
}

// A Mutex is a mutual exclusion lock.
type Mutex struct {
	deadlock.Mutex
}

// An RWMutex is a reader/writer mutual exclusion lock.
type RWMutex struct {
	deadlock.RWMutex
}
