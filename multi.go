package guarded

import (
	"runtime"

	"github.com/baxromumarov/guarded/syncx"
)

// Do2 acquires the locks of two guards all-or-nothing and invokes fn with
// exclusive access to both values. Acquisition never holds one lock while
// blocking on the other: the second lock is only tried, and on failure the
// first is released before retrying with the roles swapped. Two goroutines
// crossing the same pair of guards in opposite order therefore cannot
// deadlock.
//
// Both locks are released on every exit path, including a panic in fn.
//
// a and b must be distinct guards; passing the same guard twice deadlocks.
func Do2[A, B any](a *Guarded[A], b *Guarded[B], fn func(*A, *B) error) error {
	lockPair(&a.mu, &b.mu)
	defer a.mu.Unlock()
	defer b.mu.Unlock()
	return fn(&a.val, &b.val)
}

// lockPair acquires both mutexes using lock-then-try with role swapping.
func lockPair(first, second *syncx.Mutex) {
	for {
		first.Lock()
		if second.TryLock() {
			return
		}
		first.Unlock()
		// The other holder is mid-acquisition; yield so it can finish
		// before we retry from its side.
		first, second = second, first
		runtime.Gosched()
	}
}
