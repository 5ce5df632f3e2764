package guarded

import (
	"errors"
	"sync"
	"time"

	"github.com/baxromumarov/guarded/syncx"
)

// ErrQueueClosed is returned by [Queue.Push] after [Queue.Close].
var ErrQueueClosed = errors.New("guarded: queue is closed")

// Queue is an unbounded FIFO queue coordinating producers and consumers
// with a condition variable. [Queue.Pop] blocks until an item is available
// or the queue is closed and drained.
//
// Every wait re-checks its predicate in a loop, so spurious wakeups and
// competing consumers are handled: a woken consumer that finds the queue
// empty simply waits again.
type Queue[T any] struct {
	mu    syncx.Mutex
	cond  *sync.Cond
	items []T

	closed bool
}

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends v and wakes one waiting consumer.
// Returns [ErrQueueClosed] if the queue has been closed.
func (q *Queue[T]) Push(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	q.items = append(q.items, v)
	q.cond.Signal()
	return nil
}

// Pop removes and returns the oldest item, blocking while the queue is
// empty. It returns ok=false only when the queue is closed and drained.
//
// Each pushed item is observed by exactly one consumer.
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	return q.popLocked()
}

// TryPop removes and returns the oldest item without blocking.
// Returns ok=false if the queue is currently empty.
func (q *Queue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked()
}

// PopTimeout is [Queue.Pop] bounded by a duration. Returns ok=false if no
// item arrives before the duration elapses.
func (q *Queue[T]) PopTimeout(d time.Duration) (T, bool) {
	deadline := time.Now().Add(d)

	// sync.Cond has no timed wait; a timer broadcast wakes all waiters,
	// and the predicate loop sorts out who actually proceeds.
	timer := time.AfterFunc(d, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer timer.Stop()

	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		if !time.Now().Before(deadline) {
			var zero T
			return zero, false
		}
		q.cond.Wait()
	}
	return q.popLocked()
}

func (q *Queue[T]) popLocked() (T, bool) {
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	v := q.items[0]
	q.items = q.items[1:]
	return v, true
}

// Close marks the queue closed and wakes every waiter. Items already queued
// remain poppable; Push fails afterwards. Close is idempotent.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
