package guarded

import (
	"context"
	"errors"
	"time"

	"github.com/baxromumarov/guarded/syncx"
)

// ErrAlreadySet is returned by [Promise.Set], [Promise.Fail], and
// [Promise.Break] when the cell has already been resolved.
var ErrAlreadySet = errors.New("guarded: promise already resolved")

// ErrBroken is observed by waiters when the producer abandoned the promise
// without resolving it.
var ErrBroken = errors.New("guarded: broken promise")

// ErrNotReady is returned by [Future.WaitTimeout] when the cell is still
// pending after the timeout. The cell is untouched; a later Wait succeeds
// once the producer resolves it.
var ErrNotReady = errors.New("guarded: future not ready")

// cell is the write-once state shared by a Promise/Future pair. val and err
// are written exactly once, before done is closed; the close orders them
// for every reader, so no reader can observe a torn value.
type cell[T any] struct {
	done chan struct{}

	mu       syncx.Mutex
	resolved bool

	val T
	err error
}

// Promise is the producer side of a write-once result cell. Exactly one of
// [Promise.Set], [Promise.Fail], or [Promise.Break] resolves it; later
// attempts fail with [ErrAlreadySet].
type Promise[T any] struct {
	c *cell[T]
}

// Future is the consumer side of a write-once result cell. It may be shared
// freely: any number of goroutines can wait, and each observes the same
// value. Waiting is repeatable.
type Future[T any] struct {
	c *cell[T]
}

// NewPromise creates a linked producer/consumer pair around an empty cell.
func NewPromise[T any]() (*Promise[T], *Future[T]) {
	c := &cell[T]{done: make(chan struct{})}
	return &Promise[T]{c: c}, &Future[T]{c: c}
}

func (c *cell[T]) resolve(v T, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resolved {
		return ErrAlreadySet
	}
	c.resolved = true
	c.val = v
	c.err = err
	close(c.done)
	return nil
}

// Set resolves the cell with a value, waking all waiters. A second
// resolution attempt returns [ErrAlreadySet] and leaves the stored value
// untouched.
func (p *Promise[T]) Set(v T) error {
	return p.c.resolve(v, nil)
}

// Fail resolves the cell with an error instead of a value.
func (p *Promise[T]) Fail(err error) error {
	var zero T
	return p.c.resolve(zero, err)
}

// Break resolves the cell with [ErrBroken] if it is still pending, and is a
// no-op (returning [ErrAlreadySet]) otherwise. Deferring Break in the
// producer guarantees waiters never block forever on an abandoned promise:
//
//	go func() {
//	    defer p.Break()
//	    p.Set(compute())
//	}()
func (p *Promise[T]) Break() error {
	var zero T
	return p.c.resolve(zero, ErrBroken)
}

// Wait blocks until the cell is resolved, then returns the value or the
// producer's error. Every caller observes the identical outcome.
func (f *Future[T]) Wait() (T, error) {
	<-f.c.done
	return f.c.val, f.c.err
}

// WaitContext is [Future.Wait] bounded by a context. It returns ctx.Err()
// if the context ends first; the pending state is untouched.
func (f *Future[T]) WaitContext(ctx context.Context) (T, error) {
	select {
	case <-f.c.done:
		return f.c.val, f.c.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// WaitTimeout is [Future.Wait] bounded by a duration. It returns
// [ErrNotReady] if the cell is still pending when the duration elapses; a
// later Wait still succeeds once the producer resolves the cell.
func (f *Future[T]) WaitTimeout(d time.Duration) (T, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-f.c.done:
		return f.c.val, f.c.err
	case <-timer.C:
		var zero T
		return zero, ErrNotReady
	}
}

// Done returns a channel closed when the cell is resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.c.done
}

// Ready reports whether the cell has been resolved, without blocking.
func (f *Future[T]) Ready() bool {
	select {
	case <-f.c.done:
		return true
	default:
		return false
	}
}

// Async spawns a named producer task for fn and returns the [Future] for
// its result. The task is detached; the future is the completion surface.
//
// fn's error resolves the future with that error. A panic in fn resolves it
// with the captured [*PanicError], so waiters never hang on a crashed
// producer.
func Async[T any](name string, fn func() (T, error)) *Future[T] {
	p, f := NewPromise[T]()

	t := Go(name, func() (err error) {
		// Break covers exits that bypass the explicit resolutions below.
		defer p.Break()
		defer func() {
			if r := recover(); r != nil {
				pe := newPanicError(r)
				p.Fail(pe)
				err = pe
			}
		}()

		v, err := fn()
		if err != nil {
			p.Fail(err)
			return err
		}
		p.Set(v)
		return nil
	})

	t.Detach()
	return f
}
