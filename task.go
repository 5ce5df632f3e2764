package guarded

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ErrNotJoinable is returned by [Task.Join] and [Task.Detach] when the task
// has already been joined, detached, or moved away.
var ErrNotJoinable = errors.New("guarded: task is not joinable")

// TaskState describes where a [Task] handle is in its lifecycle.
type TaskState int32

const (
	// StateJoinable means the handle owns a goroutine that has not been
	// joined or detached. The owner must eventually call Join, Detach, or
	// Close.
	StateJoinable TaskState = iota

	// StateJoined is terminal: the goroutine was waited to completion.
	StateJoined

	// StateDetached is terminal: ownership was relinquished and the
	// goroutine runs to completion on its own.
	StateDetached

	// StateEmpty is terminal for this handle: ownership was transferred
	// via [Task.Move]. Close on an empty handle is a no-op.
	StateEmpty
)

func (s TaskState) String() string {
	switch s {
	case StateJoinable:
		return "joinable"
	case StateJoined:
		return "joined"
	case StateDetached:
		return "detached"
	case StateEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// task holds the goroutine-side state. It is shared between handles when
// ownership is transferred via Move; only the handle state moves.
type task struct {
	info TaskInfo
	cfg  config
	done chan struct{}

	// err and pan are written once before done is closed; the channel
	// close orders them for joiners.
	err error
	pan *PanicError
}

// Task is the exclusive owner of a spawned goroutine. By the time a Task is
// discarded, the goroutine must have been joined or detached; deferring
// [Task.Close] guarantees this on every exit path:
//
//	t := guarded.Go("upload", upload)
//	defer t.Close()
//
// A Task transitions Joinable -> Joined (Join/Close), Joinable -> Detached
// (Detach), or Joinable -> Empty (Move). All terminal states are final.
//
// Exactly one goroutine may win the transition out of Joinable; concurrent
// Join calls lose deterministically with [ErrNotJoinable].
type Task struct {
	t     *task
	state atomic.Int32
}

// Go spawns fn in a new goroutine and returns the owning [Task].
//
// fn's error (wrapped in [*TaskError]) is surfaced to whoever joins. A
// panic in fn is captured with its stack and re-raised in [Task.Join] as a
// [*PanicError], or returned as an error under [WithPanicAsError]. A
// detached task's panic is swallowed; detach only when the task cannot fail
// in ways the owner cares about.
func Go(name string, fn func() error, opts ...Option) *Task {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	inner := &task{
		info: TaskInfo{ID: uuid.New(), Name: name},
		cfg:  cfg,
		done: make(chan struct{}),
	}

	go inner.run(fn)

	return &Task{t: inner}
}

func (t *task) run(fn func() error) {
	start := time.Now()

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				pe := newPanicError(r)
				if t.cfg.panicAsErr {
					err = pe
				} else {
					t.pan = pe
				}
			}
		}()
		err = fn()
	}()

	if err != nil {
		t.err = &TaskError{Task: t.info, Err: err}
	}

	if t.cfg.onDone != nil {
		// Runs before joiners are released. A panic here is intentionally
		// unrecovered: observability hooks must not panic.
		t.cfg.onDone(t.info, t.err, time.Since(start))
	}

	close(t.done)
}

// Join blocks until the goroutine completes and returns its error, wrapped
// in [*TaskError]. If the task panicked (and [WithPanicAsError] was not
// set), Join re-panics with the captured [*PanicError] in the joining
// goroutine.
//
// Join on a handle that is already joined, detached, or empty returns
// [ErrNotJoinable].
func (t *Task) Join() error {
	if !t.state.CompareAndSwap(int32(StateJoinable), int32(StateJoined)) {
		return ErrNotJoinable
	}
	return t.join()
}

func (t *Task) join() error {
	<-t.t.done
	if t.t.pan != nil {
		panic(t.t.pan)
	}
	return t.t.err
}

// Detach relinquishes ownership. The goroutine runs to completion on its
// own; nothing waits for it and its outcome is unobservable through this
// handle. Returns [ErrNotJoinable] if the task was already joined,
// detached, or moved.
func (t *Task) Detach() error {
	if !t.state.CompareAndSwap(int32(StateJoinable), int32(StateDetached)) {
		return ErrNotJoinable
	}
	return nil
}

// Close joins the task if this handle still owns it and is otherwise a
// no-op. It is idempotent, which makes it safe to defer unconditionally.
// When Close performs the join it returns the task's error and re-raises a
// captured panic, exactly like [Task.Join].
func (t *Task) Close() error {
	if !t.state.CompareAndSwap(int32(StateJoinable), int32(StateJoined)) {
		return nil
	}
	return t.join()
}

// Move transfers ownership of the goroutine to a fresh handle. The
// obligation to join or detach moves with it; the receiver starts joinable
// and this handle becomes empty, so its Close is a no-op.
//
// Move panics if the handle does not currently own the task.
func (t *Task) Move() *Task {
	if !t.state.CompareAndSwap(int32(StateJoinable), int32(StateEmpty)) {
		panic("guarded: Move on a task that is not joinable")
	}
	return &Task{t: t.t}
}

// Done returns a channel closed when the goroutine completes, regardless of
// handle state. Useful for observing a detached task's completion.
func (t *Task) Done() <-chan struct{} {
	return t.t.done
}

// State reports the handle's current lifecycle state.
func (t *Task) State() TaskState {
	return TaskState(t.state.Load())
}

// Info returns the task's metadata.
func (t *Task) Info() TaskInfo {
	return t.t.info
}
