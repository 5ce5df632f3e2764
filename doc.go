// Package guarded provides lock-owning wrappers and scoped goroutine
// handles: resources that cannot be touched without their mutex, tasks that
// cannot be abandoned while owned, and result cells that cannot be set
// twice or observed torn.
//
// # Guarded Resources
//
// [Guarded] bundles a value with the mutex protecting it and exposes the
// value only inside synchronized closures:
//
//	counter := guarded.New(0)
//	counter.Do(func(n *int) { *n++ })
//
// [Guarded.DoErr] propagates a closure error; the lock is released on every
// exit path, including a panic inside the closure. [Do2] locks two guards
// all-or-nothing, so goroutines crossing a pair of guards in opposite
// order cannot deadlock.
//
// # Scoped Tasks
//
// [Go] spawns a goroutine and returns a [Task] that owns it. The owner must
// eventually [Task.Join] or [Task.Detach]; deferring [Task.Close]
// discharges the obligation on every code path:
//
//	t := guarded.Go("upload", upload)
//	defer t.Close()
//
// A failing task's error is re-surfaced to the joiner, wrapped in
// [*TaskError]. A panicking task re-panics in the joiner by default, or
// returns a [*PanicError] under [WithPanicAsError]. [Task.Move] transfers
// the join obligation to a new handle.
//
// # Write-Once Results
//
// [NewPromise] creates a single-producer, multi-consumer result cell. The
// producer resolves it exactly once ([Promise.Set], [Promise.Fail], or
// [Promise.Break]); any number of consumers block in [Future.Wait] and all
// observe the same outcome. [Future.WaitTimeout] and [Future.WaitContext]
// bound the wait without consuming the pending state. An abandoned
// producer surfaces as [ErrBroken] rather than a hang. [Async] packages a
// function into a producer task and returns its [Future].
//
// # Producer/Consumer Queue
//
// [Queue] is a condition-variable FIFO: [Queue.Pop] waits in a predicate
// re-check loop, so spurious wakeups and competing consumers are safe, and
// every pushed item is consumed exactly once.
//
// # Recorder
//
// [Recorder] is a guarded line sink writing "<label>: <n>" records to files
// or writers, with lazy once-only file opening and all-or-nothing
// [Recorder.Transfer] between two recorders.
//
// # Deadlock Detection
//
// The [github.com/baxromumarov/guarded/syncx] subpackage supplies the
// mutexes. Build with -tags=deadlock to enable lock-order and hold-time
// instrumentation during development.
package guarded
