package guarded

import (
	"time"

	"github.com/google/uuid"
)

// TaskInfo provides metadata about a spawned task.
// It is attached to [*TaskError] values and passed to the [WithOnDone] hook.
type TaskInfo struct {
	ID   uuid.UUID
	Name string
}

type config struct {
	panicAsErr bool
	onDone     func(TaskInfo, error, time.Duration)
}

// Option configures a task spawned via [Go].
type Option func(*config)

// WithPanicAsError converts a panic in the task to a [*PanicError] returned
// as a regular error from [Task.Join], instead of being re-raised in the
// joining goroutine.
func WithPanicAsError() Option {
	return func(c *config) {
		c.panicAsErr = true
	}
}

// WithOnDone registers a hook invoked when the task finishes.
// The hook receives the task's error (nil on success) and wall-clock duration.
// It runs inside the task's goroutine, before joiners are released.
func WithOnDone(fn func(TaskInfo, error, time.Duration)) Option {
	return func(c *config) {
		c.onDone = fn
	}
}
