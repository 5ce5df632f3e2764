package guarded

import (
	"fmt"
	"runtime"
)

// PanicError wraps a value recovered from a panicking task together with
// the goroutine stack captured at the point of the panic.
//
// By default a task panic is re-raised as *PanicError in [Task.Join] (and
// [Task.Close]). With [WithPanicAsError] it is returned as a regular error
// instead.
type PanicError struct {
	// Value is the original value passed to panic().
	Value any

	// Stack is the goroutine stack trace at the point of panic.
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v\n\n%s", e.Value, e.Stack)
}

// Unwrap returns nil. PanicError does not wrap another error.
func (e *PanicError) Unwrap() error { return nil }

func newPanicError(v any) *PanicError {
	// 8 KiB is enough for most stack traces. runtime.Stack truncates
	// gracefully if the buffer is too small.
	buf := make([]byte, 8192)
	n := runtime.Stack(buf, false)
	return &PanicError{
		Value: v,
		Stack: string(buf[:n]),
	}
}
