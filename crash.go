package sharedlog

import (
	"fmt"
	"runtime/debug"
)

// CapturePanic must be deferred directly:
//
//	defer log.CapturePanic()
//
// On panic it writes an error record with the panic value and stack, flushes and closes
// the logger, and panics again with the same value.
func (l *Logger) CapturePanic() {
	r := recover()
	if r == nil {
		return
	}
	l.Error("uncaught panic", Fields{
		FieldError: Fields{FieldMessage: fmt.Sprint(r)},
		FieldStack: string(debug.Stack()),
	})
	_ = l.Close()
	panic(r)
}

// Go runs fn on a new goroutine guarded by CapturePanic.
func (l *Logger) Go(fn func()) {
	go func() {
		defer l.CapturePanic()
		fn()
	}()
}
