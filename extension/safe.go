package extension

import (
	"fmt"
	"runtime/debug"
)

// PanicError is returned when a callback panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Protect runs fn and converts a panic into a *PanicError.
func Protect(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	fn()
	return nil
}

// Create calls f.Create and converts a panic into an error.
func Create[T any](f Factory[T]) (instance T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return f.Create()
}

// Dispose calls f.Dispose and converts a panic into an error.
func Dispose[T any](f Factory[T], instance T) error {
	return Protect(func() { f.Dispose(instance) })
}

func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = &PanicError{Value: r, Stack: debug.Stack()}
	}
}
