package extension

import (
	"fmt"
)

// Factory constructs extension objects of type T. Each Create call yields a
// new instance that belongs to the caller until it is handed back to Dispose.
type Factory[T any] interface {
	Definition
	Create() (T, error)
	Dispose(instance T)
	// Configure runs the factory's configuration step and reports whether
	// previously created instances are stale and must be recreated.
	Configure() bool
}

// FuncFactory is a Factory backed by functions.
type FuncFactory[T any] struct {
	Info
	create    func() (T, error)
	dispose   func(T)
	configure func() bool
}

// FactoryOption customizes a FuncFactory.
type FactoryOption[T any] func(*FuncFactory[T])

// NewFactory returns a factory that describes itself with info and builds
// instances with create.
func NewFactory[T any](info Info, create func() (T, error), opts ...FactoryOption[T]) *FuncFactory[T] {
	f := &FuncFactory[T]{Info: info, create: create}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// WithDispose sets the hook run when an instance is released.
func WithDispose[T any](fn func(T)) FactoryOption[T] {
	return func(f *FuncFactory[T]) { f.dispose = fn }
}

// WithConfigure sets the configuration step and marks the factory configurable.
func WithConfigure[T any](fn func() bool) FactoryOption[T] {
	return func(f *FuncFactory[T]) {
		f.configure = fn
		f.configurable = true
	}
}

// Create builds a new instance.
func (f *FuncFactory[T]) Create() (T, error) {
	if f.create == nil {
		var zero T
		return zero, fmt.Errorf("factory %q has no constructor", f.ID())
	}
	return f.create()
}

// Dispose releases an instance created by this factory.
func (f *FuncFactory[T]) Dispose(instance T) {
	if f.dispose != nil {
		f.dispose(instance)
	}
}

// Configure runs the configuration step, if any.
func (f *FuncFactory[T]) Configure() bool {
	if f.configure == nil {
		return false
	}
	return f.configure()
}

// Value returns a factory whose Create always returns v.
func Value[T any](info Info, v T) *FuncFactory[T] {
	return NewFactory(info, func() (T, error) { return v, nil })
}
