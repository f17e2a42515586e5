package extension

// Collection is a named group of factories. Mutable collections may support
// adding and removing members.
type Collection[T any] interface {
	Name() string
	AllowAddNew() bool
	AllowRemove() bool
	// AddNew creates a member and returns it, or nil if nothing was added.
	AddNew() Factory[T]
	Remove(f Factory[T]) bool
	Factories() []Factory[T]
}

// FixedCollection is an immutable Collection.
type FixedCollection[T any] struct {
	name      string
	factories []Factory[T]
}

// NewFixedCollection returns a collection containing factories in the given order.
func NewFixedCollection[T any](name string, factories ...Factory[T]) *FixedCollection[T] {
	return &FixedCollection[T]{name: name, factories: factories}
}

func (c *FixedCollection[T]) Name() string             { return c.name }
func (c *FixedCollection[T]) AllowAddNew() bool        { return false }
func (c *FixedCollection[T]) AllowRemove() bool        { return false }
func (c *FixedCollection[T]) AddNew() Factory[T]       { return nil }
func (c *FixedCollection[T]) Remove(_ Factory[T]) bool { return false }
func (c *FixedCollection[T]) Factories() []Factory[T] {
	out := make([]Factory[T], len(c.factories))
	copy(out, c.factories)
	return out
}
