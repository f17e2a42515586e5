package extension

import "slices"

// Filter selects which factories and collections an enumeration returns.
type Filter[T any] interface {
	AcceptFactory(f Factory[T]) bool
	AcceptCollection(c Collection[T]) bool
}

// FilterFuncs adapts functions to Filter. A nil function accepts everything.
type FilterFuncs[T any] struct {
	Factory    func(Factory[T]) bool
	Collection func(Collection[T]) bool
}

func (f FilterFuncs[T]) AcceptFactory(factory Factory[T]) bool {
	return f.Factory == nil || f.Factory(factory)
}

func (f FilterFuncs[T]) AcceptCollection(c Collection[T]) bool {
	return f.Collection == nil || f.Collection(c)
}

// OnlyIDs accepts the factories whose id is listed, in any collection.
func OnlyIDs[T any](ids ...string) Filter[T] {
	return FilterFuncs[T]{
		Factory: func(f Factory[T]) bool { return slices.Contains(ids, f.ID()) },
	}
}

// Standalone rejects every collection, keeping only directly contributed factories.
func Standalone[T any]() Filter[T] {
	return FilterFuncs[T]{
		Collection: func(Collection[T]) bool { return false },
	}
}
