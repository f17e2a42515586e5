package contribution

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/kbukum/extkit/extension"
)

// Collection is a mutable extension.Collection. Members declared by the
// contribution are refreshed on every enumeration; members added with
// AddNew are kept in memory, and removed ids stay hidden.
type Collection[T any] struct {
	name string

	mu        sync.RWMutex
	declared  []extension.Factory[T]
	added     []extension.Factory[T]
	removed   map[string]struct{}
	removable bool
	template  func(id string) (extension.Factory[T], error)
	newID     func() string
}

// NewCollection returns a collection with the given members. template may
// be nil, in which case AddNew is not allowed.
func NewCollection[T any](name string, members []extension.Factory[T], removable bool, template func(id string) (extension.Factory[T], error)) *Collection[T] {
	return &Collection[T]{
		name:      name,
		declared:  members,
		removed:   make(map[string]struct{}),
		removable: removable,
		template:  template,
		newID:     uuid.NewString,
	}
}

func (c *Collection[T]) Name() string { return c.name }

func (c *Collection[T]) AllowAddNew() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.template != nil
}

func (c *Collection[T]) AllowRemove() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.removable
}

// AddNew creates a member with a fresh uuid id. It returns nil when adding
// is not allowed or the template fails.
func (c *Collection[T]) AddNew() extension.Factory[T] {
	c.mu.RLock()
	template := c.template
	c.mu.RUnlock()
	if template == nil {
		return nil
	}
	f, err := template(c.newID())
	if err != nil || f == nil {
		return nil
	}
	c.mu.Lock()
	c.added = append(c.added, f)
	c.mu.Unlock()
	return f
}

// Remove hides the member with f's id.
func (c *Collection[T]) Remove(f extension.Factory[T]) bool {
	if f == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.removable {
		return false
	}
	id := f.ID()
	if i := slices.IndexFunc(c.added, func(m extension.Factory[T]) bool { return m.ID() == id }); i >= 0 {
		c.added = slices.Delete(c.added, i, i+1)
		return true
	}
	if slices.ContainsFunc(c.declared, func(m extension.Factory[T]) bool { return m.ID() == id }) {
		if _, gone := c.removed[id]; gone {
			return false
		}
		c.removed[id] = struct{}{}
		return true
	}
	return false
}

// Factories returns declared members followed by added ones.
func (c *Collection[T]) Factories() []extension.Factory[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]extension.Factory[T], 0, len(c.declared)+len(c.added))
	for _, f := range c.declared {
		if _, gone := c.removed[f.ID()]; !gone {
			out = append(out, f)
		}
	}
	return append(out, c.added...)
}

func (c *Collection[T]) refresh(declared []extension.Factory[T], removable bool, template func(id string) (extension.Factory[T], error)) {
	c.mu.Lock()
	c.declared = declared
	c.removable = removable
	c.template = template
	c.mu.Unlock()
}
