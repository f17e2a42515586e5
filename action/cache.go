package action

import "sync"

// Cache holds one action per factory id. Concurrent lookups of the same
// id create the action once.
type Cache struct {
	mu      sync.Mutex
	actions map[string]*Action
}

// Get returns the cached action for id, creating it with create on a miss.
func (c *Cache) Get(id string, create func() *Action) *Action {
	c.mu.Lock()
	defer c.mu.Unlock()
	if a, ok := c.actions[id]; ok {
		return a
	}
	if c.actions == nil {
		c.actions = make(map[string]*Action)
	}
	a := create()
	c.actions[id] = a
	return a
}

// Each calls fn for every cached action, outside the lock.
func (c *Cache) Each(fn func(id string, a *Action)) {
	c.mu.Lock()
	snapshot := make(map[string]*Action, len(c.actions))
	for id, a := range c.actions {
		snapshot[id] = a
	}
	c.mu.Unlock()
	for id, a := range snapshot {
		fn(id, a)
	}
}

// Len returns the number of cached actions.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.actions)
}

// Clear empties the cache and hands every removed action to dispose,
// which may be nil.
func (c *Cache) Clear(dispose func(*Action)) {
	c.mu.Lock()
	removed := c.actions
	c.actions = nil
	c.mu.Unlock()
	if dispose == nil {
		return
	}
	for _, a := range removed {
		dispose(a)
	}
}
