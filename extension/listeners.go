package extension

import (
	"sync"
	"sync/atomic"
)

// ListenerID identifies a registered listener.
type ListenerID uint64

type registration[L any] struct {
	id       ListenerID
	listener L
}

// Listeners is a copy-on-write listener set. Notification iterates over an
// immutable snapshot, so listeners may add or remove listeners (including
// themselves) while being notified. The zero value is ready to use.
type Listeners[L any] struct {
	mu   sync.Mutex
	next ListenerID
	regs atomic.Pointer[[]registration[L]]
}

// Add registers l and returns its id.
func (s *Listeners[L]) Add(l L) ListenerID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	id := s.next
	old := s.load()
	regs := make([]registration[L], len(old), len(old)+1)
	copy(regs, old)
	regs = append(regs, registration[L]{id: id, listener: l})
	s.regs.Store(&regs)
	return id
}

// Remove unregisters the listener with the given id.
func (s *Listeners[L]) Remove(id ListenerID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.load()
	for i, r := range old {
		if r.id != id {
			continue
		}
		regs := make([]registration[L], 0, len(old)-1)
		regs = append(regs, old[:i]...)
		regs = append(regs, old[i+1:]...)
		s.regs.Store(&regs)
		return true
	}
	return false
}

// Len returns the number of registered listeners.
func (s *Listeners[L]) Len() int {
	return len(s.load())
}

// Snapshot returns the listeners registered at the time of the call.
func (s *Listeners[L]) Snapshot() []L {
	regs := s.load()
	out := make([]L, len(regs))
	for i, r := range regs {
		out[i] = r.listener
	}
	return out
}

// Each calls fn for every listener in a snapshot, in registration order.
// A panic in fn is recovered and passed to onPanic (if non-nil), and
// iteration continues.
func (s *Listeners[L]) Each(fn func(L), onPanic func(error)) {
	for _, r := range s.load() {
		if err := Protect(func() { fn(r.listener) }); err != nil && onPanic != nil {
			onPanic(err)
		}
	}
}

func (s *Listeners[L]) load() []registration[L] {
	if p := s.regs.Load(); p != nil {
		return *p
	}
	return nil
}
