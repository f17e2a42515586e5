package contribution

import (
	"sync"

	"github.com/kbukum/extkit/extension"
)

// Static is an in-memory Source. Entries are returned per point in the
// order they were added.
type Static struct {
	mu      sync.RWMutex
	byPoint map[string][]extension.Entry
}

// NewStatic returns a Static source holding entries.
func NewStatic(entries ...extension.Entry) *Static {
	s := &Static{byPoint: make(map[string][]extension.Entry)}
	s.Add(entries...)
	return s
}

// Add appends entries, grouped by their Point.
func (s *Static) Add(entries ...extension.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.byPoint[e.Point] = append(s.byPoint[e.Point], e)
	}
}

// Entries implements extension.Source.
func (s *Static) Entries(point string) ([]extension.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.byPoint[point]
	out := make([]extension.Entry, len(src))
	copy(out, src)
	return out, nil
}
