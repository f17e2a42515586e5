package host

import (
	"github.com/kbukum/extkit/extension"
	"github.com/kbukum/extkit/logger"
	"github.com/kbukum/extkit/selective"
)

// ChangeKind classifies a Change.
type ChangeKind string

const (
	// ChangeCurrent: an exclusive point switched its current factory. ID is
	// empty when the point was cleared.
	ChangeCurrent     ChangeKind = "current"
	ChangeActivated   ChangeKind = "activated"
	ChangeDeactivated ChangeKind = "deactivated"
	// ChangeReloaded: the contributions were re-read; the factory list of
	// every point may differ.
	ChangeReloaded ChangeKind = "reloaded"
)

// Change is one activation state change.
type Change struct {
	Point string     `json:"point,omitempty"`
	Kind  ChangeKind `json:"kind"`
	ID    string     `json:"id,omitempty"`
}

type subscribers struct {
	log  *logger.Logger
	subs extension.Listeners[func(Change)]
}

func (s *subscribers) emit(c Change) {
	s.subs.Each(func(fn func(Change)) { fn(c) }, func(err error) {
		s.log.Error("Change subscriber panicked", logger.MergeWithError(logger.Fields(
			logger.FieldExtensionPoint, c.Point,
		), err))
	})
}

// Subscribe calls fn for every change on any point until cancel is called.
// fn runs on the goroutine making the change, outside controller locks; it
// must not block.
func (h *Host) Subscribe(fn func(Change)) (cancel func()) {
	id := h.events.subs.Add(fn)
	return func() { h.events.subs.Remove(id) }
}

func (p *Point) forward(events *subscribers) {
	switch {
	case p.Exclusive != nil:
		p.Exclusive.AddListener(func(_ Instance, def extension.Factory[Instance]) {
			c := Change{Point: p.ID(), Kind: ChangeCurrent}
			if def != nil {
				c.ID = def.ID()
			}
			events.emit(c)
		})
	case p.Selective != nil:
		p.Selective.AddListener(selective.ListenerFuncs[Instance]{
			OnActivated: func(_ Instance, def extension.Factory[Instance]) {
				events.emit(Change{Point: p.ID(), Kind: ChangeActivated, ID: def.ID()})
			},
			OnDeactivated: func(_ Instance, def extension.Factory[Instance]) {
				events.emit(Change{Point: p.ID(), Kind: ChangeDeactivated, ID: def.ID()})
			},
		})
	}
}
