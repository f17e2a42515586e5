package exclusive

import (
	"github.com/kbukum/extkit/extension"
	"github.com/kbukum/extkit/logger"
	"github.com/kbukum/extkit/preference"
)

// Persistence describes where a persistent controller keeps the id of the
// current factory and how it chooses the initial one.
type Persistence[T any] struct {
	Store preference.Store
	Key   string
	// Fallback is activated when no contributed factory is eligible.
	Fallback extension.Factory[T]
	// LoadAllowed restricts which factories may be restored. Nil allows all.
	LoadAllowed func(extension.Factory[T]) bool
	// SaveAllowed restricts which activations are written. Nil allows all.
	SaveAllowed func(current T, def extension.Factory[T]) bool
	// Default picks the initial factory when nothing was stored. Nil picks
	// the first loadable factory in order.
	Default func(factories []extension.Factory[T]) extension.Factory[T]
}

func (p Persistence[T]) loadAllowed(f extension.Factory[T]) bool {
	return p.LoadAllowed == nil || p.LoadAllowed(f)
}

// NewPersistent creates a controller that restores the stored factory id on
// first use and writes the id of every newly current factory back to the
// store. Store failures are logged and never affect activation.
func NewPersistent[T any](ext extension.Extension[T], p Persistence[T], opts ...Option) *Controller[T] {
	o := options{log: logger.Get("exclusive")}
	for _, opt := range opts {
		opt(&o)
	}
	prefs := preference.Guard(p.Store, o.log, o.metrics)

	initial := func() extension.Factory[T] {
		factories := ext.Factories(nil)
		if id := prefs.Get(p.Key); id != "" {
			for _, f := range factories {
				if f.ID() == id && p.loadAllowed(f) {
					return f
				}
			}
		}
		return p.derive(factories)
	}

	c := New(ext, initial, opts...)
	c.reset = func() extension.Factory[T] { return p.derive(ext.Factories(nil)) }
	c.AddListener(func(current T, def extension.Factory[T]) {
		if p.SaveAllowed != nil && !p.SaveAllowed(current, def) {
			return
		}
		prefs.Set(p.Key, def.ID())
	})
	return c
}

// derive picks the initial factory ignoring any stored id.
func (p Persistence[T]) derive(factories []extension.Factory[T]) extension.Factory[T] {
	if len(factories) == 0 {
		return p.Fallback
	}
	if p.Default != nil {
		if f := p.Default(factories); f != nil {
			return f
		}
		return p.Fallback
	}
	for _, f := range factories {
		if p.loadAllowed(f) {
			return f
		}
	}
	return p.Fallback
}
