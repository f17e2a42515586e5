package action

import (
	"sync"

	"github.com/kbukum/extkit/exclusive"
	"github.com/kbukum/extkit/extension"
)

// Exclusive builds the menu of an exclusive controller: one radio item per
// factory, a configure item for a configurable current factory, and a
// drop-down per mutable collection.
type Exclusive[T any] struct {
	ctrl  *exclusive.Controller[T]
	opts  options[T]
	cache Cache

	mu        sync.Mutex
	listening bool
	listener  extension.ListenerID
}

// NewExclusive returns a menu model for ctrl.
func NewExclusive[T any](ctrl *exclusive.Controller[T], opts ...ModelOption[T]) *Exclusive[T] {
	return &Exclusive[T]{ctrl: ctrl, opts: newOptions(opts)}
}

// Items builds the current item list. Factory actions are cached per id and
// keep their check state in sync with the controller.
func (m *Exclusive[T]) Items() []*Action {
	m.listen()
	cur := m.ctrl.CurrentDefinition()

	var items []*Action
	for _, f := range m.ctrl.Factories(m.opts.filter) {
		items = append(items, m.factoryAction(f, cur))
	}

	if cur != nil && cur.AllowConfigure() {
		items = append(items, Separator(), New("configure", LabelConfigure, StylePush, func(*Action) {
			m.ctrl.Configure(cur)
		}))
	}

	items = append(items, collectionItems[T](m.ctrl, m.opts.filter, collectionHooks[T]{
		onAdd: func(f extension.Factory[T]) { m.ctrl.SetCurrent(f) },
		onRemove: func(f extension.Factory[T]) {
			if m.ctrl.RepresentsCurrent(f) {
				m.ctrl.RemoveCurrent()
			}
		},
	})...)
	return items
}

// Dispose stops tracking the controller and drops cached actions.
func (m *Exclusive[T]) Dispose() {
	m.mu.Lock()
	if m.listening {
		m.ctrl.RemoveListener(m.listener)
		m.listening = false
	}
	m.mu.Unlock()
	m.cache.Clear(nil)
}

func (m *Exclusive[T]) factoryAction(f extension.Factory[T], cur extension.Factory[T]) *Action {
	style := StyleRadio
	if m.opts.pushButtons {
		style = StylePush
	}
	return m.cache.Get(f.ID(), func() *Action {
		return New(f.ID(), f.DisplayName(), style, func(a *Action) {
			if !m.ctrl.SetCurrent(f) && style == StyleRadio {
				a.SetChecked(m.ctrl.RepresentsCurrent(f))
			}
		}, WithIcon(f.IconURL()), WithChecked(style == StyleRadio && extension.Same(cur, f)))
	})
}

func (m *Exclusive[T]) listen() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listening || m.opts.pushButtons {
		return
	}
	m.listener = m.ctrl.AddListener(func(_ T, def extension.Factory[T]) {
		m.cache.Each(func(id string, a *Action) {
			a.SetChecked(def != nil && def.ID() == id)
		})
	})
	m.listening = true
}
