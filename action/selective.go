package action

import (
	"slices"
	"sync"

	"github.com/kbukum/extkit/extension"
	"github.com/kbukum/extkit/selective"
)

// Selective builds the menu of a selective controller: one check item per
// factory, a configure drop-down listing configurable factories, and a
// drop-down per mutable collection.
type Selective[T comparable] struct {
	ctrl  *selective.Controller[T]
	opts  options[T]
	cache Cache

	mu        sync.Mutex
	listening bool
	listener  extension.ListenerID
}

// NewSelective returns a menu model for ctrl.
func NewSelective[T comparable](ctrl *selective.Controller[T], opts ...ModelOption[T]) *Selective[T] {
	return &Selective[T]{ctrl: ctrl, opts: newOptions(opts)}
}

// Items builds the current item list.
func (m *Selective[T]) Items() []*Action {
	m.listen()
	active := m.ctrl.ActiveIDs()

	var items []*Action
	for _, f := range m.ctrl.Factories(m.opts.filter) {
		items = append(items, m.factoryAction(f, slices.Contains(active, f.ID())))
	}

	var configurable []extension.Factory[T]
	for _, f := range m.ctrl.Factories(nil) {
		if f.AllowConfigure() {
			configurable = append(configurable, f)
		}
	}
	if len(configurable) > 0 {
		items = append(items, Separator(), New("configure", LabelConfigure, StyleDropDown, nil,
			WithChildren(func() []*Action { return m.configureItems(configurable) })))
	}

	items = append(items, collectionItems[T](m.ctrl, m.opts.filter, collectionHooks[T]{
		onAdd:    func(f extension.Factory[T]) { m.ctrl.Activate(f) },
		onRemove: func(f extension.Factory[T]) { m.ctrl.Deactivate(f) },
	})...)
	return items
}

// Dispose stops tracking the controller and drops cached actions.
func (m *Selective[T]) Dispose() {
	m.mu.Lock()
	if m.listening {
		m.ctrl.RemoveListener(m.listener)
		m.listening = false
	}
	m.mu.Unlock()
	m.cache.Clear(nil)
}

func (m *Selective[T]) factoryAction(f extension.Factory[T], active bool) *Action {
	return m.cache.Get(f.ID(), func() *Action {
		return New(f.ID(), f.DisplayName(), StyleCheck, func(a *Action) {
			if a.Checked() {
				if !m.ctrl.Activate(f) {
					a.SetChecked(false)
				}
				return
			}
			m.ctrl.Deactivate(f)
		}, WithIcon(f.IconURL()), WithChecked(active))
	})
}

func (m *Selective[T]) configureItems(factories []extension.Factory[T]) []*Action {
	items := make([]*Action, 0, len(factories))
	for _, f := range factories {
		items = append(items, New("configure:"+f.ID(), f.DisplayName(), StylePush, func(*Action) {
			if configure(f, m.opts.log) && m.ctrl.IsActive(f) {
				m.ctrl.Deactivate(f)
				m.ctrl.Activate(f)
			}
		}))
	}
	return items
}

func (m *Selective[T]) listen() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listening {
		return
	}
	set := func(id string, checked bool) {
		m.cache.Each(func(cached string, a *Action) {
			if cached == id {
				a.SetChecked(checked)
			}
		})
	}
	m.listener = m.ctrl.AddListener(selective.ListenerFuncs[T]{
		OnActivated:   func(_ T, def extension.Factory[T]) { set(def.ID(), true) },
		OnDeactivated: func(_ T, def extension.Factory[T]) { set(def.ID(), false) },
	})
	m.listening = true
}
