package action

import (
	"net/url"
	"sync"
)

// Style says how a rendering layer should present an action.
type Style int

const (
	StylePush Style = iota
	StyleRadio
	StyleCheck
	StyleDropDown
	StyleSeparator
)

func (s Style) String() string {
	switch s {
	case StylePush:
		return "push"
	case StyleRadio:
		return "radio"
	case StyleCheck:
		return "check"
	case StyleDropDown:
		return "dropdown"
	case StyleSeparator:
		return "separator"
	}
	return "unknown"
}

// Action is a renderer-independent menu item.
type Action struct {
	id    string
	label string
	icon  *url.URL
	style Style

	run      func(a *Action)
	children func() []*Action

	mu      sync.Mutex
	checked bool
	enabled bool
}

// Option customizes an Action.
type Option func(*Action)

// WithIcon sets the icon reference.
func WithIcon(u *url.URL) Option {
	return func(a *Action) { a.icon = u }
}

// WithChecked sets the initial check state of radio and check actions.
func WithChecked(checked bool) Option {
	return func(a *Action) { a.checked = checked }
}

// WithChildren sets the builder of a drop-down's items. It is called on
// every Children call so the sub-menu reflects current state.
func WithChildren(fn func() []*Action) Option {
	return func(a *Action) { a.children = fn }
}

// Disabled marks the action as not runnable.
func Disabled() Option {
	return func(a *Action) { a.enabled = false }
}

// New returns an enabled action.
func New(id, label string, style Style, run func(*Action), opts ...Option) *Action {
	a := &Action{id: id, label: label, style: style, run: run, enabled: true}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Separator returns a separator item.
func Separator() *Action {
	return &Action{style: StyleSeparator}
}

func (a *Action) ID() string     { return a.id }
func (a *Action) Label() string  { return a.label }
func (a *Action) Icon() *url.URL { return a.icon }
func (a *Action) Style() Style   { return a.style }

func (a *Action) Checked() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.checked
}

// SetChecked updates the check state without running the action.
func (a *Action) SetChecked(checked bool) {
	a.mu.Lock()
	a.checked = checked
	a.mu.Unlock()
}

func (a *Action) Enabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabled
}

// Run triggers the action the way a click would: a radio action becomes
// checked, a check action flips, and then the handler runs.
func (a *Action) Run() {
	if !a.Enabled() {
		return
	}
	switch a.style {
	case StyleRadio:
		a.SetChecked(true)
	case StyleCheck:
		a.mu.Lock()
		a.checked = !a.checked
		a.mu.Unlock()
	}
	if a.run != nil {
		a.run(a)
	}
}

// Children returns the drop-down items, or nil.
func (a *Action) Children() []*Action {
	if a.children == nil {
		return nil
	}
	return a.children()
}

// Find walks items along a path of action ids, descending into drop-down
// children, and returns the action the path ends at.
func Find(items []*Action, path ...string) (*Action, bool) {
	if len(path) == 0 {
		return nil, false
	}
	for _, a := range items {
		if a.style == StyleSeparator || a.id != path[0] {
			continue
		}
		if len(path) == 1 {
			return a, true
		}
		return Find(a.Children(), path[1:]...)
	}
	return nil, false
}
