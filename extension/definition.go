package extension

import (
	"cmp"
	"net/url"
	"slices"
	"strings"
)

// Definition describes a factory: its identity, display data and ordering key.
// Two definitions are the same iff their ids are equal.
type Definition interface {
	ID() string
	DisplayName() string
	// Priority orders definitions; lower values come first and may be negative.
	Priority() int
	// IconURL returns the icon reference or nil.
	IconURL() *url.URL
	AllowConfigure() bool
}

// Info is the value implementation of Definition. Factories embed it.
type Info struct {
	id           string
	name         string
	priority     int
	icon         *url.URL
	configurable bool
}

// InfoOption customizes an Info built with Describe.
type InfoOption func(*Info)

// Describe builds an Info for the given id and display name.
func Describe(id, name string, opts ...InfoOption) Info {
	info := Info{id: id, name: name}
	for _, opt := range opts {
		opt(&info)
	}
	return info
}

// WithPriority sets the ordering priority.
func WithPriority(p int) InfoOption {
	return func(i *Info) { i.priority = p }
}

// WithIcon sets the icon reference.
func WithIcon(u *url.URL) InfoOption {
	return func(i *Info) { i.icon = u }
}

// Configurable marks the definition as supporting Configure.
func Configurable() InfoOption {
	return func(i *Info) { i.configurable = true }
}

func (i Info) ID() string           { return i.id }
func (i Info) DisplayName() string  { return i.name }
func (i Info) Priority() int        { return i.priority }
func (i Info) IconURL() *url.URL    { return i.icon }
func (i Info) AllowConfigure() bool { return i.configurable }

// Same reports whether a and b denote the same definition. Two nil
// definitions are the same; a nil and a non-nil one are not.
func Same(a, b Definition) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ID() == b.ID()
}

// Compare orders definitions by priority, then display name, then id.
func Compare(a, b Definition) int {
	if c := cmp.Compare(a.Priority(), b.Priority()); c != 0 {
		return c
	}
	if c := strings.Compare(a.DisplayName(), b.DisplayName()); c != 0 {
		return c
	}
	return strings.Compare(a.ID(), b.ID())
}

// Sort sorts definitions (or factories) in place using Compare.
func Sort[D Definition](defs []D) {
	slices.SortStableFunc(defs, func(a, b D) int { return Compare(a, b) })
}

// IDs returns the ids of defs in order.
func IDs[D Definition](defs []D) []string {
	ids := make([]string, 0, len(defs))
	for _, d := range defs {
		ids = append(ids, d.ID())
	}
	return ids
}

// Find returns the first definition in defs with the given id.
func Find[D Definition](defs []D, id string) (D, bool) {
	for _, d := range defs {
		if d.ID() == id {
			return d, true
		}
	}
	var zero D
	return zero, false
}
