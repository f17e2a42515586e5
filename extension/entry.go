package extension

import (
	"net/url"

	"github.com/spf13/cast"
)

// Entry is one contribution unit supplied by a Source. Builders turn an
// entry into at most one factory and at most one collection.
type Entry struct {
	// Point is the extension point the entry contributes to.
	Point string
	// Contributor names the origin of the entry (a file, a plugin).
	Contributor string
	// Name is the element kind, e.g. "factory" or "collection".
	Name       string
	Attributes map[string]any
	Children   []Entry
	// Base resolves relative references such as icons. May be nil.
	Base *url.URL
}

// Attr returns the attribute as a string, or "" if it is absent.
func (e Entry) Attr(key string) string {
	v, ok := e.Attributes[key]
	if !ok {
		return ""
	}
	return cast.ToString(v)
}

// HasAttr reports whether the attribute is present.
func (e Entry) HasAttr(key string) bool {
	_, ok := e.Attributes[key]
	return ok
}

// IntAttr returns the attribute as an int, or def if it is absent or not numeric.
func (e Entry) IntAttr(key string, def int) int {
	v, ok := e.Attributes[key]
	if !ok {
		return def
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return def
	}
	return n
}

// BoolAttr returns the attribute as a bool, or def if it is absent or invalid.
func (e Entry) BoolAttr(key string, def bool) bool {
	v, ok := e.Attributes[key]
	if !ok {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}

// URLAttr resolves the attribute against Base. It returns nil when the
// attribute is empty or not a valid reference.
func (e Entry) URLAttr(key string) *url.URL {
	raw := e.Attr(key)
	if raw == "" {
		return nil
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	if e.Base != nil {
		return e.Base.ResolveReference(ref)
	}
	return ref
}

// ChildrenNamed returns the direct children with the given element name.
func (e Entry) ChildrenNamed(name string) []Entry {
	var out []Entry
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Info builds a Definition from the common attributes: id, name, priority,
// icon and configurable. A missing name falls back to the id.
func (e Entry) Info() Info {
	id := e.Attr("id")
	name := e.Attr("name")
	if name == "" {
		name = id
	}
	opts := []InfoOption{WithPriority(e.IntAttr("priority", 0))}
	if icon := e.URLAttr("icon"); icon != nil {
		opts = append(opts, WithIcon(icon))
	}
	if e.BoolAttr("configurable", false) {
		opts = append(opts, Configurable())
	}
	return Describe(id, name, opts...)
}
