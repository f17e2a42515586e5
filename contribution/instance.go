package contribution

import (
	"maps"
	"time"

	"github.com/kbukum/extkit/extension"
)

// ClassAttributes is the class name of the generic Attributes constructor.
const ClassAttributes = "attributes"

// Instance is a generic extension object: the attributes of the entry that
// declared it, captured at creation time.
type Instance struct {
	Point      string         `json:"point"`
	ID         string         `json:"id"`
	Class      string         `json:"class"`
	Attributes map[string]any `json:"attributes"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Attributes is a Constructor that needs no code: the object is the entry's
// attribute map.
func Attributes(e extension.Entry) (*Instance, error) {
	return &Instance{
		Point:      e.Point,
		ID:         e.Attr("id"),
		Class:      e.Attr("class"),
		Attributes: maps.Clone(e.Attributes),
		CreatedAt:  time.Now(),
	}, nil
}

// InstanceBuilder returns a Builder for Instance objects with the
// Attributes constructor registered under ClassAttributes, plus any extra
// classes.
func InstanceBuilder(opts ...BuilderOption[*Instance]) *Builder[*Instance] {
	all := append([]BuilderOption[*Instance]{WithClass[*Instance](ClassAttributes, Attributes)}, opts...)
	return NewBuilder(all...)
}
