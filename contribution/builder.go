package contribution

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kbukum/extkit/errors"
	"github.com/kbukum/extkit/extension"
	"github.com/kbukum/extkit/validation"
)

// Element names understood by Builder.
const (
	ElementFactory    = "factory"
	ElementCollection = "collection"
)

// Constructor builds an extension object from the entry that declared it.
type Constructor[T any] func(e extension.Entry) (T, error)

type factoryAttrs struct {
	ID    string `json:"id" validate:"required,extid"`
	Name  string `json:"name" validate:"required"`
	Class string `json:"class" validate:"required"`
}

type collectionAttrs struct {
	Name  string `json:"name" validate:"required"`
	Class string `json:"class" validate:"required_if=Addable true"`

	Addable bool `json:"addable"`
}

// Builder turns contribution entries into factories and collections. The
// entry's `class` attribute selects a constructor from the table.
type Builder[T any] struct {
	classes map[string]Constructor[T]
	dispose func(T)

	mu          sync.Mutex
	collections map[string]*Collection[T]
}

// BuilderOption configures a Builder.
type BuilderOption[T any] func(*Builder[T])

// WithClass registers the constructor used for entries with class name.
func WithClass[T any](name string, ctor Constructor[T]) BuilderOption[T] {
	return func(b *Builder[T]) { b.classes[name] = ctor }
}

// WithDisposer sets the hook every built factory runs when an instance is
// released.
func WithDisposer[T any](fn func(T)) BuilderOption[T] {
	return func(b *Builder[T]) { b.dispose = fn }
}

// NewBuilder returns a Builder with the given constructor table.
func NewBuilder[T any](opts ...BuilderOption[T]) *Builder[T] {
	b := &Builder[T]{
		classes:     make(map[string]Constructor[T]),
		collections: make(map[string]*Collection[T]),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Classes returns the registered class names, sorted.
func (b *Builder[T]) Classes() []string {
	out := make([]string, 0, len(b.classes))
	for name := range b.classes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Factory builds the factory declared by a `factory` entry. Other entries
// yield no factory.
func (b *Builder[T]) Factory(e extension.Entry) (extension.Factory[T], error) {
	if e.Name != ElementFactory {
		return nil, nil
	}
	f, err := b.factory(e)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (b *Builder[T]) factory(e extension.Entry) (*extension.FuncFactory[T], error) {
	attrs := factoryAttrs{ID: e.Attr("id"), Name: e.Attr("name"), Class: e.Attr("class")}
	if err := validation.Validate(attrs); err != nil {
		return nil, errors.ContributionInvalid(e.Contributor, err.Error()).WithCause(err)
	}
	ctor, ok := b.classes[attrs.Class]
	if !ok {
		return nil, errors.UnknownClass(attrs.Class)
	}

	id := attrs.ID
	create := func() (T, error) {
		obj, err := ctor(e)
		if err != nil {
			var zero T
			return zero, errors.ConstructionFailed(id, err)
		}
		return obj, nil
	}
	var opts []extension.FactoryOption[T]
	if b.dispose != nil {
		opts = append(opts, extension.WithDispose(b.dispose))
	}
	return extension.NewFactory(e.Info(), create, opts...), nil
}

// Collection builds the collection declared by a `collection` entry; its
// `factory` children become members. Collections are kept per contributor
// and name, so members added at runtime survive later enumerations.
func (b *Builder[T]) Collection(e extension.Entry) (extension.Collection[T], error) {
	if e.Name != ElementCollection {
		return nil, nil
	}
	attrs := collectionAttrs{
		Name:    e.Attr("name"),
		Class:   e.Attr("class"),
		Addable: e.BoolAttr("addable", false),
	}
	if err := validation.Validate(attrs); err != nil {
		return nil, errors.ContributionInvalid(e.Contributor, err.Error()).WithCause(err)
	}

	members := make([]extension.Factory[T], 0, len(e.Children))
	for i, child := range e.ChildrenNamed(ElementFactory) {
		f, err := b.factory(child)
		if err != nil {
			return nil, fmt.Errorf("collection %q member %d: %w", attrs.Name, i, err)
		}
		members = append(members, f)
	}

	var template func(id string) (extension.Factory[T], error)
	if attrs.Addable {
		if _, ok := b.classes[attrs.Class]; !ok {
			return nil, errors.UnknownClass(attrs.Class)
		}
		template = b.template(e, attrs)
	}

	key := e.Point + "\x00" + e.Contributor + "\x00" + attrs.Name
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.collections[key]
	if !ok {
		c = NewCollection[T](attrs.Name, nil, e.BoolAttr("removable", false), template)
		b.collections[key] = c
	}
	c.refresh(members, e.BoolAttr("removable", false), template)
	return c, nil
}

// template builds members for AddNew: they share the collection's class and
// copy its `defaults` attribute map.
func (b *Builder[T]) template(e extension.Entry, attrs collectionAttrs) func(id string) (extension.Factory[T], error) {
	return func(id string) (extension.Factory[T], error) {
		values := map[string]any{}
		if defaults, ok := e.Attributes["defaults"].(map[string]any); ok {
			for k, v := range defaults {
				values[k] = v
			}
		}
		values["id"] = id
		values["class"] = attrs.Class
		if _, ok := values["name"]; !ok {
			values["name"] = fmt.Sprintf("%s %s", attrs.Name, id[:min(8, len(id))])
		}
		return b.factory(extension.Entry{
			Point:       e.Point,
			Contributor: e.Contributor,
			Name:        ElementFactory,
			Attributes:  values,
			Base:        e.Base,
		})
	}
}
