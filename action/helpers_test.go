package action_test

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/kbukum/extkit/action"
	"github.com/kbukum/extkit/contribution"
	"github.com/kbukum/extkit/extension"
)

type layer struct {
	id  string
	gen int64
}

var generation atomic.Int64

func layerFactory(id string, opts ...extension.FactoryOption[*layer]) *extension.FuncFactory[*layer] {
	return extension.NewFactory(extension.Describe(id, "Layer "+id),
		func() (*layer, error) { return &layer{id: id, gen: generation.Add(1)}, nil }, opts...)
}

func brokenFactory(id string) *extension.FuncFactory[*layer] {
	return extension.NewFactory(extension.Describe(id, "Broken "+id),
		func() (*layer, error) { return nil, errors.New("unavailable") })
}

// memberTemplate builds collection members for AddNew.
func memberTemplate(id string) (extension.Factory[*layer], error) {
	return layerFactory(id), nil
}

func customCollection(removable bool, members ...extension.Factory[*layer]) *contribution.Collection[*layer] {
	return contribution.NewCollection("Custom", members, removable, memberTemplate)
}

type testExt struct {
	factories   []extension.Factory[*layer]
	collections []extension.Collection[*layer]
}

func (e *testExt) Point() string { return "layers" }

func (e *testExt) all() []extension.Factory[*layer] {
	out := append([]extension.Factory[*layer]{}, e.factories...)
	for _, c := range e.collections {
		out = append(out, c.Factories()...)
	}
	return out
}

func (e *testExt) Factories(filter extension.Filter[*layer]) []extension.Factory[*layer] {
	var out []extension.Factory[*layer]
	for _, f := range e.factories {
		if filter == nil || filter.AcceptFactory(f) {
			out = append(out, f)
		}
	}
	for _, c := range e.collections {
		if filter != nil && !filter.AcceptCollection(c) {
			continue
		}
		for _, f := range c.Factories() {
			if filter == nil || filter.AcceptFactory(f) {
				out = append(out, f)
			}
		}
	}
	extension.Sort(out)
	return out
}

func (e *testExt) Factory(id string) (extension.Factory[*layer], bool) {
	return extension.Find(e.all(), id)
}

func (e *testExt) Collections() []extension.Collection[*layer] { return e.collections }

// byID indexes a flat item list, skipping separators.
func byID(items []*action.Action) map[string]*action.Action {
	out := make(map[string]*action.Action)
	for _, a := range items {
		if a.Style() != action.StyleSeparator {
			out[a.ID()] = a
		}
	}
	return out
}

func shape(items []*action.Action) string {
	s := ""
	for i, a := range items {
		if i > 0 {
			s += " "
		}
		if a.Style() == action.StyleSeparator {
			s += "|"
			continue
		}
		s += fmt.Sprintf("%s(%s)", a.ID(), a.Style())
	}
	return s
}
