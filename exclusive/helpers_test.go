package exclusive_test

import (
	"errors"
	"fmt"

	"github.com/kbukum/extkit/extension"
)

type object struct {
	id  string
	seq int
}

func (o *object) String() string { return fmt.Sprintf("%s#%d", o.id, o.seq) }

// journal records creations, notifications and disposals in order.
type journal struct {
	events []string
	seq    int
}

func (j *journal) add(format string, args ...any) {
	j.events = append(j.events, fmt.Sprintf(format, args...))
}

func (j *journal) factory(id string, prio int) *extension.FuncFactory[*object] {
	return extension.NewFactory(extension.Describe(id, id, extension.WithPriority(prio)),
		func() (*object, error) {
			j.seq++
			o := &object{id: id, seq: j.seq}
			j.add("create:%s", o)
			return o, nil
		},
		extension.WithDispose(func(o *object) { j.add("dispose:%s", o) }),
	)
}

func (j *journal) failing(id string) *extension.FuncFactory[*object] {
	return extension.NewFactory(extension.Describe(id, id), func() (*object, error) {
		j.add("fail:%s", id)
		return nil, errors.New("cannot create " + id)
	})
}

// staticExt serves a fixed factory list.
type staticExt[T any] struct {
	factories []extension.Factory[T]
}

func newExt[T any](fs ...extension.Factory[T]) *staticExt[T] {
	return &staticExt[T]{factories: fs}
}

func (s *staticExt[T]) Point() string { return "test" }

func (s *staticExt[T]) Factories(filter extension.Filter[T]) []extension.Factory[T] {
	var out []extension.Factory[T]
	for _, f := range s.factories {
		if filter == nil || filter.AcceptFactory(f) {
			out = append(out, f)
		}
	}
	extension.Sort(out)
	return out
}

func (s *staticExt[T]) Factory(id string) (extension.Factory[T], bool) {
	return extension.Find(s.factories, id)
}

func (s *staticExt[T]) Collections() []extension.Collection[T] { return nil }
