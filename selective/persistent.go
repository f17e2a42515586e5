package selective

import (
	"slices"
	"strings"

	"github.com/kbukum/extkit/extension"
	"github.com/kbukum/extkit/logger"
	"github.com/kbukum/extkit/preference"
)

// PreferenceAll is the stored value that activates every known factory.
const PreferenceAll = "selective.Persistent.ALL"

// NewPersistent creates a controller whose active set is restored from
// store on first use and written back on every activation change. The
// stored value is a comma-separated id list or PreferenceAll. Ids must not
// contain commas.
func NewPersistent[T comparable](ext extension.Extension[T], store preference.Store, key string, opts ...Option) *Controller[T] {
	o := options{log: logger.Get("selective")}
	for _, opt := range opts {
		opt(&o)
	}
	prefs := preference.Guard(store, o.log, o.metrics)

	load := func() map[string]struct{} {
		ids := make(map[string]struct{})
		value := prefs.Get(key)
		if value == PreferenceAll {
			for _, f := range ext.Factories(nil) {
				ids[f.ID()] = struct{}{}
			}
			return ids
		}
		for _, id := range SplitIDs(value) {
			ids[id] = struct{}{}
		}
		return ids
	}
	save := func(ids map[string]struct{}) {
		prefs.Set(key, JoinIDs(ids))
	}

	c := New(ext, func(f extension.Factory[T]) bool {
		_, ok := load()[f.ID()]
		return ok
	}, opts...)

	c.AddListener(ListenerFuncs[T]{
		OnActivated: func(_ T, def extension.Factory[T]) {
			ids := load()
			ids[def.ID()] = struct{}{}
			save(ids)
		},
		OnDeactivated: func(_ T, def extension.Factory[T]) {
			ids := load()
			delete(ids, def.ID())
			save(ids)
		},
	})
	return c
}

// JoinIDs returns the sorted, comma-joined ids of a set.
func JoinIDs(ids map[string]struct{}) string {
	list := make([]string, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	slices.Sort(list)
	return strings.Join(list, ",")
}

// SplitIDs parses a stored id list, ignoring empty items. Items are taken
// verbatim so that they match factory ids exactly.
func SplitIDs(value string) []string {
	var ids []string
	for _, id := range strings.Split(value, ",") {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
