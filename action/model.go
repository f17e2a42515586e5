package action

import (
	"github.com/kbukum/extkit/extension"
	"github.com/kbukum/extkit/logger"
)

// Labels of the generated actions.
const (
	LabelConfigure = "Configure..."
	LabelAddNew    = "Add new"
	LabelRemove    = "Remove"
)

type options[T any] struct {
	filter      extension.Filter[T]
	pushButtons bool
	log         *logger.Logger
}

// ModelOption configures an Exclusive or Selective model.
type ModelOption[T any] func(*options[T])

// WithFilter restricts the listed factories and collections.
func WithFilter[T any](f extension.Filter[T]) ModelOption[T] {
	return func(o *options[T]) { o.filter = f }
}

// WithPushButtons renders exclusive factories as push buttons instead of
// radio items. Selective models ignore it.
func WithPushButtons[T any]() ModelOption[T] {
	return func(o *options[T]) { o.pushButtons = true }
}

// WithLogger sets the logger used for configuration failures.
func WithLogger[T any](log *logger.Logger) ModelOption[T] {
	return func(o *options[T]) { o.log = log }
}

func newOptions[T any](opts []ModelOption[T]) options[T] {
	o := options[T]{log: logger.Get("action")}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// collectionHooks react to members added to or removed from a collection.
type collectionHooks[T any] struct {
	onAdd    func(extension.Factory[T])
	onRemove func(extension.Factory[T])
}

// collectionItems lists a drop-down per mutable collection accepted by
// filter, preceded by one separator.
func collectionItems[T any](ext extension.Extension[T], filter extension.Filter[T], hooks collectionHooks[T]) []*Action {
	var out []*Action
	for _, c := range ext.Collections() {
		if filter != nil && !filter.AcceptCollection(c) {
			continue
		}
		if !c.AllowAddNew() && !c.AllowRemove() {
			continue
		}
		if len(out) == 0 {
			out = append(out, Separator())
		}
		out = append(out, collectionAction(c, hooks))
	}
	return out
}

func collectionAction[T any](c extension.Collection[T], hooks collectionHooks[T]) *Action {
	return New("collection:"+c.Name(), c.Name(), StyleDropDown, nil, WithChildren(func() []*Action {
		var items []*Action
		if c.AllowAddNew() {
			items = append(items, New("add-new", LabelAddNew, StylePush, func(*Action) {
				if f := c.AddNew(); f != nil {
					hooks.onAdd(f)
				}
			}))
		}
		if c.AllowRemove() && len(c.Factories()) > 0 {
			items = append(items, New("remove", LabelRemove, StyleDropDown, nil, WithChildren(func() []*Action {
				return removeItems(c, hooks)
			})))
		}
		return items
	}))
}

func removeItems[T any](c extension.Collection[T], hooks collectionHooks[T]) []*Action {
	factories := c.Factories()
	extension.Sort(factories)
	items := make([]*Action, 0, len(factories))
	for _, f := range factories {
		items = append(items, New("remove:"+f.ID(), f.DisplayName(), StylePush, func(*Action) {
			if c.Remove(f) {
				hooks.onRemove(f)
			}
		}))
	}
	return items
}

// configure runs f's configuration step and reports whether its instances
// became stale. A panic is logged and counts as not stale.
func configure[T any](f extension.Factory[T], log *logger.Logger) bool {
	var stale bool
	if err := extension.Protect(func() { stale = f.Configure() }); err != nil {
		log.Error("factory configuration failed", logger.MergeWithError(
			logger.Fields(logger.FieldFactoryID, f.ID()), err))
		return false
	}
	return stale
}
