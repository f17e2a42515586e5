package selective

import (
	"context"
	"slices"
	"sync"

	"github.com/kbukum/extkit/extension"
	"github.com/kbukum/extkit/logger"
	"github.com/kbukum/extkit/observability"
)

// Listener is notified when an instance is activated or deactivated.
type Listener[T comparable] interface {
	Activated(instance T, def extension.Factory[T])
	Deactivated(instance T, def extension.Factory[T])
}

// ListenerFuncs adapts functions to Listener. Nil functions are skipped.
type ListenerFuncs[T comparable] struct {
	OnActivated   func(instance T, def extension.Factory[T])
	OnDeactivated func(instance T, def extension.Factory[T])
}

func (l ListenerFuncs[T]) Activated(instance T, def extension.Factory[T]) {
	if l.OnActivated != nil {
		l.OnActivated(instance, def)
	}
}

func (l ListenerFuncs[T]) Deactivated(instance T, def extension.Factory[T]) {
	if l.OnDeactivated != nil {
		l.OnDeactivated(instance, def)
	}
}

type options struct {
	log     *logger.Logger
	metrics *observability.Metrics
}

// Option configures a Controller.
type Option func(*options)

// WithLogger sets the controller logger.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithMetrics records activations on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

type active[T comparable] struct {
	def      extension.Factory[T]
	instance T
}

// Controller keeps any subset of an extension point's factories active,
// each with its own instance. T must be comparable because instances are
// looked up by identity.
type Controller[T comparable] struct {
	ext            extension.Extension[T]
	activateOnInit func(extension.Factory[T]) bool
	opts           options
	listeners      extension.Listeners[Listener[T]]

	mu           sync.Mutex
	byID         map[string]active[T]
	byInstance   map[T]string
	order        []string
	initialized  bool
	initializing bool
}

// New creates a controller over ext. On first use every factory for which
// activateOnInit returns true is activated.
func New[T comparable](ext extension.Extension[T], activateOnInit func(extension.Factory[T]) bool, opts ...Option) *Controller[T] {
	o := options{log: logger.Get("selective")}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller[T]{
		ext:            ext,
		activateOnInit: activateOnInit,
		opts:           o,
		byID:           make(map[string]active[T]),
		byInstance:     make(map[T]string),
	}
}

// Point returns the extension point id.
func (c *Controller[T]) Point() string { return c.ext.Point() }

// Factories delegates to the underlying extension.
func (c *Controller[T]) Factories(filter extension.Filter[T]) []extension.Factory[T] {
	return c.ext.Factories(filter)
}

// Factory delegates to the underlying extension.
func (c *Controller[T]) Factory(id string) (extension.Factory[T], bool) {
	return c.ext.Factory(id)
}

// Collections delegates to the underlying extension.
func (c *Controller[T]) Collections() []extension.Collection[T] {
	return c.ext.Collections()
}

// AddListener registers l.
func (c *Controller[T]) AddListener(l Listener[T]) extension.ListenerID {
	return c.listeners.Add(l)
}

// RemoveListener unregisters a listener.
func (c *Controller[T]) RemoveListener(id extension.ListenerID) bool {
	return c.listeners.Remove(id)
}

// Activate creates and activates an instance of f. Activating an active
// factory returns true without creating another instance. It returns false
// with no state change if f cannot create an instance, or if the instance
// is already active under another factory id.
func (c *Controller[T]) Activate(f extension.Factory[T]) bool {
	if f == nil {
		return false
	}
	c.mu.Lock()
	_, ok := c.byID[f.ID()]
	c.mu.Unlock()
	if ok {
		return true
	}

	instance, err := extension.Create(f)
	if err != nil {
		c.opts.log.Error("error activating extension object", logger.MergeWithError(
			logger.FactoryFields(c.Point(), f.ID()), err))
		return false
	}

	c.mu.Lock()
	if _, ok := c.byID[f.ID()]; ok {
		// activated concurrently while creating
		c.mu.Unlock()
		c.dispose(f, instance)
		return true
	}
	if owner, ok := c.byInstance[instance]; ok {
		c.mu.Unlock()
		// the instance belongs to the owner's registration and stays live
		c.opts.log.Error("extension object is already active for another factory", logger.Fields(
			logger.FieldExtensionPoint, c.Point(), logger.FieldFactoryID, f.ID(), "owner", owner))
		return false
	}
	c.byID[f.ID()] = active[T]{def: f, instance: instance}
	c.byInstance[instance] = f.ID()
	c.order = append(c.order, f.ID())
	c.initialized = true
	c.mu.Unlock()

	c.opts.metrics.RecordActivation(context.Background(), c.Point(), 1)
	c.notify(func(l Listener[T]) { l.Activated(instance, f) }, f)
	c.opts.log.Debug("extension object activated", logger.FactoryFields(c.Point(), f.ID()))
	return true
}

// ActivateID activates the factory with the given id.
func (c *Controller[T]) ActivateID(id string) bool {
	f, ok := extension.Find(c.ext.Factories(nil), id)
	if !ok {
		return false
	}
	return c.Activate(f)
}

// Deactivate removes f's instance, notifies listeners and then disposes
// the instance. Deactivating an inactive factory does nothing.
func (c *Controller[T]) Deactivate(f extension.Factory[T]) {
	if f == nil {
		return
	}
	c.mu.Lock()
	a, ok := c.byID[f.ID()]
	if !ok {
		c.mu.Unlock()
		return
	}
	delete(c.byID, f.ID())
	delete(c.byInstance, a.instance)
	c.order = slices.DeleteFunc(c.order, func(id string) bool { return id == f.ID() })
	c.mu.Unlock()

	c.notify(func(l Listener[T]) { l.Deactivated(a.instance, a.def) }, a.def)
	c.dispose(a.def, a.instance)
	c.opts.metrics.RecordActivation(context.Background(), c.Point(), -1)
	c.opts.log.Debug("extension object deactivated", logger.FactoryFields(c.Point(), f.ID()))
}

// DeactivateID deactivates the active factory with the given id.
func (c *Controller[T]) DeactivateID(id string) bool {
	c.mu.Lock()
	a, ok := c.byID[id]
	c.mu.Unlock()
	if !ok {
		return false
	}
	c.Deactivate(a.def)
	return true
}

// Toggle flips the activation of f and reports whether it is active afterwards.
func (c *Controller[T]) Toggle(f extension.Factory[T]) bool {
	if c.IsActive(f) {
		c.Deactivate(f)
		return false
	}
	return c.Activate(f)
}

// ActiveObjects returns the active instances in activation order. The
// returned slice is a copy.
func (c *Controller[T]) ActiveObjects() []T {
	c.init()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id].instance)
	}
	return out
}

// ActiveIDs returns the ids of the active factories in activation order.
func (c *Controller[T]) ActiveIDs() []string {
	c.init()
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.order)
}

// IsActive reports whether f has an active instance.
func (c *Controller[T]) IsActive(f extension.Definition) bool {
	if f == nil {
		return false
	}
	c.init()
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.byID[f.ID()]
	return ok
}

// IsActiveObject reports whether instance is active.
func (c *Controller[T]) IsActiveObject(instance T) bool {
	c.init()
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.byInstance[instance]
	return ok
}

// Definition returns the factory of an active instance.
func (c *Controller[T]) Definition(instance T) (extension.Factory[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.byInstance[instance]
	if !ok {
		return nil, false
	}
	return c.byID[id].def, true
}

// Definitions returns every known factory as a Definition.
func (c *Controller[T]) Definitions() []extension.Definition {
	factories := c.ext.Factories(nil)
	defs := make([]extension.Definition, len(factories))
	for i, f := range factories {
		defs[i] = f
	}
	return defs
}

func (c *Controller[T]) init() {
	c.mu.Lock()
	if c.initialized || c.initializing {
		c.mu.Unlock()
		return
	}
	c.initializing = true
	c.mu.Unlock()

	if c.activateOnInit != nil {
		for _, f := range c.ext.Factories(nil) {
			var activate bool
			if err := extension.Protect(func() { activate = c.activateOnInit(f) }); err != nil {
				c.opts.log.Error("error evaluating initial activation", logger.MergeWithError(
					logger.FactoryFields(c.Point(), f.ID()), err))
				continue
			}
			if activate {
				c.Activate(f)
			}
		}
	}

	c.mu.Lock()
	c.initialized = true
	c.initializing = false
	c.mu.Unlock()
}

func (c *Controller[T]) notify(fn func(Listener[T]), def extension.Factory[T]) {
	c.listeners.Each(fn, func(err error) {
		c.opts.log.Error("error while notifying listener", logger.MergeWithError(
			logger.FactoryFields(c.Point(), def.ID()), err))
		c.opts.metrics.RecordListenerError(context.Background(), c.Point())
	})
}

func (c *Controller[T]) dispose(f extension.Factory[T], instance T) {
	if err := extension.Dispose(f, instance); err != nil {
		c.opts.log.Error("error disposing extension object", logger.MergeWithError(
			logger.FactoryFields(c.Point(), f.ID()), err))
	}
}

var _ extension.Extension[int] = (*Controller[int])(nil)
