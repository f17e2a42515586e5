package exclusive

import (
	"context"
	"sync"

	"github.com/kbukum/extkit/extension"
	"github.com/kbukum/extkit/logger"
	"github.com/kbukum/extkit/observability"
)

// Listener is notified with the new current instance and its factory.
type Listener[T any] func(current T, def extension.Factory[T])

// InitialFunc returns the factory to activate on first use. It may return nil.
type InitialFunc[T any] func() extension.Factory[T]

type options struct {
	allowReactivation bool
	log               *logger.Logger
	metrics           *observability.Metrics
}

// Option configures a Controller.
type Option func(*options)

// WithAllowReactivation makes SetCurrent recreate the instance even when
// the factory is already current.
func WithAllowReactivation() Option {
	return func(o *options) { o.allowReactivation = true }
}

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

// Controller keeps at most one instance of an extension point active. The
// first access activates the factory returned by the initial function.
//
// The state lock is never held while factories or listeners run, so
// listeners may call back into the controller.
type Controller[T any] struct {
	ext       extension.Extension[T]
	initial   InitialFunc[T]
	reset     InitialFunc[T]
	opts      options
	listeners extension.Listeners[Listener[T]]

	mu           sync.Mutex
	current      T
	def          extension.Factory[T]
	last         extension.Factory[T]
	initialized  bool
	initializing bool
}

// New creates a controller over ext.
func New[T any](ext extension.Extension[T], initial InitialFunc[T], opts ...Option) *Controller[T] {
	o := options{log: logger.Get("exclusive")}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller[T]{ext: ext, initial: initial, opts: o}
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

// Current returns the current instance, initializing the controller first.
// It returns the zero value if nothing could be activated.
func (c *Controller[T]) Current() T {
	c.init()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// CurrentDefinition returns the current factory, or nil.
func (c *Controller[T]) CurrentDefinition() extension.Factory[T] {
	c.init()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.def
}

// LastDefinition returns the factory that was current before the last
// switch, or nil. It does not initialize the controller.
func (c *Controller[T]) LastDefinition() extension.Factory[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// CurrentID returns the id of the current factory, or "".
func (c *Controller[T]) CurrentID() string {
	if def := c.CurrentDefinition(); def != nil {
		return def.ID()
	}
	return ""
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

// RepresentsCurrent reports whether def is the current definition. A nil
// def matches when nothing is current.
func (c *Controller[T]) RepresentsCurrent(def extension.Definition) bool {
	cur := c.CurrentDefinition()
	if cur == nil {
		return def == nil
	}
	return extension.Same(cur, def)
}

// AddListener registers l. Listeners added before first use receive the
// initial state when the controller initializes.
func (c *Controller[T]) AddListener(l Listener[T]) extension.ListenerID {
	return c.listeners.Add(l)
}

// RemoveListener unregisters a listener.
func (c *Controller[T]) RemoveListener(id extension.ListenerID) bool {
	return c.listeners.Remove(id)
}

// Adopt installs an existing instance as current without creating it. If
// the controller has not been initialized, the pair is replayed to
// listeners on first use instead of activating the initial factory.
// Otherwise it is installed like SetCurrent: listeners are notified and the
// previous instance is disposed.
func (c *Controller[T]) Adopt(def extension.Factory[T], instance T) {
	if def == nil {
		return
	}
	c.mu.Lock()
	if !c.initialized && !c.initializing {
		c.def = def
		c.current = instance
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.install(def, instance)
}

// SetCurrent makes f current. Activating the current factory again is a
// no-op unless reactivation is allowed. It returns false, leaving the
// previous instance current, when f cannot create an instance.
//
// The previous instance is disposed after all listeners were notified.
func (c *Controller[T]) SetCurrent(f extension.Factory[T]) bool {
	if f == nil {
		c.opts.log.Warn("cannot activate nil factory", logger.Fields(logger.FieldExtensionPoint, c.Point()))
		return false
	}

	c.mu.Lock()
	same := c.def != nil && extension.Same(c.def, f)
	c.mu.Unlock()
	if same && !c.opts.allowReactivation {
		return true
	}
	return c.activate(f)
}

// SetCurrentID activates the factory with the given id. It returns false
// without side effects if no factory has that id.
func (c *Controller[T]) SetCurrentID(id string) bool {
	f, ok := extension.Find(c.ext.Factories(nil), id)
	if !ok {
		return false
	}
	return c.SetCurrent(f)
}

// RemoveCurrent returns to the initial factory. Persistent controllers
// re-derive it without consulting the stored id, which still names the
// factory being removed.
func (c *Controller[T]) RemoveCurrent() bool {
	if c.reset != nil {
		return c.SetCurrent(c.pick(c.reset))
	}
	return c.SetCurrent(c.pick(c.initial))
}

// Reload recreates the current instance from the current factory,
// regardless of the reactivation setting.
func (c *Controller[T]) Reload() bool {
	c.mu.Lock()
	def := c.def
	c.mu.Unlock()
	if def == nil {
		return false
	}
	return c.activate(def)
}

// Configure runs f's configuration step and reloads the current instance
// when f is current and reports its instances as stale. It returns whether
// the instance was reloaded.
func (c *Controller[T]) Configure(f extension.Factory[T]) bool {
	if f == nil || !f.AllowConfigure() {
		return false
	}
	var stale bool
	if err := extension.Protect(func() { stale = f.Configure() }); err != nil {
		c.opts.log.Error("factory configuration failed", logger.MergeWithError(
			logger.FactoryFields(c.Point(), f.ID()), err))
		return false
	}
	if !stale || !c.RepresentsCurrent(f) {
		return false
	}
	return c.Reload()
}

func (c *Controller[T]) activate(f extension.Factory[T]) bool {
	instance, err := extension.Create(f)
	if err != nil {
		c.opts.log.Error("error creating extension object instance", logger.MergeWithError(
			logger.FactoryFields(c.Point(), f.ID()), err))
		return false
	}
	c.install(f, instance)
	return true
}

func (c *Controller[T]) install(f extension.Factory[T], instance T) {
	c.mu.Lock()
	oldInstance, oldDef := c.current, c.def
	c.current, c.def = instance, f
	c.initialized = true
	c.mu.Unlock()

	ctx := context.Background()
	c.opts.metrics.RecordActivation(ctx, c.Point(), 1)
	c.notify(instance, f)

	if oldDef != nil {
		c.mu.Lock()
		c.last = oldDef
		c.mu.Unlock()

		if err := extension.Dispose(oldDef, oldInstance); err != nil {
			c.opts.log.Error("error disposing extension object", logger.MergeWithError(
				logger.FactoryFields(c.Point(), oldDef.ID()), err))
		}
		c.opts.metrics.RecordActivation(ctx, c.Point(), -1)
	}

	c.opts.log.Debug("current extension object changed", logger.FactoryFields(c.Point(), f.ID()))
}

func (c *Controller[T]) init() {
	c.mu.Lock()
	if c.initialized || c.initializing {
		c.mu.Unlock()
		return
	}
	c.initializing = true
	cur, def := c.current, c.def
	c.mu.Unlock()

	if def == nil {
		if f := c.pick(c.initial); f != nil {
			c.SetCurrent(f)
		} else {
			c.opts.log.Warn("no initial factory", logger.Fields(logger.FieldExtensionPoint, c.Point()))
		}
	} else {
		c.notify(cur, def)
	}

	c.mu.Lock()
	c.initialized = true
	c.initializing = false
	c.mu.Unlock()
}

func (c *Controller[T]) pick(fn InitialFunc[T]) extension.Factory[T] {
	if fn == nil {
		return nil
	}
	var f extension.Factory[T]
	if err := extension.Protect(func() { f = fn() }); err != nil {
		c.opts.log.Error("error determining initial factory", logger.MergeWithError(
			logger.Fields(logger.FieldExtensionPoint, c.Point()), err))
		return nil
	}
	return f
}

func (c *Controller[T]) notify(instance T, def extension.Factory[T]) {
	c.listeners.Each(func(l Listener[T]) { l(instance, def) }, func(err error) {
		c.opts.log.Error("error notifying listener of extension object change", logger.MergeWithError(
			logger.FactoryFields(c.Point(), def.ID()), err))
		c.opts.metrics.RecordListenerError(context.Background(), c.Point())
	})
}

var _ extension.Extension[any] = (*Controller[any])(nil)
