package extension

import (
	"context"
	"sync"

	"github.com/kbukum/extkit/logger"
	"github.com/kbukum/extkit/observability"
)

// Extension is the read side shared by Registry and the activation controllers.
type Extension[T any] interface {
	// Point returns the extension point id.
	Point() string
	// Factories returns the accepted factories sorted with Compare.
	// A nil filter accepts everything.
	Factories(filter Filter[T]) []Factory[T]
	// Factory looks up a factory by id.
	Factory(id string) (Factory[T], bool)
	// Collections returns the contributed collections in source order.
	Collections() []Collection[T]
}

// FactoryBuilder turns an entry into a factory. A nil factory with a nil
// error means the entry contributes no standalone factory.
type FactoryBuilder[T any] func(Entry) (Factory[T], error)

// CollectionBuilder turns an entry into a collection. A nil collection with
// a nil error means the entry contributes no collection.
type CollectionBuilder[T any] func(Entry) (Collection[T], error)

// Registry enumerates the factories and collections contributed to one
// extension point and caches factories by id.
type Registry[T any] struct {
	point           string
	source          Source
	buildFactory    FactoryBuilder[T]
	buildCollection CollectionBuilder[T]
	middleware      []Middleware[T]
	log             *logger.Logger
	metrics         *observability.Metrics

	mu    sync.RWMutex
	cache map[string]Factory[T]
}

// Option configures a Registry.
type Option[T any] func(*Registry[T])

// WithCollections sets the builder used for factory collections.
func WithCollections[T any](build CollectionBuilder[T]) Option[T] {
	return func(r *Registry[T]) { r.buildCollection = build }
}

// WithLogger sets the registry logger.
func WithLogger[T any](log *logger.Logger) Option[T] {
	return func(r *Registry[T]) {
		if log != nil {
			r.log = log
		}
	}
}

// WithMetrics records skipped contribution entries on m.
func WithMetrics[T any](m *observability.Metrics) Option[T] {
	return func(r *Registry[T]) { r.metrics = m }
}

// WithMiddleware wraps every enumerated factory with mw.
func WithMiddleware[T any](mw ...Middleware[T]) Option[T] {
	return func(r *Registry[T]) { r.middleware = append(r.middleware, mw...) }
}

// NewRegistry creates a registry for point that reads entries from source
// and builds factories with build.
func NewRegistry[T any](point string, source Source, build FactoryBuilder[T], opts ...Option[T]) *Registry[T] {
	r := &Registry[T]{
		point:        point,
		source:       source,
		buildFactory: build,
		log:          logger.Get("extension"),
		cache:        make(map[string]Factory[T]),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Point returns the extension point id.
func (r *Registry[T]) Point() string { return r.point }

// Factories enumerates every entry and returns the accepted factories in
// Compare order. Accepted factories are added to the id cache. An entry
// whose factory or collection cannot be built contributes nothing.
func (r *Registry[T]) Factories(filter Filter[T]) []Factory[T] {
	var result []Factory[T]
	for _, e := range r.entries() {
		factories, err := r.fromEntry(e, filter)
		if err != nil {
			r.skip(e, "failed to create extension object factory", err)
			continue
		}
		result = append(result, factories...)
	}

	if len(result) > 0 {
		r.mu.Lock()
		for _, f := range result {
			r.cache[f.ID()] = f
		}
		r.mu.Unlock()
	}

	Sort(result)
	return result
}

// Factory returns the factory with the given id. On a cache miss the
// registry enumerates all factories once and retries.
func (r *Registry[T]) Factory(id string) (Factory[T], bool) {
	if f, ok := r.cached(id); ok {
		return f, true
	}
	r.Factories(nil)
	return r.cached(id)
}

// Collections returns every contributed collection in source order.
func (r *Registry[T]) Collections() []Collection[T] {
	if r.buildCollection == nil {
		return nil
	}
	var result []Collection[T]
	for _, e := range r.entries() {
		c, err := r.collectionOf(e)
		if err != nil {
			r.skip(e, "failed to create factory collection", err)
			continue
		}
		if c != nil {
			result = append(result, c)
		}
	}
	return result
}

// Reset drops the id cache. The next lookup enumerates the source again.
func (r *Registry[T]) Reset() {
	r.mu.Lock()
	r.cache = make(map[string]Factory[T])
	r.mu.Unlock()
	r.log.Debug("factory cache reset", logger.Fields(logger.FieldExtensionPoint, r.point))
}

func (r *Registry[T]) cached(id string) (Factory[T], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.cache[id]
	return f, ok
}

func (r *Registry[T]) entries() []Entry {
	if r.source == nil {
		return nil
	}
	entries, err := r.source.Entries(r.point)
	if err != nil {
		r.log.Error("failed to read contributions", logger.MergeWithError(
			logger.Fields(logger.FieldExtensionPoint, r.point), err))
		return nil
	}
	return entries
}

func (r *Registry[T]) fromEntry(e Entry, filter Filter[T]) (out []Factory[T], err error) {
	defer recoverInto(&err)

	if r.buildFactory != nil {
		f, err := r.buildFactory(e)
		if err != nil {
			return nil, err
		}
		if f != nil && (filter == nil || filter.AcceptFactory(f)) {
			out = append(out, r.wrap(f))
		}
	}

	if r.buildCollection != nil {
		c, err := r.buildCollection(e)
		if err != nil {
			return nil, err
		}
		if c != nil && (filter == nil || filter.AcceptCollection(c)) {
			for _, f := range c.Factories() {
				if filter == nil || filter.AcceptFactory(f) {
					out = append(out, r.wrap(f))
				}
			}
		}
	}
	return out, nil
}

func (r *Registry[T]) collectionOf(e Entry) (c Collection[T], err error) {
	defer recoverInto(&err)
	return r.buildCollection(e)
}

func (r *Registry[T]) wrap(f Factory[T]) Factory[T] {
	if len(r.middleware) == 0 {
		return f
	}
	return Chain(r.middleware...)(f)
}

func (r *Registry[T]) skip(e Entry, msg string, err error) {
	r.log.Error(msg, logger.MergeWithError(logger.Fields(
		logger.FieldExtensionPoint, r.point,
		logger.FieldContributor, e.Contributor,
	), err))
	r.metrics.RecordContributionError(context.Background(), r.point, e.Contributor)
}
