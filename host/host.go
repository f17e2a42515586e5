package host

import (
	"sync"

	"github.com/kbukum/extkit/action"
	"github.com/kbukum/extkit/contribution"
	apperrors "github.com/kbukum/extkit/errors"
	"github.com/kbukum/extkit/exclusive"
	"github.com/kbukum/extkit/extension"
	"github.com/kbukum/extkit/logger"
	"github.com/kbukum/extkit/preference"
	"github.com/kbukum/extkit/selective"
)

// Instance is the object type every managed point produces.
type Instance = *contribution.Instance

// Host owns the registries and persistent controllers of a set of extension
// points that all read from one contribution source and one preference
// store.
type Host struct {
	source extension.Source
	log    *logger.Logger
	events *subscribers

	mu     sync.RWMutex
	points map[string]*Point
	order  []string
}

// New validates the point list and wires a registry plus a persistent
// controller per point. Nothing is created until a point is first used.
func New(source extension.Source, store preference.Store, points []PointConfig, opts ...Option) (*Host, error) {
	o := options{log: logger.Get("host")}
	for _, opt := range opts {
		opt(&o)
	}
	if o.builder == nil {
		o.builder = contribution.InstanceBuilder()
	}
	if store == nil {
		store = preference.NewMemory(nil)
	}

	cfgs := make([]PointConfig, len(points))
	copy(cfgs, points)
	for i := range cfgs {
		cfgs[i].ApplyDefaults()
	}
	if err := Validate(cfgs); err != nil {
		return nil, err
	}

	h := &Host{
		source: source,
		log:    o.log,
		events: &subscribers{log: o.log},
		points: make(map[string]*Point, len(cfgs)),
	}
	for _, cfg := range cfgs {
		p := newPoint(cfg, source, store, o)
		p.forward(h.events)
		h.points[cfg.ID] = p
		h.order = append(h.order, cfg.ID)
	}
	h.log.Debug("Host configured", logger.Fields("points", h.order))
	return h, nil
}

func newPoint(cfg PointConfig, source extension.Source, store preference.Store, o options) *Point {
	mw := append([]extension.Middleware[Instance]{
		extension.WithLogging[Instance](cfg.ID, o.log),
		extension.WithCreateMetrics[Instance](cfg.ID, o.metrics),
		extension.WithTracing[Instance](cfg.ID),
	}, o.middleware...)

	reg := extension.NewRegistry[Instance](cfg.ID, source, o.builder.Factory,
		extension.WithCollections[Instance](o.builder.Collection),
		extension.WithLogger[Instance](o.log),
		extension.WithMetrics[Instance](o.metrics),
		extension.WithMiddleware(mw...),
	)
	p := &Point{Config: cfg, Registry: reg}

	switch cfg.Mode {
	case ModeExclusive:
		p.Exclusive = exclusive.NewPersistent[Instance](reg, exclusive.Persistence[Instance]{
			Store:   store,
			Key:     cfg.Key,
			Default: byID(cfg.Default),
		}, exclusive.WithLogger(o.log), exclusive.WithMetrics(o.metrics))
		p.newMenu = func() menu {
			return action.NewExclusive(p.Exclusive, action.WithLogger[Instance](o.log))
		}
	case ModeSelective:
		p.Selective = selective.NewPersistent[Instance](reg, store, cfg.Key,
			selective.WithLogger(o.log), selective.WithMetrics(o.metrics))
		p.newMenu = func() menu {
			return action.NewSelective(p.Selective, action.WithLogger[Instance](o.log))
		}
	}
	return p
}

func byID(id string) func([]extension.Factory[Instance]) extension.Factory[Instance] {
	if id == "" {
		return nil
	}
	return func(factories []extension.Factory[Instance]) extension.Factory[Instance] {
		if f, ok := extension.Find(factories, id); ok {
			return f
		}
		return factories[0]
	}
}

// Points returns the managed points in configuration order.
func (h *Host) Points() []*Point {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Point, 0, len(h.order))
	for _, id := range h.order {
		out = append(out, h.points[id])
	}
	return out
}

// Point returns a managed point, or a NOT_FOUND AppError.
func (h *Host) Point(id string) (*Point, error) {
	h.mu.RLock()
	p, ok := h.points[id]
	h.mu.RUnlock()
	if !ok {
		return nil, apperrors.PointNotFound(id)
	}
	return p, nil
}

// Reset makes every registry re-read the contribution source. Active
// instances are kept. Intended as a contribution.Watcher callback.
func (h *Host) Reset() {
	if inv, ok := h.source.(interface{ Invalidate() }); ok {
		inv.Invalidate()
	}
	for _, p := range h.Points() {
		p.Registry.Reset()
	}
	h.log.Info("Contributions reloaded", logger.Fields("points", len(h.order)))
	h.events.emit(Change{Kind: ChangeReloaded})
}

// Close releases the action models built for the points.
func (h *Host) Close() {
	for _, p := range h.Points() {
		p.dispose()
	}
}
