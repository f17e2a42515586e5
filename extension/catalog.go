package extension

import (
	"slices"
	"sync"

	"github.com/kbukum/extkit/logger"
)

// Identifiable is an element with a stable id.
type Identifiable interface {
	ID() string
}

// ElementBuilder turns an entry into a catalog element. A nil error with
// ok == false skips the entry.
type ElementBuilder[E Identifiable] func(Entry) (elem E, ok bool, err error)

// Catalog indexes plain elements contributed to an extension point by id.
// Unlike Registry it has no factories: each entry yields the element itself.
type Catalog[E Identifiable] struct {
	point   string
	source  Source
	build   ElementBuilder[E]
	idAttr  string
	compare func(a, b E) int
	keepAll bool
	log     *logger.Logger

	mu   sync.Mutex
	byID map[string]E
	all  []E
}

// CatalogOption configures a Catalog.
type CatalogOption[E Identifiable] func(*Catalog[E])

// OrderBy sorts Elements with compare.
func OrderBy[E Identifiable](compare func(a, b E) int) CatalogOption[E] {
	return func(c *Catalog[E]) { c.compare = compare }
}

// WithoutElementCache makes Elements rebuild the element list on every call.
func WithoutElementCache[E Identifiable]() CatalogOption[E] {
	return func(c *Catalog[E]) { c.keepAll = false }
}

// WithIDAttribute sets the entry attribute holding the element id (default "id").
func WithIDAttribute[E Identifiable](name string) CatalogOption[E] {
	return func(c *Catalog[E]) { c.idAttr = name }
}

// NewCatalog creates a catalog for point.
func NewCatalog[E Identifiable](point string, source Source, build ElementBuilder[E], opts ...CatalogOption[E]) *Catalog[E] {
	c := &Catalog[E]{
		point:   point,
		source:  source,
		build:   build,
		idAttr:  "id",
		keepAll: true,
		log:     logger.Get("extension"),
		byID:    make(map[string]E),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the element with the given id, building it from the first
// matching entry on a cache miss.
func (c *Catalog[E]) Get(id string) (E, bool) {
	c.mu.Lock()
	if e, ok := c.byID[id]; ok {
		c.mu.Unlock()
		return e, true
	}
	c.mu.Unlock()

	for _, entry := range c.entries() {
		if entry.Attr(c.idAttr) != id {
			continue
		}
		e, ok := c.buildOne(entry)
		if !ok {
			continue
		}
		c.mu.Lock()
		c.byID[e.ID()] = e
		c.mu.Unlock()
		return e, true
	}
	var zero E
	return zero, false
}

// Elements builds every element, sorted if an order was configured.
func (c *Catalog[E]) Elements() []E {
	c.mu.Lock()
	if c.all != nil {
		out := slices.Clone(c.all)
		c.mu.Unlock()
		return out
	}
	c.mu.Unlock()

	var result []E
	for _, entry := range c.entries() {
		if e, ok := c.buildOne(entry); ok {
			result = append(result, e)
		}
	}
	if c.compare != nil {
		slices.SortStableFunc(result, c.compare)
	}

	c.mu.Lock()
	for _, e := range result {
		c.byID[e.ID()] = e
	}
	if c.keepAll {
		c.all = slices.Clone(result)
		if c.all == nil {
			c.all = []E{}
		}
	}
	c.mu.Unlock()
	return result
}

// Reset drops all cached elements.
func (c *Catalog[E]) Reset() {
	c.mu.Lock()
	c.byID = make(map[string]E)
	c.all = nil
	c.mu.Unlock()
}

func (c *Catalog[E]) entries() []Entry {
	entries, err := c.source.Entries(c.point)
	if err != nil {
		c.log.Error("failed to read contributions", logger.MergeWithError(
			logger.Fields(logger.FieldExtensionPoint, c.point), err))
		return nil
	}
	return entries
}

func (c *Catalog[E]) buildOne(entry Entry) (E, bool) {
	elem, ok, err := c.safeBuild(entry)
	if err != nil {
		c.log.Error("failed to create element", logger.MergeWithError(logger.Fields(
			logger.FieldExtensionPoint, c.point,
			logger.FieldContributor, entry.Contributor,
		), err))
		var zero E
		return zero, false
	}
	return elem, ok
}

func (c *Catalog[E]) safeBuild(entry Entry) (elem E, ok bool, err error) {
	defer recoverInto(&err)
	return c.build(entry)
}
