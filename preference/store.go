package preference

import (
	"context"

	"github.com/kbukum/extkit/logger"
	"github.com/kbukum/extkit/observability"
)

// Store is a string key/value store for activation state. A missing key
// reads as "" with a nil error.
type Store interface {
	GetString(key string) (string, error)
	SetString(key, value string) error
}

// Guarded wraps a Store so that failures degrade instead of propagating:
// reads fall back to "" and failed writes are dropped. Every failure is
// logged as a warning.
type Guarded struct {
	store   Store
	log     *logger.Logger
	metrics *observability.Metrics
}

// Guard wraps store. A nil log uses the "preference" component logger.
func Guard(store Store, log *logger.Logger, metrics *observability.Metrics) *Guarded {
	if log == nil {
		log = logger.Get("preference")
	}
	return &Guarded{store: store, log: log, metrics: metrics}
}

// Get returns the stored value or "" if it cannot be read.
func (g *Guarded) Get(key string) string {
	if g.store == nil {
		return ""
	}
	v, err := g.store.GetString(key)
	if err != nil {
		g.fail("get", key, err)
		return ""
	}
	return v
}

// Set stores value and reports whether it was written.
func (g *Guarded) Set(key, value string) bool {
	if g.store == nil {
		return false
	}
	if err := g.store.SetString(key, value); err != nil {
		g.fail("set", key, err)
		return false
	}
	return true
}

func (g *Guarded) fail(op, key string, err error) {
	g.log.Warn("preference "+op+" failed", logger.MergeWithError(
		logger.Fields(logger.FieldOperation, op, logger.FieldPreferenceKey, key), err))
	g.metrics.RecordPreferenceError(context.Background(), op, key)
}
