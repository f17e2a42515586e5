package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the instruments recorded by registries, controllers,
// factory middleware and preference stores. A nil *Metrics records nothing.
type Metrics struct {
	createTotal        metric.Int64Counter
	createDuration     metric.Float64Histogram
	activeInstances    metric.Int64UpDownCounter
	contributionErrors metric.Int64Counter
	listenerErrors     metric.Int64Counter
	preferenceErrors   metric.Int64Counter
}

// NewMetrics creates the extension.* instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var errs []error
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		errs = append(errs, err)
		return c
	}

	m := &Metrics{
		createTotal:        counter("extension.create.total", "Factory Create calls"),
		contributionErrors: counter("extension.contribution.errors", "Contribution entries skipped because they could not be built"),
		listenerErrors:     counter("extension.listener.errors", "Listener callbacks that panicked"),
		preferenceErrors:   counter("extension.preference.errors", "Failed preference reads and writes"),
	}

	var err error
	m.createDuration, err = meter.Float64Histogram("extension.create.duration",
		metric.WithDescription("Duration of factory Create calls"), metric.WithUnit("s"))
	errs = append(errs, err)
	m.activeInstances, err = meter.Int64UpDownCounter("extension.active",
		metric.WithDescription("Extension instances currently active"))
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("creating extension instruments: %w", err)
	}
	return m, nil
}

// RecordCreate records one Create call; status is "ok" or "error".
func (m *Metrics) RecordCreate(ctx context.Context, point, factoryID, status string, duration time.Duration) {
	if m == nil {
		return
	}
	factory := []attribute.KeyValue{attribute.String("point", point), attribute.String("factory", factoryID)}
	m.createTotal.Add(ctx, 1, metric.WithAttributes(append(factory, attribute.String("status", status))...))
	m.createDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(factory...))
}

// RecordActivation moves the active count of point by delta.
func (m *Metrics) RecordActivation(ctx context.Context, point string, delta int64) {
	if m == nil {
		return
	}
	m.activeInstances.Add(ctx, delta, metric.WithAttributes(attribute.String("point", point)))
}

// RecordContributionError counts a skipped contribution entry.
func (m *Metrics) RecordContributionError(ctx context.Context, point, contributor string) {
	if m == nil {
		return
	}
	m.contributionErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("point", point),
		attribute.String("contributor", contributor),
	))
}

// RecordListenerError counts a panicking listener of point.
func (m *Metrics) RecordListenerError(ctx context.Context, point string) {
	if m == nil {
		return
	}
	m.listenerErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("point", point)))
}

// RecordPreferenceError counts a failed store operation on key.
func (m *Metrics) RecordPreferenceError(ctx context.Context, op, key string) {
	if m == nil {
		return
	}
	m.preferenceErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("key", key),
	))
}
