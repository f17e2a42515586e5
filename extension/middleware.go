package extension

import (
	"context"
	"time"

	"github.com/kbukum/extkit/logger"
	"github.com/kbukum/extkit/observability"
)

// Middleware decorates a factory. Wrapped factories keep the id of the
// factory they wrap, so identity and ordering are unchanged.
type Middleware[T any] func(Factory[T]) Factory[T]

// Chain composes middlewares. The first middleware is outermost.
//
// Chain(a, b, c)(f) is equivalent to a(b(c(f))).
func Chain[T any](middlewares ...Middleware[T]) Middleware[T] {
	return func(inner Factory[T]) Factory[T] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}

// Unwrap returns the innermost factory behind any middleware.
func Unwrap[T any](f Factory[T]) Factory[T] {
	for {
		w, ok := f.(interface{ Unwrapped() Factory[T] })
		if !ok {
			return f
		}
		f = w.Unwrapped()
	}
}

type wrapped[T any] struct {
	Factory[T]
}

func (w wrapped[T]) Unwrapped() Factory[T] { return w.Factory }

// WithLogging logs every Create call of the wrapped factory.
func WithLogging[T any](point string, log *logger.Logger) Middleware[T] {
	return func(inner Factory[T]) Factory[T] {
		return &loggingFactory[T]{wrapped: wrapped[T]{inner}, point: point, log: log}
	}
}

type loggingFactory[T any] struct {
	wrapped[T]
	point string
	log   *logger.Logger
}

func (l *loggingFactory[T]) Create() (T, error) {
	start := time.Now()
	instance, err := l.Factory.Create()

	fields := logger.FactoryFields(l.point, l.ID())
	fields[logger.FieldDuration] = time.Since(start).String()
	if err != nil {
		l.log.Error("factory create failed", logger.MergeWithError(fields, err))
	} else {
		l.log.Debug("factory create ok", fields)
	}
	return instance, err
}

// WithCreateMetrics records the count and duration of Create calls.
func WithCreateMetrics[T any](point string, metrics *observability.Metrics) Middleware[T] {
	return func(inner Factory[T]) Factory[T] {
		return &metricsFactory[T]{wrapped: wrapped[T]{inner}, point: point, metrics: metrics}
	}
}

type metricsFactory[T any] struct {
	wrapped[T]
	point   string
	metrics *observability.Metrics
}

func (m *metricsFactory[T]) Create() (T, error) {
	start := time.Now()
	instance, err := m.Factory.Create()

	status := "ok"
	if err != nil {
		status = "error"
	}
	m.metrics.RecordCreate(context.Background(), m.point, m.ID(), status, time.Since(start))
	return instance, err
}

// WithTracing wraps every Create call in a span.
func WithTracing[T any](point string) Middleware[T] {
	return func(inner Factory[T]) Factory[T] {
		return &tracingFactory[T]{wrapped: wrapped[T]{inner}, point: point}
	}
}

type tracingFactory[T any] struct {
	wrapped[T]
	point string
}

func (t *tracingFactory[T]) Create() (T, error) {
	_, span := observability.StartCreate(context.Background(), t.point, t.ID())
	instance, err := t.Factory.Create()
	observability.EndSpan(span, err)
	return instance, err
}
