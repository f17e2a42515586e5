package host

import (
	"github.com/kbukum/extkit/contribution"
	"github.com/kbukum/extkit/extension"
	"github.com/kbukum/extkit/logger"
	"github.com/kbukum/extkit/observability"
)

type options struct {
	log        *logger.Logger
	metrics    *observability.Metrics
	builder    *contribution.Builder[*contribution.Instance]
	middleware []extension.Middleware[*contribution.Instance]
}

// Option configures a Host.
type Option func(*options)

// WithLogger sets the logger handed to registries and controllers.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithMetrics records creations, activations and store failures.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithBuilder replaces the default contribution.InstanceBuilder, typically
// to register extra classes.
func WithBuilder(b *contribution.Builder[*contribution.Instance]) Option {
	return func(o *options) {
		if b != nil {
			o.builder = b
		}
	}
}

// WithMiddleware adds factory middleware after the built-in logging,
// metrics and tracing layers.
func WithMiddleware(mw ...extension.Middleware[*contribution.Instance]) Option {
	return func(o *options) { o.middleware = append(o.middleware, mw...) }
}
