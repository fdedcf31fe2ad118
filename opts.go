package depot

import (
	"github.com/xraph/go-utils/log"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Container.
type Option func(*Container)

// WithConfiguration applies cfg as ReplaceConfiguration would.
func WithConfiguration(cfg Configuration) Option {
	return func(c *Container) {
		c.ReplaceConfiguration(cfg)
	}
}

// WithAutoload sets the initial autoload flag.
func WithAutoload(autoload bool) Option {
	return func(c *Container) {
		c.autoload = autoload
	}
}

// WithTypes sets the type source used for autoloading, autowiring and
// class instantiation.
func WithTypes(types TypeSource) Option {
	return func(c *Container) {
		if types != nil {
			c.types = types
		}
	}
}

// WithLogger sets the container logger.
func WithLogger(logger log.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMiddleware adds middleware, in order.
func WithMiddleware(middleware ...Middleware) Option {
	return func(c *Container) {
		c.middleware = c.middleware.with(middleware...)
	}
}

// WithTracer records a span for every service load.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Container) {
		c.tracer = tracer
	}
}
