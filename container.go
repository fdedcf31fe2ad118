package depot

import (
	"context"
	"sort"
	"sync"

	"github.com/xraph/go-utils/log"
	"go.opentelemetry.io/otel/trace"
)

// Resolver is the read side of the container. Closures receive a Resolver
// bound to the resolution in progress.
type Resolver interface {
	Get(name string) (any, error)
	GetNew(name string) (any, error)
	Has(name string) bool
}

// Container resolves services by name. It is safe for concurrent use; no
// lock is held while a service is being constructed.
type Container struct {
	autoload   bool
	services   map[string]Definition
	aliases    map[string]string
	loaded     map[string]any
	types      TypeSource
	logger     log.Logger
	tracer     trace.Tracer
	middleware *middlewareChain
	mu         sync.RWMutex
}

var _ Resolver = (*Container)(nil)

// New creates a container with autoload enabled and an empty registry.
func New(opts ...Option) *Container {
	c := &Container{
		autoload:   true,
		services:   make(map[string]Definition),
		aliases:    make(map[string]string),
		loaded:     make(map[string]any),
		types:      NewTypeTable(),
		logger:     log.NewNoopLogger(),
		middleware: newMiddlewareChain(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get returns the service registered under name, building and caching it on
// first use. Repeated calls return the same instance.
func (c *Container) Get(name string) (any, error) {
	return c.GetContext(context.Background(), name)
}

// GetContext is Get with a context passed to middleware and tracing.
func (c *Container) GetContext(ctx context.Context, name string) (any, error) {
	return c.newResolution(ctx).get(name, true)
}

// GetNew builds a fresh instance of name. The cache is neither read nor
// written, so later Get calls are unaffected.
func (c *Container) GetNew(name string) (any, error) {
	return c.GetNewContext(context.Background(), name)
}

// GetNewContext is GetNew with a context passed to middleware and tracing.
func (c *Container) GetNewContext(ctx context.Context, name string) (any, error) {
	return c.newResolution(ctx).get(name, false)
}

// Has reports whether name has an explicit definition, or autoload is on and
// name is a constructible type. Cached instances placed with ReplaceService
// do not count.
func (c *Container) Has(name string) bool {
	c.mu.RLock()
	realName := c.canonical(name)
	_, exists := c.services[realName]
	autoload := c.autoload
	types := c.types
	c.mu.RUnlock()

	return exists || (autoload && types.HasType(realName))
}

// Loaded reports whether name has a cached instance.
func (c *Container) Loaded(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.loaded[c.canonical(name)]

	return ok
}

// SetServiceConfiguration adds or replaces the definition of name. An
// instance already cached under name is kept.
func (c *Container) SetServiceConfiguration(name string, def Definition) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.services[name] = def
}

// ReplaceService caches value under the canonical name of name. Later Get
// calls return it without resolution.
func (c *Container) ReplaceService(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loaded[c.canonical(name)] = value
}

// AddServiceAlias makes every alias resolve to canonical.
func (c *Container) AddServiceAlias(canonical string, aliases ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, alias := range aliases {
		c.aliases[alias] = canonical
	}
}

// SetAutoload toggles resolving unconfigured names as type names.
func (c *Container) SetAutoload(autoload bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.autoload = autoload
}

// ReplaceConfiguration swaps autoload, aliases and services together.
// Autoload keeps its current value when cfg.Autoload is nil; nil maps become
// empty.
func (c *Container) ReplaceConfiguration(cfg Configuration) {
	services := make(map[string]Definition, len(cfg.Services))
	for name, def := range cfg.Services {
		services[name] = def
	}

	aliases := make(map[string]string, len(cfg.Aliases))
	for alias, name := range cfg.Aliases {
		aliases[alias] = name
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cfg.Autoload != nil {
		c.autoload = *cfg.Autoload
	}

	c.services = services
	c.aliases = aliases
}

// Use adds middleware to the container.
// Middleware is called in the order they are added.
func (c *Container) Use(middleware Middleware) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.middleware = c.middleware.with(middleware)
}

// Services returns all explicitly configured service names, sorted.
func (c *Container) Services() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.services))
	for name := range c.services {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// canonical resolves an alias to its canonical name (must hold mu).
func (c *Container) canonical(name string) string {
	if target, ok := c.aliases[name]; ok {
		return target
	}

	return name
}

// cached returns the cached instance of a canonical name.
func (c *Container) cached(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	instance, ok := c.loaded[name]

	return instance, ok
}

// store caches instance unless another resolution stored one first, in which
// case that one is returned.
func (c *Container) store(name string, instance any) any {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.loaded[name]; ok {
		return existing
	}

	c.loaded[name] = instance

	return instance
}

// lookup returns the definition of a canonical name and the autoload flag.
func (c *Container) lookup(name string) (Definition, bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	def, ok := c.services[name]

	return def, ok, c.autoload
}
