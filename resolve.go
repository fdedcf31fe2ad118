package depot

import (
	"context"
	"fmt"

	"github.com/xraph/go-utils/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// resolution is one call chain through the container. path holds the
// canonical names being loaded, outermost first.
type resolution struct {
	c          *Container
	ctx        context.Context
	path       []string
	types      TypeSource
	middleware *middlewareChain
}

var _ Resolver = (*resolution)(nil)

func (c *Container) newResolution(ctx context.Context) *resolution {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return &resolution{
		c:          c,
		ctx:        ctx,
		types:      c.types,
		middleware: c.middleware,
	}
}

// Get implements Resolver.
func (r *resolution) Get(name string) (any, error) {
	return r.get(name, true)
}

// GetNew implements Resolver.
func (r *resolution) GetNew(name string) (any, error) {
	return r.get(name, false)
}

// Has implements Resolver.
func (r *resolution) Has(name string) bool {
	return r.c.Has(name)
}

func (r *resolution) get(name string, cached bool) (any, error) {
	r.c.mu.RLock()
	realName := r.c.canonical(name)
	r.c.mu.RUnlock()

	// Call middleware before resolve
	if err := r.middleware.beforeResolve(r.ctx, realName); err != nil {
		return nil, aborted(realName, err)
	}

	service, err := r.resolve(realName, cached)

	// Call middleware after resolve
	if mwErr := r.middleware.afterResolve(r.ctx, realName, service, err); mwErr != nil {
		return nil, aborted(realName, mwErr)
	}

	return service, err
}

// aborted wraps a middleware error so it names the service.
func aborted(name string, err error) error {
	if hasCode(err, CodeLoadService) {
		return err
	}

	return ErrLoadService(name, fmt.Sprintf("resolution of service %q aborted", name), err)
}

func (r *resolution) resolve(name string, cached bool) (any, error) {
	if cached {
		if instance, ok := r.c.cached(name); ok {
			return instance, nil
		}
	}

	for _, loading := range r.path {
		if loading == name {
			cycle := append(append([]string{}, r.path...), name)

			return nil, ErrLoadService(name,
				fmt.Sprintf("circular dependency for service %q", name),
				ErrCircularDependency(cycle))
		}
	}

	instance, err := r.loadService(name)
	if err != nil {
		return nil, err
	}

	if cached {
		instance = r.c.store(name, instance)
	}

	return instance, nil
}

// loadService builds name from its definition, or autoloads it as a type.
func (r *resolution) loadService(name string) (instance any, err error) {
	ctx := r.ctx
	if r.c.tracer != nil {
		var span trace.Span

		ctx, span = r.c.tracer.Start(ctx, "depot.load",
			trace.WithAttributes(attribute.String("depot.service", name)))

		defer func() {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}

			span.End()
		}()
	}

	child := r.enter(ctx, name)
	def, exists, autoload := r.c.lookup(name)

	switch {
	case exists:
		r.c.logger.Debug("loading service",
			log.String("service", name),
			log.String("kind", string(kindOf(def))))

		return child.loadFromDefinition(name, def)
	case autoload && r.types.HasType(name):
		r.c.logger.Debug("autoloading service", log.String("service", name))

		return child.autoloadClass(name)
	default:
		return nil, ErrLoadService(name, fmt.Sprintf("unknown service %q", name), ErrServiceNotFound(name))
	}
}

// enter returns the resolution used for the dependencies of name.
func (r *resolution) enter(ctx context.Context, name string) *resolution {
	path := make([]string, len(r.path), len(r.path)+1)
	copy(path, r.path)

	return &resolution{
		c:          r.c,
		ctx:        ctx,
		path:       append(path, name),
		types:      r.types,
		middleware: r.middleware,
	}
}

// autoloadClass builds an unconfigured type. Its constructor parameters are
// always derived, whatever autowire would say.
func (r *resolution) autoloadClass(className string) (any, error) {
	return r.loadFromDefinition(className, ClassSpec{Class: className, Autowire: true})
}

// loadFromDefinition interprets def. A wrong configuration detected here is
// reported as a load error naming this service.
func (r *resolution) loadFromDefinition(name string, def Definition) (any, error) {
	instance, err := r.interpret(name, def)
	if err != nil && hasCode(err, CodeWrongConfiguration) {
		return nil, ErrLoadService(name, fmt.Sprintf("wrong configuration for service %q", name), err)
	}

	return instance, err
}

func (r *resolution) interpret(name string, def Definition) (any, error) {
	if err := validateDefinition(name, def); err != nil {
		return nil, err
	}

	switch spec := concreteDefinition(def).(type) {
	case ClassSpec:
		return r.loadClass(name, spec)
	case FactorySpec:
		return r.loadFactory(name, spec)
	case ClosureSpec:
		return r.loadClosure(name, spec)
	default:
		return nil, ErrWrongConfiguration(fmt.Sprintf("unknown type of service %q", name))
	}
}

func (r *resolution) loadClass(name string, spec ClassSpec) (any, error) {
	params := spec.Parameters
	if len(params) == 0 && spec.Autowire {
		var err error

		params, err = r.constructorParameters(name, spec.Class)
		if err != nil {
			return nil, err
		}
	}

	args, err := r.loadParameters(params)
	if err != nil {
		return nil, err
	}

	instance, err := r.types.Instantiate(spec.Class, args)
	if err != nil {
		return nil, r.callFailed(name, "constructor", err)
	}

	return instance, nil
}

func (r *resolution) loadFactory(name string, spec FactorySpec) (any, error) {
	var targets TargetSource
	if ts, ok := r.types.(TargetSource); ok {
		targets = ts
	}

	fn, err := funcFor(spec.Factory, targets)
	if err != nil {
		return nil, err
	}

	args, err := r.loadParameters(spec.Parameters)
	if err != nil {
		return nil, err
	}

	instance, err := callFactory(spec.Factory.String(), fn, args)
	if err != nil {
		return nil, r.callFailed(name, "factory", err)
	}

	return instance, nil
}

func (r *resolution) loadClosure(name string, spec ClosureSpec) (any, error) {
	instance, err := spec.Closure(r, name)
	if err != nil {
		return nil, r.callFailed(name, "closure", err)
	}

	return instance, nil
}

// callFailed maps an error out of a constructor, factory or closure.
// Errors that already name a service pass through unchanged.
func (r *resolution) callFailed(name, what string, err error) error {
	switch {
	case hasCode(err, CodeLoadService), hasCode(err, CodeWrongConfiguration):
		return err
	case hasCode(err, CodeInvalidParameters):
		return ErrLoadService(name, fmt.Sprintf("wrong parameters for service %q", name), err)
	default:
		return ErrLoadService(name, fmt.Sprintf("%s of service %q failed", what, name), err)
	}
}

// loadParameters resolves parameters into positional arguments.
func (r *resolution) loadParameters(params []Parameter) ([]any, error) {
	if err := validateParameters(params); err != nil {
		return nil, err
	}

	args := make([]any, 0, len(params))

	for _, p := range params {
		if p.Type == ParamValue {
			args = append(args, p.Value)

			continue
		}

		service, err := r.Get(p.Value.(string))
		if err != nil {
			return nil, err
		}

		args = append(args, service)
	}

	return args, nil
}

// constructorParameters derives service parameters from the constructor of
// className. Derivation stops at the first optional parameter without a
// class type.
func (r *resolution) constructorParameters(name, className string) ([]Parameter, error) {
	descriptors, err := r.types.DescribeConstructor(className)
	if err != nil {
		return nil, err
	}

	params := make([]Parameter, 0, len(descriptors))

	for _, d := range descriptors {
		if d.Type != "" {
			params = append(params, Service(d.Type))

			continue
		}

		if d.Optional {
			break
		}

		return nil, ErrLoadService(name,
			fmt.Sprintf("can't autoload %q service because constructor parameter %q is required but typehint is not a class name", className, d.Name),
			ErrAutowire(className, d.Name))
	}

	return params, nil
}
