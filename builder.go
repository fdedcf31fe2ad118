package depot

// Builder accumulates a single service definition.
//
//	def := depot.DefineClass("mailer").
//	    ServiceParam("transport").
//	    ValueParam("noreply@example.com").
//	    Build()
//
// A Builder is not safe for concurrent use. Build resets it, so one Builder
// can author any number of definitions in sequence.
type Builder struct {
	kind     Kind
	class    string
	factory  Callable
	closure  Closure
	autowire bool
	params   []Parameter
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// DefineClass starts a class definition on a new builder.
func DefineClass(className string) *Builder {
	return NewBuilder().Class(className)
}

// DefineFactory starts a factory definition on a new builder.
func DefineFactory(factory Callable) *Builder {
	return NewBuilder().Factory(factory)
}

// DefineClosure starts a closure definition on a new builder.
func DefineClosure(closure Closure) *Builder {
	return NewBuilder().Closure(closure)
}

// Class restarts the builder with a class definition.
func (b *Builder) Class(className string) *Builder {
	b.reset()
	b.kind = KindClass
	b.class = className
	return b
}

// Factory restarts the builder with a factory definition.
func (b *Builder) Factory(factory Callable) *Builder {
	b.reset()
	b.kind = KindFactory
	b.factory = factory
	return b
}

// Closure restarts the builder with a closure definition.
func (b *Builder) Closure(closure Closure) *Builder {
	b.reset()
	b.kind = KindClosure
	b.closure = closure
	return b
}

// Autowire sets whether constructor parameters are derived when none are
// given. Only class definitions use it.
func (b *Builder) Autowire(autowire bool) *Builder {
	b.autowire = autowire
	return b
}

// ServiceParam appends a parameter resolved as the named service.
func (b *Builder) ServiceParam(name string) *Builder {
	b.params = append(b.params, Service(name))
	return b
}

// ValueParam appends a parameter passed as is.
func (b *Builder) ValueParam(value any) *Builder {
	b.params = append(b.params, Value(value))
	return b
}

// Build returns the accumulated definition and resets the builder. Building
// without starting a definition returns nil.
func (b *Builder) Build() Definition {
	defer b.reset()

	switch b.kind {
	case KindClass:
		return ClassSpec{Class: b.class, Parameters: b.params, Autowire: b.autowire}
	case KindFactory:
		return FactorySpec{Factory: b.factory, Parameters: b.params}
	case KindClosure:
		return ClosureSpec{Closure: b.closure}
	default:
		return nil
	}
}

func (b *Builder) reset() {
	*b = Builder{}
}
