package depot

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Kind names the strategy a Definition uses to build its service.
type Kind string

const (
	KindClass    Kind = "class"
	KindFactory  Kind = "factory"
	KindClosure  Kind = "closure"
	KindAutoload Kind = "autoload"
	KindInstance Kind = "instance"
	KindInvalid  Kind = "invalid"
)

// Parameter type tags.
const (
	ParamValue   = "value"
	ParamService = "service"
)

// Definition is the configuration of one service. It is one of ClassSpec,
// FactorySpec or ClosureSpec.
type Definition interface {
	Kind() Kind
}

// Parameter is a single constructor or factory argument. Value parameters are
// passed through as-is; service parameters name another service to resolve.
type Parameter struct {
	Type  string `yaml:"type"`
	Value any    `yaml:"value"`
}

// Value creates a parameter passed through verbatim.
func Value(v any) Parameter {
	return Parameter{Type: ParamValue, Value: v}
}

// Service creates a parameter resolved through the container.
func Service(name string) Parameter {
	return Parameter{Type: ParamService, Value: name}
}

// ClassSpec builds a registered type with explicit or autowired arguments.
type ClassSpec struct {
	Class      string
	Parameters []Parameter
	Autowire   bool
}

// Kind implements Definition.
func (ClassSpec) Kind() Kind { return KindClass }

// FactorySpec builds a service by calling a function or a method.
type FactorySpec struct {
	Factory    Callable
	Parameters []Parameter
}

// Kind implements Definition.
func (FactorySpec) Kind() Kind { return KindFactory }

// ClosureSpec builds a service with a closure that receives the resolver and
// the requested canonical name.
type ClosureSpec struct {
	Closure Closure
}

// Kind implements Definition.
func (ClosureSpec) Kind() Kind { return KindClosure }

// Closure produces a service. r resolves further dependencies within the
// same resolution.
type Closure func(r Resolver, name string) (any, error)

// Callable references a factory: either a function (Method empty) or a
// method on Target. A string Target names an object registered with a
// TargetSource.
type Callable struct {
	Target any
	Method string
}

// Func creates a Callable for a plain function.
func Func(fn any) Callable {
	return Callable{Target: fn}
}

// Method creates a Callable for a method on target.
func Method(target any, method string) Callable {
	return Callable{Target: target, Method: method}
}

// IsZero reports whether the callable references nothing.
func (c Callable) IsZero() bool {
	return c.Target == nil && c.Method == ""
}

// String describes the callable for diagnostics.
func (c Callable) String() string {
	target := fmt.Sprintf("%v", c.Target)
	if c.Target != nil && reflect.TypeOf(c.Target).Kind() != reflect.String {
		target = fmt.Sprintf("%T", c.Target)
	}

	if c.Method == "" {
		return target
	}

	return target + "." + c.Method
}

// invalidSpec is a definition carrying none of class, factory or closure.
// It is produced by decoding documents with unrecognized keys and always
// fails when interpreted.
type invalidSpec struct {
	keys []string
}

func (invalidSpec) Kind() Kind { return KindInvalid }

func newInvalidSpec(keys map[string]bool) invalidSpec {
	spec := invalidSpec{}
	for k := range keys {
		spec.keys = append(spec.keys, k)
	}
	sort.Strings(spec.keys)

	return spec
}

func (s invalidSpec) String() string {
	return "{" + strings.Join(s.keys, ", ") + "}"
}

// kindOf reports the kind of def, treating nil and nil pointers as invalid.
func kindOf(def Definition) Kind {
	switch d := def.(type) {
	case nil:
		return KindInvalid
	case *ClassSpec:
		if d == nil {
			return KindInvalid
		}
	case *FactorySpec:
		if d == nil {
			return KindInvalid
		}
	case *ClosureSpec:
		if d == nil {
			return KindInvalid
		}
	}

	return def.Kind()
}

// concreteDefinition dereferences pointer variants. Nil pointers become nil.
func concreteDefinition(def Definition) Definition {
	switch d := def.(type) {
	case *ClassSpec:
		if d != nil {
			return *d
		}
	case *FactorySpec:
		if d != nil {
			return *d
		}
	case *ClosureSpec:
		if d != nil {
			return *d
		}
	default:
		return def
	}

	return nil
}

// validateDefinition reports what makes def unusable as service name,
// without resolving anything.
func validateDefinition(name string, def Definition) error {
	switch spec := concreteDefinition(def).(type) {
	case ClassSpec:
		if spec.Class == "" {
			return ErrWrongConfiguration(fmt.Sprintf("unknown type of service %q", name))
		}

		return validateParameters(spec.Parameters)
	case FactorySpec:
		if spec.Factory.IsZero() {
			return ErrWrongConfiguration("factory cannot be empty")
		}

		return validateParameters(spec.Parameters)
	case ClosureSpec:
		if spec.Closure == nil {
			return ErrWrongConfiguration(fmt.Sprintf("closure of service %q is nil", name))
		}

		return nil
	default:
		return ErrWrongConfiguration(fmt.Sprintf("unknown type of service %q", name))
	}
}

func validateParameters(params []Parameter) error {
	for i, p := range params {
		switch p.Type {
		case ParamValue:
		case ParamService:
			if ref, ok := p.Value.(string); !ok || ref == "" {
				return ErrWrongConfiguration(fmt.Sprintf("wrong parameter(%d) format: service name must be a string", i))
			}
		default:
			return ErrWrongConfiguration(fmt.Sprintf("wrong parameter(%d) format: unknown type %q", i, p.Type))
		}
	}

	return nil
}

// serviceRefs returns the service names referenced by explicit parameters.
func serviceRefs(params []Parameter) []string {
	var refs []string

	for _, p := range params {
		if p.Type != ParamService {
			continue
		}

		if name, ok := p.Value.(string); ok {
			refs = append(refs, name)
		}
	}

	return refs
}
