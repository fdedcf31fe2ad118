package depot

import (
	"fmt"
	"reflect"
	"sync"
)

// ParamDescriptor describes one formal constructor parameter.
type ParamDescriptor struct {
	Name string
	// Type is the service name of the parameter's class type, empty when the
	// parameter is not class-typed.
	Type     string
	Optional bool
}

// Introspector answers questions about constructible types.
type Introspector interface {
	// HasType reports whether name is a constructible type.
	HasType(name string) bool

	// DescribeConstructor returns the ordered constructor parameters of name.
	// Types without a constructor return an empty list.
	DescribeConstructor(name string) ([]ParamDescriptor, error)
}

// Instantiator constructs a named type from positional arguments.
type Instantiator interface {
	// Instantiate returns an error carrying CodeInvalidParameters when args do
	// not satisfy the constructor.
	Instantiate(name string, args []any) (any, error)
}

// TypeSource is the collaborator the container autoloads and instantiates
// classes through.
type TypeSource interface {
	Introspector
	Instantiator
}

// TargetSource resolves named factory targets referenced by string.
type TargetSource interface {
	Target(name string) (any, bool)
}

var (
	errorType = reflect.TypeOf((*error)(nil)).Elem()
)

// TypeOption configures a type table registration.
type TypeOption func(*typeConfig)

type typeConfig struct {
	name       string
	paramNames []string
	defaults   []any
}

// WithTypeName registers the type under name instead of TypeName of its result.
func WithTypeName(name string) TypeOption {
	return func(c *typeConfig) {
		c.name = name
	}
}

// WithParamNames names constructor parameters for diagnostics.
func WithParamNames(names ...string) TypeOption {
	return func(c *typeConfig) {
		c.paramNames = names
	}
}

// WithDefaults marks the trailing len(values) constructor parameters as
// optional, filled with values when no argument is given.
func WithDefaults(values ...any) TypeOption {
	return func(c *typeConfig) {
		c.defaults = values
	}
}

// typeEntry holds analyzed constructor metadata
type typeEntry struct {
	name       string
	fn         reflect.Value // invalid for types without a constructor
	fnType     reflect.Type
	result     reflect.Type
	hasError   bool
	paramNames []string
	defaults   []any
}

// TypeTable is a reflect-based TypeSource. Types are registered through
// their constructor functions.
type TypeTable struct {
	types   map[string]*typeEntry
	names   map[reflect.Type]string
	targets map[string]any
	mu      sync.RWMutex
}

// NewTypeTable creates an empty type table.
func NewTypeTable() *TypeTable {
	return &TypeTable{
		types:   make(map[string]*typeEntry),
		names:   make(map[reflect.Type]string),
		targets: make(map[string]any),
	}
}

// Register adds a constructor. The constructor must return T or (T, error).
// The returned name is the one the type is known by.
func (t *TypeTable) Register(constructor any, opts ...TypeOption) (string, error) {
	cfg := &typeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	entry, err := analyzeConstructor(constructor)
	if err != nil {
		return "", err
	}

	numIn := entry.fnType.NumIn()
	if entry.fnType.IsVariadic() && len(cfg.defaults) > 0 {
		return "", ErrInvalidType("defaults cannot be combined with a variadic constructor")
	}

	if len(cfg.defaults) > numIn {
		return "", ErrInvalidType(fmt.Sprintf("%d defaults for %d parameters", len(cfg.defaults), numIn))
	}

	for i, d := range cfg.defaults {
		if d == nil {
			continue
		}

		paramType := entry.fnType.In(numIn - len(cfg.defaults) + i)
		if !reflect.TypeOf(d).AssignableTo(paramType) {
			return "", ErrInvalidType(fmt.Sprintf("default %T is not assignable to %s", d, paramType))
		}
	}

	entry.paramNames = cfg.paramNames
	entry.defaults = cfg.defaults
	entry.name = cfg.name

	if entry.name == "" {
		entry.name = TypeNameOf(entry.result)
	}

	t.add(entry)

	return entry.name, nil
}

// RegisterType adds T as a type without a constructor: instances are new(T).
func RegisterType[T any](t *TypeTable, opts ...TypeOption) (string, error) {
	cfg := &typeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	result := reflect.TypeOf((*T)(nil))
	entry := &typeEntry{
		name:   cfg.name,
		result: result,
	}

	if entry.name == "" {
		entry.name = TypeNameOf(result)
	}

	t.add(entry)

	return entry.name, nil
}

func (t *TypeTable) add(entry *typeEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.types[entry.name] = entry
	t.names[entry.result] = entry.name
}

// RegisterTarget makes target reachable from factory callables whose Target is name.
func (t *TypeTable) RegisterTarget(name string, target any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.targets[name] = target
}

// Target implements TargetSource.
func (t *TypeTable) Target(name string) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	target, ok := t.targets[name]

	return target, ok
}

// HasType implements Introspector.
func (t *TypeTable) HasType(name string) bool {
	_, ok := t.get(name)

	return ok
}

// Types returns the registered type names.
func (t *TypeTable) Types() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.types))
	for name := range t.types {
		names = append(names, name)
	}

	return names
}

func (t *TypeTable) get(name string) (*typeEntry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entry, ok := t.types[name]

	return entry, ok
}

// DescribeConstructor implements Introspector.
func (t *TypeTable) DescribeConstructor(name string) ([]ParamDescriptor, error) {
	entry, ok := t.get(name)
	if !ok {
		return nil, ErrWrongConfiguration(fmt.Sprintf("class %q is not registered", name))
	}

	if !entry.fn.IsValid() {
		return []ParamDescriptor{}, nil
	}

	numIn := entry.fnType.NumIn()
	firstOptional := numIn - len(entry.defaults)
	if entry.fnType.IsVariadic() {
		firstOptional = numIn - 1
	}

	params := make([]ParamDescriptor, numIn)
	for i := 0; i < numIn; i++ {
		paramType := entry.fnType.In(i)

		params[i] = ParamDescriptor{
			Name:     entry.paramName(i),
			Optional: i >= firstOptional,
		}

		if isClassType(paramType) {
			params[i].Type = t.serviceName(paramType)
		}
	}

	return params, nil
}

// Instantiate implements Instantiator.
func (t *TypeTable) Instantiate(name string, args []any) (any, error) {
	entry, ok := t.get(name)
	if !ok {
		return nil, ErrWrongConfiguration(fmt.Sprintf("class %q is not registered", name))
	}

	if !entry.fn.IsValid() {
		if len(args) > 0 {
			return nil, ErrInvalidParameters(fmt.Sprintf("%s takes no arguments, got %d", name, len(args)))
		}

		return reflect.New(entry.result.Elem()).Interface(), nil
	}

	in, err := entry.arguments(args)
	if err != nil {
		return nil, err
	}

	return entry.call(in)
}

// serviceName maps a class-typed parameter to the name it is resolved by.
func (t *TypeTable) serviceName(typ reflect.Type) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if name, ok := t.names[typ]; ok {
		return name
	}

	return TypeNameOf(typ)
}

func (e *typeEntry) paramName(i int) string {
	if i < len(e.paramNames) && e.paramNames[i] != "" {
		return e.paramNames[i]
	}

	return fmt.Sprintf("arg%d", i)
}

// arguments converts positional args into call values, filling defaults for
// omitted trailing optional parameters.
func (e *typeEntry) arguments(args []any) ([]reflect.Value, error) {
	fnType := e.fnType
	numIn := fnType.NumIn()
	required := numIn - len(e.defaults)

	if fnType.IsVariadic() {
		return variadicArguments(e.name, fnType, numIn-1, args)
	}

	if len(args) > numIn {
		return nil, ErrInvalidParameters(fmt.Sprintf("%s takes %d arguments, got %d", e.name, numIn, len(args)))
	}

	if len(args) < required {
		return nil, ErrInvalidParameters(fmt.Sprintf("%s requires %d arguments, got %d", e.name, required, len(args)))
	}

	in := make([]reflect.Value, numIn)
	for i := 0; i < numIn; i++ {
		paramType := fnType.In(i)

		var arg any
		if i < len(args) {
			arg = args[i]
		} else {
			arg = e.defaults[i-required]
		}

		v, err := argumentValue(e.name, i, paramType, arg)
		if err != nil {
			return nil, err
		}

		in[i] = v
	}

	return in, nil
}

func (e *typeEntry) call(in []reflect.Value) (any, error) {
	var results []reflect.Value
	if e.fnType.IsVariadic() {
		results = e.fn.CallSlice(in)
	} else {
		results = e.fn.Call(in)
	}

	if e.hasError && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}

	return results[0].Interface(), nil
}

// analyzeConstructor inspects a constructor function.
func analyzeConstructor(constructor any) (*typeEntry, error) {
	if constructor == nil {
		return nil, ErrInvalidType("constructor cannot be nil")
	}

	fnValue := reflect.ValueOf(constructor)
	fnType := fnValue.Type()

	if fnType.Kind() != reflect.Func {
		return nil, ErrInvalidType(fmt.Sprintf("constructor must be a function, got %T", constructor))
	}

	entry := &typeEntry{
		fn:     fnValue,
		fnType: fnType,
	}

	switch fnType.NumOut() {
	case 1:
		if fnType.Out(0) == errorType {
			return nil, ErrInvalidType("constructor must return at least one non-error value")
		}
	case 2:
		if fnType.Out(1) != errorType {
			return nil, ErrInvalidType("error must be the last return value")
		}

		entry.hasError = true
	default:
		return nil, ErrInvalidType(fmt.Sprintf("constructor must return (T) or (T, error), got %d values", fnType.NumOut()))
	}

	entry.result = fnType.Out(0)

	return entry, nil
}

// isClassType reports whether typ behaves like a class typehint: pointers to
// structs and non-empty interfaces.
func isClassType(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Ptr:
		return typ.Elem().Kind() == reflect.Struct
	case reflect.Interface:
		return typ.NumMethod() > 0
	default:
		return false
	}
}

// TypeName returns the package-qualified type name of v, the default name
// types are registered and autowired under.
//
//	depot.TypeName((*Mailer)(nil)) // "github.com/acme/app.Mailer"
func TypeName(v any) string {
	return TypeNameOf(reflect.TypeOf(v))
}

// TypeNameOf is TypeName for a reflect.Type. Pointers name their element;
// pointers to interfaces name the interface.
func TypeNameOf(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Name() == "" {
		return t.String()
	}

	if t.PkgPath() == "" {
		return t.Name()
	}

	return t.PkgPath() + "." + t.Name()
}
