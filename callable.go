package depot

import (
	"fmt"
	"math"
	"reflect"
)

// funcFor turns a Callable into a callable function value.
func funcFor(c Callable, targets TargetSource) (reflect.Value, error) {
	if c.IsZero() {
		return reflect.Value{}, ErrWrongConfiguration("factory cannot be empty")
	}

	target := c.Target
	if name, ok := target.(string); ok {
		if targets == nil {
			return reflect.Value{}, ErrWrongConfiguration(fmt.Sprintf("factory target %q cannot be looked up", name))
		}

		found, ok := targets.Target(name)
		if !ok {
			return reflect.Value{}, ErrWrongConfiguration(fmt.Sprintf("factory target %q is not registered", name))
		}

		target = found
	}

	if target == nil {
		return reflect.Value{}, ErrWrongConfiguration(fmt.Sprintf("factory %s has no target", c))
	}

	fn := reflect.ValueOf(target)
	if c.Method != "" {
		fn = fn.MethodByName(c.Method)
		if !fn.IsValid() {
			return reflect.Value{}, ErrWrongConfiguration(fmt.Sprintf("factory %s: method not found", c))
		}
	}

	if fn.Kind() != reflect.Func {
		return reflect.Value{}, ErrWrongConfiguration(fmt.Sprintf("factory must be a function, got %T", target))
	}

	fnType := fn.Type()
	if fnType.NumOut() < 1 || fnType.NumOut() > 2 || (fnType.NumOut() == 2 && fnType.Out(1) != errorType) {
		return reflect.Value{}, ErrWrongConfiguration(fmt.Sprintf("factory %s must return (T) or (T, error)", c))
	}

	return fn, nil
}

// callFactory calls fn with the resolved arguments.
func callFactory(name string, fn reflect.Value, args []any) (any, error) {
	fnType := fn.Type()

	var (
		in  []reflect.Value
		err error
	)

	if fnType.IsVariadic() {
		in, err = variadicArguments(name, fnType, fnType.NumIn()-1, args)
	} else {
		in, err = fixedArguments(name, fnType, args)
	}

	if err != nil {
		return nil, err
	}

	var results []reflect.Value
	if fnType.IsVariadic() {
		results = fn.CallSlice(in)
	} else {
		results = fn.Call(in)
	}

	// Handle return values
	if fnType.NumOut() == 2 && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}

	return results[0].Interface(), nil
}

func fixedArguments(name string, fnType reflect.Type, args []any) ([]reflect.Value, error) {
	if fnType.NumIn() != len(args) {
		return nil, ErrInvalidParameters(fmt.Sprintf("%s expects %d arguments, got %d", name, fnType.NumIn(), len(args)))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		v, err := argumentValue(name, i, fnType.In(i), arg)
		if err != nil {
			return nil, err
		}

		in[i] = v
	}

	return in, nil
}

// variadicArguments packs args for CallSlice: the first fixed arguments are
// positional, the rest fill the variadic slice.
func variadicArguments(name string, fnType reflect.Type, required int, args []any) ([]reflect.Value, error) {
	fixed := fnType.NumIn() - 1
	if len(args) < required {
		return nil, ErrInvalidParameters(fmt.Sprintf("%s requires %d arguments, got %d", name, required, len(args)))
	}

	in := make([]reflect.Value, fnType.NumIn())
	for i := 0; i < fixed; i++ {
		var arg any
		if i < len(args) {
			arg = args[i]
		}

		v, err := argumentValue(name, i, fnType.In(i), arg)
		if err != nil {
			return nil, err
		}

		in[i] = v
	}

	sliceType := fnType.In(fixed)
	rest := reflect.MakeSlice(sliceType, 0, 0)

	for i := fixed; i < len(args); i++ {
		v, err := argumentValue(name, i, sliceType.Elem(), args[i])
		if err != nil {
			return nil, err
		}

		rest = reflect.Append(rest, v)
	}

	in[fixed] = rest

	return in, nil
}

// argumentValue converts arg for a parameter of paramType. nil becomes the
// zero value of nillable types.
func argumentValue(name string, index int, paramType reflect.Type, arg any) (reflect.Value, error) {
	if arg == nil {
		switch paramType.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(paramType), nil
		default:
			return reflect.Value{}, ErrInvalidParameters(fmt.Sprintf("%s argument %d: nil is not a valid %s", name, index, paramType))
		}
	}

	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(paramType) {
		return v, nil
	}

	if converted, ok := convertNumber(v, paramType); ok {
		return converted, nil
	}

	return reflect.Value{}, ErrInvalidParameters(fmt.Sprintf("%s argument %d: %v (%s) is not assignable to %s", name, index, arg, v.Type(), paramType))
}

// convertNumber converts between numeric kinds when the value survives
// unchanged. Decoded documents deliver integers as int and floats as
// float64.
func convertNumber(v reflect.Value, to reflect.Type) (reflect.Value, bool) {
	out := reflect.New(to).Elem()

	switch {
	case v.CanInt():
		return out, setInt(out, v.Int())
	case v.CanUint():
		u := v.Uint()
		if u > math.MaxInt64 {
			if !out.CanUint() || out.OverflowUint(u) {
				return out, false
			}

			out.SetUint(u)

			return out, true
		}

		return out, setInt(out, int64(u))
	case v.CanFloat():
		return out, setFloat(out, v.Float())
	default:
		return out, false
	}
}

func setInt(out reflect.Value, n int64) bool {
	switch {
	case out.CanInt():
		if out.OverflowInt(n) {
			return false
		}

		out.SetInt(n)
	case out.CanUint():
		if n < 0 || out.OverflowUint(uint64(n)) {
			return false
		}

		out.SetUint(uint64(n))
	case out.CanFloat():
		limit := int64(1) << 53
		if out.Kind() == reflect.Float32 {
			limit = 1 << 24
		}

		if n > limit || n < -limit {
			return false
		}

		out.SetFloat(float64(n))
	default:
		return false
	}

	return true
}

func setFloat(out reflect.Value, f float64) bool {
	if out.CanFloat() {
		if out.Kind() == reflect.Float32 && float64(float32(f)) != f && !math.IsNaN(f) {
			return false
		}

		out.SetFloat(f)

		return true
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return false
	}

	// 2^63 is exact in float64; anything at or past it overflows int64
	if f >= -(1<<63) && f < 1<<63 {
		return setInt(out, int64(f))
	}

	if f >= 0 && f < 1<<64 && out.CanUint() && !out.OverflowUint(uint64(f)) {
		out.SetUint(uint64(f))

		return true
	}

	return false
}
