package depot

import (
	"fmt"
	"reflect"
)

// Get resolves name with type safety.
func Get[T any](r Resolver, name string) (T, error) {
	var zero T

	instance, err := r.Get(name)
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, ErrTypeMismatch(name, zero, instance)
	}

	return typed, nil
}

// GetNew builds a fresh instance of name with type safety.
func GetNew[T any](r Resolver, name string) (T, error) {
	var zero T

	instance, err := r.GetNew(name)
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, ErrTypeMismatch(name, zero, instance)
	}

	return typed, nil
}

// Must resolves or panics - use only during startup.
func Must[T any](r Resolver, name string) T {
	instance, err := Get[T](r, name)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", name, err))
	}

	return instance
}

// GetType resolves the service named after T, the name autowiring uses for
// parameters of type T.
//
//	mailer, err := depot.GetType[*Mailer](c)
func GetType[T any](r Resolver) (T, error) {
	return Get[T](r, TypeNameOf(reflect.TypeOf((*T)(nil)).Elem()))
}
