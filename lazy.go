package depot

import (
	"fmt"
	"sync"
)

// Lazy wraps a dependency that is resolved on first access.
// This is useful for breaking circular dependencies or deferring
// resolution of expensive services until they're actually needed.
type Lazy[T any] struct {
	resolver Resolver
	name     string
	mu       sync.Once
	value    T
	err      error
	resolved bool
}

// NewLazy creates a new lazy dependency wrapper.
func NewLazy[T any](r Resolver, name string) *Lazy[T] {
	return &Lazy[T]{
		resolver: detach(r),
		name:     name,
	}
}

// detach returns a resolver that outlives the resolution r belongs to.
// Every call on it starts a new resolution.
func detach(r Resolver) Resolver {
	if res, ok := r.(*resolution); ok {
		return res.c
	}

	return r
}

// LazyClosure defines a closure service that builds a Lazy[T] for
// dependency. Two services that need each other can break the cycle by
// depending on each other lazily.
func LazyClosure[T any](dependency string) ClosureSpec {
	return ClosureSpec{Closure: func(r Resolver, _ string) (any, error) {
		return NewLazy[T](r, dependency), nil
	}}
}

// Get resolves the dependency and returns it.
// The resolution happens only once; subsequent calls return the cached value.
func (l *Lazy[T]) Get() (T, error) {
	l.mu.Do(func() {
		l.value, l.err = Get[T](l.resolver, l.name)
		l.resolved = l.err == nil
	})

	return l.value, l.err
}

// MustGet resolves the dependency and returns it, panicking on error.
func (l *Lazy[T]) MustGet() T {
	value, err := l.Get()
	if err != nil {
		panic(fmt.Sprintf("lazy dependency %s failed: %v", l.name, err))
	}

	return value
}

// IsResolved returns true if the dependency has been resolved.
func (l *Lazy[T]) IsResolved() bool {
	return l.resolved
}

// Name returns the name of the dependency.
func (l *Lazy[T]) Name() string {
	return l.name
}

// OptionalLazy wraps an optional dependency that is resolved on first access.
// Returns the zero value without error if the dependency is not known.
type OptionalLazy[T any] struct {
	resolver Resolver
	name     string
	mu       sync.Once
	value    T
	err      error
	found    bool
}

// NewOptionalLazy creates a new optional lazy dependency wrapper.
func NewOptionalLazy[T any](r Resolver, name string) *OptionalLazy[T] {
	return &OptionalLazy[T]{
		resolver: detach(r),
		name:     name,
	}
}

// Get resolves the dependency and returns it.
func (l *OptionalLazy[T]) Get() (T, error) {
	l.mu.Do(func() {
		if !l.resolver.Has(l.name) {
			return
		}

		l.value, l.err = Get[T](l.resolver, l.name)
		l.found = l.err == nil
	})

	return l.value, l.err
}

// IsFound returns true if the dependency was found (only valid after Get).
func (l *OptionalLazy[T]) IsFound() bool {
	return l.found
}

// Name returns the name of the dependency.
func (l *OptionalLazy[T]) Name() string {
	return l.name
}

// Provider builds a fresh instance of a dependency on every call.
type Provider[T any] struct {
	resolver Resolver
	name     string
}

// NewProvider creates a new provider.
func NewProvider[T any](r Resolver, name string) *Provider[T] {
	return &Provider[T]{
		resolver: detach(r),
		name:     name,
	}
}

// Provide builds and returns a new instance of the dependency.
func (p *Provider[T]) Provide() (T, error) {
	return GetNew[T](p.resolver, p.name)
}

// MustProvide builds a new instance, panicking on error.
func (p *Provider[T]) MustProvide() T {
	value, err := p.Provide()
	if err != nil {
		panic(fmt.Sprintf("provider %s failed: %v", p.name, err))
	}

	return value
}

// Name returns the name of the dependency.
func (p *Provider[T]) Name() string {
	return p.name
}
