package depot

// ServiceKey provides type-safe service identification.
// Use NewServiceKey to create typed keys for your services.
type ServiceKey[T any] struct {
	name string
}

// NewServiceKey creates a new typed service key.
// The type parameter T ensures type safety when defining and resolving services.
//
// Example:
//
//	var DatabaseKey = NewServiceKey[*Database]("database")
//	var UserServiceKey = NewServiceKey[*UserService]("userService")
func NewServiceKey[T any](name string) ServiceKey[T] {
	return ServiceKey[T]{name: name}
}

// Name returns the string name of the service key.
func (k ServiceKey[T]) Name() string {
	return k.name
}

// SetWithKey defines a service using a typed service key.
//
// Example:
//
//	var DatabaseKey = NewServiceKey[*Database]("database")
//	SetWithKey(c, DatabaseKey, depot.ClassSpec{Class: "database", Autowire: true})
func SetWithKey[T any](c *Container, key ServiceKey[T], def Definition) {
	c.SetServiceConfiguration(key.name, def)
}

// GetWithKey resolves a service using a typed service key.
//
// Example:
//
//	db, err := GetWithKey(c, DatabaseKey)
func GetWithKey[T any](r Resolver, key ServiceKey[T]) (T, error) {
	return Get[T](r, key.name)
}

// MustWithKey resolves a service using a typed service key and panics on error.
//
// Example:
//
//	db := MustWithKey(c, DatabaseKey)
func MustWithKey[T any](r Resolver, key ServiceKey[T]) T {
	result, err := GetWithKey(r, key)
	if err != nil {
		panic(err)
	}
	return result
}

// HasKey checks if a service is defined using a typed service key.
func HasKey[T any](r Resolver, key ServiceKey[T]) bool {
	return r.Has(key.name)
}

// InspectKey returns diagnostic information about a service using a typed service key.
func InspectKey[T any](c *Container, key ServiceKey[T]) ServiceInfo {
	return c.Inspect(key.name)
}
