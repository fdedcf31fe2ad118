package depot

import (
	"fmt"
	"sort"
)

// ServiceInfo describes a service for diagnostics.
type ServiceInfo struct {
	Name string
	// Kind is empty when the name is unknown to the container.
	Kind Kind
	// Type is the dynamic type of the cached instance, if any.
	Type    string
	Aliases []string
	Loaded  bool
	// Dependencies are the service names the definition references. Closure
	// dependencies cannot be known ahead of time and are never listed.
	Dependencies []string
}

// ServiceQuery defines criteria for querying services.
type ServiceQuery struct {
	// Kind filters by definition kind. Empty string matches all kinds.
	Kind Kind

	// Loaded filters by whether an instance is cached.
	// nil matches all services.
	Loaded *bool
}

// Inspect returns diagnostic information about a service. Aliases are
// followed; the returned Name is canonical.
func (c *Container) Inspect(name string) ServiceInfo {
	c.mu.RLock()
	realName := c.canonical(name)
	def, exists := c.services[realName]
	instance, loaded := c.loaded[realName]
	autoload := c.autoload
	types := c.types

	var aliases []string
	for alias, target := range c.aliases {
		if target == realName {
			aliases = append(aliases, alias)
		}
	}
	c.mu.RUnlock()

	sort.Strings(aliases)

	info := ServiceInfo{
		Name:    realName,
		Aliases: aliases,
		Loaded:  loaded,
	}

	if loaded {
		info.Type = fmt.Sprintf("%T", instance)
	}

	switch {
	case exists:
		info.Kind = kindOf(def)
		info.Dependencies = dependenciesOf(def, types)
	case autoload && types.HasType(realName):
		info.Kind = KindAutoload
		info.Dependencies = autowiredDependencies(realName, types)
	case loaded:
		info.Kind = KindInstance
	}

	return info
}

// Query returns detailed information about services matching the query criteria.
// Configured services and instances placed with ReplaceService are considered;
// autoloadable types are not enumerated.
//
// Example:
//
//	loaded := true
//	results := depot.Query(c, depot.ServiceQuery{
//	    Kind:   depot.KindFactory,
//	    Loaded: &loaded,
//	})
func Query(c *Container, query ServiceQuery) []ServiceInfo {
	var results []ServiceInfo

	for _, name := range c.knownNames() {
		info := c.Inspect(name)

		if query.Kind != "" && info.Kind != query.Kind {
			continue
		}

		if query.Loaded != nil && info.Loaded != *query.Loaded {
			continue
		}

		results = append(results, info)
	}

	return results
}

// QueryNames returns the names of services matching the query criteria.
func QueryNames(c *Container, query ServiceQuery) []string {
	results := Query(c, query)
	names := make([]string, len(results))
	for i, info := range results {
		names[i] = info.Name
	}
	return names
}

// FindByKind returns all services built with a specific strategy.
func FindByKind(c *Container, kind Kind) []ServiceInfo {
	return Query(c, ServiceQuery{Kind: kind})
}

// FindLoaded returns all services with a cached instance.
func FindLoaded(c *Container) []ServiceInfo {
	loaded := true
	return Query(c, ServiceQuery{Loaded: &loaded})
}

// knownNames returns configured and cached names, sorted.
func (c *Container) knownNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]bool, len(c.services)+len(c.loaded))
	names := make([]string, 0, len(c.services)+len(c.loaded))

	for name := range c.services {
		seen[name] = true
		names = append(names, name)
	}

	for name := range c.loaded {
		if !seen[name] {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names
}

// dependenciesOf lists the services def references, in parameter order.
func dependenciesOf(def Definition, types TypeSource) []string {
	switch spec := concreteDefinition(def).(type) {
	case ClassSpec:
		return classDependencies(spec, types)
	case FactorySpec:
		return serviceRefs(spec.Parameters)
	default:
		return nil
	}
}

func classDependencies(spec ClassSpec, types TypeSource) []string {
	if len(spec.Parameters) == 0 && spec.Autowire {
		return autowiredDependencies(spec.Class, types)
	}

	return serviceRefs(spec.Parameters)
}

// autowiredDependencies lists the class-typed constructor parameters that
// autowiring would resolve. Errors yield no dependencies.
func autowiredDependencies(className string, types TypeSource) []string {
	descriptors, err := types.DescribeConstructor(className)
	if err != nil {
		return nil
	}

	var deps []string

	for _, d := range descriptors {
		if d.Type == "" {
			break
		}

		deps = append(deps, d.Type)
	}

	return deps
}
