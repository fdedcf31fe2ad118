package depot

import (
	"errors"
	"fmt"
	"sort"
)

// DependencyGraph manages service dependencies.
type DependencyGraph struct {
	nodes map[string]*node
	order []string // Preserve insertion order
}

type node struct {
	name         string
	dependencies []string
}

// NewDependencyGraph creates a new dependency graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[string]*node),
		order: make([]string, 0),
	}
}

// AddNode adds a node with its dependencies.
// Nodes are processed in the order they are added (FIFO) when no dependencies exist.
func (g *DependencyGraph) AddNode(name string, dependencies []string) {
	if _, ok := g.nodes[name]; !ok {
		g.order = append(g.order, name)
	}

	g.nodes[name] = &node{
		name:         name,
		dependencies: dependencies,
	}
}

// GetDependencies returns the dependency names for a node.
func (g *DependencyGraph) GetDependencies(name string) []string {
	if node, ok := g.nodes[name]; ok {
		return node.dependencies
	}

	return nil
}

// HasNode checks if a node exists in the graph.
func (g *DependencyGraph) HasNode(name string) bool {
	_, ok := g.nodes[name]

	return ok
}

// TopologicalSort returns nodes in dependency order.
// Nodes without dependencies maintain their insertion order (FIFO).
// Returns error if circular dependency detected.
func (g *DependencyGraph) TopologicalSort() ([]string, error) {
	visited := make(map[string]bool)
	var stack []string
	result := make([]string, 0, len(g.nodes))

	for _, name := range g.order {
		if err := g.visit(name, visited, &stack, &result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// visit performs DFS traversal. stack holds the nodes being visited.
func (g *DependencyGraph) visit(name string, visited map[string]bool, stack, result *[]string) error {
	if visited[name] {
		return nil
	}

	for i, visiting := range *stack {
		if visiting == name {
			cycle := append(append([]string{}, (*stack)[i:]...), name)

			return ErrCircularDependency(cycle)
		}
	}

	node := g.nodes[name]
	if node == nil {
		// Not in graph: cached instance or unknown reference, reported elsewhere
		return nil
	}

	*stack = append(*stack, name)

	for _, dep := range node.dependencies {
		if err := g.visit(dep, visited, stack, result); err != nil {
			return err
		}
	}

	*stack = (*stack)[:len(*stack)-1]
	visited[name] = true
	*result = append(*result, name)

	return nil
}

// Validate checks the configured services without building any of them.
// It reports malformed definitions, references to unknown services and
// dependency cycles. Closure dependencies are invisible to it.
func (c *Container) Validate() error {
	graph, problems := c.dependencyGraph()

	if _, err := graph.TopologicalSort(); err != nil {
		problems = append(problems, err)
	}

	return errors.Join(problems...)
}

// dependencyGraph builds the graph of configured services, following
// references into autoloadable types.
func (c *Container) dependencyGraph() (*DependencyGraph, []error) {
	c.mu.RLock()
	services := make(map[string]Definition, len(c.services))
	for name, def := range c.services {
		services[name] = def
	}
	aliases := make(map[string]string, len(c.aliases))
	for alias, name := range c.aliases {
		aliases[alias] = name
	}
	loaded := make(map[string]bool, len(c.loaded))
	for name := range c.loaded {
		loaded[name] = true
	}
	autoload := c.autoload
	types := c.types
	c.mu.RUnlock()

	canonical := func(name string) string {
		if target, ok := aliases[name]; ok {
			return target
		}
		return name
	}

	names := make([]string, 0, len(services))
	for name := range services {
		names = append(names, name)
	}
	sort.Strings(names)

	graph := NewDependencyGraph()
	var problems []error

	var add func(name string, deps []string)
	add = func(name string, deps []string) {
		resolved := make([]string, 0, len(deps))

		for _, dep := range deps {
			realDep := canonical(dep)
			resolved = append(resolved, realDep)

			if graph.HasNode(realDep) || loaded[realDep] {
				continue
			}

			if _, ok := services[realDep]; ok {
				continue
			}

			if autoload && types.HasType(realDep) {
				graph.AddNode(realDep, nil)
				add(realDep, autowiredDependencies(realDep, types))

				continue
			}

			problems = append(problems, ErrLoadService(name,
				fmt.Sprintf("unknown service %q", realDep), ErrServiceNotFound(realDep)))
		}

		graph.AddNode(name, resolved)
	}

	for _, name := range names {
		def := services[name]
		if err := validateDefinition(name, def); err != nil {
			problems = append(problems, ErrLoadService(name,
				fmt.Sprintf("wrong configuration for service %q", name), err))
		}

		add(name, dependenciesOf(def, types))
	}

	return graph, problems
}
