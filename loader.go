package depot

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadOption configures LoadConfiguration.
type LoadOption func(*loadConfig)

type loadConfig struct {
	closures map[string]Closure
	envFiles []string
}

func newLoadConfig(opts []LoadOption) *loadConfig {
	cfg := &loadConfig{closures: make(map[string]Closure)}
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithClosures supplies the closures that `closure:` entries refer to by name.
func WithClosures(closures map[string]Closure) LoadOption {
	return func(cfg *loadConfig) {
		for name, closure := range closures {
			cfg.closures[name] = closure
		}
	}
}

// document is the YAML form of a Configuration.
//
//	autoload: true
//	aliases:
//	  mail: mailer
//	services:
//	  mailer:
//	    class: example.com/app.Mailer
//	    parameters:
//	      - {type: service, value: transport}
//	      - {type: value, value: 25}
//	  clock:
//	    factory: [clocks, Now]
//	  cache:
//	    closure: cache
type document struct {
	Autoload *bool                      `yaml:"autoload"`
	Aliases  map[string]string          `yaml:"aliases"`
	Services map[string]serviceDocument `yaml:"services"`
}

// serviceDocument keeps the raw node so unknown keys can be detected.
type serviceDocument struct {
	node *yaml.Node
}

func (d *serviceDocument) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: service must be a mapping", value.Line)
	}

	d.node = value

	return nil
}

type serviceFields struct {
	Class      string      `yaml:"class"`
	Autowire   bool        `yaml:"autowire"`
	Factory    factoryRef  `yaml:"factory"`
	Closure    string      `yaml:"closure"`
	Parameters []Parameter `yaml:"parameters"`
}

// factoryRef is either a target name or a [target, method] pair.
type factoryRef []string

func (f *factoryRef) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*f = factoryRef{value.Value}

		return nil
	}

	var parts []string
	if err := value.Decode(&parts); err != nil {
		return err
	}

	if len(parts) < 1 || len(parts) > 2 {
		return fmt.Errorf("line %d: factory must be [target] or [target, method]", value.Line)
	}

	*f = parts

	return nil
}

var serviceKeys = map[string]bool{
	"class":      true,
	"autowire":   true,
	"factory":    true,
	"closure":    true,
	"parameters": true,
}

// LoadConfiguration decodes a YAML configuration document. An entry with an
// unrecognized key, or without exactly one of class, factory or closure, is
// kept and fails with a wrong configuration error when resolved.
func LoadConfiguration(r io.Reader, opts ...LoadOption) (Configuration, error) {
	cfg := newLoadConfig(opts)

	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return Configuration{}, fmt.Errorf("failed to parse configuration: %w", err)
	}

	services := make(map[string]Definition, len(doc.Services))

	for name, raw := range doc.Services {
		def, err := cfg.definition(raw.node)
		if err != nil {
			return Configuration{}, fmt.Errorf("service %q: %w", name, err)
		}

		services[name] = def
	}

	return Configuration{
		Autoload: doc.Autoload,
		Services: services,
		Aliases:  doc.Aliases,
	}, nil
}

// LoadConfigurationFile reads and decodes the YAML configuration at path.
func LoadConfigurationFile(path string, opts ...LoadOption) (Configuration, error) {
	f, err := os.Open(path)
	if err != nil {
		return Configuration{}, fmt.Errorf("failed to read configuration: %w", err)
	}
	defer f.Close()

	return LoadConfiguration(f, opts...)
}

func (cfg *loadConfig) definition(node *yaml.Node) (Definition, error) {
	present := make(map[string]bool)
	unknown := make(map[string]bool)

	if node == nil {
		return newInvalidSpec(present), nil
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if serviceKeys[key] {
			present[key] = true
		} else {
			unknown[key] = true
		}
	}

	if len(unknown) > 0 {
		return newInvalidSpec(unknown), nil
	}

	strategies := 0
	for _, key := range []string{"class", "factory", "closure"} {
		if present[key] {
			strategies++
		}
	}

	if strategies != 1 {
		return newInvalidSpec(present), nil
	}

	var fields serviceFields
	if err := node.Decode(&fields); err != nil {
		return nil, err
	}

	switch {
	case present["class"]:
		return ClassSpec{Class: fields.Class, Parameters: fields.Parameters, Autowire: fields.Autowire}, nil
	case present["factory"]:
		var factory Callable
		if len(fields.Factory) > 0 {
			factory.Target = fields.Factory[0]
		}
		if len(fields.Factory) == 2 {
			factory.Method = fields.Factory[1]
		}

		return FactorySpec{Factory: factory, Parameters: fields.Parameters}, nil
	case present["closure"]:
		closure, ok := cfg.closures[fields.Closure]
		if !ok {
			return nil, ErrWrongConfiguration(fmt.Sprintf("closure %q is not registered", fields.Closure))
		}

		return ClosureSpec{Closure: closure}, nil
	default:
		return newInvalidSpec(present), nil
	}
}
