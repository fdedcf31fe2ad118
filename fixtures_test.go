package depot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const missingName = "DumpClassName_______o"

// plainService has no dependencies.
type plainService struct {
	id int
}

func newPlainService() *plainService {
	return &plainService{}
}

// untypedService takes a parameter without a class type.
type untypedService struct {
	user any
}

func newUntypedService(user any) *untypedService {
	return &untypedService{user: user}
}

// dependentService needs a plainService and takes an optional name.
type dependentService struct {
	plain *plainService
	name  any
}

func newDependentService(plain *plainService, name any) *dependentService {
	return &dependentService{plain: plain, name: name}
}

// unwireableService has a class-typed parameter followed by a required
// untyped one.
type unwireableService struct {
	plain *plainService
	users []string
}

func newUnwireableService(plain *plainService, users []string) *unwireableService {
	return &unwireableService{plain: plain, users: users}
}

// noConstructorService is registered without a constructor.
type noConstructorService struct{}

func (noConstructorService) Get1() int { return 1 }

type noConstructorFactory struct{}

func (noConstructorFactory) Factory() *noConstructorService {
	return &noConstructorService{}
}

type dumpFactory struct{}

func (dumpFactory) Factory(service any) any {
	return service
}

var (
	plainName         = TypeName((*plainService)(nil))
	untypedName       = TypeName((*untypedService)(nil))
	dependentName     = TypeName((*dependentService)(nil))
	unwireableName    = TypeName((*unwireableService)(nil))
	noConstructorName = TypeName((*noConstructorService)(nil))
)

// newFixtureTypes registers every fixture type and the named factory targets.
func newFixtureTypes(t *testing.T) *TypeTable {
	t.Helper()

	types := NewTypeTable()

	_, err := types.Register(newPlainService)
	require.NoError(t, err)

	_, err = types.Register(newUntypedService, WithParamNames("user"))
	require.NoError(t, err)

	_, err = types.Register(newDependentService, WithParamNames("class", "name"), WithDefaults(""))
	require.NoError(t, err)

	_, err = types.Register(newUnwireableService, WithParamNames("class", "user"))
	require.NoError(t, err)

	_, err = RegisterType[noConstructorService](types)
	require.NoError(t, err)

	types.RegisterTarget("noConstructorFactory", noConstructorFactory{})
	types.RegisterTarget("dumpFactory", dumpFactory{})

	return types
}

// fixtureConfiguration disables autoload and configures the fixture classes.
func fixtureConfiguration() Configuration {
	return Configuration{
		Autoload: Bool(false),
		Services: map[string]Definition{
			plainName: ClassSpec{Class: plainName},
			dependentName: ClassSpec{
				Class:      dependentName,
				Parameters: []Parameter{Service(plainName)},
			},
			noConstructorName: ClassSpec{Class: noConstructorName},
			untypedName: ClassSpec{
				Class:      untypedName,
				Parameters: []Parameter{Service(plainName)},
			},
		},
		Aliases: map[string]string{},
	}
}

// newFixtureContainer returns a container with autoload on and no configuration.
func newFixtureContainer(t *testing.T, opts ...Option) *Container {
	t.Helper()

	return New(append([]Option{WithTypes(newFixtureTypes(t))}, opts...)...)
}

// newConfiguredContainer returns a container with the fixture configuration.
func newConfiguredContainer(t *testing.T, opts ...Option) *Container {
	t.Helper()

	return newFixtureContainer(t, append([]Option{WithConfiguration(fixtureConfiguration())}, opts...)...)
}
