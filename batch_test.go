package depot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefineServices_Basic(t *testing.T) {
	c := newFixtureContainer(t, WithAutoload(false))

	DefineServices(c,
		Entry("svc1", ClassSpec{Class: plainName}),
		Entry("svc2", FactorySpec{Factory: Func(newPlainService)}),
		Entry("svc3", ClosureSpec{Closure: func(Resolver, string) (any, error) { return "svc3", nil }}),
	)

	assert.True(t, c.Has("svc1"))
	assert.True(t, c.Has("svc2"))
	assert.True(t, c.Has("svc3"))
	assert.Equal(t, []string{"svc1", "svc2", "svc3"}, c.Services())

	svc, err := c.Get("svc3")
	require.NoError(t, err)
	assert.Equal(t, "svc3", svc)
}

func TestDefineServices_Empty(t *testing.T) {
	c := New()

	DefineServices(c)

	assert.Empty(t, c.Services())
}

func TestDefineServices_LaterEntryWins(t *testing.T) {
	c := newFixtureContainer(t)

	DefineServices(c,
		Entry("svc", ClosureSpec{Closure: func(Resolver, string) (any, error) { return "first", nil }}),
		Entry("svc", ClosureSpec{Closure: func(Resolver, string) (any, error) { return "second", nil }}),
	)

	svc, err := c.Get("svc")
	require.NoError(t, err)
	assert.Equal(t, "second", svc)
}

func TestDefineServices_WithDependencies(t *testing.T) {
	c := newFixtureContainer(t, WithAutoload(false))

	DefineServices(c,
		Entry("dependent", ClassSpec{Class: dependentName, Parameters: []Parameter{Service("plain"), Value("named")}}),
		Entry("plain", ClassSpec{Class: plainName}),
	)

	dependent, err := Get[*dependentService](c, "dependent")
	require.NoError(t, err)

	plain, err := c.Get("plain")
	require.NoError(t, err)
	assert.Same(t, plain, dependent.plain)
	assert.Equal(t, "named", dependent.name)
}

func TestKeyedEntry(t *testing.T) {
	c := newFixtureContainer(t)

	var PlainKey = NewServiceKey[*plainService]("plain")

	DefineServices(c,
		KeyedEntry(PlainKey, ClassSpec{Class: plainName}),
	)

	entry := KeyedEntry(PlainKey, ClassSpec{Class: plainName})
	assert.Equal(t, "plain", entry.Name)

	svc, err := GetWithKey(c, PlainKey)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
