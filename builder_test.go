package depot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Class(t *testing.T) {
	def := DefineClass("some_class_full_name").Build()

	assert.Equal(t, ClassSpec{Class: "some_class_full_name"}, def)
}

func TestBuilder_ClassWithParameters(t *testing.T) {
	someObject := &plainService{}

	def := DefineClass("some_class_full_name").
		ServiceParam("depend_on_serviced").
		ServiceParam("depend_on_serviced2").
		ValueParam(42).
		ValueParam(someObject).
		Build()

	require.IsType(t, ClassSpec{}, def)
	assert.Equal(t, []Parameter{
		Service("depend_on_serviced"),
		Service("depend_on_serviced2"),
		Value(42),
		Value(someObject),
	}, def.(ClassSpec).Parameters)
	assert.Same(t, someObject, def.(ClassSpec).Parameters[3].Value)
}

func TestBuilder_FactoryWithParameters(t *testing.T) {
	def := DefineFactory(Method("class_name", "method_name")).
		ServiceParam("depend_on_serviced").
		ValueParam(42).
		Build()

	assert.Equal(t, FactorySpec{
		Factory:    Method("class_name", "method_name"),
		Parameters: []Parameter{Service("depend_on_serviced"), Value(42)},
	}, def)
}

func TestBuilder_Closure(t *testing.T) {
	called := false
	closure := func(Resolver, string) (any, error) {
		called = true
		return nil, nil
	}

	def := DefineClosure(closure).Build()

	require.IsType(t, ClosureSpec{}, def)
	_, _ = def.(ClosureSpec).Closure(nil, "svc")
	assert.True(t, called)
}

func TestBuilder_Autowire(t *testing.T) {
	def := DefineClass("someClassName").Autowire(true).Build()

	assert.Equal(t, ClassSpec{Class: "someClassName", Autowire: true}, def)
}

func TestBuilder_BuildResets(t *testing.T) {
	b := NewBuilder()

	b.Factory(Method("class_name", "method_name")).
		ServiceParam("depend_on_serviced").
		ServiceParam("depend_on_serviced2").
		ValueParam(42).
		ValueParam(56).
		Autowire(true).
		Build()

	def := b.Class("someClassName").Build()

	assert.Equal(t, ClassSpec{Class: "someClassName"}, def)
	assert.Nil(t, b.Build())
}

func TestBuilder_RestartDiscardsUnfinishedBuild(t *testing.T) {
	b := DefineClass("someClassName").Autowire(true).ValueParam(1)

	def := b.Class("someOtherClass").Build()

	assert.Equal(t, ClassSpec{Class: "someOtherClass"}, def)
}

func TestBuilder_BuildDoesNotShareParameters(t *testing.T) {
	b := DefineClass("first").ValueParam(1)
	first := b.Build()

	second := b.Class("second").ValueParam(2).Build()

	assert.Equal(t, []Parameter{Value(1)}, first.(ClassSpec).Parameters)
	assert.Equal(t, []Parameter{Value(2)}, second.(ClassSpec).Parameters)
}

func TestBuilder_DefinitionResolves(t *testing.T) {
	c := newFixtureContainer(t)
	c.SetServiceConfiguration("built", DefineClass(dependentName).ServiceParam(plainName).ValueParam("built").Build())

	svc, err := Get[*dependentService](c, "built")
	require.NoError(t, err)
	assert.Equal(t, "built", svc.name)
}
