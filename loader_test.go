package depot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDocument = `
autoload: false
aliases:
  dump_alias: plain
  github.com/xraph/depot.plainService: plain
services:
  plain:
    class: github.com/xraph/depot.plainService
  dependent:
    class: github.com/xraph/depot.dependentService
    parameters:
      - {type: service, value: plain}
      - {type: value, value: 42}
  wired:
    class: github.com/xraph/depot.dependentService
    autowire: true
  produced:
    factory: [dumpFactory, Factory]
    parameters:
      - type: service
        value: dump_alias
  named:
    closure: name
  broken:
    bublic: true
  empty:
    autowire: true
`

func loadTestDocument(t *testing.T) Configuration {
	t.Helper()

	cfg, err := LoadConfiguration(strings.NewReader(testDocument), WithClosures(map[string]Closure{
		"name": func(_ Resolver, name string) (any, error) { return name, nil },
	}))
	require.NoError(t, err)

	return cfg
}

func TestLoadConfiguration_Shapes(t *testing.T) {
	cfg := loadTestDocument(t)

	require.NotNil(t, cfg.Autoload)
	assert.False(t, *cfg.Autoload)
	assert.Equal(t, map[string]string{"dump_alias": "plain", plainName: "plain"}, cfg.Aliases)

	assert.Equal(t, ClassSpec{Class: plainName}, cfg.Services["plain"])
	assert.Equal(t, ClassSpec{
		Class:      dependentName,
		Parameters: []Parameter{Service("plain"), Value(42)},
	}, cfg.Services["dependent"])
	assert.Equal(t, ClassSpec{Class: dependentName, Autowire: true}, cfg.Services["wired"])
	assert.Equal(t, FactorySpec{
		Factory:    Method("dumpFactory", "Factory"),
		Parameters: []Parameter{Service("dump_alias")},
	}, cfg.Services["produced"])
	assert.IsType(t, ClosureSpec{}, cfg.Services["named"])
	assert.Equal(t, KindInvalid, kindOf(cfg.Services["broken"]))
	assert.Equal(t, KindInvalid, kindOf(cfg.Services["empty"]))
}

func TestLoadConfiguration_Resolves(t *testing.T) {
	c := newFixtureContainer(t, WithConfiguration(loadTestDocument(t)))

	dependent, err := Get[*dependentService](c, "dependent")
	require.NoError(t, err)
	assert.Equal(t, 42, dependent.name)

	plain, err := c.Get("dump_alias")
	require.NoError(t, err)
	assert.Same(t, plain, dependent.plain)

	produced, err := c.Get("produced")
	require.NoError(t, err)
	assert.Same(t, plain, produced)

	wired, err := Get[*dependentService](c, "wired")
	require.NoError(t, err)
	assert.Equal(t, "", wired.name)
	assert.Same(t, plain, wired.plain)

	named, err := c.Get("named")
	require.NoError(t, err)
	assert.Equal(t, "named", named)

	// Autoload is off
	_, err = c.Get(noConstructorName)
	assert.ErrorIs(t, err, ErrServiceNotFoundSentinel)
}

func TestLoadConfiguration_MalformedEntriesFailAtResolution(t *testing.T) {
	c := newFixtureContainer(t, WithConfiguration(loadTestDocument(t)))

	for _, name := range []string{"broken", "empty"} {
		_, err := c.Get(name)
		require.Error(t, err, name)
		assert.ErrorIs(t, err, ErrWrongConfigurationSentinel)
		assert.Contains(t, err.Error(), `wrong configuration for service "`+name+`"`)
	}
}

func TestLoadConfiguration_MoreThanOneStrategy(t *testing.T) {
	cfg, err := LoadConfiguration(strings.NewReader(`
services:
  both:
    class: github.com/xraph/depot.plainService
    factory: [dumpFactory, Factory]
  all:
    class: github.com/xraph/depot.plainService
    factory: now
    closure: name
`))
	require.NoError(t, err)

	assert.Equal(t, KindInvalid, kindOf(cfg.Services["both"]))
	assert.Equal(t, KindInvalid, kindOf(cfg.Services["all"]))

	c := newFixtureContainer(t, WithConfiguration(cfg))

	_, err = c.Get("both")
	assert.ErrorIs(t, err, ErrWrongConfigurationSentinel)
}

func TestLoadConfiguration_FactoryForms(t *testing.T) {
	cfg, err := LoadConfiguration(strings.NewReader(`
services:
  scalar:
    factory: now
  single:
    factory: [now]
  nothing:
    factory: ~
`))
	require.NoError(t, err)

	assert.Equal(t, FactorySpec{Factory: Func("now")}, cfg.Services["scalar"])
	assert.Equal(t, FactorySpec{Factory: Func("now")}, cfg.Services["single"])
	assert.Equal(t, FactorySpec{}, cfg.Services["nothing"])
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{name: "syntax", doc: "services: [", msg: "failed to parse configuration"},
		{name: "service not a mapping", doc: "services:\n  svc: [1]", msg: "must be a mapping"},
		{name: "factory too long", doc: "services:\n  svc:\n    factory: [a, b, c]", msg: "[target, method]"},
		{name: "unregistered closure", doc: "services:\n  svc:\n    closure: missing", msg: `closure "missing" is not registered`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfiguration(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadConfiguration_Empty(t *testing.T) {
	cfg, err := LoadConfiguration(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, cfg.Autoload)
	assert.Empty(t, cfg.Services)
}

func TestLoadConfigurationFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "services.yaml")
	require.NoError(t, os.WriteFile(path, []byte("services:\n  plain:\n    class: "+plainName+"\n"), 0o600))

	cfg, err := LoadConfigurationFile(path)
	require.NoError(t, err)
	assert.Equal(t, ClassSpec{Class: plainName}, cfg.Services["plain"])

	_, err = LoadConfigurationFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read configuration")
}
