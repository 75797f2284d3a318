package extension

import (
	"testing"

	"quiver/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader(t *testing.T, disabled []string, defs ...Definition) *Loader {
	t.Helper()
	c := NewCatalog()
	for _, def := range defs {
		require.NoError(t, c.Register(def))
	}
	return NewLoader(c, disabled)
}

func TestParseDisabled(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ParseDisabled(" a , b ,"))
	assert.Nil(t, ParseDisabled(""))
	assert.Nil(t, ParseDisabled(" , "))
}

func TestLoader_LoadCommands(t *testing.T) {
	l := newTestLoader(t, nil, calculatorDefinition(), fileSystemDefinition())

	entries, err := l.LoadCommands(map[string]any{"openai_api_key": "x"})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	add := entries[0]
	assert.Equal(t, "Add Numbers", add.FriendlyName)
	assert.Equal(t, "calculator", add.Extension)
	assert.Equal(t, "add", add.Invocable)
	assert.Equal(t, []string{"a", "b"}, api.ParamNames(add.Params))
	a, _ := add.Params.Get("a")
	assert.Equal(t, "", a)

	scale := entries[1]
	assert.Equal(t, []string{"value", "factor"}, api.ParamNames(scale.Params))

	assert.Equal(t, "file_system", entries[2].Extension)
	assert.False(t, entries[2].IsChain())
}

func TestLoader_LoadCommandsPassesSettings(t *testing.T) {
	var seen map[string]any
	def := Definition{
		Name: "probe",
		New: func(ec *api.ExecutionContext) (api.Provider, error) {
			seen = ec.Settings
			return &fakeProvider{}, nil
		},
	}
	l := newTestLoader(t, nil, def)

	_, err := l.LoadCommands(map[string]any{"key": "value"})
	require.NoError(t, err)
	assert.Equal(t, "value", seen["key"])
}

func TestLoader_DisabledExtensionsContributeNothing(t *testing.T) {
	l := newTestLoader(t, []string{"calculator"}, calculatorDefinition(), fileSystemDefinition())

	entries, err := l.LoadCommands(nil)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, "calculator", e.Extension)
	}
	assert.Len(t, entries, 1)

	_, ok := l.CommandArgs("Add Numbers", nil)
	assert.False(t, ok)
}

func TestLoader_ConstructionErrorAbortsLoad(t *testing.T) {
	l := newTestLoader(t, nil, calculatorDefinition(), brokenDefinition())

	entries, err := l.LoadCommands(nil)
	require.Error(t, err)
	assert.Nil(t, entries)
	assert.Contains(t, err.Error(), "missing credentials")
}

func TestLoader_HollowProviderIsSkipped(t *testing.T) {
	l := newTestLoader(t, nil, calculatorDefinition(), hollowDefinition())

	entries, err := l.LoadCommands(nil)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestLoader_SetDisabled(t *testing.T) {
	l := newTestLoader(t, nil, calculatorDefinition())
	assert.False(t, l.IsDisabled("calculator"))

	l.SetDisabled([]string{" calculator ", ""})
	assert.True(t, l.IsDisabled("calculator"))
	assert.Equal(t, []string{"calculator"}, l.Disabled())
}

func TestLoader_CommandArgs(t *testing.T) {
	l := newTestLoader(t, nil, calculatorDefinition(), brokenDefinition())

	params, ok := l.CommandArgs("Add Numbers", nil)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, api.ParamNames(params))

	_, ok = l.CommandArgs("Unknown", nil)
	assert.False(t, ok)
}

func TestLoader_CommandArgsUsesSettings(t *testing.T) {
	l := newTestLoader(t, nil, gatedDefinition())

	_, ok := l.CommandArgs("Ping", nil)
	assert.False(t, ok)

	params, ok := l.CommandArgs("Ping", map[string]any{"token": "t0k"})
	require.True(t, ok)
	assert.Equal(t, []string{"host"}, api.ParamNames(params))
}

func TestLoader_Instantiate(t *testing.T) {
	l := newTestLoader(t, []string{"file_system"}, calculatorDefinition(), fileSystemDefinition())

	provider, err := l.Instantiate("calculator", &api.ExecutionContext{})
	require.NoError(t, err)
	assert.Len(t, provider.Commands(), 2)

	_, err = l.Instantiate("file_system", &api.ExecutionContext{})
	assert.True(t, api.IsNotFound(err))

	_, err = l.Instantiate("nope", &api.ExecutionContext{})
	assert.True(t, api.IsNotFound(err))
}

func TestLoader_Extensions(t *testing.T) {
	l := newTestLoader(t, nil, calculatorDefinition(), fileSystemDefinition())

	infos, err := l.Extensions()
	require.NoError(t, err)
	require.Len(t, infos, 2)

	calc := infos[0]
	assert.Equal(t, "Calculator", calc.ExtensionName)
	assert.Equal(t, "Arithmetic helpers", calc.Description)
	assert.Empty(t, calc.Settings)
	require.Len(t, calc.Commands, 2)
	assert.Equal(t, "Add Numbers", calc.Commands[0].Description, "falls back to the friendly name")

	fs := infos[1]
	assert.Equal(t, "File System", fs.ExtensionName)
	assert.Equal(t, "File System", fs.Description)
	assert.Equal(t, []string{"working_directory_restricted"}, fs.Settings)
	assert.Equal(t, "read_file", fs.Commands[0].CommandName)
}

func TestLoader_ExtensionsPropagatesConstructionError(t *testing.T) {
	l := newTestLoader(t, nil, brokenDefinition())
	_, err := l.Extensions()
	assert.Error(t, err)
}

func TestLoader_ExtensionSettings(t *testing.T) {
	l := newTestLoader(t, nil, calculatorDefinition(), fileSystemDefinition())

	settings := l.ExtensionSettings()
	require.Len(t, settings, 1)
	v, ok := settings["file_system"].Get("working_directory_restricted")
	require.True(t, ok)
	assert.Equal(t, true, v)
}
