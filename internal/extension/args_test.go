package extension

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringArg(t *testing.T) {
	args := map[string]any{"s": "hello", "n": 3, "nil": nil}
	assert.Equal(t, "hello", StringArg(args, "s", "x"))
	assert.Equal(t, "3", StringArg(args, "n", "x"))
	assert.Equal(t, "x", StringArg(args, "nil", "x"))
	assert.Equal(t, "x", StringArg(args, "missing", "x"))

	_, err := RequiredStringArg(args, "nil")
	assert.EqualError(t, err, "nil is required")
}

func TestFloatArg(t *testing.T) {
	args := map[string]any{"f": 1.5, "i": 2, "s": " 4.25 ", "bad": "four", "nil": nil, "b": true}

	for name, want := range map[string]float64{"f": 1.5, "i": 2, "s": 4.25} {
		got, err := FloatArg(args, name, 0, false)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	got, err := FloatArg(args, "nil", 100, true)
	require.NoError(t, err)
	assert.Equal(t, float64(100), got)

	_, err = FloatArg(args, "missing", 0, false)
	assert.EqualError(t, err, "missing is required")
	_, err = FloatArg(args, "bad", 0, false)
	assert.Error(t, err)
	_, err = FloatArg(args, "b", 0, false)
	assert.Error(t, err)
}

func TestBoolSetting(t *testing.T) {
	settings := map[string]any{"t": true, "s": "TRUE", "f": "false", "n": nil, "one": 1}
	assert.True(t, BoolSetting(settings, "t", false))
	assert.True(t, BoolSetting(settings, "s", false))
	assert.False(t, BoolSetting(settings, "f", true))
	assert.True(t, BoolSetting(settings, "n", true))
	assert.False(t, BoolSetting(settings, "one", true))
	assert.True(t, BoolSetting(nil, "missing", true))
}
