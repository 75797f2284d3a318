package cmd

import (
	"errors"
	"fmt"
	"testing"

	"quiver/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetVersion(t *testing.T) {
	original := GetVersion()
	defer SetVersion(original)

	SetVersion("1.2.3-test")
	assert.Equal(t, "1.2.3-test", GetVersion())
	assert.Equal(t, "1.2.3-test", newRootCmd().Version)
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()
	assert.Equal(t, "quiver", root.Use)
	assert.NotEmpty(t, root.Short)
	assert.NotEmpty(t, root.Long)
	assert.True(t, root.SilenceUsage)

	for _, name := range []string{"output", "no-headers", "debug", "config-path"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), name)
	}
}

func TestSubcommands(t *testing.T) {
	found := map[string]bool{}
	for _, c := range newRootCmd().Commands() {
		found[c.Name()] = true
	}
	for _, name := range []string{"version", "serve", "commands", "chains", "extensions", "agents"} {
		assert.True(t, found[name], name)
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := run(t, t.TempDir(), "--version")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("quiver version %s\n", GetVersion()), out)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCodeError, getExitCode(errors.New("boom")))
	assert.Equal(t, ExitCodeNotFound, getExitCode(fmt.Errorf("wrapped: %w", api.NewChainNotFoundError("x"))))
	assert.Equal(t, ExitCodeChainCycle, getExitCode(&api.ChainCycleError{Path: []string{"a", "a"}}))
}

func TestInvalidOutputFormat(t *testing.T) {
	_, err := run(t, newConfigDir(t), "chains", "list", "-o", "xml")
	assert.ErrorContains(t, err, "unsupported output format")
}
