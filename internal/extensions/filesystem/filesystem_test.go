package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"quiver/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProvider(t *testing.T, workspace string, settings map[string]any) map[string]api.Command {
	t.Helper()
	p, err := Definition().New(&api.ExecutionContext{WorkspaceDir: workspace, Settings: settings})
	require.NoError(t, err)
	cmds := make(map[string]api.Command)
	for _, cmd := range p.Commands() {
		cmds[cmd.Function] = cmd
	}
	return cmds
}

func TestWriteReadList(t *testing.T) {
	ws := filepath.Join(t.TempDir(), "WORKSPACE", "agent", "conv")
	cmds := newProvider(t, ws, nil)
	ctx := context.Background()

	out, err := cmds["write_to_file"].Run(ctx, map[string]any{"filename": "notes/todo.txt", "text": "ship it"})
	require.NoError(t, err)
	assert.Equal(t, "File written to successfully.", out)

	out, err = cmds["read_file"].Run(ctx, map[string]any{"filename": "notes/todo.txt"})
	require.NoError(t, err)
	assert.Equal(t, "ship it", out)

	_, err = cmds["write_to_file"].Run(ctx, map[string]any{"filename": "a.md", "text": nil})
	require.NoError(t, err)

	out, err = cmds["list_files"].Run(ctx, map[string]any{"directory": nil})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "notes/todo.txt"}, out)
}

func TestRestrictedWorkspace(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(root, "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("s3cr3t"), 0644))
	ws := filepath.Join(root, "ws")
	ctx := context.Background()

	restricted := newProvider(t, ws, map[string]any{RestrictedSetting: "True"})
	for _, name := range []string{"../secret.txt", "a/../../secret.txt"} {
		_, err := restricted["read_file"].Run(ctx, map[string]any{"filename": name})
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), "outside the workspace")
	}

	// absolute paths are joined under the workspace when restricted
	_, err := restricted["read_file"].Run(ctx, map[string]any{"filename": outside})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "outside the workspace")

	open := newProvider(t, ws, map[string]any{RestrictedSetting: false})
	out, err := open["read_file"].Run(ctx, map[string]any{"filename": outside})
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", out)
}

func TestMissingArguments(t *testing.T) {
	cmds := newProvider(t, t.TempDir(), nil)

	_, err := cmds["read_file"].Run(context.Background(), map[string]any{"filename": nil})
	assert.EqualError(t, err, "filename is required")
}

func TestNoWorkspace(t *testing.T) {
	cmds := newProvider(t, "", nil)

	_, err := cmds["list_files"].Run(context.Background(), map[string]any{})
	assert.EqualError(t, err, "no workspace configured")
}
