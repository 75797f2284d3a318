package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// newConfigDir prepares a config directory with a file store holding one
// global chain, one cyclic chain and one agent. No orchestration API is
// configured, so prompt steps contribute nothing.
func newConfigDir(t *testing.T) string {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), `
workingDirectory: `+filepath.Join(dir, "workspace")+`
client:
  apiUrl: ""
mcp:
  enabled: false
`)
	writeFile(t, filepath.Join(dir, "chains", "math.yaml"), `
name: Math
steps:
  - step: 1
    prompt:
      command_name: Add Numbers
  - step: 2
    prompt:
      command_name: Evaluate Percentage
`)
	writeFile(t, filepath.Join(dir, "chains", "loop.yaml"), `
name: Loop
steps:
  - step: 1
    prompt:
      chain_name: Loop
`)
	writeFile(t, filepath.Join(dir, "agents", "gpt4free.yaml"), `
name: gpt4free
id: agent-1
commands:
  Add Numbers: "true"
  Math: "True"
  Read File: "false"
`)
	return dir
}

// run executes the CLI with args against dir and returns stdout.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--config-path", dir}, args...))
	err := root.Execute()
	return out.String(), err
}
