package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"quiver/internal/api"
	"quiver/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_HandWrittenChain(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "chains"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chains", "essay.yaml"), []byte(`
name: Write an Essay
description: Outline then draft
steps:
  - step: 1
    agent_name: gpt4free
    prompt:
      prompt_name: Outline
      category: Writing
  - step: 2
    agent_name: gpt4free
    prompt:
      command_name: Write to File
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chains", "broken.yaml"), []byte("steps: [unclosed"), 0644))

	s := NewFileStore(config.NewStorageWithPath(dir), testDefaultUser)
	ctx := context.Background()

	names, err := s.ListChainNames(ctx, "anyone")
	require.NoError(t, err)
	assert.Equal(t, []string{"Write an Essay"}, names)

	chain, err := s.GetChain(ctx, "Write an Essay")
	require.NoError(t, err)
	assert.Equal(t, "Outline then draft", chain.Description)
	require.Len(t, chain.Steps, 2)
	assert.Equal(t, "Outline", chain.Steps[0].Prompt.PromptName)
	assert.Equal(t, "Write to File", chain.Steps[1].Prompt.CommandName)
}

func TestFileStore_SaveChainRequiresName(t *testing.T) {
	s := NewFileStore(config.NewStorageWithPath(t.TempDir()), testDefaultUser)
	err := s.SaveChain(context.Background(), api.Chain{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed for chain")
}
