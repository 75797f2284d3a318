package store

import (
	"context"
	"testing"

	"quiver/internal/api"
	"quiver/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDefaultUser = "USER"

// testStoreContract exercises the behaviour every Store shares.
func testStoreContract(t *testing.T, s Store) {
	ctx := context.Background()

	globalID, err := s.SaveUser(ctx, testDefaultUser)
	require.NoError(t, err)
	aliceID, err := s.SaveUser(ctx, "alice@example.com")
	require.NoError(t, err)

	again, err := s.SaveUser(ctx, "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, aliceID, again, "users are matched case-insensitively")

	research := api.Chain{
		Name:  "Research",
		Owner: aliceID,
		Steps: []api.ChainStep{
			{Step: 1, AgentName: "gpt4free", Prompt: api.StepPrompt{CommandName: "Add Numbers"}},
			{Step: 2, AgentName: "gpt4free", Prompt: api.StepPrompt{PromptName: "Summarize", Category: "Writing"}},
			{Step: 3, AgentName: "gpt4free", Prompt: api.StepPrompt{ChainName: "Smart Chat"}},
		},
	}
	require.NoError(t, s.SaveChain(ctx, research))
	require.NoError(t, s.SaveChain(ctx, api.Chain{Name: "Smart Chat", Owner: globalID}))
	require.NoError(t, s.SaveChain(ctx, api.Chain{Name: "Ask Helper", Owner: globalID}))
	require.NoError(t, s.SaveChain(ctx, api.Chain{Name: "Bob Private", Owner: "someone-else"}))

	t.Run("user lookup", func(t *testing.T) {
		id, err := s.GetUserID(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, aliceID, id)

		_, err = s.GetUserID(ctx, "nobody@example.com")
		assert.True(t, api.IsNotFound(err))
	})

	t.Run("own chains then global chains", func(t *testing.T) {
		names, err := s.ListChainNames(ctx, aliceID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Research", "Ask Helper", "Smart Chat"}, names)
	})

	t.Run("global owner sees global chains once", func(t *testing.T) {
		names, err := s.ListChainNames(ctx, globalID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Ask Helper", "Smart Chat"}, names)
	})

	t.Run("chain round trip", func(t *testing.T) {
		got, err := s.GetChain(ctx, "Research")
		require.NoError(t, err)
		assert.Equal(t, "Research", got.Name)
		assert.Equal(t, aliceID, got.Owner)
		require.Len(t, got.Steps, 3)
		assert.Equal(t, api.StepKindCommand, got.Steps[0].Prompt.Kind())
		assert.Equal(t, "Writing", got.Steps[1].Prompt.Category)
		assert.Equal(t, "Smart Chat", got.Steps[2].Prompt.ChainName)
	})

	t.Run("missing chain", func(t *testing.T) {
		_, err := s.GetChain(ctx, "Ghost")
		assert.True(t, api.IsNotFound(err))
	})
}

func TestMemoryStore(t *testing.T) {
	testStoreContract(t, NewMemoryStore(testDefaultUser))
}

func TestFileStore(t *testing.T) {
	testStoreContract(t, NewFileStore(config.NewStorageWithPath(t.TempDir()), testDefaultUser))
}

func TestListChainNames_UnknownDefaultUser(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore("admin@example.com")
	aliceID, err := s.SaveUser(ctx, "alice@example.com")
	require.NoError(t, err)

	require.NoError(t, s.SaveChain(ctx, api.Chain{Name: "Mine", Owner: aliceID}))
	require.NoError(t, s.SaveChain(ctx, api.Chain{Name: "Shared"}))
	require.NoError(t, s.SaveChain(ctx, api.Chain{Name: "Stranger", Owner: "x"}))

	names, err := s.ListChainNames(ctx, aliceID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mine", "Shared"}, names)
}

func TestMergeChainNames(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, mergeChainNames([]string{"a", "b"}, []string{"b", "c"}))
	assert.Empty(t, mergeChainNames(nil, nil))
}
