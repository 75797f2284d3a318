package server

import (
	"context"
	"testing"

	"quiver/internal/api"
	"quiver/internal/chain"
	"quiver/internal/dispatch"
	"quiver/internal/extension"
	"quiver/internal/extensions/calculator"
	"quiver/internal/registry"
	"quiver/internal/store"

	"github.com/stretchr/testify/require"
)

type fakeOrchestrator struct {
	runs []string
}

func (o *fakeOrchestrator) RunChain(ctx context.Context, chainName, userInput string, chainArgs map[string]any) (any, error) {
	o.runs = append(o.runs, chainName)
	return "ran " + chainName, nil
}

func (o *fakeOrchestrator) GetPromptArgs(ctx context.Context, promptName, category string) ([]string, error) {
	return []string{"topic"}, nil
}

type fakeAgents map[string]api.AgentConfig

func (f fakeAgents) GetAgentConfig(ctx context.Context, name string) (api.AgentConfig, error) {
	a, ok := f[name]
	if !ok {
		return api.AgentConfig{}, api.NewAgentNotFoundError(name)
	}
	return a, nil
}

type testEnv struct {
	registry     *registry.Registry
	dispatcher   *dispatch.Dispatcher
	agents       fakeAgents
	orchestrator *fakeOrchestrator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	catalog := extension.NewCatalog()
	require.NoError(t, catalog.Register(calculator.Definition()))

	mem := store.NewMemoryStore("USER")
	ownerID, err := mem.SaveUser(ctx, "USER")
	require.NoError(t, err)
	require.NoError(t, mem.SaveChain(ctx, api.Chain{Name: "Research", Owner: ownerID, Steps: []api.ChainStep{
		{Step: 1, Prompt: api.StepPrompt{CommandName: "Add Numbers"}},
		{Step: 2, Prompt: api.StepPrompt{PromptName: "Summarize"}},
	}}))

	orch := &fakeOrchestrator{}
	loader := extension.NewLoader(catalog, nil)
	resolver := chain.NewResolver(mem, orch, loader)
	reg := registry.New(loader, mem, resolver, registry.Options{OwnerID: ownerID})

	agents := fakeAgents{
		api.DefaultAgentName: {
			Name: api.DefaultAgentName,
			ID:   "agent-1",
			Commands: map[string]any{
				"Add Numbers":      "true",
				"Multiply Numbers": false,
				"Research":         true,
			},
		},
	}
	d := dispatch.New(reg, agents, dispatch.Options{
		User:          "USER",
		WorkspaceRoot: t.TempDir(),
		Orchestrator:  orch,
	})
	return &testEnv{registry: reg, dispatcher: d, agents: agents, orchestrator: orch}
}
