package server

import (
	"context"
	"encoding/json"
	"testing"

	"quiver/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolName(t *testing.T) {
	tests := map[string]string{
		"Write to File":        "write_to_file",
		"Add Numbers":          "add_numbers",
		"  Search: Web (beta)": "search_web_beta",
		"already_snake-case":   "already_snake-case",
		"!!!":                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, ToolName(in), in)
	}
}

func TestParamsSchema(t *testing.T) {
	params := api.NewParams()
	params.Set("value", "")
	params.Set("percent", 100)
	params.Set("note", nil)

	schema := paramsSchema(params)
	assert.Equal(t, "object", schema.Type)
	assert.Equal(t, []string{"value"}, schema.Required)
	assert.Len(t, schema.Properties, 3)
	assert.Equal(t, 100, schema.Properties["percent"].(map[string]interface{})["default"])
	assert.NotContains(t, schema.Properties["note"].(map[string]interface{}), "default")

	empty := paramsSchema(nil)
	assert.Empty(t, empty.Properties)
	assert.Empty(t, empty.Required)
}

func TestRenderResult(t *testing.T) {
	s, err := renderResult("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", s)

	s, err = renderResult(map[string]int{"n": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, s)

	s, err = renderResult(nil)
	require.NoError(t, err)
	assert.Empty(t, s)
}

// rpc sends a JSON-RPC request through the MCP server and decodes the result.
func rpc(t *testing.T, m *MCPServer, method string, params any) map[string]any {
	t.Helper()
	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	resp := m.server.HandleMessage(context.Background(), msg)
	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	require.NotContains(t, out, "error", string(data))
	return out["result"].(map[string]any)
}

func newTestMCPServer(t *testing.T) (*MCPServer, *testEnv) {
	env := newTestEnv(t)
	m := NewMCPServer(env.registry, env.dispatcher, env.agents, api.DefaultAgentName, "test")
	require.NoError(t, m.SyncTools(context.Background()))
	return m, env
}

func TestMCPServer_SyncToolsPublishesAvailableCommands(t *testing.T) {
	m, _ := newTestMCPServer(t)

	result := rpc(t, m, "tools/list", map[string]any{})
	tools := result["tools"].([]any)

	var names []string
	for _, tool := range tools {
		names = append(names, tool.(map[string]any)["name"].(string))
	}
	assert.ElementsMatch(t, []string{"add_numbers", "research"}, names)
}

func TestMCPServer_SyncToolsReplacesTools(t *testing.T) {
	m, env := newTestMCPServer(t)

	agent := env.agents[api.DefaultAgentName]
	agent.Commands = map[string]any{"Multiply Numbers": "TRUE"}
	env.agents[api.DefaultAgentName] = agent
	require.NoError(t, m.SyncTools(context.Background()))

	result := rpc(t, m, "tools/list", map[string]any{})
	tools := result["tools"].([]any)
	require.Len(t, tools, 1)
	assert.Equal(t, "multiply_numbers", tools[0].(map[string]any)["name"])
}

func TestMCPServer_UnknownAgentPublishesNothing(t *testing.T) {
	env := newTestEnv(t)
	m := NewMCPServer(env.registry, env.dispatcher, env.agents, "ghost", "test")
	require.NoError(t, m.SyncTools(context.Background()))
	assert.Empty(t, m.tools)
}

func TestMCPServer_CallTool(t *testing.T) {
	m, env := newTestMCPServer(t)

	result := rpc(t, m, "tools/call", map[string]any{
		"name":      "add_numbers",
		"arguments": map[string]any{"a": "4", "b": "5"},
	})
	content := result["content"].([]any)
	require.Len(t, content, 1)
	assert.Equal(t, "9", content[0].(map[string]any)["text"])
	assert.NotEqual(t, true, result["isError"])

	result = rpc(t, m, "tools/call", map[string]any{
		"name":      "research",
		"arguments": map[string]any{"topic": "otters"},
	})
	content = result["content"].([]any)
	assert.Equal(t, "ran Research", content[0].(map[string]any)["text"])
	assert.Equal(t, []string{"Research"}, env.orchestrator.runs)
}

func TestMCPServer_CallToolFailure(t *testing.T) {
	m, _ := newTestMCPServer(t)

	result := rpc(t, m, "tools/call", map[string]any{
		"name":      "add_numbers",
		"arguments": map[string]any{"a": "four", "b": "5"},
	})
	assert.Equal(t, true, result["isError"])
}
