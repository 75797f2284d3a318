package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"quiver/internal/api"
	"quiver/internal/dispatch"
	"quiver/internal/registry"
	"quiver/pkg/logging"
	pkgstrings "quiver/pkg/strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

const maxToolDescriptionLength = 1024

// ToolName converts a friendly command name into an MCP tool name
// ("Write to File" becomes "write_to_file").
func ToolName(friendlyName string) string {
	return pkgstrings.Identifier(friendlyName)
}

// MCPServer publishes an agent's available commands as MCP tools.
type MCPServer struct {
	registry   *registry.Registry
	dispatcher *dispatch.Dispatcher
	agents     dispatch.AgentSource
	agentName  string

	server *mcpserver.MCPServer

	mu    sync.Mutex
	tools []string
}

// NewMCPServer creates the MCP surface for agentName.
func NewMCPServer(reg *registry.Registry, d *dispatch.Dispatcher, agents dispatch.AgentSource, agentName, version string) *MCPServer {
	return &MCPServer{
		registry:   reg,
		dispatcher: d,
		agents:     agents,
		agentName:  agentName,
		server: mcpserver.NewMCPServer(
			"quiver",
			version,
			mcpserver.WithToolCapabilities(true),
		),
	}
}

// Handler returns the streamable HTTP handler.
func (m *MCPServer) Handler() http.Handler {
	return mcpserver.NewStreamableHTTPServer(m.server)
}

// SyncTools replaces the published tools with the agent's currently
// available commands.
func (m *MCPServer) SyncTools(ctx context.Context) error {
	agent, err := m.agents.GetAgentConfig(ctx, m.agentName)
	if err != nil {
		if !api.IsNotFound(err) {
			return err
		}
		agent = api.AgentConfig{Name: m.agentName}
	}

	available, err := m.registry.Available(ctx, agent)
	if err != nil {
		return err
	}

	seen := make(map[string]struct{})
	var tools []mcpserver.ServerTool
	var names []string
	for _, cmd := range available {
		name := ToolName(cmd.FriendlyName)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		description := cmd.FriendlyName
		if entry, err := m.registry.FindCommandFor(ctx, cmd.FriendlyName, agent.Settings); err == nil && entry.Description != "" {
			description = entry.Description
		}

		tools = append(tools, mcpserver.ServerTool{
			Tool: mcp.Tool{
				Name:        name,
				Description: pkgstrings.TruncateDescription(description, maxToolDescriptionLength),
				InputSchema: paramsSchema(cmd.Args),
			},
			Handler: m.toolHandler(cmd.FriendlyName),
		})
		names = append(names, name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.tools) > 0 {
		m.server.DeleteTools(m.tools...)
	}
	if len(tools) > 0 {
		m.server.AddTools(tools...)
	}
	m.tools = names

	logging.Info("Server", "Published %d MCP tools for agent %s", len(names), m.agentName)
	return nil
}

// paramsSchema describes command params as a JSON object schema. Params
// whose default is "" are required.
func paramsSchema(params *api.Params) mcp.ToolInputSchema {
	properties := make(map[string]interface{})
	required := []string{}
	if params != nil {
		for pair := params.Oldest(); pair != nil; pair = pair.Next() {
			prop := map[string]interface{}{"type": "string"}
			if s, ok := pair.Value.(string); ok && s == "" {
				required = append(required, pair.Key)
			} else if pair.Value != nil {
				prop["default"] = pair.Value
			}
			properties[pair.Key] = prop
		}
	}
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

func (m *MCPServer) toolHandler(friendlyName string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := m.dispatcher.Execute(ctx, dispatch.Call{
			Agent:   m.agentName,
			Command: friendlyName,
			Args:    req.GetArguments(),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Command %s failed: %v", friendlyName, err)), nil
		}
		text, err := renderResult(result)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}

func renderResult(result any) (string, error) {
	switch v := result.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}
