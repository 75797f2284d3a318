// Package server exposes the registry and dispatcher over HTTP.
//
// One echo instance serves both surfaces:
//
//	GET  /api/extensions                 enabled extensions and their commands
//	GET  /api/extensions/settings        construction settings, plus chain_<name>
//	GET  /api/commands                   friendly names after a fresh reload
//	GET  /api/agents/:agent/commands     commands the agent has enabled
//	POST /api/agents/:agent/command      execute a command
//	GET  /api/chains/:chain/args         free variables of a chain
//	GET  /healthz                        liveness
//	     /mcp                            MCP streamable HTTP endpoint
//
// The MCP endpoint publishes the commands available to one configured agent
// as MCP tools. Call SyncTools after the registry changes to republish them.
package server
