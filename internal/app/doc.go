// Package app bootstraps quiver: it loads configuration, initializes
// logging and tracing, assembles the component graph and runs the server.
//
// # Component Graph
//
// InitializeServices wires the components in dependency order:
//
//  1. Store: file (YAML under the config directory), postgres (gorm) or
//     memory, selected by store.driver.
//  2. Orchestration client: the REST client for chain runs and prompt
//     metadata, fronted by a Redis cache when cache.redisUrl is set.
//  3. Extension catalog and loader: built-in extensions with the
//     configured disabled set applied.
//  4. Chain resolver and command registry.
//  5. Dispatcher, MCP server and HTTP server.
//
// # Reloading
//
// With store.watch enabled, changes under the config directory are applied
// without a restart. A changed config.yaml reloads the disabled extension
// set; changed chains or users invalidate the command registry; changed
// agents re-publish MCP tools.
//
// # Usage
//
//	cfg := app.NewConfig(debug, false, configPath)
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return err
//	}
//	defer application.Close(ctx)
//	return application.Run(ctx)
package app
