// Package extension discovers capability providers and turns their command
// tables into registry entries.
//
// Extensions are registered explicitly in a Catalog at startup. Each
// Definition names the extension, declares its construction settings and
// supplies a factory returning an api.Provider. The catalog is frozen the
// first time it is enumerated, so later registrations fail instead of racing
// with registry builds.
//
// A Loader enumerates the catalog, skips administratively disabled
// extensions, constructs each provider with the agent's settings and
// introspects the declared parameters of every command:
//
//	catalog := extension.NewCatalog()
//	extensions.RegisterBuiltins(catalog)
//
//	loader := extension.NewLoader(catalog, extension.ParseDisabled("kv_store"))
//	entries, err := loader.LoadCommands(agent.Settings)
package extension
