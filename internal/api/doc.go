// Package api holds the types shared by every quiver package: command
// entries and parameter tables, the provider contract extensions implement,
// chain definitions, agent configuration and the typed errors callers
// branch on.
//
// The package imports no other quiver package, so registry, dispatch,
// store and server code can depend on it without cycles.
//
// # Parameter Tables
//
// Params is an insertion-ordered map from parameter name to default value.
// The empty string marks a required parameter; any other value, including
// nil, is the default. Order is the declaration order and is preserved
// through JSON and YAML encoding.
//
// # Errors
//
// Lookups of unknown commands, chains, agents, users and extensions return
// *NotFoundError; test with IsNotFound. Chain resolution that re-enters a
// chain already on the path returns *ChainCycleError; test with
// IsChainCycle.
//
//	entry, err := reg.FindCommand(ctx, name)
//	if api.IsNotFound(err) {
//	    return fmt.Sprintf("Command %s not found", name), nil
//	}
package api
