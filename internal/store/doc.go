// Package store provides chain and user stores backing the command registry.
//
// Three implementations satisfy api.ChainStore and api.IdentityResolver:
//
//   - FileStore keeps chains and users as YAML entities in the config
//     directory (chains/<name>.yaml, users/<email>.yaml).
//   - SQLStore keeps them in PostgreSQL through gorm.
//   - MemoryStore keeps them in process, for tests and ephemeral setups.
//
// Every store exposes the caller's own chains followed by the chains of the
// global owner (the configured default user). Chains without an owner are
// global.
//
// Watcher turns filesystem changes under the config directory into
// debounced callbacks so cached registries can be invalidated.
package store
