// Package chain computes the free parameters of stored chains.
//
// A chain is exposed to callers as a single command whose parameter list is
// the union of the parameters its steps need. Steps reference a stored
// prompt (whose template variables come from the orchestration service), an
// extension command (whose declared parameters come from the extension
// loader) or another chain (resolved recursively).
//
// Contextual names that the orchestration layer injects on its own, such as
// "context" or "conversation_history", are never reported as chain
// parameters.
package chain
