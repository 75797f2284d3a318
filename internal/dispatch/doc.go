// Package dispatch executes a command by friendly name on behalf of an
// agent.
//
// Each call builds its own api.ExecutionContext, looks the command up in the
// registry, reconciles the caller's arguments with the declared parameters
// and then either forwards a chain to the orchestration service or runs the
// command on a freshly constructed extension instance.
package dispatch
