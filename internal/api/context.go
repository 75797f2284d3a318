package api

// ExecutionContext is injected into a provider instance for a single
// dispatch. It is never persisted.
type ExecutionContext struct {
	InvocationID     string
	User             string
	AgentName        string
	AgentID          string
	CommandName      string
	ConversationName string
	ConversationID   string
	EnabledCommands  []AvailableCommand
	Client           Orchestrator
	APIKey           string
	// WorkspaceDir is <workspace root>/<agent id>/<conversation id>.
	WorkspaceDir string
	// Settings holds the agent-level settings, flattened.
	Settings map[string]any
}

// Setting returns the named setting as a string, or def when it is unset.
func (ec *ExecutionContext) Setting(name, def string) string {
	if ec == nil || ec.Settings == nil {
		return def
	}
	v, ok := ec.Settings[name]
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		if s == "" {
			return def
		}
		return s
	}
	return stringify(v)
}
