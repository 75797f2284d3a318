package api

import "context"

// Provider is the contract every extension satisfies: it exposes an ordered
// table of commands bound to the provider instance.
type Provider interface {
	Commands() []Command
}

// CommandFunc is the invocable member behind a command. Arguments arrive
// already reconciled against the command's declared parameters.
type CommandFunc func(ctx context.Context, args map[string]any) (any, error)

// Command binds a friendly name to an invocable and its declared parameters.
type Command struct {
	// Name is the friendly, human-facing command name.
	Name string
	// Function is the invocable identifier, stable across instances.
	Function    string
	Description string
	Params      []Param
	Run         CommandFunc
}

// Param declares one command or settings parameter.
type Param struct {
	Name     string
	Default  any
	Optional bool
}

// Required declares a parameter without a default.
func Required(name string) Param {
	return Param{Name: name}
}

// Optional declares a parameter with a default value.
func Optional(name string, def any) Param {
	return Param{Name: name, Default: def, Optional: true}
}

// ExtensionFactory constructs a provider instance. During registry builds
// the execution context only carries settings; during dispatch it is fully
// populated.
type ExtensionFactory func(ec *ExecutionContext) (Provider, error)
