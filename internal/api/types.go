package api

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Params is an insertion-ordered parameter table mapping a parameter name to
// its default value. The empty string is the "required, no default" sentinel.
type Params = orderedmap.OrderedMap[string, any]

// NewParams returns an empty parameter table.
func NewParams() *Params {
	return orderedmap.New[string, any]()
}

// ParamNames returns the keys of p in declaration order.
func ParamNames(p *Params) []string {
	if p == nil {
		return nil
	}
	names := make([]string, 0, p.Len())
	for pair := p.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// CloneParams returns a shallow copy of p that preserves ordering.
func CloneParams(p *Params) *Params {
	out := NewParams()
	if p == nil {
		return out
	}
	for pair := p.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value)
	}
	return out
}

// ChainInvocable is the invocable identifier used for every chain-derived
// command entry.
const ChainInvocable = "run_chain"

// CommandEntry is one addressable command in the registry.
//
// Extension is the identifier of the owning extension. It is empty for
// chain-derived entries, which are dispatched to the chain runner instead of
// a provider instance.
type CommandEntry struct {
	FriendlyName string  `json:"friendly_name" yaml:"friendlyName"`
	Extension    string  `json:"extension,omitempty" yaml:"extension,omitempty"`
	Invocable    string  `json:"name" yaml:"name"`
	Params       *Params `json:"args" yaml:"-"`
	Description  string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// IsChain reports whether the entry was synthesized from a chain.
func (e CommandEntry) IsChain() bool {
	return e.Extension == ""
}

// DefaultAgentName is used when a caller does not name an agent.
const DefaultAgentName = "gpt4free"

// AvailableCommand is a command an agent is permitted to invoke.
type AvailableCommand struct {
	FriendlyName string  `json:"friendly_name" yaml:"friendlyName"`
	Name         string  `json:"name" yaml:"name"`
	Args         *Params `json:"args" yaml:"-"`
	Enabled      bool    `json:"enabled" yaml:"enabled"`
}

// AgentConfig is the per-agent configuration consulted by the availability
// filter and flattened into every execution context.
type AgentConfig struct {
	Name     string         `yaml:"name" json:"name"`
	ID       string         `yaml:"id,omitempty" json:"id,omitempty"`
	Settings map[string]any `yaml:"settings,omitempty" json:"settings,omitempty"`
	// Commands maps a friendly command name to its enable flag. Only values
	// whose string form is "true" (any case) enable a command.
	Commands map[string]any `yaml:"commands,omitempty" json:"commands,omitempty"`
}

// ExtensionInfo describes an extension for catalog listings.
type ExtensionInfo struct {
	ExtensionName string        `json:"extension_name" yaml:"extensionName"`
	Description   string        `json:"description" yaml:"description"`
	Settings      []string      `json:"settings" yaml:"settings"`
	Commands      []CommandInfo `json:"commands" yaml:"commands"`
}

// CommandInfo describes one command of an extension.
type CommandInfo struct {
	FriendlyName string  `json:"friendly_name" yaml:"friendlyName"`
	Description  string  `json:"description" yaml:"description"`
	CommandName  string  `json:"command_name" yaml:"commandName"`
	CommandArgs  *Params `json:"command_args" yaml:"-"`
}
