package api

import "context"

// Chain is a stored, named sequence of steps. quiver only reads chains.
type Chain struct {
	Name        string      `yaml:"name" json:"chain_name"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	Owner       string      `yaml:"owner,omitempty" json:"owner,omitempty"`
	Steps       []ChainStep `yaml:"steps" json:"steps"`
}

// ChainStep is one step of a chain.
type ChainStep struct {
	Step      int        `yaml:"step" json:"step"`
	AgentName string     `yaml:"agent_name,omitempty" json:"agent_name,omitempty"`
	Prompt    StepPrompt `yaml:"prompt" json:"prompt"`
}

// StepKind identifies which variant a StepPrompt holds.
type StepKind string

const (
	StepKindPrompt    StepKind = "prompt"
	StepKindCommand   StepKind = "command"
	StepKindChain     StepKind = "chain"
	StepKindMalformed StepKind = ""
)

// DefaultPromptCategory is used for prompt steps without a category.
const DefaultPromptCategory = "Default"

// StepPrompt is a tagged variant: exactly one of PromptName, CommandName or
// ChainName is set. Category only applies to prompt steps.
type StepPrompt struct {
	PromptName  string `yaml:"prompt_name,omitempty" json:"prompt_name,omitempty"`
	Category    string `yaml:"category,omitempty" json:"category,omitempty"`
	CommandName string `yaml:"command_name,omitempty" json:"command_name,omitempty"`
	ChainName   string `yaml:"chain_name,omitempty" json:"chain_name,omitempty"`
}

// Kind reports the variant held by p, or StepKindMalformed when none or more
// than one reference is set.
func (p StepPrompt) Kind() StepKind {
	var kinds []StepKind
	if p.PromptName != "" {
		kinds = append(kinds, StepKindPrompt)
	}
	if p.CommandName != "" {
		kinds = append(kinds, StepKindCommand)
	}
	if p.ChainName != "" {
		kinds = append(kinds, StepKindChain)
	}
	if len(kinds) != 1 {
		return StepKindMalformed
	}
	return kinds[0]
}

// PromptCategory returns the step's category, defaulting to "Default".
func (p StepPrompt) PromptCategory() string {
	if p.Category == "" {
		return DefaultPromptCategory
	}
	return p.Category
}

// ChainStore is the chain inventory and definition source.
type ChainStore interface {
	// ListChainNames returns the owner's chains followed by the global
	// owner's chains.
	ListChainNames(ctx context.Context, ownerID string) ([]string, error)
	GetChain(ctx context.Context, name string) (*Chain, error)
}

// IdentityResolver maps a user identifier (an email) to an internal id.
type IdentityResolver interface {
	GetUserID(ctx context.Context, user string) (string, error)
}

// ChainRunner executes chains remotely.
type ChainRunner interface {
	RunChain(ctx context.Context, chainName, userInput string, chainArgs map[string]any) (any, error)
}

// PromptArgsSource reports the template variables of a stored prompt.
type PromptArgsSource interface {
	GetPromptArgs(ctx context.Context, promptName, category string) ([]string, error)
}

// Orchestrator is the remote orchestration client handed to providers.
type Orchestrator interface {
	ChainRunner
	PromptArgsSource
}
