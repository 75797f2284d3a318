package chain

import (
	"context"
	"fmt"

	"quiver/internal/api"
	"quiver/pkg/logging"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "quiver/chain"

// skipArgs are injected by the orchestration layer and never surface as
// chain parameters.
var skipArgs = map[string]struct{}{
	"command_list":         {},
	"context":              {},
	"COMMANDS":             {},
	"date":                 {},
	"conversation_history": {},
	"agent_name":           {},
	"working_directory":    {},
	"helper_agent_name":    {},
}

// IsContextualArg reports whether name is injected by the orchestration
// layer rather than supplied by the caller.
func IsContextualArg(name string) bool {
	_, ok := skipArgs[name]
	return ok
}

// CommandArgsSource looks up the declared parameters of a command by its
// friendly name, building extensions with the given agent settings.
type CommandArgsSource interface {
	CommandArgs(name string, settings map[string]any) (*api.Params, bool)
}

// Resolver computes chain parameters.
type Resolver struct {
	chains   api.ChainStore
	prompts  api.PromptArgsSource
	commands CommandArgsSource
	tracer   trace.Tracer
}

// NewResolver creates a resolver reading chain definitions from chains,
// prompt variables from prompts and command parameters from commands.
func NewResolver(chains api.ChainStore, prompts api.PromptArgsSource, commands CommandArgsSource) *Resolver {
	return &Resolver{
		chains:   chains,
		prompts:  prompts,
		commands: commands,
		tracer:   otel.Tracer(tracerName),
	}
}

// SetTracerProvider replaces the provider spans are started from.
func (r *Resolver) SetTracerProvider(tp trace.TracerProvider) {
	r.tracer = tp.Tracer(tracerName)
}

// ResolveArgs returns the deduplicated, first-seen-ordered free parameters
// of the named chain. Command steps are looked up with settings, the
// settings of the agent the chain is resolved for.
//
// Failures while resolving an individual step are logged and that step
// contributes nothing. Failing to fetch the chain itself is returned, as is
// a *api.ChainCycleError when the chain references itself, directly or
// through other chains.
func (r *Resolver) ResolveArgs(ctx context.Context, chainName string, settings map[string]any) ([]string, error) {
	ctx, span := r.tracer.Start(ctx, "quiver.chain.resolve",
		trace.WithAttributes(attribute.String("chain.name", chainName)))
	defer span.End()

	args, err := r.resolve(ctx, chainName, settings, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("chain.args", len(args)))
	return args, nil
}

func (r *Resolver) resolve(ctx context.Context, chainName string, settings map[string]any, path []string) ([]string, error) {
	for _, seen := range path {
		if seen == chainName {
			cycle := make([]string, 0, len(path)+1)
			cycle = append(cycle, path...)
			return nil, &api.ChainCycleError{Path: append(cycle, chainName)}
		}
	}
	path = append(path[:len(path):len(path)], chainName)

	chain, err := r.chains.GetChain(ctx, chainName)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain %s: %w", chainName, err)
	}

	var out []string
	seen := make(map[string]struct{})
	for i, step := range chain.Steps {
		args, err := r.stepArgs(ctx, step, settings, path)
		if err != nil {
			if api.IsChainCycle(err) {
				return nil, err
			}
			logging.Error("ChainResolver", err, "Error getting chain args for %s step %d", chainName, i+1)
			continue
		}
		for _, arg := range args {
			if IsContextualArg(arg) {
				continue
			}
			if _, dup := seen[arg]; dup {
				continue
			}
			seen[arg] = struct{}{}
			out = append(out, arg)
		}
	}

	logging.Debug("ChainResolver", "Resolved %d args for chain %s", len(out), chainName)
	return out, nil
}

func (r *Resolver) stepArgs(ctx context.Context, step api.ChainStep, settings map[string]any, path []string) ([]string, error) {
	prompt := step.Prompt
	switch prompt.Kind() {
	case api.StepKindPrompt:
		if r.prompts == nil {
			return nil, fmt.Errorf("no prompt source configured for prompt %s", prompt.PromptName)
		}
		args, err := r.prompts.GetPromptArgs(ctx, prompt.PromptName, prompt.PromptCategory())
		if err != nil {
			return nil, fmt.Errorf("failed to get args for prompt %s/%s: %w", prompt.PromptCategory(), prompt.PromptName, err)
		}
		return args, nil

	case api.StepKindCommand:
		if r.commands == nil {
			return nil, fmt.Errorf("no command source configured for command %s", prompt.CommandName)
		}
		params, ok := r.commands.CommandArgs(prompt.CommandName, settings)
		if !ok {
			return nil, api.NewCommandNotFoundError(prompt.CommandName)
		}
		return api.ParamNames(params), nil

	case api.StepKindChain:
		return r.resolve(ctx, prompt.ChainName, settings, path)

	default:
		return nil, fmt.Errorf("step %d is malformed: exactly one of prompt_name, command_name or chain_name is required", step.Step)
	}
}
