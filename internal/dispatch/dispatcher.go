package dispatch

import (
	"context"
	"fmt"
	"path/filepath"

	"quiver/internal/api"
	"quiver/internal/extension"
	"quiver/internal/registry"
	"quiver/pkg/logging"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "quiver/dispatch"

// AgentSource loads agent configuration by name.
type AgentSource interface {
	GetAgentConfig(ctx context.Context, name string) (api.AgentConfig, error)
}

// Options configures a Dispatcher.
type Options struct {
	// User is the identity commands run as.
	User   string
	APIKey string
	// WorkspaceRoot holds one directory per agent and conversation.
	WorkspaceRoot string
	Orchestrator  api.Orchestrator
}

// Call is one command invocation.
type Call struct {
	Agent            string
	ConversationName string
	// ConversationID defaults to an id derived from the agent and
	// conversation name.
	ConversationID string
	Command        string
	Args           map[string]any
}

// Dispatcher executes commands from a registry.
type Dispatcher struct {
	registry *registry.Registry
	agents   AgentSource
	opts     Options
	tracer   trace.Tracer
}

// New creates a dispatcher.
func New(reg *registry.Registry, agents AgentSource, opts Options) *Dispatcher {
	return &Dispatcher{
		registry: reg,
		agents:   agents,
		opts:     opts,
		tracer:   otel.Tracer(tracerName),
	}
}

// SetTracerProvider replaces the provider spans are started from.
func (d *Dispatcher) SetTracerProvider(tp trace.TracerProvider) {
	d.tracer = tp.Tracer(tracerName)
}

// Execute runs call.Command. An unknown command is not an error: the result
// is the string "Command <name> not found".
func (d *Dispatcher) Execute(ctx context.Context, call Call) (any, error) {
	ctx, span := d.tracer.Start(ctx, "quiver.dispatch", trace.WithAttributes(
		attribute.String("command.name", call.Command),
		attribute.String("agent.name", agentName(call.Agent)),
	))
	defer span.End()

	result, err := d.execute(ctx, span, call)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logging.Error("Dispatcher", err, "Command %s failed", call.Command)
		return nil, err
	}
	return result, nil
}

func (d *Dispatcher) execute(ctx context.Context, span trace.Span, call Call) (any, error) {
	ec, err := d.NewExecutionContext(ctx, call)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("invocation.id", ec.InvocationID))

	entry, err := d.registry.FindCommandFor(ctx, call.Command, ec.Settings)
	if api.IsNotFound(err) {
		return commandNotFound(span, call.Command, err), nil
	}
	if err != nil {
		return nil, err
	}

	args := Reconcile(entry.Params, call.Args)
	logging.Info("Dispatcher", "Executing command: %s with args: %v (invocation %s)", call.Command, args, ec.InvocationID)

	if entry.IsChain() {
		span.SetAttributes(attribute.String("command.kind", "chain"))
		return d.runChain(ctx, entry, args)
	}
	span.SetAttributes(
		attribute.String("command.kind", "extension"),
		attribute.String("extension.name", entry.Extension),
	)
	command, err := d.instantiateCommand(ec, entry)
	if api.IsNotFound(err) {
		// The extension was disabled or lost the command after lookup.
		return commandNotFound(span, call.Command, err), nil
	}
	if err != nil {
		return nil, err
	}
	return command.Run(ctx, args)
}

func commandNotFound(span trace.Span, name string, err error) string {
	logging.Error("Dispatcher", err, "Command %s not found", name)
	span.SetAttributes(attribute.Bool("command.found", false))
	return fmt.Sprintf("Command %s not found", name)
}

func (d *Dispatcher) runChain(ctx context.Context, entry api.CommandEntry, args map[string]any) (any, error) {
	if d.opts.Orchestrator == nil {
		return nil, fmt.Errorf("cannot run chain %s: no orchestration client configured", entry.FriendlyName)
	}
	chainArgs := make(map[string]any, len(args))
	for k, v := range args {
		if k == "chain_name" || k == "user_input" {
			continue
		}
		chainArgs[k] = v
	}
	return d.opts.Orchestrator.RunChain(ctx, entry.FriendlyName, "", chainArgs)
}

// instantiateCommand builds a fresh provider for entry and returns its
// command.
func (d *Dispatcher) instantiateCommand(ec *api.ExecutionContext, entry api.CommandEntry) (api.Command, error) {
	provider, err := d.loader().Instantiate(entry.Extension, ec)
	if err != nil {
		return api.Command{}, err
	}
	for _, cmd := range provider.Commands() {
		if cmd.Function == entry.Invocable {
			return cmd, nil
		}
	}
	return api.Command{}, api.NewCommandNotFoundError(entry.FriendlyName)
}

func (d *Dispatcher) loader() *extension.Loader {
	return d.registry.Loader()
}

// NewExecutionContext builds the per-call context: identity, conversation,
// workspace, the agent's enabled commands and its flattened settings. An
// unknown agent runs with empty settings and no enabled commands.
func (d *Dispatcher) NewExecutionContext(ctx context.Context, call Call) (*api.ExecutionContext, error) {
	name := agentName(call.Agent)

	agent := api.AgentConfig{Name: name}
	if d.agents != nil {
		cfg, err := d.agents.GetAgentConfig(ctx, name)
		switch {
		case err == nil:
			agent = cfg
		case api.IsNotFound(err):
			logging.Debug("Dispatcher", "Agent %s has no configuration, using defaults", name)
		default:
			return nil, fmt.Errorf("failed to load agent %s: %w", name, err)
		}
	}

	enabled, err := d.registry.Available(ctx, agent)
	if err != nil {
		return nil, err
	}

	agentID := agent.ID
	if agentID == "" {
		agentID = name
	}
	conversationID := call.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(agentID+"/"+call.ConversationName)).String()
	}

	settings := make(map[string]any, len(agent.Settings))
	for k, v := range agent.Settings {
		settings[k] = v
	}

	return &api.ExecutionContext{
		InvocationID:     uuid.NewString(),
		User:             d.opts.User,
		AgentName:        name,
		AgentID:          agentID,
		CommandName:      call.Command,
		ConversationName: call.ConversationName,
		ConversationID:   conversationID,
		EnabledCommands:  enabled,
		Client:           d.opts.Orchestrator,
		APIKey:           d.opts.APIKey,
		WorkspaceDir:     filepath.Join(d.opts.WorkspaceRoot, agentID, conversationID),
		Settings:         settings,
	}, nil
}

func agentName(name string) string {
	if name == "" {
		return api.DefaultAgentName
	}
	return name
}
