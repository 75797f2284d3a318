package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"quiver/internal/api"
	"quiver/internal/chain"
	"quiver/internal/extension"
	"quiver/pkg/logging"

	"golang.org/x/sync/singleflight"
)

const (
	chainNameParam = "chain_name"
	userInputParam = "user_input"
)

// Options configures a Registry.
type Options struct {
	// OwnerID selects whose chains (plus the global owner's) are listed.
	OwnerID string
	// Settings are the deployment-wide extension settings. An agent's own
	// settings override them key by key.
	Settings map[string]any
	// RefreshInterval bounds the age of a cached list. Zero disables
	// expiry.
	RefreshInterval time.Duration
}

// snapshot is one built command list.
type snapshot struct {
	entries []api.CommandEntry
	builtAt time.Time
}

// Registry is the unified command list of one owner. Extensions are built
// with the settings of the agent asking, so one list is cached per distinct
// set of effective settings.
type Registry struct {
	loader   *extension.Loader
	chains   api.ChainStore
	resolver *chain.Resolver
	opts     Options

	group singleflight.Group

	mu       sync.RWMutex
	settings map[string]any
	cache    map[string]snapshot

	now func() time.Time
}

// New creates a registry. Nothing is built until the first lookup.
func New(loader *extension.Loader, chains api.ChainStore, resolver *chain.Resolver, opts Options) *Registry {
	return &Registry{
		loader:   loader,
		chains:   chains,
		resolver: resolver,
		opts:     opts,
		settings: opts.Settings,
		cache:    make(map[string]snapshot),
		now:      time.Now,
	}
}

// SetSettings replaces the deployment settings and drops every cached
// list.
func (r *Registry) SetSettings(settings map[string]any) {
	r.mu.Lock()
	r.settings = settings
	clear(r.cache)
	r.mu.Unlock()
}

// effectiveSettings overlays agent settings on the deployment settings.
func (r *Registry) effectiveSettings(agent map[string]any) map[string]any {
	r.mu.RLock()
	defaults := r.settings
	r.mu.RUnlock()

	out := make(map[string]any, len(defaults)+len(agent))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range agent {
		out[k] = v
	}
	return out
}

// settingsKey identifies a settings set. fmt prints map keys sorted.
func settingsKey(settings map[string]any) string {
	return fmt.Sprintf("%v", settings)
}

// Load rebuilds the command list for the deployment settings and caches it.
func (r *Registry) Load(ctx context.Context) ([]api.CommandEntry, error) {
	return r.LoadFor(ctx, nil)
}

// LoadFor rebuilds the command list seen by an agent with the given
// settings and caches it. Concurrent rebuilds of the same list share one
// build, which is not cancelled when the caller that started it goes away.
func (r *Registry) LoadFor(ctx context.Context, agentSettings map[string]any) ([]api.CommandEntry, error) {
	settings := r.effectiveSettings(agentSettings)
	key := settingsKey(settings)

	ch := r.group.DoChan(key, func() (interface{}, error) {
		entries, err := r.build(context.WithoutCancel(ctx), settings)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.cache[key] = snapshot{entries: entries, builtAt: r.now()}
		r.mu.Unlock()
		return entries, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]api.CommandEntry), nil
	}
}

// Commands returns the cached list for the deployment settings.
func (r *Registry) Commands(ctx context.Context) ([]api.CommandEntry, error) {
	return r.CommandsFor(ctx, nil)
}

// CommandsFor returns the cached list for an agent with the given
// settings, rebuilding it when it is missing or older than the refresh
// interval.
func (r *Registry) CommandsFor(ctx context.Context, agentSettings map[string]any) ([]api.CommandEntry, error) {
	key := settingsKey(r.effectiveSettings(agentSettings))

	r.mu.RLock()
	snap, fresh := r.cache[key]
	if fresh && r.opts.RefreshInterval > 0 && r.now().Sub(snap.builtAt) > r.opts.RefreshInterval {
		fresh = false
	}
	r.mu.RUnlock()

	if fresh {
		return snap.entries, nil
	}
	return r.LoadFor(ctx, agentSettings)
}

// Invalidate drops every cached list.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	clear(r.cache)
	r.mu.Unlock()
	logging.Debug("Registry", "Command lists invalidated")
}

func (r *Registry) build(ctx context.Context, settings map[string]any) ([]api.CommandEntry, error) {
	entries, err := r.loader.LoadCommands(settings)
	if err != nil {
		return nil, err
	}

	names, err := r.chains.ListChainNames(ctx, r.opts.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chains: %w", err)
	}
	for _, name := range names {
		args, err := r.resolver.ResolveArgs(ctx, name, settings)
		if err != nil {
			if api.IsChainCycle(err) {
				logging.Warn("Registry", "Skipping chain %s: %v", name, err)
				continue
			}
			return nil, err
		}
		entries = append(entries, api.CommandEntry{
			FriendlyName: name,
			Invocable:    api.ChainInvocable,
			Params:       chainParams(name, args),
			Description:  fmt.Sprintf("Run the %s chain.", name),
		})
	}

	logging.Info("Registry", "Built command list with %d commands (%d chains)", len(entries), len(names))
	return entries, nil
}

// chainParams is the parameter set of a chain command: chain_name defaulting
// to the chain, user_input, then the chain's free variables.
func chainParams(name string, args []string) *api.Params {
	p := api.NewParams()
	p.Set(chainNameParam, name)
	p.Set(userInputParam, "")
	for _, arg := range args {
		if _, exists := p.Get(arg); exists {
			continue
		}
		p.Set(arg, "")
	}
	return p
}

// FindCommand returns the first entry with the given friendly name in the
// deployment list.
func (r *Registry) FindCommand(ctx context.Context, name string) (api.CommandEntry, error) {
	return r.FindCommandFor(ctx, name, nil)
}

// FindCommandFor returns the first entry with the given friendly name in
// the list of an agent with the given settings, skipping entries of
// extensions that are currently disabled.
func (r *Registry) FindCommandFor(ctx context.Context, name string, agentSettings map[string]any) (api.CommandEntry, error) {
	entries, err := r.CommandsFor(ctx, agentSettings)
	if err != nil {
		return api.CommandEntry{}, err
	}
	for _, e := range entries {
		if !e.IsChain() && r.loader.IsDisabled(e.Extension) {
			continue
		}
		if e.FriendlyName == name {
			return e, nil
		}
	}
	return api.CommandEntry{}, api.NewCommandNotFoundError(name)
}

// Available returns the commands the agent has enabled. A command is
// available only when the agent's commands map holds its friendly name with
// a value whose lower-cased string form is "true".
func (r *Registry) Available(ctx context.Context, agent api.AgentConfig) ([]api.AvailableCommand, error) {
	entries, err := r.CommandsFor(ctx, agent.Settings)
	if err != nil {
		return nil, err
	}
	var out []api.AvailableCommand
	for _, e := range entries {
		if !e.IsChain() && r.loader.IsDisabled(e.Extension) {
			continue
		}
		flag, ok := agent.Commands[e.FriendlyName]
		if !ok || !api.IsEnabledFlag(flag) {
			continue
		}
		out = append(out, api.AvailableCommand{
			FriendlyName: e.FriendlyName,
			Name:         e.Invocable,
			Args:         e.Params,
			Enabled:      true,
		})
	}
	return out, nil
}

// CommandsList rebuilds the list and returns every friendly name.
func (r *Registry) CommandsList(ctx context.Context) ([]string, error) {
	entries, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.FriendlyName)
	}
	return names, nil
}

// CommandArgs returns a copy of the parameters of the named command.
func (r *Registry) CommandArgs(ctx context.Context, name string) (*api.Params, error) {
	e, err := r.FindCommand(ctx, name)
	if err != nil {
		return nil, err
	}
	return api.CloneParams(e.Params), nil
}

// ChainArgs resolves the free variables of a chain.
func (r *Registry) ChainArgs(ctx context.Context, name string) ([]string, error) {
	return r.resolver.ResolveArgs(ctx, name, r.effectiveSettings(nil))
}

// Extensions describes the enabled extensions.
func (r *Registry) Extensions() ([]api.ExtensionInfo, error) {
	return r.loader.Extensions()
}

// ExtensionSettings returns the construction settings of every enabled
// extension plus a chain_<name> entry for each chain with free variables.
func (r *Registry) ExtensionSettings(ctx context.Context) (map[string]*api.Params, error) {
	settings := r.loader.ExtensionSettings()

	names, err := r.chains.ListChainNames(ctx, r.opts.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chains: %w", err)
	}
	for _, name := range names {
		args, err := r.resolver.ResolveArgs(ctx, name, r.effectiveSettings(nil))
		if err != nil {
			if api.IsChainCycle(err) {
				logging.Warn("Registry", "Skipping chain %s: %v", name, err)
				continue
			}
			return nil, err
		}
		if len(args) > 0 {
			settings["chain_"+name] = chainParams(name, args)
		}
	}
	return settings, nil
}

// Loader exposes the extension loader backing the registry.
func (r *Registry) Loader() *extension.Loader {
	return r.loader
}
