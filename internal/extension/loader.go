package extension

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"quiver/internal/api"
	"quiver/pkg/logging"
)

// ParseDisabled splits a comma-separated disabled-extension list, stripping
// whitespace and dropping empty items.
func ParseDisabled(csv string) []string {
	var out []string
	for _, item := range strings.Split(strings.ReplaceAll(csv, " ", ""), ",") {
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Loader builds command entries from the extensions in a catalog.
type Loader struct {
	catalog *Catalog

	mu       sync.RWMutex
	disabled map[string]struct{}
}

// NewLoader creates a loader over catalog. Extensions named in disabled are
// treated as absent.
func NewLoader(catalog *Catalog, disabled []string) *Loader {
	l := &Loader{catalog: catalog}
	l.SetDisabled(disabled)
	return l
}

// SetDisabled replaces the disabled set, e.g. after a configuration reload.
func (l *Loader) SetDisabled(names []string) {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" {
			set[name] = struct{}{}
		}
	}
	l.mu.Lock()
	l.disabled = set
	l.mu.Unlock()
}

// IsDisabled reports whether the extension is administratively disabled.
func (l *Loader) IsDisabled(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.disabled[name]
	return ok
}

// Disabled returns the disabled extension identifiers, sorted.
func (l *Loader) Disabled() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.disabled))
	for name := range l.disabled {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (l *Loader) enabledDefinitions() []Definition {
	var defs []Definition
	for _, def := range l.catalog.Definitions() {
		if l.IsDisabled(def.Name) {
			logging.Debug("ExtensionLoader", "Skipping disabled extension %s", def.Name)
			continue
		}
		defs = append(defs, def)
	}
	return defs
}

// instantiate constructs a provider. A nil provider means the definition
// does not satisfy the provider contract; it is reported as (nil, nil) so
// callers can skip it.
func instantiate(def Definition, settings map[string]any) (api.Provider, error) {
	provider, err := def.New(&api.ExecutionContext{Settings: settings})
	if err != nil {
		return nil, fmt.Errorf("failed to construct extension %s: %w", def.Name, err)
	}
	if provider == nil {
		logging.Debug("ExtensionLoader", "Extension %s did not produce a provider, skipping", def.Name)
		return nil, nil
	}
	return provider, nil
}

// LoadCommands constructs every enabled extension with settings and returns
// one entry per command, in catalog order then command-table order.
// Construction errors abort the load.
func (l *Loader) LoadCommands(settings map[string]any) ([]api.CommandEntry, error) {
	var entries []api.CommandEntry
	for _, def := range l.enabledDefinitions() {
		provider, err := instantiate(def, settings)
		if err != nil {
			return nil, err
		}
		if provider == nil {
			continue
		}
		for _, cmd := range provider.Commands() {
			entries = append(entries, api.CommandEntry{
				FriendlyName: cmd.Name,
				Extension:    def.Name,
				Invocable:    cmd.Function,
				Params:       IntrospectCommand(cmd),
				Description:  cmd.Description,
			})
		}
	}
	logging.Debug("ExtensionLoader", "Loaded %d extension commands", len(entries))
	return entries, nil
}

// CommandArgs returns the declared parameters of the first enabled
// extension command with the given friendly name. Extensions are built with
// settings, so commands of settings-gated extensions are found only when
// settings enable them.
func (l *Loader) CommandArgs(name string, settings map[string]any) (*api.Params, bool) {
	for _, def := range l.enabledDefinitions() {
		provider, err := instantiate(def, settings)
		if err != nil {
			logging.Warn("ExtensionLoader", "Cannot inspect extension %s: %v", def.Name, err)
			continue
		}
		if provider == nil {
			continue
		}
		for _, cmd := range provider.Commands() {
			if cmd.Name == name {
				return IntrospectCommand(cmd), true
			}
		}
	}
	return nil, false
}

// Instantiate constructs a fresh provider for the named extension using the
// given execution context. Disabled and unknown extensions yield a
// NotFoundError.
func (l *Loader) Instantiate(name string, ec *api.ExecutionContext) (api.Provider, error) {
	if l.IsDisabled(name) {
		return nil, api.NewExtensionNotFoundError(name)
	}
	def, ok := l.catalog.Lookup(name)
	if !ok {
		return nil, api.NewExtensionNotFoundError(name)
	}
	provider, err := def.New(ec)
	if err != nil {
		return nil, fmt.Errorf("failed to construct extension %s: %w", name, err)
	}
	if provider == nil {
		return nil, api.NewExtensionNotFoundError(name)
	}
	return provider, nil
}

// Extensions describes every enabled extension: display name, description,
// declared settings and commands.
func (l *Loader) Extensions() ([]api.ExtensionInfo, error) {
	var infos []api.ExtensionInfo
	for _, def := range l.enabledDefinitions() {
		provider, err := instantiate(def, nil)
		if err != nil {
			return nil, err
		}
		if provider == nil {
			continue
		}

		description := def.Description
		if description == "" {
			description = def.DisplayName()
		}

		settings := []string{}
		for _, s := range def.Settings {
			if s.Name != selfParam {
				settings = append(settings, s.Name)
			}
		}

		commands := []api.CommandInfo{}
		for _, cmd := range provider.Commands() {
			cmdDescription := cmd.Description
			if cmdDescription == "" {
				cmdDescription = cmd.Name
			}
			commands = append(commands, api.CommandInfo{
				FriendlyName: cmd.Name,
				Description:  cmdDescription,
				CommandName:  cmd.Function,
				CommandArgs:  IntrospectCommand(cmd),
			})
		}

		infos = append(infos, api.ExtensionInfo{
			ExtensionName: def.DisplayName(),
			Description:   description,
			Settings:      settings,
			Commands:      commands,
		})
	}
	return infos, nil
}

// ExtensionSettings returns the declared construction settings of every
// enabled extension that has any, keyed by extension identifier.
func (l *Loader) ExtensionSettings() map[string]*api.Params {
	out := make(map[string]*api.Params)
	for _, def := range l.enabledDefinitions() {
		params := Introspect(def.Settings)
		if params.Len() > 0 {
			out[def.Name] = params
		}
	}
	return out
}
