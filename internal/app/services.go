package app

import (
	"context"
	"errors"
	"fmt"

	"quiver/internal/api"
	"quiver/internal/chain"
	"quiver/internal/client"
	"quiver/internal/config"
	"quiver/internal/dispatch"
	"quiver/internal/extension"
	"quiver/internal/extensions"
	"quiver/internal/registry"
	"quiver/internal/server"
	"quiver/internal/store"
	"quiver/pkg/logging"

	"go.opentelemetry.io/otel/trace"
)

// Services holds every initialized component.
type Services struct {
	Config config.Config

	Store  store.Store
	Agents *config.AgentStore
	// OwnerID is the store id of the default user.
	OwnerID string

	// Orchestrator is nil when no API URL is configured; chain commands
	// then fail and prompt steps contribute no parameters.
	Orchestrator api.Orchestrator
	// PromptCache is nil when no Redis URL is configured.
	PromptCache *client.PromptArgsCache

	Loader     *extension.Loader
	Registry   *registry.Registry
	Dispatcher *dispatch.Dispatcher

	// MCP is nil when the MCP endpoint is disabled.
	MCP  *server.MCPServer
	HTTP *server.HTTPServer

	// Watcher is nil unless store.watch is enabled.
	Watcher *store.Watcher

	TracerProvider trace.TracerProvider

	configDir string
	closers   []func(context.Context) error
}

// InitializeServices assembles the component graph. Optional components
// that fail to start (the Redis cache) are logged and skipped; failures of
// the store or the extension catalog are fatal.
func InitializeServices(ctx context.Context, cfg *Config) (*Services, error) {
	qc := *cfg.QuiverConfig
	s := &Services{Config: qc, configDir: cfg.configDir()}

	tp, shutdown, err := newTracerProvider(qc.Tracing.Enabled)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	s.TracerProvider = tp
	s.closers = append(s.closers, shutdown)

	storage := config.NewStorageWithPath(s.configDir)
	st, closeStore, err := openStore(qc.Store, storage)
	if err != nil {
		return nil, err
	}
	s.Store = st
	if closeStore != nil {
		s.closers = append(s.closers, func(context.Context) error { return closeStore() })
	}
	s.Agents = config.NewAgentStore(storage)

	ownerID, err := ensureUser(ctx, st, qc.Store.DefaultUser)
	if err != nil {
		return nil, err
	}
	s.OwnerID = ownerID

	var prompts api.PromptArgsSource
	if qc.Client.APIURL != "" {
		c := client.New(qc.Client.APIURL, qc.Client.APIKey, qc.Client.Timeout)
		prompts = c
		if qc.Cache.RedisURL != "" {
			rdb, err := client.NewRedis(ctx, qc.Cache.RedisURL)
			if err != nil {
				logging.Warn("Bootstrap", "Prompt cache disabled: %v", err)
			} else {
				s.PromptCache = client.NewPromptArgsCache(c, rdb, qc.Cache.TTL)
				prompts = s.PromptCache
				s.closers = append(s.closers, func(context.Context) error { return rdb.Close() })
			}
		}
		s.Orchestrator = client.Orchestrator{ChainRunner: c, PromptArgsSource: prompts}
	} else {
		logging.Warn("Bootstrap", "No API URL configured, chains cannot be run")
	}

	catalog := extension.NewCatalog()
	if err := extensions.RegisterBuiltins(catalog, extensions.Options{RedisURL: qc.Cache.RedisURL}); err != nil {
		return nil, fmt.Errorf("failed to register extensions: %w", err)
	}
	s.Loader = extension.NewLoader(catalog, qc.Extensions.Disabled)

	resolver := chain.NewResolver(st, prompts, s.Loader)
	resolver.SetTracerProvider(tp)
	s.Registry = registry.New(s.Loader, st, resolver, registry.Options{
		OwnerID:         ownerID,
		Settings:        qc.Extensions.Settings,
		RefreshInterval: qc.Registry.RefreshInterval,
	})

	s.Dispatcher = dispatch.New(s.Registry, s.Agents, dispatch.Options{
		User:          qc.Store.DefaultUser,
		APIKey:        qc.Client.APIKey,
		WorkspaceRoot: qc.WorkingDirectory,
		Orchestrator:  s.Orchestrator,
	})
	s.Dispatcher.SetTracerProvider(tp)

	if qc.MCP.Enabled {
		s.MCP = server.NewMCPServer(s.Registry, s.Dispatcher, s.Agents, qc.MCP.Agent, cfg.Version)
	}
	s.HTTP = server.NewHTTPServer(s.Registry, s.Dispatcher, s.Agents, s.MCP, cfg.Version)

	if qc.Store.Watch {
		s.Watcher = store.NewWatcher(s.configDir, 0, func(change store.Change) {
			s.HandleChange(context.Background(), change)
		})
	}

	logging.Info("Bootstrap", "Initialized services (store=%s, disabled extensions=%v)", qc.Store.Driver, s.Loader.Disabled())
	return s, nil
}

func openStore(cfg config.StoreConfig, storage *config.Storage) (store.Store, func() error, error) {
	switch cfg.Driver {
	case config.StoreDriverPostgres:
		st, err := store.OpenSQLStore(cfg.DSN, cfg.DefaultUser)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		return st, st.Close, nil
	case config.StoreDriverMemory:
		return store.NewMemoryStore(cfg.DefaultUser), nil, nil
	default:
		return store.NewFileStore(storage, cfg.DefaultUser), nil, nil
	}
}

// ensureUser returns the id of user, creating the user when the store does
// not know it yet.
func ensureUser(ctx context.Context, st store.Store, user string) (string, error) {
	id, err := st.GetUserID(ctx, user)
	if err == nil {
		return id, nil
	}
	if !api.IsNotFound(err) {
		return "", fmt.Errorf("failed to resolve user %s: %w", user, err)
	}
	id, err = st.SaveUser(ctx, user)
	if err != nil {
		return "", fmt.Errorf("failed to create user %s: %w", user, err)
	}
	logging.Info("Bootstrap", "Created user %s", user)
	return id, nil
}

// HandleChange applies a change under the config directory.
func (s *Services) HandleChange(ctx context.Context, change store.Change) {
	logging.Info("Bootstrap", "Detected %s of %s %s", change.Operation, change.Kind, change.Name)

	switch change.Kind {
	case store.ChangeKindConfig:
		cfg, err := config.LoadConfig(s.configDir)
		if err != nil {
			logging.Error("Bootstrap", err, "Ignoring invalid configuration change")
			return
		}
		s.Loader.SetDisabled(cfg.Extensions.Disabled)
		s.Registry.SetSettings(cfg.Extensions.Settings)
		s.invalidatePrompts(ctx)
	case store.ChangeKindChain:
		s.Registry.Invalidate()
		s.invalidatePrompts(ctx)
	case store.ChangeKindUser:
		s.Registry.Invalidate()
	}

	s.SyncTools(ctx)
}

// invalidatePrompts drops cached prompt arguments so chains resolve
// against the current prompts.
func (s *Services) invalidatePrompts(ctx context.Context) {
	if s.PromptCache == nil {
		return
	}
	if err := s.PromptCache.Invalidate(ctx); err != nil {
		logging.Warn("Bootstrap", "Failed to invalidate prompt cache: %v", err)
	}
}

// SyncTools re-publishes MCP tools, logging failures.
func (s *Services) SyncTools(ctx context.Context) {
	if s.MCP == nil {
		return
	}
	if err := s.MCP.SyncTools(ctx); err != nil {
		logging.Error("Bootstrap", err, "Failed to publish MCP tools")
	}
}

// Close releases resources in reverse order of acquisition.
func (s *Services) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
