package config

import (
	"context"
	"fmt"

	"quiver/internal/api"
	"quiver/pkg/logging"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const agentsDir = "agents"

// AgentStore reads and writes agent definitions under <config dir>/agents.
type AgentStore struct {
	storage *Storage
}

// NewAgentStore creates an agent store on top of storage.
func NewAgentStore(storage *Storage) *AgentStore {
	return &AgentStore{storage: storage}
}

// GetAgentConfig loads the named agent. A missing agent yields a
// *api.NotFoundError; a definition without commands gets an empty map.
func (a *AgentStore) GetAgentConfig(ctx context.Context, name string) (api.AgentConfig, error) {
	data, err := a.storage.Load(agentsDir, name)
	if err != nil {
		if api.IsNotFound(err) {
			return api.AgentConfig{}, api.NewAgentNotFoundError(name)
		}
		return api.AgentConfig{}, err
	}

	var agent api.AgentConfig
	if err := yaml.Unmarshal(data, &agent); err != nil {
		return api.AgentConfig{}, fmt.Errorf("failed to parse agent %s: %w", name, err)
	}
	if agent.Name == "" {
		agent.Name = name
	}
	if agent.Commands == nil {
		agent.Commands = map[string]any{}
	}
	if agent.Settings == nil {
		agent.Settings = map[string]any{}
	}
	return agent, nil
}

// SaveAgent validates and persists agent, assigning an id when it has none.
func (a *AgentStore) SaveAgent(ctx context.Context, agent api.AgentConfig) (api.AgentConfig, error) {
	if err := ValidateAgent(agent); err != nil {
		return api.AgentConfig{}, err
	}
	if agent.ID == "" {
		agent.ID = uuid.NewString()
	}

	data, err := yaml.Marshal(agent)
	if err != nil {
		return api.AgentConfig{}, fmt.Errorf("failed to marshal agent %s: %w", agent.Name, err)
	}
	if err := a.storage.Save(agentsDir, agent.Name, data); err != nil {
		return api.AgentConfig{}, err
	}
	logging.Info("Config", "Saved agent %s (%s)", agent.Name, agent.ID)
	return agent, nil
}

// DeleteAgent removes the named agent. A missing agent yields a
// *api.NotFoundError.
func (a *AgentStore) DeleteAgent(ctx context.Context, name string) error {
	if err := a.storage.Delete(agentsDir, name); err != nil {
		if api.IsNotFound(err) {
			return api.NewAgentNotFoundError(name)
		}
		return err
	}
	return nil
}

// ListAgents returns the stored agent file names.
func (a *AgentStore) ListAgents(ctx context.Context) ([]string, error) {
	return a.storage.List(agentsDir)
}
