package store

import (
	"context"
	"fmt"
	"strings"

	"quiver/internal/api"
	"quiver/internal/config"
	"quiver/pkg/logging"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const (
	chainsDir = "chains"
	usersDir  = "users"
)

type userRecord struct {
	ID    string `yaml:"id"`
	Email string `yaml:"email"`
}

// FileStore keeps chains and users as YAML entities in the config directory.
type FileStore struct {
	storage     *config.Storage
	defaultUser string
}

// NewFileStore creates a file store on top of storage.
func NewFileStore(storage *config.Storage, defaultUser string) *FileStore {
	return &FileStore{storage: storage, defaultUser: defaultUser}
}

func (s *FileStore) SaveUser(ctx context.Context, email string) (string, error) {
	if id, err := s.GetUserID(ctx, email); err == nil {
		return id, nil
	} else if !api.IsNotFound(err) {
		return "", err
	}

	rec := userRecord{ID: uuid.NewString(), Email: email}
	data, err := yaml.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal user %s: %w", email, err)
	}
	if err := s.storage.Save(usersDir, email, data); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (s *FileStore) SaveChain(ctx context.Context, chain api.Chain) error {
	if err := config.ValidateRequired("name", chain.Name, "chain"); err != nil {
		return config.FormatValidationError("chain", "", err)
	}
	data, err := yaml.Marshal(chain)
	if err != nil {
		return fmt.Errorf("failed to marshal chain %s: %w", chain.Name, err)
	}
	return s.storage.Save(chainsDir, chain.Name, data)
}

func (s *FileStore) GetUserID(ctx context.Context, user string) (string, error) {
	names, err := s.storage.List(usersDir)
	if err != nil {
		return "", err
	}
	for _, name := range names {
		var rec userRecord
		if err := s.loadEntity(usersDir, name, &rec); err != nil {
			logging.Warn("Store", "Skipping unreadable user file %s: %v", name, err)
			continue
		}
		if strings.EqualFold(rec.Email, user) {
			return rec.ID, nil
		}
	}
	return "", api.NewUserNotFoundError(user)
}

func (s *FileStore) GetChain(ctx context.Context, name string) (*api.Chain, error) {
	var chain api.Chain
	err := s.loadEntity(chainsDir, name, &chain)
	if err == nil && chain.Name == name {
		return &chain, nil
	}
	if err != nil && !api.IsNotFound(err) {
		return nil, err
	}

	// file names are sanitized, so fall back to matching the name field
	chains, err := s.loadChains()
	if err != nil {
		return nil, err
	}
	for i := range chains {
		if chains[i].Name == name {
			return &chains[i], nil
		}
	}
	return nil, api.NewChainNotFoundError(name)
}

func (s *FileStore) ListChainNames(ctx context.Context, ownerID string) ([]string, error) {
	chains, err := s.loadChains()
	if err != nil {
		return nil, err
	}
	own, global := partitionChains(chains, ownerID, globalOwnerID(ctx, s, s.defaultUser))
	return mergeChainNames(own, global), nil
}

func (s *FileStore) loadChains() ([]api.Chain, error) {
	names, err := s.storage.List(chainsDir)
	if err != nil {
		return nil, err
	}
	chains := make([]api.Chain, 0, len(names))
	for _, file := range names {
		var chain api.Chain
		if err := s.loadEntity(chainsDir, file, &chain); err != nil {
			logging.Warn("Store", "Skipping unreadable chain file %s: %v", file, err)
			continue
		}
		if chain.Name == "" {
			chain.Name = file
		}
		chains = append(chains, chain)
	}
	return chains, nil
}

func (s *FileStore) loadEntity(entityType, name string, out any) error {
	data, err := s.storage.Load(entityType, name)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s/%s: %w", entityType, name, err)
	}
	return nil
}
