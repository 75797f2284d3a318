package store

import (
	"context"
	"strings"
	"sync"

	"quiver/internal/api"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu          sync.RWMutex
	defaultUser string
	users       map[string]string
	chains      map[string]api.Chain
}

// NewMemoryStore creates an empty store whose global chains belong to
// defaultUser.
func NewMemoryStore(defaultUser string) *MemoryStore {
	return &MemoryStore{
		defaultUser: defaultUser,
		users:       make(map[string]string),
		chains:      make(map[string]api.Chain),
	}
}

// SaveUser registers email and returns its id. Saving a known user returns
// the existing id.
func (s *MemoryStore) SaveUser(ctx context.Context, email string) (string, error) {
	key := strings.ToLower(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.users[key]; ok {
		return id, nil
	}
	id := uuid.NewString()
	s.users[key] = id
	return id, nil
}

// SaveChain inserts or replaces the chain with the same name.
func (s *MemoryStore) SaveChain(ctx context.Context, chain api.Chain) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chains[chain.Name] = chain
	return nil
}

func (s *MemoryStore) GetUserID(ctx context.Context, user string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.users[strings.ToLower(user)]
	if !ok {
		return "", api.NewUserNotFoundError(user)
	}
	return id, nil
}

func (s *MemoryStore) GetChain(ctx context.Context, name string) (*api.Chain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chains[name]
	if !ok {
		return nil, api.NewChainNotFoundError(name)
	}
	return &c, nil
}

func (s *MemoryStore) ListChainNames(ctx context.Context, ownerID string) ([]string, error) {
	globalID := globalOwnerID(ctx, s, s.defaultUser)

	s.mu.RLock()
	chains := make([]api.Chain, 0, len(s.chains))
	for _, c := range s.chains {
		chains = append(chains, c)
	}
	s.mu.RUnlock()

	own, global := partitionChains(chains, ownerID, globalID)
	return mergeChainNames(own, global), nil
}
