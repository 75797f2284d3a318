package store

import (
	"context"
	"sort"

	"quiver/internal/api"
	"quiver/pkg/logging"
)

// Store is the full contract each backend implements.
type Store interface {
	api.ChainStore
	api.IdentityResolver
	SaveChain(ctx context.Context, chain api.Chain) error
	SaveUser(ctx context.Context, email string) (string, error)
}

// globalOwnerID resolves the default user's id. An unknown default user
// yields "" so only ownerless chains count as global.
func globalOwnerID(ctx context.Context, ids api.IdentityResolver, defaultUser string) string {
	id, err := ids.GetUserID(ctx, defaultUser)
	if err != nil {
		if !api.IsNotFound(err) {
			logging.Warn("Store", "Failed to resolve default user %s: %v", defaultUser, err)
		}
		return ""
	}
	return id
}

// isGlobal reports whether a chain with the given owner is visible to
// everyone.
func isGlobal(owner, globalID string) bool {
	return owner == "" || (globalID != "" && owner == globalID)
}

// partitionChains splits chains into names owned by ownerID and global names,
// each sorted. When ownerID is itself the global owner the global list is
// empty.
func partitionChains(chains []api.Chain, ownerID, globalID string) (own, global []string) {
	ownerIsGlobal := ownerID == "" || ownerID == globalID
	for _, c := range chains {
		switch {
		case isGlobal(c.Owner, globalID):
			global = append(global, c.Name)
		case c.Owner == ownerID:
			own = append(own, c.Name)
		}
	}
	sort.Strings(own)
	sort.Strings(global)
	if ownerIsGlobal {
		return global, nil
	}
	return own, global
}

// mergeChainNames returns own names followed by global names not already
// present.
func mergeChainNames(own, global []string) []string {
	out := make([]string, 0, len(own)+len(global))
	seen := make(map[string]struct{}, len(own))
	for _, name := range own {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, name := range global {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
