package extension

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"quiver/internal/api"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Definition describes one extension: its identifier, declared construction
// settings and the factory that builds provider instances.
type Definition struct {
	// Name is the extension identifier matched against the disabled set.
	Name        string
	Description string
	// Settings declares the construction-time settings the extension reads.
	Settings []api.Param
	New      api.ExtensionFactory
}

// DisplayName renders the identifier for catalog listings
// ("file_system" becomes "File System").
func (d Definition) DisplayName() string {
	return cases.Title(language.English).String(strings.ReplaceAll(d.Name, "_", " "))
}

// Catalog is the set of known extensions.
type Catalog struct {
	mu     sync.RWMutex
	defs   map[string]Definition
	frozen bool
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{defs: make(map[string]Definition)}
}

// Register adds an extension definition. Definitions without a name or
// factory, duplicate names and registrations after the catalog has been
// enumerated are rejected.
func (c *Catalog) Register(def Definition) error {
	if strings.TrimSpace(def.Name) == "" {
		return fmt.Errorf("extension name cannot be empty")
	}
	if def.New == nil {
		return fmt.Errorf("extension %s has no provider factory", def.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen {
		return fmt.Errorf("cannot register extension %s: catalog already loaded", def.Name)
	}
	if _, exists := c.defs[def.Name]; exists {
		return fmt.Errorf("extension %s already registered", def.Name)
	}
	c.defs[def.Name] = def
	return nil
}

// Lookup returns the definition registered under name.
func (c *Catalog) Lookup(name string) (Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.defs[name]
	return def, ok
}

// Definitions returns every registered definition sorted by name and
// freezes the catalog.
func (c *Catalog) Definitions() []Definition {
	c.mu.Lock()
	c.frozen = true
	defs := make([]Definition, 0, len(c.defs))
	for _, def := range c.defs {
		defs = append(defs, def)
	}
	c.mu.Unlock()

	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}
