package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"quiver/internal/api"
	"quiver/pkg/logging"
)

// entityExts are the file extensions recognised as entity files, in lookup
// order. New files are always written with the first one.
var entityExts = []string{".yaml", ".yml"}

var unsafeFilenameChars = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_", ".", "_", " ", "_",
)

// Storage persists YAML entities (agents, chains, users) under a single
// configuration directory, one file per entity:
//
//	<config dir>/<entity type>/<sanitized name>.yaml
//
// An empty root resolves to the user configuration directory on each call.
type Storage struct {
	mu   sync.RWMutex
	root string
}

// NewStorageWithPath creates a Storage rooted at configPath.
func NewStorageWithPath(configPath string) *Storage {
	return &Storage{root: configPath}
}

// Save writes data as the entity name of the given type, creating the
// entity directory when needed.
func (ds *Storage) Save(entityType string, name string, data []byte) error {
	if err := checkEntityRef(entityType, name); err != nil {
		return err
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	dir, err := ds.EntityDir(entityType)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, sanitizeFilename(name)+entityExts[0])
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	logging.Debug("Storage", "Saved %s %q to %s", entityResource(entityType), name, path)
	return nil
}

// Load returns the content of the named entity. A missing entity is an
// api.NotFoundError.
func (ds *Storage) Load(entityType string, name string) ([]byte, error) {
	if err := checkEntityRef(entityType, name); err != nil {
		return nil, err
	}

	ds.mu.RLock()
	defer ds.mu.RUnlock()

	path, err := ds.find(entityType, name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Delete removes the named entity.
func (ds *Storage) Delete(entityType string, name string) error {
	if err := checkEntityRef(entityType, name); err != nil {
		return err
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	path, err := ds.find(entityType, name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}

	logging.Info("Storage", "Deleted %s %q", entityResource(entityType), name)
	return nil
}

// List returns the sorted file names (without extension) of every entity of
// the given type. A missing directory yields an empty list.
func (ds *Storage) List(entityType string) ([]string, error) {
	if entityType == "" {
		return nil, errors.New("entity type cannot be empty")
	}

	ds.mu.RLock()
	defer ds.mu.RUnlock()

	dir, err := ds.EntityDir(entityType)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", entityType, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if !isEntityExt(ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	sort.Strings(names)
	return names, nil
}

// EntityDir returns the directory holding entities of the given type.
func (ds *Storage) EntityDir(entityType string) (string, error) {
	root := ds.root
	if root == "" {
		var err error
		if root, err = GetUserConfigDir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(root, entityType), nil
}

// find returns the path of an existing entity file.
func (ds *Storage) find(entityType, name string) (string, error) {
	dir, err := ds.EntityDir(entityType)
	if err != nil {
		return "", err
	}
	base := sanitizeFilename(name)
	for _, ext := range entityExts {
		path := filepath.Join(dir, base+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", api.NewNotFoundError(entityResource(entityType), name)
}

func checkEntityRef(entityType, name string) error {
	if entityType == "" {
		return errors.New("entity type cannot be empty")
	}
	if name == "" {
		return errors.New("entity name cannot be empty")
	}
	return nil
}

func isEntityExt(ext string) bool {
	for _, e := range entityExts {
		if ext == e {
			return true
		}
	}
	return false
}

// entityResource maps a directory name to the resource name used in errors.
func entityResource(entityType string) string {
	return strings.TrimSuffix(entityType, "s")
}

// sanitizeFilename maps an entity name to a safe file name: unsafe
// characters and spaces become single underscores, trimmed at both ends.
func sanitizeFilename(name string) string {
	s := unsafeFilenameChars.Replace(name)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	s = strings.Trim(s, "_")
	if s == "" {
		return "unnamed"
	}
	return s
}
