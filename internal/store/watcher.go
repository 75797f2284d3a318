package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"quiver/pkg/logging"
)

// ChangeKind identifies what a watched file defines.
type ChangeKind string

const (
	ChangeKindConfig ChangeKind = "config"
	ChangeKindChain  ChangeKind = "chains"
	ChangeKindUser   ChangeKind = "users"
	ChangeKindAgent  ChangeKind = "agents"
)

// Operation is the kind of filesystem change.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// Change is a debounced change to one watched file.
type Change struct {
	Kind      ChangeKind
	Name      string
	Operation Operation
	Path      string
}

// watchedDirs are the entity directories under the base path.
var watchedDirs = []ChangeKind{ChangeKindChain, ChangeKindUser, ChangeKindAgent}

// Watcher reports changes to config.yaml and the entity directories under a
// config directory. Rapid successive events for the same file are folded
// into one callback.
type Watcher struct {
	mu sync.Mutex

	basePath string
	debounce time.Duration
	onChange func(Change)

	watcher *fsnotify.Watcher
	pending map[string]*pendingChange
	stopCh  chan struct{}
	running bool
}

type pendingChange struct {
	change Change
	timer  *time.Timer
}

// NewWatcher creates a watcher over basePath. A zero debounce defaults to
// 500ms.
func NewWatcher(basePath string, debounce time.Duration, onChange func(Change)) *Watcher {
	if debounce == 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		basePath: basePath,
		debounce: debounce,
		onChange: onChange,
		pending:  make(map[string]*pendingChange),
	}
}

// Start begins watching. It creates missing entity directories.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.watcher = fw
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	if err := fw.Add(w.basePath); err != nil {
		_ = w.Stop()
		return err
	}
	for _, kind := range watchedDirs {
		dir := filepath.Join(w.basePath, string(kind))
		if err := os.MkdirAll(dir, 0755); err != nil {
			logging.Warn("Watcher", "Failed to create %s: %v", dir, err)
			continue
		}
		if err := fw.Add(dir); err != nil {
			logging.Warn("Watcher", "Failed to watch %s: %v", dir, err)
			continue
		}
		logging.Debug("Watcher", "Watching directory: %s", dir)
	}

	go w.processEvents(ctx, fw, w.stopCh)

	logging.Info("Watcher", "Started watching %s for configuration changes", w.basePath)
	return nil
}

func (w *Watcher) processEvents(ctx context.Context, fw *fsnotify.Watcher, stopCh chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return
		case <-stopCh:
			w.cancelPending()
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logging.Error("Watcher", err, "Filesystem watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !isYAMLFile(event.Name) {
		return
	}
	kind, name := w.classify(event.Name)
	if kind == "" {
		return
	}

	var op Operation
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		op = OperationCreate
	case event.Op&fsnotify.Write == fsnotify.Write:
		op = OperationUpdate
	case event.Op&fsnotify.Remove == fsnotify.Remove, event.Op&fsnotify.Rename == fsnotify.Rename:
		op = OperationDelete
	default:
		return
	}

	w.schedule(Change{Kind: kind, Name: name, Operation: op, Path: event.Name})
}

func (w *Watcher) schedule(change Change) {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := string(change.Kind) + "/" + change.Name
	if p, ok := w.pending[key]; ok {
		p.timer.Stop()
		change.Operation = mergeOperations(p.change.Operation, change.Operation)
	}

	entry := &pendingChange{change: change}
	entry.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		current, ok := w.pending[key]
		if ok && current == entry {
			delete(w.pending, key)
		}
		w.mu.Unlock()

		if ok && current == entry {
			logging.Debug("Watcher", "Change: %s %s/%s", change.Operation, change.Kind, change.Name)
			w.onChange(change)
		}
	})
	w.pending[key] = entry
}

// mergeOperations folds two successive operations on the same file.
func mergeOperations(old, new Operation) Operation {
	if old == OperationCreate && new != OperationDelete {
		return OperationCreate
	}
	return new
}

// classify maps a path to its change kind and entity name.
func (w *Watcher) classify(path string) (ChangeKind, string) {
	rel, err := filepath.Rel(w.basePath, path)
	if err != nil {
		return "", ""
	}
	parts := strings.Split(rel, string(filepath.Separator))
	name := strings.TrimSuffix(strings.TrimSuffix(parts[len(parts)-1], ".yaml"), ".yml")

	switch len(parts) {
	case 1:
		if parts[0] == "config.yaml" || parts[0] == "config.yml" {
			return ChangeKindConfig, name
		}
	case 2:
		for _, kind := range watchedDirs {
			if parts[0] == string(kind) {
				return kind, name
			}
		}
	}
	return "", ""
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range w.pending {
		p.timer.Stop()
	}
	w.pending = make(map[string]*pendingChange)
}

// Stop stops watching. Pending changes are discarded.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.running = false
	close(w.stopCh)

	var err error
	if w.watcher != nil {
		err = w.watcher.Close()
		w.watcher = nil
	}
	logging.Info("Watcher", "Stopped watching %s", w.basePath)
	return err
}

func isYAMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
