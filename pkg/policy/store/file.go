package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"aegis-hq/aegis/pkg/policy"
)

// ErrReadOnly is returned by Create on the file-backed store. Policies
// in file mode are edited on disk and picked up by the watcher.
var ErrReadOnly = fmt.Errorf("file policy store is read-only")

// policyFile is the on-disk YAML document shape.
type policyFile struct {
	Policies []*policy.Policy `yaml:"policies"`
}

// FileStore implements policy.Store backed by a YAML file or directory
// of YAML files. It serves a snapshot loaded into memory; Watch reloads
// the snapshot on file changes with debouncing to avoid reload storms.
type FileStore struct {
	path   string
	logger *slog.Logger

	mu       sync.RWMutex
	policies []*policy.Policy

	watchOnce sync.Once
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewFileStore creates a file-backed policy store and loads the initial
// snapshot. The path can be a single YAML file or a directory of .yaml
// and .yml files.
func NewFileStore(path string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &FileStore{
		path:   path,
		logger: logger.With("component", "policy.store.file"),
		stopCh: make(chan struct{}),
	}

	if err := s.Reload(); err != nil {
		return nil, err
	}

	return s, nil
}

// Reload re-reads the policy files and atomically replaces the snapshot.
func (s *FileStore) Reload() error {
	info, err := os.Stat(s.path)
	if err != nil {
		return policy.NewStoreError("file", "stat", err)
	}

	var policies []*policy.Policy
	if info.IsDir() {
		policies, err = s.loadDirectory()
	} else {
		policies, err = s.loadFile(s.path)
	}
	if err != nil {
		return err
	}

	for _, p := range policies {
		if err := policy.Validate(p); err != nil {
			return policy.NewStoreError("file", "validate", err)
		}
		// Policy files commonly omit ids. Derive one from the customer
		// and name, stable across reloads, so a firing policy is still
		// attributable in audit records.
		if p.ID == "" {
			p.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(p.CustomerID+"/"+p.Name)).String()
		}
	}

	s.mu.Lock()
	s.policies = policies
	s.mu.Unlock()

	s.logger.Info("policies loaded from file source",
		"path", s.path,
		"policy_count", len(policies),
	)

	return nil
}

// loadDirectory loads all YAML policy files from a directory.
func (s *FileStore) loadDirectory() ([]*policy.Policy, error) {
	var policies []*policy.Policy

	err := filepath.Walk(s.path, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		filePolicies, err := s.loadFile(path)
		if err != nil {
			s.logger.Warn("failed to load policy file, skipping",
				"path", path,
				"error", err,
			)
			return nil
		}

		policies = append(policies, filePolicies...)
		return nil
	})
	if err != nil {
		return nil, policy.NewStoreError("file", "walk", err)
	}

	return policies, nil
}

// loadFile loads one YAML policy file.
func (s *FileStore) loadFile(path string) ([]*policy.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, policy.NewStoreError("file", "read", err)
	}

	var doc policyFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, policy.NewStoreError("file", "parse", err)
	}

	s.logger.Debug("loaded policy file",
		"path", path,
		"policy_count", len(doc.Policies),
	)

	return doc.Policies, nil
}

// FetchEnabled returns enabled policies applicable to the agent, in
// file order.
func (s *FileStore) FetchEnabled(ctx context.Context, agentID string) ([]*policy.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*policy.Policy
	for _, p := range s.policies {
		if p.Enabled && p.AppliesTo(agentID) {
			cp := *p
			results = append(results, &cp)
		}
	}
	return results, nil
}

// Create is not supported in file mode.
func (s *FileStore) Create(ctx context.Context, p *policy.Policy) error {
	return policy.NewStoreError("file", "create", ErrReadOnly)
}

// List returns all policies in file order.
func (s *FileStore) List(ctx context.Context) ([]*policy.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*policy.Policy, 0, len(s.policies))
	for _, p := range s.policies {
		cp := *p
		results = append(results, &cp)
	}
	return results, nil
}

// Watch starts watching the policy path for changes, reloading the
// snapshot on each (debounced) change. It returns immediately; the
// watcher runs until the context is cancelled or Close is called.
func (s *FileStore) Watch(ctx context.Context, debounceInterval time.Duration) error {
	if debounceInterval <= 0 {
		debounceInterval = 100 * time.Millisecond
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return policy.NewStoreError("file", "watch", err)
	}

	watchPath := s.path
	if info, err := os.Stat(s.path); err == nil && !info.IsDir() {
		// Watch the parent directory so editor rename-replace saves
		// are still observed.
		watchPath = filepath.Dir(s.path)
	}
	if err := watcher.Add(watchPath); err != nil {
		watcher.Close()
		return policy.NewStoreError("file", "watch", err)
	}

	debounce := newDebouncer(debounceInterval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer watcher.Close()
		defer debounce.stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !s.shouldProcessEvent(event) {
					continue
				}
				s.logger.Debug("policy file event",
					"path", event.Name,
					"op", event.Op.String(),
				)
				debounce.trigger(func() {
					if err := s.Reload(); err != nil {
						s.logger.Error("policy reload failed",
							"error", err,
						)
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Error("policy watcher error", "error", err)
			}
		}
	}()

	s.logger.Info("policy file watcher started",
		"path", s.path,
		"debounce_ms", debounceInterval.Milliseconds(),
	)

	return nil
}

// shouldProcessEvent filters watcher events down to YAML content changes.
func (s *FileStore) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	ext := filepath.Ext(event.Name)
	return ext == ".yaml" || ext == ".yml"
}

// Close stops the watcher, if running.
func (s *FileStore) Close() error {
	s.watchOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
	return nil
}

// debouncer collects rapid events and runs the callback only after a
// quiet period.
type debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	stopped  bool
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{interval: interval}
}

// trigger schedules the callback after the debounce interval, replacing
// any previously scheduled callback.
func (d *debouncer) trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, callback)
}

// stop cancels any pending callback.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
