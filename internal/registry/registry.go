// Package registry persists which component instances the daemon is hosting.
// The file lives in the user runtime dir so a restarted daemon can reclaim
// still-running windows instead of spawning duplicates.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/deskcanvas/deskcanvas/internal/runtimepath"
)

// Instance records one hosted component window.
type Instance struct {
	ElementID string    `json:"element_id"`
	Component string    `json:"component"`
	Scheme    string    `json:"scheme"`
	PID       int       `json:"pid"`
	WindowID  uint32    `json:"window_id"`
	StartedAt time.Time `json:"started_at"`
}

type registryFile struct {
	Instances map[string]Instance `json:"instances"`
}

// Registry is a file-backed map of element id to hosted instance. All methods
// re-read the file so concurrent daemon and CLI views stay coherent.
type Registry struct {
	mu   sync.Mutex
	path string
}

// New returns a registry stored at path.
func New(path string) *Registry {
	return &Registry{path: path}
}

// Open returns the registry at the default runtime location.
func Open() (*Registry, error) {
	path, err := runtimepath.RegistryPath()
	if err != nil {
		return nil, err
	}
	return New(path), nil
}

func (r *Registry) load() (*registryFile, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &registryFile{Instances: make(map[string]Instance)}, nil
		}
		return nil, fmt.Errorf("failed to read component registry: %w", err)
	}

	var rf registryFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse component registry: %w", err)
	}
	if rf.Instances == nil {
		rf.Instances = make(map[string]Instance)
	}
	return &rf, nil
}

func (r *Registry) save(rf *registryFile) error {
	data, err := json.MarshalIndent(rf, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode component registry: %w", err)
	}
	if err := os.WriteFile(r.path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write component registry: %w", err)
	}
	return nil
}

// Put records or replaces the instance for its element id.
func (r *Registry) Put(inst Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rf, err := r.load()
	if err != nil {
		return err
	}
	rf.Instances[inst.ElementID] = inst
	return r.save(rf)
}

// Remove drops the instance for elementID. Removing an absent id is not an
// error.
func (r *Registry) Remove(elementID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rf, err := r.load()
	if err != nil {
		return err
	}
	if _, ok := rf.Instances[elementID]; !ok {
		return nil
	}
	delete(rf.Instances, elementID)
	return r.save(rf)
}

// Get returns the instance for elementID.
func (r *Registry) Get(elementID string) (Instance, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rf, err := r.load()
	if err != nil {
		return Instance{}, false, err
	}
	inst, ok := rf.Instances[elementID]
	return inst, ok, nil
}

// FindByComponent returns the first instance hosting the named component.
func (r *Registry) FindByComponent(name string) (Instance, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rf, err := r.load()
	if err != nil {
		return Instance{}, false, err
	}
	ids := make([]string, 0, len(rf.Instances))
	for id := range rf.Instances {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if rf.Instances[id].Component == name {
			return rf.Instances[id], true, nil
		}
	}
	return Instance{}, false, nil
}

// List returns all instances ordered by start time.
func (r *Registry) List() ([]Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rf, err := r.load()
	if err != nil {
		return nil, err
	}
	out := make([]Instance, 0, len(rf.Instances))
	for _, inst := range rf.Instances {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}

// Clear removes every instance record.
func (r *Registry) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(&registryFile{Instances: make(map[string]Instance)})
}
