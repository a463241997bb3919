// Package discovery resolves internal component references to runnable
// commands and launches host processes whose windows the canvas adopts.
package discovery

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/deskcanvas/deskcanvas/internal/compuri"
	"github.com/deskcanvas/deskcanvas/internal/config"
)

// Component is a resolved, runnable component.
type Component struct {
	Name        string
	Description string
	Command     string
	Args        []string
	Env         []string
	ParamFlag   string
	Timeout     time.Duration
}

// Resolver maps component references to runnable components.
type Resolver interface {
	// Resolve returns the component for ref, or an error naming why the
	// reference cannot be served.
	Resolve(ref *compuri.ComponentRef) (*Component, error)
	// List returns all known components sorted by name.
	List() []Component
}

// ConfigResolver resolves components from the loaded configuration catalog.
// The catalog can be swapped at runtime when the configuration reloads.
type ConfigResolver struct {
	mu  sync.RWMutex
	cfg *config.Config
}

// NewConfigResolver returns a resolver backed by cfg's component catalog.
func NewConfigResolver(cfg *config.Config) *ConfigResolver {
	return &ConfigResolver{cfg: cfg}
}

// SetConfig replaces the backing configuration.
func (r *ConfigResolver) SetConfig(cfg *config.Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = cfg
}

// UnknownComponentError reports a reference to a component not present in the
// catalog.
type UnknownComponentError struct {
	Name string
}

func (e *UnknownComponentError) Error() string {
	return "unknown component " + e.Name
}

// UnconfiguredComponentError reports a cataloged component with no launch
// command. The catalog ships entries without commands so the user sees what
// exists; launching one still requires filling in the command.
type UnconfiguredComponentError struct {
	Name string
}

func (e *UnconfiguredComponentError) Error() string {
	return "component " + e.Name + " has no command configured"
}

func (r *ConfigResolver) Resolve(ref *compuri.ComponentRef) (*Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cc, ok := r.cfg.Components[ref.Component]
	if !ok {
		return nil, &UnknownComponentError{Name: ref.Component}
	}
	if strings.TrimSpace(cc.Command) == "" {
		return nil, &UnconfiguredComponentError{Name: ref.Component}
	}
	return &Component{
		Name:        ref.Component,
		Description: cc.Description,
		Command:     cc.Command,
		Args:        append([]string(nil), cc.Args...),
		Env:         envSlice(cc.Env),
		ParamFlag:   cc.ParamFlag,
		Timeout:     r.cfg.ComponentTimeout(ref.Component),
	}, nil
}

func (r *ConfigResolver) List() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := r.cfg.ComponentNames()
	out := make([]Component, 0, len(names))
	for _, name := range names {
		cc := r.cfg.Components[name]
		out = append(out, Component{
			Name:        name,
			Description: cc.Description,
			Command:     cc.Command,
			Args:        append([]string(nil), cc.Args...),
			Env:         envSlice(cc.Env),
			ParamFlag:   cc.ParamFlag,
			Timeout:     r.cfg.ComponentTimeout(name),
		})
	}
	return out
}

// envSlice renders a config env map as KEY=VALUE pairs in stable order.
func envSlice(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}
