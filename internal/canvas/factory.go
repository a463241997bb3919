package canvas

import (
	"context"
	"log/slog"
	"time"

	"github.com/deskcanvas/deskcanvas/internal/compuri"
	"github.com/deskcanvas/deskcanvas/internal/config"
	"github.com/deskcanvas/deskcanvas/internal/discovery"
	"github.com/deskcanvas/deskcanvas/internal/platform"
	"github.com/deskcanvas/deskcanvas/internal/registry"
)

// ParamsProperty is the window property used to forward query parameters to a
// component instance that is already running.
const ParamsProperty = "_DESKCANVAS_PARAMS"

// WindowLauncher starts a host process and returns the adopted window.
type WindowLauncher interface {
	Launch(ctx context.Context, spec discovery.LaunchSpec) (platform.WindowID, int, error)
}

// Factory materializes create requests into live windows. It decides between
// the browser branch for URLs and the discovery branch for internal
// components.
type Factory struct {
	backend  platform.Backend
	resolver discovery.Resolver
	launcher WindowLauncher
	registry *registry.Registry
	browser  config.BrowserConfig
	timeout  time.Duration
	logger   *slog.Logger
}

// NewFactory builds a factory. reg may be nil; reclaiming previously hosted
// component windows is then disabled.
func NewFactory(backend platform.Backend, resolver discovery.Resolver, launcher WindowLauncher, reg *registry.Registry, cfg *config.Config, logger *slog.Logger) *Factory {
	return &Factory{
		backend:  backend,
		resolver: resolver,
		launcher: launcher,
		registry: reg,
		browser:  cfg.Browser,
		timeout:  cfg.LoadTimeout(),
		logger:   logger,
	}
}

// materialized is the outcome of one factory branch: a live window and the
// content record describing it.
type materialized struct {
	window    platform.WindowID
	pid       int
	content   Content
	component string
	reclaimed bool
}

// materializeURL launches the configured browser in app mode on the
// normalized URL.
func (f *Factory) materializeURL(ctx context.Context, source string) (*materialized, error) {
	normalized := compuri.NormalizeURL(source)

	args := discovery.ExpandArgs(f.browser.Args, map[string]string{"url": normalized})
	win, pid, err := f.launcher.Launch(ctx, discovery.LaunchSpec{
		Command: f.browser.Command,
		Args:    args,
		Timeout: f.timeout,
	})
	if err != nil {
		return nil, &LoadError{Source: normalized, Err: err}
	}

	return &materialized{
		window: win,
		pid:    pid,
		content: Content{
			Type:   ContentURL,
			Source: normalized,
		},
	}, nil
}

// materializeComponent resolves ref against the component catalog and either
// reclaims a still-running instance from the registry or launches a fresh
// one. Query parameters ride along as command-line arguments on launch and as
// a window property on reclaim.
func (f *Factory) materializeComponent(ctx context.Context, ref *compuri.ComponentRef, source string) (*materialized, error) {
	comp, err := f.resolver.Resolve(ref)
	if err != nil {
		return nil, &ResolutionError{Source: source, Reason: err.Error()}
	}

	if inst, ok := f.reclaim(comp.Name); ok {
		win := platform.WindowID(inst.WindowID)
		if len(ref.Params) > 0 {
			if err := f.backend.SetProperty(win, ParamsProperty, discovery.EncodeParams(ref.Params)); err != nil {
				f.logger.Warn("failed to forward params to running component", "component", comp.Name, "error", err)
			}
		}
		f.logger.Debug("reclaimed component window", "component", comp.Name, "window", win, "pid", inst.PID)
		return &materialized{
			window:    win,
			pid:       inst.PID,
			component: comp.Name,
			reclaimed: true,
			content:   componentContent(comp.Name, ref, source),
		}, nil
	}

	args := append(append([]string(nil), comp.Args...), discovery.ParamArgs(comp.ParamFlag, ref.Params)...)
	win, pid, err := f.launcher.Launch(ctx, discovery.LaunchSpec{
		Command: comp.Command,
		Args:    args,
		Env:     comp.Env,
		Timeout: comp.Timeout,
	})
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	return &materialized{
		window:    win,
		pid:       pid,
		component: comp.Name,
		content:   componentContent(comp.Name, ref, source),
	}, nil
}

// reclaim looks the component up in the persisted registry and verifies its
// window is still alive.
func (f *Factory) reclaim(name string) (registry.Instance, bool) {
	if f.registry == nil {
		return registry.Instance{}, false
	}
	inst, ok, err := f.registry.FindByComponent(name)
	if err != nil || !ok {
		return registry.Instance{}, false
	}
	if _, err := f.backend.Geometry(platform.WindowID(inst.WindowID)); err != nil {
		// Stale record, the window died while no daemon was watching.
		f.registry.Remove(inst.ElementID)
		return registry.Instance{}, false
	}
	return inst, true
}

func componentContent(name string, ref *compuri.ComponentRef, source string) Content {
	meta := map[string]any{
		"component": name,
		"scheme":    ref.Scheme,
	}
	if ref.Path != "" {
		meta["path"] = ref.Path
	}
	if len(ref.Params) > 0 {
		params := make(map[string]any, len(ref.Params))
		for k, v := range ref.Params {
			params[k] = v
		}
		meta["params"] = params
	}
	return Content{
		Type:     ContentComponent,
		Source:   source,
		Metadata: meta,
	}
}

// teardown closes a window created for an element that subsequently failed.
// No handle survives a failed create.
func (f *Factory) teardown(win platform.WindowID) {
	if err := f.backend.Close(win); err != nil {
		f.logger.Warn("failed to close window during teardown", "window", win, "error", err)
	}
}
