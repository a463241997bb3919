// Package daemon wires the canvas engine, the window backend, the IPC
// surface, and the reconciler into one long-running process.
package daemon

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/deskcanvas/deskcanvas/internal/canvas"
	"github.com/deskcanvas/deskcanvas/internal/config"
	"github.com/deskcanvas/deskcanvas/internal/discovery"
	"github.com/deskcanvas/deskcanvas/internal/ipc"
	"github.com/deskcanvas/deskcanvas/internal/oplog"
	"github.com/deskcanvas/deskcanvas/internal/platform"
	"github.com/deskcanvas/deskcanvas/internal/registry"
)

// Options configures a daemon run.
type Options struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger
}

// Run starts the daemon and blocks until the context is cancelled or a
// termination signal arrives. A graceful shutdown destroys the canvas and
// closes managed windows; after a crash the registry lets the next daemon
// reclaim still-running component windows instead.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	logger := opts.Logger

	if cfg.Display != "" {
		os.Setenv("DISPLAY", cfg.Display)
	}

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		return err
	}
	defer backend.Disconnect()
	go backend.EventLoop()

	audit, err := oplog.New(auditConfig(cfg))
	if err != nil {
		logger.Warn("mutation log disabled", "error", err)
		audit = nil
	}
	defer audit.Close()

	reg, err := registry.Open()
	if err != nil {
		logger.Warn("component registry unavailable", "error", err)
		reg = nil
	}

	resolver := discovery.NewConfigResolver(cfg)
	launcher := discovery.NewLauncher(backend, logger)
	factory := canvas.NewFactory(backend, resolver, launcher, reg, cfg, logger)

	engine := canvas.NewEngine(canvas.Options{
		Backend:     backend,
		Factory:     factory,
		Registry:    reg,
		Audit:       audit,
		Logger:      logger,
		HistorySize: cfg.HistorySize,
	})
	if _, err := engine.Initialize(); err != nil {
		return err
	}
	defer engine.Destroy()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reconciler := NewReconciler(ReconcilerConfig{
		Interval: cfg.PollInterval(),
		Logger:   logger,
	}, engine)
	go reconciler.Run(ctx)

	reloadChan := make(chan struct{}, 1)
	server, err := ipc.NewServer(engine, resolver, backend, reconciler, reloadChan)
	if err != nil {
		return err
	}
	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop()

	if opts.ConfigPath != "" {
		go func() {
			if err := config.Watch(ctx, opts.ConfigPath, logger, func(next *config.Config) {
				resolver.SetConfig(next)
				logger.Info("configuration reloaded", "components", len(next.Components))
			}); err != nil {
				logger.Warn("config watcher stopped", "error", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	logger.Info("daemon running", "poll_interval", cfg.PollInterval())

	for {
		select {
		case <-ctx.Done():
			logger.Info("daemon stopping", "reason", "context cancelled")
			return nil
		case sig := <-sigChan:
			logger.Info("daemon stopping", "signal", sig.String())
			return nil
		case <-reloadChan:
			next, err := config.Load()
			if err != nil {
				logger.Error("reload failed, keeping previous config", "error", err)
				continue
			}
			resolver.SetConfig(next)
			logger.Info("configuration reloaded", "components", len(next.Components))
		}
	}
}

func auditConfig(cfg *config.Config) oplog.Config {
	return oplog.Config{
		Enabled:   cfg.Logging.Enabled,
		Level:     oplog.ParseLevel(cfg.Logging.Level),
		FilePath:  cfg.Logging.File,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
	}
}
