package daemon

import (
	"context"
	"log/slog"
	"time"
)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// syncTarget is the slice of the engine the reconciler drives.
type syncTarget interface {
	SyncOnce() (bool, error)
}

// Reconciler periodically reconciles the canvas model against live window
// state, catching windows closed through paths that bypass the per-window
// event hooks.
type Reconciler struct {
	interval time.Duration
	engine   syncTarget
	logger   *slog.Logger
	kick     chan struct{}
}

// NewReconciler creates a new reconciler driving engine.
func NewReconciler(cfg ReconcilerConfig, engine syncTarget) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Second
	}

	return &Reconciler{
		interval: interval,
		engine:   engine,
		logger:   cfg.Logger,
		kick:     make(chan struct{}, 1),
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
		case <-r.kick:
			r.reconcile()
		}
	}
}

// ReconcileNow requests an immediate pass outside the regular interval.
// Non-blocking; a pending request is collapsed into one pass.
func (r *Reconciler) ReconcileNow() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// reconcile performs a single reconciliation pass.
func (r *Reconciler) reconcile() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	changed, err := r.engine.SyncOnce()
	if err != nil {
		r.logger.Error("reconciler: sync failed", "error", err)
		return
	}
	if changed {
		r.logger.Debug("reconciler: drift folded into canvas")
	}
}
