package daemon

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

type fakeSync struct {
	passes chan struct{}
}

func (f *fakeSync) SyncOnce() (bool, error) {
	f.passes <- struct{}{}
	return false, nil
}

func TestReconcileNow_TriggersImmediatePass(t *testing.T) {
	target := &fakeSync{passes: make(chan struct{}, 4)}
	r := NewReconciler(ReconcilerConfig{
		Interval: time.Hour,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, target)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	r.ReconcileNow()

	select {
	case <-target.passes:
	case <-time.After(2 * time.Second):
		t.Fatal("no reconciliation pass after ReconcileNow")
	}
}

func TestReconcileNow_NonBlockingWithoutRunner(t *testing.T) {
	target := &fakeSync{passes: make(chan struct{}, 1)}
	r := NewReconciler(ReconcilerConfig{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, target)

	// No Run loop is draining the kick channel; repeated requests must
	// collapse instead of blocking the caller.
	done := make(chan struct{})
	go func() {
		r.ReconcileNow()
		r.ReconcileNow()
		r.ReconcileNow()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ReconcileNow blocked without a running loop")
	}
}
