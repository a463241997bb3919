package canvas

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/deskcanvas/deskcanvas/internal/config"
	"github.com/deskcanvas/deskcanvas/internal/discovery"
	"github.com/deskcanvas/deskcanvas/internal/platform"
	"github.com/deskcanvas/deskcanvas/internal/registry"
)

type fakeBackend struct {
	mu       sync.Mutex
	display  platform.Display
	windows  map[platform.WindowID]platform.Rect
	pids     map[platform.WindowID]int
	viewable map[platform.WindowID]bool
	active   platform.WindowID
	watchers map[platform.WindowID]platform.EventFunc
	props    map[string]string
	closed   []platform.WindowID
	moveErr  error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		display: platform.Display{
			ID:     0,
			Name:   "primary",
			Bounds: platform.Rect{Width: 1920, Height: 1080},
			Usable: platform.Rect{Y: 30, Width: 1920, Height: 1050},
		},
		windows:  map[platform.WindowID]platform.Rect{},
		pids:     map[platform.WindowID]int{},
		viewable: map[platform.WindowID]bool{},
		watchers: map[platform.WindowID]platform.EventFunc{},
		props:    map[string]string{},
	}
}

func (b *fakeBackend) addWindow(id platform.WindowID, pid int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.windows[id] = platform.Rect{}
	b.pids[id] = pid
	b.viewable[id] = true
}

func (b *fakeBackend) dropWindow(id platform.WindowID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.windows, id)
	delete(b.viewable, id)
	delete(b.pids, id)
}

func (b *fakeBackend) Displays() ([]platform.Display, error) {
	return []platform.Display{b.display}, nil
}

func (b *fakeBackend) ActiveDisplay() (platform.Display, error) { return b.display, nil }

func (b *fakeBackend) ActiveWindow() (platform.WindowID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active, nil
}

func (b *fakeBackend) ListWindows() ([]platform.Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []platform.Window
	for id, rect := range b.windows {
		out = append(out, platform.Window{ID: id, PID: b.pids[id], Bounds: rect})
	}
	return out, nil
}

func (b *fakeBackend) Geometry(id platform.WindowID) (platform.Rect, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rect, ok := b.windows[id]
	if !ok {
		return platform.Rect{}, fmt.Errorf("window %d gone", id)
	}
	return rect, nil
}

func (b *fakeBackend) MoveResize(id platform.WindowID, bounds platform.Rect) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.moveErr != nil {
		return b.moveErr
	}
	if _, ok := b.windows[id]; !ok {
		return fmt.Errorf("window %d gone", id)
	}
	b.windows[id] = bounds
	return nil
}

func (b *fakeBackend) Focus(id platform.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.active = id
	return nil
}

func (b *fakeBackend) Show(id platform.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.viewable[id] = true
	return nil
}

func (b *fakeBackend) Hide(id platform.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.viewable[id] = false
	return nil
}

func (b *fakeBackend) Minimize(id platform.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.viewable[id] = false
	return nil
}

func (b *fakeBackend) IsViewable(id platform.WindowID) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.viewable[id]
	if !ok {
		return false, fmt.Errorf("window %d gone", id)
	}
	return v, nil
}

func (b *fakeBackend) Close(id platform.WindowID) error {
	b.mu.Lock()
	b.closed = append(b.closed, id)
	b.mu.Unlock()
	b.dropWindow(id)
	return nil
}

func (b *fakeBackend) FindWindowByPID(pid int) (platform.WindowID, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, p := range b.pids {
		if p == pid {
			return id, true, nil
		}
	}
	return 0, false, nil
}

func (b *fakeBackend) SetProperty(id platform.WindowID, name, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.props[fmt.Sprintf("%d/%s", id, name)] = value
	return nil
}

func (b *fakeBackend) Watch(id platform.WindowID, fn platform.EventFunc) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.watchers[id] = fn
	return nil
}

func (b *fakeBackend) Unwatch(id platform.WindowID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.watchers, id)
}

func (b *fakeBackend) closeCount(id platform.WindowID) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.closed {
		if c == id {
			n++
		}
	}
	return n
}

// fakeLauncher assigns sequential windows and records every spec it saw.
type fakeLauncher struct {
	backend *fakeBackend
	next    platform.WindowID
	nextPID int
	specs   []discovery.LaunchSpec
	err     error
}

func (l *fakeLauncher) Launch(ctx context.Context, spec discovery.LaunchSpec) (platform.WindowID, int, error) {
	l.specs = append(l.specs, spec)
	if l.err != nil {
		return 0, 0, l.err
	}
	l.next++
	l.nextPID++
	l.backend.addWindow(l.next, l.nextPID)
	return l.next, l.nextPID, nil
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Components["notes"] = config.ComponentConfig{Command: "notes-app", Description: "Notes"}
	return cfg
}

func newTestEngine(t *testing.T) (*Engine, *fakeBackend, *fakeLauncher) {
	t.Helper()
	backend := newFakeBackend()
	launcher := &fakeLauncher{backend: backend}
	cfg := testConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := registry.New(filepath.Join(t.TempDir(), "registry.json"))
	factory := NewFactory(backend, discovery.NewConfigResolver(cfg), launcher, reg, cfg, logger)
	eng := NewEngine(Options{
		Backend:  backend,
		Factory:  factory,
		Registry: reg,
		Logger:   logger,
	})
	if _, err := eng.Initialize(); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	return eng, backend, launcher
}

func browserRequest(source string) CreateRequest {
	return CreateRequest{
		Type:     ElementTypeBrowser,
		Position: &Position{Coordinates: [2]int{10, 20}, Reference: "canvas", Units: "pixels"},
		Size:     &Size{Dimensions: [2]int{800, 600}, Units: "pixels"},
		Source:   source,
	}
}

func TestInitialize_BoundariesFromWorkArea(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	snap := eng.Snapshot()
	if snap.Boundaries.Width != 1920 || snap.Boundaries.Height != 1050 || snap.Boundaries.OriginY != 30 {
		t.Errorf("Boundaries = %+v", snap.Boundaries)
	}
	if snap.Type != CanvasTypeDesktop {
		t.Errorf("Type = %q", snap.Type)
	}
}

func TestCreateElement_URLNormalizedAndPlaced(t *testing.T) {
	eng, backend, launcher := newTestEngine(t)

	elem, err := eng.CreateElement(context.Background(), browserRequest("example.com"))
	if err != nil {
		t.Fatalf("CreateElement() error: %v", err)
	}
	if elem.Content.Type != ContentURL || elem.Content.Source != "https://example.com" {
		t.Errorf("Content = %+v", elem.Content)
	}
	if !elem.State.Visible || !elem.State.Focused {
		t.Errorf("State = %+v", elem.State)
	}
	if elem.Transform.Position.Coordinates != [2]int{10, 20} {
		t.Errorf("Position = %v", elem.Transform.Position.Coordinates)
	}
	if elem.Metadata[MetaManagedBy] != ManagedByValue {
		t.Errorf("Metadata = %v", elem.Metadata)
	}

	if len(launcher.specs) != 1 {
		t.Fatalf("launches = %d", len(launcher.specs))
	}
	spec := launcher.specs[0]
	if spec.Command != "chromium" {
		t.Errorf("Command = %q", spec.Command)
	}
	found := false
	for _, a := range spec.Args {
		if a == "--app=https://example.com" {
			found = true
		}
	}
	if !found {
		t.Errorf("Args = %v, missing app url", spec.Args)
	}

	rect, err := backend.Geometry(1)
	if err != nil {
		t.Fatalf("Geometry error: %v", err)
	}
	if rect != (platform.Rect{X: 10, Y: 20, Width: 800, Height: 600}) {
		t.Errorf("window rect = %+v", rect)
	}
}

func TestCreateElement_ValidationFailuresTouchNothing(t *testing.T) {
	eng, _, launcher := newTestEngine(t)

	pos := &Position{Coordinates: [2]int{0, 0}}
	size := &Size{Dimensions: [2]int{100, 100}}

	tests := []struct {
		name string
		req  CreateRequest
	}{
		{"missing position", CreateRequest{Type: ElementTypeBrowser, Size: size, Source: "example.com"}},
		{"missing size", CreateRequest{Type: ElementTypeBrowser, Position: pos, Source: "example.com"}},
		{"zero size", CreateRequest{Type: ElementTypeBrowser, Position: pos, Size: &Size{}, Source: "example.com"}},
		{"unsupported type", CreateRequest{Type: "hologram", Position: pos, Size: size, Source: "example.com"}},
		{"empty source", CreateRequest{Type: ElementTypeBrowser, Position: pos, Size: size}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eng.CreateElement(context.Background(), tt.req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
		})
	}

	if len(launcher.specs) != 0 {
		t.Errorf("rejected requests launched %d processes", len(launcher.specs))
	}
	if n := len(eng.Snapshot().Elements); n != 0 {
		t.Errorf("elements = %d after rejected creates", n)
	}
}

func TestCreateElement_ComponentBranch(t *testing.T) {
	eng, _, launcher := newTestEngine(t)

	elem, err := eng.CreateElement(context.Background(), browserRequest("apps://notes?note=42"))
	if err != nil {
		t.Fatalf("CreateElement() error: %v", err)
	}
	if elem.Content.Type != ContentComponent {
		t.Errorf("Content.Type = %q", elem.Content.Type)
	}
	if elem.Metadata[MetaComponent] != "notes" {
		t.Errorf("Metadata = %v", elem.Metadata)
	}

	if len(launcher.specs) != 1 || launcher.specs[0].Command != "notes-app" {
		t.Fatalf("specs = %+v", launcher.specs)
	}
	found := false
	for _, a := range launcher.specs[0].Args {
		if a == "--note=42" {
			found = true
		}
	}
	if !found {
		t.Errorf("Args = %v, params not forwarded", launcher.specs[0].Args)
	}
}

func TestCreateElement_ComponentReuse(t *testing.T) {
	eng, backend, launcher := newTestEngine(t)

	first, err := eng.CreateElement(context.Background(), browserRequest("apps://notes"))
	if err != nil {
		t.Fatalf("first create error: %v", err)
	}

	req := browserRequest("apps://notes?note=7")
	req.Position = &Position{Coordinates: [2]int{300, 300}}
	second, err := eng.CreateElement(context.Background(), req)
	if err != nil {
		t.Fatalf("second create error: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("reuse produced new element %q, want %q", second.ID, first.ID)
	}
	if len(launcher.specs) != 1 {
		t.Errorf("launches = %d, want 1", len(launcher.specs))
	}
	if n := len(eng.Snapshot().Elements); n != 1 {
		t.Errorf("elements = %d, want 1", n)
	}
	if second.Transform.Position.Coordinates != [2]int{300, 300} {
		t.Errorf("Position = %v", second.Transform.Position.Coordinates)
	}
	if got := backend.props["1/"+ParamsProperty]; got != "note=7" {
		t.Errorf("forwarded params = %q, want note=7", got)
	}
}

func TestCreateElement_ResolutionErrors(t *testing.T) {
	eng, _, launcher := newTestEngine(t)

	for _, source := range []string{
		"apps://",           // malformed internal URI
		"apps://nonexist",   // not in the catalog
		"widgets://weather", // cataloged but no command configured
	} {
		_, err := eng.CreateElement(context.Background(), browserRequest(source))
		var rerr *ResolutionError
		if !errors.As(err, &rerr) {
			t.Errorf("CreateElement(%q) error = %v, want *ResolutionError", source, err)
		}
	}
	if len(launcher.specs) != 0 {
		t.Errorf("resolution failures launched %d processes", len(launcher.specs))
	}
}

func TestCreateElement_LoadFailureLeaksNothing(t *testing.T) {
	eng, _, launcher := newTestEngine(t)
	launcher.err = errors.New("no window appeared")

	_, err := eng.CreateElement(context.Background(), browserRequest("example.com"))
	var lerr *LoadError
	if !errors.As(err, &lerr) {
		t.Fatalf("error = %v, want *LoadError", err)
	}
	if n := len(eng.Snapshot().Elements); n != 0 {
		t.Errorf("elements = %d after failed load", n)
	}
	if len(eng.handles) != 0 {
		t.Errorf("handles = %d after failed load", len(eng.handles))
	}
}

func TestCreateElement_PlacementFailureClosesWindow(t *testing.T) {
	eng, backend, _ := newTestEngine(t)
	backend.moveErr = errors.New("move refused")

	_, err := eng.CreateElement(context.Background(), browserRequest("example.com"))
	var lerr *LoadError
	if !errors.As(err, &lerr) {
		t.Fatalf("error = %v, want *LoadError", err)
	}
	if backend.closeCount(1) != 1 {
		t.Errorf("window not torn down after placement failure")
	}
	if n := len(eng.Snapshot().Elements); n != 0 {
		t.Errorf("elements = %d", n)
	}
}

func TestModifyElement_PartialChanges(t *testing.T) {
	eng, backend, _ := newTestEngine(t)
	elem, err := eng.CreateElement(context.Background(), browserRequest("example.com"))
	if err != nil {
		t.Fatal(err)
	}

	// Position only; size must survive.
	got, err := eng.ModifyElement(context.Background(), elem.ID, ModifyRequest{
		Position: &Position{Coordinates: [2]int{50, 50}},
	})
	if err != nil {
		t.Fatalf("ModifyElement() error: %v", err)
	}
	if got.Transform.Position.Coordinates != [2]int{50, 50} {
		t.Errorf("Position = %v", got.Transform.Position.Coordinates)
	}
	if got.Transform.Size.Dimensions != [2]int{800, 600} {
		t.Errorf("Size = %v, want unchanged", got.Transform.Size.Dimensions)
	}
	rect, _ := backend.Geometry(1)
	if rect != (platform.Rect{X: 50, Y: 50, Width: 800, Height: 600}) {
		t.Errorf("window rect = %+v", rect)
	}

	// Hide.
	hidden := false
	got, err = eng.ModifyElement(context.Background(), elem.ID, ModifyRequest{
		State: &StateChange{Visible: &hidden},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.State.Visible {
		t.Error("element still visible after hide")
	}
	if v, _ := backend.IsViewable(1); v {
		t.Error("window still viewable after hide")
	}

	// Caller metadata merges, reserved keys stay.
	got, err = eng.ModifyElement(context.Background(), elem.ID, ModifyRequest{
		Metadata: map[string]any{"label": "docs", MetaManagedBy: "intruder"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Metadata["label"] != "docs" {
		t.Errorf("Metadata = %v", got.Metadata)
	}
	if got.Metadata[MetaManagedBy] != ManagedByValue {
		t.Errorf("reserved key overwritten: %v", got.Metadata[MetaManagedBy])
	}
}

func TestModifyElement_UnknownIDIsNotFound(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	_, err := eng.ModifyElement(context.Background(), "missing", ModifyRequest{})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
}

func TestRemoveElement_Idempotent(t *testing.T) {
	eng, backend, _ := newTestEngine(t)
	elem, err := eng.CreateElement(context.Background(), browserRequest("example.com"))
	if err != nil {
		t.Fatal(err)
	}

	if err := eng.RemoveElement(context.Background(), elem.ID); err != nil {
		t.Fatalf("first remove error: %v", err)
	}
	if err := eng.RemoveElement(context.Background(), elem.ID); err != nil {
		t.Fatalf("second remove error: %v", err)
	}
	if n := len(eng.Snapshot().Elements); n != 0 {
		t.Errorf("elements = %d", n)
	}
	if backend.closeCount(1) != 1 {
		t.Errorf("close count = %d, want 1", backend.closeCount(1))
	}
}

func TestRemoveAll(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	for _, src := range []string{"example.com", "example.org"} {
		if _, err := eng.CreateElement(context.Background(), browserRequest(src)); err != nil {
			t.Fatal(err)
		}
	}
	if err := eng.RemoveAll(context.Background()); err != nil {
		t.Fatalf("RemoveAll() error: %v", err)
	}
	if n := len(eng.Snapshot().Elements); n != 0 {
		t.Errorf("elements = %d", n)
	}
}

func TestState_SnapshotIsolation(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	if _, err := eng.CreateElement(context.Background(), browserRequest("example.com")); err != nil {
		t.Fatal(err)
	}

	snap, err := eng.State()
	if err != nil {
		t.Fatalf("State() error: %v", err)
	}
	snap.Elements[0].Metadata["tampered"] = true
	snap.Elements[0].Transform.Position.Coordinates = [2]int{999, 999}
	snap.Elements = nil

	again, err := eng.State()
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Elements) != 1 {
		t.Fatalf("elements = %d, snapshot mutation leaked", len(again.Elements))
	}
	if _, ok := again.Elements[0].Metadata["tampered"]; ok {
		t.Error("metadata mutation leaked into engine state")
	}
	if again.Elements[0].Transform.Position.Coordinates == [2]int{999, 999} {
		t.Error("transform mutation leaked into engine state")
	}
}

func TestSyncOnce_RemovesExternallyClosedWindows(t *testing.T) {
	eng, backend, _ := newTestEngine(t)
	elem, err := eng.CreateElement(context.Background(), browserRequest("example.com"))
	if err != nil {
		t.Fatal(err)
	}

	// The window dies through a path that bypasses the event hooks.
	backend.dropWindow(1)

	changed, err := eng.SyncOnce()
	if err != nil {
		t.Fatalf("SyncOnce() error: %v", err)
	}
	if !changed {
		t.Error("SyncOnce() reported no change")
	}
	for _, e := range eng.Snapshot().Elements {
		if e.ID == elem.ID {
			t.Error("externally closed element still on canvas")
		}
	}
}

func TestSyncOnce_AdoptsGeometryDrift(t *testing.T) {
	eng, backend, _ := newTestEngine(t)
	elem, err := eng.CreateElement(context.Background(), browserRequest("example.com"))
	if err != nil {
		t.Fatal(err)
	}

	// The user drags the window; the model follows reality.
	backend.mu.Lock()
	backend.windows[1] = platform.Rect{X: 400, Y: 100, Width: 800, Height: 600}
	backend.mu.Unlock()

	if _, err := eng.SyncOnce(); err != nil {
		t.Fatal(err)
	}
	got := eng.Snapshot().Elements[0]
	if got.ID != elem.ID || got.Transform.Position.Coordinates != [2]int{400, 100} {
		t.Errorf("position = %v, want [400 100]", got.Transform.Position.Coordinates)
	}
}

func TestHandleWindowEvent(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	elem, err := eng.CreateElement(context.Background(), browserRequest("example.com"))
	if err != nil {
		t.Fatal(err)
	}

	eng.HandleWindowEvent(platform.Event{
		Type:   platform.EventMoved,
		Window: 1,
		Bounds: platform.Rect{X: 77, Y: 88, Width: 800, Height: 600},
	})
	if got := eng.Snapshot().Elements[0].Transform.Position.Coordinates; got != [2]int{77, 88} {
		t.Errorf("position after move event = %v", got)
	}

	eng.HandleWindowEvent(platform.Event{Type: platform.EventHidden, Window: 1})
	if eng.Snapshot().Elements[0].State.Visible {
		t.Error("element visible after hidden event")
	}

	eng.HandleWindowEvent(platform.Event{Type: platform.EventClosed, Window: 1})
	if n := len(eng.Snapshot().Elements); n != 0 {
		t.Errorf("elements = %d after close event, want 0", n)
	}
	_ = elem
}

func TestMonitorChanges_SingleSubscriber(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	firstCalls := 0
	eng.MonitorChanges(func(*Canvas) { firstCalls++ })

	var got *Canvas
	eng.MonitorChanges(func(c *Canvas) { got = c })

	if _, err := eng.CreateElement(context.Background(), browserRequest("example.com")); err != nil {
		t.Fatal(err)
	}
	if firstCalls != 0 {
		t.Error("replaced subscriber still invoked")
	}
	if got == nil || len(got.Elements) != 1 {
		t.Fatalf("subscriber snapshot = %+v", got)
	}
}

func TestHistory_RecordsAndBounds(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	eng.hist = newHistory(3)

	elem, err := eng.CreateElement(context.Background(), browserRequest("example.com"))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if _, err := eng.ModifyElement(context.Background(), elem.ID, ModifyRequest{
			Position: &Position{Coordinates: [2]int{i, i}},
		}); err != nil {
			t.Fatal(err)
		}
	}

	ops := eng.History()
	if len(ops) != 3 {
		t.Fatalf("history = %d entries, want 3", len(ops))
	}
	for _, op := range ops {
		if op.Type != OpModify {
			t.Errorf("op type = %q, create should have been evicted", op.Type)
		}
	}
}

func TestDestroy_ClosesAllWindows(t *testing.T) {
	eng, backend, _ := newTestEngine(t)
	for _, src := range []string{"example.com", "example.org"} {
		if _, err := eng.CreateElement(context.Background(), browserRequest(src)); err != nil {
			t.Fatal(err)
		}
	}

	// One window is already gone; Destroy must survive that.
	backend.dropWindow(2)
	eng.Destroy()

	if n := len(eng.Snapshot().Elements); n != 0 {
		t.Errorf("elements = %d after Destroy", n)
	}
	if backend.closeCount(1) != 1 {
		t.Errorf("window 1 close count = %d", backend.closeCount(1))
	}
}

func TestHandleWindowEvent_NoChangeNoNotify(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	elem, err := eng.CreateElement(context.Background(), browserRequest("example.com"))
	if err != nil {
		t.Fatal(err)
	}

	calls := 0
	eng.MonitorChanges(func(*Canvas) { calls++ })

	pos := elem.Transform.Position.Coordinates
	dim := elem.Transform.Size.Dimensions

	// Events that restate current state must not wake the subscriber.
	eng.HandleWindowEvent(platform.Event{Type: platform.EventShown, Window: 1})
	eng.HandleWindowEvent(platform.Event{Type: platform.EventFocused, Window: 1})
	eng.HandleWindowEvent(platform.Event{
		Type:   platform.EventMoved,
		Window: 1,
		Bounds: platform.Rect{X: pos[0], Y: pos[1], Width: dim[0], Height: dim[1]},
	})
	eng.HandleWindowEvent(platform.Event{
		Type:   platform.EventResized,
		Window: 1,
		Bounds: platform.Rect{X: pos[0], Y: pos[1], Width: dim[0], Height: dim[1]},
	})
	if calls != 0 {
		t.Fatalf("subscriber called %d times for no-op events", calls)
	}

	eng.HandleWindowEvent(platform.Event{
		Type:   platform.EventMoved,
		Window: 1,
		Bounds: platform.Rect{X: pos[0] + 5, Y: pos[1], Width: dim[0], Height: dim[1]},
	})
	if calls != 1 {
		t.Fatalf("subscriber called %d times after a real move, want 1", calls)
	}
}
