package canvas

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/deskcanvas/deskcanvas/internal/compuri"
	"github.com/deskcanvas/deskcanvas/internal/discovery"
	"github.com/deskcanvas/deskcanvas/internal/oplog"
	"github.com/deskcanvas/deskcanvas/internal/platform"
	"github.com/deskcanvas/deskcanvas/internal/registry"
)

// ChangeFunc receives a canvas snapshot after every mutation. The callback
// must not call back into the engine.
type ChangeFunc func(*Canvas)

// Options configures an Engine.
type Options struct {
	Backend  platform.Backend
	Factory  *Factory
	Registry *registry.Registry
	Audit    *oplog.Logger
	Logger   *slog.Logger
	// HistorySize bounds the operation ring buffer.
	HistorySize int
}

// Engine is the sole owner of the canvas and the element-to-window map.
// Every mutation goes through it and is serialized by its mutex.
type Engine struct {
	mu sync.Mutex

	backend platform.Backend
	factory *Factory
	reg     *registry.Registry
	audit   *oplog.Logger
	logger  *slog.Logger

	canvas  *Canvas
	handles map[string]platform.WindowID
	pids    map[string]int
	byWin   map[platform.WindowID]string
	hist    *history

	onChange ChangeFunc
}

// NewEngine builds an engine. Initialize must be called before any element
// operation.
func NewEngine(opts Options) *Engine {
	size := opts.HistorySize
	if size <= 0 {
		size = 100
	}
	return &Engine{
		backend: opts.Backend,
		factory: opts.Factory,
		reg:     opts.Registry,
		audit:   opts.Audit,
		logger:  opts.Logger,
		handles: make(map[string]platform.WindowID),
		pids:    make(map[string]int),
		byWin:   make(map[platform.WindowID]string),
		hist:    newHistory(size),
	}
}

// Initialize computes boundaries from the active display's work area and
// builds the canvas. Calling it again recomputes boundaries but keeps
// existing elements.
func (e *Engine) Initialize() (*Canvas, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	display, err := e.backend.ActiveDisplay()
	if err != nil {
		return nil, err
	}
	bounds := Boundaries{
		OriginX: display.Usable.X,
		OriginY: display.Usable.Y,
		Width:   display.Usable.Width,
		Height:  display.Usable.Height,
		Units:   "pixels",
	}

	if e.canvas == nil {
		e.canvas = &Canvas{
			ID:           newID(),
			Type:         CanvasTypeDesktop,
			Elements:     []Element{},
			Boundaries:   bounds,
			Capabilities: DesktopCapabilities(),
		}
	} else {
		e.canvas.Boundaries = bounds
	}

	e.logger.Info("canvas initialized",
		"canvas", e.canvas.ID,
		"width", bounds.Width,
		"height", bounds.Height)
	return e.canvas.Clone(), nil
}

// CreateRequest is the input to CreateElement. Position and Size are pointers
// so a missing half of the transform is distinguishable from an explicit
// zero; both are mandatory.
type CreateRequest struct {
	Type     string
	Position *Position
	Size     *Size
	Source   string
	Metadata map[string]any
}

// CreateElement validates req, materializes a window for it, and records the
// element. A failed create leaves the canvas untouched; a window created
// before a later failure is closed again before the error returns.
func (e *Engine) CreateElement(ctx context.Context, req CreateRequest) (*Element, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.validateCreate(req); err != nil {
		return nil, err
	}

	ref, err := compuri.Parse(req.Source)
	if err != nil {
		return nil, &ResolutionError{Source: req.Source, Reason: err.Error()}
	}

	var mat *materialized
	if ref != nil {
		if elem, ok := e.elementByComponent(ref.Component); ok {
			return e.reuseElement(elem, ref, req)
		}
		mat, err = e.factory.materializeComponent(ctx, ref, req.Source)
	} else {
		mat, err = e.factory.materializeURL(ctx, req.Source)
	}
	if err != nil {
		return nil, err
	}

	rect := rectFromParts(*req.Position, *req.Size)
	if err := e.backend.MoveResize(mat.window, rect); err != nil {
		e.factory.teardown(mat.window)
		return nil, &LoadError{Source: req.Source, Err: err}
	}

	// Some windows stay unmapped briefly after spawn; nudge them visible.
	if viewable, verr := e.backend.IsViewable(mat.window); verr == nil && !viewable {
		if serr := e.backend.Show(mat.window); serr != nil {
			e.logger.Warn("failed to show new window", "window", mat.window, "error", serr)
		}
	}
	if ferr := e.backend.Focus(mat.window); ferr != nil {
		e.logger.Warn("failed to focus new window", "window", mat.window, "error", ferr)
	}

	elem := Element{
		ID:   newID(),
		Type: req.Type,
		Transform: Transform{
			Position: *req.Position,
			Size:     *req.Size,
		},
		State: ElementState{
			Visible:     true,
			Interactive: true,
			Focused:     true,
		},
		Content:    mat.content,
		Metadata:   e.elementMetadata(req.Metadata, mat.component),
		CanvasType: e.canvas.Type,
	}

	e.canvas.Elements = append(e.canvas.Elements, elem)
	e.handles[elem.ID] = mat.window
	e.pids[elem.ID] = mat.pid
	e.byWin[mat.window] = elem.ID
	e.watch(mat.window)

	if mat.component != "" && e.reg != nil {
		err := e.reg.Put(registry.Instance{
			ElementID: elem.ID,
			Component: mat.component,
			Scheme:    schemeOf(mat.content),
			PID:       mat.pid,
			WindowID:  uint32(mat.window),
			StartedAt: time.Now(),
		})
		if err != nil {
			e.logger.Warn("failed to announce component instance", "element", elem.ID, "error", err)
		}
	}

	e.record(OpCreate, elem.ID, map[string]any{
		"type":   req.Type,
		"source": req.Source,
	})
	e.audit.Log(oplog.ActionCreate, elem.ID, map[string]any{
		"type":   req.Type,
		"source": elem.Content.Source,
		"window": uint32(mat.window),
		"pid":    mat.pid,
	})
	e.notify()

	out := elem.clone()
	return &out, nil
}

// reuseElement serves a create for a component that is already on the canvas.
// The existing window is repositioned, parameters are forwarded, and the
// existing element record is returned.
func (e *Engine) reuseElement(elem *Element, ref *compuri.ComponentRef, req CreateRequest) (*Element, error) {
	win := e.handles[elem.ID]

	rect := rectFromParts(*req.Position, *req.Size)
	if err := e.backend.MoveResize(win, rect); err != nil {
		return nil, &LoadError{Source: req.Source, Err: err}
	}
	if viewable, err := e.backend.IsViewable(win); err == nil && !viewable {
		e.backend.Show(win)
	}
	e.backend.Focus(win)

	if len(ref.Params) > 0 {
		if err := e.backend.SetProperty(win, ParamsProperty, discovery.EncodeParams(ref.Params)); err != nil {
			e.logger.Warn("failed to forward params", "element", elem.ID, "error", err)
		}
	}

	elem.Transform = Transform{Position: *req.Position, Size: *req.Size}
	elem.State.Visible = true
	elem.State.Minimized = false
	elem.State.Focused = true

	e.record(OpCreate, elem.ID, map[string]any{
		"type":   req.Type,
		"source": req.Source,
		"reused": true,
	})
	e.audit.Log(oplog.ActionCreate, elem.ID, map[string]any{
		"source": req.Source,
		"reused": true,
	})
	e.notify()

	out := elem.clone()
	return &out, nil
}

func (e *Engine) validateCreate(req CreateRequest) error {
	if e.canvas == nil {
		return &ValidationError{Reason: "engine not initialized"}
	}
	if !e.canvas.Capabilities.SupportsOperation(string(OpCreate)) {
		return &ValidationError{Field: "operation", Reason: "create not supported by canvas"}
	}
	if !e.canvas.Capabilities.SupportsElementType(req.Type) {
		return &ValidationError{Field: "type", Reason: "unsupported element type " + req.Type}
	}
	if req.Position == nil || req.Size == nil {
		return &ValidationError{Field: "transform", Reason: "caller must supply complete positioning (position and size)"}
	}
	if req.Size.Dimensions[0] <= 0 || req.Size.Dimensions[1] <= 0 {
		return &ValidationError{Field: "size", Reason: "dimensions must be positive"}
	}
	if req.Source == "" {
		return &ValidationError{Field: "source", Reason: "content source is required"}
	}
	return nil
}

// StateChange is a partial update of an element's state. Nil fields are left
// untouched. Focused false is a no-op: focus is requested, never relinquished.
type StateChange struct {
	Visible    *bool
	Focused    *bool
	Minimized  *bool
	Properties map[string]any
}

// ModifyRequest is a partial change set for one element.
type ModifyRequest struct {
	Position *Position
	Size     *Size
	State    *StateChange
	Metadata map[string]any
}

// ModifyElement applies the fields present in req to the element. Position
// and size arriving together become one combined bounds update so no
// intermediate geometry is ever visible.
func (e *Engine) ModifyElement(ctx context.Context, elementID string, req ModifyRequest) (*Element, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.canvas == nil {
		return nil, &ValidationError{Reason: "engine not initialized"}
	}
	if !e.canvas.Capabilities.SupportsOperation(string(OpModify)) {
		return nil, &ValidationError{Field: "operation", Reason: "modify not supported by canvas"}
	}
	if req.Size != nil && (req.Size.Dimensions[0] <= 0 || req.Size.Dimensions[1] <= 0) {
		return nil, &ValidationError{Field: "size", Reason: "dimensions must be positive"}
	}

	elem := e.elementByID(elementID)
	win, tracked := e.handles[elementID]
	if elem == nil || !tracked {
		return nil, &NotFoundError{ElementID: elementID}
	}

	if req.Position != nil || req.Size != nil {
		pos := elem.Transform.Position
		size := elem.Transform.Size
		if req.Position != nil {
			pos = *req.Position
		}
		if req.Size != nil {
			size = *req.Size
		}
		if err := e.backend.MoveResize(win, rectFromParts(pos, size)); err != nil {
			return nil, err
		}
		elem.Transform.Position = pos
		elem.Transform.Size = size
	}

	if req.State != nil {
		if err := e.applyState(win, elem, req.State); err != nil {
			return nil, err
		}
	}

	if len(req.Metadata) > 0 {
		if elem.Metadata == nil {
			elem.Metadata = map[string]any{}
		}
		for k, v := range req.Metadata {
			if reservedMetaKey(k) {
				continue
			}
			elem.Metadata[k] = v
		}
	}

	e.record(OpModify, elementID, modifyParams(req))
	e.audit.Log(oplog.ActionModify, elementID, modifyParams(req))
	e.notify()

	out := elem.clone()
	return &out, nil
}

func (e *Engine) applyState(win platform.WindowID, elem *Element, st *StateChange) error {
	if st.Visible != nil {
		if *st.Visible {
			if err := e.backend.Show(win); err != nil {
				return err
			}
			elem.State.Visible = true
			elem.State.Minimized = false
		} else {
			if err := e.backend.Hide(win); err != nil {
				return err
			}
			elem.State.Visible = false
		}
	}
	if st.Minimized != nil {
		if *st.Minimized {
			if err := e.backend.Minimize(win); err != nil {
				return err
			}
			elem.State.Minimized = true
		} else {
			if err := e.backend.Show(win); err != nil {
				return err
			}
			elem.State.Minimized = false
			elem.State.Visible = true
		}
	}
	if st.Focused != nil && *st.Focused {
		if err := e.backend.Focus(win); err != nil {
			return err
		}
		e.setFocus(elem.ID)
	}
	if len(st.Properties) > 0 {
		if elem.State.Properties == nil {
			elem.State.Properties = map[string]any{}
		}
		for k, v := range st.Properties {
			elem.State.Properties[k] = v
		}
	}
	return nil
}

// RemoveElement closes the element's window and deletes its record. Removing
// an id that is already gone is a no-op, not an error.
func (e *Engine) RemoveElement(ctx context.Context, elementID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.canvas == nil {
		return &ValidationError{Reason: "engine not initialized"}
	}
	if !e.canvas.Capabilities.SupportsOperation(string(OpRemove)) {
		return &ValidationError{Field: "operation", Reason: "remove not supported by canvas"}
	}

	if e.elementByID(elementID) == nil {
		return nil
	}

	e.dropElement(elementID, true)
	e.record(OpRemove, elementID, nil)
	e.audit.Log(oplog.ActionRemove, elementID, nil)
	e.notify()
	return nil
}

// RemoveAll removes every element, closing each window.
func (e *Engine) RemoveAll(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.canvas == nil {
		return &ValidationError{Reason: "engine not initialized"}
	}
	if len(e.canvas.Elements) == 0 {
		return nil
	}

	ids := make([]string, 0, len(e.canvas.Elements))
	for _, elem := range e.canvas.Elements {
		ids = append(ids, elem.ID)
	}
	for _, id := range ids {
		e.dropElement(id, true)
		e.record(OpRemove, id, nil)
	}
	e.audit.Log(oplog.ActionClear, "", map[string]any{"removed": len(ids)})
	e.notify()
	return nil
}

// State runs one reconciliation pass and returns a deep copy of the canvas.
func (e *Engine) State() (*Canvas, error) {
	if _, err := e.SyncOnce(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.canvas == nil {
		return nil, &ValidationError{Reason: "engine not initialized"}
	}
	return e.canvas.Clone(), nil
}

// Snapshot returns a deep copy of the canvas without forcing a
// reconciliation pass.
func (e *Engine) Snapshot() *Canvas {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canvas.Clone()
}

// History returns the recorded operations, oldest first.
func (e *Engine) History() []Operation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.list()
}

// MonitorChanges registers the change callback. Single subscriber; the last
// registration wins.
func (e *Engine) MonitorChanges(fn ChangeFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChange = fn
}

// Destroy closes every tracked window and clears the canvas. Safe to call
// when some windows are already gone.
func (e *Engine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for id := range e.handles {
		e.dropTracking(id, true)
	}
	if e.canvas != nil {
		e.canvas.Elements = []Element{}
	}
	e.logger.Info("canvas destroyed")
}

// HandleWindowEvent folds one window-system event into the model. Events for
// untracked windows are ignored.
func (e *Engine) HandleWindowEvent(ev platform.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id, ok := e.byWin[ev.Window]
	if !ok {
		return
	}
	elem := e.elementByID(id)
	if elem == nil {
		return
	}

	changed := false
	switch ev.Type {
	case platform.EventMoved:
		if next := [2]int{ev.Bounds.X, ev.Bounds.Y}; elem.Transform.Position.Coordinates != next {
			elem.Transform.Position.Coordinates = next
			changed = true
		}
	case platform.EventResized:
		if next := [2]int{ev.Bounds.Width, ev.Bounds.Height}; elem.Transform.Size.Dimensions != next {
			elem.Transform.Size.Dimensions = next
			changed = true
		}
	case platform.EventFocused:
		if !elem.State.Focused {
			e.setFocus(id)
			changed = true
		}
	case platform.EventBlurred:
		if elem.State.Focused {
			elem.State.Focused = false
			changed = true
		}
	case platform.EventShown:
		if !elem.State.Visible || elem.State.Minimized {
			elem.State.Visible = true
			elem.State.Minimized = false
			changed = true
		}
	case platform.EventHidden:
		if elem.State.Visible {
			elem.State.Visible = false
			changed = true
		}
	case platform.EventClosed:
		e.dropElement(id, false)
		e.audit.Log(oplog.ActionRemove, id, map[string]any{"closed_externally": true})
		changed = true
	}

	if changed {
		e.notify()
	}
}

// SyncOnce walks all live windows and reconciles the element list against
// them. Elements whose windows are gone are removed; geometry, visibility,
// and focus drift is folded into the model. Reports whether anything changed.
func (e *Engine) SyncOnce() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.canvas == nil {
		return false, &ValidationError{Reason: "engine not initialized"}
	}

	windows, err := e.backend.ListWindows()
	if err != nil {
		return false, err
	}
	live := make(map[platform.WindowID]platform.Window, len(windows))
	for _, w := range windows {
		live[w.ID] = w
	}

	active, _ := e.backend.ActiveWindow()

	changed := false
	var gone []string
	for i := range e.canvas.Elements {
		elem := &e.canvas.Elements[i]
		win, tracked := e.handles[elem.ID]
		if !tracked {
			gone = append(gone, elem.ID)
			continue
		}
		w, alive := live[win]
		if !alive {
			gone = append(gone, elem.ID)
			continue
		}

		if c := [2]int{w.Bounds.X, w.Bounds.Y}; elem.Transform.Position.Coordinates != c {
			elem.Transform.Position.Coordinates = c
			changed = true
		}
		if d := [2]int{w.Bounds.Width, w.Bounds.Height}; elem.Transform.Size.Dimensions != d {
			elem.Transform.Size.Dimensions = d
			changed = true
		}
		if viewable, verr := e.backend.IsViewable(win); verr == nil && elem.State.Visible != viewable {
			elem.State.Visible = viewable
			changed = true
		}
		if focused := win == active; elem.State.Focused != focused {
			elem.State.Focused = focused
			changed = true
		}
	}

	for _, id := range gone {
		e.dropElement(id, false)
		e.audit.Log(oplog.ActionDrift, id, map[string]any{"reason": "window gone"})
		changed = true
	}

	if changed {
		e.notify()
	}
	return changed, nil
}

// dropElement removes the element record and its tracking state.
// closeWindow controls whether the live window is closed too.
func (e *Engine) dropElement(elementID string, closeWindow bool) {
	e.dropTracking(elementID, closeWindow)
	for i := range e.canvas.Elements {
		if e.canvas.Elements[i].ID == elementID {
			e.canvas.Elements = append(e.canvas.Elements[:i], e.canvas.Elements[i+1:]...)
			break
		}
	}
}

func (e *Engine) dropTracking(elementID string, closeWindow bool) {
	win, ok := e.handles[elementID]
	if ok {
		e.backend.Unwatch(win)
		if closeWindow {
			if err := e.backend.Close(win); err != nil {
				e.logger.Debug("close failed, window likely gone", "window", win, "error", err)
			}
		}
		delete(e.byWin, win)
	}
	delete(e.handles, elementID)
	delete(e.pids, elementID)
	if e.reg != nil {
		e.reg.Remove(elementID)
	}
}

func (e *Engine) watch(win platform.WindowID) {
	if err := e.backend.Watch(win, e.HandleWindowEvent); err != nil {
		e.logger.Warn("failed to watch window", "window", win, "error", err)
	}
}

func (e *Engine) elementByID(id string) *Element {
	for i := range e.canvas.Elements {
		if e.canvas.Elements[i].ID == id {
			return &e.canvas.Elements[i]
		}
	}
	return nil
}

// elementByComponent finds an element hosting the named internal component.
func (e *Engine) elementByComponent(name string) (*Element, bool) {
	for i := range e.canvas.Elements {
		elem := &e.canvas.Elements[i]
		if elem.Content.Type != ContentComponent {
			continue
		}
		if comp, ok := elem.Content.Metadata["component"].(string); ok && comp == name {
			return elem, true
		}
	}
	return nil, false
}

func (e *Engine) setFocus(elementID string) {
	for i := range e.canvas.Elements {
		e.canvas.Elements[i].State.Focused = e.canvas.Elements[i].ID == elementID
	}
}

// elementMetadata merges caller metadata first and engine-owned keys last so
// reserved keys cannot be overridden.
func (e *Engine) elementMetadata(caller map[string]any, component string) map[string]any {
	meta := cloneMap(caller)
	if meta == nil {
		meta = map[string]any{}
	}
	meta[MetaManagedBy] = ManagedByValue
	meta[MetaCreatedAt] = time.Now().UTC().Format(time.RFC3339)
	if component != "" {
		meta[MetaComponent] = component
	}
	return meta
}

func reservedMetaKey(k string) bool {
	return k == MetaManagedBy || k == MetaCreatedAt || k == MetaComponent
}

func (e *Engine) record(op OpType, elementID string, params map[string]any) {
	e.hist.add(Operation{
		ID:         newID(),
		Type:       op,
		ElementID:  elementID,
		Timestamp:  time.Now(),
		Parameters: params,
	})
}

func (e *Engine) notify() {
	if e.onChange == nil {
		return
	}
	e.onChange(e.canvas.Clone())
}

func modifyParams(req ModifyRequest) map[string]any {
	params := map[string]any{}
	if req.Position != nil {
		params["position"] = []any{req.Position.Coordinates[0], req.Position.Coordinates[1]}
	}
	if req.Size != nil {
		params["size"] = []any{req.Size.Dimensions[0], req.Size.Dimensions[1]}
	}
	if req.State != nil {
		if req.State.Visible != nil {
			params["visible"] = *req.State.Visible
		}
		if req.State.Focused != nil {
			params["focused"] = *req.State.Focused
		}
		if req.State.Minimized != nil {
			params["minimized"] = *req.State.Minimized
		}
	}
	if len(req.Metadata) > 0 {
		params["metadata_keys"] = len(req.Metadata)
	}
	return params
}

func schemeOf(content Content) string {
	if s, ok := content.Metadata["scheme"].(string); ok {
		return s
	}
	return ""
}

func rectFromParts(pos Position, size Size) platform.Rect {
	return platform.Rect{
		X:      pos.Coordinates[0],
		Y:      pos.Coordinates[1],
		Width:  size.Dimensions[0],
		Height: size.Dimensions[1],
	}
}

func newID() string {
	return uuid.NewString()[:8]
}
