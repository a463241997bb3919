package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WindowEventKind identifies per-window notifications surfaced to watchers.
type WindowEventKind int

const (
	WindowMoved WindowEventKind = iota
	WindowResized
	WindowFocused
	WindowBlurred
	WindowShown
	WindowHidden
	WindowClosed
)

// WindowEvent is a single change observed on a watched window. X and Y are
// root coordinates; geometry fields are meaningful for moved/resized only.
type WindowEvent struct {
	Kind   WindowEventKind
	Window xproto.Window
	X      int
	Y      int
	Width  int
	Height int
}

// WindowEventFunc receives events for one watched window.
type WindowEventFunc func(WindowEvent)

type watchState struct {
	fn       WindowEventFunc
	lastX    int
	lastY    int
	lastW    int
	lastH    int
	haveGeom bool
}

// WatchWindow subscribes fn to structure and focus events for a window.
// Events are delivered on the X event loop goroutine. Watching an already
// watched window replaces the previous callback.
func (c *Connection) WatchWindow(windowID xproto.Window, fn WindowEventFunc) error {
	win := xwindow.New(c.XUtil, windowID)
	if err := win.Listen(xproto.EventMaskStructureNotify | xproto.EventMaskFocusChange); err != nil {
		return err
	}

	state := &watchState{fn: fn}
	if x, y, w, h, err := c.WindowGeometry(windowID); err == nil {
		state.lastX, state.lastY, state.lastW, state.lastH = x, y, w, h
		state.haveGeom = true
	}

	c.watchMu.Lock()
	_, replacing := c.watched[windowID]
	c.watched[windowID] = state
	c.watchMu.Unlock()

	// Handlers are connected once per window; a replaced callback reuses them.
	if replacing {
		return nil
	}

	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		c.handleConfigure(ev)
	}).Connect(c.XUtil, windowID)

	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		c.dispatch(ev.Window, WindowEvent{Kind: WindowClosed, Window: ev.Window})
		c.UnwatchWindow(ev.Window)
	}).Connect(c.XUtil, windowID)

	xevent.MapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.MapNotifyEvent) {
		c.dispatch(ev.Window, WindowEvent{Kind: WindowShown, Window: ev.Window})
	}).Connect(c.XUtil, windowID)

	xevent.UnmapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
		c.dispatch(ev.Window, WindowEvent{Kind: WindowHidden, Window: ev.Window})
	}).Connect(c.XUtil, windowID)

	xevent.FocusInFun(func(xu *xgbutil.XUtil, ev xevent.FocusInEvent) {
		c.dispatch(ev.Event, WindowEvent{Kind: WindowFocused, Window: ev.Event})
	}).Connect(c.XUtil, windowID)

	xevent.FocusOutFun(func(xu *xgbutil.XUtil, ev xevent.FocusOutEvent) {
		c.dispatch(ev.Event, WindowEvent{Kind: WindowBlurred, Window: ev.Event})
	}).Connect(c.XUtil, windowID)

	return nil
}

// UnwatchWindow removes the callback for a window and detaches its handlers.
func (c *Connection) UnwatchWindow(windowID xproto.Window) {
	c.watchMu.Lock()
	delete(c.watched, windowID)
	c.watchMu.Unlock()

	xevent.Detach(c.XUtil, windowID)
}

func (c *Connection) handleConfigure(ev xevent.ConfigureNotifyEvent) {
	c.watchMu.Lock()
	state, ok := c.watched[ev.Window]
	if !ok {
		c.watchMu.Unlock()
		return
	}

	x, y := int(ev.X), int(ev.Y)
	w, h := int(ev.Width), int(ev.Height)

	moved := !state.haveGeom || x != state.lastX || y != state.lastY
	resized := !state.haveGeom || w != state.lastW || h != state.lastH
	state.lastX, state.lastY, state.lastW, state.lastH = x, y, w, h
	state.haveGeom = true
	fn := state.fn
	c.watchMu.Unlock()

	event := WindowEvent{Window: ev.Window, X: x, Y: y, Width: w, Height: h}
	if moved {
		event.Kind = WindowMoved
		fn(event)
	}
	if resized {
		event.Kind = WindowResized
		fn(event)
	}
}

func (c *Connection) dispatch(windowID xproto.Window, ev WindowEvent) {
	c.watchMu.Lock()
	state, ok := c.watched[windowID]
	c.watchMu.Unlock()
	if ok {
		state.fn(ev)
	}
}
