//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/deskcanvas/deskcanvas/internal/x11"
)

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.StopEventLoop()
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking). Required for Watch
// callbacks to fire.
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	return displays, nil
}

// ActiveDisplay returns the primary display with its work area applied.
func (b *LinuxBackend) ActiveDisplay() (Display, error) {
	conn, err := b.connection()
	if err != nil {
		return Display{}, err
	}

	primary, err := conn.GetPrimaryMonitor()
	if err != nil {
		return Display{}, err
	}

	return displayFromMonitor(*primary), nil
}

// ActiveWindow returns the currently active/focused window ID.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	wid, err := conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(wid), nil
}

// ListWindows lists all normal top-level windows.
func (b *LinuxBackend) ListWindows() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	clients, err := conn.ListClientWindows()
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(clients))
	for _, windowID := range clients {
		if !conn.IsNormalWindow(windowID) {
			continue
		}

		x, y, w, h, err := conn.WindowGeometry(windowID)
		if err != nil {
			continue
		}

		windows = append(windows, Window{
			ID:     WindowID(windowID),
			PID:    conn.WindowPID(windowID),
			AppID:  conn.WindowClass(windowID),
			Title:  conn.WindowTitle(windowID),
			Bounds: Rect{X: x, Y: y, Width: w, Height: h},
		})
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].ID < windows[j].ID
	})

	return windows, nil
}

// Geometry returns a window's current bounds in root coordinates.
func (b *LinuxBackend) Geometry(windowID WindowID) (Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, err
	}

	x, y, w, h, err := conn.WindowGeometry(xproto.Window(windowID))
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, nil
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResize(windowID WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	return conn.MoveResizeWindow(
		xproto.Window(windowID),
		bounds.X,
		bounds.Y,
		bounds.Width,
		bounds.Height,
	)
}

// Focus activates and raises a window.
func (b *LinuxBackend) Focus(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.FocusWindow(xproto.Window(windowID))
}

// Show maps a window.
func (b *LinuxBackend) Show(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.ShowWindow(xproto.Window(windowID))
}

// Hide unmaps a window.
func (b *LinuxBackend) Hide(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.HideWindow(xproto.Window(windowID))
}

// Minimize iconifies a window via WM_CHANGE_STATE.
func (b *LinuxBackend) Minimize(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MinimizeWindow(xproto.Window(windowID))
}

// IsViewable reports whether a window is currently mapped.
func (b *LinuxBackend) IsViewable(windowID WindowID) (bool, error) {
	conn, err := b.connection()
	if err != nil {
		return false, err
	}
	return conn.IsViewable(xproto.Window(windowID))
}

// Close requests graceful window close via WM_DELETE_WINDOW.
func (b *LinuxBackend) Close(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.CloseWindow(xproto.Window(windowID))
}

// FindWindowByPID returns the first top-level window owned by pid.
func (b *LinuxBackend) FindWindowByPID(pid int) (WindowID, bool, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, false, err
	}

	win, ok, err := conn.FindWindowByPID(pid)
	if err != nil {
		return 0, false, err
	}
	return WindowID(win), ok, nil
}

// SetProperty writes a UTF-8 string property on a window.
func (b *LinuxBackend) SetProperty(windowID WindowID, name, value string) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetStringProperty(xproto.Window(windowID), name, value)
}

// Watch subscribes fn to state-change events for a window.
func (b *LinuxBackend) Watch(windowID WindowID, fn EventFunc) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	return conn.WatchWindow(xproto.Window(windowID), func(ev x11.WindowEvent) {
		fn(eventFromX11(ev))
	})
}

// Unwatch removes a window's event subscription.
func (b *LinuxBackend) Unwatch(windowID WindowID) {
	if b == nil || b.conn == nil {
		return
	}
	b.conn.UnwatchWindow(xproto.Window(windowID))
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func displayFromMonitor(m x11.Monitor) Display {
	bounds := Rect{
		X:      m.X,
		Y:      m.Y,
		Width:  m.Width,
		Height: m.Height,
	}
	return Display{
		ID:     m.ID,
		Name:   m.Name,
		Bounds: bounds,
		Usable: bounds,
	}
}

func eventFromX11(ev x11.WindowEvent) Event {
	out := Event{
		Window: WindowID(ev.Window),
		Bounds: Rect{X: ev.X, Y: ev.Y, Width: ev.Width, Height: ev.Height},
	}
	switch ev.Kind {
	case x11.WindowMoved:
		out.Type = EventMoved
	case x11.WindowResized:
		out.Type = EventResized
	case x11.WindowFocused:
		out.Type = EventFocused
	case x11.WindowBlurred:
		out.Type = EventBlurred
	case x11.WindowShown:
		out.Type = EventShown
	case x11.WindowHidden:
		out.Type = EventHidden
	case x11.WindowClosed:
		out.Type = EventClosed
	}
	return out
}
