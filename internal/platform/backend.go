package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID     WindowID
	PID    int
	AppID  string
	Title  string
	Bounds Rect
}

// EventType identifies a per-window state change reported by the window system.
type EventType int

const (
	EventMoved EventType = iota
	EventResized
	EventFocused
	EventBlurred
	EventShown
	EventHidden
	EventClosed
)

func (t EventType) String() string {
	switch t {
	case EventMoved:
		return "moved"
	case EventResized:
		return "resized"
	case EventFocused:
		return "focused"
	case EventBlurred:
		return "blurred"
	case EventShown:
		return "shown"
	case EventHidden:
		return "hidden"
	case EventClosed:
		return "closed"
	default:
		return "?"
	}
}

// Event is a single window-state change. Bounds is populated for moved and
// resized events only.
type Event struct {
	Type   EventType
	Window WindowID
	Bounds Rect
}

// EventFunc receives events for a watched window.
type EventFunc func(Event)

// Backend abstracts window-system operations across platforms.
type Backend interface {
	Displays() ([]Display, error)
	ActiveDisplay() (Display, error)
	ActiveWindow() (WindowID, error)
	ListWindows() ([]Window, error)
	Geometry(windowID WindowID) (Rect, error)
	MoveResize(windowID WindowID, bounds Rect) error
	Focus(windowID WindowID) error
	Show(windowID WindowID) error
	Hide(windowID WindowID) error
	Minimize(windowID WindowID) error
	IsViewable(windowID WindowID) (bool, error)
	Close(windowID WindowID) error
	// FindWindowByPID returns the first top-level window owned by pid.
	FindWindowByPID(pid int) (WindowID, bool, error)
	// SetProperty writes a UTF-8 string property on a window. Used to forward
	// component parameters to an already-running instance.
	SetProperty(windowID WindowID, name, value string) error
	// Watch subscribes fn to state-change events for a window until Unwatch.
	Watch(windowID WindowID, fn EventFunc) error
	Unwatch(windowID WindowID)
}
