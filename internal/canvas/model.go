package canvas

import (
	"time"
)

// Canvas type and element type tags.
const (
	CanvasTypeDesktop = "desktop"

	ElementTypeWindow      = "window"
	ElementTypeBrowser     = "browser"
	ElementTypeApplication = "application"
)

// ContentType distinguishes what an element's window is loaded with.
type ContentType string

const (
	ContentURL       ContentType = "url"
	ContentComponent ContentType = "component"
)

// Engine-owned metadata keys. They are written after caller metadata and
// cannot be overridden by it.
const (
	MetaManagedBy = "managed_by"
	MetaCreatedAt = "created_at"
	MetaComponent = "component"
	MetaTitle     = "title"
)

// ManagedByValue marks elements whose windows the engine owns.
const ManagedByValue = "deskcanvas"

// Position locates an element on the canvas.
type Position struct {
	Coordinates [2]int `json:"coordinates"`
	Reference   string `json:"reference"`
	Units       string `json:"units"`
}

// Size is an element's extent.
type Size struct {
	Dimensions [2]int `json:"dimensions"`
	Units      string `json:"units"`
}

// Transform is the full geometry of an element. Both parts are mandatory at
// creation: the engine refuses to guess geometry.
type Transform struct {
	Position Position `json:"position"`
	Size     Size     `json:"size"`
}

// ElementState mirrors the observable state of the element's window.
type ElementState struct {
	Visible     bool           `json:"visible"`
	Interactive bool           `json:"interactive"`
	Focused     bool           `json:"focused"`
	Minimized   bool           `json:"minimized"`
	Properties  map[string]any `json:"properties,omitempty"`
}

// Content describes what is loaded into the element's window.
type Content struct {
	Type     ContentType    `json:"type"`
	Source   string         `json:"source"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Element is one logical UI surface tracked by the canvas. The underlying
// window handle is deliberately not part of the record; it lives in the
// engine's handle map so the element stays serializable and cloneable.
type Element struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Transform  Transform      `json:"transform"`
	State      ElementState   `json:"state"`
	Content    Content        `json:"content"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CanvasType string         `json:"canvas_type"`
}

// Boundaries is the usable coordinate space, derived from the primary
// display's work area.
type Boundaries struct {
	OriginX int    `json:"origin_x"`
	OriginY int    `json:"origin_y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Units   string `json:"units"`
}

// Capabilities declares what the canvas supports. Every operation is checked
// against this set before any side effect.
type Capabilities struct {
	SupportedElementTypes []string `json:"supported_element_types"`
	SupportedOperations   []string `json:"supported_operations"`
	Supports3D            bool     `json:"supports_3d"`
	SupportsLayers        bool     `json:"supports_layers"`
	SupportsRotation      bool     `json:"supports_rotation"`
	SupportsTransparency  bool     `json:"supports_transparency"`
	SupportsAnimation     bool     `json:"supports_animation"`
	CoordinateSystem      string   `json:"coordinate_system"`
}

// SupportsElementType reports whether typ is in the declared capability set.
func (c Capabilities) SupportsElementType(typ string) bool {
	for _, t := range c.SupportedElementTypes {
		if t == typ {
			return true
		}
	}
	return false
}

// SupportsOperation reports whether op is in the declared capability set.
func (c Capabilities) SupportsOperation(op string) bool {
	for _, o := range c.SupportedOperations {
		if o == op {
			return true
		}
	}
	return false
}

// Canvas is the logical model of all UI surfaces in one desktop session.
// Elements are ordered by creation.
type Canvas struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Elements     []Element      `json:"elements"`
	Boundaries   Boundaries     `json:"boundaries"`
	Capabilities Capabilities   `json:"capabilities"`
	Constraints  map[string]any `json:"constraints,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// OpType is the kind of a recorded mutation.
type OpType string

const (
	OpCreate OpType = "create"
	OpModify OpType = "modify"
	OpRemove OpType = "remove"
)

// Operation is one history entry. Purely diagnostic; never replayed.
type Operation struct {
	ID         string         `json:"id"`
	Type       OpType         `json:"type"`
	ElementID  string         `json:"element_id"`
	Timestamp  time.Time      `json:"timestamp"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// DesktopCapabilities is the capability set of the desktop canvas: flat
// pixel-space windows, no layers or 3D.
func DesktopCapabilities() Capabilities {
	return Capabilities{
		SupportedElementTypes: []string{ElementTypeWindow, ElementTypeBrowser, ElementTypeApplication},
		SupportedOperations:   []string{string(OpCreate), string(OpModify), string(OpRemove)},
		CoordinateSystem:      "cartesian",
	}
}
