package mcp

// CreateElementInput is the input for the create_element tool.
type CreateElementInput struct {
	Type     string         `json:"type" jsonschema:"required,Element type: window, browser, or application"`
	Position *[2]int        `json:"position,omitempty" jsonschema:"required,Window position as [x, y] in pixels. Both position and size are mandatory; there are no default placements."`
	Size     *[2]int        `json:"size,omitempty" jsonschema:"required,Window size as [width, height] in pixels"`
	Source   string         `json:"source" jsonschema:"required,Content source: an external URL (bare hosts are upgraded to https) or an internal component URI such as apps://notes?note=42"`
	Metadata map[string]any `json:"metadata,omitempty" jsonschema:"Optional free-form metadata attached to the element"`
}

// ElementOutput describes one canvas element as returned by mutating tools.
type ElementOutput struct {
	ElementID   string         `json:"element_id"`
	Type        string         `json:"type"`
	Position    [2]int         `json:"position"`
	Size        [2]int         `json:"size"`
	ContentType string         `json:"content_type"`
	Source      string         `json:"source"`
	Visible     bool           `json:"visible"`
	Focused     bool           `json:"focused"`
	Minimized   bool           `json:"minimized"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// ModifyElementInput is the input for the modify_element tool. Omitted fields
// are left untouched.
type ModifyElementInput struct {
	ElementID string         `json:"element_id" jsonschema:"required,Id of the element to modify"`
	Position  *[2]int        `json:"position,omitempty" jsonschema:"New position as [x, y] in pixels"`
	Size      *[2]int        `json:"size,omitempty" jsonschema:"New size as [width, height] in pixels"`
	Visible   *bool          `json:"visible,omitempty" jsonschema:"Show (true) or hide (false) the element's window"`
	Minimized *bool          `json:"minimized,omitempty" jsonschema:"Minimize (true) or restore (false) the element's window"`
	Focused   *bool          `json:"focused,omitempty" jsonschema:"Request focus for the element's window. Only true has an effect; focus is requested, never relinquished."`
	Metadata  map[string]any `json:"metadata,omitempty" jsonschema:"Metadata keys to merge into the element"`
}

// RemoveElementInput is the input for the remove_element tool.
type RemoveElementInput struct {
	ElementID string `json:"element_id" jsonschema:"required,Id of the element to remove. Removing an already-gone element is a no-op."`
}

// RemoveElementOutput is the output for the remove_element tool.
type RemoveElementOutput struct {
	Removed   bool   `json:"removed"`
	ElementID string `json:"element_id"`
}

// FocusElementInput is the input for the focus_element tool.
type FocusElementInput struct {
	ElementID string `json:"element_id" jsonschema:"required,Id of the element to focus"`
}

// GetCanvasStateInput is the input for the get_canvas_state tool.
type GetCanvasStateInput struct{}

// CanvasStateOutput is the output for the get_canvas_state tool.
type CanvasStateOutput struct {
	CanvasID   string           `json:"canvas_id"`
	Boundaries BoundariesOutput `json:"boundaries"`
	Elements   []ElementOutput  `json:"elements"`
}

// BoundariesOutput is the usable coordinate space of the canvas.
type BoundariesOutput struct {
	OriginX int `json:"origin_x"`
	OriginY int `json:"origin_y"`
	Width   int `json:"width"`
	Height  int `json:"height"`
}

// ListComponentsInput is the input for the list_components tool.
type ListComponentsInput struct{}

// ComponentOutput describes one cataloged component.
type ComponentOutput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Configured  bool   `json:"configured"`
}

// ListComponentsOutput is the output for the list_components tool.
type ListComponentsOutput struct {
	Components []ComponentOutput `json:"components"`
}

// ClearCanvasInput is the input for the clear_canvas tool.
type ClearCanvasInput struct{}

// ClearCanvasOutput is the output for the clear_canvas tool.
type ClearCanvasOutput struct {
	Cleared bool `json:"cleared"`
}
