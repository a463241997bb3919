package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/deskcanvas/deskcanvas/internal/canvas"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload         CommandType = "RELOAD"
	CommandGetStatus      CommandType = "GET_STATUS"
	CommandGetState       CommandType = "GET_STATE"
	CommandGetBoundaries  CommandType = "GET_BOUNDARIES"
	CommandGetMonitors    CommandType = "GET_MONITORS"
	CommandGetHistory     CommandType = "GET_HISTORY"
	CommandCreateElement  CommandType = "CREATE_ELEMENT"
	CommandModifyElement  CommandType = "MODIFY_ELEMENT"
	CommandRemoveElement  CommandType = "REMOVE_ELEMENT"
	CommandFocusElement   CommandType = "FOCUS_ELEMENT"
	CommandClear          CommandType = "CLEAR"
	CommandListComponents CommandType = "LIST_COMPONENTS"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	CanvasID      string `json:"canvas_id"`
	ElementCount  int    `json:"element_count"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DaemonRunning bool   `json:"daemon_running"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// CreateElementPayload carries a create request. Position and Size are
// pointers so the server can tell omitted geometry from explicit zeros and
// reject it.
type CreateElementPayload struct {
	Type     string         `json:"type"`
	Position *[2]int        `json:"position,omitempty"`
	Size     *[2]int        `json:"size,omitempty"`
	Source   string         `json:"source"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ModifyElementPayload carries a partial change set for one element.
type ModifyElementPayload struct {
	ElementID string         `json:"element_id"`
	Position  *[2]int        `json:"position,omitempty"`
	Size      *[2]int        `json:"size,omitempty"`
	Visible   *bool          `json:"visible,omitempty"`
	Focused   *bool          `json:"focused,omitempty"`
	Minimized *bool          `json:"minimized,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ElementPayload addresses one element by id.
type ElementPayload struct {
	ElementID string `json:"element_id"`
}

// ComponentInfo describes one cataloged component.
type ComponentInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Configured  bool   `json:"configured"`
}

// ComponentsData represents the data returned by LIST_COMPONENTS
type ComponentsData struct {
	Components []ComponentInfo `json:"components"`
}

// HistoryData represents the data returned by GET_HISTORY
type HistoryData struct {
	Operations []canvas.Operation `json:"operations"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
