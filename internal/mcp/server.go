// Package mcp exposes the desktop canvas to LLM agents as MCP tools over
// stdio. All tool calls are forwarded to a running daemon through its IPC
// socket; the MCP process itself holds no canvas state.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deskcanvas/deskcanvas/internal/canvas"
	"github.com/deskcanvas/deskcanvas/internal/ipc"
)

const (
	ServerName    = "deskcanvas"
	ServerVersion = "0.1.0"
)

// DaemonClient is the slice of the IPC client the tools need. ipc.Client
// implements it; tests inject a fake.
type DaemonClient interface {
	GetState() (*canvas.Canvas, error)
	CreateElement(p ipc.CreateElementPayload) (*canvas.Element, error)
	ModifyElement(p ipc.ModifyElementPayload) (*canvas.Element, error)
	RemoveElement(elementID string) error
	FocusElement(elementID string) (*canvas.Element, error)
	Clear() error
	ListComponents() ([]ipc.ComponentInfo, error)
}

// Server is the MCP server for canvas orchestration.
type Server struct {
	mcpServer *mcpsdk.Server
	client    DaemonClient
}

// NewServer creates an MCP server forwarding to client.
func NewServer(client DaemonClient) *Server {
	s := &Server{client: client}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "create_element",
		Description: "Create a UI element on the desktop canvas: a real OS window loading either an external URL or an internal component (apps://, widgets://, system:// URIs). Position and size are both required; there are no default placements. Creating a component that is already on the canvas reuses its window and forwards the new query parameters.",
	}, s.handleCreateElement)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "modify_element",
		Description: "Modify an existing canvas element: move, resize, show, hide, minimize, focus, or merge metadata. Only the provided fields change. Position and size given together are applied as one combined bounds update.",
	}, s.handleModifyElement)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "remove_element",
		Description: "Remove an element from the canvas, closing its window. Removing an element that is already gone succeeds without effect.",
	}, s.handleRemoveElement)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_element",
		Description: "Bring an element's window to the foreground and give it keyboard focus.",
	}, s.handleFocusElement)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_canvas_state",
		Description: "Get the current canvas: boundaries of the usable desktop area and every tracked element with its live geometry and state. Forces a reconciliation pass first, so the answer reflects reality.",
	}, s.handleGetCanvasState)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_components",
		Description: "List the internal components available for apps:// and widgets:// sources. Components without a configured command are shown but cannot be instantiated until the user configures them.",
	}, s.handleListComponents)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "clear_canvas",
		Description: "Remove every element from the canvas, closing all managed windows.",
	}, s.handleClearCanvas)
}
