package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/deskcanvas/deskcanvas/internal/canvas"
	"github.com/deskcanvas/deskcanvas/internal/discovery"
	"github.com/deskcanvas/deskcanvas/internal/platform"
	"github.com/deskcanvas/deskcanvas/internal/runtimepath"
)

// Syncer requests an out-of-band reconciliation pass after a mutation so
// drift introduced by the operation itself is confirmed promptly.
type Syncer interface {
	ReconcileNow()
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	engine       *canvas.Engine
	resolver     discovery.Resolver
	backend      platform.Backend
	syncer       Syncer
	startTime    time.Time
	reloadChan   chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(engine *canvas.Engine, resolver discovery.Resolver, backend platform.Backend, syncer Syncer, reloadChan chan struct{}) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		engine:     engine,
		resolver:   resolver,
		backend:    backend,
		syncer:     syncer,
		startTime:  time.Now(),
		reloadChan: reloadChan,
	}, nil
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	resp := s.dispatch(req)
	if resp.Status == "OK" && s.syncer != nil {
		switch req.Command {
		case CommandCreateElement, CommandModifyElement, CommandRemoveElement, CommandFocusElement, CommandClear:
			s.syncer.ReconcileNow()
		}
	}
	return resp
}

func (s *Server) dispatch(req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetState:
		return s.handleGetState()
	case CommandGetBoundaries:
		return s.handleGetBoundaries()
	case CommandGetMonitors:
		return s.handleGetMonitors()
	case CommandGetHistory:
		return s.handleGetHistory()
	case CommandCreateElement:
		return s.handleCreateElement(req.Payload)
	case CommandModifyElement:
		return s.handleModifyElement(req.Payload)
	case CommandRemoveElement:
		return s.handleRemoveElement(req.Payload)
	case CommandFocusElement:
		return s.handleFocusElement(req.Payload)
	case CommandClear:
		return s.handleClear()
	case CommandListComponents:
		return s.handleListComponents()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleReload asks the daemon to reload its configuration.
func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")

	select {
	case s.reloadChan <- struct{}{}:
	default:
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	snap := s.engine.Snapshot()

	status := StatusData{
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}
	if snap != nil {
		status.CanvasID = snap.ID
		status.ElementCount = len(snap.Elements)
	}

	resp, _ := NewOKResponse(status)
	return resp
}

// handleGetState forces a reconciliation pass and returns the canvas.
func (s *Server) handleGetState() *Response {
	snap, err := s.engine.State()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get state: %v", err))
	}
	resp, err := NewOKResponse(snap)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleGetBoundaries() *Response {
	snap := s.engine.Snapshot()
	if snap == nil {
		return NewErrorResponse("canvas not initialized")
	}
	resp, _ := NewOKResponse(snap.Boundaries)
	return resp
}

// handleGetMonitors returns information about all monitors
func (s *Server) handleGetMonitors() *Response {
	displays, err := s.backend.Displays()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get monitors: %v", err))
	}

	monitorInfos := make([]MonitorInfo, len(displays))
	for i, d := range displays {
		monitorInfos[i] = MonitorInfo{
			ID:     d.ID,
			Name:   d.Name,
			X:      d.Bounds.X,
			Y:      d.Bounds.Y,
			Width:  d.Bounds.Width,
			Height: d.Bounds.Height,
		}
	}

	resp, _ := NewOKResponse(MonitorsData{Monitors: monitorInfos})
	return resp
}

func (s *Server) handleGetHistory() *Response {
	resp, err := NewOKResponse(HistoryData{Operations: s.engine.History()})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleCreateElement(payload json.RawMessage) *Response {
	var p CreateElementPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid create payload: %v", err))
	}

	req := canvas.CreateRequest{
		Type:     p.Type,
		Source:   p.Source,
		Metadata: p.Metadata,
	}
	if p.Position != nil {
		req.Position = &canvas.Position{Coordinates: *p.Position, Reference: "canvas", Units: "pixels"}
	}
	if p.Size != nil {
		req.Size = &canvas.Size{Dimensions: *p.Size, Units: "pixels"}
	}

	elem, err := s.engine.CreateElement(context.Background(), req)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(elem)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleModifyElement(payload json.RawMessage) *Response {
	var p ModifyElementPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid modify payload: %v", err))
	}
	if p.ElementID == "" {
		return NewErrorResponse("element_id is required")
	}

	req := canvas.ModifyRequest{Metadata: p.Metadata}
	if p.Position != nil {
		req.Position = &canvas.Position{Coordinates: *p.Position, Reference: "canvas", Units: "pixels"}
	}
	if p.Size != nil {
		req.Size = &canvas.Size{Dimensions: *p.Size, Units: "pixels"}
	}
	if p.Visible != nil || p.Focused != nil || p.Minimized != nil {
		req.State = &canvas.StateChange{
			Visible:   p.Visible,
			Focused:   p.Focused,
			Minimized: p.Minimized,
		}
	}

	elem, err := s.engine.ModifyElement(context.Background(), p.ElementID, req)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(elem)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleRemoveElement(payload json.RawMessage) *Response {
	var p ElementPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid remove payload: %v", err))
	}
	if p.ElementID == "" {
		return NewErrorResponse("element_id is required")
	}

	if err := s.engine.RemoveElement(context.Background(), p.ElementID); err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleFocusElement(payload json.RawMessage) *Response {
	var p ElementPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid focus payload: %v", err))
	}
	if p.ElementID == "" {
		return NewErrorResponse("element_id is required")
	}

	focused := true
	elem, err := s.engine.ModifyElement(context.Background(), p.ElementID, canvas.ModifyRequest{
		State: &canvas.StateChange{Focused: &focused},
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(elem)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleClear() *Response {
	if err := s.engine.RemoveAll(context.Background()); err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleListComponents() *Response {
	comps := s.resolver.List()
	infos := make([]ComponentInfo, 0, len(comps))
	for _, c := range comps {
		infos = append(infos, ComponentInfo{
			Name:        c.Name,
			Description: c.Description,
			Configured:  c.Command != "",
		})
	}
	resp, _ := NewOKResponse(ComponentsData{Components: infos})
	return resp
}

// sendError sends an error response over the connection.
func (s *Server) sendError(conn net.Conn, msg string) {
	resp := NewErrorResponse(msg)
	data, err := resp.Marshal()
	if err != nil {
		return
	}
	data = append(data, '\n')
	conn.Write(data)
}

// Stop shuts down the IPC server and removes the socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
