package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deskcanvas/deskcanvas/internal/canvas"
	"github.com/deskcanvas/deskcanvas/internal/ipc"
)

func (s *Server) handleCreateElement(_ context.Context, _ *mcpsdk.CallToolRequest, args CreateElementInput) (*mcpsdk.CallToolResult, ElementOutput, error) {
	if args.Position == nil || args.Size == nil {
		return nil, ElementOutput{}, fmt.Errorf("position and size are both required; supply explicit geometry")
	}

	elem, err := s.client.CreateElement(ipc.CreateElementPayload{
		Type:     args.Type,
		Position: args.Position,
		Size:     args.Size,
		Source:   args.Source,
		Metadata: args.Metadata,
	})
	if err != nil {
		return nil, ElementOutput{}, err
	}
	return nil, elementOutput(elem), nil
}

func (s *Server) handleModifyElement(_ context.Context, _ *mcpsdk.CallToolRequest, args ModifyElementInput) (*mcpsdk.CallToolResult, ElementOutput, error) {
	if args.ElementID == "" {
		return nil, ElementOutput{}, fmt.Errorf("element_id is required")
	}

	elem, err := s.client.ModifyElement(ipc.ModifyElementPayload{
		ElementID: args.ElementID,
		Position:  args.Position,
		Size:      args.Size,
		Visible:   args.Visible,
		Focused:   args.Focused,
		Minimized: args.Minimized,
		Metadata:  args.Metadata,
	})
	if err != nil {
		return nil, ElementOutput{}, err
	}
	return nil, elementOutput(elem), nil
}

func (s *Server) handleRemoveElement(_ context.Context, _ *mcpsdk.CallToolRequest, args RemoveElementInput) (*mcpsdk.CallToolResult, RemoveElementOutput, error) {
	if args.ElementID == "" {
		return nil, RemoveElementOutput{}, fmt.Errorf("element_id is required")
	}
	if err := s.client.RemoveElement(args.ElementID); err != nil {
		return nil, RemoveElementOutput{}, err
	}
	return nil, RemoveElementOutput{Removed: true, ElementID: args.ElementID}, nil
}

func (s *Server) handleFocusElement(_ context.Context, _ *mcpsdk.CallToolRequest, args FocusElementInput) (*mcpsdk.CallToolResult, ElementOutput, error) {
	if args.ElementID == "" {
		return nil, ElementOutput{}, fmt.Errorf("element_id is required")
	}
	elem, err := s.client.FocusElement(args.ElementID)
	if err != nil {
		return nil, ElementOutput{}, err
	}
	return nil, elementOutput(elem), nil
}

func (s *Server) handleGetCanvasState(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetCanvasStateInput) (*mcpsdk.CallToolResult, CanvasStateOutput, error) {
	snap, err := s.client.GetState()
	if err != nil {
		return nil, CanvasStateOutput{}, err
	}

	out := CanvasStateOutput{
		CanvasID: snap.ID,
		Boundaries: BoundariesOutput{
			OriginX: snap.Boundaries.OriginX,
			OriginY: snap.Boundaries.OriginY,
			Width:   snap.Boundaries.Width,
			Height:  snap.Boundaries.Height,
		},
		Elements: make([]ElementOutput, 0, len(snap.Elements)),
	}
	for i := range snap.Elements {
		out.Elements = append(out.Elements, elementOutput(&snap.Elements[i]))
	}
	return nil, out, nil
}

func (s *Server) handleListComponents(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListComponentsInput) (*mcpsdk.CallToolResult, ListComponentsOutput, error) {
	comps, err := s.client.ListComponents()
	if err != nil {
		return nil, ListComponentsOutput{}, err
	}

	out := ListComponentsOutput{Components: make([]ComponentOutput, 0, len(comps))}
	for _, c := range comps {
		out.Components = append(out.Components, ComponentOutput{
			Name:        c.Name,
			Description: c.Description,
			Configured:  c.Configured,
		})
	}
	return nil, out, nil
}

func (s *Server) handleClearCanvas(_ context.Context, _ *mcpsdk.CallToolRequest, _ ClearCanvasInput) (*mcpsdk.CallToolResult, ClearCanvasOutput, error) {
	if err := s.client.Clear(); err != nil {
		return nil, ClearCanvasOutput{}, err
	}
	return nil, ClearCanvasOutput{Cleared: true}, nil
}

func elementOutput(elem *canvas.Element) ElementOutput {
	return ElementOutput{
		ElementID:   elem.ID,
		Type:        elem.Type,
		Position:    elem.Transform.Position.Coordinates,
		Size:        elem.Transform.Size.Dimensions,
		ContentType: string(elem.Content.Type),
		Source:      elem.Content.Source,
		Visible:     elem.State.Visible,
		Focused:     elem.State.Focused,
		Minimized:   elem.State.Minimized,
		Metadata:    elem.Metadata,
	}
}
