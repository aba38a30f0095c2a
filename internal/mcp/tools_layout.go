package mcpserver

import (
	"context"
	"fmt"

	"sketchpad/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

// Reorder directions accepted by reorder_element.
const (
	directionForward  = "forward"
	directionBackward = "backward"
	directionFront    = "front"
	directionBack     = "back"
)

func (s *Server) registerLayoutTools() {
	s.addTool(mcp.NewTool("reorder_element",
		mcp.WithDescription("Change an element's paint order on the active page"),
		mcp.WithString("id", mcp.Description("Element ID"), mcp.Required()),
		mcp.WithString("direction",
			mcp.Description("forward (one step up), backward (one step down), front (top-most) or back (bottom-most)"),
			mcp.Enum(directionForward, directionBackward, directionFront, directionBack),
			mcp.Required(),
		),
	), s.handleReorderElement)

	s.addTool(mcp.NewTool("align_elements",
		mcp.WithDescription("Align every element on the active page to the selected element (or referenceId) along one edge"),
		mcp.WithString("edge",
			mcp.Description("left, center, right, top, middle or bottom"),
			mcp.Enum(string(service.EdgeLeft), string(service.EdgeCenter), string(service.EdgeRight),
				string(service.EdgeTop), string(service.EdgeMiddle), string(service.EdgeBottom)),
			mcp.Required(),
		),
		mcp.WithString("referenceId", mcp.Description("Element to align to (optional, selects it first)")),
	), s.handleAlignElements)

	s.addTool(mcp.NewTool("distribute_elements",
		mcp.WithDescription("Space the elements of the active page evenly, keeping the outermost two in place. Needs a selection and at least 3 elements."),
		mcp.WithString("axis",
			mcp.Description("horizontal or vertical"),
			mcp.Enum(string(service.AxisHorizontal), string(service.AxisVertical)),
			mcp.Required(),
		),
	), s.handleDistributeElements)

	s.addTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last document change"),
	), s.handleUndo)

	s.addTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the last undone document change"),
	), s.handleRedo)
}

func (s *Server) handleReorderElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "id")
	if err != nil {
		return nil, err
	}
	var reorder func(string) bool
	switch dir := req.GetString("direction", ""); dir {
	case directionForward:
		reorder = s.docs.BringForward
	case directionBackward:
		reorder = s.docs.SendBackward
	case directionFront:
		reorder = s.docs.BringToFront
	case directionBack:
		reorder = s.docs.SendToBack
	default:
		return nil, fmt.Errorf("unknown direction %q", dir)
	}

	return s.write(ctx, func() (*mcp.CallToolResult, bool, error) {
		if _, ok := s.docs.Element(id); !ok {
			return nil, false, fmt.Errorf("element not found: %s", id)
		}
		changed := reorder(id)
		res, err := jsonResult(elementOrder(s.docs))
		return res, changed, err
	})
}

func (s *Server) handleAlignElements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	edge := service.Edge(req.GetString("edge", ""))
	if !edge.Valid() {
		return nil, fmt.Errorf("unknown edge %q", edge)
	}
	ref := req.GetString("referenceId", "")

	return s.write(ctx, func() (*mcp.CallToolResult, bool, error) {
		selectionChanged := false
		if ref != "" {
			if _, ok := s.docs.Element(ref); !ok {
				return nil, false, fmt.Errorf("element not found: %s", ref)
			}
			selectionChanged = s.docs.Selected() != ref
			s.docs.Select(ref)
		}
		if s.docs.Selected() == "" {
			return nil, false, fmt.Errorf("no element selected (pass referenceId or use select_element first)")
		}
		changed := s.docs.AlignElements(edge)
		res, err := jsonResult(s.docs.Elements())
		return res, changed || selectionChanged, err
	})
}

func (s *Server) handleDistributeElements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	axis := service.Axis(req.GetString("axis", ""))
	if !axis.Valid() {
		return nil, fmt.Errorf("unknown axis %q", axis)
	}
	return s.write(ctx, func() (*mcp.CallToolResult, bool, error) {
		if s.docs.Selected() == "" {
			return nil, false, fmt.Errorf("no element selected (use select_element first)")
		}
		if n := len(s.docs.Elements()); n < service.MinDistributeCount {
			return nil, false, fmt.Errorf("need at least %d elements, page has %d", service.MinDistributeCount, n)
		}
		changed := s.docs.DistributeElements(axis)
		res, err := jsonResult(s.docs.Elements())
		return res, changed, err
	})
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.write(ctx, func() (*mcp.CallToolResult, bool, error) {
		if !s.docs.Undo() {
			return textResult("Nothing to undo"), false, nil
		}
		res, err := jsonResult(s.summarize())
		return res, true, err
	})
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.write(ctx, func() (*mcp.CallToolResult, bool, error) {
		if !s.docs.Redo() {
			return textResult("Nothing to redo"), false, nil
		}
		res, err := jsonResult(s.summarize())
		return res, true, err
	})
}

// elementOrder lists element ids bottom to top.
func elementOrder(docs *service.DocumentService) []string {
	els := docs.Elements()
	ids := make([]string, len(els))
	for i, el := range els {
		ids[i] = el.ID
	}
	return ids
}
