package mcpserver

import (
	"context"
	"fmt"

	"sketchpad/internal/domain"
	"sketchpad/internal/interaction"

	"github.com/mark3labs/mcp-go/mcp"
)

// defaultShapeSize is used for rectangles and ellipses added without a size.
const defaultShapeSize = 120.0

func (s *Server) registerDrawingTools() {
	s.addTool(mcp.NewTool("list_elements",
		mcp.WithDescription("List the elements of the active page in paint order (first is bottom-most)"),
	), s.handleListElements)

	s.addTool(mcp.NewTool("add_element",
		mcp.WithDescription("Add an element on top of the active page and select it. Without x/y it is auto-placed next to existing elements."),
		mcp.WithString("type", mcp.Description("Element type: rectangle, ellipse, text, polygon, pen, pencil"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("X position (optional)")),
		mcp.WithNumber("y", mcp.Description("Y position (optional)")),
		mcp.WithNumber("width", mcp.Description("Width (optional)")),
		mcp.WithNumber("height", mcp.Description("Height (optional)")),
		mcp.WithString("text", mcp.Description("Text content (text elements)")),
		mcp.WithNumber("fontSize", mcp.Description("Font size in pixels (text elements)")),
		mcp.WithNumber("sides", mcp.Description("Number of sides, at least 3 (polygon elements)")),
		mcp.WithString("pointsJSON", mcp.Description(`Stroke points relative to x/y as JSON, e.g. [{"x":0,"y":0},{"x":40,"y":10}] (pen/pencil elements)`)),
		mcp.WithString("fill", mcp.Description("Fill color hex (optional, e.g. #3b82f6)")),
		mcp.WithString("stroke", mcp.Description("Stroke color hex (optional)")),
		mcp.WithNumber("strokeWidth", mcp.Description("Stroke width (optional)")),
		mcp.WithNumber("opacity", mcp.Description("Opacity between 0 and 1 (optional)")),
	), s.handleAddElement)

	s.addTool(mcp.NewTool("update_element",
		mcp.WithDescription("Update properties of an element on the active page"),
		mcp.WithString("id", mcp.Description("Element ID to update"), mcp.Required()),
		mcp.WithString("patchJSON", mcp.Description("JSON object with properties to update (x, y, width, height, rotation, fill, stroke, strokeWidth, opacity, text, fontFamily, fontSize, lineHeight, sides, radius, points, isLocked, isHidden)"), mcp.Required()),
	), s.handleUpdateElement)

	s.addTool(mcp.NewTool("delete_element",
		mcp.WithDescription("Remove an element from the active page. Undoable."),
		mcp.WithString("id", mcp.Description("Element ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteElement)

	s.addTool(mcp.NewTool("select_element",
		mcp.WithDescription("Select an element on the active page. An empty id clears the selection."),
		mcp.WithString("id", mcp.Description("Element ID (empty to deselect)")),
	), s.handleSelectElement)

	s.addTool(mcp.NewTool("set_layer_flags",
		mcp.WithDescription("Lock/unlock or hide/show an element. Locked and hidden elements cannot be picked on the canvas."),
		mcp.WithString("id", mcp.Description("Element ID"), mcp.Required()),
		mcp.WithBoolean("locked", mcp.Description("New locked state (optional)")),
		mcp.WithBoolean("hidden", mcp.Description("New hidden state (optional)")),
	), s.handleSetLayerFlags)
}

func (s *Server) handleListElements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.read(ctx, func() (*mcp.CallToolResult, error) {
		return jsonResult(s.docs.Elements())
	})
}

func (s *Server) handleAddElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	kind := domain.ElementKind(req.GetString("type", ""))
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown element type %q", kind)
	}

	var points []domain.Point
	if raw := req.GetString("pointsJSON", ""); raw != "" {
		if err := parseJSON(raw, &points); err != nil {
			return nil, fmt.Errorf("invalid pointsJSON: %w", err)
		}
	}
	el, err := buildElement(kind, args, points)
	if err != nil {
		return nil, err
	}

	return s.write(ctx, func() (*mcp.CallToolResult, bool, error) {
		_, hasX := numberArg(args, "x")
		_, hasY := numberArg(args, "y")
		if !hasX && !hasY {
			el.X, el.Y = s.layout.NextPosition(s.docs.Elements(), el.Width, el.Height)
		}
		id := s.docs.AddElement(el)
		if id == "" {
			return nil, false, fmt.Errorf("element could not be added")
		}
		added, _ := s.docs.Element(id)
		res, err := jsonResult(added)
		return res, true, err
	})
}

// buildElement starts from the element a drawing gesture of kind would create
// and overrides it with the tool arguments.
func buildElement(kind domain.ElementKind, args map[string]any, points []domain.Point) (domain.Element, error) {
	var origin domain.Point
	origin.X, _ = numberArg(args, "x")
	origin.Y, _ = numberArg(args, "y")

	sides := domain.MinPolygonSides
	if n, ok := numberArg(args, "sides"); ok {
		if int(n) < domain.MinPolygonSides {
			return domain.Element{}, fmt.Errorf("sides must be at least %d", domain.MinPolygonSides)
		}
		sides = int(n)
	}

	el := interaction.NewProvisional(kind, origin, sides)
	switch kind {
	case domain.ElementRectangle, domain.ElementEllipse:
		el.Width, el.Height = defaultShapeSize, defaultShapeSize
	case domain.ElementPolygon:
		el.Width, el.Height = 2*el.Polygon.Radius, 2*el.Polygon.Radius
	case domain.ElementPen, domain.ElementPencil:
		// the stroke starts at the origin; Grow refits the box around each point
		for _, q := range points {
			el = interaction.Grow(el, origin, domain.Point{X: origin.X + q.X, Y: origin.Y + q.Y})
		}
	}

	patch := domain.ElementPatch{}
	if w, ok := numberArg(args, "width"); ok {
		patch.Width = domain.Float(w)
	}
	if h, ok := numberArg(args, "height"); ok {
		patch.Height = domain.Float(h)
	}
	if v, ok := numberArg(args, "fontSize"); ok {
		patch.FontSize = domain.Float(v)
	}
	if v, ok := numberArg(args, "strokeWidth"); ok {
		patch.StrokeWidth = domain.Float(v)
	}
	if v, ok := numberArg(args, "opacity"); ok {
		patch.Opacity = domain.Float(v)
	}
	if v, ok := args["text"].(string); ok {
		patch.Content = domain.String(v)
	}
	if v, ok := args["fill"].(string); ok && v != "" {
		patch.Fill = domain.String(v)
	}
	if v, ok := args["stroke"].(string); ok && v != "" {
		patch.Stroke = domain.String(v)
	}
	el = patch.Apply(el)
	if el.Width <= 0 || el.Height <= 0 {
		return domain.Element{}, fmt.Errorf("width and height must be positive")
	}
	return el, nil
}

func (s *Server) handleUpdateElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "id")
	if err != nil {
		return nil, err
	}
	var patch domain.ElementPatch
	if err := parseJSON(req.GetString("patchJSON", ""), &patch); err != nil {
		return nil, fmt.Errorf("invalid patchJSON: %w", err)
	}

	return s.write(ctx, func() (*mcp.CallToolResult, bool, error) {
		if _, ok := s.docs.Element(id); !ok {
			return nil, false, fmt.Errorf("element not found: %s", id)
		}
		changed := s.docs.UpdateElement(id, patch)
		el, _ := s.docs.Element(id)
		res, err := jsonResult(el)
		return res, changed, err
	})
}

func (s *Server) handleDeleteElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "id")
	if err != nil {
		return nil, err
	}
	return s.write(ctx, func() (*mcp.CallToolResult, bool, error) {
		if !s.docs.DeleteElement(id) {
			return nil, false, fmt.Errorf("element not found: %s", id)
		}
		return textResult(fmt.Sprintf("Deleted element %s", id)), true, nil
	})
}

func (s *Server) handleSelectElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	return s.write(ctx, func() (*mcp.CallToolResult, bool, error) {
		before := s.docs.Selected()
		if id != "" {
			if _, ok := s.docs.Element(id); !ok {
				return nil, false, fmt.Errorf("element not found: %s", id)
			}
		}
		s.docs.Select(id)
		if id == "" {
			return textResult("Selection cleared"), before != "", nil
		}
		return textResult(fmt.Sprintf("Selected element %s", id)), before != id, nil
	})
}

func (s *Server) handleSetLayerFlags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "id")
	if err != nil {
		return nil, err
	}
	locked, hasLocked := boolArg(args, "locked")
	hidden, hasHidden := boolArg(args, "hidden")
	if !hasLocked && !hasHidden {
		return nil, fmt.Errorf("locked or hidden is required")
	}

	return s.write(ctx, func() (*mcp.CallToolResult, bool, error) {
		if _, ok := s.docs.Element(id); !ok {
			return nil, false, fmt.Errorf("element not found: %s", id)
		}
		var patch domain.ElementPatch
		if hasLocked {
			patch.Locked = domain.Bool(locked)
		}
		if hasHidden {
			patch.Hidden = domain.Bool(hidden)
		}
		changed := s.docs.UpdateElement(id, patch)
		el, _ := s.docs.Element(id)
		res, err := jsonResult(el)
		return res, changed, err
	})
}
