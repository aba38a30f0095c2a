package domain

import "strings"

type Tool string

const (
	ToolSelect    Tool = "select"
	ToolHand      Tool = "hand"
	ToolRectangle Tool = "rectangle"
	ToolEllipse   Tool = "ellipse"
	ToolText      Tool = "text"
	ToolPen       Tool = "pen"
	ToolPencil    Tool = "pencil"
	ToolPolygon   Tool = "polygon"
	ToolImage     Tool = "image"
	ToolEraser    Tool = "eraser"
)

// Valid reports whether t is a known tool tag.
func (t Tool) Valid() bool {
	switch t {
	case ToolSelect, ToolHand, ToolRectangle, ToolEllipse, ToolText,
		ToolPen, ToolPencil, ToolPolygon, ToolImage, ToolEraser:
		return true
	}
	return false
}

// DrawKind returns the element kind a drawing gesture with this tool creates.
func (t Tool) DrawKind() (ElementKind, bool) {
	switch t {
	case ToolRectangle:
		return ElementRectangle, true
	case ToolEllipse:
		return ElementEllipse, true
	case ToolText:
		return ElementText, true
	case ToolPen:
		return ElementPen, true
	case ToolPencil:
		return ElementPencil, true
	case ToolPolygon:
		return ElementPolygon, true
	}
	return "", false
}

// ToolForShortcut maps the single-letter keyboard shortcuts to tools.
func ToolForShortcut(key string) (Tool, bool) {
	switch strings.ToLower(key) {
	case "v":
		return ToolSelect, true
	case "h":
		return ToolHand, true
	case "r":
		return ToolRectangle, true
	case "e":
		return ToolEllipse, true
	case "t":
		return ToolText, true
	case "p":
		return ToolPen, true
	case "b":
		return ToolPencil, true
	}
	return "", false
}

// Polygon presets offered by the shape picker.
const (
	PresetTriangle = "triangle"
	PresetStar     = "star"
	PresetHexagon  = "hexagon"
)

// PresetSides returns the side count of a named polygon preset.
func PresetSides(name string) (int, bool) {
	switch name {
	case PresetTriangle:
		return 3, true
	case PresetStar:
		return 5, true
	case PresetHexagon:
		return 6, true
	}
	return 0, false
}

// ToolState is the active tool plus the parameters pending for the next shape.
// It is never part of undo history.
type ToolState struct {
	Active       Tool `json:"activeTool"`
	PolygonSides int  `json:"polygonSides,omitempty"`
}

// NewToolState returns the default tool state.
func NewToolState() ToolState {
	return ToolState{Active: ToolSelect, PolygonSides: MinPolygonSides}
}

// Repair resets unknown tools and invalid pending parameters.
func (t *ToolState) Repair() {
	if !t.Active.Valid() {
		t.Active = ToolSelect
	}
	if t.PolygonSides < MinPolygonSides {
		t.PolygonSides = MinPolygonSides
	}
}
