// Package interaction turns raw pointer, wheel and keyboard input into
// document mutations. It owns no document state of its own beyond the
// gesture in progress.
package interaction

import (
	"strings"

	"sketchpad/internal/domain"
	"sketchpad/internal/service"
)

// Mode is the controller state. Exactly one gesture is active at a time.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDrawing
	ModeResizing
	ModeMoving
	ModePanning
)

func (m Mode) String() string {
	switch m {
	case ModeDrawing:
		return "drawing"
	case ModeResizing:
		return "resizing"
	case ModeMoving:
		return "moving"
	case ModePanning:
		return "panning"
	}
	return "idle"
}

// Modifiers are the keys held during an input event.
type Modifiers struct {
	Ctrl  bool `json:"ctrlKey"`
	Meta  bool `json:"metaKey"`
	Shift bool `json:"shiftKey"`
	Alt   bool `json:"altKey"`
}

// Command reports whether the platform command modifier (Ctrl or Cmd) is held.
func (m Modifiers) Command() bool { return m.Ctrl || m.Meta }

// PointerEvent carries canvas-relative client coordinates in pixels.
type PointerEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Detail int     `json:"detail"` // click count; 2 on a double-click
	Modifiers
}

func (e PointerEvent) client() domain.Point { return domain.Point{X: e.X, Y: e.Y} }

type WheelEvent struct {
	DeltaX float64 `json:"deltaX"`
	DeltaY float64 `json:"deltaY"`
	Modifiers
}

type KeyEvent struct {
	Key          string `json:"key"`
	InputFocused bool   `json:"inputFocused"`
	Modifiers
}

// TextEditor opens inline editing for a text element. The result comes back
// through DocumentService.UpdateElement.
type TextEditor interface {
	EditText(el domain.Element)
}

// Controller is the tool interaction state machine.
type Controller struct {
	docs   *service.DocumentService
	canvas *service.CanvasService
	tools  *service.ToolService
	editor TextEditor

	mode        Mode
	handle      Handle
	start       domain.Point   // document-space gesture start
	lastClient  domain.Point   // panning only
	original    domain.Element // move/resize snapshot
	provisional *domain.Element
}

// NewController wires a controller to the services it drives. editor may be nil.
func NewController(docs *service.DocumentService, canvas *service.CanvasService, tools *service.ToolService, editor TextEditor) *Controller {
	return &Controller{docs: docs, canvas: canvas, tools: tools, editor: editor}
}

func (c *Controller) Mode() Mode { return c.mode }

// ── Pointer ───────────────────────────────────────────────

// PointerDown starts a gesture, selects, or deselects depending on what is under the pointer.
func (c *Controller) PointerDown(ev PointerEvent) {
	if c.mode != ModeIdle {
		c.PointerUp(ev)
	}
	p := c.canvas.State().ToDocument(ev.client())

	if sel, ok := c.docs.SelectedElement(); ok && sel.Hittable() {
		if h, ok := HandleAt(sel, p, HandleSize/domain.ClampZoom(c.canvas.State().Zoom)); ok {
			c.beginEdit(ModeResizing, sel, p)
			c.handle = h
			return
		}
		if sel.Contains(p) {
			if ev.Detail >= 2 && sel.Kind == domain.ElementText {
				c.editText(sel)
				return
			}
			c.beginEdit(ModeMoving, sel, p)
			return
		}
	}

	if hit, ok := HitTest(c.docs.Elements(), p); ok {
		c.docs.Select(hit.ID)
		if ev.Detail >= 2 && hit.Kind == domain.ElementText {
			c.editText(hit)
		}
		return
	}

	c.docs.Deselect()
	tool := c.tools.Active()
	if kind, ok := tool.DrawKind(); ok {
		el := NewProvisional(kind, p, c.tools.State().PolygonSides)
		c.provisional = &el
		c.start = p
		c.mode = ModeDrawing
		return
	}
	if tool == domain.ToolHand {
		c.lastClient = ev.client()
		c.mode = ModePanning
	}
}

// PointerMove advances the active gesture. It does nothing while idle.
func (c *Controller) PointerMove(ev PointerEvent) {
	switch c.mode {
	case ModeDrawing:
		p := c.canvas.State().ToDocument(ev.client())
		el := Grow(*c.provisional, c.start, p)
		c.provisional = &el
	case ModeResizing:
		p := c.canvas.State().ToDocument(ev.client())
		x, y, w, h := Resize(c.original, c.handle, p)
		c.docs.UpdateElement(c.original.ID, domain.ElementPatch{
			X: domain.Float(x), Y: domain.Float(y),
			Width: domain.Float(w), Height: domain.Float(h),
		})
	case ModeMoving:
		p := c.canvas.State().ToDocument(ev.client())
		c.docs.UpdateElement(c.original.ID, domain.ElementPatch{
			X: domain.Float(c.original.X + p.X - c.start.X),
			Y: domain.Float(c.original.Y + p.Y - c.start.Y),
		})
	case ModePanning:
		cur := ev.client()
		c.canvas.PanBy(cur.X-c.lastClient.X, cur.Y-c.lastClient.Y)
		c.lastClient = cur
	}
}

// PointerUp ends the active gesture. A drawing is committed only when both
// dimensions are positive; the tool always returns to select afterwards.
func (c *Controller) PointerUp(PointerEvent) {
	switch c.mode {
	case ModeDrawing:
		if el := c.provisional; el != nil && el.Width > 0 && el.Height > 0 {
			c.docs.AddElement(*el)
		}
		c.provisional = nil
		c.tools.SetTool(domain.ToolSelect)
	case ModeResizing, ModeMoving:
		c.docs.EndGesture()
	}
	c.mode = ModeIdle
	c.handle = ""
	c.original = domain.Element{}
}

// PointerLeave ends the gesture exactly like PointerUp.
func (c *Controller) PointerLeave(ev PointerEvent) { c.PointerUp(ev) }

// Wheel zooms with the command modifier held and pans otherwise.
func (c *Controller) Wheel(ev WheelEvent) {
	c.canvas.Wheel(ev.DeltaX, ev.DeltaY, ev.Command())
}

// ── Keyboard ──────────────────────────────────────────────

// Key handles a keydown. It returns true when the key was consumed.
// Nothing is handled while a text input has focus.
func (c *Controller) Key(ev KeyEvent) bool {
	if ev.InputFocused {
		return false
	}
	key := strings.ToLower(ev.Key)
	if ev.Command() {
		switch key {
		case "z":
			if ev.Shift {
				c.docs.Redo()
			} else {
				c.docs.Undo()
			}
		case "y":
			c.docs.Redo()
		case "c":
			c.docs.CopySelected()
		case "v":
			c.docs.Paste()
		case "+", "=":
			c.canvas.ZoomIn()
		case "-":
			c.canvas.ZoomOut()
		case "0":
			c.canvas.ResetZoom()
		default:
			return false
		}
		return true
	}
	if ev.Key == "Delete" || ev.Key == "Backspace" {
		if c.docs.Selected() == "" {
			return false
		}
		return c.docs.DeleteSelected()
	}
	if tool, ok := domain.ToolForShortcut(key); ok {
		c.tools.SetTool(tool)
		return true
	}
	return false
}

// ── Rendering ─────────────────────────────────────────────

// Frame is everything a renderer needs for one full repaint.
type Frame struct {
	Elements    []domain.Element `json:"elements"` // visible, back to front
	Provisional *domain.Element  `json:"provisional,omitempty"`
	SelectedID  string           `json:"selectedId"`
	Viewport    domain.Canvas    `json:"viewport"`
	Cursor      string           `json:"cursor"`
}

// Frame snapshots the current render state.
func (c *Controller) Frame() Frame {
	all := c.docs.Elements()
	visible := make([]domain.Element, 0, len(all))
	for _, el := range all {
		if !el.Hidden {
			visible = append(visible, el)
		}
	}
	f := Frame{
		Elements:   visible,
		SelectedID: c.docs.Selected(),
		Viewport:   c.canvas.State(),
		Cursor:     c.Cursor(),
	}
	if c.provisional != nil {
		p := c.provisional.Clone()
		f.Provisional = &p
	}
	return f
}

// Cursor returns the CSS cursor hint for the current gesture and tool.
func (c *Controller) Cursor() string {
	switch c.mode {
	case ModeResizing:
		return "nwse-resize"
	case ModeMoving:
		return "move"
	case ModePanning:
		return "grabbing"
	}
	switch c.tools.Active() {
	case domain.ToolHand:
		return "grab"
	case domain.ToolText:
		return "text"
	case domain.ToolRectangle, domain.ToolEllipse, domain.ToolPen, domain.ToolPencil, domain.ToolPolygon:
		return "crosshair"
	}
	return "default"
}

// ── internals ─────────────────────────────────────────────

func (c *Controller) beginEdit(mode Mode, el domain.Element, p domain.Point) {
	c.mode = mode
	c.original = el
	c.start = p
	c.docs.BeginGesture()
}

func (c *Controller) editText(el domain.Element) {
	if c.editor != nil {
		c.editor.EditText(el)
	}
}
