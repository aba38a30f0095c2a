package interaction_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchpad/internal/domain"
	"sketchpad/internal/interaction"
	"sketchpad/internal/service"
)

// ─────────────────────────────────────────────────────────────
// Controller tests
// ─────────────────────────────────────────────────────────────

type recordingEditor struct {
	edited []string
}

func (r *recordingEditor) EditText(el domain.Element) { r.edited = append(r.edited, el.ID) }

type rig struct {
	docs   *service.DocumentService
	canvas *service.CanvasService
	tools  *service.ToolService
	editor *recordingEditor
	ctl    *interaction.Controller
}

func newRig(t *testing.T) *rig {
	t.Helper()
	ctx := context.Background()
	r := &rig{
		docs:   service.NewDocumentService(ctx, service.NewHistory(0), nil),
		canvas: service.NewCanvasService(ctx, nil),
		tools:  service.NewToolService(ctx, nil),
		editor: &recordingEditor{},
	}
	r.ctl = interaction.NewController(r.docs, r.canvas, r.tools, r.editor)
	return r
}

func at(x, y float64) interaction.PointerEvent {
	return interaction.PointerEvent{X: x, Y: y, Detail: 1}
}

func (r *rig) drag(from, to interaction.PointerEvent) {
	r.ctl.PointerDown(from)
	r.ctl.PointerMove(to)
	r.ctl.PointerUp(to)
}

func pastDepth(docs *service.DocumentService) int {
	past, _ := docs.History().Depth()
	return past
}

// ── Drawing ────────────────────────────────────────────────

func TestController_DrawRectangle(t *testing.T) {
	r := newRig(t)
	r.tools.SetTool(domain.ToolRectangle)

	r.ctl.PointerDown(at(50, 50))
	assert.Equal(t, interaction.ModeDrawing, r.ctl.Mode())
	assert.Equal(t, "crosshair", r.ctl.Cursor())

	r.ctl.PointerMove(at(10, 80))
	frame := r.ctl.Frame()
	require.NotNil(t, frame.Provisional)
	assert.Empty(t, frame.Elements, "nothing is committed mid-gesture")

	r.ctl.PointerUp(at(10, 80))

	els := r.docs.Elements()
	require.Len(t, els, 1)
	assert.Equal(t, domain.ElementRectangle, els[0].Kind)
	assert.Equal(t, []float64{10, 50, 40, 30}, []float64{els[0].X, els[0].Y, els[0].Width, els[0].Height})
	assert.NotEmpty(t, els[0].ID)
	assert.Equal(t, els[0].ID, r.docs.Selected())
	assert.Equal(t, domain.ToolSelect, r.tools.Active(), "tool returns to select")
	assert.Equal(t, interaction.ModeIdle, r.ctl.Mode())
	assert.Nil(t, r.ctl.Frame().Provisional)
	assert.Equal(t, 1, pastDepth(r.docs))
}

func TestController_DrawCommitThreshold(t *testing.T) {
	for _, tc := range []struct {
		name string
		to   interaction.PointerEvent
	}{
		{"click", at(50, 50)},
		{"zero width", at(50, 90)},
		{"zero height", at(90, 50)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig(t)
			r.tools.SetTool(domain.ToolEllipse)
			r.drag(at(50, 50), tc.to)

			assert.Empty(t, r.docs.Elements())
			assert.False(t, r.docs.CanUndo(), "no history entry")
			assert.Equal(t, domain.ToolSelect, r.tools.Active())
		})
	}
}

func TestController_DrawPolygonUsesPendingSides(t *testing.T) {
	r := newRig(t)
	r.tools.SetPolygonPreset(domain.PresetStar)
	r.drag(at(0, 0), at(40, 10))

	els := r.docs.Elements()
	require.Len(t, els, 1)
	assert.Equal(t, 5, els[0].Polygon.Sides)
	assert.Equal(t, 40.0, els[0].Width)
	assert.Equal(t, 20.0, els[0].Polygon.Radius)
}

func TestController_DrawTextByClick(t *testing.T) {
	r := newRig(t)
	r.tools.SetTool(domain.ToolText)
	r.ctl.PointerDown(at(5, 5))
	r.ctl.PointerUp(at(5, 5))

	els := r.docs.Elements()
	require.Len(t, els, 1)
	assert.Equal(t, 200.0, els[0].Width)
	assert.Equal(t, 30.0, els[0].Height)
	assert.Equal(t, "Double click to edit", els[0].Text.Content)
}

func TestController_DrawPenStroke(t *testing.T) {
	r := newRig(t)
	r.tools.SetTool(domain.ToolPen)
	r.ctl.PointerDown(at(100, 100))
	r.ctl.PointerMove(at(110, 90))
	r.ctl.PointerMove(at(130, 120))
	r.ctl.PointerUp(at(130, 120))

	els := r.docs.Elements()
	require.Len(t, els, 1)
	el := els[0]
	assert.Equal(t, 100.0, el.X)
	assert.Equal(t, 90.0, el.Y)
	assert.Equal(t, 30.0, el.Width)
	assert.Equal(t, 30.0, el.Height)
	assert.Equal(t, []domain.Point{{X: 0, Y: 10}, {X: 10, Y: 0}, {X: 30, Y: 30}}, el.Points)
}

func TestController_DrawRespectsViewport(t *testing.T) {
	r := newRig(t)
	r.canvas.SetZoom(2)
	r.canvas.SetPan(domain.Point{X: 100, Y: 50})
	r.tools.SetTool(domain.ToolRectangle)

	r.drag(at(100, 50), at(140, 90))

	el := r.docs.Elements()[0]
	assert.Equal(t, []float64{0, 0, 20, 20}, []float64{el.X, el.Y, el.Width, el.Height})
}

func TestController_InertTools(t *testing.T) {
	for _, tool := range []domain.Tool{domain.ToolImage, domain.ToolEraser, domain.ToolSelect} {
		t.Run(string(tool), func(t *testing.T) {
			r := newRig(t)
			r.tools.SetTool(tool)
			r.drag(at(0, 0), at(50, 50))
			assert.Empty(t, r.docs.Elements())
			assert.Equal(t, tool, r.tools.Active())
		})
	}
}

// ── Selection / move / resize ──────────────────────────────

func seed(r *rig, els ...domain.Element) {
	for _, el := range els {
		r.docs.AddElement(el)
	}
	r.docs.Deselect()
	r.docs.History().Clear()
}

func square(id string, x, y, size float64) domain.Element {
	return domain.Element{ID: id, Kind: domain.ElementRectangle, X: x, Y: y, Width: size, Height: size, Opacity: 1}
}

func TestController_ClickSelectsTopmost(t *testing.T) {
	r := newRig(t)
	seed(r, square("low", 0, 0, 100), square("high", 50, 50, 100))

	r.ctl.PointerDown(at(75, 75))
	r.ctl.PointerUp(at(75, 75))
	assert.Equal(t, "high", r.docs.Selected())

	r.ctl.PointerDown(at(500, 500))
	r.ctl.PointerUp(at(500, 500))
	assert.Empty(t, r.docs.Selected(), "clicking empty canvas deselects")
	assert.False(t, r.docs.CanUndo(), "selection is not history")
}

func TestController_MoveFromOriginalSnapshot(t *testing.T) {
	r := newRig(t)
	seed(r, square("a", 10, 10, 50))
	r.docs.Select("a")

	r.ctl.PointerDown(at(20, 20))
	assert.Equal(t, interaction.ModeMoving, r.ctl.Mode())
	assert.Equal(t, "move", r.ctl.Cursor())

	r.ctl.PointerMove(at(25, 30))
	r.ctl.PointerMove(at(40, 15))
	r.ctl.PointerUp(at(40, 15))

	el, _ := r.docs.Element("a")
	assert.Equal(t, 30.0, el.X)
	assert.Equal(t, 5.0, el.Y)
	assert.Equal(t, 1, pastDepth(r.docs), "the whole drag is one undo step")

	r.docs.Undo()
	el, _ = r.docs.Element("a")
	assert.Equal(t, 10.0, el.X)
	assert.Equal(t, 10.0, el.Y)
}

func TestController_UndoMidDragStartsNewEntry(t *testing.T) {
	r := newRig(t)
	seed(r, square("a", 0, 0, 50))
	r.docs.Select("a")

	r.ctl.PointerDown(at(10, 10))
	r.ctl.PointerMove(at(20, 20))
	require.True(t, r.ctl.Key(key("z", ctrl)))
	require.True(t, r.docs.CanRedo())

	r.ctl.PointerMove(at(40, 40))
	assert.False(t, r.docs.CanRedo(), "a new edit invalidates redo")
	assert.True(t, r.docs.CanUndo())
	r.ctl.PointerUp(at(40, 40))

	el, _ := r.docs.Element("a")
	assert.Equal(t, 30.0, el.X)
	assert.False(t, r.docs.Redo())

	require.True(t, r.docs.Undo())
	el, _ = r.docs.Element("a")
	assert.Equal(t, 0.0, el.X)
}

func TestController_ResizeClampsToFloor(t *testing.T) {
	r := newRig(t)
	seed(r, square("a", 0, 0, 100))
	r.docs.Select("a")

	r.ctl.PointerDown(at(100, 100))
	assert.Equal(t, interaction.ModeResizing, r.ctl.Mode())
	assert.Equal(t, "nwse-resize", r.ctl.Cursor())

	r.ctl.PointerMove(at(150, 120))
	el, _ := r.docs.Element("a")
	assert.Equal(t, 150.0, el.Width)
	assert.Equal(t, 120.0, el.Height)

	r.ctl.PointerMove(at(-40, 3))
	r.ctl.PointerUp(at(-40, 3))
	el, _ = r.docs.Element("a")
	assert.Equal(t, 10.0, el.Width)
	assert.Equal(t, 10.0, el.Height)
	assert.Equal(t, 0.0, el.X, "se keeps the origin")
	assert.Equal(t, 1, pastDepth(r.docs))
}

func TestController_HandleSizeScalesWithZoom(t *testing.T) {
	r := newRig(t)
	seed(r, square("a", 0, 0, 100))
	r.docs.Select("a")
	r.canvas.SetZoom(0.5)

	// 3 client px past the corner is 6 doc units, within half of 8/0.5
	r.ctl.PointerDown(at(53, 53))
	assert.Equal(t, interaction.ModeResizing, r.ctl.Mode())
	r.ctl.PointerUp(at(53, 53))
}

func TestController_LockedSelectionDoesNotMove(t *testing.T) {
	r := newRig(t)
	locked := square("a", 0, 0, 100)
	locked.Locked = true
	seed(r, locked)
	r.docs.Select("a")
	r.tools.SetTool(domain.ToolSelect)

	r.drag(at(50, 50), at(80, 80))

	el, _ := r.docs.Element("a")
	assert.Equal(t, 0.0, el.X)
	assert.Empty(t, r.docs.Selected(), "the click falls through to an empty canvas")
	assert.False(t, r.docs.CanUndo())
}

func TestController_DoubleClickEditsText(t *testing.T) {
	r := newRig(t)
	seed(r, domain.Element{ID: "t", Kind: domain.ElementText, Width: 200, Height: 30, Opacity: 1})

	r.ctl.PointerDown(at(10, 10))
	r.ctl.PointerUp(at(10, 10))
	assert.Empty(t, r.editor.edited, "single click only selects")

	dbl := at(10, 10)
	dbl.Detail = 2
	r.ctl.PointerDown(dbl)
	r.ctl.PointerUp(dbl)
	assert.Equal(t, []string{"t"}, r.editor.edited)
	assert.Equal(t, interaction.ModeIdle, r.ctl.Mode())

	r.docs.UpdateElement("t", domain.ElementPatch{Content: domain.String("edited")})
	el, _ := r.docs.Element("t")
	assert.Equal(t, "edited", el.Text.Content)
}

func TestController_PointerLeaveEndsGesture(t *testing.T) {
	r := newRig(t)
	r.tools.SetTool(domain.ToolRectangle)
	r.ctl.PointerDown(at(0, 0))
	r.ctl.PointerMove(at(30, 30))
	r.ctl.PointerLeave(at(30, 30))

	assert.Equal(t, interaction.ModeIdle, r.ctl.Mode())
	assert.Len(t, r.docs.Elements(), 1)
}

func TestController_MoveWhileIdleIsInert(t *testing.T) {
	r := newRig(t)
	seed(r, square("a", 0, 0, 10))
	before := r.docs.Document()
	r.ctl.PointerMove(at(5, 5))
	r.ctl.PointerUp(at(5, 5))
	assert.Equal(t, before, r.docs.Document())
}

// ── Panning / wheel ────────────────────────────────────────

func TestController_HandPans(t *testing.T) {
	r := newRig(t)
	r.canvas.SetZoom(2)
	r.tools.SetTool(domain.ToolHand)
	assert.Equal(t, "grab", r.ctl.Cursor())

	r.ctl.PointerDown(at(100, 100))
	assert.Equal(t, "grabbing", r.ctl.Cursor())
	r.ctl.PointerMove(at(110, 95))
	r.ctl.PointerMove(at(130, 100))
	r.ctl.PointerUp(at(130, 100))

	assert.Equal(t, domain.Point{X: 30, Y: 0}, r.canvas.State().Pan, "raw pixel deltas, not zoom-scaled")
	assert.Equal(t, domain.ToolHand, r.tools.Active())
}

func TestController_Wheel(t *testing.T) {
	r := newRig(t)
	r.ctl.Wheel(interaction.WheelEvent{DeltaY: -3, Modifiers: interaction.Modifiers{Meta: true}})
	assert.InDelta(t, 1.05, r.canvas.State().Zoom, 1e-9)

	r.ctl.Wheel(interaction.WheelEvent{DeltaX: 4, DeltaY: 6})
	assert.Equal(t, domain.Point{X: -4, Y: -6}, r.canvas.State().Pan)
}

// ── Keyboard ───────────────────────────────────────────────

func key(k string, mods interaction.Modifiers) interaction.KeyEvent {
	return interaction.KeyEvent{Key: k, Modifiers: mods}
}

var ctrl = interaction.Modifiers{Ctrl: true}

func TestController_KeyUndoRedo(t *testing.T) {
	r := newRig(t)
	r.docs.AddElement(square("a", 0, 0, 10))
	r.docs.AddElement(square("b", 0, 0, 10))

	assert.True(t, r.ctl.Key(key("z", ctrl)))
	assert.Len(t, r.docs.Elements(), 1)

	assert.True(t, r.ctl.Key(key("Z", interaction.Modifiers{Ctrl: true, Shift: true})))
	assert.Len(t, r.docs.Elements(), 2)

	r.ctl.Key(key("z", interaction.Modifiers{Meta: true}))
	assert.True(t, r.ctl.Key(key("y", ctrl)))
	assert.Len(t, r.docs.Elements(), 2)
}

func TestController_KeyCopyPasteDelete(t *testing.T) {
	r := newRig(t)
	r.docs.AddElement(square("a", 0, 0, 10))

	r.ctl.Key(key("c", ctrl))
	r.ctl.Key(key("v", ctrl))
	require.Len(t, r.docs.Elements(), 2)
	pasted := r.docs.Elements()[1]
	assert.Equal(t, 20.0, pasted.X)

	assert.True(t, r.ctl.Key(key("Delete", interaction.Modifiers{})))
	assert.Len(t, r.docs.Elements(), 1)

	assert.False(t, r.ctl.Key(key("Backspace", interaction.Modifiers{})), "nothing selected")
	assert.Len(t, r.docs.Elements(), 1)
}

func TestController_KeyToolShortcuts(t *testing.T) {
	r := newRig(t)
	want := map[string]domain.Tool{
		"v": domain.ToolSelect, "h": domain.ToolHand, "r": domain.ToolRectangle,
		"e": domain.ToolEllipse, "t": domain.ToolText, "p": domain.ToolPen, "b": domain.ToolPencil,
	}
	for k, tool := range want {
		assert.True(t, r.ctl.Key(key(k, interaction.Modifiers{})), k)
		assert.Equal(t, tool, r.tools.Active(), k)
	}

	r.tools.SetTool(domain.ToolSelect)
	r.ctl.Key(key("r", ctrl))
	assert.Equal(t, domain.ToolSelect, r.tools.Active(), "modified letters are not tool shortcuts")
	assert.False(t, r.ctl.Key(key("q", interaction.Modifiers{})))
}

func TestController_KeyZoom(t *testing.T) {
	r := newRig(t)
	r.ctl.Key(key("=", ctrl))
	assert.InDelta(t, 1.1, r.canvas.State().Zoom, 1e-9)
	r.ctl.Key(key("+", ctrl))
	assert.InDelta(t, 1.2, r.canvas.State().Zoom, 1e-9)
	r.ctl.Key(key("-", ctrl))
	assert.InDelta(t, 1.1, r.canvas.State().Zoom, 1e-9)

	r.canvas.SetPan(domain.Point{X: 9, Y: 9})
	r.ctl.Key(key("0", ctrl))
	assert.Equal(t, 1.0, r.canvas.State().Zoom)
	assert.Equal(t, domain.Point{}, r.canvas.State().Pan)
}

func TestController_KeyIgnoredWhenInputFocused(t *testing.T) {
	r := newRig(t)
	r.docs.AddElement(square("a", 0, 0, 10))

	ev := key("Backspace", interaction.Modifiers{})
	ev.InputFocused = true
	assert.False(t, r.ctl.Key(ev))
	ev = key("z", ctrl)
	ev.InputFocused = true
	assert.False(t, r.ctl.Key(ev))

	assert.Len(t, r.docs.Elements(), 1)
}

// ── Frame ──────────────────────────────────────────────────

func TestController_FrameSkipsHidden(t *testing.T) {
	r := newRig(t)
	hidden := square("h", 0, 0, 10)
	hidden.Hidden = true
	seed(r, square("a", 0, 0, 10), hidden, square("b", 0, 0, 10))
	r.docs.Select("b")

	f := r.ctl.Frame()
	require.Len(t, f.Elements, 2)
	assert.Equal(t, "a", f.Elements[0].ID)
	assert.Equal(t, "b", f.Elements[1].ID)
	assert.Equal(t, "b", f.SelectedID)
	assert.Equal(t, "default", f.Cursor)
	assert.Equal(t, r.canvas.State(), f.Viewport)
}
