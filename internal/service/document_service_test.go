package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchpad/internal/domain"
	"sketchpad/internal/service"
)

// ─────────────────────────────────────────────────────────────
// DocumentService tests
// ─────────────────────────────────────────────────────────────

func newDocs(t *testing.T) (*service.DocumentService, *service.MockEmitter) {
	t.Helper()
	emitter := &service.MockEmitter{}
	return service.NewDocumentService(context.Background(), service.NewHistory(0), emitter), emitter
}

func rect(id string, x, y, w, h float64) domain.Element {
	return domain.Element{
		ID: id, Kind: domain.ElementRectangle,
		X: x, Y: y, Width: w, Height: h,
		Fill: "#4f46e5", Stroke: "#312e81", StrokeWidth: 1, Opacity: 1,
	}
}

func ids(els []domain.Element) []string {
	out := make([]string, len(els))
	for i, el := range els {
		out[i] = el.ID
	}
	return out
}

func TestDocumentService_DefaultDocument(t *testing.T) {
	docs, _ := newDocs(t)
	doc := docs.Document()

	require.Len(t, doc.Pages, 1)
	assert.Equal(t, "page-1", doc.ActivePage)
	assert.Equal(t, "Page 1", doc.Pages[0].Name)
	assert.Empty(t, doc.Pages[0].Elements)
	assert.Empty(t, doc.Selected)
	assert.Nil(t, doc.Clipboard)
	assert.False(t, docs.CanUndo())
	assert.False(t, docs.CanRedo())
}

func TestDocumentService_AddElement(t *testing.T) {
	docs, emitter := newDocs(t)

	id := docs.AddElement(rect("a", 0, 0, 10, 10))
	assert.Equal(t, "a", id)
	docs.AddElement(rect("b", 0, 0, 10, 10))

	assert.Equal(t, []string{"a", "b"}, ids(docs.Elements()), "new elements go on top")
	assert.Equal(t, "b", docs.Selected())
	assert.True(t, docs.CanUndo())

	past, _ := docs.History().Depth()
	assert.Equal(t, 2, past)

	require.NotEmpty(t, emitter.Events)
	last := emitter.Events[len(emitter.Events)-1]
	assert.Equal(t, service.EventDocumentChanged, last.Event)
}

func TestDocumentService_AddElement_AssignsID(t *testing.T) {
	docs, _ := newDocs(t)
	id := docs.AddElement(rect("", 0, 0, 5, 5))
	assert.NotEmpty(t, id)
	_, ok := docs.Element(id)
	assert.True(t, ok)
}

func TestDocumentService_AddElement_RejectsDuplicatesAndUnknownKinds(t *testing.T) {
	docs, _ := newDocs(t)
	docs.AddElement(rect("a", 0, 0, 5, 5))

	assert.Empty(t, docs.AddElement(rect("a", 1, 1, 5, 5)))
	assert.Empty(t, docs.AddElement(domain.Element{ID: "x", Kind: "triangle"}))
	assert.Len(t, docs.Elements(), 1)

	past, _ := docs.History().Depth()
	assert.Equal(t, 1, past)
}

func TestDocumentService_Select_NoOpWhenUnchanged(t *testing.T) {
	docs, emitter := newDocs(t)
	docs.AddElement(rect("a", 0, 0, 5, 5))
	docs.AddElement(rect("b", 0, 0, 5, 5))
	past, _ := docs.History().Depth()

	docs.Select("a")
	n := len(emitter.Events)
	docs.Select("a")

	assert.Equal(t, "a", docs.Selected())
	assert.Len(t, emitter.Events, n, "second select emits nothing")
	after, _ := docs.History().Depth()
	assert.Equal(t, past, after, "selection never records history")
}

func TestDocumentService_Select_UnknownID(t *testing.T) {
	docs, _ := newDocs(t)
	docs.AddElement(rect("a", 0, 0, 5, 5))
	docs.Select("missing")
	assert.Equal(t, "a", docs.Selected())

	docs.Deselect()
	assert.Empty(t, docs.Selected())
}

func TestDocumentService_UpdateElement(t *testing.T) {
	docs, _ := newDocs(t)
	docs.AddElement(rect("a", 0, 0, 5, 5))

	ok := docs.UpdateElement("a", domain.ElementPatch{X: domain.Float(42), Fill: domain.String("#fff")})
	require.True(t, ok)

	el, _ := docs.Element("a")
	assert.Equal(t, 42.0, el.X)
	assert.Equal(t, "#fff", el.Fill)
	assert.Equal(t, 5.0, el.Width, "unpatched fields survive")
}

func TestDocumentService_UpdateElement_NonExistentIsNoOp(t *testing.T) {
	docs, _ := newDocs(t)
	docs.AddElement(rect("a", 0, 0, 5, 5))
	before := docs.Document()
	past, _ := docs.History().Depth()

	assert.False(t, docs.UpdateElement("ghost", domain.ElementPatch{X: domain.Float(1)}))
	assert.False(t, docs.DeleteElement("ghost"))

	assert.Equal(t, before, docs.Document())
	after, _ := docs.History().Depth()
	assert.Equal(t, past, after)
}

func TestDocumentService_UpdateElement_UnchangedRecordsNothing(t *testing.T) {
	docs, _ := newDocs(t)
	docs.AddElement(rect("a", 3, 0, 5, 5))
	past, _ := docs.History().Depth()

	assert.False(t, docs.UpdateElement("a", domain.ElementPatch{}))
	assert.False(t, docs.UpdateElement("a", domain.ElementPatch{X: domain.Float(3)}))

	after, _ := docs.History().Depth()
	assert.Equal(t, past, after)
}

func TestDocumentService_DeleteElement_ClearsSelection(t *testing.T) {
	docs, _ := newDocs(t)
	docs.AddElement(rect("a", 0, 0, 5, 5))
	docs.AddElement(rect("b", 0, 0, 5, 5))

	require.True(t, docs.DeleteElement("a"))
	assert.Equal(t, "b", docs.Selected(), "deleting an unselected element keeps the selection")

	require.True(t, docs.DeleteSelected())
	assert.Empty(t, docs.Selected())
	assert.Empty(t, docs.Elements())

	assert.False(t, docs.DeleteSelected(), "nothing selected")
}

func TestDocumentService_CopyPaste(t *testing.T) {
	docs, _ := newDocs(t)
	assert.Empty(t, docs.Paste(), "empty clipboard")

	docs.AddElement(rect("a", 10, 10, 5, 5))
	past, _ := docs.History().Depth()
	require.True(t, docs.CopySelected())
	after, _ := docs.History().Depth()
	assert.Equal(t, past, after, "copy is not undoable")

	id := docs.Paste()
	require.NotEmpty(t, id)
	assert.NotEqual(t, "a", id)

	pasted, ok := docs.Element(id)
	require.True(t, ok)
	assert.Equal(t, 30.0, pasted.X)
	assert.Equal(t, 30.0, pasted.Y)
	assert.Equal(t, id, docs.Selected())

	// clipboard keeps the original, so a second paste lands at the same spot with a new id
	second := docs.Paste()
	assert.NotEqual(t, id, second)
	assert.Len(t, docs.Elements(), 3)
}

func TestDocumentService_CopySelected_DeepCopies(t *testing.T) {
	docs, _ := newDocs(t)
	docs.AddElement(domain.Element{ID: "p", Kind: domain.ElementPen, Width: 10, Height: 10, Points: []domain.Point{{}, {X: 5, Y: 5}}})
	docs.CopySelected()

	docs.UpdateElement("p", domain.ElementPatch{Points: []domain.Point{{}, {X: 9, Y: 9}}})
	clip, ok := docs.Clipboard()
	require.True(t, ok)
	assert.Equal(t, 5.0, clip.Points[1].X)
}

func TestDocumentService_Pages(t *testing.T) {
	docs, _ := newDocs(t)
	docs.AddElement(rect("a", 0, 0, 5, 5))
	past, _ := docs.History().Depth()

	id := docs.AddPage("")
	assert.Equal(t, "page-2", id)
	assert.Equal(t, id, docs.ActivePage())
	assert.Equal(t, "Page 2", docs.Pages()[1].Name)
	assert.Empty(t, docs.Elements(), "pages own their elements")
	assert.Empty(t, docs.Selected())

	after, _ := docs.History().Depth()
	assert.Equal(t, past, after, "pages are not recorded")

	assert.False(t, docs.SetActivePage(id), "unchanged")
	assert.False(t, docs.SetActivePage("nope"))
	assert.True(t, docs.SetActivePage("page-1"))
	assert.Equal(t, []string{"a"}, ids(docs.Elements()))

	named := docs.AddPage("Sketches")
	assert.Equal(t, "page-3", named)
	assert.Equal(t, "Sketches", docs.Pages()[2].Name)
}

func TestDocumentService_LayerFlags(t *testing.T) {
	docs, _ := newDocs(t)
	docs.AddElement(rect("a", 0, 0, 5, 5))

	require.True(t, docs.LockElement("a"))
	assert.False(t, docs.LockElement("a"), "already locked")
	require.True(t, docs.HideElement("a"))

	el, _ := docs.Element("a")
	assert.True(t, el.Locked)
	assert.True(t, el.Hidden)

	require.True(t, docs.Undo())
	el, _ = docs.Element("a")
	assert.False(t, el.Hidden)
	assert.True(t, el.Locked)

	docs.UnlockElement("a")
	docs.ShowElement("a")
	el, _ = docs.Element("a")
	assert.False(t, el.Locked)
	assert.False(t, el.Hidden)

	assert.False(t, docs.LockElement("ghost"))
}

func TestDocumentService_ResetDocument(t *testing.T) {
	docs, _ := newDocs(t)
	docs.AddElement(rect("a", 0, 0, 5, 5))
	docs.AddPage("")

	docs.ResetDocument()
	assert.Equal(t, domain.NewDocument(), docs.Document())

	require.True(t, docs.Undo())
	assert.Len(t, docs.Pages(), 2)
}

func TestDocumentService_Initialize(t *testing.T) {
	docs, _ := newDocs(t)
	docs.AddElement(rect("a", 0, 0, 5, 5))

	loaded := domain.NewDocument()
	loaded.Pages[0].Elements = []domain.Element{rect("x", 1, 2, 3, 4), rect("x", 0, 0, 1, 1)}
	loaded.Selected = "gone"
	docs.Initialize(&loaded)

	assert.Equal(t, []string{"x"}, ids(docs.Elements()), "duplicate ids are dropped on load")
	assert.Empty(t, docs.Selected())
	assert.False(t, docs.CanUndo(), "a loaded session starts with empty history")

	docs.Initialize(nil)
	assert.Equal(t, domain.NewDocument(), docs.Document())
}

// ── History properties ─────────────────────────────────────

func TestDocumentService_UndoRedoInverseLaw(t *testing.T) {
	docs, _ := newDocs(t)
	docs.AddElement(rect("seed", 0, 0, 1, 1))
	docs.History().Clear()
	initial := docs.Document()

	ops := []func(){
		func() { docs.AddElement(rect("a", 0, 0, 10, 10)) },
		func() { docs.AddElement(rect("b", 50, 50, 20, 20)) },
		func() { docs.UpdateElement("a", domain.ElementPatch{X: domain.Float(7), Opacity: domain.Float(0.5)}) },
		func() { docs.BringToFront("seed") },
		func() { docs.Select("seed"); docs.AlignElements(service.EdgeRight) },
		func() { docs.CopySelected(); docs.Paste() },
		func() { docs.HideElement("b") },
		func() { docs.DeleteElement("a") },
	}
	for _, op := range ops {
		op()
	}
	final := docs.Document()
	past, _ := docs.History().Depth()
	require.Equal(t, len(ops), past)

	for i := 0; i < past; i++ {
		require.True(t, docs.Undo())
	}
	assert.False(t, docs.Undo(), "past is exhausted")
	assert.Equal(t, initial.Pages, docs.Document().Pages)

	for i := 0; i < past; i++ {
		require.True(t, docs.Redo())
	}
	assert.False(t, docs.Redo())
	assert.Equal(t, final.Pages, docs.Document().Pages)
}

func TestDocumentService_RedoInvalidation(t *testing.T) {
	docs, _ := newDocs(t)
	docs.AddElement(rect("a", 0, 0, 5, 5))
	docs.AddElement(rect("b", 0, 0, 5, 5))

	require.True(t, docs.Undo())
	assert.True(t, docs.CanRedo())

	docs.AddElement(rect("c", 0, 0, 5, 5))
	assert.False(t, docs.CanRedo())
	assert.False(t, docs.Redo())
	assert.Equal(t, []string{"a", "c"}, ids(docs.Elements()))
}

func TestDocumentService_UndoEmptyIsNoOp(t *testing.T) {
	docs, _ := newDocs(t)
	before := docs.Document()
	assert.False(t, docs.Undo())
	assert.False(t, docs.Redo())
	assert.Equal(t, before, docs.Document())
}

func TestDocumentService_GestureGroupsHistory(t *testing.T) {
	docs, _ := newDocs(t)
	docs.AddElement(rect("a", 0, 0, 5, 5))

	docs.BeginGesture()
	for x := 1.0; x <= 10; x++ {
		docs.UpdateElement("a", domain.ElementPatch{X: domain.Float(x)})
	}
	docs.EndGesture()

	past, _ := docs.History().Depth()
	assert.Equal(t, 2, past, "one entry for the add, one for the whole drag")

	require.True(t, docs.Undo())
	el, _ := docs.Element("a")
	assert.Equal(t, 0.0, el.X)
}

func TestDocumentService_BoundedHistory(t *testing.T) {
	docs := service.NewDocumentService(context.Background(), service.NewHistory(3), nil)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		docs.AddElement(rect(id, 0, 0, 1, 1))
	}
	past, _ := docs.History().Depth()
	assert.Equal(t, 3, past)

	for docs.Undo() {
	}
	assert.Equal(t, []string{"a", "b"}, ids(docs.Elements()), "oldest snapshots are evicted first")
}

func TestDocumentService_DocumentIsACopy(t *testing.T) {
	docs, _ := newDocs(t)
	docs.AddElement(rect("a", 0, 0, 5, 5))

	doc := docs.Document()
	doc.Pages[0].Elements[0].X = 999
	els := docs.Elements()
	els[0].Y = 999

	el, _ := docs.Element("a")
	assert.Equal(t, 0.0, el.X)
	assert.Equal(t, 0.0, el.Y)
}
