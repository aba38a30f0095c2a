package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchpad/internal/domain"
	"sketchpad/internal/service"
)

// ─────────────────────────────────────────────────────────────
// Z-order
// ─────────────────────────────────────────────────────────────

func seeded(t *testing.T, names ...string) *service.DocumentService {
	t.Helper()
	docs, _ := newDocs(t)
	for _, n := range names {
		docs.AddElement(rect(n, 0, 0, 10, 10))
	}
	docs.History().Clear()
	return docs
}

func TestLayers_ForwardBackward(t *testing.T) {
	docs := seeded(t, "a", "b", "c")

	require.True(t, docs.BringForward("a"))
	assert.Equal(t, []string{"b", "a", "c"}, ids(docs.Elements()))

	require.True(t, docs.SendBackward("c"))
	assert.Equal(t, []string{"b", "c", "a"}, ids(docs.Elements()))
}

func TestLayers_BoundaryIdempotence(t *testing.T) {
	docs := seeded(t, "a", "b", "c")
	before := docs.Document()

	assert.False(t, docs.BringForward("c"), "topmost")
	assert.False(t, docs.SendBackward("a"), "bottommost")
	assert.False(t, docs.BringToFront("c"))
	assert.False(t, docs.SendToBack("a"))
	assert.False(t, docs.BringForward("ghost"))

	assert.Equal(t, before, docs.Document())
	assert.False(t, docs.CanUndo())
}

func TestLayers_FrontBack(t *testing.T) {
	docs := seeded(t, "a", "b", "c", "d")

	require.True(t, docs.BringToFront("b"))
	assert.Equal(t, []string{"a", "c", "d", "b"}, ids(docs.Elements()))

	require.True(t, docs.SendToBack("d"))
	assert.Equal(t, []string{"d", "a", "c", "b"}, ids(docs.Elements()))

	past, _ := docs.History().Depth()
	assert.Equal(t, 2, past)

	docs.Undo()
	docs.Undo()
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(docs.Elements()))
}

// ─────────────────────────────────────────────────────────────
// Alignment
// ─────────────────────────────────────────────────────────────

func TestAlign_Center(t *testing.T) {
	docs, _ := newDocs(t)
	docs.AddElement(rect("r", 0, 0, 100, 100))
	docs.AddElement(rect("a", 50, 50, 20, 20))
	docs.Select("r")

	require.True(t, docs.AlignElements(service.EdgeCenter))

	a, _ := docs.Element("a")
	r, _ := docs.Element("r")
	assert.Equal(t, 40.0, a.X)
	assert.Equal(t, 50.0, a.Y)
	assert.Equal(t, rect("r", 0, 0, 100, 100), r, "reference is never modified")
}

func TestAlign_AllEdges(t *testing.T) {
	ref := rect("r", 10, 20, 100, 60)
	el := rect("a", 500, 500, 20, 10)

	cases := []struct {
		edge service.Edge
		x, y float64
	}{
		{service.EdgeLeft, 10, 500},
		{service.EdgeCenter, 50, 500},
		{service.EdgeRight, 90, 500},
		{service.EdgeTop, 500, 20},
		{service.EdgeMiddle, 500, 45},
		{service.EdgeBottom, 500, 70},
	}
	for _, tc := range cases {
		t.Run(string(tc.edge), func(t *testing.T) {
			out := service.AlignTo([]domain.Element{ref, el}, ref, tc.edge)
			assert.Equal(t, tc.x, out[1].X)
			assert.Equal(t, tc.y, out[1].Y)
			assert.Equal(t, ref, out[0])
		})
	}
}

func TestAlign_SingleHistoryEntry(t *testing.T) {
	docs := seeded(t, "r", "a", "b", "c")
	docs.UpdateElement("a", domain.ElementPatch{X: domain.Float(30)})
	docs.UpdateElement("b", domain.ElementPatch{X: domain.Float(60)})
	docs.History().Clear()
	docs.Select("r")

	require.True(t, docs.AlignElements(service.EdgeRight))
	past, _ := docs.History().Depth()
	assert.Equal(t, 1, past)
}

func TestAlign_NoSelectionOrBadEdge(t *testing.T) {
	docs := seeded(t, "r", "a")
	docs.Deselect()
	assert.False(t, docs.AlignElements(service.EdgeLeft))

	docs.Select("r")
	assert.False(t, docs.AlignElements("diagonal"))
	assert.False(t, docs.CanUndo())
}

// ─────────────────────────────────────────────────────────────
// Distribution
// ─────────────────────────────────────────────────────────────

func TestDistribute_Anchoring(t *testing.T) {
	docs, _ := newDocs(t)
	docs.AddElement(rect("last", 100, 0, 10, 10))
	docs.AddElement(rect("first", 0, 0, 10, 10))
	docs.AddElement(rect("mid", 17, 0, 10, 10))

	require.True(t, docs.DistributeElements(service.AxisHorizontal))

	first, _ := docs.Element("first")
	mid, _ := docs.Element("mid")
	last, _ := docs.Element("last")
	assert.Equal(t, 0.0, first.X)
	assert.Equal(t, 100.0, last.X)
	assert.Equal(t, 55.0, mid.X)
	assert.Equal(t, []string{"last", "first", "mid"}, ids(docs.Elements()), "paint order is untouched")
}

func TestDistribute_Vertical(t *testing.T) {
	els := []domain.Element{
		rect("a", 0, 0, 10, 20),
		rect("b", 0, 5, 10, 20),
		rect("c", 0, 7, 10, 20),
		rect("d", 0, 80, 10, 20),
	}
	out := service.Distribute(els, service.AxisVertical)

	// spacing = (80 + 20 - 0) / 3
	spacing := 100.0 / 3
	assert.Equal(t, 0.0, out[0].Y)
	assert.InDelta(t, spacing, out[1].Y, 1e-9)
	assert.InDelta(t, 2*spacing, out[2].Y, 1e-9)
	assert.Equal(t, 80.0, out[3].Y)
	assert.Equal(t, 5.0, els[1].Y, "input is not mutated")
}

func TestDistribute_Guards(t *testing.T) {
	docs := seeded(t, "a", "b")
	assert.False(t, docs.DistributeElements(service.AxisHorizontal), "needs three elements")

	docs.AddElement(rect("c", 50, 0, 10, 10))
	docs.Deselect()
	assert.False(t, docs.DistributeElements(service.AxisHorizontal), "needs a selection")

	docs.Select("c")
	assert.False(t, docs.DistributeElements("sideways"))
}
