package service

import (
	"sort"

	"sketchpad/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Layout: alignment against a reference and even distribution
// ─────────────────────────────────────────────────────────────

// Edge names the side or centre line used by AlignElements.
type Edge string

const (
	EdgeLeft   Edge = "left"
	EdgeCenter Edge = "center"
	EdgeRight  Edge = "right"
	EdgeTop    Edge = "top"
	EdgeMiddle Edge = "middle"
	EdgeBottom Edge = "bottom"
)

// Valid reports whether e is one of the six alignment edges.
func (e Edge) Valid() bool {
	switch e {
	case EdgeLeft, EdgeCenter, EdgeRight, EdgeTop, EdgeMiddle, EdgeBottom:
		return true
	}
	return false
}

// Axis names the direction used by DistributeElements.
type Axis string

const (
	AxisHorizontal Axis = "horizontal"
	AxisVertical   Axis = "vertical"
)

func (a Axis) Valid() bool { return a == AxisHorizontal || a == AxisVertical }

// MinDistributeCount is the fewest elements DistributeElements acts on.
const MinDistributeCount = 3

// AlignElements aligns every element on the active page except the selected one
// to the selected element's bounding box. The whole batch is one history entry.
func (s *DocumentService) AlignElements(edge Edge) bool {
	if !edge.Valid() {
		return false
	}
	ref, ok := s.doc.SelectedElement()
	if !ok {
		return false
	}
	aligned := AlignTo(s.doc.Elements(), ref, edge)
	if sameGeometry(aligned, s.doc.Elements()) {
		return false
	}
	s.mutate("align", func(d *domain.Document) {
		d.Page().Elements = aligned
	})
	return true
}

// DistributeElements spaces all elements on the active page evenly along axis,
// keeping the first and last (by leading coordinate) as anchors. Requires a
// selection and at least MinDistributeCount elements.
func (s *DocumentService) DistributeElements(axis Axis) bool {
	if !axis.Valid() || s.doc.Selected == "" {
		return false
	}
	els := s.doc.Elements()
	if len(els) < MinDistributeCount {
		return false
	}
	distributed := Distribute(els, axis)
	if sameGeometry(distributed, els) {
		return false
	}
	s.mutate("distribute", func(d *domain.Document) {
		d.Page().Elements = distributed
	})
	return true
}

// AlignTo returns a copy of els where every element other than ref has its
// x (left/center/right) or y (top/middle/bottom) recomputed against ref.
func AlignTo(els []domain.Element, ref domain.Element, edge Edge) []domain.Element {
	out := cloneElements(els)
	for i := range out {
		el := &out[i]
		if el.ID == ref.ID {
			continue
		}
		switch edge {
		case EdgeLeft:
			el.X = ref.X
		case EdgeCenter:
			el.X = ref.X + ref.Width/2 - el.Width/2
		case EdgeRight:
			el.X = ref.X + ref.Width - el.Width
		case EdgeTop:
			el.Y = ref.Y
		case EdgeMiddle:
			el.Y = ref.Y + ref.Height/2 - el.Height/2
		case EdgeBottom:
			el.Y = ref.Y + ref.Height - el.Height
		}
	}
	return out
}

// Distribute returns a copy of els with the inner elements, in leading-coordinate
// order, placed at first + spacing*rank where
// spacing = (last.pos + last.size - first.pos) / (n - 1).
// Paint order is preserved. Fewer than MinDistributeCount elements are returned unchanged.
func Distribute(els []domain.Element, axis Axis) []domain.Element {
	out := cloneElements(els)
	n := len(out)
	if n < MinDistributeCount {
		return out
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	pos := func(el domain.Element) float64 {
		if axis == AxisVertical {
			return el.Y
		}
		return el.X
	}
	size := func(el domain.Element) float64 {
		if axis == AxisVertical {
			return el.Height
		}
		return el.Width
	}
	sort.SliceStable(order, func(a, b int) bool {
		return pos(out[order[a]]) < pos(out[order[b]])
	})

	first, last := out[order[0]], out[order[n-1]]
	spacing := (pos(last) + size(last) - pos(first)) / float64(n-1)
	start := pos(first)
	for rank := 1; rank < n-1; rank++ {
		el := &out[order[rank]]
		v := start + spacing*float64(rank)
		if axis == AxisVertical {
			el.Y = v
		} else {
			el.X = v
		}
	}
	return out
}

func cloneElements(els []domain.Element) []domain.Element {
	out := make([]domain.Element, len(els))
	for i, el := range els {
		out[i] = el.Clone()
	}
	return out
}

func sameGeometry(a, b []domain.Element) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].X != b[i].X || a[i].Y != b[i].Y {
			return false
		}
	}
	return true
}
