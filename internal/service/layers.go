package service

import (
	"slices"

	"sketchpad/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Z-order: array position is paint order, index 0 is the bottom
// ─────────────────────────────────────────────────────────────

// BringForward swaps the element with the one above it. No-op at the top.
func (s *DocumentService) BringForward(id string) bool {
	return s.reorder(id, func(n, i int) int { return i + 1 })
}

// SendBackward swaps the element with the one below it. No-op at the bottom.
func (s *DocumentService) SendBackward(id string) bool {
	return s.reorder(id, func(n, i int) int { return i - 1 })
}

// BringToFront moves the element to the top of the paint order.
func (s *DocumentService) BringToFront(id string) bool {
	return s.reorder(id, func(n, i int) int { return n - 1 })
}

// SendToBack moves the element to the bottom of the paint order.
func (s *DocumentService) SendToBack(id string) bool {
	return s.reorder(id, func(n, i int) int { return 0 })
}

// reorder moves the element with the given id to the index computed by target.
// Unknown ids and out-of-range or unchanged targets are no-ops.
func (s *DocumentService) reorder(id string, target func(n, i int) int) bool {
	i := s.doc.IndexOf(id)
	if i < 0 {
		return false
	}
	n := len(s.doc.Elements())
	j := target(n, i)
	if j < 0 || j >= n || j == i {
		return false
	}
	s.mutate("reorder", func(d *domain.Document) {
		p := d.Page()
		p.Elements = moveElement(p.Elements, i, j)
	})
	return true
}

// moveElement removes the element at i and reinserts it at j. Moving by one
// position is the same as swapping with the neighbour.
func moveElement(els []domain.Element, i, j int) []domain.Element {
	el := els[i]
	els = slices.Delete(els, i, i+1)
	return slices.Insert(els, j, el)
}
