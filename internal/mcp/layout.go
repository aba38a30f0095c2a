package mcpserver

import (
	"math"

	"sketchpad/internal/domain"
)

const (
	GridSize = 20.0 // matches the frontend grid spacing
	Padding  = 40.0 // 2 grid cells between elements
	MaxRowW  = 1600.0
)

// LayoutEngine handles automatic placement of elements on the page
// so that MCP-created elements without coordinates don't overlap existing ones.
type LayoutEngine struct {
	gridSize float64
	padding  float64
	maxRowW  float64
}

func NewLayoutEngine() *LayoutEngine {
	return &LayoutEngine{
		gridSize: GridSize,
		padding:  Padding,
		maxRowW:  MaxRowW,
	}
}

// snap rounds v to the nearest grid point.
func (le *LayoutEngine) snap(v float64) float64 {
	return math.Round(v/le.gridSize) * le.gridSize
}

// rect is a simple axis-aligned bounding box.
type rect struct {
	x, y, w, h float64
}

func (a rect) intersects(b rect) bool {
	return a.x < b.x+b.w && a.x+a.w > b.x &&
		a.y < b.y+b.h && a.y+a.h > b.y
}

// NextPosition finds the next non-overlapping grid position for an element
// of size (newW, newH) given the existing elements on the page. Hidden
// elements still occupy space.
func (le *LayoutEngine) NextPosition(existing []domain.Element, newW, newH float64) (float64, float64) {
	if len(existing) == 0 {
		return 0, 0
	}

	occupied := make([]rect, len(existing))
	for i, el := range existing {
		occupied[i] = rect{
			x: el.X - le.padding,
			y: el.Y - le.padding,
			w: el.Width + le.padding*2,
			h: el.Height + le.padding*2,
		}
	}

	// Scan rows top-to-bottom, columns left-to-right
	candidate := rect{w: newW, h: newH}
	maxY := le.bottom(existing)
	for y := 0.0; y <= maxY; y += le.gridSize {
		for x := 0.0; x+newW <= le.maxRowW; x += le.gridSize {
			candidate.x = le.snap(x)
			candidate.y = le.snap(y)

			overlaps := false
			for _, occ := range occupied {
				if candidate.intersects(occ) {
					overlaps = true
					break
				}
			}
			if !overlaps {
				return candidate.x, candidate.y
			}
		}
	}

	// Fallback: place below everything
	return 0, le.snap(maxY + le.padding)
}

func (le *LayoutEngine) bottom(existing []domain.Element) float64 {
	maxY := 0.0
	for _, el := range existing {
		if el.Y+el.Height > maxY {
			maxY = el.Y + el.Height
		}
	}
	return maxY
}
