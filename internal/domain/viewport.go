package domain

import "math"

const (
	MinZoom     = 0.1
	MaxZoom     = 3.0
	DefaultZoom = 1.0
)

// Canvas is the viewport state. It is never part of undo history.
type Canvas struct {
	Zoom       float64 `json:"zoom"`
	Pan        Point   `json:"pan"`
	ShowGrid   bool    `json:"showGrid"`
	ShowRulers bool    `json:"showRulers"`
}

// NewCanvas returns the default viewport.
func NewCanvas() Canvas {
	return Canvas{Zoom: DefaultZoom, ShowGrid: true, ShowRulers: true}
}

// ClampZoom limits z to [MinZoom, MaxZoom]; non-positive or NaN values fall back to the default.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) || z <= 0 {
		return DefaultZoom
	}
	return math.Min(MaxZoom, math.Max(MinZoom, z))
}

// ToDocument maps canvas-relative client coordinates into document space
// by inverting the pan-then-scale transform.
func (c Canvas) ToDocument(client Point) Point {
	z := ClampZoom(c.Zoom)
	return Point{
		X: (client.X - c.Pan.X) / z,
		Y: (client.Y - c.Pan.Y) / z,
	}
}

// ToClient maps a document-space point back to canvas-relative client coordinates.
func (c Canvas) ToClient(doc Point) Point {
	z := ClampZoom(c.Zoom)
	return Point{X: doc.X*z + c.Pan.X, Y: doc.Y*z + c.Pan.Y}
}
