package domain

import (
	"encoding/json"
	"math"
)

type ElementKind string

const (
	ElementRectangle ElementKind = "rectangle"
	ElementEllipse   ElementKind = "ellipse"
	ElementText      ElementKind = "text"
	ElementPolygon   ElementKind = "polygon"
	ElementPen       ElementKind = "pen"
	ElementPencil    ElementKind = "pencil"
)

// Valid reports whether k is one of the known element kinds.
func (k ElementKind) Valid() bool {
	switch k {
	case ElementRectangle, ElementEllipse, ElementText, ElementPolygon, ElementPen, ElementPencil:
		return true
	}
	return false
}

// Freehand reports whether the kind stores a point path.
func (k ElementKind) Freehand() bool {
	return k == ElementPen || k == ElementPencil
}

// Point is an (x, y) pair. Freehand points are offsets from the element origin.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TextProps holds the fields only text elements carry.
type TextProps struct {
	Content    string  `json:"content"`
	FontFamily string  `json:"fontFamily"`
	FontSize   float64 `json:"fontSize"`
	LineHeight float64 `json:"lineHeight"`
}

// PolygonProps holds the fields only polygon elements carry.
type PolygonProps struct {
	Sides  int     `json:"sides"`
	Radius float64 `json:"radius,omitempty"`
}

// Element is one drawable shape or stroke on a page.
// Slice order within a page is paint order, index 0 at the bottom.
type Element struct {
	ID          string        `json:"id"`
	Kind        ElementKind   `json:"type"`
	X           float64       `json:"x"`
	Y           float64       `json:"y"`
	Width       float64       `json:"width"`
	Height      float64       `json:"height"`
	Rotation    float64       `json:"rotation,omitempty"`
	Fill        string        `json:"fill"`
	Stroke      string        `json:"stroke"`
	StrokeWidth float64       `json:"strokeWidth"`
	Opacity     float64       `json:"opacity"`
	Text        *TextProps    `json:"text,omitempty"`
	Polygon     *PolygonProps `json:"polygon,omitempty"`
	Points      []Point       `json:"points,omitempty"`
	Locked      bool          `json:"isLocked,omitempty"`
	Hidden      bool          `json:"isHidden,omitempty"`
}

const (
	MinPolygonSides   = 3
	DefaultOpacity    = 1.0
	DefaultLineHeight = 1.2
)

// UnmarshalJSON defaults a missing opacity to fully opaque.
func (e *Element) UnmarshalJSON(data []byte) error {
	type plain Element
	v := plain{Opacity: DefaultOpacity}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*e = Element(v)
	return nil
}

// Clone returns a deep copy of the element.
func (e Element) Clone() Element {
	c := e
	if e.Text != nil {
		t := *e.Text
		c.Text = &t
	}
	if e.Polygon != nil {
		p := *e.Polygon
		c.Polygon = &p
	}
	if e.Points != nil {
		c.Points = append([]Point(nil), e.Points...)
	}
	return c
}

// Normalize enforces the element invariants in place: non-negative size and
// stroke width, opacity in [0,1], and kind-specific fields present iff the
// kind needs them.
func (e *Element) Normalize() {
	e.Width = nonNegative(e.Width)
	e.Height = nonNegative(e.Height)
	e.StrokeWidth = nonNegative(e.StrokeWidth)
	if math.IsNaN(e.Opacity) {
		e.Opacity = DefaultOpacity
	}
	e.Opacity = math.Min(1, math.Max(0, e.Opacity))

	if e.Kind == ElementText {
		if e.Text == nil {
			e.Text = &TextProps{}
		}
		if e.Text.LineHeight <= 0 {
			e.Text.LineHeight = DefaultLineHeight
		}
		e.Text.FontSize = nonNegative(e.Text.FontSize)
	} else {
		e.Text = nil
	}

	if e.Kind == ElementPolygon {
		if e.Polygon == nil {
			e.Polygon = &PolygonProps{}
		}
		if e.Polygon.Sides < MinPolygonSides {
			e.Polygon.Sides = MinPolygonSides
		}
		e.Polygon.Radius = nonNegative(e.Polygon.Radius)
	} else {
		e.Polygon = nil
	}

	if e.Kind.Freehand() {
		if len(e.Points) == 0 {
			e.Points = []Point{{}}
		}
	} else {
		e.Points = nil
	}
}

// Contains reports whether p lies inside the element's bounding box (edges included).
func (e Element) Contains(p Point) bool {
	return p.X >= e.X && p.X <= e.X+e.Width &&
		p.Y >= e.Y && p.Y <= e.Y+e.Height
}

// Hittable reports whether pointer hit-testing may pick the element.
func (e Element) Hittable() bool {
	return !e.Hidden && !e.Locked
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
