package interaction

import (
	"math"

	"sketchpad/internal/domain"
)

// Handle names one of the eight resize handles of the selected element.
type Handle string

const (
	HandleNW Handle = "nw"
	HandleNE Handle = "ne"
	HandleSW Handle = "sw"
	HandleSE Handle = "se"
	HandleN  Handle = "n"
	HandleE  Handle = "e"
	HandleS  Handle = "s"
	HandleW  Handle = "w"
)

// handleOrder is the order handles are hit-tested in; corners win over edges.
var handleOrder = []Handle{HandleNW, HandleNE, HandleSW, HandleSE, HandleN, HandleE, HandleS, HandleW}

const (
	// HandleSize is the on-screen size of a resize handle in pixels.
	HandleSize = 8.0
	// MinResize is the floor applied to each dimension during interactive resize.
	MinResize = 10.0
)

// anchor returns the centre of handle h on the bounding box of el.
func anchor(el domain.Element, h Handle) domain.Point {
	x0, x1, xm := el.X, el.X+el.Width, el.X+el.Width/2
	y0, y1, ym := el.Y, el.Y+el.Height, el.Y+el.Height/2
	switch h {
	case HandleNW:
		return domain.Point{X: x0, Y: y0}
	case HandleNE:
		return domain.Point{X: x1, Y: y0}
	case HandleSW:
		return domain.Point{X: x0, Y: y1}
	case HandleSE:
		return domain.Point{X: x1, Y: y1}
	case HandleN:
		return domain.Point{X: xm, Y: y0}
	case HandleE:
		return domain.Point{X: x1, Y: ym}
	case HandleS:
		return domain.Point{X: xm, Y: y1}
	default:
		return domain.Point{X: x0, Y: ym}
	}
}

// HandleAt returns the handle of el under p. size is the handle size in
// document units (HandleSize / zoom).
func HandleAt(el domain.Element, p domain.Point, size float64) (Handle, bool) {
	half := size / 2
	for _, h := range handleOrder {
		a := anchor(el, h)
		if p.X >= a.X-half && p.X <= a.X+half && p.Y >= a.Y-half && p.Y <= a.Y+half {
			return h, true
		}
	}
	return "", false
}

// HitTest returns the topmost hittable element containing p.
func HitTest(els []domain.Element, p domain.Point) (domain.Element, bool) {
	for i := len(els) - 1; i >= 0; i-- {
		if els[i].Hittable() && els[i].Contains(p) {
			return els[i], true
		}
	}
	return domain.Element{}, false
}

// Resize recomputes the geometry of orig for handle h dragged to p. The edges
// opposite the handle stay fixed; each dimension is floored at MinResize.
func Resize(orig domain.Element, h Handle, p domain.Point) (x, y, w, hgt float64) {
	x, y, w, hgt = orig.X, orig.Y, orig.Width, orig.Height
	right := orig.X + orig.Width
	bottom := orig.Y + orig.Height
	switch h {
	case HandleNW:
		x, y = p.X, p.Y
		w, hgt = right-p.X, bottom-p.Y
	case HandleNE:
		y = p.Y
		w, hgt = p.X-orig.X, bottom-p.Y
	case HandleSW:
		x = p.X
		w, hgt = right-p.X, p.Y-orig.Y
	case HandleSE:
		w, hgt = p.X-orig.X, p.Y-orig.Y
	case HandleN:
		y = p.Y
		hgt = bottom - p.Y
	case HandleE:
		w = p.X - orig.X
	case HandleS:
		hgt = p.Y - orig.Y
	case HandleW:
		x = p.X
		w = right - p.X
	}
	if w < MinResize || math.IsNaN(w) {
		w = MinResize
	}
	if hgt < MinResize || math.IsNaN(hgt) {
		hgt = MinResize
	}
	return x, y, w, hgt
}

// ─────────────────────────────────────────────────────────────
// Provisional elements
// ─────────────────────────────────────────────────────────────

// Default style of freshly drawn elements.
const (
	DefaultFill        = "#4f46e5"
	DefaultStroke      = "#312e81"
	DefaultStrokeWidth = 1.0

	DefaultText       = "Double click to edit"
	DefaultFontFamily = "sans-serif"
	DefaultFontSize   = 24.0

	textWidth, textHeight       = 200.0, 30.0
	textMinWidth, textMinHeight = 100.0, 30.0
	freehandSize                = 100.0
	polygonRadius               = 50.0
)

// NewProvisional returns the element a drawing gesture of kind starts with at p.
func NewProvisional(kind domain.ElementKind, p domain.Point, sides int) domain.Element {
	el := domain.Element{
		Kind:        kind,
		X:           p.X,
		Y:           p.Y,
		Fill:        DefaultFill,
		Stroke:      DefaultStroke,
		StrokeWidth: DefaultStrokeWidth,
		Opacity:     domain.DefaultOpacity,
	}
	switch kind {
	case domain.ElementText:
		el.Width, el.Height = textWidth, textHeight
		el.Text = &domain.TextProps{
			Content:    DefaultText,
			FontFamily: DefaultFontFamily,
			FontSize:   DefaultFontSize,
			LineHeight: domain.DefaultLineHeight,
		}
	case domain.ElementPen, domain.ElementPencil:
		el.Width, el.Height = freehandSize, freehandSize
		el.Points = []domain.Point{{}}
	case domain.ElementPolygon:
		if sides < domain.MinPolygonSides {
			sides = domain.MinPolygonSides
		}
		el.Polygon = &domain.PolygonProps{Sides: sides, Radius: polygonRadius}
	}
	return el
}

// Grow updates the provisional element el for the pointer at p, where start is
// the gesture's anchor point.
func Grow(el domain.Element, start, p domain.Point) domain.Element {
	dx, dy := p.X-start.X, p.Y-start.Y
	switch el.Kind {
	case domain.ElementRectangle, domain.ElementEllipse:
		el.X, el.Width = math.Min(start.X, p.X), math.Abs(dx)
		el.Y, el.Height = math.Min(start.Y, p.Y), math.Abs(dy)
	case domain.ElementText:
		el.Width = math.Max(textMinWidth, math.Abs(dx))
		el.Height = math.Max(textMinHeight, math.Abs(dy))
	case domain.ElementPolygon:
		r := math.Max(math.Abs(dx), math.Abs(dy)) / 2
		if el.Polygon != nil {
			poly := *el.Polygon
			poly.Radius = r
			el.Polygon = &poly
		}
		el.Width, el.Height = 2*r, 2*r
	case domain.ElementPen, domain.ElementPencil:
		el = extendStroke(el, p)
	}
	return el
}

// extendStroke appends p (relative to the current origin) and refits the
// bounding box over all points and the origin. Growth to the left or top
// moves the origin and rebases every point so offsets stay non-negative.
func extendStroke(el domain.Element, p domain.Point) domain.Element {
	pts := make([]domain.Point, len(el.Points), len(el.Points)+1)
	copy(pts, el.Points)
	pts = append(pts, domain.Point{X: p.X - el.X, Y: p.Y - el.Y})

	minX, maxX, minY, maxY := 0.0, 0.0, 0.0, 0.0
	for _, q := range pts {
		minX, maxX = math.Min(minX, q.X), math.Max(maxX, q.X)
		minY, maxY = math.Min(minY, q.Y), math.Max(maxY, q.Y)
	}
	if minX < 0 {
		el.X += minX
		for i := range pts {
			pts[i].X -= minX
		}
	}
	if minY < 0 {
		el.Y += minY
		for i := range pts {
			pts[i].Y -= minY
		}
	}
	el.Width = maxX - minX
	el.Height = maxY - minY
	el.Points = pts
	return el
}
