package domain

import "math"

// ElementPatch is a partial update merged into an existing element.
// Nil fields are left untouched. Kind and ID cannot be patched; fields that
// belong to another kind are ignored.
type ElementPatch struct {
	X           *float64 `json:"x,omitempty"`
	Y           *float64 `json:"y,omitempty"`
	Width       *float64 `json:"width,omitempty"`
	Height      *float64 `json:"height,omitempty"`
	Rotation    *float64 `json:"rotation,omitempty"`
	Fill        *string  `json:"fill,omitempty"`
	Stroke      *string  `json:"stroke,omitempty"`
	StrokeWidth *float64 `json:"strokeWidth,omitempty"`
	Opacity     *float64 `json:"opacity,omitempty"`

	Content    *string  `json:"text,omitempty"`
	FontFamily *string  `json:"fontFamily,omitempty"`
	FontSize   *float64 `json:"fontSize,omitempty"`
	LineHeight *float64 `json:"lineHeight,omitempty"`

	Sides  *int     `json:"sides,omitempty"`
	Radius *float64 `json:"radius,omitempty"`

	Points []Point `json:"points,omitempty"`

	Locked *bool `json:"isLocked,omitempty"`
	Hidden *bool `json:"isHidden,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ElementPatch) Empty() bool {
	return p.X == nil && p.Y == nil && p.Width == nil && p.Height == nil &&
		p.Rotation == nil && p.Fill == nil && p.Stroke == nil && p.StrokeWidth == nil &&
		p.Opacity == nil && p.Content == nil && p.FontFamily == nil && p.FontSize == nil &&
		p.LineHeight == nil && p.Sides == nil && p.Radius == nil && p.Points == nil &&
		p.Locked == nil && p.Hidden == nil
}

// Apply returns a copy of el with the patch merged in and the invariants re-established.
func (p ElementPatch) Apply(el Element) Element {
	out := el.Clone()
	out.Normalize()
	setFloat(&out.X, p.X)
	setFloat(&out.Y, p.Y)
	setFloat(&out.Width, p.Width)
	setFloat(&out.Height, p.Height)
	setFloat(&out.Rotation, p.Rotation)
	setFloat(&out.StrokeWidth, p.StrokeWidth)
	setFloat(&out.Opacity, p.Opacity)
	if p.Fill != nil {
		out.Fill = *p.Fill
	}
	if p.Stroke != nil {
		out.Stroke = *p.Stroke
	}
	if p.Locked != nil {
		out.Locked = *p.Locked
	}
	if p.Hidden != nil {
		out.Hidden = *p.Hidden
	}

	switch {
	case out.Kind == ElementText && out.Text != nil:
		if p.Content != nil {
			out.Text.Content = *p.Content
		}
		if p.FontFamily != nil {
			out.Text.FontFamily = *p.FontFamily
		}
		setFloat(&out.Text.FontSize, p.FontSize)
		setFloat(&out.Text.LineHeight, p.LineHeight)
	case out.Kind == ElementPolygon && out.Polygon != nil:
		if p.Sides != nil {
			out.Polygon.Sides = *p.Sides
		}
		setFloat(&out.Polygon.Radius, p.Radius)
	case out.Kind.Freehand():
		if len(p.Points) > 0 {
			out.Points = append([]Point(nil), p.Points...)
		}
	}

	out.Normalize()
	return out
}

// setFloat ignores NaN and ±Inf so a patch can never make a document unencodable.
func setFloat(dst *float64, v *float64) {
	if v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0) {
		*dst = *v
	}
}

// Float returns a pointer to v, for building patches.
func Float(v float64) *float64 { return &v }

// String returns a pointer to v, for building patches.
func String(v string) *string { return &v }

// Int returns a pointer to v, for building patches.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for building patches.
func Bool(v bool) *bool { return &v }
