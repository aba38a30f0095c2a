package service

import (
	"context"
	"math"

	"sketchpad/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Canvas Service: viewport zoom, pan and overlays
// ─────────────────────────────────────────────────────────────

const (
	EventCanvasChanged = "canvas:changed"

	// ZoomStep is the increment used by ZoomIn/ZoomOut (keyboard zoom).
	ZoomStep = 0.1
	// WheelZoomRatio multiplies or divides the zoom per modified wheel event.
	WheelZoomRatio = 1.05
	// wheelZoomEpsilon suppresses zoom changes too small to be visible.
	wheelZoomEpsilon = 0.01
	// WheelPanThreshold is the minimum wheel delta that pans.
	WheelPanThreshold = 1.0
)

// CanvasService owns the viewport. It never touches the document or history.
type CanvasService struct {
	ctx     context.Context
	canvas  domain.Canvas
	emitter EventEmitter
}

func NewCanvasService(ctx context.Context, emitter EventEmitter) *CanvasService {
	return &CanvasService{ctx: ctx, canvas: domain.NewCanvas(), emitter: emitter}
}

// State returns the current viewport.
func (s *CanvasService) State() domain.Canvas { return s.canvas }

// Restore installs a loaded viewport, clamping the zoom.
func (s *CanvasService) Restore(c domain.Canvas) {
	c.Zoom = domain.ClampZoom(c.Zoom)
	s.canvas = c
	s.changed()
}

// SetZoom sets the zoom factor, clamped to [MinZoom, MaxZoom].
func (s *CanvasService) SetZoom(z float64) {
	if math.IsNaN(z) {
		return
	}
	z = math.Min(domain.MaxZoom, math.Max(domain.MinZoom, z))
	if z == s.canvas.Zoom {
		return
	}
	s.canvas.Zoom = z
	s.changed()
}

func (s *CanvasService) ZoomIn()  { s.SetZoom(s.canvas.Zoom + ZoomStep) }
func (s *CanvasService) ZoomOut() { s.SetZoom(s.canvas.Zoom - ZoomStep) }

// ResetZoom restores zoom 1 and pan (0,0).
func (s *CanvasService) ResetZoom() {
	s.canvas.Zoom = domain.DefaultZoom
	s.canvas.Pan = domain.Point{}
	s.changed()
}

// SetPan sets the pan offset in client pixels.
func (s *CanvasService) SetPan(p domain.Point) {
	if !finite(p.X) || !finite(p.Y) || p == s.canvas.Pan {
		return
	}
	s.canvas.Pan = p
	s.changed()
}

// PanBy translates the pan offset by a raw client delta.
func (s *CanvasService) PanBy(dx, dy float64) {
	s.SetPan(domain.Point{X: s.canvas.Pan.X + dx, Y: s.canvas.Pan.Y + dy})
}

// Wheel applies one wheel event: with the zoom modifier held it scales the zoom
// by WheelZoomRatio; otherwise it pans by the inverted delta once either
// component exceeds WheelPanThreshold.
func (s *CanvasService) Wheel(dx, dy float64, zoomModifier bool) {
	if zoomModifier {
		z := s.canvas.Zoom
		next := z / WheelZoomRatio
		if dy < 0 {
			next = z * WheelZoomRatio
		}
		next = math.Min(domain.MaxZoom, math.Max(domain.MinZoom, next))
		if math.Abs(next-z) > wheelZoomEpsilon {
			s.SetZoom(next)
		}
		return
	}
	if math.Abs(dx) > WheelPanThreshold || math.Abs(dy) > WheelPanThreshold {
		s.PanBy(-dx, -dy)
	}
}

func (s *CanvasService) ToggleGrid() {
	s.canvas.ShowGrid = !s.canvas.ShowGrid
	s.changed()
}

func (s *CanvasService) ToggleRulers() {
	s.canvas.ShowRulers = !s.canvas.ShowRulers
	s.changed()
}

func (s *CanvasService) changed() {
	if s.emitter == nil {
		return
	}
	s.emitter.Emit(orBackground(s.ctx), EventCanvasChanged, s.canvas)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
