package service

import (
	"context"

	"sketchpad/internal/domain"
)

const EventToolChanged = "tool:changed"

// ToolService owns the active tool and the pending polygon parameters.
type ToolService struct {
	ctx     context.Context
	state   domain.ToolState
	emitter EventEmitter
}

func NewToolService(ctx context.Context, emitter EventEmitter) *ToolService {
	return &ToolService{ctx: ctx, state: domain.NewToolState(), emitter: emitter}
}

func (s *ToolService) State() domain.ToolState { return s.state }
func (s *ToolService) Active() domain.Tool     { return s.state.Active }

// Restore installs a loaded tool state after repairing it.
func (s *ToolService) Restore(st domain.ToolState) {
	st.Repair()
	s.state = st
	s.changed()
}

// SetTool switches the active tool. Unknown tools are ignored.
func (s *ToolService) SetTool(t domain.Tool) bool {
	if !t.Valid() {
		return false
	}
	if t == s.state.Active {
		return true
	}
	s.state.Active = t
	s.changed()
	return true
}

// SetPolygonSides sets the side count used by the next polygon. Values below
// MinPolygonSides are ignored.
func (s *ToolService) SetPolygonSides(n int) bool {
	if n < domain.MinPolygonSides {
		return false
	}
	s.state.PolygonSides = n
	s.changed()
	return true
}

// SetPolygonPreset selects a named polygon preset and activates the polygon tool.
func (s *ToolService) SetPolygonPreset(name string) bool {
	n, ok := domain.PresetSides(name)
	if !ok {
		return false
	}
	s.state.PolygonSides = n
	s.state.Active = domain.ToolPolygon
	s.changed()
	return true
}

func (s *ToolService) changed() {
	if s.emitter == nil {
		return
	}
	s.emitter.Emit(orBackground(s.ctx), EventToolChanged, s.state)
}
