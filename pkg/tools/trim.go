package tools

import (
	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
)

// TrimTool deletes the non-point entity nearest the cursor on every
// click ("Trim tool").
type TrimTool struct {
	ToleranceMM float64
}

func (t *TrimTool) Name() string { return "Trim" }

func (t *TrimTool) tolerance() float64 {
	if t.ToleranceMM > 0 {
		return t.ToleranceMM
	}
	return 3.0
}

func (t *TrimTool) hover(m *Manager, cursor geom2d.Vec2) sketch.EntityID {
	filter := sketch.EntityFilter{
		sketch.TypeLine: true,
		sketch.TypeArc: true,
		sketch.TypeCircle: true,
		sketch.TypeEllipse: true,
	}
	return m.Sketch.FindNearest(cursor, t.tolerance(), filter)
}

func (t *TrimTool) Press(m *Manager, cursor geom2d.Vec2) {
	id := t.hover(m, cursor)
	if id != "" {
		m.Sketch.RemoveEntity(id)
	}
}

func (t *TrimTool) Move(m *Manager, cursor geom2d.Vec2) Preview {
	id := t.hover(m, cursor)
	if id == "" {
		return Preview{}
	}
	return Preview{Valid: true, Kind: "TrimHover"}
}

func (t *TrimTool) Release(m *Manager, cursor geom2d.Vec2) {}

func (t *TrimTool) KeyPress(m *Manager, key string) {}

func (t *TrimTool) Cancel(m *Manager) {}
