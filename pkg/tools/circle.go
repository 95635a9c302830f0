package tools

import (
	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
	"github.com/onecad/sketchcore/pkg/snap"
)

// CircleTool draws a circle from a center click and a radius-defining
// second click ("Circle tool").
type CircleTool struct {
	hasCenter bool
	center geom2d.Vec2
	centerID sketch.EntityID
}

func (t *CircleTool) Name() string { return "Circle" }

func (t *CircleTool) Press(m *Manager, cursor geom2d.Vec2) {
	res := m.ResolveCommit(cursor, snap.Context{})
	pos, id := resolvedPoint(m, res)
	if !res.Snapped {
		pos = cursor
	}

	if !t.hasCenter {
		t.center = pos
		if id == "" {
			id = m.Sketch.AddPoint(pos.X, pos.Y, false)
		}
		t.centerID = id
		t.hasCenter = true
		m.SetExclude(id)
		return
	}

	radius := t.center.Distance(pos)
	circleID := m.Sketch.AddCircle(t.centerID, radius, false)
	if circleID != "" {
		m.CommitEntity(circleID)
	}

	t.hasCenter = false
	m.ClearExclude()
}

func (t *CircleTool) Move(m *Manager, cursor geom2d.Vec2) Preview {
	if !t.hasCenter {
		return Preview{}
	}
	res := m.ResolvePreview(cursor, snap.Context{})
	pos := cursor
	if res.Snapped {
		pos = res.Position
	}
	return Preview{Valid: true, Kind: "Circle", Points: []geom2d.Vec2{t.center, pos}}
}

func (t *CircleTool) Release(m *Manager, cursor geom2d.Vec2) {}

func (t *CircleTool) KeyPress(m *Manager, key string) {}

func (t *CircleTool) Cancel(m *Manager) {
	t.hasCenter = false
	t.centerID = ""
}
