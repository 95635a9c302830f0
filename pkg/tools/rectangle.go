package tools

import (
	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
	"github.com/onecad/sketchcore/pkg/snap"
)

// RectangleTool draws an axis-aligned four-line rectangle from two
// opposite-corner presses; it commits on the second press ("Rectangle tool").
type RectangleTool struct {
	hasFirst bool
	corner geom2d.Vec2
}

func (t *RectangleTool) Name() string { return "Rectangle" }

func (t *RectangleTool) Press(m *Manager, cursor geom2d.Vec2) {
	res := m.ResolveCommit(cursor, snap.Context{})
	pos := cursor
	if res.Snapped {
		pos = res.Position
	}

	if !t.hasFirst {
		t.corner = pos
		t.hasFirst = true
		return
	}

	p0 := m.Sketch.AddPoint(t.corner.X, t.corner.Y, false)
	p1 := m.Sketch.AddPoint(pos.X, t.corner.Y, false)
	p2 := m.Sketch.AddPoint(pos.X, pos.Y, false)
	p3 := m.Sketch.AddPoint(t.corner.X, pos.Y, false)

	l0 := m.Sketch.AddLine(p0, p1, false)
	l1 := m.Sketch.AddLine(p1, p2, false)
	l2 := m.Sketch.AddLine(p2, p3, false)
	l3 := m.Sketch.AddLine(p3, p0, false)
	for _, l := range []sketch.EntityID{l0, l1, l2, l3} {
		if l != "" {
			m.CommitEntity(l)
		}
	}

	t.hasFirst = false
}

func (t *RectangleTool) Move(m *Manager, cursor geom2d.Vec2) Preview {
	if !t.hasFirst {
		return Preview{}
	}
	res := m.ResolvePreview(cursor, snap.Context{})
	pos := cursor
	if res.Snapped {
		pos = res.Position
	}
	return Preview{Valid: true, Kind: "Rectangle", Points: []geom2d.Vec2{
		t.corner,
		{X: pos.X, Y: t.corner.Y},
		pos,
		{X: t.corner.X, Y: pos.Y},
	}}
}

func (t *RectangleTool) Release(m *Manager, cursor geom2d.Vec2) {}

func (t *RectangleTool) KeyPress(m *Manager, key string) {}

func (t *RectangleTool) Cancel(m *Manager) {
	t.hasFirst = false
}
