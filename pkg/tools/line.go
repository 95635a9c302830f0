package tools

import (
	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
	"github.com/onecad/sketchcore/pkg/snap"
)

// LineTool draws chained line segments ("Line tool"): Idle
// -> FirstClick on the first press, commits on the second and reuses the
// new endpoint as the next FirstClick for polyline continuation.
type LineTool struct {
	hasFirst bool
	startID sketch.EntityID
	startPos geom2d.Vec2
}

func (t *LineTool) Name() string { return "Line" }

func (t *LineTool) Press(m *Manager, cursor geom2d.Vec2) {
	res := m.ResolveCommit(cursor, t.snapContext())
	pos, id := resolvedPoint(m, res)
	if !res.Snapped {
		pos = cursor
	}

	if !t.hasFirst {
		t.startPos = pos
		t.startID = id
		t.hasFirst = true
		m.SetExclude(id)
		return
	}

	start := t.ensurePoint(m, t.startPos, t.startID)
	end := t.ensurePoint(m, pos, id)
	lineID := m.Sketch.AddLine(start, end, false)
	if lineID != "" {
		m.CommitEntity(lineID)
	}

	t.startPos = pos
	t.startID = end
	m.ClearExclude()
	m.SetExclude(end)
}

func (t *LineTool) Move(m *Manager, cursor geom2d.Vec2) Preview {
	if !t.hasFirst {
		return Preview{}
	}
	res := m.ResolvePreview(cursor, t.snapContext())
	pos := cursor
	if res.Snapped {
		pos = res.Position
	}
	return Preview{Valid: true, Kind: "Line", Points: []geom2d.Vec2{t.startPos, pos}}
}

func (t *LineTool) Release(m *Manager, cursor geom2d.Vec2) {}

func (t *LineTool) KeyPress(m *Manager, key string) {}

func (t *LineTool) Cancel(m *Manager) {
	t.hasFirst = false
	t.startID = ""
}

func (t *LineTool) snapContext() snap.Context {
	if !t.hasFirst {
		return snap.Context{}
	}
	return snap.Context{AnchorPoint: t.startPos, HasAnchor: true}
}

// ensurePoint returns id if already a real point, otherwise creates one
// at pos. Snap results against existing points already carry a PointID.
func (t *LineTool) ensurePoint(m *Manager, pos geom2d.Vec2, id sketch.EntityID) sketch.EntityID {
	if id != "" {
		return id
	}
	return m.Sketch.AddPoint(pos.X, pos.Y, false)
}

// resolvedPoint extracts the world position and, if the snap landed on
// an existing point, its entity ID (empty otherwise).
func resolvedPoint(m *Manager, res snap.Result) (geom2d.Vec2, sketch.EntityID) {
	if !res.Snapped {
		return geom2d.Vec2{}, ""
	}
	if res.Type == snap.TypeVertex && res.PointID != "" {
		return res.Position, res.PointID
	}
	return res.Position, ""
}
