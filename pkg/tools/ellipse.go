package tools

import (
	"math"

	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/snap"
)

// EllipseTool draws an ellipse from a center, a major-axis endpoint, and
// a third click that sets the minor radius as the perpendicular distance
// from the cursor to the major axis; major >= minor is enforced by
// swapping the axes and rotating 90 degrees when the constraint would
// otherwise be violated ("Ellipse tool").
type EllipseTool struct {
	state int // 0=idle, 1=have center, 2=have center+major endpoint
	center geom2d.Vec2
	major geom2d.Vec2
}

func (t *EllipseTool) Name() string { return "Ellipse" }

func (t *EllipseTool) Press(m *Manager, cursor geom2d.Vec2) {
	res := m.ResolveCommit(cursor, snap.Context{})
	pos := cursor
	if res.Snapped {
		pos = res.Position
	}

	switch t.state {
	case 0:
		t.center = pos
		t.state = 1
	case 1:
		t.major = pos
		t.state = 2
	case 2:
		majorVec := t.major.Sub(t.center)
		majorRadius := majorVec.Length()
		rotation := majorVec.Angle()
		var minorRadius float64
		if majorRadius > 1e-12 {
			minorRadius = math.Abs(majorVec.Cross(pos.Sub(t.center))) / majorRadius
		}

		if minorRadius > majorRadius {
			majorRadius, minorRadius = minorRadius, majorRadius
			rotation += math.Pi / 2 // rotate 90deg so the longer axis stays "major"
		}

		centerID := m.Sketch.AddPoint(t.center.X, t.center.Y, false)
		ellipseID := m.Sketch.AddEllipse(centerID, majorRadius, minorRadius, rotation, false)
		if ellipseID != "" {
			m.CommitEntity(ellipseID)
		}
		t.state = 0
	}
}

func (t *EllipseTool) Move(m *Manager, cursor geom2d.Vec2) Preview {
	if t.state == 0 {
		return Preview{}
	}
	res := m.ResolvePreview(cursor, snap.Context{})
	pos := cursor
	if res.Snapped {
		pos = res.Position
	}
	if t.state == 1 {
		return Preview{Valid: true, Kind: "Ellipse", Points: []geom2d.Vec2{t.center, pos}}
	}
	return Preview{Valid: true, Kind: "Ellipse", Points: []geom2d.Vec2{t.center, t.major, pos}}
}

func (t *EllipseTool) Release(m *Manager, cursor geom2d.Vec2) {}

func (t *EllipseTool) KeyPress(m *Manager, key string) {}

func (t *EllipseTool) Cancel(m *Manager) {
	t.state = 0
}
