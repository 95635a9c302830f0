package tools

import (
	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/snap"
)

// ArcTool draws a three-point arc: start, a middle point the arc must
// pass through, and end. Commits by computing the circumcircle of the
// three points (failing on colinearity) and choosing start/end angles so
// the CCW sweep from start to end passes through the middle point
// ("Arc tool").
type ArcTool struct {
	state int // 0=idle, 1=have start, 2=have start+middle
	start geom2d.Vec2
	middle geom2d.Vec2
}

func (t *ArcTool) Name() string { return "Arc" }

func (t *ArcTool) Press(m *Manager, cursor geom2d.Vec2) {
	res := m.ResolveCommit(cursor, snap.Context{})
	pos := cursor
	if res.Snapped {
		pos = res.Position
	}

	switch t.state {
	case 0:
		t.start = pos
		t.state = 1
	case 1:
		t.middle = pos
		t.state = 2
	case 2:
		end := pos
		center, radius, ok := geom2d.Circumcircle(t.start, t.middle, end)
		if !ok {
			t.state = 0
			return
		}
		startAngle := t.start.Sub(center).Angle()
		midAngle := t.middle.Sub(center).Angle()
		endAngle := end.Sub(center).Angle()

		sweepToMid := geom2d.SweepCCW(startAngle, midAngle)
		sweepToEnd := geom2d.SweepCCW(startAngle, endAngle)
		if sweepToMid > sweepToEnd {
			// middle does not lie on the short CCW arc from start to end;
			// swap so start/end bound the sweep that contains it.
			startAngle, endAngle = endAngle, startAngle
		}

		centerID := m.Sketch.AddPoint(center.X, center.Y, false)
		arcID := m.Sketch.AddArc(centerID, radius, startAngle, endAngle, false)
		if arcID != "" {
			m.CommitEntity(arcID)
		}
		t.state = 0
	}
}

func (t *ArcTool) Move(m *Manager, cursor geom2d.Vec2) Preview {
	if t.state == 0 {
		return Preview{}
	}
	res := m.ResolvePreview(cursor, snap.Context{})
	pos := cursor
	if res.Snapped {
		pos = res.Position
	}
	if t.state == 1 {
		return Preview{Valid: true, Kind: "Arc", Points: []geom2d.Vec2{t.start, pos}}
	}
	return Preview{Valid: true, Kind: "Arc", Points: []geom2d.Vec2{t.start, t.middle, pos}}
}

func (t *ArcTool) Release(m *Manager, cursor geom2d.Vec2) {}

func (t *ArcTool) KeyPress(m *Manager, key string) {}

func (t *ArcTool) Cancel(m *Manager) {
	t.state = 0
}
