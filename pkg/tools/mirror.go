package tools

import (
	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
)

// MirrorTool's first click selects a line as the mirror axis; every
// click after that clones the hovered entity reflected across that axis
// ("Mirror tool").
type MirrorTool struct {
	hasAxis bool
	axisA geom2d.Vec2
	axisB geom2d.Vec2
}

func (t *MirrorTool) Name() string { return "Mirror" }

func (t *MirrorTool) Press(m *Manager, cursor geom2d.Vec2) {
	if !t.hasAxis {
		axisID := m.Sketch.FindNearest(cursor, 3.0, sketch.EntityFilter{sketch.TypeLine: true})
		if axisID == "" {
			return
		}
		axis := m.Sketch.Entity(axisID)
		a, b, ok := entityEndpoints(m.Sketch, axis)
		if !ok {
			return
		}
		t.axisA, t.axisB = a, b
		t.hasAxis = true
		return
	}

	filter := sketch.EntityFilter{
		sketch.TypeLine: true,
		sketch.TypeArc: true,
		sketch.TypeCircle: true,
		sketch.TypeEllipse: true,
	}
	id := m.Sketch.FindNearest(cursor, 3.0, filter)
	if id == "" {
		return
	}
	newID := t.mirrorEntity(m.Sketch, id)
	if newID != "" {
		m.CommitEntity(newID)
	}
}

func (t *MirrorTool) Move(m *Manager, cursor geom2d.Vec2) Preview {
	if !t.hasAxis {
		return Preview{}
	}
	return Preview{Valid: true, Kind: "Mirror", Points: []geom2d.Vec2{t.axisA, t.axisB}}
}

func (t *MirrorTool) Release(m *Manager, cursor geom2d.Vec2) {}

func (t *MirrorTool) KeyPress(m *Manager, key string) {}

func (t *MirrorTool) Cancel(m *Manager) {
	t.hasAxis = false
}

func (t *MirrorTool) reflect(p geom2d.Vec2) geom2d.Vec2 {
	d := t.axisB.Sub(t.axisA)
	lenSq := d.LengthSq()
	if lenSq < 1e-18 {
		return p
	}
	ap := p.Sub(t.axisA)
	proj := t.axisA.Add(d.Scale(ap.Dot(d) / lenSq))
	return proj.Scale(2).Sub(p)
}

func (t *MirrorTool) reflectAngle(a float64) float64 {
	axisAngle := t.axisB.Sub(t.axisA).Angle()
	return geom2d.NormalizeAngle(2*axisAngle - a)
}

// mirrorEntity clones e reflected across the tool's axis, returning the
// new entity's ID (empty on failure).
func (t *MirrorTool) mirrorEntity(sk *sketch.Sketch, id sketch.EntityID) sketch.EntityID {
	e := sk.Entity(id)
	if e == nil {
		return ""
	}
	switch e.Type {
	case sketch.TypeLine:
		a, b, ok := entityEndpoints(sk, e)
		if !ok {
			return ""
		}
		ra, rb := t.reflect(a), t.reflect(b)
		p0 := sk.AddPoint(ra.X, ra.Y, e.Construction)
		p1 := sk.AddPoint(rb.X, rb.Y, e.Construction)
		return sk.AddLine(p0, p1, e.Construction)

	case sketch.TypeCircle:
		cp := sk.Entity(e.Center)
		if cp == nil {
			return ""
		}
		rc := t.reflect(cp.Pos)
		centerID := sk.AddPoint(rc.X, rc.Y, e.Construction)
		return sk.AddCircle(centerID, e.Radius, e.Construction)

	case sketch.TypeArc:
		cp := sk.Entity(e.Center)
		if cp == nil {
			return ""
		}
		rc := t.reflect(cp.Pos)
		centerID := sk.AddPoint(rc.X, rc.Y, e.Construction)
		// Mirroring reverses winding sense, so the reflected sweep runs
		// from the old end angle to the old start angle.
		newStart := t.reflectAngle(e.EndAngle)
		newEnd := t.reflectAngle(e.StartAngle)
		return sk.AddArc(centerID, e.Radius, newStart, newEnd, e.Construction)

	case sketch.TypeEllipse:
		cp := sk.Entity(e.Center)
		if cp == nil {
			return ""
		}
		rc := t.reflect(cp.Pos)
		centerID := sk.AddPoint(rc.X, rc.Y, e.Construction)
		newRotation := t.reflectAngle(e.Rotation)
		return sk.AddEllipse(centerID, e.MajorRadius, e.MinorRadius, newRotation, e.Construction)

	default:
		return ""
	}
}
