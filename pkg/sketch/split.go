package sketch

import (
	"math"

	"github.com/onecad/sketchcore/pkg/geom2d"
)

// SplitLineAt splits a line at the point on it closest to pos, inserting a
// new shared point. Returns ("","") if the line is missing, locked, the
// closest parameter is within lineSplitRelTolerance of an endpoint, or
// either resulting segment would be degenerate. Constraints referencing
// the original line are removed and NOT migrated to the new segments
// (open question: intentional, re-inference is the caller's
// responsibility).
func (s *Sketch) SplitLineAt(id EntityID, pos geom2d.Vec2) (left, right EntityID) {
	e := s.Entity(id)
	if e == nil || e.Type != TypeLine || e.ReferenceLocked {
		return "", ""
	}
	sp, ep := s.Entity(e.Start), s.Entity(e.End)
	if sp == nil || ep == nil {
		return "", ""
	}
	_, t := geom2d.PointSegmentDistance(pos, sp.Pos, ep.Pos)
	if t < lineSplitRelTolerance || t > 1-lineSplitRelTolerance {
		return "", ""
	}
	splitPt := sp.Pos.Lerp(ep.Pos, t)

	construction := e.Construction
	s.removeConstraintsReferencing(id)
	s.deleteEntityRecord(id)
	sp.removeConnection(id)
	ep.removeConnection(id)

	midID := s.AddPoint(splitPt.X, splitPt.Y, construction)
	left = s.AddLine(e.Start, midID, construction)
	right = s.AddLine(midID, e.End, construction)
	return left, right
}

// SplitArcAt splits an arc at the given angle (radians), inserting a new
// shared point. Returns ("","") if the arc is missing, locked, the angle
// is within arcSplitAngleTolerance of an existing endpoint, or either
// resulting segment would be degenerate. As with SplitLineAt, constraints
// on the original arc are dropped rather than migrated.
func (s *Sketch) SplitArcAt(id EntityID, angle float64) (left, right EntityID) {
	e := s.Entity(id)
	if e == nil || e.Type != TypeArc || e.ReferenceLocked {
		return "", ""
	}
	cp := s.Entity(e.Center)
	if cp == nil {
		return "", ""
	}
	sweep := geom2d.SweepCCW(e.StartAngle, e.EndAngle)
	offset := geom2d.SweepCCW(e.StartAngle, angle)
	if offset < arcSplitAngleTolerance || sweep-offset < arcSplitAngleTolerance {
		return "", ""
	}

	splitAngle := e.StartAngle + offset
	splitPt := cp.Pos.Add(geom2d.Vec2{X: math.Cos(splitAngle), Y: math.Sin(splitAngle)}.Scale(e.Radius))

	construction := e.Construction
	startAngle, endAngle, radius, center := e.StartAngle, e.EndAngle, e.Radius, e.Center
	s.removeConstraintsReferencing(id)
	s.deleteEntityRecord(id)
	cp.removeConnection(id)

	// Arcs reference only their center, not explicit endpoint points, so
	// the inserted point is free: it exists for intersection/coincident
	// constraints authored afterward, not as an arc endpoint reference.
	midID := s.AddPoint(splitPt.X, splitPt.Y, construction)
	left = s.AddArc(center, radius, startAngle, splitAngle, construction)
	right = s.AddArc(center, radius, splitAngle, endAngle, construction)
	_ = midID
	return left, right
}
