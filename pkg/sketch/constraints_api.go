package sketch

import (
	"math"

	"github.com/onecad/sketchcore/pkg/geom2d"
)

// AddConstraint validates referenced entities (present, and not
// reference-locked unless c.Type == FixedPoint) and inserts c. Returns ""
// on failure with no state change; the ID is assigned internally and the
// returned constraint's ID is set on success — callers should use the
// returned ID, not any ID field pre-set on the input.
func (s *Sketch) AddConstraint(c Constraint) ConstraintID {
	for _, id := range c.Entities {
		e := s.Entity(id)
		if e == nil {
			return ""
		}
		if e.ReferenceLocked && c.Type != FixedPoint {
			return ""
		}
	}
	c.ID = s.newConstraintID()
	stored := c
	s.constraintIndex[stored.ID] = len(s.constraints)
	s.constraints = append(s.constraints, &stored)
	s.markDirty()
	return stored.ID
}

// RemoveConstraint removes a constraint. Fails if any referenced entity
// is reference-locked.
func (s *Sketch) RemoveConstraint(id ConstraintID) bool {
	c := s.Constraint(id)
	if c == nil {
		return false
	}
	for _, eid := range c.Entities {
		if e := s.Entity(eid); e != nil && e.ReferenceLocked {
			return false
		}
	}
	s.deleteConstraintRecord(id)
	s.markDirty()
	return true
}

func sortedIDs(ids ...EntityID) []EntityID {
	out := append([]EntityID(nil), ids...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func (s *Sketch) entityIsOfAnyType(id EntityID, types ...EntityType) bool {
	e := s.Entity(id)
	if e == nil {
		return false
	}
	for _, t := range types {
		if e.Type == t {
			return true
		}
	}
	return false
}

// AddCoincident adds a Coincident(p,p) constraint between two points.
func (s *Sketch) AddCoincident(p1, p2 EntityID) ConstraintID {
	if !s.entityIsOfAnyType(p1, TypePoint) || !s.entityIsOfAnyType(p2, TypePoint) {
		return ""
	}
	return s.AddConstraint(Constraint{Type: Coincident, Entities: sortedIDs(p1, p2)})
}

// AddHorizontal adds a Horizontal(line) constraint.
func (s *Sketch) AddHorizontal(line EntityID) ConstraintID {
	if !s.entityIsOfAnyType(line, TypeLine) {
		return ""
	}
	return s.AddConstraint(Constraint{Type: Horizontal, Entities: []EntityID{line}})
}

// AddVertical adds a Vertical(line) constraint.
func (s *Sketch) AddVertical(line EntityID) ConstraintID {
	if !s.entityIsOfAnyType(line, TypeLine) {
		return ""
	}
	return s.AddConstraint(Constraint{Type: Vertical, Entities: []EntityID{line}})
}

// AddParallel adds a Parallel(l,l) constraint.
func (s *Sketch) AddParallel(l1, l2 EntityID) ConstraintID {
	if !s.entityIsOfAnyType(l1, TypeLine) || !s.entityIsOfAnyType(l2, TypeLine) {
		return ""
	}
	return s.AddConstraint(Constraint{Type: Parallel, Entities: sortedIDs(l1, l2)})
}

// AddPerpendicular adds a Perpendicular(l,l) constraint.
func (s *Sketch) AddPerpendicular(l1, l2 EntityID) ConstraintID {
	if !s.entityIsOfAnyType(l1, TypeLine) || !s.entityIsOfAnyType(l2, TypeLine) {
		return ""
	}
	return s.AddConstraint(Constraint{Type: Perpendicular, Entities: sortedIDs(l1, l2)})
}

// AddTangent adds a Tangent(curve, curve|line) constraint.
func (s *Sketch) AddTangent(a, b EntityID) ConstraintID {
	if s.Entity(a) == nil || s.Entity(b) == nil {
		return ""
	}
	return s.AddConstraint(Constraint{Type: Tangent, Entities: sortedIDs(a, b)})
}

// AddEqual adds an Equal(curve,curve) constraint.
func (s *Sketch) AddEqual(a, b EntityID) ConstraintID {
	if s.Entity(a) == nil || s.Entity(b) == nil {
		return ""
	}
	return s.AddConstraint(Constraint{Type: Equal, Entities: sortedIDs(a, b)})
}

// AddConcentric adds a Concentric(curve,curve) constraint.
func (s *Sketch) AddConcentric(a, b EntityID) ConstraintID {
	if !s.entityIsOfAnyType(a, TypeArc, TypeCircle, TypeEllipse) ||
		!s.entityIsOfAnyType(b, TypeArc, TypeCircle, TypeEllipse) {
		return ""
	}
	return s.AddConstraint(Constraint{Type: Concentric, Entities: sortedIDs(a, b)})
}

// AddDistance adds a Distance(a,b,d) constraint between two points.
func (s *Sketch) AddDistance(p1, p2 EntityID, d float64) ConstraintID {
	if !s.entityIsOfAnyType(p1, TypePoint) || !s.entityIsOfAnyType(p2, TypePoint) {
		return ""
	}
	return s.AddConstraint(Constraint{Type: Distance, Entities: sortedIDs(p1, p2), Value: d})
}

// AddRadius adds a Radius(curve,r) constraint.
func (s *Sketch) AddRadius(curve EntityID, r float64) ConstraintID {
	if !s.entityIsOfAnyType(curve, TypeArc, TypeCircle) {
		return ""
	}
	return s.AddConstraint(Constraint{Type: Radius, Entities: []EntityID{curve}, Value: r})
}

// AddDiameter adds a Diameter(curve,d) constraint.
func (s *Sketch) AddDiameter(curve EntityID, d float64) ConstraintID {
	if !s.entityIsOfAnyType(curve, TypeArc, TypeCircle) {
		return ""
	}
	return s.AddConstraint(Constraint{Type: Diameter, Entities: []EntityID{curve}, Value: d})
}

// AddAngle adds an Angle(l,l,theta) constraint; degrees is converted to
// radians.
func (s *Sketch) AddAngle(l1, l2 EntityID, degrees float64) ConstraintID {
	if !s.entityIsOfAnyType(l1, TypeLine) || !s.entityIsOfAnyType(l2, TypeLine) {
		return ""
	}
	return s.AddConstraint(Constraint{Type: Angle, Entities: sortedIDs(l1, l2), Value: degrees * math.Pi / 180})
}

// AddFixed adds a Fixed(p,x,y) constraint capturing the point's current
// position.
func (s *Sketch) AddFixed(p EntityID) ConstraintID {
	e := s.Entity(p)
	if e == nil || e.Type != TypePoint {
		return ""
	}
	return s.AddConstraint(Constraint{Type: FixedPoint, Entities: []EntityID{p}, FixedX: e.Pos.X, FixedY: e.Pos.Y})
}

// AddPointOnCurve adds a PointOnCurve(p,curve,position) constraint. When
// position is PositionArbitrary and curve is an arc, the position is
// auto-detected as Start/End when p lies within 1e-6 of either endpoint.
func (s *Sketch) AddPointOnCurve(p, curve EntityID, position PointOnCurvePosition) ConstraintID {
	pe := s.Entity(p)
	ce := s.Entity(curve)
	if pe == nil || ce == nil || pe.Type != TypePoint {
		return ""
	}
	if position == PositionArbitrary && ce.Type == TypeArc {
		if cp := s.Entity(ce.Center); cp != nil {
			startPt := cp.Pos.Add(geom2d.Vec2{X: math.Cos(ce.StartAngle), Y: math.Sin(ce.StartAngle)}.Scale(ce.Radius))
			endPt := cp.Pos.Add(geom2d.Vec2{X: math.Cos(ce.EndAngle), Y: math.Sin(ce.EndAngle)}.Scale(ce.Radius))
			if pe.Pos.Distance(startPt) < 1e-6 {
				position = PositionStart
			} else if pe.Pos.Distance(endPt) < 1e-6 {
				position = PositionEnd
			}
		}
	}
	return s.AddConstraint(Constraint{
		Type:     PointOnCurve,
		Entities: []EntityID{p, curve},
		Position: position,
	})
}
