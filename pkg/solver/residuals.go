package solver

import (
	"math"

	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
)

// residualCount returns how many scalar residual equations a constraint
// of type t contributes. This is a geometric count, independent of the
// DOF-accounting heuristic in pkg/sketch (a sketch may, by design,
// approximate a constraint's DOF removal loosely while the solver still
// needs its exact equation count).
func residualCount(t sketch.ConstraintType) int {
	switch t {
	case sketch.Coincident, sketch.Concentric, sketch.FixedPoint:
		return 2
	default:
		return 1
	}
}

func linePoints(sk *sketch.Sketch, id sketch.EntityID) (start, end geom2d.Vec2, ok bool) {
	e := sk.Entity(id)
	if e == nil || e.Type != sketch.TypeLine {
		return geom2d.Vec2{}, geom2d.Vec2{}, false
	}
	sp, ep := sk.Entity(e.Start), sk.Entity(e.End)
	if sp == nil || ep == nil {
		return geom2d.Vec2{}, geom2d.Vec2{}, false
	}
	return sp.Pos, ep.Pos, true
}

func curveCenterRadius(sk *sketch.Sketch, id sketch.EntityID) (center geom2d.Vec2, radius float64, ok bool) {
	e := sk.Entity(id)
	if e == nil {
		return geom2d.Vec2{}, 0, false
	}
	switch e.Type {
	case sketch.TypeArc, sketch.TypeCircle:
		cp := sk.Entity(e.Center)
		if cp == nil {
			return geom2d.Vec2{}, 0, false
		}
		return cp.Pos, e.Radius, true
	default:
		return geom2d.Vec2{}, 0, false
	}
}

func curveCenter(sk *sketch.Sketch, id sketch.EntityID) (geom2d.Vec2, bool) {
	e := sk.Entity(id)
	if e == nil {
		return geom2d.Vec2{}, false
	}
	switch e.Type {
	case sketch.TypeArc, sketch.TypeCircle, sketch.TypeEllipse:
		cp := sk.Entity(e.Center)
		if cp == nil {
			return geom2d.Vec2{}, false
		}
		return cp.Pos, true
	default:
		return geom2d.Vec2{}, false
	}
}

func normalizeAngleSigned(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// evalResidual computes the live residual vector for one constraint,
// reading directly from the sketch's current (possibly trial-perturbed)
// entity values.
func evalResidual(sk *sketch.Sketch, c *sketch.Constraint) []float64 {
	switch c.Type {
	case sketch.Coincident:
		p1 := sk.PointPosition(c.Entities[0])
		p2 := sk.PointPosition(c.Entities[1])
		return []float64{p2.X - p1.X, p2.Y - p1.Y}

	case sketch.Horizontal:
		s, e, ok := linePoints(sk, c.Entities[0])
		if !ok {
			return []float64{0}
		}
		return []float64{e.Y - s.Y}

	case sketch.Vertical:
		s, e, ok := linePoints(sk, c.Entities[0])
		if !ok {
			return []float64{0}
		}
		return []float64{e.X - s.X}

	case sketch.Parallel:
		s1, e1, ok1 := linePoints(sk, c.Entities[0])
		s2, e2, ok2 := linePoints(sk, c.Entities[1])
		if !ok1 || !ok2 {
			return []float64{0}
		}
		d1, d2 := e1.Sub(s1), e2.Sub(s2)
		return []float64{d1.Cross(d2)}

	case sketch.Perpendicular:
		s1, e1, ok1 := linePoints(sk, c.Entities[0])
		s2, e2, ok2 := linePoints(sk, c.Entities[1])
		if !ok1 || !ok2 {
			return []float64{0}
		}
		d1, d2 := e1.Sub(s1), e2.Sub(s2)
		return []float64{d1.Dot(d2)}

	case sketch.Tangent:
		return []float64{tangentResidual(sk, c.Entities[0], c.Entities[1])}

	case sketch.Equal:
		return []float64{equalResidual(sk, c.Entities[0], c.Entities[1])}

	case sketch.Concentric:
		c1, ok1 := curveCenter(sk, c.Entities[0])
		c2, ok2 := curveCenter(sk, c.Entities[1])
		if !ok1 || !ok2 {
			return []float64{0, 0}
		}
		return []float64{c2.X - c1.X, c2.Y - c1.Y}

	case sketch.PointOnCurve:
		return []float64{pointOnCurveResidual(sk, c.Entities[0], c.Entities[1])}

	case sketch.FixedPoint:
		p := sk.PointPosition(c.Entities[0])
		return []float64{p.X - c.FixedX, p.Y - c.FixedY}

	case sketch.Distance:
		p1 := sk.PointPosition(c.Entities[0])
		p2 := sk.PointPosition(c.Entities[1])
		return []float64{p1.Distance(p2) - c.Value}

	case sketch.Radius:
		_, r, ok := curveRadius(sk, c.Entities[0])
		if !ok {
			return []float64{0}
		}
		return []float64{r - c.Value}

	case sketch.Diameter:
		_, r, ok := curveRadius(sk, c.Entities[0])
		if !ok {
			return []float64{0}
		}
		return []float64{2*r - c.Value}

	case sketch.Angle:
		s1, e1, ok1 := linePoints(sk, c.Entities[0])
		s2, e2, ok2 := linePoints(sk, c.Entities[1])
		if !ok1 || !ok2 {
			return []float64{0}
		}
		a1 := e1.Sub(s1).Angle()
		a2 := e2.Sub(s2).Angle()
		return []float64{normalizeAngleSigned(a2-a1) - c.Value}

	default:
		return []float64{0}
	}
}

// curveRadius returns the radius of an arc, circle, or ellipse (mean of
// major/minor for ellipses, which have no single radius).
func curveRadius(sk *sketch.Sketch, id sketch.EntityID) (geom2d.Vec2, float64, bool) {
	e := sk.Entity(id)
	if e == nil {
		return geom2d.Vec2{}, 0, false
	}
	switch e.Type {
	case sketch.TypeArc, sketch.TypeCircle:
		return curveCenterRadius(sk, id)
	case sketch.TypeEllipse:
		cp := sk.Entity(e.Center)
		if cp == nil {
			return geom2d.Vec2{}, 0, false
		}
		return cp.Pos, (e.MajorRadius + e.MinorRadius) / 2, true
	default:
		return geom2d.Vec2{}, 0, false
	}
}

// tangentResidual approximates tangency between two curve-like entities.
// Circle/circle and arc/arc (sharing the arc's circular support) are
// tested as external tangency of their support circles; line/circle and
// line/arc test the line's distance to the curve's center against its
// radius.
func tangentResidual(sk *sketch.Sketch, a, b sketch.EntityID) float64 {
	ea, eb := sk.Entity(a), sk.Entity(b)
	if ea == nil || eb == nil {
		return 0
	}
	if ea.Type == sketch.TypeLine {
		return lineTangentResidual(sk, a, b)
	}
	if eb.Type == sketch.TypeLine {
		return lineTangentResidual(sk, b, a)
	}
	ca, ra, ok1 := curveCenterRadius(sk, a)
	cb, rb, ok2 := curveCenterRadius(sk, b)
	if !ok1 || !ok2 {
		return 0
	}
	return ca.Distance(cb) - (ra + rb)
}

func lineTangentResidual(sk *sketch.Sketch, lineID, curveID sketch.EntityID) float64 {
	s, e, ok := linePoints(sk, lineID)
	if !ok {
		return 0
	}
	center, radius, ok := curveCenterRadius(sk, curveID)
	if !ok {
		return 0
	}
	d, _ := geom2d.PointSegmentDistance(center, s, e)
	return d - radius
}

// equalResidual compares radii for curve pairs, or length for line pairs.
func equalResidual(sk *sketch.Sketch, a, b sketch.EntityID) float64 {
	ea, eb := sk.Entity(a), sk.Entity(b)
	if ea == nil || eb == nil {
		return 0
	}
	if ea.Type == sketch.TypeLine && eb.Type == sketch.TypeLine {
		s1, e1, _ := linePoints(sk, a)
		s2, e2, _ := linePoints(sk, b)
		return s1.Distance(e1) - s2.Distance(e2)
	}
	_, ra, ok1 := curveRadius(sk, a)
	_, rb, ok2 := curveRadius(sk, b)
	if !ok1 || !ok2 {
		return 0
	}
	return ra - rb
}

// pointOnCurveResidual is the point's geometric distance to the curve; 0
// when it lies exactly on it.
func pointOnCurveResidual(sk *sketch.Sketch, pointID, curveID sketch.EntityID) float64 {
	p := sk.PointPosition(pointID)
	e := sk.Entity(curveID)
	if e == nil {
		return 0
	}
	switch e.Type {
	case sketch.TypeLine:
		s, en, ok := linePoints(sk, curveID)
		if !ok {
			return 0
		}
		d, _ := geom2d.PointSegmentDistance(p, s, en)
		return d
	case sketch.TypeCircle:
		center, radius, ok := curveCenterRadius(sk, curveID)
		if !ok {
			return 0
		}
		return geom2d.PointCircleDistance(p, center, radius)
	case sketch.TypeArc:
		center, radius, ok := curveCenterRadius(sk, curveID)
		if !ok {
			return 0
		}
		d := geom2d.PointArcDistance(p, center, radius, e.StartAngle, e.EndAngle)
		if math.IsInf(d, 1) {
			return p.Distance(center) - radius
		}
		return d
	case sketch.TypeEllipse:
		cp := sk.Entity(e.Center)
		if cp == nil {
			return 0
		}
		return geom2d.PointEllipseDistance(p, cp.Pos, e.MajorRadius, e.MinorRadius, e.Rotation)
	default:
		return 0
	}
}

// analyticalRow computes a closed-form Jacobian row block for constraint
// types whose residuals are linear (or trivially differentiable) in their
// touched parameters. Returns (nil, false) when no closed form is
// implemented, signaling the caller to fall back to central differences.
func analyticalRow(sys *system, c *sketch.Constraint) (map[int][]float64, bool) {
	switch c.Type {
	case sketch.Coincident:
		return linearPointPairJacobian(sys, c.Entities[0], c.Entities[1], 1), true
	case sketch.Concentric:
		c1, ok1 := curvePointID(sys.sk, c.Entities[0])
		c2, ok2 := curvePointID(sys.sk, c.Entities[1])
		if !ok1 || !ok2 {
			return nil, false
		}
		return linearPointPairJacobian(sys, c1, c2, 1), true
	case sketch.FixedPoint:
		m := map[int][]float64{}
		if col, ok := sys.col(c.Entities[0], "x"); ok {
			m[col] = []float64{1, 0}
		}
		if col, ok := sys.col(c.Entities[0], "y"); ok {
			m[col] = []float64{0, 1}
		}
		return m, true
	case sketch.Horizontal:
		e := sys.sk.Entity(c.Entities[0])
		if e == nil {
			return nil, false
		}
		m := map[int][]float64{}
		if col, ok := sys.col(e.Start, "y"); ok {
			m[col] = []float64{-1}
		}
		if col, ok := sys.col(e.End, "y"); ok {
			m[col] = []float64{1}
		}
		return m, true
	case sketch.Vertical:
		e := sys.sk.Entity(c.Entities[0])
		if e == nil {
			return nil, false
		}
		m := map[int][]float64{}
		if col, ok := sys.col(e.Start, "x"); ok {
			m[col] = []float64{-1}
		}
		if col, ok := sys.col(e.End, "x"); ok {
			m[col] = []float64{1}
		}
		return m, true
	default:
		return nil, false
	}
}

func curvePointID(sk *sketch.Sketch, id sketch.EntityID) (sketch.EntityID, bool) {
	e := sk.Entity(id)
	if e == nil {
		return "", false
	}
	switch e.Type {
	case sketch.TypeArc, sketch.TypeCircle, sketch.TypeEllipse:
		return e.Center, true
	default:
		return "", false
	}
}

// linearPointPairJacobian builds the Jacobian entries for a residual of
// the form scale*(p2-p1): -scale on p1's columns, +scale on p2's.
func linearPointPairJacobian(sys *system, p1, p2 sketch.EntityID, scale float64) map[int][]float64 {
	m := map[int][]float64{}
	if col, ok := sys.col(p1, "x"); ok {
		m[col] = []float64{-scale, 0}
	}
	if col, ok := sys.col(p1, "y"); ok {
		m[col] = []float64{0, -scale}
	}
	if col, ok := sys.col(p2, "x"); ok {
		if existing, found := m[col]; found {
			existing[0] += scale
		} else {
			m[col] = []float64{scale, 0}
		}
	}
	if col, ok := sys.col(p2, "y"); ok {
		if existing, found := m[col]; found {
			existing[1] += scale
		} else {
			m[col] = []float64{0, scale}
		}
	}
	return m
}
