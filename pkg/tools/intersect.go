package tools

import (
	"math"

	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
)

// entityEndpoints returns the world-sketch endpoints of a Line or Arc;
// ok is false for Point/Circle/Ellipse.
func entityEndpoints(sk *sketch.Sketch, e *sketch.Entity) (a, b geom2d.Vec2, ok bool) {
	switch e.Type {
	case sketch.TypeLine:
		sp, ep := sk.Entity(e.Start), sk.Entity(e.End)
		if sp == nil || ep == nil {
			return geom2d.Vec2{}, geom2d.Vec2{}, false
		}
		return sp.Pos, ep.Pos, true
	case sketch.TypeArc:
		cp := sk.Entity(e.Center)
		if cp == nil {
			return geom2d.Vec2{}, geom2d.Vec2{}, false
		}
		start := cp.Pos.Add(geom2d.Vec2{X: math.Cos(e.StartAngle), Y: math.Sin(e.StartAngle)}.Scale(e.Radius))
		end := cp.Pos.Add(geom2d.Vec2{X: math.Cos(e.EndAngle), Y: math.Sin(e.EndAngle)}.Scale(e.Radius))
		return start, end, true
	default:
		return geom2d.Vec2{}, geom2d.Vec2{}, false
	}
}

func paramOf(a, b, p geom2d.Vec2) float64 {
	ab := b.Sub(a)
	lenSq := ab.LengthSq()
	if lenSq < 1e-18 {
		return 0
	}
	return p.Sub(a).Dot(ab) / lenSq
}

// typeRank orders entity types for pair canonicalization so each
// type-pair combination is only handled once.
func typeRank(t sketch.EntityType) int {
	switch t {
	case sketch.TypeLine:
		return 0
	case sketch.TypeCircle:
		return 1
	case sketch.TypeArc:
		return 2
	case sketch.TypeEllipse:
		return 3
	default:
		return 99
	}
}

// sampleCurve returns a polyline approximation used as the uniform
// fallback when either side of an intersection pair is an ellipse, which
// has no closed-form intersection formula here (mentions
// "line/ellipse, etc." among supported pairs; every pair is handled, but
// ellipse pairs go through sampling rather than an exact solver).
func sampleCurve(sk *sketch.Sketch, e *sketch.Entity) []geom2d.Vec2 {
	switch e.Type {
	case sketch.TypeLine:
		a, b, ok := entityEndpoints(sk, e)
		if !ok {
			return nil
		}
		return []geom2d.Vec2{a, b}
	case sketch.TypeArc:
		cp := sk.Entity(e.Center)
		if cp == nil {
			return nil
		}
		return geom2d.SampleArc(cp.Pos, e.Radius, e.StartAngle, e.EndAngle, 48)
	case sketch.TypeCircle:
		cp := sk.Entity(e.Center)
		if cp == nil {
			return nil
		}
		pts := geom2d.SampleCircle(cp.Pos, e.Radius, 64)
		return append(pts, pts[0])
	case sketch.TypeEllipse:
		cp := sk.Entity(e.Center)
		if cp == nil {
			return nil
		}
		pts := geom2d.SampleEllipse(cp.Pos, e.MajorRadius, e.MinorRadius, e.Rotation, 64)
		return append(pts, pts[0])
	default:
		return nil
	}
}

// sampledIntersect intersects two curves by their polyline
// approximations, deduplicating points within 1e-6.
func sampledIntersect(sk *sketch.Sketch, a, b *sketch.Entity) []geom2d.Vec2 {
	pa := sampleCurve(sk, a)
	pb := sampleCurve(sk, b)
	if len(pa) < 2 || len(pb) < 2 {
		return nil
	}
	var out []geom2d.Vec2
	for i := 0; i+1 < len(pa); i++ {
		for j := 0; j+1 < len(pb); j++ {
			if pt, ok := geom2d.SegmentSegmentIntersect(pa[i], pa[i+1], pb[j], pb[j+1]); ok {
				out = appendDedup(out, pt, 1e-6)
			}
		}
	}
	return out
}

func appendDedup(pts []geom2d.Vec2, p geom2d.Vec2, tol float64) []geom2d.Vec2 {
	for _, q := range pts {
		if q.NearlyEqual(p, tol) {
			return pts
		}
	}
	return append(pts, p)
}

// intersectEntities returns every point where a and b cross, using an
// exact pairwise solver for line/circle/arc combinations (// "line/line, line/circle, circle/circle, line/arc, line/ellipse, etc."
// — matching pair solvers, hits restricted to arc angular extents) and a
// sampled fallback whenever either side is an ellipse.
func intersectEntities(sk *sketch.Sketch, e1, e2 *sketch.Entity) []geom2d.Vec2 {
	x, y := e1, e2
	if typeRank(y.Type) < typeRank(x.Type) {
		x, y = y, x
	}

	if x.Type == sketch.TypeEllipse || y.Type == sketch.TypeEllipse {
		return sampledIntersect(sk, x, y)
	}

	switch {
	case x.Type == sketch.TypeLine && y.Type == sketch.TypeLine:
		a1, a2, ok1 := entityEndpoints(sk, x)
		b1, b2, ok2 := entityEndpoints(sk, y)
		if !ok1 || !ok2 {
			return nil
		}
		if pt, ok := geom2d.SegmentSegmentIntersect(a1, a2, b1, b2); ok {
			return []geom2d.Vec2{pt}
		}
		return nil

	case x.Type == sketch.TypeLine && y.Type == sketch.TypeCircle:
		return lineCircleHits(sk, x, y, nil)

	case x.Type == sketch.TypeLine && y.Type == sketch.TypeArc:
		return lineCircleHits(sk, x, y, y)

	case x.Type == sketch.TypeCircle && y.Type == sketch.TypeCircle:
		return circleCircleHits(sk, x, y, nil, nil)

	case x.Type == sketch.TypeCircle && y.Type == sketch.TypeArc:
		return circleCircleHits(sk, x, y, nil, y)

	case x.Type == sketch.TypeArc && y.Type == sketch.TypeArc:
		return circleCircleHits(sk, x, y, x, y)

	default:
		return nil
	}
}

func lineCircleHits(sk *sketch.Sketch, line, circ *sketch.Entity, arcFilter *sketch.Entity) []geom2d.Vec2 {
	a, b, ok := entityEndpoints(sk, line)
	if !ok {
		return nil
	}
	cp := sk.Entity(circ.Center)
	if cp == nil {
		return nil
	}
	hits := geom2d.LineCircleIntersect(a, b, cp.Pos, circ.Radius)
	var out []geom2d.Vec2
	for _, h := range hits {
		t := paramOf(a, b, h)
		if t < -1e-9 || t > 1+1e-9 {
			continue
		}
		if arcFilter != nil {
			angle := h.Sub(cp.Pos).Angle()
			if !geom2d.AngleInSweep(angle, arcFilter.StartAngle, arcFilter.EndAngle) {
				continue
			}
		}
		out = append(out, h)
	}
	return out
}

func circleCircleHits(sk *sketch.Sketch, a, b *sketch.Entity, arcA, arcB *sketch.Entity) []geom2d.Vec2 {
	ca, cb := sk.Entity(a.Center), sk.Entity(b.Center)
	if ca == nil || cb == nil {
		return nil
	}
	hits := geom2d.CircleCircleIntersect(ca.Pos, a.Radius, cb.Pos, b.Radius)
	var out []geom2d.Vec2
	for _, h := range hits {
		if arcA != nil {
			angle := h.Sub(ca.Pos).Angle()
			if !geom2d.AngleInSweep(angle, arcA.StartAngle, arcA.EndAngle) {
				continue
			}
		}
		if arcB != nil {
			angle := h.Sub(cb.Pos).Angle()
			if !geom2d.AngleInSweep(angle, arcB.StartAngle, arcB.EndAngle) {
				continue
			}
		}
		out = append(out, h)
	}
	return out
}
