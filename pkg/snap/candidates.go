package snap

import (
	"math"
	"sort"

	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
)

// ExternalGeometry is projected 3D geometry (from the active layer) that
// participates in ActiveLayer3D snaps. It is populated by an external
// collaborator; this package never constructs it.
type ExternalGeometry struct {
	Points []geom2d.Vec2
	Lines [][2]geom2d.Vec2
}

func considered(id sketch.EntityID, exclude map[sketch.EntityID]bool, filter map[sketch.EntityID]bool) bool {
	if exclude[id] {
		return false
	}
	if filter != nil && !filter[id] {
		return false
	}
	return true
}

func (r *Resolver) findVertexSnaps(sk *sketch.Sketch, cursor geom2d.Vec2, exclude, filter map[sketch.EntityID]bool, radius float64, out *[]Result) {
	for _, e := range sk.Entities() {
		if e.Type != sketch.TypePoint || !considered(e.ID, exclude, filter) {
			continue
		}
		d := cursor.Distance(e.Pos)
		if d <= radius {
			*out = append(*out, Result{Snapped: true, Type: TypeVertex, Position: e.Pos, EntityID: e.ID, PointID: e.ID, Distance: d, HintText: TypeVertex.HintText()})
		}
	}
}

func (r *Resolver) findEndpointSnaps(sk *sketch.Sketch, cursor geom2d.Vec2, exclude, filter map[sketch.EntityID]bool, radius float64, out *[]Result) {
	for _, e := range sk.Entities() {
		if !considered(e.ID, exclude, filter) {
			continue
		}
		switch e.Type {
		case sketch.TypeLine:
			for _, pid := range []sketch.EntityID{e.Start, e.End} {
				p := sk.Entity(pid)
				if p == nil {
					continue
				}
				d := cursor.Distance(p.Pos)
				if d <= radius {
					*out = append(*out, Result{Snapped: true, Type: TypeEndpoint, Position: p.Pos, EntityID: e.ID, PointID: pid, Distance: d, HintText: TypeEndpoint.HintText()})
				}
			}
		case sketch.TypeArc:
			cp := sk.Entity(e.Center)
			if cp == nil {
				continue
			}
			for _, angle := range []float64{e.StartAngle, e.EndAngle} {
				pos := cp.Pos.Add(geom2d.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(e.Radius))
				d := cursor.Distance(pos)
				if d <= radius {
					*out = append(*out, Result{Snapped: true, Type: TypeEndpoint, Position: pos, EntityID: e.ID, Distance: d, HintText: TypeEndpoint.HintText()})
				}
			}
		}
	}
}

func (r *Resolver) findMidpointSnaps(sk *sketch.Sketch, cursor geom2d.Vec2, exclude, filter map[sketch.EntityID]bool, radius float64, out *[]Result) {
	for _, e := range sk.Entities() {
		if e.Type != sketch.TypeLine || !considered(e.ID, exclude, filter) {
			continue
		}
		sp, ep := sk.Entity(e.Start), sk.Entity(e.End)
		if sp == nil || ep == nil {
			continue
		}
		mid := sp.Pos.Lerp(ep.Pos, 0.5)
		d := cursor.Distance(mid)
		if d <= radius {
			*out = append(*out, Result{Snapped: true, Type: TypeMidpoint, Position: mid, EntityID: e.ID, Distance: d, HintText: TypeMidpoint.HintText()})
		}
	}
}

func (r *Resolver) findCenterSnaps(sk *sketch.Sketch, cursor geom2d.Vec2, exclude, filter map[sketch.EntityID]bool, radius float64, out *[]Result) {
	for _, e := range sk.Entities() {
		if (e.Type != sketch.TypeArc && e.Type != sketch.TypeCircle && e.Type != sketch.TypeEllipse) || !considered(e.ID, exclude, filter) {
			continue
		}
		cp := sk.Entity(e.Center)
		if cp == nil {
			continue
		}
		d := cursor.Distance(cp.Pos)
		if d <= radius {
			*out = append(*out, Result{Snapped: true, Type: TypeCenter, Position: cp.Pos, EntityID: e.ID, PointID: cp.ID, Distance: d, HintText: TypeCenter.HintText()})
		}
	}
}

func (r *Resolver) findQuadrantSnaps(sk *sketch.Sketch, cursor geom2d.Vec2, exclude, filter map[sketch.EntityID]bool, radius float64, out *[]Result) {
	for _, e := range sk.Entities() {
		if e.Type != sketch.TypeCircle || !considered(e.ID, exclude, filter) {
			continue
		}
		cp := sk.Entity(e.Center)
		if cp == nil {
			continue
		}
		for _, angle := range [4]float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2} {
			pos := cp.Pos.Add(geom2d.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(e.Radius))
			d := cursor.Distance(pos)
			if d <= radius {
				*out = append(*out, Result{Snapped: true, Type: TypeQuadrant, Position: pos, EntityID: e.ID, Distance: d, HintText: TypeQuadrant.HintText()})
			}
		}
	}
}

func (r *Resolver) findGridSnap(cursor geom2d.Vec2, gridSize, radius float64, out *[]Result) {
	pos := geom2d.Vec2{
		X: math.Round(cursor.X/gridSize) * gridSize,
		Y: math.Round(cursor.Y/gridSize) * gridSize,
	}
	d := cursor.Distance(pos)
	if d <= radius {
		*out = append(*out, Result{Snapped: true, Type: TypeGrid, Position: pos, Distance: d, HintText: TypeGrid.HintText()})
	}
}

// findIntersectionSnaps tests every pair of edge-like entities for
// geometric intersection, keeping hits that lie within a cursor radius
// (and, for arcs, within the angular extent).
func (r *Resolver) findIntersectionSnaps(sk *sketch.Sketch, cursor geom2d.Vec2, exclude, filter map[sketch.EntityID]bool, radius float64, out *[]Result) {
	entities := sk.Entities()
	for i := 0; i < len(entities); i++ {
		for j := i + 1; j < len(entities); j++ {
			a, b := entities[i], entities[j]
			if !considered(a.ID, exclude, filter) || !considered(b.ID, exclude, filter) {
				continue
			}
			for _, pt := range intersectionPoints(sk, a, b) {
				d := cursor.Distance(pt)
				if d <= radius {
					*out = append(*out, Result{Snapped: true, Type: TypeIntersection, Position: pt, EntityID: a.ID, SecondEntity: b.ID, Distance: d, HintText: TypeIntersection.HintText()})
				}
			}
		}
	}
}

func intersectionPoints(sk *sketch.Sketch, a, b *sketch.Entity) []geom2d.Vec2 {
	switch {
	case a.Type == sketch.TypeLine && b.Type == sketch.TypeLine:
		sa, ea := sk.Entity(a.Start), sk.Entity(a.End)
		sb, eb := sk.Entity(b.Start), sk.Entity(b.End)
		if sa == nil || ea == nil || sb == nil || eb == nil {
			return nil
		}
		if p, ok := geom2d.SegmentSegmentIntersect(sa.Pos, ea.Pos, sb.Pos, eb.Pos); ok {
			return []geom2d.Vec2{p}
		}
	case a.Type == sketch.TypeLine && (b.Type == sketch.TypeCircle || b.Type == sketch.TypeArc):
		return lineCurveIntersections(sk, a, b)
	case b.Type == sketch.TypeLine && (a.Type == sketch.TypeCircle || a.Type == sketch.TypeArc):
		return lineCurveIntersections(sk, b, a)
	case (a.Type == sketch.TypeCircle || a.Type == sketch.TypeArc) && (b.Type == sketch.TypeCircle || b.Type == sketch.TypeArc):
		ca, ra, ok1 := circleData(sk, a)
		cb, rb, ok2 := circleData(sk, b)
		if !ok1 || !ok2 {
			return nil
		}
		raw := geom2d.CircleCircleIntersect(ca, ra, cb, rb)
		pts := []geom2d.Vec2{}
		for _, p := range raw {
			if withinArcIfArc(a, ca, p) && withinArcIfArc(b, cb, p) {
				pts = append(pts, p)
			}
		}
		return pts
	}
	return nil
}

func circleData(sk *sketch.Sketch, e *sketch.Entity) (geom2d.Vec2, float64, bool) {
	cp := sk.Entity(e.Center)
	if cp == nil {
		return geom2d.Vec2{}, 0, false
	}
	return cp.Pos, e.Radius, true
}

func withinArcIfArc(e *sketch.Entity, center, p geom2d.Vec2) bool {
	if e.Type != sketch.TypeArc {
		return true
	}
	angle := p.Sub(center).Angle()
	return geom2d.AngleInSweep(angle, e.StartAngle, e.EndAngle)
}

func lineCurveIntersections(sk *sketch.Sketch, line, curve *sketch.Entity) []geom2d.Vec2 {
	sp, ep := sk.Entity(line.Start), sk.Entity(line.End)
	if sp == nil || ep == nil {
		return nil
	}
	center, radius, ok := circleData(sk, curve)
	if !ok {
		return nil
	}
	raw := geom2d.LineCircleIntersect(sp.Pos, ep.Pos, center, radius)
	var pts []geom2d.Vec2
	for _, p := range raw {
		if withinArcIfArc(curve, center, p) {
			pts = append(pts, p)
		}
	}
	return pts
}

func (r *Resolver) findOnCurveSnaps(sk *sketch.Sketch, cursor geom2d.Vec2, exclude, filter map[sketch.EntityID]bool, radius float64, out *[]Result) {
	for _, e := range sk.Entities() {
		if !considered(e.ID, exclude, filter) {
			continue
		}
		var pos geom2d.Vec2
		var d float64
		var ok bool
		switch e.Type {
		case sketch.TypeLine:
			sp, ep := sk.Entity(e.Start), sk.Entity(e.End)
			if sp == nil || ep == nil {
				continue
			}
			pos = geom2d.ClosestPointOnSegment(cursor, sp.Pos, ep.Pos)
			d = cursor.Distance(pos)
			ok = true
		case sketch.TypeCircle, sketch.TypeArc:
			center, radius2, exists := circleData(sk, e)
			if !exists {
				continue
			}
			dir := cursor.Sub(center).Normalized()
			pos = center.Add(dir.Scale(radius2))
			if e.Type == sketch.TypeArc && !geom2d.AngleInSweep(pos.Sub(center).Angle(), e.StartAngle, e.EndAngle) {
				continue
			}
			d = cursor.Distance(pos)
			ok = true
		}
		if ok && d <= radius {
			*out = append(*out, Result{Snapped: true, Type: TypeOnCurve, Position: pos, EntityID: e.ID, Distance: d, HintText: TypeOnCurve.HintText()})
		}
	}
}

// sortDeterministic sorts candidates by priority, then distance, then
// entity/point ID, so ties resolve identically across repeated calls on
// unchanged input (ambiguity requirement).
func sortDeterministic(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Type != results[j].Type {
			return results[i].Type < results[j].Type
		}
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		if results[i].EntityID != results[j].EntityID {
			return results[i].EntityID < results[j].EntityID
		}
		return results[i].PointID < results[j].PointID
	})
}
