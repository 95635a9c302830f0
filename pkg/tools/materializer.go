package tools

import (
	"math"
	"sort"

	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
)

// Materialize scans every other non-construction edge-like entity for
// intersections against newID, clusters the hits within
// cfg.ClusterToleranceMM, and splits every crossed Line/Arc at each
// cluster, processing splits in descending parameter order so each split
// operates on the still-intact remainder of its entity. Circles and
// ellipses are never split. Each split inserts its own point, so a
// cluster crossing N splittable entities leaves N coincident points; an
// existing point is reused only for a cluster with no splittable entity,
// which otherwise gets one new point. Returns the split segments and the
// points created for such non-splittable clusters, in creation order; the
// points inserted by the splits themselves are not included.
func Materialize(sk *sketch.Sketch, newID sketch.EntityID, cfg *Config) []sketch.EntityID {
	subject := sk.Entity(newID)
	if subject == nil || subject.Type == sketch.TypePoint {
		return nil
	}

	others := eligibleEdges(sk, newID)

	type hit struct {
		pos geom2d.Vec2
		entities [2]sketch.EntityID
	}
	var hits []hit
	for _, other := range others {
		for _, pos := range intersectEntities(sk, subject, other) {
			hits = append(hits, hit{pos: pos, entities: [2]sketch.EntityID{subject.ID, other.ID}})
		}
	}
	if len(hits) == 0 {
		return nil
	}

	tol := cfg.ClusterToleranceMM
	if tol <= 0 {
		tol = 0.01
	}

	type cluster struct {
		sum geom2d.Vec2
		n int
		edges map[sketch.EntityID]bool
	}
	var clusters []*cluster
	for _, h := range hits {
		var target *cluster
		for _, c := range clusters {
			centroid := c.sum.Scale(1 / float64(c.n))
			if centroid.Distance(h.pos) <= tol {
				target = c
				break
			}
		}
		if target == nil {
			target = &cluster{edges: map[sketch.EntityID]bool{}}
			clusters = append(clusters, target)
		}
		target.sum = target.sum.Add(h.pos)
		target.n++
		target.edges[h.entities[0]] = true
		target.edges[h.entities[1]] = true
	}

	type pendingSplit struct {
		pos geom2d.Vec2
		param float64
	}
	splitsByEntity := map[sketch.EntityID][]pendingSplit{}
	var created []sketch.EntityID

	for _, c := range clusters {
		pos := c.sum.Scale(1 / float64(c.n))
		splittable := false
		for eid := range c.edges {
			e := sk.Entity(eid)
			if e == nil || (e.Type != sketch.TypeLine && e.Type != sketch.TypeArc) {
				continue
			}
			splittable = true
			param := splitParam(sk, e, pos)
			splitsByEntity[eid] = append(splitsByEntity[eid], pendingSplit{pos: pos, param: param})
		}
		// A split inserts its own shared point at pos; only clusters with
		// no splittable entity (e.g. circle/circle) need one materialized
		// directly.
		if !splittable {
			ptID := sk.FindNearest(pos, tol, sketch.EntityFilter{sketch.TypePoint: true})
			if ptID == "" {
				ptID = sk.AddPoint(pos.X, pos.Y, false)
				created = append(created, ptID)
			}
		}
	}

	for eid, pts := range splitsByEntity {
		sort.Slice(pts, func(i, j int) bool { return pts[i].param > pts[j].param })
		current := eid
		for _, sp := range pts {
			e := sk.Entity(current)
			if e == nil {
				break
			}
			var left, right sketch.EntityID
			switch e.Type {
			case sketch.TypeLine:
				left, right = sk.SplitLineAt(current, sp.pos)
			case sketch.TypeArc:
				cp := sk.Entity(e.Center)
				if cp == nil {
					break
				}
				angle := sp.pos.Sub(cp.Pos).Angle()
				left, right = sk.SplitArcAt(current, angle)
			default:
				break
			}
			if left == "" {
				break
			}
			created = append(created, left, right)
			current = left
		}
	}
	return created
}

// eligibleEdges returns every non-construction edge-like entity other
// than exclude.
func eligibleEdges(sk *sketch.Sketch, exclude sketch.EntityID) []*sketch.Entity {
	var out []*sketch.Entity
	for _, e := range sk.Entities() {
		if e.ID == exclude || e.Type == sketch.TypePoint || e.Construction {
			continue
		}
		out = append(out, e)
	}
	return out
}

// splitParam returns the line parameter in [0,1] or, for an arc, the
// fraction of its sweep from the start angle, used only to order splits on the
// same entity from far end to near end.
func splitParam(sk *sketch.Sketch, e *sketch.Entity, pos geom2d.Vec2) float64 {
	switch e.Type {
	case sketch.TypeLine:
		a, b, ok := entityEndpoints(sk, e)
		if !ok {
			return 0
		}
		return paramOf(a, b, pos)
	case sketch.TypeArc:
		cp := sk.Entity(e.Center)
		if cp == nil {
			return 0
		}
		angle := pos.Sub(cp.Pos).Angle()
		return geom2d.SweepCCW(e.StartAngle, angle) / math.Max(geom2d.SweepCCW(e.StartAngle, e.EndAngle), 1e-9)
	default:
		return 0
	}
}
