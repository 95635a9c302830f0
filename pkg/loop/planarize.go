package loop

import (
	"fmt"
	"math"
	"sort"

	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
)

// segment is one straight approximation of part of an entity, carrying
// the originating entity ID so half-edges can be labeled back to it.
type segment struct {
	a, b geom2d.Vec2
	entityID sketch.EntityID
}

// approximate returns a segment chain approximating e (step
// 2): Line contributes one segment, Arc a sweep-proportional count
// (minimum cfg.ArcSegments), Circle cfg.CircleSegments, Ellipse
// cfg.FallbackSegmentsPerCurve.
func approximate(sk *sketch.Sketch, e *sketch.Entity, cfg *Config) []segment {
	switch e.Type {
	case sketch.TypeLine:
		a, b, ok := entityEndpoints(sk, e)
		if !ok {
			return nil
		}
		return []segment{{a: a, b: b, entityID: e.ID}}
	case sketch.TypeArc:
		cp := sk.Entity(e.Center)
		if cp == nil {
			return nil
		}
		sweep := geom2d.SweepCCW(e.StartAngle, e.EndAngle)
		n := cfg.ArcSegments
		if byDensity := int(math.Ceil(sweep / (math.Pi / 16))); byDensity > n {
			n = byDensity
		}
		pts := geom2d.SampleArc(cp.Pos, e.Radius, e.StartAngle, e.EndAngle, n)
		return chain(pts, e.ID)
	case sketch.TypeCircle:
		cp := sk.Entity(e.Center)
		if cp == nil {
			return nil
		}
		pts := geom2d.SampleCircle(cp.Pos, e.Radius, cfg.CircleSegments)
		pts = append(pts, pts[0])
		return chain(pts, e.ID)
	case sketch.TypeEllipse:
		cp := sk.Entity(e.Center)
		if cp == nil {
			return nil
		}
		pts := geom2d.SampleEllipse(cp.Pos, e.MajorRadius, e.MinorRadius, e.Rotation, cfg.FallbackSegmentsPerCurve)
		pts = append(pts, pts[0])
		return chain(pts, e.ID)
	default:
		return nil
	}
}

func chain(pts []geom2d.Vec2, id sketch.EntityID) []segment {
	segs := make([]segment, 0, len(pts)-1)
	for i := 0; i+1 < len(pts); i++ {
		segs = append(segs, segment{a: pts[i], b: pts[i+1], entityID: id})
	}
	return segs
}

// splitSegmentsAtIntersections tests every pair of segments for a proper
// intersection, adds each intersection parameter as a split point on
// both segments, and subdivides each segment at its own unique split
// parameters (step 2).
func splitSegmentsAtIntersections(segs []segment) []segment {
	type splits struct {
		ts []float64
	}
	extra := make([]splits, len(segs))

	for i := 0; i < len(segs); i++ {
		for j := i + 1; j < len(segs); j++ {
			if segs[i].entityID == segs[j].entityID {
				continue
			}
			pt, ok := geom2d.SegmentSegmentIntersect(segs[i].a, segs[i].b, segs[j].a, segs[j].b)
			if !ok {
				continue
			}
			ti := paramOf(segs[i].a, segs[i].b, pt)
			tj := paramOf(segs[j].a, segs[j].b, pt)
			if ti > 1e-9 && ti < 1-1e-9 {
				extra[i].ts = append(extra[i].ts, ti)
			}
			if tj > 1e-9 && tj < 1-1e-9 {
				extra[j].ts = append(extra[j].ts, tj)
			}
		}
	}

	var out []segment
	for i, s := range segs {
		ts := append([]float64{0}, extra[i].ts...)
		ts = append(ts, 1)
		sort.Float64s(ts)
		ts = dedupSorted(ts, 1e-9)
		for k := 0; k+1 < len(ts); k++ {
			out = append(out, segment{
				a: s.a.Lerp(s.b, ts[k]),
				b: s.a.Lerp(s.b, ts[k+1]),
				entityID: s.entityID,
			})
		}
	}
	return out
}

func paramOf(a, b, p geom2d.Vec2) float64 {
	ab := b.Sub(a)
	lenSq := ab.LengthSq()
	if lenSq < 1e-18 {
		return 0
	}
	return p.Sub(a).Dot(ab) / lenSq
}

func dedupSorted(ts []float64, tol float64) []float64 {
	out := ts[:0:0]
	for _, t := range ts {
		if len(out) > 0 && t-out[len(out)-1] < tol {
			continue
		}
		out = append(out, t)
	}
	return out
}

// planarizedGraph rebuilds the adjacency graph from segment
// approximations rather than raw entity endpoints, coalescing duplicate
// edges (coincident endpoints within tol in either direction) by a
// lexicographic key on rounded node positions (step 2).
func planarizedGraph(sk *sketch.Sketch, edges []*sketch.Entity, cfg *Config) *detectorGraph {
	var segs []segment
	for _, e := range edges {
		segs = append(segs, approximate(sk, e, cfg)...)
	}
	segs = splitSegmentsAtIntersections(segs)

	g := &detectorGraph{}
	nodeKey := map[string]nodeID{}
	register := func(pos geom2d.Vec2) nodeID {
		key := roundKey(pos, cfg.CoincidenceTolerance)
		if id, ok := nodeKey[key]; ok {
			return id
		}
		id := nodeID(len(g.nodes))
		g.nodes = append(g.nodes, node{pos: pos})
		nodeKey[key] = id
		return id
	}

	seenEdge := map[string]bool{}
	for _, s := range segs {
		a := register(s.a)
		b := register(s.b)
		if a == b {
			continue
		}
		key := edgeKey(a, b)
		if seenEdge[key] {
			continue
		}
		seenEdge[key] = true
		g.edges = append(g.edges, graphEdge{a: a, b: b, entityID: s.entityID})
	}

	// Restore original Point-entity metadata on nodes that coincide with
	// a real point, so byproduct reporting and region translation can
	// still reach the underlying point ID.
	for _, e := range sk.Entities() {
		if e.Type != sketch.TypePoint {
			continue
		}
		key := roundKey(e.Pos, cfg.CoincidenceTolerance)
		if id, ok := nodeKey[key]; ok {
			g.nodes[id].pointID = e.ID
		}
	}
	return g
}

func edgeKey(a, b nodeID) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}
