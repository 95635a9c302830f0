package loop

import (
	"fmt"
	"math"

	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
)

// eligibleEdges returns every non-construction edge-like entity that
// participates in detection: every entity in sel if non-empty, otherwise
// every non-construction Line/Arc/Circle/Ellipse in the sketch.
// Construction geometry is a drawing aid and never contributes edges to
// face extraction.
func eligibleEdges(sk *sketch.Sketch, sel Selection) []*sketch.Entity {
	var out []*sketch.Entity
	for _, e := range sk.Entities() {
		if e.Type == sketch.TypePoint {
			continue
		}
		if len(sel) > 0 && !sel[e.ID] {
			continue
		}
		if e.Construction {
			continue
		}
		out = append(out, e)
	}
	return out
}

// arcEndpoints returns the world-sketch positions of an arc's start and
// end, computed from its center/radius/angles (arcs reference only a
// center point, not explicit endpoint entities).
func arcEndpoints(sk *sketch.Sketch, e *sketch.Entity) (start, end geom2d.Vec2, ok bool) {
	cp := sk.Entity(e.Center)
	if cp == nil {
		return geom2d.Vec2{}, geom2d.Vec2{}, false
	}
	start = cp.Pos.Add(geom2d.Vec2{X: math.Cos(e.StartAngle), Y: math.Sin(e.StartAngle)}.Scale(e.Radius))
	end = cp.Pos.Add(geom2d.Vec2{X: math.Cos(e.EndAngle), Y: math.Sin(e.EndAngle)}.Scale(e.Radius))
	return start, end, true
}

// entityEndpoints returns the two endpoint positions of an open edge-like
// entity (Line or Arc). ok is false for closed curves (Circle, Ellipse)
// and non-edges (Point).
func entityEndpoints(sk *sketch.Sketch, e *sketch.Entity) (a, b geom2d.Vec2, ok bool) {
	switch e.Type {
	case sketch.TypeLine:
		sp, ep := sk.Entity(e.Start), sk.Entity(e.End)
		if sp == nil || ep == nil {
			return geom2d.Vec2{}, geom2d.Vec2{}, false
		}
		return sp.Pos, ep.Pos, true
	case sketch.TypeArc:
		return arcEndpoints(sk, e)
	default:
		return geom2d.Vec2{}, geom2d.Vec2{}, false
	}
}

// buildGraph constructs the adjacency graph over eligible edges: nodes
// are endpoint coordinates deduplicated within tol, edges connect them
// (step 1). Closed curves (Circle, Ellipse) get a
// single self-loop edge with no distinct endpoints.
func buildGraph(sk *sketch.Sketch, edges []*sketch.Entity, tol float64) *detectorGraph {
	g := &detectorGraph{}
	nodeKey := map[string]nodeID{}

	register := func(pos geom2d.Vec2, pointID sketch.EntityID) nodeID {
		key := roundKey(pos, tol)
		if id, ok := nodeKey[key]; ok {
			if pointID != "" && g.nodes[id].pointID == "" {
				g.nodes[id].pointID = pointID
			}
			return id
		}
		id := nodeID(len(g.nodes))
		g.nodes = append(g.nodes, node{pos: pos, pointID: pointID})
		nodeKey[key] = id
		return id
	}

	for _, e := range edges {
		switch e.Type {
		case sketch.TypeCircle, sketch.TypeEllipse:
			g.edges = append(g.edges, graphEdge{entityID: e.ID, closedCurve: true})
		case sketch.TypeLine:
			a, b, ok := entityEndpoints(sk, e)
			if !ok {
				continue
			}
			na := register(a, e.Start)
			nb := register(b, e.End)
			g.edges = append(g.edges, graphEdge{a: na, b: nb, entityID: e.ID})
		case sketch.TypeArc:
			a, b, ok := entityEndpoints(sk, e)
			if !ok {
				continue
			}
			na := register(a, "")
			nb := register(b, "")
			g.edges = append(g.edges, graphEdge{a: na, b: nb, entityID: e.ID})
		}
	}
	return g
}

// roundKey buckets a position into a lexicographic string key at the
// resolution of tol, the same coordinate-keyed deduplication style used
// for the spatial hash's grid buckets (pkg/snap/spatialhash.go).
func roundKey(p geom2d.Vec2, tol float64) string {
	if tol <= 0 {
		tol = 1e-4
	}
	inv := 1 / tol
	rx := math.Round(p.X * inv)
	ry := math.Round(p.Y * inv)
	return fmt.Sprintf("%.0f:%.0f", rx, ry)
}

// degree returns the number of non-closed-curve graph edges touching n.
func (g *detectorGraph) degree(n nodeID) int {
	d := 0
	for _, e := range g.edges {
		if e.closedCurve {
			continue
		}
		if e.a == n || e.b == n {
			d++
		}
	}
	return d
}

// other returns the node at the far end of e from n.
func (e graphEdge) other(n nodeID) nodeID {
	if e.a == n {
		return e.b
	}
	return e.a
}
