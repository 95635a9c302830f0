package loop

import (
	"sort"

	"github.com/onecad/sketchcore/pkg/geom2d"
)

// halfEdge is one directed traversal of a graphEdge.
type halfEdge struct {
	from, to nodeID
	edgeIdx int // index into detectorGraph.edges
	forward bool
}

// twinIndex returns the companion half-edge's index in the flat
// half-edge slice produced by buildHalfEdges (edges are emitted in
// (forward, reverse) pairs).
func twinIndex(i int) int {
	if i%2 == 0 {
		return i + 1
	}
	return i - 1
}

// buildHalfEdges emits two opposite half-edges per graph edge and, for
// each node, the angularly-sorted (CCW) list of outgoing half-edge
// indices (step 3). closedCurve edges (Circle, Ellipse) are
// excluded: they have no distinct endpoints. The planarized graph this
// is built from contains none, since it carries curves as segment chains.
func buildHalfEdges(g *detectorGraph) (halfEdges []halfEdge, outgoing [][]int) {
	halfEdges = make([]halfEdge, 0, 2*len(g.edges))
	outgoing = make([][]int, len(g.nodes))

	for ei, e := range g.edges {
		if e.closedCurve {
			continue
		}
		halfEdges = append(halfEdges,
			halfEdge{from: e.a, to: e.b, edgeIdx: ei, forward: true},
			halfEdge{from: e.b, to: e.a, edgeIdx: ei, forward: false},
		)
	}
	for i, he := range halfEdges {
		outgoing[he.from] = append(outgoing[he.from], i)
	}
	for n, idxs := range outgoing {
		origin := g.nodes[n].pos
		sort.Slice(idxs, func(i, j int) bool {
			ai := halfEdges[idxs[i]].to
			aj := halfEdges[idxs[j]].to
			angI := g.nodes[ai].pos.Sub(origin).Angle()
			angJ := g.nodes[aj].pos.Sub(origin).Angle()
			return angI < angJ
		})
		outgoing[n] = idxs
	}
	return halfEdges, outgoing
}

// next implements step 3: "the next of a half-edge is the
// rotationally next outgoing at its destination, one step clockwise from
// the twin in angular order." outgoing[v] is sorted CCW (ascending
// angle); one step clockwise from an entry is the previous entry in that
// order, wrapping.
func next(halfEdges []halfEdge, outgoing [][]int, i int) int {
	v := halfEdges[i].to
	twin := twinIndex(i)
	ring := outgoing[v]
	pos := -1
	for k, idx := range ring {
		if idx == twin {
			pos = k
			break
		}
	}
	if pos < 0 {
		return -1
	}
	return ring[(pos-1+len(ring))%len(ring)]
}

// extractHalfEdgeFaces follows next from every unvisited half-edge to
// produce one loop per face boundary, discarding loops below the area
// epsilon or with fewer than 3 vertices. On the planarized graph, Circle
// and Ellipse entities arrive as segment chains and come out here as
// ordinary faces.
func extractHalfEdgeFaces(g *detectorGraph, minArea float64) []Loop {
	halfEdges, outgoing := buildHalfEdges(g)
	visited := make([]bool, len(halfEdges))

	var loops []Loop
	for start := range halfEdges {
		if visited[start] {
			continue
		}
		var seq []int
		cur := start
		closed := false
		for {
			if visited[cur] {
				break
			}
			visited[cur] = true
			seq = append(seq, cur)
			nxt := next(halfEdges, outgoing, cur)
			if nxt < 0 {
				break
			}
			cur = nxt
			if cur == start {
				closed = true
				break
			}
		}
		if !closed || len(seq) < 3 {
			continue
		}

		l := Loop{}
		for _, hi := range seq {
			he := halfEdges[hi]
			ge := g.edges[he.edgeIdx]
			l.EntityIDs = append(l.EntityIDs, ge.entityID)
			l.Forward = append(l.Forward, he.forward)
			l.Polygon = append(l.Polygon, g.nodes[he.from].pos)
		}
		area := geom2d.ShoelaceArea(l.Polygon)
		absArea := area
		if absArea < 0 {
			absArea = -absArea
		}
		if absArea <= minArea {
			continue
		}
		// Per connected component, this traversal rule produces every
		// bounded face CCW (positive) and the single unbounded
		// complement face CW (negative) with the same boundary vertices
		// reversed. Drop the negative one here; true holes are
		// identified later by geometric containment (nesting.go) and
		// reoriented CW at that point (step 5).
		if area < 0 {
			continue
		}
		l.SignedArea = area
		loops = append(loops, l)
	}
	return loops
}
